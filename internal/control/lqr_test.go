package control

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swinglab/pendctl/internal/state"
)

func newTestLqr(t *testing.T, shared *state.SharedState, params map[string]interface{}) Law {
	law, err := NewLaw("lqr", shared, testDt, params)
	assert.NoError(t, err)
	return law
}

func TestLqrUprightAtRestIsQuiet(t *testing.T) {
	// GIVEN
	shared := state.New()
	shared.SetAngle(math.Pi)
	law := newTestLqr(t, shared, nil)

	// WHEN
	assert.NoError(t, law.Tick())
	assert.NoError(t, law.Tick())

	// THEN
	assert.InDelta(t, 0.0, shared.ControlSignal(), 1e-12)
}

func TestLqrFullStateFeedback(t *testing.T) {
	// GIVEN unit gains and a known state
	shared := state.New()
	shared.SetPosition(2.0)
	shared.SetAngle(math.Pi + 0.1)
	law := newTestLqr(t, shared, map[string]interface{}{
		"kx": 1.0, "kxDot": 1.0, "ktheta": 1.0, "kthetaDot": 1.0,
	})

	// first tick primes the velocity estimates
	assert.NoError(t, law.Tick())
	firstOutput := shared.ControlSignal()
	assert.InDelta(t, -(2.0 + 0.1), firstOutput, 1e-9)

	// WHEN position and angle move by one step
	shared.SetPosition(2.1)
	shared.SetAngle(math.Pi + 0.12)
	assert.NoError(t, law.Tick())

	// THEN finite-difference velocities enter the feedback
	xDot := 0.1 / testDt
	thetaDot := 0.02 / testDt
	expected := -(2.1 + xDot + 0.12 + thetaDot)
	assert.InDelta(t, expected, shared.ControlSignal(), 1e-9)
}

func TestLqrFirstTickHasNoVelocityKick(t *testing.T) {
	// GIVEN a nonzero initial state
	shared := state.New()
	shared.SetPosition(1.0)
	shared.SetAngle(math.Pi + 0.2)
	law := newTestLqr(t, shared, map[string]interface{}{
		"kx": 0.0, "kxDot": 100.0, "ktheta": 0.0, "kthetaDot": 100.0,
	})

	// WHEN
	assert.NoError(t, law.Tick())

	// THEN velocity estimates start at zero instead of spiking
	assert.InDelta(t, 0.0, shared.ControlSignal(), 1e-9)
}
