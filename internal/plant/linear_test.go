package plant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swinglab/pendctl/internal/state"
)

func TestLinearEquilibriumIsStationary(t *testing.T) {
	// GIVEN a plant exactly on the upright equilibrium
	shared := state.New()
	model := NewLinearModel(shared, testParameters(), 0, 0)

	// WHEN
	for i := 0; i < 100; i++ {
		model.Step(0, Timestep)
	}

	// THEN it stays there
	assert.InDelta(t, 0.0, shared.Position(), 1e-12)
	assert.InDelta(t, math.Pi, shared.Angle(), 1e-12)
}

func TestLinearUprightIsUnstable(t *testing.T) {
	// GIVEN a small initial offset from upright
	shared := state.New()
	model := NewLinearModel(shared, testParameters(), 0, 0)
	model.SetState(0, 0, 0.01, 0)

	initialOffset := math.Abs(shared.Angle() - math.Pi)

	// WHEN integrating without control input
	for i := 0; i < 200; i++ {
		model.Step(0, Timestep)
	}

	// THEN the offset has grown
	assert.Greater(t, math.Abs(shared.Angle()-math.Pi), initialOffset)
}

func TestLinearPublishesWrappedAngle(t *testing.T) {
	// GIVEN
	shared := state.New()
	model := NewLinearModel(shared, testParameters(), 0, 0)
	model.SetState(0, 0, 0.1, 0.5)

	// WHEN
	for i := 0; i < 300; i++ {
		model.Step(0, Timestep)

		// THEN
		angle := shared.Angle()
		assert.GreaterOrEqual(t, angle, 0.0)
		assert.Less(t, angle, 2*math.Pi)
	}
}

func TestLinearControlPushesCart(t *testing.T) {
	// GIVEN
	shared := state.New()
	model := NewLinearModel(shared, testParameters(), 0, 0)
	shared.SetControlSignal(1.0)

	// WHEN
	for i := 0; i < 10; i++ {
		assert.NoError(t, model.Tick())
	}

	// THEN
	assert.Greater(t, shared.Position(), 0.0)
}

func TestLinearSignConventionMatchesCanonicalForm(t *testing.T) {
	// GIVEN an internal clockwise-positive offset
	shared := state.New()
	model := NewLinearModel(shared, testParameters(), 0, 0)
	model.SetState(0, 0, -0.1, 0)

	// WHEN
	model.Step(0, 1e-9)

	// THEN the published angle is π+0.1 in the counter-clockwise convention
	assert.InDelta(t, math.Pi+0.1, shared.Angle(), 1e-6)
}
