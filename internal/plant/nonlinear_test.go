package plant

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swinglab/pendctl/internal/state"
)

func testParameters() Parameters {
	return Parameters{
		CartMass:     0.5,
		PendulumMass: 0.2,
		Length:       0.3,
		CartFriction: 0.1,
		PivotDamping: 0.01,
	}
}

func TestNonlinearPublishesWrappedAngle(t *testing.T) {
	// GIVEN
	shared := state.New()
	model := NewNonlinearModel(shared, testParameters(), 0, 0)
	model.SetState(0, 0, 3*math.Pi, 5.0)

	// WHEN
	for i := 0; i < 500; i++ {
		model.Step(0, Timestep)

		// THEN
		angle := shared.Angle()
		assert.GreaterOrEqual(t, angle, 0.0)
		assert.Less(t, angle, 2*math.Pi)
	}
}

func TestNonlinearFreeFallFromNearUpright(t *testing.T) {
	// GIVEN a plant at rest slightly past upright, with a pendulum so light
	// that the mass-ratio correction term is negligible
	params := Parameters{
		CartMass:     10.0,
		PendulumMass: 0.05,
		Length:       0.3,
		CartFriction: 0,
		PivotDamping: 0,
	}
	shared := state.New()
	model := NewNonlinearModel(shared, params, 0, 0)
	theta := 0.05 // published angle π+0.05
	model.SetState(0, 0, theta, 0)

	// WHEN
	model.Step(0, Timestep)

	// THEN angular acceleration reduces to g·sin(θ)/(l·4/3) with all
	// friction terms inactive
	expectedThetaDot := Gravity * math.Sin(theta) / (params.Length * 4.0 / 3.0) * Timestep
	assert.InDelta(t, expectedThetaDot, model.AngularVelocity(), expectedThetaDot*0.01)
	assert.InDelta(t, math.Pi+theta, shared.Angle(), 1e-3)
}

func TestNonlinearConsumesControlSignal(t *testing.T) {
	// GIVEN
	shared := state.New()
	model := NewNonlinearModel(shared, testParameters(), 0, 0)
	model.SetState(0, 0, math.Pi, 0) // hanging down, stable
	shared.SetControlSignal(5.0)

	// WHEN
	err := model.Tick()

	// THEN the cart accelerates in the direction of the command
	assert.NoError(t, err)
	assert.Greater(t, shared.Position(), 0.0)
}

func TestNonlinearJitterStaysWithinBounds(t *testing.T) {
	// GIVEN
	shared := state.New()

	for i := 0; i < 50; i++ {
		// WHEN
		model := NewNonlinearModel(shared, testParameters(), 0.2, 0.1)

		// THEN
		assert.LessOrEqual(t, math.Abs(model.theta), 0.2)
		assert.LessOrEqual(t, math.Abs(model.thetaDot), 0.1)
	}
}

func TestNonlinearAngleContinuity(t *testing.T) {
	// GIVEN a swinging pendulum
	shared := state.New()
	model := NewNonlinearModel(shared, testParameters(), 0, 0)
	model.SetState(0, 0, 0.3, 2.0)

	prev := math.NaN()

	// WHEN integrating for several seconds
	for i := 0; i < 1000; i++ {
		model.Step(0, Timestep)
		angle := shared.Angle()

		// THEN consecutive samples are continuous modulo 2π
		if !math.IsNaN(prev) {
			diff := math.Abs(angle - prev)
			if diff > math.Pi {
				diff = 2*math.Pi - diff
			}
			assert.Less(t, diff, 0.5)
		}
		prev = angle
	}
}
