package plant

import (
	"github.com/swinglab/pendctl/internal/configuration"
)

const (
	// Gravity is the gravitational constant in m/s²
	Gravity = 9.81
	// Timestep is the integration timestep in seconds, matching the 10 ms control period
	Timestep = 0.01
	// pendulumInertia is the moment of inertia used by the linearized model
	pendulumInertia = 0.006
)

// Parameters is the immutable per-session description of the physical plant.
type Parameters struct {
	// CartMass in kg
	CartMass float64
	// PendulumMass in kg
	PendulumMass float64
	// Length from pivot to pendulum center of mass in m
	Length float64
	// CartFriction is the viscous friction coefficient of the cart
	CartFriction float64
	// PivotDamping is the damping coefficient of the pendulum pivot
	PivotDamping float64
}

func ParametersFromConfig(config configuration.PlantConfig) Parameters {
	return Parameters{
		CartMass:     config.CartMass,
		PendulumMass: config.PendulumMass,
		Length:       config.Length,
		CartFriction: config.CartFriction,
		PivotDamping: config.PivotDamping,
	}
}

// Model advances the simulated plant state by one timestep and publishes the
// resulting position and angle. Implementations stand in for the physical rig
// when no hardware is attached.
type Model interface {
	// Step integrates one timestep of length dt under the actuation command u.
	Step(u float64, dt float64)
	// Tick reads the current actuation command from shared state and advances
	// the model by the fixed timestep.
	Tick() error
}
