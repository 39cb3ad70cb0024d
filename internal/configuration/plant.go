package configuration

const (
	BackendSimLinear    = "sim-linear"
	BackendSimNonlinear = "sim-nonlinear"
	BackendHardware     = "hardware"
)

type PlantConfig struct {
	// Backend selects what stands in for the physical plant:
	// sim-linear | sim-nonlinear | hardware
	Backend string `json:"backend"`

	// CartMass is the mass of the cart in kg
	CartMass float64 `json:"cartMass"`
	// PendulumMass is the mass of the pendulum in kg
	PendulumMass float64 `json:"pendulumMass"`
	// Length is the distance from the pivot to the pendulum center of mass in m
	Length float64 `json:"length"`
	// CartFriction is the viscous friction coefficient of the cart
	CartFriction float64 `json:"cartFriction"`
	// PivotDamping is the damping coefficient of the pendulum pivot
	PivotDamping float64 `json:"pivotDamping"`

	// AngleJitter is the maximum random offset applied to the initial pendulum
	// angle (radians), so the simulation never starts on the exact equilibrium
	AngleJitter float64 `json:"angleJitter"`
	// MomentumJitter is the maximum random offset applied to the initial
	// angular velocity (radians per second)
	MomentumJitter float64 `json:"momentumJitter"`
}
