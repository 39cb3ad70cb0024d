package plant

import (
	"math"
	"math/rand"

	"github.com/swinglab/pendctl/internal/state"
	"github.com/swinglab/pendctl/internal/util"
)

// NonlinearModel integrates the full nonlinear cart-pendulum equations of
// motion. Unlike the linearized model it captures behaviour at large angles,
// which makes it the model of choice for swing-up experiments.
//
// Internal convention: θ = 0 is the upright equilibrium, counter-clockwise
// positive. The published angle is shifted by π so that the shared angle cell
// always carries the canonical form (0 = down, π = upright).
type NonlinearModel struct {
	shared *state.SharedState
	params Parameters

	x        float64
	xDot     float64
	theta    float64
	thetaDot float64
}

// NewNonlinearModel creates a nonlinear plant model. The initial angle and
// angular velocity are perturbed by uniform random offsets bounded by
// angleJitter and momentumJitter, so the simulation never starts exactly on
// the unstable equilibrium.
func NewNonlinearModel(shared *state.SharedState, params Parameters, angleJitter float64, momentumJitter float64) *NonlinearModel {
	return &NonlinearModel{
		shared:   shared,
		params:   params,
		theta:    jitter(angleJitter),
		thetaDot: jitter(momentumJitter),
	}
}

func jitter(bound float64) float64 {
	if bound <= 0 {
		return 0
	}
	return (rand.Float64()*2 - 1) * bound
}

// SetState overrides the internal integrator state. θ uses the internal
// upright-zero convention.
func (m *NonlinearModel) SetState(x, xDot, theta, thetaDot float64) {
	m.x = x
	m.xDot = xDot
	m.theta = theta
	m.thetaDot = thetaDot
}

// AngularVelocity returns the current angular velocity of the integrator.
func (m *NonlinearModel) AngularVelocity() float64 {
	return m.thetaDot
}

func (m *NonlinearModel) Step(u float64, dt float64) {
	p := m.params

	sinTheta := math.Sin(m.theta)
	cosTheta := math.Cos(m.theta)

	totalMass := p.CartMass + p.PendulumMass
	pendulumMassLength := p.PendulumMass * p.Length

	// cart friction acts through temp on both accelerations
	temp := (u + pendulumMassLength*m.thetaDot*m.thetaDot*sinTheta - p.CartFriction*m.xDot) / totalMass

	thetaAcc := (Gravity*sinTheta + cosTheta*temp - p.PivotDamping*m.thetaDot/pendulumMassLength) /
		(p.Length * (4.0/3.0 - (p.PendulumMass*cosTheta*cosTheta)/totalMass))

	xAcc := temp - (pendulumMassLength*thetaAcc*cosTheta)/totalMass

	// explicit Euler
	m.xDot += xAcc * dt
	m.x += m.xDot * dt
	m.thetaDot += thetaAcc * dt
	m.theta += m.thetaDot * dt

	m.shared.SetPosition(m.x)
	m.shared.SetAngle(util.WrapAngle(m.theta + math.Pi))
}

func (m *NonlinearModel) Tick() error {
	m.Step(m.shared.ControlSignal(), Timestep)
	return nil
}
