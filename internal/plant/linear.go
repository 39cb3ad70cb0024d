package plant

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/swinglab/pendctl/internal/state"
	"github.com/swinglab/pendctl/internal/util"
)

// LinearModel integrates a small-angle state-space approximation of the
// cart-pendulum, linearized about the upright equilibrium. Controllers that
// were designed against the linear model behave exactly as on paper here.
//
// The model and its A/B matrices follow the University of Michigan control
// tutorials. The internal state vector is [x, ẋ, θ−π, θ̇] with clockwise
// positive angles; the sign is flipped back when publishing so that the
// shared angle cell carries the canonical counter-clockwise form.
type LinearModel struct {
	shared *state.SharedState

	a     *mat.Dense
	b     *mat.VecDense
	state *mat.VecDense
}

func NewLinearModel(shared *state.SharedState, params Parameters, angleJitter float64, momentumJitter float64) *LinearModel {
	mCart := params.CartMass
	mPend := params.PendulumMass
	length := params.Length
	friction := params.CartFriction
	inertia := pendulumInertia

	denom := inertia*(mCart+mPend) + mCart*mPend*length*length

	a := mat.NewDense(4, 4, []float64{
		0, 1, 0, 0,
		0, -(inertia + mPend*length*length) * friction / denom, mPend * mPend * Gravity * length * length / denom, 0,
		0, 0, 0, 1,
		0, -mPend * length * friction / denom, mPend * Gravity * length * (mCart + mPend) / denom, 0,
	})

	b := mat.NewVecDense(4, []float64{
		0,
		(inertia + mPend*length*length) / denom,
		0,
		mPend * length / denom,
	})

	// clockwise-positive internal state, hence the negated jitter
	initial := mat.NewVecDense(4, []float64{
		0,
		0,
		-jitter(angleJitter),
		-jitter(momentumJitter),
	})

	return &LinearModel{
		shared: shared,
		a:      a,
		b:      b,
		state:  initial,
	}
}

// SetState overrides the internal state vector [x, ẋ, θ−π, θ̇] (clockwise positive).
func (m *LinearModel) SetState(x, xDot, thetaOffset, thetaDot float64) {
	m.state.SetVec(0, x)
	m.state.SetVec(1, xDot)
	m.state.SetVec(2, thetaOffset)
	m.state.SetVec(3, thetaDot)
}

func (m *LinearModel) Step(u float64, dt float64) {
	// state += (A·state + B·u) * dt
	var deriv mat.VecDense
	deriv.MulVec(m.a, m.state)
	deriv.AddScaledVec(&deriv, u, m.b)
	m.state.AddScaledVec(m.state, dt, &deriv)

	absoluteAngle := -(m.state.AtVec(2) + math.Pi)

	m.shared.SetPosition(m.state.AtVec(0))
	m.shared.SetAngle(util.WrapAngle(absoluteAngle))
}

func (m *LinearModel) Tick() error {
	m.Step(m.shared.ControlSignal(), Timestep)
	return nil
}
