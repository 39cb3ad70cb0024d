package control

import (
	"math"

	"github.com/swinglab/pendctl/internal/state"
)

// LqrGains holds the full-state feedback coefficients. They are computed
// offline against the linearized model and supplied as constants.
type LqrGains struct {
	Kx        float64 `mapstructure:"kx"`
	KxDot     float64 `mapstructure:"kxDot"`
	Ktheta    float64 `mapstructure:"ktheta"`
	KthetaDot float64 `mapstructure:"kthetaDot"`
}

// lqrLaw applies u = -(Kx·x + Kẋ·ẋ + Kθ·(θ-π) + Kθ̇·θ̇). The velocities are
// estimated by backward finite difference across ticks, there is no separate
// observer or filter.
type lqrLaw struct {
	shared *state.SharedState
	gains  LqrGains
	dt     float64

	prevPosition float64
	prevAngle    float64
	primed       bool
}

func init() {
	register(Descriptor{
		Name:        "lqr",
		Kind:        KindStabilizing,
		Description: "Linear-quadratic regulator with finite-difference state estimation",
		Parameters: []Parameter{
			{Name: "kx", Type: "float", Default: 1.0},
			{Name: "kxDot", Type: "float", Default: 1.0},
			{Name: "ktheta", Type: "float", Default: 20.0},
			{Name: "kthetaDot", Type: "float", Default: 1.5},
		},
		New: newLqrLaw,
	})
}

func newLqrLaw(shared *state.SharedState, dt float64, params map[string]interface{}) (Law, error) {
	gains := LqrGains{Kx: 1.0, KxDot: 1.0, Ktheta: 20.0, KthetaDot: 1.5}
	if err := decodeGains(params, &gains); err != nil {
		return nil, err
	}
	return &lqrLaw{
		shared: shared,
		gains:  gains,
		dt:     dt,
	}, nil
}

func (l *lqrLaw) Name() string {
	return "lqr"
}

func (l *lqrLaw) Tick() error {
	x := l.shared.Position()
	theta := l.shared.Angle()

	if !l.primed {
		// no history yet, start with zero velocity estimates
		l.prevPosition = x
		l.prevAngle = theta
		l.primed = true
	}

	xDot := (x - l.prevPosition) / l.dt
	thetaDot := (theta - l.prevAngle) / l.dt
	l.prevPosition = x
	l.prevAngle = theta

	thetaError := theta - math.Pi

	u := -(l.gains.Kx*x +
		l.gains.KxDot*xDot +
		l.gains.Ktheta*thetaError +
		l.gains.KthetaDot*thetaDot)

	l.shared.SetControlSignal(u)
	return nil
}
