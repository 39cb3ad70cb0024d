package control

import (
	"math"

	"github.com/swinglab/pendctl/internal/state"
	"github.com/swinglab/pendctl/internal/util"
)

// CascadedGains holds the tuning values of the cascaded PID law.
type CascadedGains struct {
	OuterKp float64 `mapstructure:"outerKp"`
	OuterKi float64 `mapstructure:"outerKi"`
	OuterKd float64 `mapstructure:"outerKd"`
	InnerKp float64 `mapstructure:"innerKp"`
	InnerKi float64 `mapstructure:"innerKi"`
	InnerKd float64 `mapstructure:"innerKd"`

	// Deadband is the position error magnitude below which the outer loop
	// holds a zero offset and resets its integral.
	Deadband float64 `mapstructure:"deadband"`
	// OffsetScale divides the raw outer loop output before it is converted
	// into an angle offset.
	OffsetScale float64 `mapstructure:"offsetScale"`
	// MaxControlAngleDeg freezes the inner integral whenever the angle error
	// exceeds this threshold, so it cannot wind up while the pendulum is
	// outside the linear regime.
	MaxControlAngleDeg float64 `mapstructure:"maxControlAngleDeg"`
}

// cascadedLaw nests two PID loops: the outer loop turns the cart position
// error into a desired pendulum angle close to π, the inner loop drives the
// pendulum to that desired angle. The outer loop is recomputed every tick.
type cascadedLaw struct {
	shared *state.SharedState
	gains  CascadedGains
	dt     float64

	posIntegral  float64
	posPrevError float64

	angleIntegral  float64
	anglePrevError float64
}

// maxOffsetRad clamps the desired angle to ±5° around upright.
const maxOffsetRad = 5.0 * math.Pi / 180

func init() {
	register(Descriptor{
		Name:        "cascaded",
		Kind:        KindStabilizing,
		Description: "Cascaded PID: cart position -> desired angle -> motor command",
		Parameters: []Parameter{
			{Name: "outerKp", Type: "float", Default: 1.0},
			{Name: "outerKi", Type: "float", Default: 0.0},
			{Name: "outerKd", Type: "float", Default: 0.0},
			{Name: "innerKp", Type: "float", Default: 20.0},
			{Name: "innerKi", Type: "float", Default: 0.0},
			{Name: "innerKd", Type: "float", Default: 1.0},
			{Name: "deadband", Type: "float", Default: 300.0},
			{Name: "offsetScale", Type: "float", Default: 8000.0},
			{Name: "maxControlAngleDeg", Type: "float", Default: 10.0},
		},
		New: newCascadedLaw,
	})
}

func newCascadedLaw(shared *state.SharedState, dt float64, params map[string]interface{}) (Law, error) {
	gains := CascadedGains{
		OuterKp:            1.0,
		OuterKi:            0.0,
		OuterKd:            0.0,
		InnerKp:            20.0,
		InnerKi:            0.0,
		InnerKd:            1.0,
		Deadband:           300.0,
		OffsetScale:        8000.0,
		MaxControlAngleDeg: 10.0,
	}
	if err := decodeGains(params, &gains); err != nil {
		return nil, err
	}
	return &cascadedLaw{
		shared: shared,
		gains:  gains,
		dt:     dt,
	}, nil
}

func (l *cascadedLaw) Name() string {
	return "cascaded"
}

func (l *cascadedLaw) Tick() error {
	// outer loop: cart position -> desired pendulum offset angle
	posError := 0.0 - l.shared.Position()

	var offset float64
	if math.Abs(posError) < l.gains.Deadband {
		// inside the deadband the outer loop stays quiet and sheds its integral
		offset = 0
		l.posIntegral = 0
	} else {
		l.posIntegral += posError * l.dt
		posDerivative := (posError - l.posPrevError) / l.dt
		offset = l.gains.OuterKp*posError + l.gains.OuterKi*l.posIntegral + l.gains.OuterKd*posDerivative
	}
	l.posPrevError = posError

	desiredAngle := math.Pi - offset*maxOffsetRad/l.gains.OffsetScale
	desiredAngle = util.Coerce(desiredAngle, math.Pi-maxOffsetRad, math.Pi+maxOffsetRad)
	l.shared.SetDesiredAngle(desiredAngle)

	// inner loop: pendulum angle -> motor command
	angleError := desiredAngle - l.shared.Angle()

	if math.Abs(angleError) <= util.Radians(l.gains.MaxControlAngleDeg) {
		l.angleIntegral += angleError * l.dt
	}
	angleDerivative := (angleError - l.anglePrevError) / l.dt

	output := l.gains.InnerKp*angleError + l.gains.InnerKi*l.angleIntegral + l.gains.InnerKd*angleDerivative

	l.shared.SetControlSignal(output)
	l.anglePrevError = angleError
	return nil
}
