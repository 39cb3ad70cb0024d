package control

import (
	"math"

	"github.com/swinglab/pendctl/internal/state"
)

// PidGains holds the tuning values of the direct PID law.
// The simulation models stabilize well with Kp=20, Ki=0, Kd=1.
type PidGains struct {
	Kp float64 `mapstructure:"kp"`
	Ki float64 `mapstructure:"ki"`
	Kd float64 `mapstructure:"kd"`
}

// pidLaw is a single-loop regulator driving the pendulum angle to π. The cart
// position is not considered; on a finite track the cart will drift off
// eventually, which is what the cascaded variant fixes.
type pidLaw struct {
	shared *state.SharedState
	gains  PidGains
	dt     float64

	integral  float64
	prevError float64
}

func init() {
	register(Descriptor{
		Name:        "pid",
		Kind:        KindStabilizing,
		Description: "Direct PID on the pendulum angle",
		Parameters: []Parameter{
			{Name: "kp", Type: "float", Default: 20.0},
			{Name: "ki", Type: "float", Default: 0.0},
			{Name: "kd", Type: "float", Default: 1.0},
		},
		New: newPidLaw,
	})
}

func newPidLaw(shared *state.SharedState, dt float64, params map[string]interface{}) (Law, error) {
	gains := PidGains{Kp: 20.0, Ki: 0.0, Kd: 1.0}
	if err := decodeGains(params, &gains); err != nil {
		return nil, err
	}
	return &pidLaw{
		shared: shared,
		gains:  gains,
		dt:     dt,
	}, nil
}

func (l *pidLaw) Name() string {
	return "pid"
}

func (l *pidLaw) Tick() error {
	err := math.Pi - l.shared.Angle()

	l.integral += err * l.dt
	derivative := (err - l.prevError) / l.dt

	output := l.gains.Kp*err + l.gains.Ki*l.integral + l.gains.Kd*derivative

	l.shared.SetControlSignal(output)
	l.prevError = err
	return nil
}
