package control

import (
	"math"

	"github.com/swinglab/pendctl/internal/state"
	"github.com/swinglab/pendctl/internal/util"
)

// EnergyGains holds the tuning values of the energy based swing-up law.
type EnergyGains struct {
	// PendulumMass and Length describe the pendulum as seen by the energy
	// computation, they must match the plant parameters.
	PendulumMass float64 `mapstructure:"pendulumMass"`
	Length       float64 `mapstructure:"length"`
	// Gain scales the energy pumping command
	Gain float64 `mapstructure:"gain"`
	// MaxForce clamps the actuation command
	MaxForce float64 `mapstructure:"maxForce"`

	// CatchAngle and CatchMomentum define the handoff window around upright
	CatchAngle    float64 `mapstructure:"catchAngle"`
	CatchMomentum float64 `mapstructure:"catchMomentum"`
	// StableTicks is the number of consecutive in-window ticks required
	// before the handoff fires, hysteresis against single-tick noise.
	StableTicks int `mapstructure:"stableTicks"`

	// MaxCartRange, RangeKp and RangeKd pull the cart back towards the center
	// once it exceeds the allowed travel.
	MaxCartRange float64 `mapstructure:"maxCartRange"`
	RangeKp      float64 `mapstructure:"rangeKp"`
	RangeKd      float64 `mapstructure:"rangeKd"`
}

// energySwingUpLaw pumps mechanical energy into the pendulum until it comes
// up near the upright region, then signals the handoff.
type energySwingUpLaw struct {
	shared *state.SharedState
	gains  EnergyGains
	dt     float64

	prevAngle    float64
	prevPosition float64
	primed       bool

	stableCount int
}

func init() {
	register(Descriptor{
		Name:        "energy-swingup",
		Kind:        KindSwingUp,
		Description: "Energy shaping swing-up with cart travel correction",
		Parameters: []Parameter{
			{Name: "pendulumMass", Type: "float", Default: 0.2},
			{Name: "length", Type: "float", Default: 0.3},
			{Name: "gain", Type: "float", Default: 10.0},
			{Name: "maxForce", Type: "float", Default: 10.0},
			{Name: "catchAngle", Type: "float", Default: 0.1},
			{Name: "catchMomentum", Type: "float", Default: 0.5},
			{Name: "stableTicks", Type: "int", Default: 20},
			{Name: "maxCartRange", Type: "float", Default: 0.5},
			{Name: "rangeKp", Type: "float", Default: 20.0},
			{Name: "rangeKd", Type: "float", Default: 2.0},
		},
		New: newEnergySwingUpLaw,
	})
}

func newEnergySwingUpLaw(shared *state.SharedState, dt float64, params map[string]interface{}) (Law, error) {
	gains := EnergyGains{
		PendulumMass:  0.2,
		Length:        0.3,
		Gain:          10.0,
		MaxForce:      10.0,
		CatchAngle:    0.1,
		CatchMomentum: 0.5,
		StableTicks:   20,
		MaxCartRange:  0.5,
		RangeKp:       20.0,
		RangeKd:       2.0,
	}
	if err := decodeGains(params, &gains); err != nil {
		return nil, err
	}
	return &energySwingUpLaw{
		shared: shared,
		gains:  gains,
		dt:     dt,
	}, nil
}

func (l *energySwingUpLaw) Name() string {
	return "energy-swingup"
}

func (l *energySwingUpLaw) Tick() error {
	angle := l.shared.Angle()
	x := l.shared.Position()

	if !l.primed {
		l.prevAngle = angle
		l.prevPosition = x
		l.primed = true
	}

	theta := angle - math.Pi
	thetaDot := (angle - l.prevAngle) / l.dt
	xDot := (x - l.prevPosition) / l.dt
	l.prevAngle = angle
	l.prevPosition = x

	g := l.gains
	// mechanical energy relative to the upright position
	potential := g.PendulumMass * 9.81 * g.Length * (1 - math.Cos(theta))
	kinetic := 0.5 * g.PendulumMass * g.Length * g.Length * thetaDot * thetaDot
	energy := potential + kinetic

	u := g.Gain * thetaDot * math.Cos(theta) * energy
	u += cartRangeCorrection(x, xDot, g.MaxCartRange, g.RangeKp, g.RangeKd)
	u = util.Coerce(u, -g.MaxForce, g.MaxForce)

	l.shared.SetControlSignal(u)

	if math.Abs(theta) < g.CatchAngle && math.Abs(thetaDot) < g.CatchMomentum && math.Abs(x) <= g.MaxCartRange {
		l.stableCount++
		if l.stableCount >= g.StableTicks {
			l.shared.SetControlSignal(0)
			return ErrPendulumCaught
		}
	} else {
		l.stableCount = 0
	}

	return nil
}

// cartRangeCorrection adds a PD pull towards the center once the cart leaves
// the allowed travel range.
func cartRangeCorrection(x, xDot, maxRange, kp, kd float64) float64 {
	if x > maxRange {
		return -kp*(x-maxRange) - kd*xDot
	}
	if x < -maxRange {
		return -kp*(x+maxRange) - kd*xDot
	}
	return 0
}
