package control

import (
	"math"

	"github.com/swinglab/pendctl/internal/state"
	"github.com/swinglab/pendctl/internal/util"
)

// PhaseGains holds the tuning values of the phase based swing-up law.
type PhaseGains struct {
	// PumpForce is the constant force magnitude applied during pumping
	PumpForce float64 `mapstructure:"pumpForce"`
	// KickForce and KickTicks describe the initial symmetry-breaking kick
	KickForce float64 `mapstructure:"kickForce"`
	KickTicks int     `mapstructure:"kickTicks"`
	// MaxForce clamps the actuation command
	MaxForce float64 `mapstructure:"maxForce"`

	CatchAngle    float64 `mapstructure:"catchAngle"`
	CatchMomentum float64 `mapstructure:"catchMomentum"`
	StableTicks   int     `mapstructure:"stableTicks"`

	MaxCartRange float64 `mapstructure:"maxCartRange"`
	RangeKp      float64 `mapstructure:"rangeKp"`
	RangeKd      float64 `mapstructure:"rangeKd"`
}

// phaseSwingUpLaw is a bang-bang alternative to the energy shaping law: a
// short constant kick breaks the symmetry, then a constant pump force whose
// sign follows the (θ, θ̇) quadrant feeds the oscillation.
type phaseSwingUpLaw struct {
	shared *state.SharedState
	gains  PhaseGains
	dt     float64

	prevAngle    float64
	prevPosition float64
	primed       bool

	tickCount   int
	stableCount int
}

func init() {
	register(Descriptor{
		Name:        "phase-swingup",
		Kind:        KindSwingUp,
		Description: "Bang-bang phase swing-up with an initial kick",
		Parameters: []Parameter{
			{Name: "pumpForce", Type: "float", Default: 3.62},
			{Name: "kickForce", Type: "float", Default: 5.0},
			{Name: "kickTicks", Type: "int", Default: 30},
			{Name: "maxForce", Type: "float", Default: 10.0},
			{Name: "catchAngle", Type: "float", Default: 0.2},
			{Name: "catchMomentum", Type: "float", Default: 0.2},
			{Name: "stableTicks", Type: "int", Default: 20},
			{Name: "maxCartRange", Type: "float", Default: 0.5},
			{Name: "rangeKp", Type: "float", Default: 20.0},
			{Name: "rangeKd", Type: "float", Default: 2.0},
		},
		New: newPhaseSwingUpLaw,
	})
}

func newPhaseSwingUpLaw(shared *state.SharedState, dt float64, params map[string]interface{}) (Law, error) {
	gains := PhaseGains{
		PumpForce:     3.62,
		KickForce:     5.0,
		KickTicks:     30,
		MaxForce:      10.0,
		CatchAngle:    0.2,
		CatchMomentum: 0.2,
		StableTicks:   20,
		MaxCartRange:  0.5,
		RangeKp:       20.0,
		RangeKd:       2.0,
	}
	if err := decodeGains(params, &gains); err != nil {
		return nil, err
	}
	return &phaseSwingUpLaw{
		shared: shared,
		gains:  gains,
		dt:     dt,
	}, nil
}

func (l *phaseSwingUpLaw) Name() string {
	return "phase-swingup"
}

func (l *phaseSwingUpLaw) Tick() error {
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
	u := 0.0

	if l.tickCount < g.KickTicks {
		// initial kick against the current angular sign to break symmetry
		if theta > 0 {
			u = -g.KickForce
		} else {
			u = g.KickForce
		}
	} else {
		// symmetric pumping based on the (θ, θ̇) quadrant
		if theta < 0 && thetaDot < 0 {
			u = -g.PumpForce
		} else if theta > 0 && thetaDot > 0 {
			u = g.PumpForce
		}
		u += cartRangeCorrection(x, xDot, g.MaxCartRange, g.RangeKp, g.RangeKd)
	}

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

	l.tickCount++
	return nil
}
