package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/swinglab/pendctl/internal/control"
	"github.com/swinglab/pendctl/internal/loop"
	"github.com/swinglab/pendctl/internal/state"
	"github.com/swinglab/pendctl/internal/ui"
)

type Stage int32

const (
	StageSwingingUp Stage = iota
	StageStabilizing
	StageStopped
)

func (s Stage) String() string {
	switch s {
	case StageSwingingUp:
		return "swinging-up"
	case StageStabilizing:
		return "stabilizing"
	case StageStopped:
		return "stopped"
	}
	return "unknown"
}

// Supervisor runs a swing-up law until it signals that the pendulum is
// caught, then hands off to a stabilizing law. The handoff is gated inside
// the swing-up law by its consecutive-success window, the supervisor only
// reacts to the completion signal.
type Supervisor struct {
	shared     *state.SharedState
	swingUp    control.Law
	stabilizer control.Law
	period     time.Duration
	// watchdog stops a swing-up that never converges. Zero disables it.
	watchdog time.Duration

	stage atomic.Int32
}

func New(shared *state.SharedState, swingUp control.Law, stabilizer control.Law, period time.Duration, watchdog time.Duration) *Supervisor {
	return &Supervisor{
		shared:     shared,
		swingUp:    swingUp,
		stabilizer: stabilizer,
		period:     period,
		watchdog:   watchdog,
	}
}

func (s *Supervisor) Stage() Stage {
	return Stage(s.stage.Load())
}

func (s *Supervisor) setStage(stage Stage) {
	s.stage.Store(int32(stage))
}

// Run drives the SwingingUp -> Stabilizing -> Stopped state machine. The
// actuation command is forced to zero on the way out, whatever the reason
// for stopping.
func (s *Supervisor) Run(ctx context.Context) error {
	defer func() {
		s.setStage(StageStopped)
		s.shared.SetControlSignal(0)
	}()

	s.setStage(StageSwingingUp)
	ui.Info("Swing-up started with '%s'", s.swingUp.Name())

	swingCtx := ctx
	if s.watchdog > 0 {
		var cancel context.CancelFunc
		swingCtx, cancel = context.WithTimeout(ctx, s.watchdog)
		defer cancel()
	}

	swingLoop := loop.NewScheduler("swing-up", s.swingUp, s.period, s.shared, true)
	err := swingLoop.Run(swingCtx)
	if err == nil {
		// stopped externally or by the watchdog before the pendulum was caught
		if errors.Is(swingCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			ui.Warning("Swing-up did not converge within %s, stopping", s.watchdog)
		}
		return nil
	}
	if !errors.Is(err, control.ErrPendulumCaught) {
		return err
	}

	ui.Info("Pendulum caught, handing off to '%s'", s.stabilizer.Name())
	s.setStage(StageStabilizing)

	stabilizeLoop := loop.NewScheduler("stabilize", s.stabilizer, s.period, s.shared, true)
	return stabilizeLoop.Run(ctx)
}
