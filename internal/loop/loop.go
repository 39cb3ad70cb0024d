package loop

import (
	"context"
	"time"

	"github.com/asecurityteam/rolling"

	"github.com/swinglab/pendctl/internal/state"
	"github.com/swinglab/pendctl/internal/ui"
)

const (
	durationWindowSize = 100
	overrunLogInterval = 100
)

// Ticker is one unit of work driven by a Scheduler at a fixed rate. The plant
// models, the hardware bridge and all control laws implement it.
type Ticker interface {
	Tick() error
}

// Scheduler drives a Ticker at a fixed period. Each tick's wall-clock
// execution time is measured and the remainder of the period is slept away.
// Missed ticks are never caught up; a persistent overrun only degrades the
// effective rate.
type Scheduler struct {
	name      string
	ticker    Ticker
	period    time.Duration
	shared    *state.SharedState
	durations *rolling.PointPolicy
	overruns  int

	// publishDuration writes the measured tick duration into the shared
	// loop-duration cell. Only one scheduler per session may do this, the
	// cell has a single-writer contract.
	publishDuration bool
}

func NewScheduler(name string, ticker Ticker, period time.Duration, shared *state.SharedState, publishDuration bool) *Scheduler {
	return &Scheduler{
		name:            name,
		ticker:          ticker,
		period:          period,
		shared:          shared,
		durations:       rolling.NewPointPolicy(rolling.NewWindow(durationWindowSize)),
		publishDuration: publishDuration,
	}
}

func (s *Scheduler) Name() string {
	return s.name
}

// Run ticks until the context is cancelled, the session's run flag is
// cleared, or the ticker returns an error. Termination always happens
// between ticks.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if !s.shared.Running() {
			ui.Debug("Loop '%s': run flag cleared, exiting", s.name)
			return nil
		}

		start := time.Now()
		if err := s.ticker.Tick(); err != nil {
			return err
		}
		elapsed := time.Since(start)

		if s.publishDuration {
			s.shared.SetLoopDuration(elapsed.Seconds())
		}
		s.durations.Append(elapsed.Seconds())

		if elapsed >= s.period {
			s.overruns++
			if s.overruns%overrunLogInterval == 1 {
				ui.Warning("Loop '%s' overran its %s period (tick took %s, %d overruns so far)",
					s.name, s.period, elapsed, s.overruns)
			}
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(s.period - elapsed):
		}
	}
}

// MaxDuration returns the largest tick duration in the recent window, seconds.
func (s *Scheduler) MaxDuration() float64 {
	return s.durations.Reduce(rolling.Max)
}

// AvgDuration returns the average tick duration in the recent window, seconds.
func (s *Scheduler) AvgDuration() float64 {
	return s.durations.Reduce(rolling.Avg)
}
