package loop

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/swinglab/pendctl/internal/state"
)

type countingTicker struct {
	ticks   int
	failAt  int
	failErr error
}

func (c *countingTicker) Tick() error {
	c.ticks++
	if c.failAt > 0 && c.ticks >= c.failAt {
		return c.failErr
	}
	return nil
}

func TestSchedulerStopsOnContextCancel(t *testing.T) {
	// GIVEN
	shared := state.New()
	shared.SetRunning(true)
	ticker := &countingTicker{}
	scheduler := NewScheduler("test", ticker, time.Millisecond, shared, true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- scheduler.Run(ctx)
	}()

	// WHEN
	time.Sleep(20 * time.Millisecond)
	cancel()

	// THEN it exits cleanly between ticks
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
	assert.Greater(t, ticker.ticks, 0)
}

func TestSchedulerStopsWhenRunFlagCleared(t *testing.T) {
	// GIVEN
	shared := state.New()
	shared.SetRunning(true)
	ticker := &countingTicker{}
	scheduler := NewScheduler("test", ticker, time.Millisecond, shared, false)

	done := make(chan error, 1)
	go func() {
		done <- scheduler.Run(context.Background())
	}()

	// WHEN
	time.Sleep(10 * time.Millisecond)
	shared.SetRunning(false)

	// THEN
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on run flag")
	}
}

func TestSchedulerPropagatesTickerError(t *testing.T) {
	// GIVEN
	shared := state.New()
	shared.SetRunning(true)
	sentinel := errors.New("handoff")
	ticker := &countingTicker{failAt: 3, failErr: sentinel}
	scheduler := NewScheduler("test", ticker, time.Millisecond, shared, false)

	// WHEN
	err := scheduler.Run(context.Background())

	// THEN
	assert.ErrorIs(t, err, sentinel)
	assert.Equal(t, 3, ticker.ticks)
}

func TestSchedulerPublishesLoopDuration(t *testing.T) {
	// GIVEN
	shared := state.New()
	shared.SetRunning(true)
	ticker := &countingTicker{failAt: 2, failErr: errors.New("stop")}
	scheduler := NewScheduler("test", ticker, time.Millisecond, shared, true)

	// WHEN
	_ = scheduler.Run(context.Background())

	// THEN the measured duration landed in the shared cell
	assert.GreaterOrEqual(t, shared.LoopDuration(), 0.0)
	assert.Greater(t, scheduler.MaxDuration(), 0.0)
}

func TestSchedulerDoesNotPublishWhenDisabled(t *testing.T) {
	// GIVEN
	shared := state.New()
	shared.SetRunning(true)
	shared.SetLoopDuration(-1)
	ticker := &countingTicker{failAt: 2, failErr: errors.New("stop")}
	scheduler := NewScheduler("test", ticker, time.Millisecond, shared, false)

	// WHEN
	_ = scheduler.Run(context.Background())

	// THEN the shared cell is untouched
	assert.Equal(t, -1.0, shared.LoopDuration())
}

func TestSchedulerHoldsApproximatePeriod(t *testing.T) {
	// GIVEN
	shared := state.New()
	shared.SetRunning(true)
	ticker := &countingTicker{}
	scheduler := NewScheduler("test", ticker, 10*time.Millisecond, shared, false)

	ctx, cancel := context.WithTimeout(context.Background(), 105*time.Millisecond)
	defer cancel()

	// WHEN
	assert.NoError(t, scheduler.Run(ctx))

	// THEN roughly one tick per period, never a catch-up burst
	assert.GreaterOrEqual(t, ticker.ticks, 5)
	assert.LessOrEqual(t, ticker.ticks, 15)
}
