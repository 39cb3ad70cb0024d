package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qdm12/reprint"

	"github.com/swinglab/pendctl/internal/api"
	"github.com/swinglab/pendctl/internal/configuration"
	"github.com/swinglab/pendctl/internal/control"
	"github.com/swinglab/pendctl/internal/hardware"
	"github.com/swinglab/pendctl/internal/loop"
	"github.com/swinglab/pendctl/internal/plant"
	"github.com/swinglab/pendctl/internal/state"
	"github.com/swinglab/pendctl/internal/statistics"
	"github.com/swinglab/pendctl/internal/supervisor"
	"github.com/swinglab/pendctl/internal/ui"
)

func RunDaemon() {
	// the session runs on an immutable copy, later config reloads never
	// change a running control loop
	var config configuration.Configuration
	if err := reprint.FromTo(&configuration.CurrentConfig, &config); err != nil {
		ui.Fatal("Couldn't snapshot configuration: %v", err)
	}

	shared := state.New()
	shared.SetRunning(true)

	plantLoop, bridge := createPlantLoop(config, shared)
	controlLoop := createControlLoop(config, shared)

	statistics.Register(statistics.NewStateCollector(shared))
	statistics.Register(statistics.NewLoopCollector([]*loop.Scheduler{plantLoop}))

	ctx, cancel := context.WithCancel(context.Background())

	var g run.Group
	{
		if config.Statistics.Enabled {
			// === Prometheus Exporter
			g.Add(func() error {
				port := config.Statistics.Port
				if port <= 0 || port >= 65535 {
					port = 9000
				}
				addr := fmt.Sprintf(":%d", port)
				handler := promhttp.Handler()
				mux := http.NewServeMux()
				mux.Handle("/metrics", handler)
				server := &http.Server{Addr: addr, Handler: mux}

				go func() {
					<-ctx.Done()
					ui.Info("Stopping statistics server...")
					timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer timeoutCancel()
					_ = server.Shutdown(timeoutCtx)
				}()

				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start prometheus metrics endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				cancel()
			})
		}
	}
	{
		if config.Api.Enabled {
			// === REST api
			restService := api.CreateRestService(shared)

			g.Add(func() error {
				addr := fmt.Sprintf(":%d", config.Api.Port)
				if err := restService.Start(addr); err != nil && err != http.ErrServerClosed {
					ui.Error("Cannot start REST api endpoint (%s)", err.Error())
					return err
				}
				return nil
			}, func(err error) {
				timeoutCtx, timeoutCancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer timeoutCancel()
				if shutdownErr := restService.Shutdown(timeoutCtx); shutdownErr != nil {
					ui.Warning("Error stopping REST api: %v", shutdownErr)
				}
				cancel()
			})
		}
	}
	{
		// === plant loop (simulation or hardware bridge)
		g.Add(func() error {
			err := plantLoop.Run(ctx)
			ui.Info("Plant loop stopped.")
			return err
		}, func(err error) {
			if err != nil {
				ui.Warning("Plant loop failed: %v", err)
			}
			cancel()
		})
	}
	{
		// === control loop
		g.Add(func() error {
			runControlLoop(ctx, controlLoop, shared, config.FaultDecayTicks, config.TickRate)
			ui.Info("Control loop stopped.")
			return nil
		}, func(err error) {
			cancel()
		})
	}
	{
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

		g.Add(func() error {
			select {
			case <-sig:
				ui.Info("Received termination signal, exiting...")
			case <-ctx.Done():
			}
			return nil
		}, func(err error) {
			cancel()
		})
	}

	err := g.Run()

	if bridge != nil {
		if closeErr := bridge.Close(); closeErr != nil {
			ui.Warning("Error closing hardware bridge: %v", closeErr)
		}
	}

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	} else {
		ui.Info("Done.")
		os.Exit(0)
	}
}

// runnable is either a plain scheduler around a stabilizing law or the
// swing-up supervisor; both block until stopped.
type runnable interface {
	Run(ctx context.Context) error
}

func createPlantLoop(config configuration.Configuration, shared *state.SharedState) (*loop.Scheduler, *hardware.Bridge) {
	if config.Plant.Backend == configuration.BackendHardware {
		bridge := hardware.NewBridge(config.Hardware, shared)
		if err := bridge.Connect(); err != nil {
			ui.Fatal("Unable to reach the rig: %v", err)
		}
		return loop.NewScheduler("hardware", bridge, config.TickRate, shared, false), bridge
	}

	params := plant.ParametersFromConfig(config.Plant)

	var model plant.Model
	switch config.Plant.Backend {
	case configuration.BackendSimLinear:
		model = plant.NewLinearModel(shared, params, config.Plant.AngleJitter, config.Plant.MomentumJitter)
	case configuration.BackendSimNonlinear:
		model = plant.NewNonlinearModel(shared, params, config.Plant.AngleJitter, config.Plant.MomentumJitter)
	default:
		ui.Fatal("Unknown plant backend: %s", config.Plant.Backend)
	}

	return loop.NewScheduler("plant", model, config.TickRate, shared, false), nil
}

func createControlLoop(config configuration.Configuration, shared *state.SharedState) runnable {
	dt := config.TickRate.Seconds()

	if descriptor, ok := control.Get(config.Controller.Type); !ok || descriptor.Kind != control.KindStabilizing {
		ui.Fatal("'%s' is not a stabilizing control law", config.Controller.Type)
	}
	stabilizer, err := control.NewLaw(config.Controller.Type, shared, dt, config.Controller.Params)
	if err != nil {
		ui.Fatal("Unable to create control law '%s': %v", config.Controller.Type, err)
	}

	if !config.SwingUp.Enabled {
		return loop.NewScheduler("control", stabilizer, config.TickRate, shared, true)
	}

	if descriptor, ok := control.Get(config.SwingUp.Type); !ok || descriptor.Kind != control.KindSwingUp {
		ui.Fatal("'%s' is not a swing-up law", config.SwingUp.Type)
	}
	swingUp, err := control.NewLaw(config.SwingUp.Type, shared, dt, config.SwingUp.Params)
	if err != nil {
		ui.Fatal("Unable to create swing-up law '%s': %v", config.SwingUp.Type, err)
	}

	return supervisor.New(shared, swingUp, stabilizer, config.TickRate, config.SwingUp.WatchdogTimeout)
}

// runControlLoop contains a faulted control law instead of letting it take
// the plant loop down with it. After a panic or tick error the actuation
// command is ramped to zero over decayTicks so the cart is not released with
// full force applied, then the loop idles until the session ends.
func runControlLoop(ctx context.Context, controlLoop runnable, shared *state.SharedState, decayTicks int, period time.Duration) {
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("control law panicked: %v", r)
			}
		}()
		return controlLoop.Run(ctx)
	}()
	if err == nil {
		return
	}

	ui.Error("Control law failed, decaying output to zero: %v", err)
	decayControlSignal(ctx, shared, decayTicks, period)

	// keep the plant loop alive, only the session end releases the group
	<-ctx.Done()
}

func decayControlSignal(ctx context.Context, shared *state.SharedState, decayTicks int, period time.Duration) {
	if decayTicks < 1 {
		decayTicks = 1
	}
	step := shared.ControlSignal() / float64(decayTicks)

	for i := 0; i < decayTicks; i++ {
		select {
		case <-ctx.Done():
			shared.SetControlSignal(0)
			return
		case <-time.After(period):
		}
		shared.SetControlSignal(shared.ControlSignal() - step)
	}
	shared.SetControlSignal(0)
}
