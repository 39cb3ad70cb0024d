package controllers

import (
	"errors"
	"fmt"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/swinglab/pendctl/internal/configuration"
	"github.com/swinglab/pendctl/internal/control"
	"github.com/swinglab/pendctl/internal/plant"
	"github.com/swinglab/pendctl/internal/state"
	"github.com/swinglab/pendctl/internal/ui"
	"github.com/swinglab/pendctl/internal/util"
)

var (
	simLaw   string
	simTicks int
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run a control law against the simulated plant and plot the angle trace",
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		configPath := configuration.DetectConfigFile()
		ui.Info("Using configuration file at: %s", configPath)
		configuration.LoadConfig()

		if err = configuration.Validate(); err != nil {
			ui.Fatal(err.Error())
		}
		config := configuration.CurrentConfig

		lawName := simLaw
		if lawName == "" {
			lawName = config.Controller.Type
		}

		shared := state.New()
		shared.SetRunning(true)

		model := plant.NewNonlinearModel(
			shared,
			plant.ParametersFromConfig(config.Plant),
			config.Plant.AngleJitter,
			config.Plant.MomentumJitter,
		)

		dt := config.TickRate.Seconds()
		law, err := control.NewLaw(lawName, shared, dt, config.Controller.Params)
		if err != nil {
			return err
		}

		// offline episode, integrated as fast as possible
		caught := false
		angles := make([]float64, 0, simTicks)
		for i := 0; i < simTicks; i++ {
			if err = model.Tick(); err != nil {
				return err
			}
			if err = law.Tick(); err != nil {
				if errors.Is(err, control.ErrPendulumCaught) {
					caught = true
					break
				}
				return err
			}
			angles = append(angles, util.Degrees(shared.Angle()))
		}

		caption := fmt.Sprintf("pendulum angle over %d ticks of '%s' (degrees, 180 = upright)", len(angles), lawName)
		graph := asciigraph.Plot(angles, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
		ui.Printfln("%s", graph)

		if caught {
			ui.Success("Pendulum caught after %d ticks", len(angles))
		}
		return nil
	},
}

func init() {
	simCmd.Flags().StringVarP(&simLaw, "law", "l", "", "control law to run (defaults to the configured one)")
	simCmd.Flags().IntVarP(&simTicks, "ticks", "t", 2000, "number of ticks to simulate")

	Command.AddCommand(simCmd)
}
