package configuration

import (
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

var validBackends = []string{BackendSimLinear, BackendSimNonlinear, BackendHardware}

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if config.TickRate <= 0 {
		return errors.New("tickRate must be positive")
	}
	if config.FaultDecayTicks < 0 {
		return errors.New("faultDecayTicks must not be negative")
	}

	err := validatePlant(&config.Plant)
	if err != nil {
		return err
	}
	err = validateController(config)
	if err != nil {
		return err
	}
	return validateHardware(config)
}

func validatePlant(config *PlantConfig) error {
	if !slices.Contains(validBackends, config.Backend) {
		return fmt.Errorf("plant: unknown backend '%s', use one of: %v", config.Backend, validBackends)
	}

	if config.CartMass <= 0 || config.PendulumMass <= 0 {
		return errors.New("plant: masses must be positive")
	}
	if config.Length <= 0 {
		return errors.New("plant: pendulum length must be positive")
	}
	if config.CartFriction < 0 || config.PivotDamping < 0 {
		return errors.New("plant: friction coefficients must not be negative")
	}
	if config.AngleJitter < 0 || config.MomentumJitter < 0 {
		return errors.New("plant: jitter values must not be negative")
	}

	return nil
}

func validateController(config *Configuration) error {
	if config.Controller.Type == "" {
		return errors.New("controller: type is missing")
	}

	if config.SwingUp.Enabled {
		if config.SwingUp.Type == "" {
			return errors.New("swingUp: type is missing")
		}
		if config.SwingUp.WatchdogTimeout < 0 {
			return errors.New("swingUp: watchdogTimeout must not be negative")
		}
	}

	return nil
}

func validateHardware(config *Configuration) error {
	if config.Plant.Backend != BackendHardware {
		return nil
	}

	hw := config.Hardware
	if hw.Port == "" {
		return errors.New("hardware: serial port is missing")
	}
	if hw.BaudRate <= 0 {
		return errors.New("hardware: baudRate must be positive")
	}
	if hw.MaxAngleDeg <= 0 || hw.MaxAngleDeg > 180 {
		return errors.New("hardware: maxAngleDeg must be in (0, 180]")
	}
	if hw.MaxTravel <= 0 {
		return errors.New("hardware: maxTravel must be positive")
	}
	if hw.Output.MaxInput <= 0 {
		return errors.New("hardware: output.maxInput must be positive")
	}
	if hw.Output.Threshold < 0 || hw.Output.Threshold >= hw.Output.MaxOutput {
		return errors.New("hardware: output.threshold must be in [0, maxOutput)")
	}
	if hw.Output.MaxOutput <= 0 || hw.Output.MaxOutput > 255 {
		return errors.New("hardware: output.maxOutput must be in (0, 255]")
	}

	return nil
}
