package configuration

import (
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/swinglab/pendctl/internal/ui"
)

type Configuration struct {
	// TickRate is the fixed period of the plant and controller loops.
	TickRate time.Duration `json:"tickRate"`

	// FaultDecayTicks is the number of ticks over which the control signal is
	// decayed to zero after a controller fault.
	FaultDecayTicks int `json:"faultDecayTicks"`

	Plant      PlantConfig      `json:"plant"`
	Controller ControllerConfig `json:"controller"`
	SwingUp    SwingUpConfig    `json:"swingUp"`
	Hardware   HardwareConfig   `json:"hardware"`
	Api        ApiConfig        `json:"api"`
	Statistics StatisticsConfig `json:"statistics"`
}

var CurrentConfig Configuration

// InitConfig reads in config file and ENV variables if set.
func InitConfig(cfgFile string) {
	viper.SetConfigName("pendctl")

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			ui.Error("Couldn't detect home directory: %v", err)
			os.Exit(1)
		}

		viper.AddConfigPath(".")
		viper.AddConfigPath(home)
		viper.AddConfigPath("/etc/pendctl/")
	}

	viper.AutomaticEnv() // read in environment variables that match

	setDefaultValues()
}

func setDefaultValues() {
	viper.SetDefault("TickRate", 10*time.Millisecond)
	viper.SetDefault("FaultDecayTicks", 50)

	viper.SetDefault("plant.backend", BackendSimNonlinear)
	viper.SetDefault("plant.cartMass", 0.5)
	viper.SetDefault("plant.pendulumMass", 0.2)
	viper.SetDefault("plant.length", 0.3)
	viper.SetDefault("plant.cartFriction", 0.1)
	viper.SetDefault("plant.pivotDamping", 0.01)
	viper.SetDefault("plant.angleJitter", 0.2)
	viper.SetDefault("plant.momentumJitter", 0.1)

	viper.SetDefault("controller.type", "pid")

	viper.SetDefault("swingUp.enabled", false)
	viper.SetDefault("swingUp.type", "energy-swingup")
	viper.SetDefault("swingUp.watchdogTimeout", 0*time.Second)

	viper.SetDefault("hardware.baudRate", 115200)
	viper.SetDefault("hardware.maxAngleDeg", 15.0)
	viper.SetDefault("hardware.maxTravel", 220.0)
	viper.SetDefault("hardware.output.maxInput", 100.0)
	viper.SetDefault("hardware.output.threshold", 10)
	viper.SetDefault("hardware.output.maxOutput", 255)

	viper.SetDefault("api.enabled", false)
	viper.SetDefault("api.port", 9001)

	viper.SetDefault("statistics.enabled", false)
	viper.SetDefault("statistics.port", 9000)
}

// DetectConfigFile returns the path of the config file that viper ended up using.
func DetectConfigFile() string {
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); notFound {
			// defaults only, running without a config file is fine
			return "(defaults)"
		}
		ui.Fatal("Error reading config file: %v", err)
	}
	used := viper.ConfigFileUsed()
	if abs, err := filepath.Abs(used); err == nil {
		return abs
	}
	return used
}

func LoadConfig() {
	// load default configuration values
	err := viper.Unmarshal(&CurrentConfig)
	if err != nil {
		ui.Fatal("unable to decode into struct, %v", err)
	}
}
