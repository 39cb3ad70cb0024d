package configuration

type HardwareConfig struct {
	// Port is the serial device of the rig, e.g. /dev/ttyACM0
	Port string `json:"port"`
	// BaudRate of the serial link
	BaudRate int `json:"baudRate"`

	// MaxAngleDeg is the allowed deviation from upright (180°) in degrees.
	// Outside of it the motor command is forced to zero.
	MaxAngleDeg float64 `json:"maxAngleDeg"`
	// MaxTravel is the allowed cart travel from center in mm. Outside of it
	// the motor command is forced to zero.
	MaxTravel float64 `json:"maxTravel"`

	Output OutputScalingConfig `json:"output"`
}

// OutputScalingConfig describes how controller output is mapped onto the motor
// command range, compensating for static friction.
type OutputScalingConfig struct {
	// MaxInput is the controller output magnitude that maps to full motor command
	MaxInput float64 `json:"maxInput"`
	// Threshold is the minimum nonzero motor command, added to overcome static friction
	Threshold int `json:"threshold"`
	// MaxOutput is the largest motor command magnitude
	MaxOutput int `json:"maxOutput"`
}
