package hardware

import (
	"fmt"
	"math"
	"time"

	"go.bug.st/serial"

	"github.com/swinglab/pendctl/internal/configuration"
	"github.com/swinglab/pendctl/internal/state"
	"github.com/swinglab/pendctl/internal/ui"
	"github.com/swinglab/pendctl/internal/util"
)

const readTimeout = 2 * time.Millisecond

// Bridge owns the serial link to the rig for the whole session. Each tick it
// decodes the latest telemetry frame into the shared cells, scales the
// current controller output to the motor range and sends it, forced to zero
// whenever the rig leaves the configured safety envelope.
// transport is the slice of serial.Port the bridge needs after the link is
// configured. Narrowed out so tests can run against an in-memory device.
type transport interface {
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
	Close() error
}

type Bridge struct {
	config configuration.HardwareConfig
	shared *state.SharedState
	port   transport

	readBuf  []byte
	lastSent int
	sentAny  bool
}

func NewBridge(config configuration.HardwareConfig, shared *state.SharedState) *Bridge {
	return &Bridge{
		config:  config,
		shared:  shared,
		readBuf: make([]byte, 256),
	}
}

// Connect opens the serial link. Reads are near-nonblocking so a tick never
// stalls waiting for the device.
func (b *Bridge) Connect() error {
	mode := &serial.Mode{BaudRate: b.config.BaudRate}
	port, err := serial.Open(b.config.Port, mode)
	if err != nil {
		return fmt.Errorf("opening serial port %s: %w", b.config.Port, err)
	}
	if err = port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return fmt.Errorf("configuring serial port %s: %w", b.config.Port, err)
	}
	b.port = port
	ui.Info("Connected to %s at %d baud", b.config.Port, b.config.BaudRate)
	return nil
}

func (b *Bridge) Tick() error {
	n, err := b.port.Read(b.readBuf)
	if err != nil {
		return fmt.Errorf("reading telemetry: %w", err)
	}

	if telemetry, ok := FindLastTelemetry(b.readBuf[:n]); ok {
		b.shared.SetAngle(RawAngleToRadians(telemetry.RawAngle))
		b.shared.SetPosition(RawPositionToMillimeters(telemetry.RawPosition))
	}

	command := ScaleControlOutput(
		b.shared.ControlSignal(),
		b.config.Output.MaxInput,
		b.config.Output.Threshold,
		b.config.Output.MaxOutput,
	)
	if !b.inSafetyEnvelope() {
		command = 0
	}
	if b.sentAny && command == b.lastSent {
		return nil
	}

	// the motor driver is wired with inverted polarity
	if err = b.send(-command); err != nil {
		return err
	}
	b.lastSent = command
	b.sentAny = true
	return nil
}

func (b *Bridge) inSafetyEnvelope() bool {
	angleDeg := util.Degrees(b.shared.Angle())
	if angleDeg < 180-b.config.MaxAngleDeg || angleDeg > 180+b.config.MaxAngleDeg {
		return false
	}
	return math.Abs(b.shared.Position()) <= b.config.MaxTravel
}

func (b *Bridge) send(command int) error {
	if _, err := b.port.Write(EncodeCommand(command)); err != nil {
		return fmt.Errorf("sending command: %w", err)
	}
	return nil
}

// Close stops the motor and releases the serial link.
func (b *Bridge) Close() error {
	if b.port == nil {
		return nil
	}
	if err := b.send(0); err != nil {
		ui.Warning("Could not send stop command: %v", err)
	}
	return b.port.Close()
}
