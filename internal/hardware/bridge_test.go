package hardware

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/swinglab/pendctl/internal/configuration"
	"github.com/swinglab/pendctl/internal/state"
)

type fakePort struct {
	inbound []byte
	readErr error

	written [][]byte
	closed  bool
}

func (f *fakePort) Read(p []byte) (int, error) {
	if f.readErr != nil {
		return 0, f.readErr
	}
	n := copy(p, f.inbound)
	f.inbound = f.inbound[n:]
	return n, nil
}

func (f *fakePort) Write(p []byte) (int, error) {
	frame := make([]byte, len(p))
	copy(frame, p)
	f.written = append(f.written, frame)
	return len(p), nil
}

func (f *fakePort) Close() error {
	f.closed = true
	return nil
}

func testHardwareConfig() configuration.HardwareConfig {
	return configuration.HardwareConfig{
		Port:        "/dev/ttyACM0",
		BaudRate:    115200,
		MaxAngleDeg: 25,
		MaxTravel:   250,
		Output: configuration.OutputScalingConfig{
			MaxInput:  100,
			Threshold: 10,
			MaxOutput: 255,
		},
	}
}

func telemetryFrame(rawPosition uint16, rawAngle uint16) []byte {
	frame := make([]byte, 5)
	frame[0] = TelemetrySync
	binary.LittleEndian.PutUint16(frame[1:3], rawPosition)
	binary.LittleEndian.PutUint16(frame[3:5], rawAngle)
	return frame
}

func lastCommand(t *testing.T, port *fakePort) int16 {
	t.Helper()
	assert.NotEmpty(t, port.written)
	frame := port.written[len(port.written)-1]
	assert.Len(t, frame, 3)
	assert.Equal(t, CommandSync, frame[0])
	return int16(binary.LittleEndian.Uint16(frame[1:]))
}

func TestBridgePublishesTelemetry(t *testing.T) {
	// GIVEN
	shared := state.New()
	bridge := NewBridge(testHardwareConfig(), shared)
	// upright, cart 10 mm right of center
	port := &fakePort{inbound: telemetryFrame(8110+270, 600)}
	bridge.port = port

	// WHEN
	err := bridge.Tick()

	// THEN
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, shared.Position(), 1e-9)
	assert.InDelta(t, RawAngleToRadians(600), shared.Angle(), 1e-9)
}

func TestBridgeSendsNegatedScaledCommand(t *testing.T) {
	// GIVEN
	shared := state.New()
	shared.SetControlSignal(50)
	bridge := NewBridge(testHardwareConfig(), shared)
	port := &fakePort{inbound: telemetryFrame(8110, 600)}
	bridge.port = port

	// WHEN
	err := bridge.Tick()

	// THEN
	assert.NoError(t, err)
	assert.EqualValues(t, -132, lastCommand(t, port))
}

func TestBridgeSafetyCutoffOnAngle(t *testing.T) {
	// GIVEN
	config := testHardwareConfig()
	shared := state.New()
	shared.SetControlSignal(100)
	bridge := NewBridge(config, shared)
	// one encoder count past the allowed deviation from upright
	rawAngle := uint16((180.0+config.MaxAngleDeg)/360.0*1200) + 1
	port := &fakePort{inbound: telemetryFrame(8110, rawAngle)}
	bridge.port = port

	// WHEN
	err := bridge.Tick()

	// THEN
	assert.NoError(t, err)
	assert.EqualValues(t, 0, lastCommand(t, port))
}

func TestBridgeSafetyCutoffOnTravel(t *testing.T) {
	// GIVEN
	shared := state.New()
	shared.SetControlSignal(100)
	bridge := NewBridge(testHardwareConfig(), shared)
	// upright but 300 mm from center, past the 250 mm travel limit
	port := &fakePort{inbound: telemetryFrame(8110+300*27, 600)}
	bridge.port = port

	// WHEN
	err := bridge.Tick()

	// THEN
	assert.NoError(t, err)
	assert.EqualValues(t, 0, lastCommand(t, port))
}

func TestBridgeSkipsUnchangedCommands(t *testing.T) {
	// GIVEN
	shared := state.New()
	shared.SetControlSignal(50)
	bridge := NewBridge(testHardwareConfig(), shared)
	port := &fakePort{}
	bridge.port = port

	// WHEN
	port.inbound = telemetryFrame(8110, 600)
	assert.NoError(t, bridge.Tick())
	port.inbound = telemetryFrame(8110, 600)
	assert.NoError(t, bridge.Tick())
	shared.SetControlSignal(60)
	port.inbound = telemetryFrame(8110, 600)
	assert.NoError(t, bridge.Tick())

	// THEN
	assert.Len(t, port.written, 2)
}

func TestBridgeKeepsLastStateOnGarbledInput(t *testing.T) {
	// GIVEN
	shared := state.New()
	bridge := NewBridge(testHardwareConfig(), shared)
	port := &fakePort{}
	bridge.port = port

	port.inbound = telemetryFrame(8110+270, 600)
	assert.NoError(t, bridge.Tick())

	// WHEN
	// noise without a complete frame
	port.inbound = []byte{0x01, 0x02, TelemetrySync, 0x03}
	err := bridge.Tick()

	// THEN
	assert.NoError(t, err)
	assert.InDelta(t, 10.0, shared.Position(), 1e-9)
}

func TestBridgePropagatesTransportFaults(t *testing.T) {
	// GIVEN
	shared := state.New()
	bridge := NewBridge(testHardwareConfig(), shared)
	port := &fakePort{readErr: errors.New("device unplugged")}
	bridge.port = port

	// WHEN
	err := bridge.Tick()

	// THEN
	assert.Error(t, err)
}

func TestBridgeCloseStopsMotor(t *testing.T) {
	// GIVEN
	shared := state.New()
	shared.SetControlSignal(80)
	bridge := NewBridge(testHardwareConfig(), shared)
	port := &fakePort{inbound: telemetryFrame(8110, 600)}
	bridge.port = port
	assert.NoError(t, bridge.Tick())

	// WHEN
	err := bridge.Close()

	// THEN
	assert.NoError(t, err)
	assert.True(t, port.closed)
	assert.EqualValues(t, 0, lastCommand(t, port))
}
