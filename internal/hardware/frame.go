package hardware

import (
	"encoding/binary"
	"math"
)

const (
	TelemetrySync byte = 0xAA
	CommandSync   byte = 0x55

	telemetryFrameLen = 5

	// encoder resolution of the angle axis, counts per revolution
	angleCountsPerRev = 1200
	// raw position count at the center of the rail
	positionRawCenter = 16220 / 2
	// raw position counts per millimeter of cart travel
	positionCountsPerMm = 27

	// motor command range of the firmware
	MaxCommand = 255
)

// Telemetry is one decoded sensor frame from the rig.
type Telemetry struct {
	RawPosition uint16
	RawAngle    uint16
}

// FindLastTelemetry scans buf backward for the most recent sync byte that is
// followed by a complete payload. Partial or garbled frames earlier in the
// buffer are skipped over.
func FindLastTelemetry(buf []byte) (Telemetry, bool) {
	for i := len(buf) - telemetryFrameLen; i >= 0; i-- {
		if buf[i] != TelemetrySync {
			continue
		}
		return Telemetry{
			RawPosition: binary.LittleEndian.Uint16(buf[i+1 : i+3]),
			RawAngle:    binary.LittleEndian.Uint16(buf[i+3 : i+5]),
		}, true
	}
	return Telemetry{}, false
}

// RawAngleToRadians converts an encoder count to radians, 0 = hanging down.
func RawAngleToRadians(raw uint16) float64 {
	return float64(raw) * 2 * math.Pi / angleCountsPerRev
}

// RawPositionToMillimeters converts a raw position count to millimeters from
// the center of the rail.
func RawPositionToMillimeters(raw uint16) float64 {
	return (float64(raw) - positionRawCenter) / positionCountsPerMm
}

// EncodeCommand builds the outbound motor command frame, clamping the value
// to the firmware's accepted range.
func EncodeCommand(command int) []byte {
	if command > MaxCommand {
		command = MaxCommand
	} else if command < -MaxCommand {
		command = -MaxCommand
	}
	frame := make([]byte, 3)
	frame[0] = CommandSync
	binary.LittleEndian.PutUint16(frame[1:], uint16(int16(command)))
	return frame
}
