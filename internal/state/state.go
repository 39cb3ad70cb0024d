package state

import (
	"math"
	"sync/atomic"
)

// scalarCell is a lock-free float64 cell.
type scalarCell struct {
	bits atomic.Uint64
}

func (c *scalarCell) Load() float64 {
	return math.Float64frombits(c.bits.Load())
}

func (c *scalarCell) Store(value float64) {
	c.bits.Store(math.Float64bits(value))
}

// SharedState is the only mutable state shared between the plant and controller
// loops. Each cell has at most one writer and any number of readers. Readers may
// observe a value that is up to one tick stale, which is acceptable at a 10 ms
// control period; do not add locking around these cells, it would only change
// the timing behaviour.
type SharedState struct {
	position      scalarCell
	angle         scalarCell
	controlSignal scalarCell
	loopDuration  scalarCell
	desiredAngle  scalarCell
	running       atomic.Bool
}

func New() *SharedState {
	return &SharedState{}
}

// Position returns the cart position in millimeters (hardware) or meters (simulation).
func (s *SharedState) Position() float64 {
	return s.position.Load()
}

func (s *SharedState) SetPosition(value float64) {
	s.position.Store(value)
}

// Angle returns the pendulum angle in radians, wrapped to [0, 2π).
// 0 is hanging down, π is upright.
func (s *SharedState) Angle() float64 {
	return s.angle.Load()
}

func (s *SharedState) SetAngle(value float64) {
	s.angle.Store(value)
}

// ControlSignal returns the actuation command most recently written by the
// active control law.
func (s *SharedState) ControlSignal() float64 {
	return s.controlSignal.Load()
}

func (s *SharedState) SetControlSignal(value float64) {
	s.controlSignal.Store(value)
}

// LoopDuration returns the wall-clock execution time of the last control loop
// tick in seconds. Informational only.
func (s *SharedState) LoopDuration() float64 {
	return s.loopDuration.Load()
}

func (s *SharedState) SetLoopDuration(value float64) {
	s.loopDuration.Store(value)
}

// DesiredAngle returns the angle setpoint written by outer-loop controllers.
func (s *SharedState) DesiredAngle() float64 {
	return s.desiredAngle.Load()
}

func (s *SharedState) SetDesiredAngle(value float64) {
	s.desiredAngle.Store(value)
}

// Running reports whether the current control session is active. Loops must
// stop actuating and exit when this turns false.
func (s *SharedState) Running() bool {
	return s.running.Load()
}

func (s *SharedState) SetRunning(value bool) {
	s.running.Store(value)
}

// Snapshot is a plain copy of all observable cells, used by the REST api and
// the statistics collectors.
type Snapshot struct {
	Position      float64 `json:"position"`
	Angle         float64 `json:"angle"`
	ControlSignal float64 `json:"controlSignal"`
	LoopDuration  float64 `json:"loopDuration"`
	DesiredAngle  float64 `json:"desiredAngle"`
	Running       bool    `json:"running"`
}

func (s *SharedState) Snapshot() Snapshot {
	return Snapshot{
		Position:      s.Position(),
		Angle:         s.Angle(),
		ControlSignal: s.ControlSignal(),
		LoopDuration:  s.LoopDuration(),
		DesiredAngle:  s.DesiredAngle(),
		Running:       s.Running(),
	}
}
