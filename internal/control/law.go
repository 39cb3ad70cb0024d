package control

import "errors"

// ErrPendulumCaught is returned from a swing-up law's Tick once the pendulum
// has stayed inside the catch window long enough for a stabilizing controller
// to take over. The command has already been zeroed when this is returned.
var ErrPendulumCaught = errors.New("pendulum caught")

// Law is one control strategy. Each Tick reads the shared plant state and
// writes the next actuation command back to the shared control signal cell.
type Law interface {
	Name() string
	Tick() error
}
