package configuration

import "time"

type ControllerConfig struct {
	// Type is the registry tag of the stabilizing control law: pid | cascaded | lqr
	Type string `json:"type"`
	// Params holds the tuning gains of the selected law. Keys and defaults are
	// declared by the law's registry entry.
	Params map[string]interface{} `json:"params"`
}

type SwingUpConfig struct {
	// Enabled runs a swing-up law before handing off to the stabilizing law.
	Enabled bool `json:"enabled"`
	// Type is the registry tag of the swing-up law: energy-swingup | phase-swingup
	Type string `json:"type"`
	// Params holds the tuning values of the swing-up law, including the
	// catchAngle / catchMomentum handoff thresholds.
	Params map[string]interface{} `json:"params"`
	// WatchdogTimeout aborts the session when swing-up has not converged within
	// this duration. Zero disables the watchdog.
	WatchdogTimeout time.Duration `json:"watchdogTimeout"`
}
