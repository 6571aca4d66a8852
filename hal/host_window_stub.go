//go:build !tinygo && !cgo

package hal

import "errors"

// WindowConfig controls the simulator window.
type WindowConfig struct {
	TPS          int
	PressVoltage uint16
	Label        func(row, col int) string
	Held         func(row, col int) bool
}

func RunWindow(_ HostConfig, _ WindowConfig, _ Stepper) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
