//go:build !tinygo

package hal

import (
	"io"
	"os"

	"displaywriter/internal/logger"
)

// HostConfig describes the simulated board used by the host build.
type HostConfig struct {
	Rows    int
	Columns int

	// Out receives the host stream. Nil selects stdout.
	Out io.Writer
}

// New returns a host HAL backed by a simulated matrix. Log lines go through
// the structured host logger.
func New(cfg HostConfig) (*Sim, error) {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	return NewSim(cfg.Rows, cfg.Columns, &hostSerial{w: out}, logger.Line{Component: "hal"})
}
