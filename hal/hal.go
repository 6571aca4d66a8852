package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// SampleMax is the full-scale row sample value.
const SampleMax = 1023

// ColumnDriver drives the column lines of the key matrix.
type ColumnDriver interface {
	Columns() int
	// Pulse drives column col high and immediately low again.
	Pulse(col int)
}

// RowSampler reads the analog row sense lines of the key matrix.
type RowSampler interface {
	Rows() int
	// Sample returns the current reading of row in [0, SampleMax].
	Sample(row int) uint16
}

// Serial is the byte stream to the host.
type Serial interface {
	Write(p []byte) (int, error)
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	LED() LED
	Columns() ColumnDriver
	Rows() RowSampler
	Serial() Serial
}
