//go:build tinygo && baremetal && shiftreg

package hal

import (
	"machine"

	"tinygo.org/x/drivers/shiftregister"
)

// Two chained 74HC595 drive the column lines: Q0 of the first chip is
// column 0.
const (
	shiftLatch = machine.D22
	shiftClock = machine.D23
	shiftData  = machine.D24
)

type shiftColumns struct {
	dev  *shiftregister.Device
	cols int
}

func newColumns() ColumnDriver {
	dev := shiftregister.New(shiftregister.SIXTEEN_BITS, shiftLatch, shiftClock, shiftData)
	dev.Configure()
	dev.WriteMask(0)
	return &shiftColumns{dev: dev, cols: len(columnPins)}
}

func (c *shiftColumns) Columns() int { return c.cols }

func (c *shiftColumns) Pulse(col int) {
	if col < 0 || col >= c.cols {
		return
	}
	c.dev.WriteMask(1 << uint(col))
	c.dev.WriteMask(0)
}
