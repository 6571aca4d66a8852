package hal

import (
	"fmt"
	"sync"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

type virtualPin struct {
	mu    sync.Mutex
	name  string
	caps  GPIOCaps
	mode  GPIOMode
	pull  GPIOPull
	level bool

	// onWrite observes every level written while in output mode.
	onWrite func(level bool)
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	return &virtualPin{
		name: name,
		caps: caps,
		mode: GPIOModeInput,
		pull: GPIOPullNone,
	}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch mode {
	case GPIOModeInput:
		if p.caps&GPIOCapInput == 0 {
			return fmt.Errorf("gpio: pin %s: input unsupported", p.name)
		}
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode %d", p.name, mode)
	}
	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		if p.caps&GPIOCapPullUp == 0 {
			return fmt.Errorf("gpio: pin %s: pull-up unsupported", p.name)
		}
	case GPIOPullDown:
		if p.caps&GPIOCapPullDown == 0 {
			return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull %d", p.name, pull)
	}
	p.mode = mode
	p.pull = pull
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == GPIOModeInput {
		return p.pull == GPIOPullUp, nil
	}
	return p.level, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	if p.mode != GPIOModeOutput {
		p.mu.Unlock()
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.level = level
	hook := p.onWrite
	p.mu.Unlock()
	if hook != nil {
		hook(level)
	}
	return nil
}

// pinColumns drives matrix columns through GPIO output pins.
type pinColumns struct {
	pins []GPIOPin
}

// newPinColumns configures pins as outputs driven low.
func newPinColumns(pins []GPIOPin) (*pinColumns, error) {
	for _, p := range pins {
		if p == nil {
			return nil, fmt.Errorf("gpio: nil column pin")
		}
		if err := p.Configure(GPIOModeOutput, GPIOPullNone); err != nil {
			return nil, err
		}
		if err := p.Write(false); err != nil {
			return nil, err
		}
	}
	return &pinColumns{pins: pins}, nil
}

func (c *pinColumns) Columns() int { return len(c.pins) }

func (c *pinColumns) Pulse(col int) {
	if col < 0 || col >= len(c.pins) {
		return
	}
	p := c.pins[col]
	_ = p.Write(true)
	_ = p.Write(false)
}
