//go:build tinygo && baremetal && !shiftreg

package hal

import "machine"

// newColumns drives D22..D33 directly. A failed column setup leaves no
// columns, which the scanner rejects at startup.
func newColumns() ColumnDriver {
	pins := make([]GPIOPin, 0, len(columnPins))
	for i, p := range columnPins {
		pins = append(pins, &mcuPin{name: "COL" + itoa(i), pin: p})
	}
	cd, err := newPinColumns(pins)
	if err != nil {
		return &pinColumns{}
	}
	return cd
}

// mcuPin adapts a machine.Pin to GPIOPin.
type mcuPin struct {
	name string
	pin  machine.Pin
	mode GPIOMode
}

func (p *mcuPin) Name() string { return p.name }
func (p *mcuPin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *mcuPin) Configure(mode GPIOMode, pull GPIOPull) error {
	cfg := machine.PinConfig{Mode: machine.PinOutput}
	if mode == GPIOModeInput {
		switch pull {
		case GPIOPullUp:
			cfg.Mode = machine.PinInputPullup
		case GPIOPullDown:
			cfg.Mode = machine.PinInputPulldown
		default:
			cfg.Mode = machine.PinInput
		}
	}
	p.pin.Configure(cfg)
	p.mode = mode
	return nil
}

func (p *mcuPin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *mcuPin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return ErrNotImplemented
	}
	p.pin.Set(level)
	return nil
}
