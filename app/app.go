package app

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"displaywriter/beamspring/debounce"
	"displaywriter/beamspring/matrix"
	"displaywriter/beamspring/report"
	"displaywriter/beamspring/scan"
	"displaywriter/hal"
)

var ErrNoHardware = errors.New("app: HAL lacks matrix lines")

type Config struct {
	Profile matrix.Config
	Mode    report.Mode

	// Out replaces the HAL serial port as the report destination.
	Out io.Writer

	// LogEvents echoes every event to the HAL logger.
	LogEvents bool

	// StatusEvery logs a status line every n cycles; 0 disables it.
	StatusEvery uint64
}

// Keyboard is the scan loop: one Tick is one full scan, debounce and report
// cycle.
type Keyboard struct {
	log      hal.Logger
	led      hal.LED
	layout   *matrix.Layout
	state    *matrix.State
	scanner  *scan.Scanner
	engine   *debounce.Engine
	reporter *report.Reporter
	cfg      Config

	ledOn      bool
	cycles     uint64
	events     uint64
	reportErrs uint64
	line       []byte
}

// New validates cfg against h and builds the pipeline. Counters start settled.
func New(h hal.HAL, cfg Config) (*Keyboard, error) {
	if h == nil || h.Columns() == nil || h.Rows() == nil {
		return nil, ErrNoHardware
	}
	l, err := matrix.NewLayout(cfg.Profile)
	if err != nil {
		return nil, err
	}
	s, err := scan.New(h.Columns(), h.Rows(), l)
	if err != nil {
		return nil, err
	}
	out := cfg.Out
	if out == nil {
		out = h.Serial()
	}
	if out == nil {
		return nil, ErrNoHardware
	}
	if b, ok := out.(interface{ MaxRecord() int }); ok {
		if need := report.RecordSize(cfg.Mode, l.Positions()); need > b.MaxRecord() {
			return nil, fmt.Errorf("app: %s records of %d bytes exceed the %d-byte output slots: %w",
				cfg.Mode, need, b.MaxRecord(), report.ErrTooLarge)
		}
	}

	k := &Keyboard{
		log:      h.Logger(),
		led:      h.LED(),
		layout:   l,
		state:    matrix.NewState(l),
		scanner:  s,
		engine:   debounce.New(l),
		reporter: report.New(out, cfg.Mode, l.Positions()),
		cfg:      cfg,
		line:     make([]byte, 0, 64),
	}
	if k.led != nil {
		k.led.Low()
	}
	k.logf("app: %s %dx%d, mode %s", l.Name(), l.Rows(), l.Columns(), cfg.Mode)
	return k, nil
}

// Tick runs one cycle. Report failures are logged and counted; the cycle's
// state changes stand regardless.
func (k *Keyboard) Tick() error {
	k.scanner.Scan(k.state.Snapshot)
	evs := k.engine.Update(k.state)
	k.cycles++
	k.events += uint64(len(evs))

	if err := k.reporter.Report(evs, k.state.Snapshot); err != nil {
		k.reportErrs++
		if k.reportErrs == 1 || k.reportErrs%1000 == 0 {
			k.logf("app: report failed (%d so far): %v", k.reportErrs, err)
		}
	}

	if k.cfg.LogEvents && k.log != nil {
		for _, ev := range evs {
			k.line = append(k.line[:0], "key "...)
			k.line = strconv.AppendUint(k.line, uint64(ev.Key), 10)
			k.line = append(k.line, ' ')
			k.line = append(k.line, ev.Transition.String()...)
			k.log.WriteLineBytes(k.line)
		}
	}

	k.setLED(debounce.Held(k.state) > 0)

	if k.cfg.StatusEvery > 0 && k.cycles%k.cfg.StatusEvery == 0 {
		k.logf("app: cycle %d, %d held, %d events, %d report errors",
			k.cycles, debounce.Held(k.state), k.events, k.reportErrs)
	}
	return nil
}

func (k *Keyboard) setLED(on bool) {
	if k.led == nil || on == k.ledOn {
		return
	}
	k.ledOn = on
	if on {
		k.led.High()
	} else {
		k.led.Low()
	}
}

// Layout returns the validated layout.
func (k *Keyboard) Layout() *matrix.Layout { return k.layout }

// Held reports whether key is currently pressed. Not safe to call
// concurrently with Tick.
func (k *Keyboard) Held(key matrix.KeyIndex) bool { return k.state.Held(key) }

// Snapshot returns the readings of the last cycle. The slice is overwritten
// by the next Tick.
func (k *Keyboard) Snapshot() []uint16 { return k.state.Snapshot }

func (k *Keyboard) Cycles() uint64       { return k.cycles }
func (k *Keyboard) ReportErrors() uint64 { return k.reportErrs }

// Reset returns every key to settled released without reporting releases.
func (k *Keyboard) Reset() {
	k.state.Reset()
	k.setLED(false)
}

// Run builds the keyboard and scans forever (TinyGo/native entrypoint). A
// configuration error is logged and halts the loop.
func Run(h hal.HAL, cfg Config) {
	defer haltOnPanic(h)

	k, err := New(h, cfg)
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("app: " + err.Error())
		}
		halt(h)
	}
	for {
		_ = k.Tick()
	}
}
