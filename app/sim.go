package app

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"time"

	"displaywriter/beamspring/matrix"
	"displaywriter/beamspring/report"
	"displaywriter/hal"
)

// Replay feeds captured debug records into a simulated matrix, one record per
// call to Next. Blank lines, '#' comments and event records are skipped, so a
// capture with both kinds of line replays as-is.
type Replay struct {
	sc   *bufio.Scanner
	m    *hal.SimMatrix
	snap []uint16
	line int
}

// NewReplay reads records of positions readings from r.
func NewReplay(r io.Reader, m *hal.SimMatrix, positions int) *Replay {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), positions*8+64)
	return &Replay{sc: sc, m: m, snap: make([]uint16, positions)}
}

// Next loads the next debug record into the matrix. It returns io.EOF when the
// input is exhausted.
func (p *Replay) Next() error {
	for p.sc.Scan() {
		p.line++
		line := bytes.TrimSpace(p.sc.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		rec, err := report.ParseRecord(line, p.snap)
		if err != nil {
			return fmt.Errorf("replay line %d: %w", p.line, err)
		}
		if rec.Mode != report.ModeDebug {
			continue
		}
		p.m.Load(p.snap)
		return nil
	}
	if err := p.sc.Err(); err != nil {
		return fmt.Errorf("replay line %d: %w", p.line+1, err)
	}
	return io.EOF
}

// Line returns the number of input lines consumed.
func (p *Replay) Line() int { return p.line }

// Step returns a step function that advances the replay and then ticks k.
func (p *Replay) Step(k *Keyboard) func() error {
	return func() error {
		if err := p.Next(); err != nil {
			return err
		}
		return k.Tick()
	}
}

// DemoKeys is the demo-mode typing pattern: key index to press period.
var DemoKeys = map[matrix.KeyIndex]time.Duration{
	37: 1500 * time.Millisecond, // space
	25: 700 * time.Millisecond,
	61: 2300 * time.Millisecond,
}

// AttachDemo drives the DemoKeys that exist in l with periodic presses at
// voltage press. Every other position idles at 0.
func AttachDemo(m *hal.SimMatrix, l *matrix.Layout, press uint16) int {
	n := 0
	for k, period := range DemoKeys {
		if !l.Exists(k) {
			continue
		}
		pos := l.Coordinate(k)
		m.Attach(pos.Row, pos.Column, hal.NewSignalKey(period, period/3, press, 0))
		n++
	}
	return n
}
