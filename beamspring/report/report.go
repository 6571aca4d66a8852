// Package report serializes key events and raw snapshots to the host stream.
//
// Event records are "<key>,<1|0>\n". Debug records carry every reading of one
// cycle in row-major order, each followed by a comma, then "\n".
package report

import (
	"errors"
	"fmt"
	"io"

	"displaywriter/beamspring/matrix"
)

// Mode selects what a Reporter writes. It is fixed for the Reporter's lifetime.
type Mode uint8

const (
	ModeEvents Mode = iota
	ModeDebug
)

func (m Mode) String() string {
	switch m {
	case ModeEvents:
		return "events"
	case ModeDebug:
		return "debug"
	default:
		return "unknown"
	}
}

var ErrBadMode = errors.New("report: unknown mode")

// ParseMode parses "events" or "debug".
func ParseMode(s string) (Mode, error) {
	switch s {
	case "events", "":
		return ModeEvents, nil
	case "debug":
		return ModeDebug, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadMode, s)
	}
}

// Reporter writes one cycle's worth of output to the host stream.
type Reporter struct {
	w    io.Writer
	mode Mode
	buf  []byte
}

// RecordSize returns the longest record mode produces for a matrix of
// positions: "65535,1\n" for events, four digits and a comma per reading plus
// the newline for debug.
func RecordSize(mode Mode, positions int) int {
	if mode == ModeDebug {
		return positions*5 + 1
	}
	return 8
}

// New returns a Reporter writing to w in mode.
func New(w io.Writer, mode Mode, positions int) *Reporter {
	return &Reporter{w: w, mode: mode, buf: make([]byte, 0, RecordSize(mode, positions))}
}

func (r *Reporter) Mode() Mode { return r.mode }

// Report writes events (events mode, one write per event) or snap (debug mode,
// one write per cycle).
//
// A failed write is not retried. In events mode the remaining events are still
// attempted and all failures are returned joined.
func (r *Reporter) Report(events []matrix.KeyEvent, snap []uint16) error {
	if r.mode == ModeDebug {
		r.buf = AppendSnapshot(r.buf[:0], snap)
		if _, err := r.w.Write(r.buf); err != nil {
			return fmt.Errorf("report snapshot: %w", err)
		}
		return nil
	}

	var errs []error
	for _, ev := range events {
		r.buf = AppendEvent(r.buf[:0], ev)
		if _, err := r.w.Write(r.buf); err != nil {
			errs = append(errs, fmt.Errorf("report event %d: %w", ev.Key, err))
		}
	}
	return errors.Join(errs...)
}
