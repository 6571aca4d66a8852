package report

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"displaywriter/beamspring/matrix"
)

var ErrBadRecord = errors.New("report: malformed record")

// AppendEvent appends the event record for ev to dst.
func AppendEvent(dst []byte, ev matrix.KeyEvent) []byte {
	dst = strconv.AppendUint(dst, uint64(ev.Key), 10)
	dst = append(dst, ',')
	if ev.Transition == matrix.Pressed {
		dst = append(dst, '1')
	} else {
		dst = append(dst, '0')
	}
	return append(dst, '\n')
}

// AppendSnapshot appends the debug record for snap to dst.
func AppendSnapshot(dst []byte, snap []uint16) []byte {
	for _, v := range snap {
		dst = strconv.AppendUint(dst, uint64(v), 10)
		dst = append(dst, ',')
	}
	return append(dst, '\n')
}

// ParseEvent decodes one event record. The trailing newline is optional.
func ParseEvent(line []byte) (matrix.KeyEvent, error) {
	line = bytes.TrimSpace(line)
	key, flag, ok := bytes.Cut(line, []byte{','})
	if !ok {
		return matrix.KeyEvent{}, fmt.Errorf("%w: %q", ErrBadRecord, line)
	}
	k, err := strconv.ParseUint(string(key), 10, 16)
	if err != nil {
		return matrix.KeyEvent{}, fmt.Errorf("%w: key %q", ErrBadRecord, key)
	}
	ev := matrix.KeyEvent{Key: matrix.KeyIndex(k)}
	switch string(flag) {
	case "1":
		ev.Transition = matrix.Pressed
	case "0":
		ev.Transition = matrix.Released
	default:
		return matrix.KeyEvent{}, fmt.Errorf("%w: flag %q", ErrBadRecord, flag)
	}
	return ev, nil
}

// ParseSnapshot decodes one debug record into dst. The record must carry exactly
// len(dst) readings; the trailing comma is accepted but not required.
func ParseSnapshot(line []byte, dst []uint16) error {
	line = bytes.TrimSpace(line)
	line = bytes.TrimSuffix(line, []byte{','})
	n := 0
	for len(line) > 0 {
		field, rest, _ := bytes.Cut(line, []byte{','})
		line = rest
		if n >= len(dst) {
			return fmt.Errorf("%w: more than %d readings", ErrBadRecord, len(dst))
		}
		v, err := strconv.ParseUint(string(bytes.TrimSpace(field)), 10, 16)
		if err != nil || v > matrix.SampleMax {
			return fmt.Errorf("%w: reading %d %q", ErrBadRecord, n, field)
		}
		dst[n] = uint16(v)
		n++
	}
	if n != len(dst) {
		return fmt.Errorf("%w: %d readings, want %d", ErrBadRecord, n, len(dst))
	}
	return nil
}

// Record is a decoded line of either kind.
type Record struct {
	Mode  Mode
	Event matrix.KeyEvent
}

// ParseRecord decodes line as an event record when it has exactly two fields and
// otherwise as a debug record into snap.
func ParseRecord(line []byte, snap []uint16) (Record, error) {
	trimmed := bytes.TrimSpace(line)
	if bytes.Count(trimmed, []byte{','}) == 1 && !bytes.HasSuffix(trimmed, []byte{','}) {
		ev, err := ParseEvent(trimmed)
		if err != nil {
			return Record{}, err
		}
		return Record{Mode: ModeEvents, Event: ev}, nil
	}
	if err := ParseSnapshot(trimmed, snap); err != nil {
		return Record{}, err
	}
	return Record{Mode: ModeDebug}, nil
}
