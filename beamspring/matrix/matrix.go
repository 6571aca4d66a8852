// Package matrix holds the static geometry and threshold tables of a beam-spring
// keyboard matrix, plus the per-cycle state the scan loop mutates.
//
// Positions are numbered row-major: KeyIndex = row*Columns + column. Every table in
// this package is indexed by KeyIndex and sized once at startup.
package matrix

import (
	"errors"
	"math"
	"strconv"
)

// SampleMax is the full-scale value of a row sample (10-bit ADC).
const SampleMax = 1023

// Built-in defaults for keys that have no override.
const (
	DefaultBaseThreshold     uint16 = 200
	DefaultThresholdIncrease uint16 = 25
	DefaultDebounceDepth     uint8  = 3
)

// MaxPositions bounds Rows*Columns so both every KeyIndex and the position
// count fit in 16 bits.
const MaxPositions = math.MaxUint16

var (
	ErrBadGeometry      = errors.New("matrix: invalid geometry")
	ErrBadDebounceDepth = errors.New("matrix: invalid debounce depth")
	ErrKeyOutOfRange    = errors.New("matrix: key index out of range")
	ErrDuplicateKey     = errors.New("matrix: duplicate key index")
	ErrMissingOverride  = errors.New("matrix: override on missing key")
)

// KeyIndex identifies one matrix position in row-major order.
type KeyIndex uint16

func (k KeyIndex) String() string { return strconv.Itoa(int(k)) }

// Coordinate is a (row, column) matrix position.
type Coordinate struct {
	Row    int
	Column int
}

// Transition is the kind of a key state change.
type Transition uint8

const (
	Released Transition = iota
	Pressed
)

func (t Transition) String() string {
	switch t {
	case Pressed:
		return "pressed"
	case Released:
		return "released"
	default:
		return "unknown"
	}
}

// KeyEvent is a single press or release of one key.
type KeyEvent struct {
	Key        KeyIndex
	Transition Transition
}

// Threshold is the press threshold of one key.
//
// Increase is added to Base while another key in the same row or column is held.
type Threshold struct {
	Base     uint16 `yaml:"base"`
	Increase uint16 `yaml:"increase"`
}
