package matrix

import "fmt"

// Layout is the validated, immutable form of a Config: existence mask and
// fully populated threshold table.
type Layout struct {
	name       string
	rows       int
	columns    int
	depth      uint8
	exists     []bool
	thresholds []Threshold
}

// NewLayout validates cfg and builds its tables.
//
// Any index outside the matrix is rejected rather than clamped.
func NewLayout(cfg Config) (*Layout, error) {
	if cfg.Rows <= 0 || cfg.Columns <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadGeometry, cfg.Rows, cfg.Columns)
	}
	n := cfg.Positions()
	if n > MaxPositions {
		return nil, fmt.Errorf("%w: %d positions exceeds %d", ErrBadGeometry, n, MaxPositions)
	}
	if cfg.DebounceDepth == 0 {
		return nil, fmt.Errorf("%w: %d", ErrBadDebounceDepth, cfg.DebounceDepth)
	}

	l := &Layout{
		name:       cfg.Name,
		rows:       cfg.Rows,
		columns:    cfg.Columns,
		depth:      cfg.DebounceDepth,
		exists:     make([]bool, n),
		thresholds: make([]Threshold, n),
	}
	for i := range l.exists {
		l.exists[i] = true
		l.thresholds[i] = cfg.Default
	}

	for _, k := range cfg.Missing {
		if int(k) >= n {
			return nil, fmt.Errorf("missing key %d: %w (positions %d)", k, ErrKeyOutOfRange, n)
		}
		l.exists[k] = false
	}

	seen := make(map[KeyIndex]bool, len(cfg.Overrides))
	for _, o := range cfg.Overrides {
		if int(o.Key) >= n {
			return nil, fmt.Errorf("override key %d: %w (positions %d)", o.Key, ErrKeyOutOfRange, n)
		}
		if seen[o.Key] {
			return nil, fmt.Errorf("override key %d: %w", o.Key, ErrDuplicateKey)
		}
		if !l.exists[o.Key] {
			return nil, fmt.Errorf("override key %d: %w", o.Key, ErrMissingOverride)
		}
		seen[o.Key] = true
		l.thresholds[o.Key] = o.Threshold
	}
	return l, nil
}

func (l *Layout) Name() string         { return l.name }
func (l *Layout) Rows() int            { return l.rows }
func (l *Layout) Columns() int         { return l.columns }
func (l *Layout) Positions() int       { return len(l.exists) }
func (l *Layout) DebounceDepth() uint8 { return l.depth }

// Exists reports whether k is wired to a physical switch.
func (l *Layout) Exists(k KeyIndex) bool {
	return int(k) < len(l.exists) && l.exists[k]
}

// Threshold returns the threshold entry of k.
func (l *Layout) Threshold(k KeyIndex) Threshold {
	if int(k) >= len(l.thresholds) {
		return Threshold{}
	}
	return l.thresholds[k]
}

// Coordinate returns the position of k.
func (l *Layout) Coordinate(k KeyIndex) Coordinate {
	return Coordinate{Row: int(k) / l.columns, Column: int(k) % l.columns}
}

// Index returns the KeyIndex at row, column.
func (l *Layout) Index(row, column int) KeyIndex {
	return KeyIndex(row*l.columns + column)
}
