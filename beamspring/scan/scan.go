// Package scan sweeps a keyboard matrix and fills a voltage snapshot.
package scan

import (
	"errors"
	"fmt"

	"displaywriter/beamspring/matrix"
)

// Columns drives the column lines of the matrix.
type Columns interface {
	Columns() int
	// Pulse drives column col high and immediately low again.
	Pulse(col int)
}

// Rows samples the analog row sense lines.
type Rows interface {
	Rows() int
	// Sample returns the current reading of row in [0, matrix.SampleMax].
	Sample(row int) uint16
}

var ErrShortMatrix = errors.New("scan: hardware has fewer lines than layout")

// Scanner performs one full matrix sweep per call to Scan.
type Scanner struct {
	cols  Columns
	rows  Rows
	nRows int
	nCols int
}

// New returns a scanner for l. It fails if the hardware cannot cover the layout.
func New(cols Columns, rows Rows, l *matrix.Layout) (*Scanner, error) {
	if cols == nil || rows == nil {
		return nil, fmt.Errorf("scan: nil hardware: %w", ErrShortMatrix)
	}
	if cols.Columns() < l.Columns() {
		return nil, fmt.Errorf("%w: %d columns, need %d", ErrShortMatrix, cols.Columns(), l.Columns())
	}
	if rows.Rows() < l.Rows() {
		return nil, fmt.Errorf("%w: %d rows, need %d", ErrShortMatrix, rows.Rows(), l.Rows())
	}
	return &Scanner{cols: cols, rows: rows, nRows: l.Rows(), nCols: l.Columns()}, nil
}

// Scan sweeps every position in row-major order and writes the readings to snap.
//
// Each sample is taken right after its column pulse; the coupling the pulse
// induces into the row decays quickly, so samples are never batched. Missing
// positions are swept too, which keeps the per-pulse timing uniform and gives
// debug records a value for every position.
func (s *Scanner) Scan(snap []uint16) {
	k := 0
	for r := 0; r < s.nRows; r++ {
		for c := 0; c < s.nCols; c++ {
			s.cols.Pulse(c)
			v := s.rows.Sample(r)
			if v > matrix.SampleMax {
				v = matrix.SampleMax
			}
			if k < len(snap) {
				snap[k] = v
			}
			k++
		}
	}
}
