// Package debounce turns voltage snapshots into press/release events.
//
// Each existing key has a counter. A settled key (counter 0) is pressed when its
// sample exceeds its base threshold, raised by the key's increase while another
// key in the same row or column is held. A pressed key counts down once per
// sample below its base threshold and is released when the counter reaches 0.
//
// Cross-talk detection reads the counters as they were at the start of the cycle,
// so the result does not depend on the order keys are visited in.
package debounce

import "displaywriter/beamspring/matrix"

// Engine holds the scratch space for Update. All buffers are sized once.
type Engine struct {
	layout *matrix.Layout

	prev   []uint8
	rowsOn []uint32
	colsOn []uint32
	events []matrix.KeyEvent
}

// New returns an engine for l.
func New(l *matrix.Layout) *Engine {
	return &Engine{
		layout: l,
		prev:   make([]uint8, l.Positions()),
		rowsOn: make([]uint32, l.Rows()),
		colsOn: make([]uint32, l.Columns()),
		events: make([]matrix.KeyEvent, 0, l.Positions()),
	}
}

// Update advances st.Counters by one cycle using st.Snapshot and returns the
// events of that cycle in row-major order.
//
// The returned slice is reused by the next call.
func (e *Engine) Update(st *matrix.State) []matrix.KeyEvent {
	l := e.layout
	e.events = e.events[:0]

	copy(e.prev, st.Counters)
	for i := range e.rowsOn {
		e.rowsOn[i] = 0
	}
	for i := range e.colsOn {
		e.colsOn[i] = 0
	}
	k := 0
	for r := 0; r < l.Rows(); r++ {
		for c := 0; c < l.Columns(); c++ {
			if e.prev[k] > 0 {
				e.rowsOn[r]++
				e.colsOn[c]++
			}
			k++
		}
	}

	depth := l.DebounceDepth()
	k = 0
	for r := 0; r < l.Rows(); r++ {
		for c := 0; c < l.Columns(); c++ {
			key := matrix.KeyIndex(k)
			k++
			if !l.Exists(key) {
				continue
			}

			count := e.prev[key]
			v := st.Snapshot[key]
			th := l.Threshold(key)

			if count == 0 {
				// A settled key adds nothing to rowsOn/colsOn, so any count there
				// belongs to another key in its row or column.
				limit := uint32(th.Base)
				if e.rowsOn[r]+e.colsOn[c] > 0 {
					limit += uint32(th.Increase)
				}
				if uint32(v) > limit {
					st.Counters[key] = depth
					e.events = append(e.events, matrix.KeyEvent{Key: key, Transition: matrix.Pressed})
				}
			} else if v < th.Base {
				count--
				st.Counters[key] = count
				if count == 0 {
					e.events = append(e.events, matrix.KeyEvent{Key: key, Transition: matrix.Released})
				}
			}
		}
	}
	return e.events
}

// Held returns the number of keys with a positive counter.
func Held(st *matrix.State) int {
	n := 0
	for _, c := range st.Counters {
		if c > 0 {
			n++
		}
	}
	return n
}
