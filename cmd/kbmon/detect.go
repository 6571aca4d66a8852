//go:build !tinygo

package main

import (
	"sort"
	"strconv"

	"displaywriter/beamspring/matrix"

	"github.com/pterm/pterm"
)

const detectTop = 10

// keyRise is how far the mean reading of a key rose above its baseline.
type keyRise struct {
	Key  matrix.KeyIndex
	Rise float64
	Mean float64
}

// detector finds the keys being pressed while a profile is unknown. The first
// window of debug records is the idle baseline; every later window is ranked by
// the rise of each position's mean over that baseline.
type detector struct {
	window   int
	sums     []uint64
	n        int
	baseline []float64
}

func newDetector(positions, window int) *detector {
	if window <= 0 {
		window = 25
	}
	return &detector{window: window, sums: make([]uint64, positions)}
}

// add accumulates snap. It returns the ranking when a window past the
// baseline completes.
func (d *detector) add(snap []uint16) ([]keyRise, bool) {
	for i, v := range snap {
		if i < len(d.sums) {
			d.sums[i] += uint64(v)
		}
	}
	d.n++
	if d.n < d.window {
		return nil, false
	}

	means := make([]float64, len(d.sums))
	for i, s := range d.sums {
		means[i] = float64(s) / float64(d.n)
		d.sums[i] = 0
	}
	d.n = 0

	if d.baseline == nil {
		d.baseline = means
		return nil, false
	}

	ranked := make([]keyRise, len(means))
	for i, m := range means {
		ranked[i] = keyRise{Key: matrix.KeyIndex(i), Rise: m - d.baseline[i], Mean: m}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Rise > ranked[j].Rise })
	if len(ranked) > detectTop {
		ranked = ranked[:detectTop]
	}
	return ranked, true
}

func riseTable(l *matrix.Layout, ranked []keyRise) pterm.TableData {
	data := pterm.TableData{{"#", "Key", "Row", "Col", "Rise", "Mean"}}
	for i, r := range ranked {
		pos := l.Coordinate(r.Key)
		data = append(data, []string{
			strconv.Itoa(i),
			r.Key.String(),
			strconv.Itoa(pos.Row),
			strconv.Itoa(pos.Column),
			strconv.FormatFloat(r.Rise, 'f', 2, 64),
			strconv.FormatFloat(r.Mean, 'f', 1, 64),
		})
	}
	return data
}
