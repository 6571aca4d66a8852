//go:build !tinygo

package main

import (
	"testing"

	"displaywriter/beamspring/matrix"
)

func TestDetectorRanksRises(t *testing.T) {
	d := newDetector(6, 2)
	idle := []uint16{100, 100, 100, 100, 100, 100}

	for i := 0; i < 2; i++ {
		if _, ok := d.add(idle); ok {
			t.Fatal("ranking produced during the baseline window")
		}
	}

	pressed := []uint16{100, 180, 100, 400, 90, 100}
	if _, ok := d.add(pressed); ok {
		t.Fatal("ranking produced mid-window")
	}
	ranked, ok := d.add(pressed)
	if !ok {
		t.Fatal("no ranking after a full window")
	}
	if len(ranked) != 6 {
		t.Fatalf("len(ranked) = %d, want 6", len(ranked))
	}
	if ranked[0].Key != 3 || ranked[0].Rise != 300 || ranked[1].Key != 1 {
		t.Fatalf("ranked = %+v", ranked[:2])
	}
	if last := ranked[len(ranked)-1]; last.Key != 4 || last.Rise != -10 {
		t.Fatalf("last = %+v", last)
	}
}

func TestDetectorKeepsTopTen(t *testing.T) {
	d := newDetector(96, 1)
	d.add(make([]uint16, 96))
	snap := make([]uint16, 96)
	for i := range snap {
		snap[i] = uint16(i)
	}
	ranked, ok := d.add(snap)
	if !ok || len(ranked) != detectTop {
		t.Fatalf("ok %v, %d ranked", ok, len(ranked))
	}
	if ranked[0].Key != 95 {
		t.Fatalf("top key = %d, want 95", ranked[0].Key)
	}

	l, err := matrix.NewLayout(matrix.Displaywriter())
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	table := riseTable(l, ranked)
	if table[1][1] != "95" || table[1][2] != "7" || table[1][3] != "11" || table[1][4] != "95.00" {
		t.Fatalf("row = %v", table[1])
	}
}
