//go:build !tinygo

package main

import (
	"errors"
	"strings"
	"testing"

	"displaywriter/beamspring/matrix"
	"displaywriter/beamspring/report"

	"github.com/pterm/pterm"
)

func newTestMonitor(t *testing.T, every int) *monitor {
	t.Helper()
	l, err := matrix.NewLayout(matrix.Displaywriter())
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	return newMonitor(l, every)
}

func debugRecord(set map[int]uint16) []byte {
	snap := make([]uint16, 96)
	for k, v := range set {
		snap[k] = v
	}
	return report.AppendSnapshot(nil, snap)
}

func TestMonitorEvents(t *testing.T) {
	m := newTestMonitor(t, 0)
	for _, line := range []string{"37,1", "37,0", "", "25,1"} {
		if _, err := m.process([]byte(line)); err != nil {
			t.Fatalf("process(%q): %v", line, err)
		}
	}
	if m.presses[37] != 1 || m.releases[37] != 1 || m.presses[25] != 1 {
		t.Fatalf("presses %v releases %v", m.presses, m.releases)
	}
	if m.records != 3 {
		t.Fatalf("records = %d, want 3", m.records)
	}

	if _, err := m.process([]byte("2,1")); err == nil {
		t.Fatal("event on a missing position accepted")
	}
	if _, err := m.process([]byte("37,x")); !errors.Is(err, report.ErrBadRecord) {
		t.Fatalf("err = %v, want ErrBadRecord", err)
	}
	if m.bad != 2 {
		t.Fatalf("bad = %d, want 2", m.bad)
	}
}

func TestMonitorDebounceDebugRecords(t *testing.T) {
	m := newTestMonitor(t, 2)

	evs, err := m.process(debugRecord(map[int]uint16{37: 400}))
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if len(evs) != 1 || evs[0] != (matrix.KeyEvent{Key: 37, Transition: matrix.Pressed}) {
		t.Fatalf("events = %v", evs)
	}
	if m.showTable() {
		t.Fatal("table shown on the first record with every=2")
	}

	if _, err := m.process(debugRecord(map[int]uint16{37: 400, 2: 700})); err != nil {
		t.Fatalf("process: %v", err)
	}
	if !m.showTable() {
		t.Fatal("table not shown on the second record")
	}
	data := m.table()
	if len(data) != 9 || len(data[0]) != 13 {
		t.Fatalf("table is %dx%d", len(data), len(data[0]))
	}
	if data[4][2] != "400*" {
		t.Fatalf("cell for key 37 = %q, want 400*", data[4][2])
	}
	if data[1][3] != "-" {
		t.Fatalf("cell for missing key 2 = %q, want -", data[1][3])
	}
}

func TestMonitorSummary(t *testing.T) {
	m := newTestMonitor(t, 0)
	for _, line := range []string{"84,1", "37,1", "84,0", "84,1"} {
		if _, err := m.process([]byte(line)); err != nil {
			t.Fatalf("process: %v", err)
		}
	}
	s := m.summary()
	if len(s) != 3 {
		t.Fatalf("summary rows = %d, want header + 2", len(s))
	}
	if strings.Join(s[1], " ") != "37 3 1 1 0" || strings.Join(s[2], " ") != "84 7 0 2 1" {
		t.Fatalf("summary = %v", s)
	}
}

func TestConsumeQuiet(t *testing.T) {
	pterm.DisableOutput()
	defer pterm.EnableOutput()

	m := newTestMonitor(t, 1)
	in := "37,1\nnot a record\n" + string(debugRecord(nil))
	if err := m.consume(strings.NewReader(in), false); err != nil {
		t.Fatalf("consume: %v", err)
	}
	if m.records != 3 || m.bad != 1 || m.snaps != 1 {
		t.Fatalf("records %d bad %d snaps %d", m.records, m.bad, m.snaps)
	}
}
