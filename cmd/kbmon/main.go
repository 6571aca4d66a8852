//go:build !tinygo

// Command kbmon decodes the keyboard's host stream from a tty, a capture file
// or stdin. Event records are printed as they arrive. Debug records are run
// through the debounce engine locally and rendered as a reading table, or
// ranked against an idle baseline to find which positions a key press moves.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"displaywriter/beamspring/debounce"
	"displaywriter/beamspring/matrix"
	"displaywriter/beamspring/report"
	"displaywriter/internal/config"

	"github.com/pterm/pterm"
)

type monitor struct {
	layout *matrix.Layout
	state  *matrix.State
	engine *debounce.Engine
	every  int
	detect *detector
	ranked []keyRise

	records  int
	snaps    int
	bad      int
	presses  map[matrix.KeyIndex]int
	releases map[matrix.KeyIndex]int
}

func newMonitor(l *matrix.Layout, every int) *monitor {
	return &monitor{
		layout:   l,
		state:    matrix.NewState(l),
		engine:   debounce.New(l),
		every:    every,
		presses:  make(map[matrix.KeyIndex]int),
		releases: make(map[matrix.KeyIndex]int),
	}
}

// process handles one line of the stream and returns the events it produced.
func (m *monitor) process(line []byte) ([]matrix.KeyEvent, error) {
	if len(line) == 0 {
		return nil, nil
	}
	m.records++
	rec, err := report.ParseRecord(line, m.state.Snapshot)
	if err != nil {
		m.bad++
		return nil, err
	}
	if rec.Mode == report.ModeEvents {
		if !m.layout.Exists(rec.Event.Key) {
			m.bad++
			return nil, fmt.Errorf("event for key %d outside the profile", rec.Event.Key)
		}
		m.count(rec.Event)
		return []matrix.KeyEvent{rec.Event}, nil
	}
	m.snaps++
	if m.detect != nil {
		if r, ok := m.detect.add(m.state.Snapshot); ok {
			m.ranked = r
		}
	}
	evs := m.engine.Update(m.state)
	for _, ev := range evs {
		m.count(ev)
	}
	return evs, nil
}

func (m *monitor) count(ev matrix.KeyEvent) {
	if ev.Transition == matrix.Pressed {
		m.presses[ev.Key]++
	} else {
		m.releases[ev.Key]++
	}
}

// showTable reports whether the snapshot just processed should be rendered.
func (m *monitor) showTable() bool {
	return m.every > 0 && m.snaps > 0 && m.snaps%m.every == 0
}

// table returns the last snapshot as rows of cells. Missing positions read
// "-", held keys are marked with '*'.
func (m *monitor) table() pterm.TableData {
	l := m.layout
	header := []string{"row"}
	for c := 0; c < l.Columns(); c++ {
		header = append(header, "c"+strconv.Itoa(c))
	}
	data := pterm.TableData{header}
	for r := 0; r < l.Rows(); r++ {
		row := []string{strconv.Itoa(r)}
		for c := 0; c < l.Columns(); c++ {
			k := l.Index(r, c)
			switch {
			case !l.Exists(k):
				row = append(row, "-")
			case m.state.Held(k):
				row = append(row, strconv.Itoa(int(m.state.Snapshot[k]))+"*")
			default:
				row = append(row, strconv.Itoa(int(m.state.Snapshot[k])))
			}
		}
		data = append(data, row)
	}
	return data
}

// summary returns per-key press and release counts, by key.
func (m *monitor) summary() pterm.TableData {
	keys := make([]matrix.KeyIndex, 0, len(m.presses)+len(m.releases))
	seen := make(map[matrix.KeyIndex]bool)
	for k := range m.presses {
		keys = append(keys, k)
		seen[k] = true
	}
	for k := range m.releases {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	data := pterm.TableData{{"Key", "Row", "Col", "Presses", "Releases"}}
	for _, k := range keys {
		pos := m.layout.Coordinate(k)
		data = append(data, []string{
			k.String(),
			strconv.Itoa(pos.Row),
			strconv.Itoa(pos.Column),
			strconv.Itoa(m.presses[k]),
			strconv.Itoa(m.releases[k]),
		})
	}
	return data
}

func main() {
	var inPath string
	var cfgPath string
	var every int
	var quiet bool
	var detect int
	flag.StringVar(&inPath, "in", "-", "Stream source: tty, capture file or - for stdin.")
	flag.StringVar(&cfgPath, "config", "", "YAML config with the matrix profile (default: built-in Displaywriter).")
	flag.IntVar(&every, "every", 50, "Render every Nth debug record as a table (0 = never).")
	flag.BoolVar(&quiet, "quiet", false, "Only print the summary.")
	flag.IntVar(&detect, "detect", 0, "Rank the keys whose readings rise most, in windows of N debug records (0 = off). Keep the keyboard idle for the first window.")
	flag.Parse()

	if err := run(inPath, cfgPath, every, detect, quiet); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

func run(inPath, cfgPath string, every, detect int, quiet bool) error {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	l, err := matrix.NewLayout(cfg.Matrix)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if inPath != "" && inPath != "-" {
		f, err := os.Open(inPath)
		if err != nil {
			return fmt.Errorf("open %q: %w", inPath, err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	pterm.DefaultHeader.WithFullWidth().Printf("kbmon: %s %dx%d", l.Name(), l.Rows(), l.Columns())
	pterm.Println()

	m := newMonitor(l, every)
	if detect > 0 {
		m.detect = newDetector(l.Positions(), detect)
		pterm.Info.Printf("measuring the idle baseline over %d debug records, do not press any keys\n", detect)
	}
	if err := m.consume(in, quiet); err != nil {
		return err
	}

	pterm.DefaultSection.Println("Summary")
	pterm.Info.Printf("%d records, %d debug records, %d malformed\n", m.records, m.snaps, m.bad)
	if len(m.presses)+len(m.releases) > 0 {
		if err := pterm.DefaultTable.WithHasHeader().WithData(m.summary()).Render(); err != nil {
			return err
		}
	}
	return nil
}

func (m *monitor) consume(in io.Reader, quiet bool) error {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 4096), m.layout.Positions()*8+64)
	for sc.Scan() {
		evs, err := m.process(sc.Bytes())
		if err != nil {
			if !quiet {
				pterm.Warning.Printf("line %d: %v\n", m.records, err)
			}
			continue
		}
		if quiet {
			continue
		}
		for _, ev := range evs {
			pos := m.layout.Coordinate(ev.Key)
			msg := fmt.Sprintf("key %d (r%d,c%d) %s", ev.Key, pos.Row, pos.Column, ev.Transition)
			if ev.Transition == matrix.Pressed {
				pterm.Success.Println(msg)
			} else {
				pterm.Info.Println(msg)
			}
		}
		if m.ranked != nil {
			pterm.DefaultSection.Printf("Largest rises after %d debug records", m.snaps)
			if err := pterm.DefaultTable.WithHasHeader().WithData(riseTable(m.layout, m.ranked)).Render(); err != nil {
				return err
			}
			m.ranked = nil
		}
		if m.showTable() {
			pterm.DefaultSection.Printf("Debug record %d", m.snaps)
			if err := pterm.DefaultTable.WithHasHeader().WithData(m.table()).Render(); err != nil {
				return err
			}
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read stream: %w", err)
	}
	return nil
}
