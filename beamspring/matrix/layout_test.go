package matrix

import (
	"errors"
	"testing"
)

func TestNewLayoutDefaults(t *testing.T) {
	cfg := Displaywriter()
	l, err := NewLayout(cfg)
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	if l.Positions() != 96 {
		t.Fatalf("Positions() = %d, want 96", l.Positions())
	}

	overridden := make(map[KeyIndex]bool)
	for _, o := range cfg.Overrides {
		overridden[o.Key] = true
	}
	for k := KeyIndex(0); int(k) < l.Positions(); k++ {
		if overridden[k] {
			continue
		}
		th := l.Threshold(k)
		if th.Base != DefaultBaseThreshold || th.Increase != DefaultThresholdIncrease {
			t.Fatalf("Threshold(%d) = %+v, want defaults", k, th)
		}
	}

	if got := l.Threshold(37); got.Base != 300 || got.Increase != 50 {
		t.Fatalf("Threshold(37) = %+v, want {300 50}", got)
	}
}

func TestNewLayoutExistence(t *testing.T) {
	l, err := NewLayout(Displaywriter())
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	if l.Exists(2) {
		t.Fatal("key 2 should be missing")
	}
	if !l.Exists(37) {
		t.Fatal("key 37 should exist")
	}
	if l.Exists(KeyIndex(l.Positions())) {
		t.Fatal("out of range key should not exist")
	}
}

func TestNewLayoutRejectsOutOfRange(t *testing.T) {
	cfg := Displaywriter()
	cfg.Overrides = append(cfg.Overrides, Override{Key: 96, Threshold: Threshold{Base: 1}})
	if _, err := NewLayout(cfg); !errors.Is(err, ErrKeyOutOfRange) {
		t.Fatalf("override 96: err = %v, want ErrKeyOutOfRange", err)
	}

	cfg = Displaywriter()
	cfg.Missing = append(cfg.Missing, 200)
	if _, err := NewLayout(cfg); !errors.Is(err, ErrKeyOutOfRange) {
		t.Fatalf("missing 200: err = %v, want ErrKeyOutOfRange", err)
	}
}

func TestNewLayoutRejectsBadConfig(t *testing.T) {
	cfg := Displaywriter()
	cfg.Rows = 0
	if _, err := NewLayout(cfg); !errors.Is(err, ErrBadGeometry) {
		t.Fatalf("rows 0: err = %v, want ErrBadGeometry", err)
	}

	cfg = Displaywriter()
	cfg.DebounceDepth = 0
	if _, err := NewLayout(cfg); !errors.Is(err, ErrBadDebounceDepth) {
		t.Fatalf("depth 0: err = %v, want ErrBadDebounceDepth", err)
	}

	cfg = Displaywriter()
	cfg.Overrides = append(cfg.Overrides, Override{Key: 37})
	if _, err := NewLayout(cfg); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("duplicate: err = %v, want ErrDuplicateKey", err)
	}

	cfg = Displaywriter()
	cfg.Overrides = append(cfg.Overrides, Override{Key: 2})
	if _, err := NewLayout(cfg); !errors.Is(err, ErrMissingOverride) {
		t.Fatalf("override on missing: err = %v, want ErrMissingOverride", err)
	}
}

func TestNewLayoutPositionLimit(t *testing.T) {
	cfg := Config{Rows: 256, Columns: 256, DebounceDepth: 1}
	if _, err := NewLayout(cfg); !errors.Is(err, ErrBadGeometry) {
		t.Fatalf("256x256: err = %v, want ErrBadGeometry", err)
	}
	cfg.Rows, cfg.Columns = 5, 13107 // 65535 positions
	l, err := NewLayout(cfg)
	if err != nil {
		t.Fatalf("5x13107: %v", err)
	}
	if l.Positions() != MaxPositions {
		t.Fatalf("Positions() = %d, want %d", l.Positions(), MaxPositions)
	}
}

func TestCoordinateIndex(t *testing.T) {
	l, err := NewLayout(Displaywriter())
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	pos := l.Coordinate(37)
	if pos.Row != 3 || pos.Column != 1 {
		t.Fatalf("Coordinate(37) = %+v, want {3 1}", pos)
	}
	if got := l.Index(pos.Row, pos.Column); got != 37 {
		t.Fatalf("Index(3, 1) = %d, want 37", got)
	}
}

func TestStateReset(t *testing.T) {
	l, err := NewLayout(Displaywriter())
	if err != nil {
		t.Fatalf("NewLayout: %v", err)
	}
	st := NewState(l)
	st.Counters[5] = 2
	st.Snapshot[5] = 800
	if !st.Held(5) {
		t.Fatal("expected key 5 held")
	}
	st.Reset()
	if st.Held(5) || st.Snapshot[5] != 0 {
		t.Fatal("Reset did not clear state")
	}
}
