package hal

import (
	"testing"
	"time"
)

func TestSignalKeyVoltage(t *testing.T) {
	now := time.Unix(0, 0)
	clock := func() time.Time { return now }

	key := newSignalKeyWithClock(10*time.Second, 2*time.Second, 600, 40, clock)

	if v := key.Voltage(); v != 600 {
		t.Fatalf("Voltage() = %d at t=0, want 600", v)
	}

	now = now.Add(3 * time.Second)
	if v := key.Voltage(); v != 40 {
		t.Fatalf("Voltage() = %d at t=3s, want 40", v)
	}

	now = now.Add(8 * time.Second) // t=11s => phase 1s, pressed again
	if v := key.Voltage(); v != 600 {
		t.Fatalf("Voltage() = %d at t=11s, want 600", v)
	}
}

func TestSimMatrixFollowsPulsedColumn(t *testing.T) {
	s, err := NewSim(2, 3, nil, nil)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	m := s.Matrix()
	m.Set(1, 2, 450)
	m.Set(1, 0, 120)

	if v := s.Rows().Sample(1); v != 0 {
		t.Fatalf("Sample before any pulse = %d, want 0", v)
	}

	s.Columns().Pulse(2)
	if v := s.Rows().Sample(1); v != 450 {
		t.Fatalf("Sample(1) after Pulse(2) = %d, want 450", v)
	}
	s.Columns().Pulse(0)
	if v := s.Rows().Sample(1); v != 120 {
		t.Fatalf("Sample(1) after Pulse(0) = %d, want 120", v)
	}
	if got := m.Pulses(); got != 2 {
		t.Fatalf("Pulses() = %d, want 2", got)
	}
}

func TestColumnPinReturnsLow(t *testing.T) {
	s, err := NewSim(1, 2, nil, nil)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	s.Columns().Pulse(1)

	pin := s.Matrix().ColumnPins()[1]
	if pin.Name() != "COL1" {
		t.Fatalf("ColumnPins()[1] = %s, want COL1", pin.Name())
	}
	level, err := pin.Read()
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if level {
		t.Fatal("column left high after pulse")
	}
}

func TestSimMatrixAttachAndClamp(t *testing.T) {
	m := NewSimMatrix(1, 1)
	m.Set(0, 0, 5000)
	if v := m.Voltage(0, 0); v != SampleMax {
		t.Fatalf("Voltage() = %d, want clamp to %d", v, SampleMax)
	}

	now := time.Unix(0, 0)
	m.Attach(0, 0, newSignalKeyWithClock(time.Second, time.Second, 700, 0, func() time.Time { return now }))
	if v := m.Voltage(0, 0); v != 700 {
		t.Fatalf("Voltage() with source = %d, want 700", v)
	}
	m.Attach(0, 0, nil)
	if v := m.Voltage(0, 0); v != SampleMax {
		t.Fatalf("Voltage() after detach = %d, want %d", v, SampleMax)
	}
}

func TestVirtualPinRejectsWriteInInputMode(t *testing.T) {
	p := newVirtualPin("GPIO1", GPIOCapInput|GPIOCapOutput)
	if err := p.Write(true); err == nil {
		t.Fatal("Write in input mode succeeded")
	}
	if err := p.Configure(GPIOModeOutput, GPIOPullUp); err == nil {
		t.Fatal("pull-up accepted without capability")
	}
}

func TestSimLED(t *testing.T) {
	s, err := NewSim(1, 1, nil, nil)
	if err != nil {
		t.Fatalf("NewSim: %v", err)
	}
	s.LED().High()
	if !s.LEDOn() {
		t.Fatal("LED should be on")
	}
	s.LED().Low()
	if s.LEDOn() {
		t.Fatal("LED should be off")
	}
}

func TestPinColumnsPulseThroughPins(t *testing.T) {
	var levels []bool
	p := newVirtualPin("COL0", GPIOCapOutput)
	p.onWrite = func(level bool) { levels = append(levels, level) }
	cd, err := newPinColumns([]GPIOPin{p})
	if err != nil {
		t.Fatalf("newPinColumns: %v", err)
	}
	cd.Pulse(0)
	cd.Pulse(1) // out of range
	if len(levels) != 3 || levels[0] || !levels[1] || levels[2] {
		t.Fatalf("levels = %v, want initial low then one high-low pulse", levels)
	}

	if _, err := newPinColumns([]GPIOPin{newVirtualPin("IN0", GPIOCapInput)}); err == nil {
		t.Fatal("input-only pin accepted as a column")
	}
}
