package hal

import (
	"fmt"
	"sync"
	"time"
)

// VoltageSource produces the reading of one simulated matrix position.
type VoltageSource interface {
	Voltage() uint16
}

// SimMatrix is a virtual key matrix.
//
// Column lines are virtual GPIO outputs; a row sample returns the voltage of the
// position at the column most recently driven high, which is how the coupling
// pulse of a real beam-spring matrix behaves.
type SimMatrix struct {
	mu      sync.Mutex
	rows    int
	cols    int
	volts   []uint16
	sources map[int]VoltageSource
	active  int
	pulses  uint64
	pins    []GPIOPin
}

// NewSimMatrix returns a rows x cols matrix reading 0 everywhere.
func NewSimMatrix(rows, cols int) *SimMatrix {
	m := &SimMatrix{
		rows:    rows,
		cols:    cols,
		volts:   make([]uint16, rows*cols),
		sources: make(map[int]VoltageSource),
		active:  -1,
	}
	for c := 0; c < cols; c++ {
		col := c
		p := newVirtualPin(fmt.Sprintf("COL%d", c), GPIOCapOutput)
		p.onWrite = func(level bool) {
			if level {
				m.drive(col)
			}
		}
		m.pins = append(m.pins, p)
	}
	return m
}

func (m *SimMatrix) drive(col int) {
	m.mu.Lock()
	m.active = col
	m.pulses++
	m.mu.Unlock()
}

// ColumnPins returns the column drive pins, in column order.
func (m *SimMatrix) ColumnPins() []GPIOPin { return m.pins }

func (m *SimMatrix) Rows() int { return m.rows }

// Sample implements RowSampler.
func (m *SimMatrix) Sample(row int) uint16 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if row < 0 || row >= m.rows || m.active < 0 {
		return 0
	}
	k := row*m.cols + m.active
	if src, ok := m.sources[k]; ok {
		return clampSample(src.Voltage())
	}
	return m.volts[k]
}

// Set injects a static voltage at row, col.
func (m *SimMatrix) Set(row, col int, v uint16) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volts[row*m.cols+col] = clampSample(v)
}

// Load copies a row-major snapshot into the matrix.
func (m *SimMatrix) Load(snap []uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < len(snap) && i < len(m.volts); i++ {
		m.volts[i] = clampSample(snap[i])
	}
}

// Voltage returns the injected voltage at row, col.
func (m *SimMatrix) Voltage(row, col int) uint16 {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	k := row*m.cols + col
	if src, ok := m.sources[k]; ok {
		return clampSample(src.Voltage())
	}
	return m.volts[k]
}

// Attach makes src drive the reading at row, col. A nil src detaches.
func (m *SimMatrix) Attach(row, col int, src VoltageSource) {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if src == nil {
		delete(m.sources, row*m.cols+col)
		return
	}
	m.sources[row*m.cols+col] = src
}

// Pulses returns how many column pulses the matrix has seen.
func (m *SimMatrix) Pulses() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pulses
}

func clampSample(v uint16) uint16 {
	if v > SampleMax {
		return SampleMax
	}
	return v
}

// SignalKey is a key pressed periodically: it reads the pressed voltage for the
// first high duration of every period and the idle voltage otherwise.
type SignalKey struct {
	mu      sync.Mutex
	t0      time.Time
	now     func() time.Time
	period  time.Duration
	high    time.Duration
	pressed uint16
	idle    uint16
}

// NewSignalKey returns a periodic key using the wall clock.
func NewSignalKey(period, high time.Duration, pressed, idle uint16) *SignalKey {
	return newSignalKeyWithClock(period, high, pressed, idle, time.Now)
}

func newSignalKeyWithClock(period, high time.Duration, pressed, idle uint16, now func() time.Time) *SignalKey {
	if now == nil {
		now = time.Now
	}
	if period <= 0 {
		period = 1 * time.Second
	}
	if high < 0 {
		high = 0
	}
	if high > period {
		high = period
	}
	return &SignalKey{
		t0:      now(),
		now:     now,
		period:  period,
		high:    high,
		pressed: pressed,
		idle:    idle,
	}
}

func (k *SignalKey) Voltage() uint16 {
	k.mu.Lock()
	defer k.mu.Unlock()

	elapsed := k.now().Sub(k.t0)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	if elapsed%k.period < k.high {
		return k.pressed
	}
	return k.idle
}

// Sim is a HAL backed by a SimMatrix. The host build and tests use it.
type Sim struct {
	logger Logger
	led    *simLED
	cols   *pinColumns
	matrix *SimMatrix
	serial Serial
}

// NewSim returns a simulated board with a rows x cols matrix. Host stream output
// goes to serial and log lines to logger; either may be nil.
func NewSim(rows, cols int, serial Serial, logger Logger) (*Sim, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("sim: invalid matrix %dx%d", rows, cols)
	}
	if logger == nil {
		logger = discardLogger{}
	}
	if serial == nil {
		serial = discardSerial{}
	}
	m := NewSimMatrix(rows, cols)
	cd, err := newPinColumns(m.ColumnPins())
	if err != nil {
		return nil, err
	}
	return &Sim{
		logger: logger,
		led:    &simLED{logger: logger},
		cols:   cd,
		matrix: m,
		serial: serial,
	}, nil
}

func (s *Sim) Logger() Logger        { return s.logger }
func (s *Sim) LED() LED              { return s.led }
func (s *Sim) Columns() ColumnDriver { return s.cols }
func (s *Sim) Rows() RowSampler      { return s.matrix }
func (s *Sim) Serial() Serial        { return s.serial }

// Matrix returns the simulated matrix for voltage injection.
func (s *Sim) Matrix() *SimMatrix { return s.matrix }

// LEDOn reports the activity LED level.
func (s *Sim) LEDOn() bool {
	s.led.mu.Lock()
	defer s.led.mu.Unlock()
	return s.led.on
}

type simLED struct {
	mu     sync.Mutex
	on     bool
	logger Logger
}

func (l *simLED) High() { l.set(true) }
func (l *simLED) Low()  { l.set(false) }

func (l *simLED) set(on bool) {
	l.mu.Lock()
	changed := l.on != on
	l.on = on
	l.mu.Unlock()
	if !changed {
		return
	}
	if on {
		l.logger.WriteLineString("led: HIGH")
	} else {
		l.logger.WriteLineString("led: LOW")
	}
}

type discardLogger struct{}

func (discardLogger) WriteLineString(string) {}
func (discardLogger) WriteLineBytes([]byte)  {}

type discardSerial struct{}

func (discardSerial) Write(p []byte) (int, error) { return len(p), nil }
