//go:build tinygo && baremetal

package hal

import "machine"

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// usbSerial is the USB CDC port the host reads the stream from.
type usbSerial struct {
	port machine.Serialer
}

func (s *usbSerial) Write(p []byte) (int, error) {
	if s.port == nil {
		return 0, ErrNotImplemented
	}
	return s.port.Write(p)
}

// adcRows samples the row sense lines. The SAMD51 ADC returns 16-bit scaled
// readings; the top 10 bits are kept.
type adcRows struct {
	adc []machine.ADC
}

func newADCRows(pins []machine.Pin) *adcRows {
	machine.InitADC()
	r := &adcRows{adc: make([]machine.ADC, len(pins))}
	for i, p := range pins {
		r.adc[i] = machine.ADC{Pin: p}
		r.adc[i].Configure(machine.ADCConfig{})
	}
	return r
}

func (r *adcRows) Rows() int { return len(r.adc) }

func (r *adcRows) Sample(row int) uint16 {
	if row < 0 || row >= len(r.adc) {
		return 0
	}
	return r.adc[row].Get() >> 6
}

