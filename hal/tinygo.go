//go:build tinygo && baremetal

package hal

import "machine"

// Row sense inputs, top row first.
var rowPins = []machine.Pin{
	machine.A0, machine.A1, machine.A2, machine.A3,
	machine.A4, machine.A5, machine.A6, machine.A7,
}

// Column drive outputs, left column first.
var columnPins = []machine.Pin{
	machine.D22, machine.D23, machine.D24, machine.D25,
	machine.D26, machine.D27, machine.D28, machine.D29,
	machine.D30, machine.D31, machine.D32, machine.D33,
}

type tinyGoHAL struct {
	logger *uartLogger
	led    *pinLED
	cols   ColumnDriver
	rows   *adcRows
	serial *usbSerial
}

// New returns the Grand Central M4 (SAMD51) controller HAL.
//
// Rows: A0..A7 (ADC). Columns: D22..D33, or a 74HC595 chain with the shiftreg
// tag. Host stream: USB CDC. Logs: UART1 on D1 (TX) / D0 (RX), 115200 8N1.
func New() HAL {
	uart := machine.UART1
	uart.Configure(machine.UARTConfig{BaudRate: 115200})

	ledPin := machine.LED
	ledPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led := &pinLED{pin: ledPin}

	return &tinyGoHAL{
		logger: &uartLogger{uart: uart},
		led:    led,
		cols:   newColumns(),
		rows:   newADCRows(rowPins),
		serial: &usbSerial{port: machine.Serial},
	}
}

func (h *tinyGoHAL) Logger() Logger        { return h.logger }
func (h *tinyGoHAL) LED() LED              { return h.led }
func (h *tinyGoHAL) Columns() ColumnDriver { return h.cols }
func (h *tinyGoHAL) Rows() RowSampler      { return h.rows }
func (h *tinyGoHAL) Serial() Serial        { return h.serial }

func itoa(v int) string {
	if v == 0 {
		return "0"
	}
	var b [8]byte
	i := len(b)
	for v > 0 && i > 0 {
		i--
		b[i] = byte('0' + v%10)
		v /= 10
	}
	return string(b[i:])
}
