package app

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"displaywriter/hal"
)

func (k *Keyboard) logf(format string, args ...any) {
	if k.log == nil {
		return
	}
	k.log.WriteLineString(fmt.Sprintf(format, args...))
}

// haltOnPanic logs a recovered panic with its stack and halts.
func haltOnPanic(h hal.HAL) {
	r := recover()
	if r == nil {
		return
	}
	if l := h.Logger(); l != nil {
		for _, line := range panicLines(r, debug.Stack()) {
			l.WriteLineString(line)
		}
	}
	halt(h)
}

func panicLines(v any, stack []byte) []string {
	lines := []string{fmt.Sprintf("Displaywriter panic: %v", v)}
	if len(stack) == 0 {
		return append(lines, "stack: unavailable")
	}
	for _, line := range strings.Split(string(stack), "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// halt stops scanning for good and blinks the LED so a dead controller is
// visible without a console attached.
func halt(h hal.HAL) {
	led := h.LED()
	if led == nil {
		for {
			time.Sleep(time.Second)
		}
	}
	for {
		led.High()
		time.Sleep(100 * time.Millisecond)
		led.Low()
		time.Sleep(900 * time.Millisecond)
	}
}
