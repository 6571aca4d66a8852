//go:build tinygo && !baremetal

package hal

import (
	"os"
	"runtime"
)

// New returns a TinyGo-on-host HAL: an 8x12 simulated matrix that reads 0
// everywhere, with the host stream on stdout.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU pin mapping.
func New() HAL {
	h, err := NewSim(8, 12, os.Stdout, tinyGoHostLogger{})
	if err != nil {
		panic(err)
	}
	h.Logger().WriteLineString("hal: simulated matrix (tinygo/" + runtime.GOOS + ")")
	return h
}

type tinyGoHostLogger struct{}

func (tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}
