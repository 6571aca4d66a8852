//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type hostSerial struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *hostSerial) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, ErrNotImplemented
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// OpenOutput opens the destination of the host stream. "" and "-" select
// stdout; anything else is created or truncated, which also works for a tty or
// a named pipe.
func OpenOutput(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open output %s: %w", path, err)
	}
	return f, nil
}
