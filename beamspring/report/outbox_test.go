package report

import (
	"bytes"
	"encoding/binary"
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"
)

func TestOutboxTryRecvEmpty(t *testing.T) {
	o := NewOutbox(64)
	if _, ok := o.TryRecv(make([]byte, 8)); ok {
		t.Fatalf("TryRecv() ok = true, want false")
	}
}

func TestOutboxTrySendFull(t *testing.T) {
	o := NewOutbox(64)
	for i := 0; i < outboxSlots; i++ {
		if ok := o.TrySend([]byte("x\n")); !ok {
			t.Fatalf("TrySend() ok = false at slot %d, want true", i)
		}
	}
	if ok := o.TrySend([]byte("y\n")); ok {
		t.Fatalf("TrySend() ok = true when full, want false")
	}
	if o.Len() != outboxSlots {
		t.Fatalf("Len() = %d, want %d", o.Len(), outboxSlots)
	}

	buf := make([]byte, o.MaxRecord())
	for i := 0; i < outboxSlots; i++ {
		n, ok := o.TryRecv(buf)
		if !ok {
			t.Fatalf("TryRecv() ok = false at slot %d, want true", i)
		}
		if string(buf[:n]) != "x\n" {
			t.Fatalf("TryRecv() = %q, want %q", buf[:n], "x\n")
		}
	}
}

func TestOutboxProducerConsumer(t *testing.T) {
	oldProcs := runtime.GOMAXPROCS(2)
	defer runtime.GOMAXPROCS(oldProcs)

	const total = 20_000
	o := NewOutbox(64)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		var rec [4]byte
		for i := 0; i < total; i++ {
			binary.LittleEndian.PutUint32(rec[:], uint32(i))
			for !o.TrySend(rec[:]) {
				runtime.Gosched()
			}
		}
	}()

	buf := make([]byte, o.MaxRecord())
	for i := 0; i < total; i++ {
		n := o.Recv(buf)
		if n != 4 {
			t.Fatalf("Recv() n = %d, want 4", n)
		}
		if got := binary.LittleEndian.Uint32(buf[:4]); got != uint32(i) {
			t.Fatalf("Recv() = %d, want %d (order)", got, i)
		}
	}
	wg.Wait()
}

type gateWriter struct {
	mu   sync.Mutex
	gate chan struct{}
	buf  bytes.Buffer
}

func (w *gateWriter) Write(p []byte) (int, error) {
	<-w.gate
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.buf.Write(p)
}

func TestAsyncWriterDropsWhenStalled(t *testing.T) {
	w := &gateWriter{gate: make(chan struct{})}
	a := NewAsyncWriter(w, RecordSize(ModeEvents, 96))

	var dropped int
	for i := 0; i < outboxSlots*2+2; i++ {
		if _, err := a.Write([]byte("37,1\n")); err != nil {
			if !errors.Is(err, ErrDropped) {
				t.Fatalf("Write: %v", err)
			}
			dropped++
		}
	}
	if dropped == 0 {
		t.Fatal("expected drops while the host is stalled")
	}
	if a.Dropped() != uint64(dropped) {
		t.Fatalf("Dropped() = %d, want %d", a.Dropped(), dropped)
	}

	close(w.gate)
	done := make(chan struct{})
	go func() {
		_ = a.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}

	if _, err := a.Write([]byte("x")); err == nil {
		t.Fatal("Write after Close succeeded")
	}
	if w.buf.Len() == 0 || w.buf.Len()%5 != 0 {
		t.Fatalf("host got %d bytes, want whole records", w.buf.Len())
	}
}

func TestAsyncWriterRejectsOversize(t *testing.T) {
	a := NewAsyncWriter(&bytes.Buffer{}, 16)
	defer a.Close()
	if _, err := a.Write(make([]byte, 17)); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestAsyncWriterCarriesLargeDebugRecords(t *testing.T) {
	const positions = 256
	var host bytes.Buffer
	a := NewAsyncWriter(&host, RecordSize(ModeDebug, positions))
	r := New(a, ModeDebug, positions)

	snap := make([]uint16, positions)
	for i := range snap {
		snap[i] = 1023
	}
	for i := 0; i < 3; i++ {
		if err := r.Report(nil, snap); err != nil {
			t.Fatalf("Report: %v", err)
		}
	}
	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want := 3 * RecordSize(ModeDebug, positions)
	if host.Len() != want {
		t.Fatalf("host got %d bytes, want %d", host.Len(), want)
	}
}
