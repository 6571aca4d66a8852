package report

import (
	"errors"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"
)

const outboxSlots = 16

var (
	ErrDropped  = errors.New("report: outbox full, record dropped")
	ErrTooLarge = errors.New("report: record too large")
)

type record struct {
	n    int
	data []byte
}

// Outbox is a fixed-size single-producer, single-consumer record queue.
// Slots are allocated once by NewOutbox; Recv busy-waits with Gosched.
type Outbox struct {
	_     [0]func() // prevent accidental copying.
	head  atomic.Uint32
	tail  atomic.Uint32
	size  int
	slots [outboxSlots]record
}

// NewOutbox returns an outbox whose slots each hold up to size bytes.
func NewOutbox(size int) *Outbox {
	if size < 1 {
		size = 1
	}
	o := &Outbox{size: size}
	for i := range o.slots {
		o.slots[i].data = make([]byte, size)
	}
	return o
}

// MaxRecord returns the largest record a slot holds.
func (o *Outbox) MaxRecord() int { return o.size }

// TrySend copies p into the next slot, returning false if the outbox is full.
// Records longer than MaxRecord are truncated; AsyncWriter rejects them first.
func (o *Outbox) TrySend(p []byte) bool {
	head := o.head.Load()
	if head-o.tail.Load() >= outboxSlots {
		return false
	}
	slot := &o.slots[head%outboxSlots]
	slot.n = copy(slot.data, p)
	o.head.Store(head + 1)
	return true
}

// TryRecv copies the oldest record into dst and returns its length.
func (o *Outbox) TryRecv(dst []byte) (int, bool) {
	tail := o.tail.Load()
	if tail == o.head.Load() {
		return 0, false
	}
	slot := &o.slots[tail%outboxSlots]
	n := copy(dst, slot.data[:slot.n])
	o.tail.Store(tail + 1)
	return n, true
}

// Recv blocks until one record is available.
func (o *Outbox) Recv(dst []byte) int {
	for {
		if n, ok := o.TryRecv(dst); ok {
			return n
		}
		runtime.Gosched()
	}
}

// Len returns the number of queued records.
func (o *Outbox) Len() int {
	return int(o.head.Load() - o.tail.Load())
}

// AsyncWriter queues whole records and writes them to the underlying writer from
// its own goroutine, so a slow host never stalls the scan loop.
//
// Write must only be called from one goroutine.
type AsyncWriter struct {
	w       io.Writer
	box     *Outbox
	dropped atomic.Uint64
	failed  atomic.Uint64
	wake    chan struct{}
	done    chan struct{}
	closed  atomic.Bool
}

// NewAsyncWriter starts draining into w. Records up to size bytes are
// accepted; size them with RecordSize.
func NewAsyncWriter(w io.Writer, size int) *AsyncWriter {
	a := &AsyncWriter{
		w:    w,
		box:  NewOutbox(size),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	go a.drain()
	return a
}

// Write queues p as one record. It never blocks; a full queue drops p.
func (a *AsyncWriter) Write(p []byte) (int, error) {
	if len(p) > a.box.MaxRecord() {
		return 0, fmt.Errorf("%w: %d bytes, slots hold %d", ErrTooLarge, len(p), a.box.MaxRecord())
	}
	if a.closed.Load() {
		return 0, io.ErrClosedPipe
	}
	if !a.box.TrySend(p) {
		a.dropped.Add(1)
		return 0, ErrDropped
	}
	select {
	case a.wake <- struct{}{}:
	default:
	}
	return len(p), nil
}

// MaxRecord returns the largest record Write accepts.
func (a *AsyncWriter) MaxRecord() int { return a.box.MaxRecord() }

// Dropped returns how many records were discarded because the queue was full.
func (a *AsyncWriter) Dropped() uint64 { return a.dropped.Load() }

// Failed returns how many queued records the underlying writer rejected.
func (a *AsyncWriter) Failed() uint64 { return a.failed.Load() }

// Close flushes queued records and stops the drain goroutine. It must not race
// with Write.
func (a *AsyncWriter) Close() error {
	if a.closed.Swap(true) {
		return nil
	}
	close(a.wake)
	<-a.done
	return nil
}

func (a *AsyncWriter) drain() {
	defer close(a.done)
	buf := make([]byte, a.box.MaxRecord())
	for range a.wake {
		a.flush(buf)
	}
	a.flush(buf)
}

func (a *AsyncWriter) flush(buf []byte) {
	for {
		n, ok := a.box.TryRecv(buf)
		if !ok {
			return
		}
		if _, err := a.w.Write(buf[:n]); err != nil {
			a.failed.Add(1)
		}
	}
}
