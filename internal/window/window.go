// Package window implements the bounded per-signal ring buffer that rules
// evaluate against.
package window

import (
	"github.com/kestrelmon/kestrel/internal/errors"
	"github.com/kestrelmon/kestrel/internal/sample"
)

type ringBuffer struct {
	buf   []sample.Sample
	head  int
	count int
}

// Window is a bounded circular buffer of recent readings per signal.
type Window struct {
	capacity int
	buffers  map[string]*ringBuffer
}

// New creates a Window with the given per-signal capacity. Capacity must be
// positive.
func New(capacity int) (*Window, error) {
	if capacity <= 0 {
		return nil, errors.New().New(errors.ErrWindowCapacity)
	}

	return &Window{
		capacity: capacity,
		buffers:  make(map[string]*ringBuffer),
	}, nil
}

// Capacity returns the configured per-signal capacity.
func (w *Window) Capacity() int {
	return w.capacity
}

// Push records a new reading for its signal, evicting the oldest reading
// once the signal's buffer is full.
func (w *Window) Push(s sample.Sample) {
	rb, ok := w.buffers[s.SignalID]
	if !ok {
		rb = &ringBuffer{buf: make([]sample.Sample, 0, w.capacity)}
		w.buffers[s.SignalID] = rb
	}

	if len(rb.buf) < w.capacity {
		rb.buf = append(rb.buf, s)
		rb.head = len(rb.buf) - 1
		rb.count = len(rb.buf)
		return
	}

	rb.head = (rb.head + 1) % w.capacity
	rb.buf[rb.head] = s
	rb.count = w.capacity
}

// ReadingsFor returns the known readings for a signal, oldest first.
func (w *Window) ReadingsFor(signalID string) []sample.Sample {
	rb, ok := w.buffers[signalID]
	if !ok {
		return nil
	}

	result := make([]sample.Sample, 0, rb.count)

	start := 0
	if rb.count == w.capacity {
		start = (rb.head + 1) % w.capacity
	}

	for i := 0; i < rb.count; i++ {
		result = append(result, rb.buf[(start+i)%len(rb.buf)])
	}

	return result
}

// Latest returns the most recent reading for a signal. If nothing has been
// observed yet, it returns an invalid sample with the requested SignalID.
func (w *Window) Latest(signalID string) sample.Sample {
	rb, ok := w.buffers[signalID]
	if !ok || rb.count == 0 {
		return sample.Sample{SignalID: signalID, Valid: false}
	}

	return rb.buf[rb.head]
}
