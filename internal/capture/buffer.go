// Package capture provides bounded capture of process output streams.
package capture

import "sync"

// RingBuffer is a thread-safe circular buffer that retains the most recent
// N bytes written to it. It implements io.Writer, so it can sit directly on
// an exec.Cmd's stdout/stderr; once full, new data overwrites the oldest,
// keeping the tail of the stream without unbounded growth.
type RingBuffer struct {
	mu    sync.RWMutex
	data  []byte
	size  int
	start int
	end   int
	full  bool
}

// NewRingBuffer creates a ring buffer retaining the most recent size bytes.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{
		data: make([]byte, size),
		size: size,
	}
}

// Write implements io.Writer. It always succeeds; when the buffer is full
// the oldest bytes are overwritten.
func (r *RingBuffer) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range p {
		r.data[r.end] = b
		r.end = (r.end + 1) % r.size
		if r.full {
			r.start = (r.start + 1) % r.size
		}
		if r.end == r.start {
			r.full = true
		}
	}
	return len(p), nil
}

// Bytes returns a copy of the buffered data in chronological order.
func (r *RingBuffer) Bytes() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full && r.start == 0 {
		return append([]byte(nil), r.data[:r.end]...)
	}

	out := make([]byte, 0, r.length())
	if r.full || r.end < r.start {
		out = append(out, r.data[r.start:]...)
		out = append(out, r.data[:r.end]...)
	} else {
		out = append(out, r.data[r.start:r.end]...)
	}
	return out
}

// String returns the buffered data as a string.
func (r *RingBuffer) String() string {
	return string(r.Bytes())
}

// Len returns the number of bytes currently buffered.
func (r *RingBuffer) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.length()
}

// length computes the buffered byte count. Caller holds a lock.
func (r *RingBuffer) length() int {
	if r.full {
		return r.size
	}
	if r.end >= r.start {
		return r.end - r.start
	}
	return r.size - r.start + r.end
}

// Reset discards all buffered data, retaining the allocation.
func (r *RingBuffer) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.start = 0
	r.end = 0
	r.full = false
}
