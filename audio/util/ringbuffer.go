package util

import (
	"sync"
)

// RingBuffer implements a circular buffer of samples.
type RingBuffer struct {
	sync.RWMutex
	buf   []float64
	index int
}

// NewRingBuffer creates a new ring buffer with the given size.
func NewRingBuffer(size int) *RingBuffer {
	return &RingBuffer{buf: make([]float64, size)}
}

// Size is the capacity of the buffer.
func (r *RingBuffer) Size() int {
	return len(r.buf)
}

// Push data onto the ring buffer, overwriting the oldest samples.
func (r *RingBuffer) Push(data []float64) {
	if len(data) > len(r.buf) {
		panic("cant push data longer than size of buffer")
	}

	r.Lock()
	defer r.Unlock()

	n := copy(r.buf[r.index:], data)
	copy(r.buf, data[n:])
	r.index = (r.index + len(data)) % len(r.buf)
}

// Get the most recent N data points from the buffer, oldest first.
func (r *RingBuffer) Get(size int) []float64 {
	return r.GetOffset(size, 0)
}

// GetOffset gets N data points ending offset samples before the most recent one. A
// negative offset reads past the write index, into the oldest samples.
func (r *RingBuffer) GetOffset(size, offset int) []float64 {
	if size > len(r.buf) {
		panic("cant get size greater than size of buffer")
	}

	r.RLock()
	defer r.RUnlock()

	ret := make([]float64, size)
	n := len(r.buf)
	start := ((r.index-offset-size)%n + n) % n
	k := copy(ret, r.buf[start:])
	copy(ret[k:], r.buf)
	return ret
}
