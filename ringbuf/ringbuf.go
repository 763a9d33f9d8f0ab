// Package ringbuf implements a fixed-capacity byte ring used by the
// buffered stream layer. Appends and extractions accept multiple slices
// so callers can gather scattered payloads without intermediate copies.
package ringbuf

import (
	"io"
)

// Buffer is a fixed-capacity byte ring. The zero value is not usable;
// create one with New.
type Buffer struct {
	buf  []byte
	head int // index of the first stored byte
	size int // number of stored bytes
}

// New creates a ring with the given capacity.
func New(capacity int) *Buffer {
	return &Buffer{buf: make([]byte, capacity)}
}

// Cap returns the fixed capacity of the ring.
func (b *Buffer) Cap() int { return len(b.buf) }

// Len returns the number of bytes currently stored.
func (b *Buffer) Len() int { return b.size }

// Free returns the number of bytes that can be appended without overflow.
func (b *Buffer) Free() int { return len(b.buf) - b.size }

// Reset discards all stored bytes.
func (b *Buffer) Reset() {
	b.head = 0
	b.size = 0
}

// Write appends p to the ring. If p does not fit, as much as fits is
// appended and io.ErrShortWrite is returned with the count written.
func (b *Buffer) Write(p []byte) (int, error) {
	n := len(p)
	if n > b.Free() {
		n = b.Free()
	}
	tail := (b.head + b.size) % len(b.buf)
	first := copy(b.buf[tail:], p[:n])
	if first < n {
		copy(b.buf, p[first:n])
	}
	b.size += n
	if n < len(p) {
		return n, io.ErrShortWrite
	}
	return n, nil
}

// WriteVec appends each slice in order, stopping at the first overflow.
func (b *Buffer) WriteVec(bufs ...[]byte) (int, error) {
	var total int
	for _, p := range bufs {
		n, err := b.Write(p)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Read extracts up to len(p) bytes into p. An empty ring returns io.EOF.
func (b *Buffer) Read(p []byte) (int, error) {
	if b.size == 0 {
		if len(p) == 0 {
			return 0, nil
		}
		return 0, io.EOF
	}
	n := len(p)
	if n > b.size {
		n = b.size
	}
	first := copy(p[:n], b.buf[b.head:min(b.head+n, len(b.buf))])
	if first < n {
		copy(p[first:n], b.buf)
	}
	b.head = (b.head + n) % len(b.buf)
	b.size -= n
	if b.size == 0 {
		b.head = 0
	}
	return n, nil
}

// ReadVec extracts into each slice in order, stopping when the ring
// empties.
func (b *Buffer) ReadVec(bufs ...[]byte) (int, error) {
	var total int
	for _, p := range bufs {
		if b.size == 0 {
			break
		}
		n, _ := b.Read(p)
		total += n
	}
	if total == 0 && b.size == 0 {
		return 0, io.EOF
	}
	return total, nil
}

// FillFrom performs a single read from r into the ring's free space and
// returns the number of bytes stored. A full ring returns io.ErrShortBuffer.
func (b *Buffer) FillFrom(r io.Reader) (int, error) {
	if b.Free() == 0 {
		return 0, io.ErrShortBuffer
	}
	tail := (b.head + b.size) % len(b.buf)
	end := tail + b.Free()
	if end > len(b.buf) {
		end = len(b.buf)
	}
	n, err := r.Read(b.buf[tail:end])
	b.size += n
	return n, err
}

// DrainTo writes every stored byte to w, looping over partial writes.
func (b *Buffer) DrainTo(w io.Writer) (int, error) {
	var total int
	for b.size > 0 {
		end := b.head + b.size
		if end > len(b.buf) {
			end = len(b.buf)
		}
		n, err := w.Write(b.buf[b.head:end])
		total += n
		b.head = (b.head + n) % len(b.buf)
		b.size -= n
		if err != nil {
			return total, err
		}
	}
	b.head = 0
	return total, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
