package stream

import (
	"net"

	"github.com/graphwire/bolt/ringbuf"
)

// Buffered coalesces small reads and writes over a delegate stream using
// a pair of byte rings, cutting the syscall count for marker-at-a-time
// protocol traffic.
type Buffered struct {
	inner Stream
	rbuf  *ringbuf.Buffer
	wbuf  *ringbuf.Buffer

	// rerr is a delegate read error held back until the bytes that
	// arrived with it have been served from the ring.
	rerr error
}

// NewBuffered wraps inner with read and write buffers of size bytes each.
func NewBuffered(inner Stream, size int) *Buffered {
	return &Buffered{
		inner: inner,
		rbuf:  ringbuf.New(size),
		wbuf:  ringbuf.New(size),
	}
}

// Read serves from the read ring, refilling it with a single delegate
// read when empty. Partial reads are passed through. A delegate read
// that delivers bytes together with an error still serves those bytes;
// the error surfaces on the following call.
func (b *Buffered) Read(p []byte) (int, error) {
	if b.rbuf.Len() == 0 {
		if b.rerr != nil {
			err := b.rerr
			b.rerr = nil
			return 0, err
		}
		if len(p) >= b.rbuf.Cap() {
			// Large read, no point going through the ring.
			return b.inner.Read(p)
		}
		n, err := b.rbuf.FillFrom(b.inner)
		if err != nil {
			if n == 0 {
				return 0, err
			}
			b.rerr = err
		}
	}
	return b.rbuf.Read(p)
}

// Write appends to the write ring, draining it to the delegate when full.
func (b *Buffered) Write(p []byte) (int, error) {
	if len(p) > b.wbuf.Free() {
		if err := b.Flush(); err != nil {
			return 0, err
		}
		if len(p) >= b.wbuf.Cap() {
			// Oversized write goes straight through.
			if err := WriteFull(b.inner, p); err != nil {
				return 0, err
			}
			return len(p), nil
		}
	}
	return b.wbuf.Write(p)
}

// WriteBuffers flushes pending bytes so ordering holds, then hands the
// gathered slices to the delegate for a single vectored write.
func (b *Buffered) WriteBuffers(bufs net.Buffers) (int64, error) {
	if err := b.Flush(); err != nil {
		return 0, err
	}
	return b.inner.WriteBuffers(bufs)
}

// Flush drains the write ring and flushes the delegate.
func (b *Buffered) Flush() error {
	if _, err := b.wbuf.DrainTo(b.inner); err != nil {
		return err
	}
	return b.inner.Flush()
}

// Close flushes pending writes and closes the delegate.
func (b *Buffered) Close() error {
	if err := b.Flush(); err != nil {
		b.inner.Close()
		return err
	}
	return b.inner.Close()
}
