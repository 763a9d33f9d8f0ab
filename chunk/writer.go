// Package chunk implements the transport framing of the wire protocol:
// every message is a run of [uint16 BE length][payload] chunks closed by
// a zero-length marker chunk. The Writer splits outgoing payloads at a
// maximum chunk size and batches small writes up to a minimum; the Reader
// strips chunk headers and presents the reassembled payload stream.
package chunk

import (
	"net"

	"github.com/graphwire/bolt/errors"
	"github.com/graphwire/bolt/stream"
)

// MaxChunkSize is the largest payload a single chunk can carry, bounded
// by the 16-bit length prefix.
const MaxChunkSize = 0xFFFF

// endMessage is the zero-length marker chunk closing every message.
var endMessage = []byte{0x00, 0x00}

// maxWriteVectors caps the slice count handed to a single vectored write,
// leaving one slot spare for an injected header buffer.
const maxWriteVectors = 1023

// Writer frames payloads written to it into chunks on the delegate
// stream. One message spans the writes between construction (or the
// previous Close) and Close; Close emits any buffered tail plus the
// end-of-message marker, after which the Writer is ready for the next
// message.
type Writer struct {
	w        stream.Stream
	minChunk int
	maxChunk int
	buf      []byte // pending tail, always shorter than minChunk
	dirty    bool   // a chunk has been emitted for the current message
	err      error
}

// NewWriter creates a chunking writer over w. minChunk of 0 disables
// batching so every write flushes immediately; maxChunk is clamped to
// the 16-bit ceiling and must be at least minChunk.
func NewWriter(w stream.Stream, minChunk, maxChunk int) *Writer {
	if maxChunk <= 0 || maxChunk > MaxChunkSize {
		maxChunk = MaxChunkSize
	}
	if minChunk < 0 {
		minChunk = 0
	}
	if minChunk > maxChunk {
		minChunk = maxChunk
	}
	return &Writer{
		w:        w,
		minChunk: minChunk,
		maxChunk: maxChunk,
		buf:      make([]byte, 0, maxChunk),
	}
}

// Write accumulates p into the current message. Short writes are batched
// until minChunk bytes are pending; longer runs are emitted as max-sized
// chunks through a single vectored write per call. On a delegate failure
// the count reports how many bytes of p reached the wire before it.
func (c *Writer) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if len(p) == 0 {
		return 0, nil
	}
	total := len(c.buf) + len(p)
	if total < c.minChunk {
		c.buf = append(c.buf, p...)
		return len(p), nil
	}

	// Keep back a tail shorter than minChunk after splitting at maxChunk
	// boundaries; everything before it goes out now.
	keep := total % c.maxChunk
	if keep >= c.minChunk {
		keep = 0
	}
	emit := total - keep

	sent, err := c.emit(p, emit)
	if err != nil {
		c.err = err
		// The leading len(c.buf) emitted bytes were consumed by earlier
		// calls; only the remainder came out of p.
		consumed := sent - len(c.buf)
		if consumed < 0 {
			consumed = 0
		}
		return consumed, err
	}

	consumed := emit - len(c.buf)
	c.buf = c.buf[:0]
	if keep > 0 {
		c.buf = append(c.buf, p[consumed:]...)
	}
	return len(p), nil
}

// emit sends the first n bytes of buf+p as chunks of at most maxChunk in
// one gathered write (split only when the platform vector limit would be
// exceeded). It reports how many payload bytes reached the wire, header
// bytes excluded, so callers can account for short writes on failure.
func (c *Writer) emit(p []byte, n int) (int, error) {
	headers := make([]byte, 0, 2*(n/c.maxChunk+1))
	bufs := make(net.Buffers, 0, 2*(n/c.maxChunk+1))
	isHeader := make([]bool, 0, cap(bufs))

	pending := [2][]byte{c.buf, p}
	pi, off := 0, 0
	for n > 0 {
		size := n
		if size > c.maxChunk {
			size = c.maxChunk
		}
		headers = append(headers, byte(size>>8), byte(size))
		bufs = append(bufs, headers[len(headers)-2:])
		isHeader = append(isHeader, true)
		for size > 0 {
			for off >= len(pending[pi]) {
				pi++
				off = 0
			}
			take := len(pending[pi]) - off
			if take > size {
				take = size
			}
			bufs = append(bufs, pending[pi][off:off+take])
			isHeader = append(isHeader, false)
			off += take
			size -= take
			n -= take
		}
	}

	sent := 0
	for len(bufs) > 0 {
		batch := bufs
		flags := isHeader
		if len(batch) > maxWriteVectors {
			batch = batch[:maxWriteVectors]
			flags = flags[:maxWriteVectors]
		}
		rest := bufs[len(batch):]
		restFlags := isHeader[len(batch):]
		// WriteBuffers consumes the slices it writes, so snapshot the
		// lengths for the accounting below.
		sizes := make([]int, len(batch))
		for i, b := range batch {
			sizes[i] = len(b)
		}
		wrote, err := c.w.WriteBuffers(batch)
		sent += payloadPrefix(sizes, flags, wrote)
		if err != nil {
			if wrote > 0 {
				c.dirty = true
			}
			return sent, errors.WrapCode(err, errors.CodeConnectionClosed, "An error occurred writing chunks")
		}
		bufs = rest
		isHeader = restFlags
	}
	c.dirty = true
	return sent, nil
}

// payloadPrefix counts how many of the first wrote bytes across the
// vectored slices were payload rather than chunk headers.
func payloadPrefix(sizes []int, isHeader []bool, wrote int64) int {
	payload := 0
	for i, size := range sizes {
		if wrote <= 0 {
			break
		}
		take := int64(size)
		if take > wrote {
			take = wrote
		}
		if !isHeader[i] {
			payload += int(take)
		}
		wrote -= take
	}
	return payload
}

// Close ends the current message: any buffered tail is emitted as a final
// chunk, the zero-length marker follows, and the delegate is flushed.
// Closing with nothing written and nothing buffered is a no-op so empty
// messages cost no bytes. The Writer is reusable afterwards.
func (c *Writer) Close() error {
	if c.err != nil {
		return c.err
	}
	if !c.dirty && len(c.buf) == 0 {
		return nil
	}
	bufs := make(net.Buffers, 0, 3)
	if len(c.buf) > 0 {
		header := []byte{byte(len(c.buf) >> 8), byte(len(c.buf))}
		bufs = append(bufs, header, c.buf)
	}
	bufs = append(bufs, endMessage)
	if _, err := c.w.WriteBuffers(bufs); err != nil {
		c.err = errors.WrapCode(err, errors.CodeConnectionClosed, "An error occurred closing a message")
		return c.err
	}
	c.buf = c.buf[:0]
	c.dirty = false
	return c.w.Flush()
}
