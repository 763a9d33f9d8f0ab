package chunk

import (
	"io"

	"github.com/graphwire/bolt/errors"
)

// endOfMessage marks that the zero-length chunk was consumed; no more
// chunks will be read until NextMessage re-arms the reader.
const endOfMessage = -1

// Reader strips chunk framing from the delegate, presenting one message's
// payload as a flat byte stream. Read returns io.EOF once the zero-length
// marker chunk is consumed; NextMessage re-arms the reader for the
// following message.
type Reader struct {
	r         io.Reader
	remaining int // bytes left in the open chunk; endOfMessage when done
	err       error
}

// NewReader creates a de-chunking reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Read fills p from the current message. Partial reads are permitted.
// When a read wants more than the open chunk holds, the next chunk header
// is consumed in the same pass so chunk boundaries cost no extra call;
// a read that exactly exhausts a chunk leaves the next header untouched.
func (c *Reader) Read(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	if c.remaining == endOfMessage {
		return 0, io.EOF
	}
	if len(p) == 0 {
		return 0, nil
	}

	if c.remaining == 0 {
		if done, err := c.readHeader(); err != nil {
			return 0, err
		} else if done {
			return 0, io.EOF
		}
	}

	want := len(p)
	if want > c.remaining {
		want = c.remaining
	}
	n, err := c.r.Read(p[:want])
	c.remaining -= n
	if err != nil {
		// Bytes received before the failure still count; the stream is
		// finished for reading either way.
		c.err = errors.WrapCode(err, errors.CodeConnectionClosed, "An error occurred reading a chunk")
		if n > 0 {
			return n, nil
		}
		return 0, c.err
	}

	// The caller wanted more than this chunk held, so the boundary is
	// already known: take the next header now and save a round.
	if c.remaining == 0 && len(p) > n {
		if _, err := c.readHeader(); err != nil {
			c.err = err
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
	}
	return n, nil
}

// readHeader consumes a 2-byte chunk length prefix. A zero length closes
// the message.
func (c *Reader) readHeader() (done bool, err error) {
	var header [2]byte
	if _, err := io.ReadFull(c.r, header[:]); err != nil {
		c.err = errors.WrapCode(err, errors.CodeConnectionClosed, "An error occurred reading a chunk header")
		return false, c.err
	}
	size := int(header[0])<<8 | int(header[1])
	if size == 0 {
		c.remaining = endOfMessage
		return true, nil
	}
	c.remaining = size
	return false, nil
}

// NextMessage re-arms the reader after an end-of-message marker. Calling
// it mid-message is a protocol violation by the caller.
func (c *Reader) NextMessage() error {
	if c.err != nil {
		return c.err
	}
	if c.remaining != endOfMessage {
		return errors.WithCode(errors.CodeProtocolViolation, "NextMessage called with %d bytes left in the current message", c.remaining)
	}
	c.remaining = 0
	return nil
}

// Discard consumes the remainder of the current message, including the
// end marker, and returns the number of payload bytes thrown away.
func (c *Reader) Discard() (int, error) {
	var scratch [512]byte
	var total int
	for {
		n, err := c.Read(scratch[:])
		total += n
		if err == io.EOF {
			return total, nil
		}
		if err != nil {
			return total, err
		}
	}
}
