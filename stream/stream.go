// Package stream defines the byte transport abstraction every layer of
// the driver reads and writes through. A raw TCP connection, a TLS
// wrapper, the buffering layer and the chunked codec all present the same
// small surface, so layers compose by delegation.
package stream

import (
	"io"
	"net"
)

// Stream is the transport capability surface. WriteBuffers performs a
// vectored write; on a net.Conn delegate it becomes a single writev.
type Stream interface {
	io.Reader
	io.Writer
	WriteBuffers(bufs net.Buffers) (int64, error)
	Flush() error
	Close() error
}

// WriteFull writes all of p, looping over partial writes.
func WriteFull(w io.Writer, p []byte) error {
	for len(p) > 0 {
		n, err := w.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}
