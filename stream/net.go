package stream

import (
	"io"
	"net"
	"time"

	"github.com/graphwire/bolt/log"
)

// NetStream adapts a net.Conn to the Stream interface, refreshing read and
// write deadlines on every call and trace-logging traffic.
type NetStream struct {
	conn    net.Conn
	timeout time.Duration
}

// Dial opens a TCP connection to addr with the given timeout applied to
// the dial and to every subsequent read and write.
func Dial(addr string, timeout time.Duration) (*NetStream, error) {
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		log.Error("An error occurred connecting:", err)
		return nil, err
	}
	return NewNetStream(conn, timeout), nil
}

// NewNetStream wraps an established connection.
func NewNetStream(conn net.Conn, timeout time.Duration) *NetStream {
	return &NetStream{conn: conn, timeout: timeout}
}

// Read reads from the underlying connection.
func (s *NetStream) Read(p []byte) (int, error) {
	if s.timeout > 0 {
		if err := s.conn.SetReadDeadline(time.Now().Add(s.timeout)); err != nil {
			return 0, err
		}
	}
	n, err := s.conn.Read(p)
	log.Tracef("Read %d bytes from stream:\n\n%s\n", n, SprintByteHex(p[:n]))
	if err != nil && err != io.EOF {
		log.Error("An error occurred reading from stream:", err)
	}
	return n, err
}

// Write writes to the underlying connection.
func (s *NetStream) Write(p []byte) (int, error) {
	if s.timeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
			return 0, err
		}
	}
	n, err := s.conn.Write(p)
	log.Tracef("Wrote %d of %d bytes to stream:\n\n%s\n", n, len(p), SprintByteHex(p[:n]))
	if err != nil {
		log.Error("An error occurred writing to stream:", err)
	}
	return n, err
}

// WriteBuffers writes the gathered slices with a single writev.
func (s *NetStream) WriteBuffers(bufs net.Buffers) (int64, error) {
	if s.timeout > 0 {
		if err := s.conn.SetWriteDeadline(time.Now().Add(s.timeout)); err != nil {
			return 0, err
		}
	}
	n, err := bufs.WriteTo(s.conn)
	log.Tracef("Wrote %d gathered bytes to stream", n)
	if err != nil {
		log.Error("An error occurred writing to stream:", err)
	}
	return n, err
}

// Flush is a no-op; the connection is unbuffered.
func (s *NetStream) Flush() error { return nil }

// Close closes the underlying connection.
func (s *NetStream) Close() error {
	if err := s.conn.Close(); err != nil {
		log.Error("An error occurred closing the connection", err)
		return err
	}
	return nil
}

// SetTimeout changes the per-call deadline for reads and writes.
func (s *NetStream) SetTimeout(timeout time.Duration) {
	s.timeout = timeout
}
