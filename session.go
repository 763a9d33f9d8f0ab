package bolt

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/graphwire/bolt/errors"
	"github.com/graphwire/bolt/log"
	"github.com/graphwire/bolt/messages"
	"github.com/graphwire/bolt/value"
)

// Session is a lightweight handle for submitting work on a connection.
// Sessions share the connection's request queue and FIFO ordering;
// creating several sessions on one connection interleaves their requests
// but not their responses. When the connection resets, fails or closes
// underneath it, the session ends and further submissions report why.
type Session struct {
	conn   *Conn
	id     string
	logger zerolog.Logger

	ended  bool
	endErr error
}

// NewSession attaches a new session to the connection.
func (c *Conn) NewSession() (*Session, error) {
	if c.closed {
		return nil, errors.WithCode(errors.CodeConnectionClosed, "Connection already closed")
	}
	if c.failed {
		return nil, errors.WrapCode(c.failErr, errors.CodeSessionFailed, "Connection is in a failed state")
	}
	id := uuid.NewString()
	s := &Session{
		conn:   c,
		id:     id,
		logger: log.With("session_id", id),
	}
	c.sessions[s] = struct{}{}
	return s, nil
}

// ID returns the session's correlation id.
func (s *Session) ID() string { return s.id }

func (s *Session) queue(m messages.Message, fn ReceiveFunc) error {
	if s.ended {
		return errors.WrapCode(s.endErr, errors.CodeSessionEnded, "Session has ended")
	}
	req, err := s.conn.NewRequest()
	if err != nil {
		return err
	}
	req.Set(m, fn)
	return nil
}

// Run queues a statement for execution. fn observes the server's summary
// (or failure) for the statement itself; results are not requested until
// PullAll or DiscardAll follows.
func (s *Session) Run(statement string, parameters value.Map, fn ReceiveFunc) error {
	if log.Level >= log.TraceLevel {
		s.logger.Trace().Msgf("run: %s", statement)
	}
	return s.queue(messages.NewRunMessage(statement, parameters), fn)
}

// PullAll queues a request for all results of the preceding statement.
// fn is called once per record and once for the terminal summary.
func (s *Session) PullAll(fn ReceiveFunc) error {
	return s.queue(messages.NewPullAllMessage(), fn)
}

// DiscardAll queues a request that the server drop all results of the
// preceding statement.
func (s *Session) DiscardAll(fn ReceiveFunc) error {
	return s.queue(messages.NewDiscardAllMessage(), fn)
}

// Sync pumps the connection until everything queued has completed.
func (s *Session) Sync() error {
	if s.ended {
		return errors.WrapCode(s.endErr, errors.CodeSessionEnded, "Session has ended")
	}
	return s.conn.Sync()
}

// Reset aborts all outstanding work on the underlying connection. This
// ends every session attached to it, including this one.
func (s *Session) Reset() error {
	return s.conn.Interrupt()
}

// Close detaches the session. Work already queued stays queued; the
// session just stops accepting more.
func (s *Session) Close() {
	if s.ended {
		return
	}
	s.ended = true
	s.endErr = errors.WithCode(errors.CodeSessionEnded, "Session closed")
	delete(s.conn.sessions, s)
}

// abort ends the session because the connection can no longer honor its
// requests.
func (s *Session) abort(cause error) {
	if s.ended {
		return
	}
	s.ended = true
	s.endErr = cause
	if log.Level >= log.InfoLevel {
		s.logger.Info().Msgf("session ended: %s", cause)
	}
}

// Query runs a statement and collects its full result: one value list
// per record plus the terminal summary metadata. Any failure along the
// way, server-side or local, is returned after the connection has been
// brought back in sync.
func (s *Session) Query(statement string, parameters value.Map) ([]value.List, value.Map, error) {
	var (
		records []value.List
		summary value.Map
		opErr   error
	)
	capture := func(resp *Response) (bool, error) {
		switch {
		case resp.Err != nil:
			if opErr == nil {
				opErr = resp.Err
			}
		case resp.Sig == messages.RecordMessageSignature:
			if len(resp.Fields) == 1 {
				if l, ok := resp.Fields[0].(value.List); ok {
					records = append(records, l)
					return true, nil
				}
			}
			opErr = errors.WithCode(errors.CodeProtocolViolation, "Record carried no value list")
		case resp.Sig == messages.SuccessMessageSignature:
			if len(resp.Fields) == 1 {
				if m, ok := resp.Fields[0].(value.Map); ok {
					summary = m
				}
			}
			return false, nil
		case resp.Sig == messages.FailureMessageSignature:
			failure := failureFromFields(resp.Fields)
			opErr = errors.WithCode(errors.CodeSessionFailed,
				"Server failure: %s %s", failure.Code(), failure.Message())
		case resp.Ignored():
			if opErr == nil {
				opErr = errors.WithCode(errors.CodeSessionFailed, "Request discarded after an earlier failure")
			}
		}
		return false, nil
	}

	if err := s.Run(statement, parameters, capture); err != nil {
		return nil, summary, err
	}
	if err := s.PullAll(capture); err != nil {
		return nil, summary, err
	}
	if err := s.Sync(); err != nil {
		return nil, summary, err
	}
	if opErr != nil {
		return nil, summary, opErr
	}
	return records, summary, nil
}
