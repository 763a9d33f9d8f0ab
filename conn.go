package bolt

import (
	"strings"
	"sync/atomic"

	"github.com/graphwire/bolt/chunk"
	"github.com/graphwire/bolt/config"
	"github.com/graphwire/bolt/errors"
	"github.com/graphwire/bolt/log"
	"github.com/graphwire/bolt/messages"
	"github.com/graphwire/bolt/stream"
	"github.com/graphwire/bolt/value"
)

// readBufferSize is the ring capacity of the buffering layer between the
// chunk codec and the socket.
const readBufferSize = 8192

// Conn is a connection driving the pipelined request protocol. Requests
// are queued with NewRequest, sent and their responses dispatched by
// Sync, strictly FIFO. A server FAILURE switches the connection into a
// drain: every already-sent request is answered with IGNORED and every
// queued-but-unsent one is notified locally, then the failure is
// acknowledged before new work flows.
//
// Exactly one goroutine may pump the connection at a time; the
// processing flag enforces that. Any goroutine may request interruption,
// which aborts all outstanding work via the reset protocol.
type Conn struct {
	cfg     *config.Config
	strm    stream.Stream
	version uint32

	cw *chunk.Writer
	cr *chunk.Reader

	// Circular request queue: depth entries starting at head; the first
	// inflight of them have been sent.
	queue    []*Request
	head     int
	depth    int
	inflight int

	processing     atomic.Bool
	resetRequested atomic.Bool

	// failureSeen: a FAILURE was dispatched and the queue is draining
	// IGNORED responses before ACK_FAILURE.
	failureSeen bool

	failed  bool
	failErr error
	closed  bool

	sessions map[*Session]struct{}
}

func newConn(strm stream.Stream, version uint32, cfg *config.Config) *Conn {
	buffered := stream.NewBuffered(strm, readBufferSize)
	return &Conn{
		cfg:      cfg,
		strm:     strm,
		version:  version,
		cw:       chunk.NewWriter(buffered, cfg.MinChunkSize, cfg.MaxChunkSize),
		cr:       chunk.NewReader(buffered),
		queue:    make([]*Request, cfg.RequestQueueSize),
		sessions: make(map[*Session]struct{}),
	}
}

// Version returns the negotiated protocol version.
func (c *Conn) Version() uint32 { return c.version }

// init performs the INIT exchange: client identification plus
// credentials, answered by SUCCESS or FAILURE.
func (c *Conn) init(auth config.Auth) error {
	token := value.NewMap()
	scheme := auth.Scheme
	if scheme == "" {
		if auth.Principal != "" {
			scheme = "basic"
		} else {
			scheme = "none"
		}
	}
	token = token.Add("scheme", value.String(scheme))
	if auth.Principal != "" {
		token = token.Add("principal", value.String(auth.Principal))
		token = token.Add("credentials", value.String(auth.Credentials))
	}

	if err := messages.Write(c.cw, messages.NewInitMessage(clientID, token)); err != nil {
		return errors.Wrap(err, "An error occurred sending the init message")
	}
	sig, fields, err := messages.Read(c.cr)
	if err != nil {
		return errors.Wrap(err, "An error occurred reading the init response")
	}
	switch sig {
	case messages.SuccessMessageSignature:
		return nil
	case messages.FailureMessageSignature:
		failure := failureFromFields(fields)
		log.Errorf("Got a failure message when initializing connection: %s %s", failure.Code(), failure.Message())
		return classifyAuthFailure(failure)
	default:
		return errors.WithCode(errors.CodeProtocolViolation,
			"Unrecognized response initializing connection: %02X", sig)
	}
}

func failureFromFields(fields []value.Value) messages.FailureMessage {
	if len(fields) == 1 {
		if m, ok := fields[0].(value.Map); ok {
			return messages.NewFailureMessage(m)
		}
	}
	return messages.NewFailureMessage(value.NewMap())
}

func classifyAuthFailure(failure messages.FailureMessage) error {
	code := failure.Code()
	switch {
	case strings.Contains(code, "AuthenticationRateLimit"):
		return errors.WithCode(errors.CodeAuthRateLimit, "Authentication rate limit reached: %s", failure.Message())
	case strings.Contains(code, "Unauthorized"):
		return errors.WithCode(errors.CodeInvalidCredentials, "Invalid credentials: %s", failure.Message())
	default:
		return errors.WithCode(errors.CodeSessionFailed,
			"An error occurred initializing the connection: %s %s", code, failure.Message())
	}
}

// NewRequest reserves the next queue slot. It fails fast when the
// connection cannot accept work: sticky failure, closed, or a full
// queue. The returned request must be populated with Set before any
// other connection operation.
func (c *Conn) NewRequest() (*Request, error) {
	if c.closed {
		return nil, errors.WrapCode(errors.ErrConnectionClosed, errors.CodeConnectionClosed, "Connection already closed")
	}
	if c.failed {
		return nil, errors.WrapCode(c.failErr, errors.CodeSessionFailed, "Connection is in a failed state")
	}
	if c.depth == len(c.queue) {
		return nil, errors.WithCode(errors.CodeQueueFull,
			"Request queue is at capacity (%d)", len(c.queue))
	}
	req := &Request{}
	c.queue[(c.head+c.depth)%len(c.queue)] = req
	c.depth++
	return req, nil
}

// at returns the i-th queued request counting from the head.
func (c *Conn) at(i int) *Request {
	return c.queue[(c.head+i)%len(c.queue)]
}

// pop removes the head request, optionally dispatching a final response
// to it first.
func (c *Conn) pop(resp *Response) {
	req := c.queue[c.head]
	if resp != nil {
		req.notify(resp)
	}
	c.queue[c.head] = nil
	c.head = (c.head + 1) % len(c.queue)
	c.depth--
	if c.inflight > 0 {
		c.inflight--
	}
}

// drainQueue notifies every remaining request that no response is
// coming, in FIFO order, so caller cleanup still runs.
func (c *Conn) drainQueue(cause error) {
	for c.depth > 0 {
		c.pop(&Response{Err: cause})
	}
	c.inflight = 0
}

// fail marks the connection unusable and synthesizes notifications for
// everything still queued.
func (c *Conn) fail(err error) error {
	if c.failed {
		return c.failErr
	}
	c.failed = true
	c.failErr = err
	log.Errorf("Connection failed: %s", err)
	c.notifySessions(err)
	c.drainQueue(errors.WrapCode(err, errors.CodeConnectionClosed, "Request abandoned by connection failure"))
	return err
}

// sendRequests sends queued requests beyond the inflight window, up to
// the pipelining ceiling, checking for interruption between sends.
func (c *Conn) sendRequests() error {
	for c.inflight < c.depth && c.inflight < c.cfg.MaxPipelined {
		if c.resetRequested.Load() {
			return nil
		}
		req := c.at(c.inflight)
		if err := messages.Write(c.cw, req.msg); err != nil {
			return err
		}
		c.inflight++
	}
	return nil
}

// receiveResponse consumes one server message and routes it to the head
// request. In the post-failure drain only IGNORED is legal.
func (c *Conn) receiveResponse() error {
	sig, fields, err := messages.Read(c.cr)
	if err != nil {
		return err
	}
	if c.failureSeen {
		if sig != messages.IgnoredMessageSignature {
			return errors.WithCode(errors.CodeProtocolViolation,
				"Expected IGNORED while draining after failure, got %02X", sig)
		}
		c.pop(&Response{Sig: sig, Fields: fields})
		return nil
	}

	req := c.queue[c.head]
	switch sig {
	case messages.RecordMessageSignature:
		req.notify(&Response{Sig: sig, Fields: fields})
		return nil
	case messages.SuccessMessageSignature:
		c.pop(&Response{Sig: sig, Fields: fields})
		return nil
	case messages.FailureMessageSignature:
		failure := failureFromFields(fields)
		log.Errorf("Server failure for request: %s %s", failure.Code(), failure.Message())
		c.pop(&Response{Sig: sig, Fields: fields})
		c.failureSeen = true
		return nil
	case messages.IgnoredMessageSignature:
		return errors.WithCode(errors.CodeProtocolViolation, "Received IGNORED with no preceding failure")
	default:
		return errors.WithCode(errors.CodeProtocolViolation,
			"Unexpected message type %02X for pending request", sig)
	}
}

// ackFailure finishes the failure drain: queued-but-unsent requests are
// notified as ignored (FIFO), then the failure is acknowledged and the
// acknowledgement must succeed for the connection to stay usable.
func (c *Conn) ackFailure() error {
	for c.depth > 0 {
		c.pop(&Response{Sig: messages.IgnoredMessageSignature})
	}
	if err := messages.Write(c.cw, messages.NewAckFailureMessage()); err != nil {
		return c.fail(err)
	}
	sig, _, err := messages.Read(c.cr)
	if err != nil {
		return c.fail(err)
	}
	if sig != messages.SuccessMessageSignature {
		return c.fail(errors.WithCode(errors.CodeProtocolViolation,
			"Expected SUCCESS acknowledging failure, got %02X", sig))
	}
	c.failureSeen = false
	return nil
}

// Sync pumps the connection until every queued request has completed:
// responses are received for in-flight requests, failures drained and
// acknowledged, and new requests sent up to the pipelining ceiling. A
// concurrent interruption request is honored at message boundaries.
// Only one goroutine may pump at a time.
func (c *Conn) Sync() error {
	return c.SyncUntil(nil)
}

// SyncUntil pumps like Sync but stops early once done reports true,
// checked at message boundaries. Requests still queued or in flight stay
// queued and a later Sync or SyncUntil picks them up. A nil done pumps
// until the queue drains.
func (c *Conn) SyncUntil(done func() bool) error {
	if !c.processing.CompareAndSwap(false, true) {
		return errors.WithCode(errors.CodeSessionBusy, "Another goroutine is processing this connection")
	}
	defer c.processing.Store(false)
	return c.pump(done)
}

func (c *Conn) pump(done func() bool) error {
	for {
		if done != nil && done() {
			return nil
		}
		if c.closed {
			return errors.WithCode(errors.CodeConnectionClosed, "Connection already closed")
		}
		if c.failed {
			return c.failErr
		}
		if c.resetRequested.Load() {
			if err := c.reset(); err != nil {
				return err
			}
			continue
		}
		if c.inflight > 0 {
			if err := c.receiveResponse(); err != nil {
				return c.fail(err)
			}
			continue
		}
		if c.failureSeen {
			if err := c.ackFailure(); err != nil {
				return err
			}
			continue
		}
		if c.depth > 0 {
			if err := c.sendRequests(); err != nil {
				return c.fail(err)
			}
			continue
		}
		return nil
	}
}

// Interrupt requests that all outstanding work be aborted. If no
// goroutine holds the connection, the caller performs the reset itself;
// otherwise the flag is left set for the pumping goroutine to observe at
// its next message boundary.
func (c *Conn) Interrupt() error {
	c.resetRequested.Store(true)
	if !c.processing.CompareAndSwap(false, true) {
		return nil
	}
	defer c.processing.Store(false)
	if c.closed || c.failed {
		c.resetRequested.Store(false)
		return nil
	}
	return c.reset()
}

// reset aborts all outstanding work: attached sessions are notified,
// responses owed to sent requests are received and discarded, a RESET is
// sent outside the queue and must succeed, and anything still queued is
// drained. The interruption flag clears only once the reset completed so
// leftover state cannot trigger a second one.
func (c *Conn) reset() error {
	log.Info("Resetting connection")
	cause := errors.WithCode(errors.CodeSessionReset, "Request aborted by connection reset")
	c.notifySessions(cause)

	for c.inflight > 0 {
		sig, _, err := messages.Read(c.cr)
		if err != nil {
			return c.fail(err)
		}
		switch sig {
		case messages.RecordMessageSignature:
			// Discard stream content for the aborted request.
		case messages.SuccessMessageSignature, messages.FailureMessageSignature, messages.IgnoredMessageSignature:
			c.pop(&Response{Err: cause})
		default:
			return c.fail(errors.WithCode(errors.CodeProtocolViolation,
				"Unexpected message type %02X while awaiting responses for reset", sig))
		}
	}

	if err := messages.Write(c.cw, messages.NewResetMessage()); err != nil {
		return c.fail(err)
	}
	sig, _, err := messages.Read(c.cr)
	if err != nil {
		return c.fail(err)
	}
	if sig != messages.SuccessMessageSignature {
		return c.fail(errors.WithCode(errors.CodeProtocolViolation,
			"Expected SUCCESS in response to reset, got %02X", sig))
	}

	c.drainQueue(cause)
	c.failureSeen = false
	c.resetRequested.Store(false)
	return nil
}

// Close terminates the connection: attached sessions are notified,
// responses already in flight are received, everything queued is
// drained, and the stream is released. Closing a failed connection still
// completes cleanup and reports the original failure. A concurrent
// pumper makes Close fail with a busy error rather than block.
func (c *Conn) Close() error {
	if !c.processing.CompareAndSwap(false, true) {
		return errors.WithCode(errors.CodeSessionBusy, "Another goroutine is processing this connection")
	}
	defer c.processing.Store(false)

	if c.closed {
		return c.failErr
	}
	cause := errors.WithCode(errors.CodeConnectionClosed, "Request abandoned by connection close")
	c.notifySessions(cause)

	if !c.failed {
		for c.inflight > 0 {
			if err := c.receiveResponse(); err != nil {
				c.fail(err)
				break
			}
		}
	}
	c.drainQueue(cause)

	closeErr := c.strm.Close()
	c.closed = true
	if c.failed {
		return c.failErr
	}
	if closeErr != nil {
		return errors.Wrap(closeErr, "An error occurred closing the connection")
	}
	return nil
}

func (c *Conn) notifySessions(cause error) {
	for s := range c.sessions {
		s.abort(cause)
	}
	c.sessions = make(map[*Session]struct{})
}
