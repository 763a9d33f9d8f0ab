package bolt

import (
	"github.com/graphwire/bolt/messages"
	"github.com/graphwire/bolt/value"
)

// Response is one observation delivered to a request's receive callback:
// either a server message (Sig and Fields set) or a synthetic
// notification (Err set) telling the callback its request will never get
// a server response — because the connection closed, was reset, or the
// request was discarded after an earlier failure.
type Response struct {
	Sig    byte
	Fields []value.Value
	Err    error
}

// Ignored reports whether the response is the server discarding this
// request after an earlier failure.
func (r *Response) Ignored() bool {
	return r.Sig == messages.IgnoredMessageSignature
}

// ReceiveFunc observes the responses for one request, in arrival order.
// Returning more=true asks for further responses (records keep
// streaming); returning more=false or an error stops delivery for this
// request — remaining responses are drained silently so the wire stays
// in sync, and the request still completes on its terminal message.
type ReceiveFunc func(resp *Response) (more bool, err error)

// Request is one pending protocol operation in a connection's queue. A
// slot obtained from Conn.NewRequest is already counted against the
// queue, so it must be populated with Set before the connection is used
// again.
type Request struct {
	msg     messages.Message
	receive ReceiveFunc

	// broken records that the callback stopped delivery; later
	// responses for this request are discarded, not dispatched.
	broken bool
}

// Set populates the request's message and response callback. fn may be
// nil when the caller does not care about the response.
func (r *Request) Set(m messages.Message, fn ReceiveFunc) {
	r.msg = m
	r.receive = fn
}

// notify dispatches a response to the callback unless delivery stopped.
func (r *Request) notify(resp *Response) {
	if r.broken || r.receive == nil {
		return
	}
	more, err := r.receive(resp)
	if err != nil || !more {
		r.broken = true
	}
}
