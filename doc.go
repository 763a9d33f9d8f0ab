// Package bolt implements a client for a binary graph-database wire
// protocol. A Driver negotiates the protocol version over a byte stream
// and hands back a Conn, which owns the transport and a bounded queue of
// pipelined requests. Sessions attach to a Conn for submitting RUN /
// PULL_ALL style work and are notified when the connection aborts under
// them.
//
// Conn objects and the sessions attached to them ARE NOT THREAD SAFE,
// with two exceptions: Interrupt may be called from any goroutine to
// request that in-flight work be abandoned via the reset protocol, and
// Close contends safely with a concurrent Sync.
//
// The layers underneath live in their own packages: transport framing in
// chunk, value serialization in encoding, the value model in value, the
// message catalog in messages, and the byte transport abstraction in
// stream.
package bolt
