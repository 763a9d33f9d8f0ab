// Package messages defines the protocol messages exchanged on a
// connection and the codec that frames them: each message travels as one
// signed structure through one open/close cycle of the chunk layer.
package messages

import (
	"github.com/graphwire/bolt/chunk"
	"github.com/graphwire/bolt/encoding"
	"github.com/graphwire/bolt/errors"
	"github.com/graphwire/bolt/value"
)

const (
	// InitMessageSignature is the signature byte for the INIT message
	InitMessageSignature = 0x01
	// RunMessageSignature is the signature byte for the RUN message
	RunMessageSignature = 0x10
	// DiscardAllMessageSignature is the signature byte for the DISCARD_ALL message
	DiscardAllMessageSignature = 0x2F
	// PullAllMessageSignature is the signature byte for the PULL_ALL message
	PullAllMessageSignature = 0x3F
	// AckFailureMessageSignature is the signature byte for the ACK_FAILURE message
	AckFailureMessageSignature = 0x0E
	// ResetMessageSignature is the signature byte for the RESET message
	ResetMessageSignature = 0x0F
	// RecordMessageSignature is the signature byte for the RECORD message
	RecordMessageSignature = 0x71
	// SuccessMessageSignature is the signature byte for the SUCCESS message
	SuccessMessageSignature = 0x70
	// FailureMessageSignature is the signature byte for the FAILURE message
	FailureMessageSignature = 0x7F
	// IgnoredMessageSignature is the signature byte for the IGNORED message
	IgnoredMessageSignature = 0x7E
)

// Message is implemented by every protocol message. The signature byte
// identifies the message type; the fields are its arguments.
type Message interface {
	Signature() byte
	Fields() []value.Value
}

// Write frames m as a single structure and sends it through one message
// cycle of the chunk writer.
func Write(w *chunk.Writer, m Message) error {
	enc := encoding.NewEncoder(w)
	if err := enc.Encode(value.Struct{Sig: m.Signature(), Fields: m.Fields()}); err != nil {
		return errors.Wrap(err, "An error occurred encoding a message")
	}
	return w.Close()
}

// Read consumes one message from the chunk reader and returns its
// signature and fields. The reader is re-armed for the next message
// before returning.
func Read(r *chunk.Reader) (byte, []value.Value, error) {
	v, err := encoding.NewDecoder(r).Decode()
	if err != nil {
		return 0, nil, err
	}
	// The payload must be exactly one structure; trailing bytes before
	// the end marker are a framing violation.
	if n, err := r.Discard(); err != nil {
		return 0, nil, err
	} else if n > 0 {
		return 0, nil, errors.WithCode(errors.CodeProtocolViolation, "%d trailing bytes after message payload", n)
	}
	if err := r.NextMessage(); err != nil {
		return 0, nil, err
	}
	s, ok := v.(value.Structure)
	if !ok {
		return 0, nil, errors.WithCode(errors.CodeProtocolViolation, "Expected: message structure, but got %T %+v", v, v)
	}
	return s.Signature(), s.StructFields(), nil
}
