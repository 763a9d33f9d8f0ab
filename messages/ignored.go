package messages

import "github.com/graphwire/bolt/value"

// IgnoredMessage Represents an IGNORED message
type IgnoredMessage struct {
	Metadata value.Map
}

// NewIgnoredMessage Gets a new IgnoredMessage struct
func NewIgnoredMessage(metadata value.Map) IgnoredMessage {
	return IgnoredMessage{Metadata: metadata}
}

// Signature gets the signature byte for the struct
func (i IgnoredMessage) Signature() byte {
	return IgnoredMessageSignature
}

// Fields gets the fields to encode for the struct
func (i IgnoredMessage) Fields() []value.Value {
	return []value.Value{i.Metadata}
}
