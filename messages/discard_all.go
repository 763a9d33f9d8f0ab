package messages

import "github.com/graphwire/bolt/value"

// DiscardAllMessage Represents a DISCARD_ALL message
type DiscardAllMessage struct{}

// NewDiscardAllMessage Gets a new DiscardAllMessage struct
func NewDiscardAllMessage() DiscardAllMessage {
	return DiscardAllMessage{}
}

// Signature gets the signature byte for the struct
func (i DiscardAllMessage) Signature() byte {
	return DiscardAllMessageSignature
}

// Fields gets the fields to encode for the struct
func (i DiscardAllMessage) Fields() []value.Value {
	return []value.Value{}
}
