package messages

import "github.com/graphwire/bolt/value"

// PullAllMessage Represents a PULL_ALL message
type PullAllMessage struct{}

// NewPullAllMessage Gets a new PullAllMessage struct
func NewPullAllMessage() PullAllMessage {
	return PullAllMessage{}
}

// Signature gets the signature byte for the struct
func (i PullAllMessage) Signature() byte {
	return PullAllMessageSignature
}

// Fields gets the fields to encode for the struct
func (i PullAllMessage) Fields() []value.Value {
	return []value.Value{}
}
