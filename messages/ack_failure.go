package messages

import "github.com/graphwire/bolt/value"

// AckFailureMessage Represents an ACK_FAILURE message
type AckFailureMessage struct{}

// NewAckFailureMessage Gets a new AckFailureMessage struct
func NewAckFailureMessage() AckFailureMessage {
	return AckFailureMessage{}
}

// Signature gets the signature byte for the struct
func (i AckFailureMessage) Signature() byte {
	return AckFailureMessageSignature
}

// Fields gets the fields to encode for the struct
func (i AckFailureMessage) Fields() []value.Value {
	return []value.Value{}
}
