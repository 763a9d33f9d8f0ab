package messages

import "github.com/graphwire/bolt/value"

// ResetMessage Represents a RESET message
type ResetMessage struct{}

// NewResetMessage Gets a new ResetMessage struct
func NewResetMessage() ResetMessage {
	return ResetMessage{}
}

// Signature gets the signature byte for the struct
func (i ResetMessage) Signature() byte {
	return ResetMessageSignature
}

// Fields gets the fields to encode for the struct
func (i ResetMessage) Fields() []value.Value {
	return []value.Value{}
}
