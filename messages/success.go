package messages

import "github.com/graphwire/bolt/value"

// SuccessMessage Represents a SUCCESS message
type SuccessMessage struct {
	Metadata value.Map
}

// NewSuccessMessage Gets a new SuccessMessage struct
func NewSuccessMessage(metadata value.Map) SuccessMessage {
	return SuccessMessage{Metadata: metadata}
}

// Signature gets the signature byte for the struct
func (i SuccessMessage) Signature() byte {
	return SuccessMessageSignature
}

// Fields gets the fields to encode for the struct
func (i SuccessMessage) Fields() []value.Value {
	return []value.Value{i.Metadata}
}
