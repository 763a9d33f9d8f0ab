package messages

import "github.com/graphwire/bolt/value"

// RecordMessage Represents a RECORD message
type RecordMessage struct {
	Values value.List
}

// NewRecordMessage Gets a new RecordMessage struct
func NewRecordMessage(values value.List) RecordMessage {
	return RecordMessage{Values: values}
}

// Signature gets the signature byte for the struct
func (i RecordMessage) Signature() byte {
	return RecordMessageSignature
}

// Fields gets the fields to encode for the struct
func (i RecordMessage) Fields() []value.Value {
	return []value.Value{i.Values}
}
