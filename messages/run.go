package messages

import "github.com/graphwire/bolt/value"

// RunMessage Represents a RUN message
type RunMessage struct {
	statement  string
	parameters value.Map
}

// NewRunMessage Gets a new RunMessage struct
func NewRunMessage(statement string, parameters value.Map) RunMessage {
	return RunMessage{
		statement:  statement,
		parameters: parameters,
	}
}

// Signature gets the signature byte for the struct
func (i RunMessage) Signature() byte {
	return RunMessageSignature
}

// Fields gets the fields to encode for the struct
func (i RunMessage) Fields() []value.Value {
	return []value.Value{value.String(i.statement), i.parameters}
}
