package messages

import "github.com/graphwire/bolt/value"

// InitMessage Represents an INIT message
type InitMessage struct {
	clientName string
	authToken  value.Map
}

// NewInitMessage Gets a new InitMessage struct
func NewInitMessage(clientName string, authToken value.Map) InitMessage {
	return InitMessage{
		clientName: clientName,
		authToken:  authToken,
	}
}

// Signature gets the signature byte for the struct
func (i InitMessage) Signature() byte {
	return InitMessageSignature
}

// Fields gets the fields to encode for the struct
func (i InitMessage) Fields() []value.Value {
	return []value.Value{value.String(i.clientName), i.authToken}
}
