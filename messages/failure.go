package messages

import "github.com/graphwire/bolt/value"

// FailureMessage Represents a FAILURE message
type FailureMessage struct {
	Metadata value.Map
}

// NewFailureMessage Gets a new FailureMessage struct
func NewFailureMessage(metadata value.Map) FailureMessage {
	return FailureMessage{Metadata: metadata}
}

// Signature gets the signature byte for the struct
func (i FailureMessage) Signature() byte {
	return FailureMessageSignature
}

// Fields gets the fields to encode for the struct
func (i FailureMessage) Fields() []value.Value {
	return []value.Value{i.Metadata}
}

// Code returns the server failure code from the metadata, if present.
func (i FailureMessage) Code() string {
	if v, ok := i.Metadata.Get("code"); ok {
		if s, ok := v.(value.String); ok {
			return string(s)
		}
	}
	return ""
}

// Message returns the server failure message from the metadata, if
// present.
func (i FailureMessage) Message() string {
	if v, ok := i.Metadata.Get("message"); ok {
		if s, ok := v.(value.String); ok {
			return string(s)
		}
	}
	return ""
}
