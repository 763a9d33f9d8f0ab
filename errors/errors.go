// Package errors provides the error type used throughout the driver. It
// wraps causes with context, captures a stack trace at the innermost wrap
// site, and tags errors with a protocol-level code so callers can react
// to classes of failure without string matching.
package errors

import (
	"fmt"
	"runtime/debug"
	"strings"
)

// Code classifies an error for the caller. The zero value means the error
// carries no protocol classification.
type Code int

const (
	CodeNone Code = iota
	CodeInvalidURI
	CodeUnknownURIScheme
	CodeProtocolNegotiationFailed
	CodeConnectionClosed
	CodeSessionBusy
	CodeSessionFailed
	CodeSessionEnded
	CodeSessionReset
	CodeInvalidCredentials
	CodeAuthRateLimit
	CodeQueueFull
	CodeProtocolViolation
	CodeInvalidMapKeyType
	CodeInvalidLabelType
	CodeInvalidPathNodeType
	CodeInvalidPathRelationshipType
	CodeInvalidPathSequenceLength
	CodeInvalidPathSequenceIdxType
	CodeInvalidPathSequenceIdxRange
)

var codeNames = map[Code]string{
	CodeInvalidURI:                  "invalid uri",
	CodeUnknownURIScheme:            "unknown uri scheme",
	CodeProtocolNegotiationFailed:   "protocol negotiation failed",
	CodeConnectionClosed:            "connection closed",
	CodeSessionBusy:                 "session busy",
	CodeSessionFailed:               "session failed",
	CodeSessionEnded:                "session ended",
	CodeSessionReset:                "session reset",
	CodeInvalidCredentials:          "invalid credentials",
	CodeAuthRateLimit:               "authentication rate limit",
	CodeQueueFull:                   "request queue full",
	CodeProtocolViolation:           "protocol violation",
	CodeInvalidMapKeyType:           "invalid map key type",
	CodeInvalidLabelType:            "invalid label type",
	CodeInvalidPathNodeType:         "invalid path node type",
	CodeInvalidPathRelationshipType: "invalid path relationship type",
	CodeInvalidPathSequenceLength:   "invalid path sequence length",
	CodeInvalidPathSequenceIdxType:  "invalid path sequence index type",
	CodeInvalidPathSequenceIdxRange: "invalid path sequence index range",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return "unknown error"
}

// Sentinels for use with errors.Is. Each carries its code and no stack.
var (
	ErrInvalidURI                  = &Error{code: CodeInvalidURI, msg: CodeInvalidURI.String()}
	ErrUnknownURIScheme            = &Error{code: CodeUnknownURIScheme, msg: CodeUnknownURIScheme.String()}
	ErrProtocolNegotiationFailed   = &Error{code: CodeProtocolNegotiationFailed, msg: CodeProtocolNegotiationFailed.String()}
	ErrConnectionClosed            = &Error{code: CodeConnectionClosed, msg: CodeConnectionClosed.String()}
	ErrSessionBusy                 = &Error{code: CodeSessionBusy, msg: CodeSessionBusy.String()}
	ErrSessionFailed               = &Error{code: CodeSessionFailed, msg: CodeSessionFailed.String()}
	ErrSessionEnded                = &Error{code: CodeSessionEnded, msg: CodeSessionEnded.String()}
	ErrSessionReset                = &Error{code: CodeSessionReset, msg: CodeSessionReset.String()}
	ErrInvalidCredentials          = &Error{code: CodeInvalidCredentials, msg: CodeInvalidCredentials.String()}
	ErrAuthRateLimit               = &Error{code: CodeAuthRateLimit, msg: CodeAuthRateLimit.String()}
	ErrQueueFull                   = &Error{code: CodeQueueFull, msg: CodeQueueFull.String()}
	ErrProtocolViolation           = &Error{code: CodeProtocolViolation, msg: CodeProtocolViolation.String()}
	ErrInvalidMapKeyType           = &Error{code: CodeInvalidMapKeyType, msg: CodeInvalidMapKeyType.String()}
	ErrInvalidLabelType            = &Error{code: CodeInvalidLabelType, msg: CodeInvalidLabelType.String()}
	ErrInvalidPathNodeType         = &Error{code: CodeInvalidPathNodeType, msg: CodeInvalidPathNodeType.String()}
	ErrInvalidPathRelationshipType = &Error{code: CodeInvalidPathRelationshipType, msg: CodeInvalidPathRelationshipType.String()}
	ErrInvalidPathSequenceLength   = &Error{code: CodeInvalidPathSequenceLength, msg: CodeInvalidPathSequenceLength.String()}
	ErrInvalidPathSequenceIdxType  = &Error{code: CodeInvalidPathSequenceIdxType, msg: CodeInvalidPathSequenceIdxType.String()}
	ErrInvalidPathSequenceIdxRange = &Error{code: CodeInvalidPathSequenceIdxRange, msg: CodeInvalidPathSequenceIdxRange.String()}
)

// Error is the base error type. It adds a stack trace, an error code, and
// wrapping of causes.
type Error struct {
	msg     string
	code    Code
	wrapped error
	stack   []byte
}

// New makes a new error with a formatted message.
func New(msg string, args ...interface{}) *Error {
	return &Error{
		msg:   fmt.Sprintf(msg, args...),
		stack: debug.Stack(),
	}
}

// Wrap wraps an error with a new message. Wrapping a coded error keeps
// its code; the stack is captured only at the innermost wrap so traces
// are not repeated at every level.
func Wrap(err error, msg string, args ...interface{}) *Error {
	if e, ok := err.(*Error); ok {
		return &Error{
			msg:     fmt.Sprintf(msg, args...),
			code:    e.code,
			wrapped: e,
		}
	}
	return &Error{
		msg:     fmt.Sprintf(msg, args...),
		wrapped: err,
		stack:   debug.Stack(),
	}
}

// WithCode makes a new coded error with a formatted message.
func WithCode(code Code, msg string, args ...interface{}) *Error {
	return &Error{
		msg:   fmt.Sprintf(msg, args...),
		code:  code,
		stack: debug.Stack(),
	}
}

// WrapCode wraps an error, overriding its code.
func WrapCode(err error, code Code, msg string, args ...interface{}) *Error {
	e := Wrap(err, msg, args...)
	e.code = code
	return e
}

// Code returns the error's classification code.
func (e *Error) Code() Code {
	return e.code
}

// Error gets the error output.
func (e *Error) Error() string {
	return e.error(0)
}

// Unwrap returns the wrapped cause, for use with the stdlib errors package.
func (e *Error) Unwrap() error {
	return e.wrapped
}

// Is reports whether target is a sentinel with the same code, making
// coded errors work with stdlib errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.code != CodeNone && t.code == e.code
}

// Inner returns the error wrapped by this error.
func (e *Error) Inner() error {
	return e.wrapped
}

// InnerMost returns the innermost error wrapped by this error.
func (e *Error) InnerMost() error {
	if e.wrapped == nil {
		return e
	}
	if inner, ok := e.wrapped.(*Error); ok {
		return inner.InnerMost()
	}
	return e.wrapped
}

func (e *Error) error(level int) string {
	msg := fmt.Sprintf("%s%s", strings.Repeat("\t", level), e.msg)
	if e.wrapped != nil {
		if wrappedErr, ok := e.wrapped.(*Error); ok {
			msg += fmt.Sprintf("\n%s", wrappedErr.error(level+1))
		} else {
			msg += fmt.Sprintf("\nInternal Error(%T):%s", e.wrapped, e.wrapped.Error())
		}
	}
	if len(e.stack) > 0 {
		msg += fmt.Sprintf("\n\n Stack Trace:\n\n%s", e.stack)
	}
	return msg
}
