package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapKeepsCode(t *testing.T) {
	inner := WithCode(CodeQueueFull, "queue holds %d", 64)
	outer := Wrap(inner, "submitting request")

	assert.Equal(t, CodeQueueFull, outer.Code())
	assert.True(t, stderrors.Is(outer, ErrQueueFull))
	assert.Contains(t, outer.Error(), "submitting request")
	assert.Contains(t, outer.Error(), "queue holds 64")
}

func TestWrapCodeOverrides(t *testing.T) {
	inner := New("low level failure")
	outer := WrapCode(inner, CodeConnectionClosed, "request abandoned")

	assert.Equal(t, CodeConnectionClosed, outer.Code())
	assert.True(t, stderrors.Is(outer, ErrConnectionClosed))
	assert.False(t, stderrors.Is(outer, ErrQueueFull))
}

func TestWrapForeignError(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	wrapped := Wrap(cause, "opening connection")

	assert.Equal(t, CodeNone, wrapped.Code())
	assert.Equal(t, cause, stderrors.Unwrap(wrapped))
	assert.Equal(t, cause, wrapped.InnerMost())
}

func TestInnerMostWalksChain(t *testing.T) {
	cause := fmt.Errorf("root cause")
	chain := Wrap(Wrap(Wrap(cause, "a"), "b"), "c")
	assert.Equal(t, cause, chain.InnerMost())
}

func TestUncodedErrorsNeverMatchSentinels(t *testing.T) {
	err := New("plain error")
	require.Equal(t, CodeNone, err.Code())
	assert.False(t, stderrors.Is(err, ErrProtocolViolation))

	// Two uncoded errors do not match each other either.
	assert.False(t, stderrors.Is(err, New("other plain error")))
}
