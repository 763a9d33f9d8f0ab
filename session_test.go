package bolt

import (
	stderrors "errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphwire/bolt/errors"
	"github.com/graphwire/bolt/messages"
	"github.com/graphwire/bolt/value"
)

func TestSessionQueryCollectsRecords(t *testing.T) {
	strm := &scriptStream{}
	c := newConn(strm, Version1, testConfig())
	s, err := c.NewSession()
	require.NoError(t, err)

	strm.script(t, messages.SuccessMessageSignature, successMeta())
	strm.script(t, messages.RecordMessageSignature, value.List{value.Int(1), value.String("a")})
	strm.script(t, messages.RecordMessageSignature, value.List{value.Int(2), value.String("b")})
	strm.script(t, messages.SuccessMessageSignature, value.NewMap().Add("type", value.String("r")))

	records, summary, err := s.Query("MATCH (n) RETURN n.id, n.name", value.NewMap())
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.True(t, records[0].Equal(value.List{value.Int(1), value.String("a")}))
	assert.True(t, records[1].Equal(value.List{value.Int(2), value.String("b")}))

	typ, ok := summary.Get("type")
	require.True(t, ok)
	assert.True(t, value.String("r").Equal(typ))
}

func TestSessionQueryServerFailure(t *testing.T) {
	strm := &scriptStream{}
	c := newConn(strm, Version1, testConfig())
	s, err := c.NewSession()
	require.NoError(t, err)

	strm.script(t, messages.FailureMessageSignature, failureMeta("Neo.ClientError.Statement.SyntaxError", "bad"))
	strm.script(t, messages.IgnoredMessageSignature)
	strm.script(t, messages.SuccessMessageSignature, value.NewMap()) // ACK_FAILURE response

	_, _, err = s.Query("THIS IS NOT CYPHER", value.NewMap())
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSessionFailed))
	assert.Contains(t, err.Error(), "SyntaxError")

	// The failure was acknowledged inside Query; the session keeps working.
	strm.script(t, messages.SuccessMessageSignature, successMeta())
	strm.script(t, messages.SuccessMessageSignature, value.NewMap())
	_, _, err = s.Query("RETURN 1", value.NewMap())
	require.NoError(t, err)
}

func TestSessionEndsWhenConnectionCloses(t *testing.T) {
	strm := &scriptStream{}
	c := newConn(strm, Version1, testConfig())
	s, err := c.NewSession()
	require.NoError(t, err)

	require.NoError(t, c.Close())

	err = s.Run("RETURN 1", value.NewMap(), nil)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSessionEnded))
}

func TestSessionEndsOnReset(t *testing.T) {
	strm := &scriptStream{}
	c := newConn(strm, Version1, testConfig())
	s, err := c.NewSession()
	require.NoError(t, err)

	strm.script(t, messages.SuccessMessageSignature, value.NewMap())
	require.NoError(t, s.Reset())

	err = s.PullAll(nil)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSessionEnded))

	// The connection itself survived the reset.
	fresh, err := c.NewSession()
	require.NoError(t, err)
	assert.NotEqual(t, s.ID(), fresh.ID())
}

func TestSessionCloseDetaches(t *testing.T) {
	strm := &scriptStream{}
	c := newConn(strm, Version1, testConfig())
	s, err := c.NewSession()
	require.NoError(t, err)

	s.Close()
	err = s.Run("RETURN 1", value.NewMap(), nil)
	require.Error(t, err)
	assert.True(t, stderrors.Is(err, errors.ErrSessionEnded))

	// Closing a session does not disturb the connection or its siblings.
	other, err := c.NewSession()
	require.NoError(t, err)
	strm.script(t, messages.SuccessMessageSignature, successMeta())
	require.NoError(t, other.Run("RETURN 1", value.NewMap(), nil))
	require.NoError(t, other.Sync())
}

func TestSessionIDsAreUnique(t *testing.T) {
	c := newConn(&scriptStream{}, Version1, testConfig())
	a, err := c.NewSession()
	require.NoError(t, err)
	b, err := c.NewSession()
	require.NoError(t, err)
	assert.NotEqual(t, a.ID(), b.ID())
}
