package ringbuf

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead(t *testing.T) {
	b := New(8)
	n, err := b.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, b.Len())
	assert.Equal(t, 3, b.Free())

	out := make([]byte, 8)
	n, err = b.Read(out)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(out[:n]))
	assert.Equal(t, 0, b.Len())
}

func TestReadEmpty(t *testing.T) {
	b := New(4)
	_, err := b.Read(make([]byte, 4))
	assert.Equal(t, io.EOF, err)
}

func TestShortWrite(t *testing.T) {
	b := New(4)
	n, err := b.Write([]byte("toolong"))
	assert.Equal(t, io.ErrShortWrite, err)
	assert.Equal(t, 4, n)

	out := make([]byte, 4)
	n, err = b.Read(out)
	require.NoError(t, err)
	assert.Equal(t, "tool", string(out[:n]))
}

func TestWraparound(t *testing.T) {
	b := New(8)
	_, err := b.Write([]byte("abcdef"))
	require.NoError(t, err)

	out := make([]byte, 4)
	_, err = b.Read(out)
	require.NoError(t, err)

	// Tail now wraps past the end of the backing array.
	_, err = b.Write([]byte("ghijkl"))
	require.NoError(t, err)
	assert.Equal(t, 8, b.Len())

	all := make([]byte, 8)
	n, err := b.Read(all)
	require.NoError(t, err)
	assert.Equal(t, "efghijkl", string(all[:n]))
}

func TestWriteVecReadVec(t *testing.T) {
	b := New(16)
	n, err := b.WriteVec([]byte("abc"), []byte("def"), []byte("gh"))
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	p1 := make([]byte, 3)
	p2 := make([]byte, 8)
	n, err = b.ReadVec(p1, p2)
	require.NoError(t, err)
	assert.Equal(t, 8, n)
	assert.Equal(t, "abc", string(p1))
	assert.Equal(t, "defgh", string(p2[:5]))
}

func TestFillFrom(t *testing.T) {
	b := New(8)
	src := bytes.NewBufferString("0123456789")

	n, err := b.FillFrom(src)
	require.NoError(t, err)
	assert.Equal(t, 8, n)

	_, err = b.FillFrom(src)
	assert.Equal(t, io.ErrShortBuffer, err)
}

func TestDrainTo(t *testing.T) {
	b := New(8)
	_, err := b.Write([]byte("abcdef"))
	require.NoError(t, err)

	// Force the stored run to wrap.
	out := make([]byte, 4)
	_, err = b.Read(out)
	require.NoError(t, err)
	_, err = b.Write([]byte("ghij"))
	require.NoError(t, err)

	var sink bytes.Buffer
	n, err := b.DrainTo(&sink)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "efghij", sink.String())
	assert.Equal(t, 0, b.Len())
}

func TestReset(t *testing.T) {
	b := New(4)
	_, err := b.Write([]byte("abcd"))
	require.NoError(t, err)
	b.Reset()
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, 4, b.Free())
}
