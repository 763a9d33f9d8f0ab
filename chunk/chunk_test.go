package chunk

import (
	"bytes"
	"errors"
	"io"
	"math/rand"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStream is an in-memory transport for exercising the codec.
type memStream struct {
	bytes.Buffer
}

func (m *memStream) WriteBuffers(bufs net.Buffers) (int64, error) {
	var total int64
	for _, b := range bufs {
		n, err := m.Buffer.Write(b)
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func (m *memStream) Flush() error { return nil }
func (m *memStream) Close() error { return nil }

func TestWriterSplitsAtMaxChunk(t *testing.T) {
	m := &memStream{}
	w := NewWriter(m, 0, 8)

	n, err := w.Write([]byte("0123456789abcdef"))
	require.NoError(t, err)
	assert.Equal(t, 16, n)
	require.NoError(t, w.Close())

	want := append([]byte{0x00, 0x08}, "01234567"...)
	want = append(want, 0x00, 0x08)
	want = append(want, "89abcdef"...)
	want = append(want, 0x00, 0x00)
	assert.Equal(t, want, m.Bytes())
	assert.Equal(t, 22, m.Len())
}

func TestWriterBatchesBelowMinChunk(t *testing.T) {
	m := &memStream{}
	w := NewWriter(m, 4, 8)

	_, err := w.Write([]byte("a"))
	require.NoError(t, err)
	_, err = w.Write([]byte("b"))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Len(), "writes below the minimum must not hit the stream")

	_, err = w.Write([]byte("cd"))
	require.NoError(t, err)
	assert.Equal(t, append([]byte{0x00, 0x04}, "abcd"...), m.Bytes())

	require.NoError(t, w.Close())
	assert.Equal(t, []byte{0x00, 0x00}, m.Bytes()[6:])
}

func TestWriterRetainsShortTail(t *testing.T) {
	m := &memStream{}
	w := NewWriter(m, 4, 8)

	_, err := w.Write([]byte("0123456789"))
	require.NoError(t, err)
	// 8 bytes go out as a full chunk; the 2-byte tail is below the
	// minimum and stays pending.
	assert.Equal(t, append([]byte{0x00, 0x08}, "01234567"...), m.Bytes())

	require.NoError(t, w.Close())
	want := append([]byte{0x00, 0x08}, "01234567"...)
	want = append(want, 0x00, 0x02, '8', '9', 0x00, 0x00)
	assert.Equal(t, want, m.Bytes())
}

// flakyStream accepts a limited number of bytes before failing, like a
// peer closing the socket mid-write.
type flakyStream struct {
	memStream
	budget int
	err    error
}

func (f *flakyStream) WriteBuffers(bufs net.Buffers) (int64, error) {
	var total int64
	for _, b := range bufs {
		if len(b) > f.budget {
			n, _ := f.Buffer.Write(b[:f.budget])
			total += int64(n)
			f.budget = 0
			return total, f.err
		}
		n, err := f.Buffer.Write(b)
		total += int64(n)
		f.budget -= n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

func TestWriterReportsPayloadSentBeforeFailure(t *testing.T) {
	boom := errors.New("connection reset")
	f := &flakyStream{budget: 9, err: boom}
	w := NewWriter(f, 0, 4)

	// Ten payload bytes frame as header+4, header+4, header+2. Nine wire
	// bytes fit the budget: both headers plus five payload bytes.
	n, err := w.Write([]byte("0123456789"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))
	assert.Equal(t, 5, n, "the count must cover payload bytes that reached the wire")

	// The failure is sticky.
	n, err2 := w.Write([]byte("more"))
	assert.Equal(t, err, err2)
	assert.Equal(t, 0, n)
}

func TestWriterCloseWithoutWritesIsNoop(t *testing.T) {
	m := &memStream{}
	w := NewWriter(m, 4, 8)
	require.NoError(t, w.Close())
	assert.Equal(t, 0, m.Len())
}

func TestWriterReusableAcrossMessages(t *testing.T) {
	m := &memStream{}
	w := NewWriter(m, 0, MaxChunkSize)

	_, err := w.Write([]byte("one"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	_, err = w.Write([]byte("two"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r := NewReader(m)
	first, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "one", string(first))
	require.NoError(t, r.NextMessage())
	second, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "two", string(second))
}

func TestReaderPartialReads(t *testing.T) {
	data := append([]byte{0x00, 0x10}, "0123456789abcdef"...)
	data = append(data, 0x00, 0x00)
	r := NewReader(bytes.NewReader(data))

	p := make([]byte, 10)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 10, n)
	assert.Equal(t, "0123456789", string(p[:n]))

	n, err = r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Equal(t, "abcdef", string(p[:n]))

	_, err = r.Read(p)
	assert.Equal(t, io.EOF, err)
}

func TestReaderReassemblesChunks(t *testing.T) {
	data := []byte{0x00, 0x03, 'a', 'b', 'c', 0x00, 0x03, 'd', 'e', 'f', 0x00, 0x00}
	r := NewReader(bytes.NewReader(data))

	payload, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(payload))
}

func TestReaderNextMessageMidMessage(t *testing.T) {
	data := []byte{0x00, 0x04, 'a', 'b', 'c', 'd', 0x00, 0x00}
	r := NewReader(bytes.NewReader(data))

	p := make([]byte, 2)
	_, err := r.Read(p)
	require.NoError(t, err)

	err = r.NextMessage()
	require.Error(t, err)
}

func TestReaderDiscard(t *testing.T) {
	data := []byte{0x00, 0x03, 'a', 'b', 'c', 0x00, 0x02, 'd', 'e', 0x00, 0x00}
	data = append(data, 0x00, 0x01, 'z', 0x00, 0x00)
	r := NewReader(bytes.NewReader(data))

	n, err := r.Discard()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	require.NoError(t, r.NextMessage())
	next, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "z", string(next))
}

func TestReaderTruncatedStream(t *testing.T) {
	data := []byte{0x00, 0x08, 'a', 'b'}
	r := NewReader(bytes.NewReader(data))

	p := make([]byte, 2)
	n, err := r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, err = r.Read(p)
	require.Error(t, err)

	// The failure is sticky.
	_, err2 := r.Read(p)
	assert.Equal(t, err, err2)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	sizes := []int{1, 7, 8, 9, 100, 4095, 4096, 4097, 65535, 65536, 200000}
	for _, size := range sizes {
		payload := make([]byte, size)
		rng.Read(payload)

		m := &memStream{}
		w := NewWriter(m, 16, 4096)
		// Feed in uneven pieces to exercise batching and splitting.
		for off := 0; off < len(payload); {
			n := 1 + rng.Intn(9000)
			if off+n > len(payload) {
				n = len(payload) - off
			}
			_, err := w.Write(payload[off : off+n])
			require.NoError(t, err)
			off += n
		}
		require.NoError(t, w.Close())

		r := NewReader(m)
		got, err := io.ReadAll(r)
		require.NoError(t, err)
		require.True(t, bytes.Equal(payload, got), "size %d", size)
	}
}
