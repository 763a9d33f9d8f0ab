package encoding

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bolterr "github.com/graphwire/bolt/errors"
	"github.com/graphwire/bolt/value"
)

func roundTrip(t *testing.T, v value.Value) value.Value {
	t.Helper()
	data, err := Marshal(v)
	require.NoError(t, err)
	got, err := NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	require.True(t, v.Equal(got), "round trip mismatch: sent %s, got %s", v, got)
	return got
}

func TestMarshalScalars(t *testing.T) {
	cases := []struct {
		v    value.Value
		want []byte
	}{
		{value.Null{}, []byte{0xC0}},
		{value.Bool(false), []byte{0xC2}},
		{value.Bool(true), []byte{0xC3}},
		{value.Int(42), []byte{0x2A}},
		{value.Int(-1), []byte{0xFF}},
		{value.Int(-16), []byte{0xF0}},
		{value.Int(-17), []byte{0xC8, 0xEF}},
		{value.Int(127), []byte{0x7F}},
		{value.Int(128), []byte{0xC9, 0x00, 0x80}},
		{value.Int(-32769), []byte{0xCA, 0xFF, 0xFF, 0x7F, 0xFF}},
		{value.Int(2147483648), []byte{0xCB, 0x00, 0x00, 0x00, 0x00, 0x80, 0x00, 0x00, 0x00}},
		{value.Float(1.1), []byte{0xC1, 0x3F, 0xF1, 0x99, 0x99, 0x99, 0x99, 0x99, 0x9A}},
		{value.String(""), []byte{0x80}},
		{value.String("bernie"), append([]byte{0x86}, "bernie"...)},
	}
	for _, c := range cases {
		data, err := Marshal(c.v)
		require.NoError(t, err)
		assert.Equal(t, c.want, data, "encoding %s", c.v)
	}
}

func TestDecodeScalars(t *testing.T) {
	got, err := NewDecoder(bytes.NewReader([]byte{0x2A})).Decode()
	require.NoError(t, err)
	assert.True(t, value.Int(42).Equal(got))

	got, err = NewDecoder(bytes.NewReader(append([]byte{0x86}, "bernie"...))).Decode()
	require.NoError(t, err)
	assert.True(t, value.String("bernie").Equal(got))
}

func TestIntRoundTripWidths(t *testing.T) {
	for _, n := range []int64{0, 1, -1, -16, -17, 127, 128, -128, -129,
		32767, -32768, 32768, 2147483647, -2147483648, 2147483648,
		9223372036854775807, -9223372036854775808} {
		roundTrip(t, value.Int(n))
	}
}

func TestIntRoundTripQuick(t *testing.T) {
	f := func(n int64) bool {
		data, err := Marshal(value.Int(n))
		if err != nil {
			return false
		}
		got, err := NewDecoder(bytes.NewReader(data)).Decode()
		return err == nil && value.Int(n).Equal(got)
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestStringRoundTripQuick(t *testing.T) {
	f := func(s string) bool {
		data, err := Marshal(value.String(s))
		if err != nil {
			return false
		}
		got, err := NewDecoder(bytes.NewReader(data)).Decode()
		return err == nil && value.String(s).Equal(got)
	}
	require.NoError(t, quick.Check(f, nil))
}

func TestStringLengthBoundaries(t *testing.T) {
	markers := map[int]byte{
		15:    0x8F,
		16:    0xD0,
		255:   0xD0,
		256:   0xD1,
		65535: 0xD1,
		65536: 0xD2,
	}
	for length, marker := range markers {
		s := value.String(strings.Repeat("x", length))
		data, err := Marshal(s)
		require.NoError(t, err)
		assert.Equal(t, marker, data[0], "length %d", length)
		roundTrip(t, s)
	}
}

func TestBytesRoundTrip(t *testing.T) {
	for _, length := range []int{0, 1, 255, 256, 65535, 65536} {
		roundTrip(t, value.Bytes(bytes.Repeat([]byte{0xAB}, length)))
	}
}

func TestListBoundaries(t *testing.T) {
	mk := func(n int) value.List {
		l := make(value.List, n)
		for i := range l {
			l[i] = value.Int(i)
		}
		return l
	}
	for length, marker := range map[int]byte{15: 0x9F, 16: 0xD4, 256: 0xD5} {
		data, err := Marshal(mk(length))
		require.NoError(t, err)
		assert.Equal(t, marker, data[0], "length %d", length)
		roundTrip(t, mk(length))
	}
}

func TestMapBoundaries(t *testing.T) {
	mk := func(n int) value.Map {
		m := value.NewMap()
		for i := 0; i < n; i++ {
			m = m.Add(strings.Repeat("k", i+1), value.Int(i))
		}
		return m
	}
	for length, marker := range map[int]byte{15: 0xAF, 16: 0xD8} {
		data, err := Marshal(mk(length))
		require.NoError(t, err)
		assert.Equal(t, marker, data[0], "length %d", length)
		roundTrip(t, mk(length))
	}
}

func TestNestedContainers(t *testing.T) {
	v := value.NewMap().
		Add("list", value.List{value.Int(1), value.Null{}, value.String("s")}).
		Add("map", value.NewMap().Add("inner", value.Bool(true))).
		Add("bytes", value.Bytes{1, 2, 3})
	roundTrip(t, v)
}

func TestMapRejectsNonStringKey(t *testing.T) {
	// A single-entry map whose key is the integer 1.
	_, err := NewDecoder(bytes.NewReader([]byte{0xA1, 0x01, 0x01})).Decode()
	require.Error(t, err)
	assert.True(t, errors.Is(err, bolterr.ErrInvalidMapKeyType))
}

func TestUnrecognizedMarker(t *testing.T) {
	_, err := NewDecoder(bytes.NewReader([]byte{0xC4})).Decode()
	require.Error(t, err)
	assert.True(t, errors.Is(err, bolterr.ErrProtocolViolation))
}

func TestGraphStructuresRoundTrip(t *testing.T) {
	props := value.NewMap().Add("name", value.String("bob"))
	node := value.Node{Identity: 1, Labels: []string{"Person", "Actor"}, Properties: props}

	got := roundTrip(t, node)
	_, ok := got.(value.Node)
	require.True(t, ok, "expected a hydrated node, got %T", got)

	rel := value.Relationship{Identity: 2, StartIdentity: 1, EndIdentity: 3, Type: "KNOWS", Properties: value.NewMap()}
	got = roundTrip(t, rel)
	_, ok = got.(value.Relationship)
	require.True(t, ok, "expected a hydrated relationship, got %T", got)

	unbound := value.UnboundRelationship{Identity: 2, Type: "KNOWS", Properties: value.NewMap()}
	got = roundTrip(t, unbound)
	_, ok = got.(value.UnboundRelationship)
	require.True(t, ok, "expected a hydrated unbound relationship, got %T", got)

	path, err := value.NewPath(
		[]value.Node{{Identity: 1, Properties: value.NewMap()}, {Identity: 3, Properties: value.NewMap()}},
		[]value.UnboundRelationship{unbound},
		[]int64{1, 1},
	)
	require.NoError(t, err)
	got = roundTrip(t, path)
	_, ok = got.(value.Path)
	require.True(t, ok, "expected a hydrated path, got %T", got)
}

func TestSpatialStructuresRoundTrip(t *testing.T) {
	got := roundTrip(t, value.Point2D{SRID: 4326, X: 1.5, Y: -2.5})
	_, ok := got.(value.Point2D)
	require.True(t, ok)

	got = roundTrip(t, value.Point3D{SRID: 9157, X: 1, Y: 2, Z: 3})
	_, ok = got.(value.Point3D)
	require.True(t, ok)
}

func TestTemporalStructuresRoundTrip(t *testing.T) {
	for _, v := range []value.Value{
		value.LocalDate{EpochDays: 19000},
		value.LocalTime{Nanos: 86399_000000000},
		value.LocalDateTime{Seconds: 1700000000, Nanos: 123},
		value.OffsetDateTime{Seconds: 1700000000, Nanos: 123, Offset: -3600},
		value.ZonedDateTime{Seconds: 1700000000, Nanos: 123, Zone: "Europe/Stockholm"},
	} {
		got := roundTrip(t, v)
		assert.IsType(t, v, got)
	}
}

func TestUnknownSignatureFallsBackToGenericStruct(t *testing.T) {
	v := value.Struct{Sig: 0x5A, Fields: []value.Value{value.Int(1), value.String("x")}}
	got := roundTrip(t, v)
	s, ok := got.(value.Struct)
	require.True(t, ok, "expected a generic struct, got %T", got)
	assert.Equal(t, byte(0x5A), s.Sig)
}

func TestHydrateRejectsWrongFieldCount(t *testing.T) {
	bad := value.Struct{Sig: value.NodeSignature, Fields: []value.Value{value.Int(1)}}
	data, err := Marshal(bad)
	require.NoError(t, err)
	_, err = NewDecoder(bytes.NewReader(data)).Decode()
	require.Error(t, err)
}

func TestHydrateRejectsWrongFieldType(t *testing.T) {
	bad := value.Struct{Sig: value.NodeSignature, Fields: []value.Value{
		value.String("not-an-id"), value.List{}, value.NewMap(),
	}}
	data, err := Marshal(bad)
	require.NoError(t, err)
	_, err = NewDecoder(bytes.NewReader(data)).Decode()
	require.Error(t, err)
}
