package encoding

import (
	"bytes"
	"encoding/binary"
	"io"
	"math"

	"github.com/graphwire/bolt/errors"
	"github.com/graphwire/bolt/value"
)

// Encoder serializes values to the given stream, picking the smallest
// marker family that fits each length or magnitude so the encoding is
// canonical. It performs no framing; point it at a chunk.Writer to
// produce wire messages.
type Encoder struct {
	w io.Writer
}

// NewEncoder initializes a new Encoder over the provided writer.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Marshal encodes a single value to a byte slice.
func Marshal(v value.Value) ([]byte, error) {
	var b bytes.Buffer
	err := NewEncoder(&b).Encode(v)
	return b.Bytes(), err
}

// Encode serializes one value to the stream.
func (e *Encoder) Encode(v value.Value) error {
	switch val := v.(type) {
	case nil:
		return e.writeMarker(NilMarker)
	case value.Null:
		return e.writeMarker(NilMarker)
	case value.Bool:
		if val {
			return e.writeMarker(TrueMarker)
		}
		return e.writeMarker(FalseMarker)
	case value.Int:
		return e.encodeInt(int64(val))
	case value.Float:
		return e.encodeFloat(float64(val))
	case value.String:
		return e.encodeString(string(val))
	case value.Bytes:
		return e.encodeBytes(val)
	case value.List:
		return e.encodeList(val)
	case value.Map:
		return e.encodeMap(val)
	case value.Structure:
		return e.encodeStructure(val)
	default:
		return errors.New("Unrecognized type when encoding data for transport: %T %+v", v, v)
	}
}

func (e *Encoder) writeMarker(marker byte) error {
	_, err := e.w.Write([]byte{marker})
	return err
}

func (e *Encoder) write(v interface{}) error {
	return binary.Write(e.w, binary.BigEndian, v)
}

func (e *Encoder) encodeInt(val int64) (err error) {
	switch {
	case val >= -16 && val <= math.MaxInt8:
		// TINY_INT, inline in the marker byte
		return e.write(int8(val))
	case val >= math.MinInt8 && val < -16:
		if err = e.writeMarker(Int8Marker); err != nil {
			return err
		}
		return e.write(int8(val))
	case val >= math.MinInt16 && val <= math.MaxInt16:
		if err = e.writeMarker(Int16Marker); err != nil {
			return err
		}
		return e.write(int16(val))
	case val >= math.MinInt32 && val <= math.MaxInt32:
		if err = e.writeMarker(Int32Marker); err != nil {
			return err
		}
		return e.write(int32(val))
	default:
		if err = e.writeMarker(Int64Marker); err != nil {
			return err
		}
		return e.write(val)
	}
}

func (e *Encoder) encodeFloat(val float64) error {
	if err := e.writeMarker(FloatMarker); err != nil {
		return err
	}
	if err := e.write(val); err != nil {
		return errors.Wrap(err, "An error occurred writing a float")
	}
	return nil
}

// writeLength emits the marker for a sized family: the tiny marker with
// the length in the low nibble when it fits, else the 8/16/32-bit form.
func (e *Encoder) writeLength(tiny, m8, m16, m32 byte, length int) error {
	switch {
	case length <= 15:
		return e.writeMarker(tiny + byte(length))
	case length <= math.MaxUint8:
		if err := e.writeMarker(m8); err != nil {
			return err
		}
		return e.write(uint8(length))
	case length <= math.MaxUint16:
		if err := e.writeMarker(m16); err != nil {
			return err
		}
		return e.write(uint16(length))
	case int64(length) <= math.MaxUint32:
		if err := e.writeMarker(m32); err != nil {
			return err
		}
		return e.write(uint32(length))
	default:
		return errors.New("Container too long to write: %d items", length)
	}
}

func (e *Encoder) encodeString(val string) error {
	if err := e.writeLength(TinyStringMarker, String8Marker, String16Marker, String32Marker, len(val)); err != nil {
		return err
	}
	_, err := io.WriteString(e.w, val)
	return err
}

func (e *Encoder) encodeBytes(val value.Bytes) error {
	length := len(val)
	switch {
	case length <= math.MaxUint8:
		if err := e.writeMarker(Bytes8Marker); err != nil {
			return err
		}
		if err := e.write(uint8(length)); err != nil {
			return err
		}
	case length <= math.MaxUint16:
		if err := e.writeMarker(Bytes16Marker); err != nil {
			return err
		}
		if err := e.write(uint16(length)); err != nil {
			return err
		}
	case int64(length) <= math.MaxUint32:
		if err := e.writeMarker(Bytes32Marker); err != nil {
			return err
		}
		if err := e.write(uint32(length)); err != nil {
			return err
		}
	default:
		return errors.New("Byte array too long to write: %d bytes", length)
	}
	_, err := e.w.Write(val)
	return err
}

func (e *Encoder) encodeList(val value.List) error {
	if err := e.writeLength(TinyListMarker, List8Marker, List16Marker, List32Marker, len(val)); err != nil {
		return err
	}
	for _, item := range val {
		if err := e.Encode(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeMap(val value.Map) error {
	if err := e.writeLength(TinyMapMarker, Map8Marker, Map16Marker, Map32Marker, val.Len()); err != nil {
		return err
	}
	for _, entry := range val.Entries() {
		if err := e.encodeString(entry.Key); err != nil {
			return err
		}
		if err := e.Encode(entry.Val); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeStructure(val value.Structure) error {
	fields := val.StructFields()
	length := len(fields)
	switch {
	case length <= 15:
		if err := e.writeMarker(TinyStructMarker + byte(length)); err != nil {
			return err
		}
	case length <= math.MaxUint8:
		if err := e.writeMarker(Struct8Marker); err != nil {
			return err
		}
		if err := e.write(uint8(length)); err != nil {
			return err
		}
	case length <= math.MaxUint16:
		if err := e.writeMarker(Struct16Marker); err != nil {
			return err
		}
		if err := e.write(uint16(length)); err != nil {
			return err
		}
	default:
		return errors.New("Structure too long to write: %d fields", length)
	}

	if err := e.writeMarker(val.Signature()); err != nil {
		return errors.Wrap(err, "An error occurred writing a structure signature")
	}
	for _, field := range fields {
		if err := e.Encode(field); err != nil {
			return errors.Wrap(err, "An error occurred encoding a structure field")
		}
	}
	return nil
}
