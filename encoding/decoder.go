package encoding

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/graphwire/bolt/errors"
	"github.com/graphwire/bolt/value"
)

// Decoder deserializes values from the stream, dispatching on the first
// marker byte. Structures with a known signature hydrate into their typed
// forms with strict field validation; unknown signatures fall back to the
// generic struct so newer server extensions still round-trip.
type Decoder struct {
	r       io.Reader
	scratch [8]byte
}

// NewDecoder Creates a new Decoder object
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

// Decode reads one value from the stream.
func (d *Decoder) Decode() (value.Value, error) {
	marker, err := d.readByte()
	if err != nil {
		return nil, err
	}
	return d.decode(marker)
}

func (d *Decoder) readByte() (byte, error) {
	if _, err := io.ReadFull(d.r, d.scratch[:1]); err != nil {
		return 0, err
	}
	return d.scratch[0], nil
}

func (d *Decoder) readFull(n int) ([]byte, error) {
	if _, err := io.ReadFull(d.r, d.scratch[:n]); err != nil {
		return nil, err
	}
	return d.scratch[:n], nil
}

// readLength reads the 1/2/4-byte big-endian count following a sized
// marker.
func (d *Decoder) readLength(width int) (int, error) {
	b, err := d.readFull(width)
	if err != nil {
		return 0, err
	}
	switch width {
	case 1:
		return int(b[0]), nil
	case 2:
		return int(binary.BigEndian.Uint16(b)), nil
	default:
		n := binary.BigEndian.Uint32(b)
		if uint64(n) > uint64(math.MaxInt32) {
			return 0, errors.WithCode(errors.CodeProtocolViolation, "Container length %d too large", n)
		}
		return int(n), nil
	}
}

func (d *Decoder) decode(marker byte) (value.Value, error) {
	switch {

	// NIL
	case marker == NilMarker:
		return value.Null{}, nil

	// BOOL
	case marker == TrueMarker:
		return value.Bool(true), nil
	case marker == FalseMarker:
		return value.Bool(false), nil

	// INT
	case marker <= 0x7F: // positive TINY_INT
		return value.Int(marker), nil
	case marker >= 0xF0: // negative TINY_INT
		return value.Int(int8(marker)), nil
	case marker == Int8Marker:
		b, err := d.readFull(1)
		if err != nil {
			return nil, err
		}
		return value.Int(int8(b[0])), nil
	case marker == Int16Marker:
		b, err := d.readFull(2)
		if err != nil {
			return nil, err
		}
		return value.Int(int16(binary.BigEndian.Uint16(b))), nil
	case marker == Int32Marker:
		b, err := d.readFull(4)
		if err != nil {
			return nil, err
		}
		return value.Int(int32(binary.BigEndian.Uint32(b))), nil
	case marker == Int64Marker:
		b, err := d.readFull(8)
		if err != nil {
			return nil, err
		}
		return value.Int(binary.BigEndian.Uint64(b)), nil

	// FLOAT
	case marker == FloatMarker:
		b, err := d.readFull(8)
		if err != nil {
			return nil, err
		}
		return value.Float(math.Float64frombits(binary.BigEndian.Uint64(b))), nil

	// STRING
	case marker >= TinyStringMarker && marker <= TinyStringMarker+0x0F:
		return d.decodeString(int(marker - TinyStringMarker))
	case marker == String8Marker:
		return d.decodeSized(1, d.decodeString)
	case marker == String16Marker:
		return d.decodeSized(2, d.decodeString)
	case marker == String32Marker:
		return d.decodeSized(4, d.decodeString)

	// BYTES
	case marker == Bytes8Marker:
		return d.decodeSized(1, d.decodeBytes)
	case marker == Bytes16Marker:
		return d.decodeSized(2, d.decodeBytes)
	case marker == Bytes32Marker:
		return d.decodeSized(4, d.decodeBytes)

	// LIST
	case marker >= TinyListMarker && marker <= TinyListMarker+0x0F:
		return d.decodeList(int(marker - TinyListMarker))
	case marker == List8Marker:
		return d.decodeSized(1, d.decodeList)
	case marker == List16Marker:
		return d.decodeSized(2, d.decodeList)
	case marker == List32Marker:
		return d.decodeSized(4, d.decodeList)

	// MAP
	case marker >= TinyMapMarker && marker <= TinyMapMarker+0x0F:
		return d.decodeMap(int(marker - TinyMapMarker))
	case marker == Map8Marker:
		return d.decodeSized(1, d.decodeMap)
	case marker == Map16Marker:
		return d.decodeSized(2, d.decodeMap)
	case marker == Map32Marker:
		return d.decodeSized(4, d.decodeMap)

	// STRUCTURES
	case marker >= TinyStructMarker && marker <= TinyStructMarker+0x0F:
		return d.decodeStruct(int(marker - TinyStructMarker))
	case marker == Struct8Marker:
		return d.decodeSized(1, d.decodeStruct)
	case marker == Struct16Marker:
		return d.decodeSized(2, d.decodeStruct)

	default:
		return nil, errors.WithCode(errors.CodeProtocolViolation, "Unrecognized marker byte: %02X", marker)
	}
}

func (d *Decoder) decodeSized(width int, fn func(int) (value.Value, error)) (value.Value, error) {
	size, err := d.readLength(width)
	if err != nil {
		return nil, err
	}
	return fn(size)
}

func (d *Decoder) decodeString(size int) (value.Value, error) {
	if size == 0 {
		return value.String(""), nil
	}
	buf := make([]byte, size)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, err
	}
	return value.String(buf), nil
}

func (d *Decoder) decodeBytes(size int) (value.Value, error) {
	buf := make([]byte, size)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, err
	}
	return value.Bytes(buf), nil
}

func (d *Decoder) decodeList(size int) (value.Value, error) {
	list := make(value.List, size)
	for i := 0; i < size; i++ {
		item, err := d.Decode()
		if err != nil {
			return nil, err
		}
		list[i] = item
	}
	return list, nil
}

func (d *Decoder) decodeMap(size int) (value.Value, error) {
	entries := make([]value.Entry, size)
	for i := 0; i < size; i++ {
		keyVal, err := d.Decode()
		if err != nil {
			return nil, err
		}
		key, ok := keyVal.(value.String)
		if !ok {
			return nil, errors.WithCode(errors.CodeInvalidMapKeyType, "Expected: map key string, but got %T %+v", keyVal, keyVal)
		}
		val, err := d.Decode()
		if err != nil {
			return nil, err
		}
		entries[i] = value.Entry{Key: string(key), Val: val}
	}
	return value.NewMap(entries...), nil
}

func (d *Decoder) decodeStruct(size int) (value.Value, error) {
	signature, err := d.readByte()
	if err != nil {
		return nil, err
	}
	fields := make([]value.Value, size)
	for i := 0; i < size; i++ {
		field, err := d.Decode()
		if err != nil {
			return nil, err
		}
		fields[i] = field
	}
	return hydrate(signature, fields)
}
