// Package encoding maps values to and from the self-describing binary
// format of the wire protocol. The first byte of every encoded value is a
// marker carrying the type and, for small values, the magnitude or length
// inline; framing is left to the chunk layer underneath.
package encoding

const (
	// NilMarker represents the encoding marker byte for a nil object
	NilMarker = 0xC0

	// TrueMarker represents the encoding marker byte for a true boolean object
	TrueMarker = 0xC3
	// FalseMarker represents the encoding marker byte for a false boolean object
	FalseMarker = 0xC2

	// Int8Marker represents the encoding marker byte for an int8 object
	Int8Marker = 0xC8
	// Int16Marker represents the encoding marker byte for an int16 object
	Int16Marker = 0xC9
	// Int32Marker represents the encoding marker byte for an int32 object
	Int32Marker = 0xCA
	// Int64Marker represents the encoding marker byte for an int64 object
	Int64Marker = 0xCB

	// FloatMarker represents the encoding marker byte for a float object
	FloatMarker = 0xC1

	// TinyStringMarker represents the encoding marker byte for a tiny string object
	TinyStringMarker = 0x80
	// String8Marker represents the encoding marker byte for a string object
	String8Marker = 0xD0
	// String16Marker represents the encoding marker byte for a string object
	String16Marker = 0xD1
	// String32Marker represents the encoding marker byte for a string object
	String32Marker = 0xD2

	// Bytes8Marker represents the encoding marker byte for a byte array object
	Bytes8Marker = 0xCC
	// Bytes16Marker represents the encoding marker byte for a byte array object
	Bytes16Marker = 0xCD
	// Bytes32Marker represents the encoding marker byte for a byte array object
	Bytes32Marker = 0xCE

	// TinyListMarker represents the encoding marker byte for a tiny list object
	TinyListMarker = 0x90
	// List8Marker represents the encoding marker byte for a list object
	List8Marker = 0xD4
	// List16Marker represents the encoding marker byte for a list object
	List16Marker = 0xD5
	// List32Marker represents the encoding marker byte for a list object
	List32Marker = 0xD6

	// TinyMapMarker represents the encoding marker byte for a tiny map object
	TinyMapMarker = 0xA0
	// Map8Marker represents the encoding marker byte for a map object
	Map8Marker = 0xD8
	// Map16Marker represents the encoding marker byte for a map object
	Map16Marker = 0xD9
	// Map32Marker represents the encoding marker byte for a map object
	Map32Marker = 0xDA

	// TinyStructMarker represents the encoding marker byte for a tiny struct object
	TinyStructMarker = 0xB0
	// Struct8Marker represents the encoding marker byte for a struct object
	Struct8Marker = 0xDC
	// Struct16Marker represents the encoding marker byte for a struct object
	Struct16Marker = 0xDD
)
