package value

import "fmt"

const (
	// Point2DSignature is the signature byte for a 2D point structure
	Point2DSignature = 0x58
	// Point3DSignature is the signature byte for a 3D point structure
	Point3DSignature = 0x59
)

// Point2D is a point in a 2-dimensional coordinate reference system
// identified by SRID.
type Point2D struct {
	SRID uint32
	X, Y float64
}

func (Point2D) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (p Point2D) Signature() byte { return Point2DSignature }

// StructFields gets the fields to encode for the struct
func (p Point2D) StructFields() []Value {
	return []Value{Int(p.SRID), Float(p.X), Float(p.Y)}
}

func (p Point2D) Equal(other Value) bool { return equalStructure(p, other) }

func (p Point2D) String() string {
	return fmt.Sprintf("Point2D(srid=%d, %g, %g)", p.SRID, p.X, p.Y)
}

// Point3D is a point in a 3-dimensional coordinate reference system.
type Point3D struct {
	SRID    uint32
	X, Y, Z float64
}

func (Point3D) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (p Point3D) Signature() byte { return Point3DSignature }

// StructFields gets the fields to encode for the struct
func (p Point3D) StructFields() []Value {
	return []Value{Int(p.SRID), Float(p.X), Float(p.Y), Float(p.Z)}
}

func (p Point3D) Equal(other Value) bool { return equalStructure(p, other) }

func (p Point3D) String() string {
	return fmt.Sprintf("Point3D(srid=%d, %g, %g, %g)", p.SRID, p.X, p.Y, p.Z)
}
