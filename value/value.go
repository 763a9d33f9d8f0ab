// Package value models the tagged values carried by the wire protocol: a
// closed union over null, booleans, 64-bit integers, floats, strings,
// byte arrays, lists, ordered maps and signed structures, plus the typed
// extension structures (graph, spatial and temporal types) built on the
// structure form.
package value

import (
	"fmt"
	"strings"
)

// Kind identifies the variant a Value holds.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindBytes
	KindList
	KindMap
	KindStruct
)

// Value is the closed union of wire value variants. Values are immutable
// once constructed; containers never alias caller buffers after decode.
type Value interface {
	Kind() Kind
	// Equal reports structural equality with another value.
	Equal(other Value) bool
	fmt.Stringer
}

// Null is the absent value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) Equal(other Value) bool {
	_, ok := other.(Null)
	return ok
}
func (Null) String() string { return "null" }

// Bool is a boolean value.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (v Bool) Equal(other Value) bool {
	o, ok := other.(Bool)
	return ok && o == v
}
func (v Bool) String() string { return fmt.Sprintf("%t", bool(v)) }

// Int is a 64-bit signed integer; narrower wire encodings widen to it.
type Int int64

func (Int) Kind() Kind { return KindInt }
func (v Int) Equal(other Value) bool {
	o, ok := other.(Int)
	return ok && o == v
}
func (v Int) String() string { return fmt.Sprintf("%d", int64(v)) }

// Float is an IEEE 754 double.
type Float float64

func (Float) Kind() Kind { return KindFloat }
func (v Float) Equal(other Value) bool {
	o, ok := other.(Float)
	return ok && o == v
}
func (v Float) String() string { return fmt.Sprintf("%g", float64(v)) }

// String is a UTF-8 string value.
type String string

func (String) Kind() Kind { return KindString }
func (v String) Equal(other Value) bool {
	o, ok := other.(String)
	return ok && o == v
}
func (v String) String() string { return fmt.Sprintf("%q", string(v)) }

// Bytes is a raw byte array value.
type Bytes []byte

func (Bytes) Kind() Kind { return KindBytes }
func (v Bytes) Equal(other Value) bool {
	o, ok := other.(Bytes)
	if !ok || len(o) != len(v) {
		return false
	}
	for i := range v {
		if v[i] != o[i] {
			return false
		}
	}
	return true
}
func (v Bytes) String() string { return fmt.Sprintf("#%x", []byte(v)) }

// List is an ordered sequence of values.
type List []Value

func (List) Kind() Kind { return KindList }
func (v List) Equal(other Value) bool {
	o, ok := other.(List)
	if !ok || len(o) != len(v) {
		return false
	}
	for i := range v {
		if !v[i].Equal(o[i]) {
			return false
		}
	}
	return true
}
func (v List) String() string {
	items := make([]string, len(v))
	for i, item := range v {
		items[i] = item.String()
	}
	return "[" + strings.Join(items, ", ") + "]"
}

// Entry is one key/value pair of a Map.
type Entry struct {
	Key string
	Val Value
}

// Map is a sequence of string-keyed entries. Insertion order is
// preserved on the wire and keys may repeat in storage; lookup returns
// the first match. Keys are strings by construction, so an ill-keyed map
// can only arrive from the wire, where the decoder rejects it.
type Map struct {
	entries []Entry
}

// NewMap builds a map from entries in order.
func NewMap(entries ...Entry) Map {
	return Map{entries: entries}
}

func (Map) Kind() Kind { return KindMap }

// Len returns the number of stored entries.
func (m Map) Len() int { return len(m.entries) }

// Entries returns the stored entries in insertion order.
func (m Map) Entries() []Entry { return m.entries }

// Get returns the first value stored under key.
func (m Map) Get(key string) (Value, bool) {
	for _, e := range m.entries {
		if e.Key == key {
			return e.Val, true
		}
	}
	return nil, false
}

// Add appends an entry, returning the extended map.
func (m Map) Add(key string, val Value) Map {
	return Map{entries: append(m.entries[:len(m.entries):len(m.entries)], Entry{Key: key, Val: val})}
}

func (m Map) Equal(other Value) bool {
	o, ok := other.(Map)
	if !ok || len(o.entries) != len(m.entries) {
		return false
	}
	for i, e := range m.entries {
		if o.entries[i].Key != e.Key || !o.entries[i].Val.Equal(e.Val) {
			return false
		}
	}
	return true
}

func (m Map) String() string {
	items := make([]string, len(m.entries))
	for i, e := range m.entries {
		items[i] = fmt.Sprintf("%q: %s", e.Key, e.Val)
	}
	return "{" + strings.Join(items, ", ") + "}"
}

// Structure is implemented by every value transported in the signed
// structure form: the generic Struct and each typed extension.
type Structure interface {
	Value
	Signature() byte
	StructFields() []Value
}

// Struct is a generic signed structure. Known signatures decode into the
// typed extension values; unknown ones land here so forward-compatible
// callers still see the fields.
type Struct struct {
	Sig    byte
	Fields []Value
}

func (Struct) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (s Struct) Signature() byte { return s.Sig }

// StructFields gets the fields to encode for the struct
func (s Struct) StructFields() []Value { return s.Fields }

func (s Struct) Equal(other Value) bool {
	return equalStructure(s, other)
}

func (s Struct) String() string {
	return fmt.Sprintf("Struct<%02X>%s", s.Sig, List(s.Fields))
}

// stringList converts labels and the like for structure encoding.
func stringList(vals []string) List {
	out := make(List, len(vals))
	for i, v := range vals {
		out[i] = String(v)
	}
	return out
}

// equalStructure compares two typed structures by signature and fields.
func equalStructure(a Structure, b Value) bool {
	o, ok := b.(Structure)
	if !ok || o.Signature() != a.Signature() {
		return false
	}
	return List(a.StructFields()).Equal(List(o.StructFields()))
}
