package value

import (
	"fmt"
	"time"
)

const (
	// LocalDateSignature is the signature byte for a LocalDate structure
	LocalDateSignature = 0x44
	// LocalTimeSignature is the signature byte for a LocalTime structure
	LocalTimeSignature = 0x74
	// LocalDateTimeSignature is the signature byte for a LocalDateTime structure
	LocalDateTimeSignature = 0x64
	// OffsetDateTimeSignature is the signature byte for a DateTime with a UTC offset
	OffsetDateTimeSignature = 0x46
	// ZonedDateTimeSignature is the signature byte for a DateTime with a zone name
	ZonedDateTimeSignature = 0x66
)

// LocalDate is a calendar date as days since the Unix epoch.
type LocalDate struct {
	EpochDays int64
}

func (LocalDate) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (d LocalDate) Signature() byte { return LocalDateSignature }

// StructFields gets the fields to encode for the struct
func (d LocalDate) StructFields() []Value { return []Value{Int(d.EpochDays)} }

func (d LocalDate) Equal(other Value) bool { return equalStructure(d, other) }

func (d LocalDate) String() string {
	return d.Time().Format("2006-01-02")
}

// Time converts to a time.Time at midnight UTC.
func (d LocalDate) Time() time.Time {
	return time.Unix(d.EpochDays*86400, 0).UTC()
}

// LocalTime is a wall-clock time as nanoseconds since midnight.
type LocalTime struct {
	Nanos int64
}

func (LocalTime) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (t LocalTime) Signature() byte { return LocalTimeSignature }

// StructFields gets the fields to encode for the struct
func (t LocalTime) StructFields() []Value { return []Value{Int(t.Nanos)} }

func (t LocalTime) Equal(other Value) bool { return equalStructure(t, other) }

func (t LocalTime) String() string {
	return fmt.Sprintf("%02d:%02d:%02d.%09d",
		t.Nanos/3600e9, t.Nanos/60e9%60, t.Nanos/1e9%60, t.Nanos%1e9)
}

// LocalDateTime is a date and wall-clock time without zone information,
// as seconds plus nanoseconds since the Unix epoch.
type LocalDateTime struct {
	Seconds int64
	Nanos   int64
}

func (LocalDateTime) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (t LocalDateTime) Signature() byte { return LocalDateTimeSignature }

// StructFields gets the fields to encode for the struct
func (t LocalDateTime) StructFields() []Value {
	return []Value{Int(t.Seconds), Int(t.Nanos)}
}

func (t LocalDateTime) Equal(other Value) bool { return equalStructure(t, other) }

func (t LocalDateTime) String() string {
	return t.Time().Format("2006-01-02T15:04:05.999999999")
}

// Time converts to a time.Time in UTC.
func (t LocalDateTime) Time() time.Time {
	return time.Unix(t.Seconds, t.Nanos).UTC()
}

// OffsetDateTime is an instant with a fixed UTC offset in seconds.
type OffsetDateTime struct {
	Seconds int64
	Nanos   int64
	Offset  int64
}

func (OffsetDateTime) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (t OffsetDateTime) Signature() byte { return OffsetDateTimeSignature }

// StructFields gets the fields to encode for the struct
func (t OffsetDateTime) StructFields() []Value {
	return []Value{Int(t.Seconds), Int(t.Nanos), Int(t.Offset)}
}

func (t OffsetDateTime) Equal(other Value) bool { return equalStructure(t, other) }

func (t OffsetDateTime) String() string {
	return t.Time().Format("2006-01-02T15:04:05.999999999Z07:00")
}

// Time converts to a time.Time in a fixed-offset zone.
func (t OffsetDateTime) Time() time.Time {
	return time.Unix(t.Seconds, t.Nanos).In(time.FixedZone("", int(t.Offset)))
}

// ZonedDateTime is an instant tagged with a named time zone.
type ZonedDateTime struct {
	Seconds int64
	Nanos   int64
	Zone    string
}

func (ZonedDateTime) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (t ZonedDateTime) Signature() byte { return ZonedDateTimeSignature }

// StructFields gets the fields to encode for the struct
func (t ZonedDateTime) StructFields() []Value {
	return []Value{Int(t.Seconds), Int(t.Nanos), String(t.Zone)}
}

func (t ZonedDateTime) Equal(other Value) bool { return equalStructure(t, other) }

func (t ZonedDateTime) String() string {
	return fmt.Sprintf("%s[%s]", t.Time().Format("2006-01-02T15:04:05.999999999"), t.Zone)
}

// Time converts to a time.Time, falling back to UTC when the zone name
// cannot be resolved on this host.
func (t ZonedDateTime) Time() time.Time {
	loc, err := time.LoadLocation(t.Zone)
	if err != nil {
		loc = time.UTC
	}
	return time.Unix(t.Seconds, t.Nanos).In(loc)
}
