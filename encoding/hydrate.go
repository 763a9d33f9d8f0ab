package encoding

import (
	"github.com/graphwire/bolt/errors"
	"github.com/graphwire/bolt/value"
)

// hydrate turns a decoded struct into its typed form when the signature
// is known, validating field counts and types strictly. Unknown
// signatures pass through as a generic struct.
func hydrate(signature byte, fields []value.Value) (value.Value, error) {
	switch signature {
	case value.NodeSignature:
		return hydrateNode(fields)
	case value.RelationshipSignature:
		return hydrateRelationship(fields)
	case value.UnboundRelationshipSignature:
		return hydrateUnboundRelationship(fields)
	case value.PathSignature:
		return hydratePath(fields)
	case value.Point2DSignature:
		return hydratePoint2D(fields)
	case value.Point3DSignature:
		return hydratePoint3D(fields)
	case value.LocalDateSignature:
		return hydrateLocalDate(fields)
	case value.LocalTimeSignature:
		return hydrateLocalTime(fields)
	case value.LocalDateTimeSignature:
		return hydrateLocalDateTime(fields)
	case value.OffsetDateTimeSignature:
		return hydrateOffsetDateTime(fields)
	case value.ZonedDateTimeSignature:
		return hydrateZonedDateTime(fields)
	default:
		return value.Struct{Sig: signature, Fields: fields}, nil
	}
}

func fieldCount(signature byte, fields []value.Value, want int) error {
	if len(fields) != want {
		return errors.WithCode(errors.CodeProtocolViolation,
			"Structure %02X expects %d fields, got %d", signature, want, len(fields))
	}
	return nil
}

func expectInt(v value.Value, what string) (int64, error) {
	i, ok := v.(value.Int)
	if !ok {
		return 0, errors.WithCode(errors.CodeProtocolViolation, "Expected: %s int, but got %T %+v", what, v, v)
	}
	return int64(i), nil
}

func expectFloat(v value.Value, what string) (float64, error) {
	f, ok := v.(value.Float)
	if !ok {
		return 0, errors.WithCode(errors.CodeProtocolViolation, "Expected: %s float, but got %T %+v", what, v, v)
	}
	return float64(f), nil
}

func expectString(v value.Value, what string) (string, error) {
	s, ok := v.(value.String)
	if !ok {
		return "", errors.WithCode(errors.CodeProtocolViolation, "Expected: %s string, but got %T %+v", what, v, v)
	}
	return string(s), nil
}

func expectMap(v value.Value, what string) (value.Map, error) {
	m, ok := v.(value.Map)
	if !ok {
		return value.Map{}, errors.WithCode(errors.CodeProtocolViolation, "Expected: %s map, but got %T %+v", what, v, v)
	}
	return m, nil
}

func expectList(v value.Value, what string) (value.List, error) {
	l, ok := v.(value.List)
	if !ok {
		return nil, errors.WithCode(errors.CodeProtocolViolation, "Expected: %s list, but got %T %+v", what, v, v)
	}
	return l, nil
}

func hydrateNode(fields []value.Value) (value.Value, error) {
	if err := fieldCount(value.NodeSignature, fields, 3); err != nil {
		return nil, err
	}
	identity, err := expectInt(fields[0], "Node identity")
	if err != nil {
		return nil, err
	}
	labelList, err := expectList(fields[1], "Node labels")
	if err != nil {
		return nil, errors.WrapCode(err, errors.CodeInvalidLabelType, "Node labels field is not a list")
	}
	labels := make([]string, len(labelList))
	for i, l := range labelList {
		s, ok := l.(value.String)
		if !ok {
			return nil, errors.WithCode(errors.CodeInvalidLabelType, "Expected: label string, but got %T %+v", l, l)
		}
		labels[i] = string(s)
	}
	properties, err := expectMap(fields[2], "Node properties")
	if err != nil {
		return nil, err
	}
	return value.Node{Identity: identity, Labels: labels, Properties: properties}, nil
}

func hydrateRelationship(fields []value.Value) (value.Value, error) {
	if err := fieldCount(value.RelationshipSignature, fields, 5); err != nil {
		return nil, err
	}
	identity, err := expectInt(fields[0], "Relationship identity")
	if err != nil {
		return nil, err
	}
	start, err := expectInt(fields[1], "Relationship start identity")
	if err != nil {
		return nil, err
	}
	end, err := expectInt(fields[2], "Relationship end identity")
	if err != nil {
		return nil, err
	}
	typ, err := expectString(fields[3], "Relationship type")
	if err != nil {
		return nil, err
	}
	properties, err := expectMap(fields[4], "Relationship properties")
	if err != nil {
		return nil, err
	}
	return value.Relationship{
		Identity: identity, StartIdentity: start, EndIdentity: end,
		Type: typ, Properties: properties,
	}, nil
}

func hydrateUnboundRelationship(fields []value.Value) (value.Value, error) {
	if err := fieldCount(value.UnboundRelationshipSignature, fields, 3); err != nil {
		return nil, err
	}
	identity, err := expectInt(fields[0], "Relationship identity")
	if err != nil {
		return nil, err
	}
	typ, err := expectString(fields[1], "Relationship type")
	if err != nil {
		return nil, err
	}
	properties, err := expectMap(fields[2], "Relationship properties")
	if err != nil {
		return nil, err
	}
	return value.UnboundRelationship{Identity: identity, Type: typ, Properties: properties}, nil
}

func hydratePath(fields []value.Value) (value.Value, error) {
	if err := fieldCount(value.PathSignature, fields, 3); err != nil {
		return nil, err
	}
	nodeList, err := expectList(fields[0], "Path nodes")
	if err != nil {
		return nil, err
	}
	nodes := make([]value.Node, len(nodeList))
	for i, n := range nodeList {
		node, ok := n.(value.Node)
		if !ok {
			return nil, errors.WithCode(errors.CodeInvalidPathNodeType, "Expected: Path node, but got %T %+v", n, n)
		}
		nodes[i] = node
	}
	relList, err := expectList(fields[1], "Path relationships")
	if err != nil {
		return nil, err
	}
	rels := make([]value.UnboundRelationship, len(relList))
	for i, r := range relList {
		rel, ok := r.(value.UnboundRelationship)
		if !ok {
			return nil, errors.WithCode(errors.CodeInvalidPathRelationshipType, "Expected: Path relationship, but got %T %+v", r, r)
		}
		rels[i] = rel
	}
	seqList, err := expectList(fields[2], "Path sequence")
	if err != nil {
		return nil, err
	}
	sequence := make([]int64, len(seqList))
	for i, s := range seqList {
		idx, ok := s.(value.Int)
		if !ok {
			return nil, errors.WithCode(errors.CodeInvalidPathSequenceIdxType, "Expected: Path sequence int, but got %T %+v", s, s)
		}
		sequence[i] = int64(idx)
	}
	return value.NewPath(nodes, rels, sequence)
}

func hydratePoint2D(fields []value.Value) (value.Value, error) {
	if err := fieldCount(value.Point2DSignature, fields, 3); err != nil {
		return nil, err
	}
	srid, err := expectInt(fields[0], "Point srid")
	if err != nil {
		return nil, err
	}
	x, err := expectFloat(fields[1], "Point x")
	if err != nil {
		return nil, err
	}
	y, err := expectFloat(fields[2], "Point y")
	if err != nil {
		return nil, err
	}
	return value.Point2D{SRID: uint32(srid), X: x, Y: y}, nil
}

func hydratePoint3D(fields []value.Value) (value.Value, error) {
	if err := fieldCount(value.Point3DSignature, fields, 4); err != nil {
		return nil, err
	}
	srid, err := expectInt(fields[0], "Point srid")
	if err != nil {
		return nil, err
	}
	x, err := expectFloat(fields[1], "Point x")
	if err != nil {
		return nil, err
	}
	y, err := expectFloat(fields[2], "Point y")
	if err != nil {
		return nil, err
	}
	z, err := expectFloat(fields[3], "Point z")
	if err != nil {
		return nil, err
	}
	return value.Point3D{SRID: uint32(srid), X: x, Y: y, Z: z}, nil
}

func hydrateLocalDate(fields []value.Value) (value.Value, error) {
	if err := fieldCount(value.LocalDateSignature, fields, 1); err != nil {
		return nil, err
	}
	days, err := expectInt(fields[0], "LocalDate days")
	if err != nil {
		return nil, err
	}
	return value.LocalDate{EpochDays: days}, nil
}

func hydrateLocalTime(fields []value.Value) (value.Value, error) {
	if err := fieldCount(value.LocalTimeSignature, fields, 1); err != nil {
		return nil, err
	}
	nanos, err := expectInt(fields[0], "LocalTime nanoseconds")
	if err != nil {
		return nil, err
	}
	return value.LocalTime{Nanos: nanos}, nil
}

func hydrateLocalDateTime(fields []value.Value) (value.Value, error) {
	if err := fieldCount(value.LocalDateTimeSignature, fields, 2); err != nil {
		return nil, err
	}
	seconds, err := expectInt(fields[0], "LocalDateTime seconds")
	if err != nil {
		return nil, err
	}
	nanos, err := expectInt(fields[1], "LocalDateTime nanoseconds")
	if err != nil {
		return nil, err
	}
	return value.LocalDateTime{Seconds: seconds, Nanos: nanos}, nil
}

func hydrateOffsetDateTime(fields []value.Value) (value.Value, error) {
	if err := fieldCount(value.OffsetDateTimeSignature, fields, 3); err != nil {
		return nil, err
	}
	seconds, err := expectInt(fields[0], "DateTime seconds")
	if err != nil {
		return nil, err
	}
	nanos, err := expectInt(fields[1], "DateTime nanoseconds")
	if err != nil {
		return nil, err
	}
	offset, err := expectInt(fields[2], "DateTime offset")
	if err != nil {
		return nil, err
	}
	return value.OffsetDateTime{Seconds: seconds, Nanos: nanos, Offset: offset}, nil
}

func hydrateZonedDateTime(fields []value.Value) (value.Value, error) {
	if err := fieldCount(value.ZonedDateTimeSignature, fields, 3); err != nil {
		return nil, err
	}
	seconds, err := expectInt(fields[0], "DateTime seconds")
	if err != nil {
		return nil, err
	}
	nanos, err := expectInt(fields[1], "DateTime nanoseconds")
	if err != nil {
		return nil, err
	}
	zone, err := expectString(fields[2], "DateTime zone")
	if err != nil {
		return nil, err
	}
	return value.ZonedDateTime{Seconds: seconds, Nanos: nanos, Zone: zone}, nil
}
