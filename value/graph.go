package value

import (
	"fmt"

	"github.com/graphwire/bolt/errors"
)

const (
	// NodeSignature is the signature byte for a Node structure
	NodeSignature = 0x4E
	// RelationshipSignature is the signature byte for a Relationship structure
	RelationshipSignature = 0x52
	// UnboundRelationshipSignature is the signature byte for an UnboundRelationship structure
	UnboundRelationshipSignature = 0x72
	// PathSignature is the signature byte for a Path structure
	PathSignature = 0x50
)

// Node Represents a Node structure
type Node struct {
	Identity   int64
	Labels     []string
	Properties Map
}

func (Node) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (n Node) Signature() byte { return NodeSignature }

// StructFields gets the fields to encode for the struct
func (n Node) StructFields() []Value {
	return []Value{Int(n.Identity), stringList(n.Labels), n.Properties}
}

func (n Node) Equal(other Value) bool { return equalStructure(n, other) }

func (n Node) String() string {
	return fmt.Sprintf("Node<%d>%v%s", n.Identity, n.Labels, n.Properties)
}

// Relationship Represents a bound Relationship structure
type Relationship struct {
	Identity      int64
	StartIdentity int64
	EndIdentity   int64
	Type          string
	Properties    Map
}

func (Relationship) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (r Relationship) Signature() byte { return RelationshipSignature }

// StructFields gets the fields to encode for the struct
func (r Relationship) StructFields() []Value {
	return []Value{
		Int(r.Identity), Int(r.StartIdentity), Int(r.EndIdentity),
		String(r.Type), r.Properties,
	}
}

func (r Relationship) Equal(other Value) bool { return equalStructure(r, other) }

func (r Relationship) String() string {
	return fmt.Sprintf("Rel<%d>(%d)-[%s]->(%d)%s",
		r.Identity, r.StartIdentity, r.Type, r.EndIdentity, r.Properties)
}

// UnboundRelationship Represents a Relationship detached from its
// endpoints, as carried inside a Path
type UnboundRelationship struct {
	Identity   int64
	Type       string
	Properties Map
}

func (UnboundRelationship) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (r UnboundRelationship) Signature() byte { return UnboundRelationshipSignature }

// StructFields gets the fields to encode for the struct
func (r UnboundRelationship) StructFields() []Value {
	return []Value{Int(r.Identity), String(r.Type), r.Properties}
}

func (r UnboundRelationship) Equal(other Value) bool { return equalStructure(r, other) }

func (r UnboundRelationship) String() string {
	return fmt.Sprintf("UnboundRel<%d>[%s]%s", r.Identity, r.Type, r.Properties)
}

// Path Represents a Path structure: the visited nodes, the traversed
// relationships, and a sequence of alternating (relationship index, node
// index) pairs describing the walk. Relationship indices are 1-based and
// signed; a negative index means the relationship was traversed against
// its direction. Node indices are 0-based into Nodes.
type Path struct {
	Nodes         []Node
	Relationships []UnboundRelationship
	Sequence      []int64
}

// NewPath builds a Path, validating the sequence invariants.
func NewPath(nodes []Node, rels []UnboundRelationship, sequence []int64) (Path, error) {
	p := Path{Nodes: nodes, Relationships: rels, Sequence: sequence}
	if err := p.validate(); err != nil {
		return Path{}, err
	}
	return p, nil
}

func (p Path) validate() error {
	if len(p.Sequence)%2 != 0 {
		return errors.WithCode(errors.CodeInvalidPathSequenceLength,
			"Path sequence must have even length, got %d", len(p.Sequence))
	}
	for i := 0; i < len(p.Sequence); i += 2 {
		relIdx := p.Sequence[i]
		if relIdx == 0 {
			return errors.WithCode(errors.CodeInvalidPathSequenceIdxRange,
				"Path relationship index must be nonzero")
		}
		abs := relIdx
		if abs < 0 {
			abs = -abs
		}
		if abs > int64(len(p.Relationships)) {
			return errors.WithCode(errors.CodeInvalidPathSequenceIdxRange,
				"Path relationship index %d out of range for %d relationships", relIdx, len(p.Relationships))
		}
		nodeIdx := p.Sequence[i+1]
		if nodeIdx < 0 || nodeIdx >= int64(len(p.Nodes)) {
			return errors.WithCode(errors.CodeInvalidPathSequenceIdxRange,
				"Path node index %d out of range for %d nodes", nodeIdx, len(p.Nodes))
		}
	}
	return nil
}

func (Path) Kind() Kind { return KindStruct }

// Signature gets the signature byte for the struct
func (p Path) Signature() byte { return PathSignature }

// StructFields gets the fields to encode for the struct
func (p Path) StructFields() []Value {
	nodes := make(List, len(p.Nodes))
	for i, n := range p.Nodes {
		nodes[i] = n
	}
	rels := make(List, len(p.Relationships))
	for i, r := range p.Relationships {
		rels[i] = r
	}
	seq := make(List, len(p.Sequence))
	for i, s := range p.Sequence {
		seq[i] = Int(s)
	}
	return []Value{nodes, rels, seq}
}

func (p Path) Equal(other Value) bool { return equalStructure(p, other) }

func (p Path) String() string {
	return fmt.Sprintf("Path(%d nodes, %d rels)", len(p.Nodes), len(p.Relationships))
}
