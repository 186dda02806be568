package ir

// Type discriminates the structural category of a node.
type Type int

const (
	LeafType Type = iota
	CompositeType
	SequenceType
	MappingType
)

func (t Type) String() string {
	switch t {
	case LeafType:
		return "leaf"
	case CompositeType:
		return "composite"
	case SequenceType:
		return "sequence"
	case MappingType:
		return "mapping"
	}
	return "unknown"
}

// Scalar discriminates the value kind of a leaf node.
type Scalar int

const (
	IntScalar Scalar = iota
	FloatScalar
	StringScalar
	BoolScalar
	HandleScalar
)

func (s Scalar) String() string {
	switch s {
	case IntScalar:
		return "int"
	case FloatScalar:
		return "float"
	case StringScalar:
		return "string"
	case BoolScalar:
		return "bool"
	case HandleScalar:
		return "handle"
	}
	return "unknown"
}
