package ir

import (
	"fmt"
	"strconv"
)

// Node is a single value in an IR tree. The Type field discriminates
// which of the remaining fields are meaningful:
//
//   - LeafType: Scalar plus one of Int64/Float64/Str/Bool/Handle
//   - CompositeType: Kind plus Fields (names) parallel to Values
//   - SequenceType: Values
//   - MappingType: Keys parallel to Values
type Node struct {
	id NodeID

	Type Type

	// Composite
	Kind   string
	Fields []string

	// Mapping
	Keys []*Node

	// Composite, Sequence, Mapping
	Values []*Node

	// Leaf
	Scalar  Scalar
	Int64   *int64
	Float64 *float64
	Str     string
	Bool    bool
	Handle  string
}

// ID returns the node's identity handle. It is zero only for nodes not
// built through this package's constructors.
func (n *Node) ID() NodeID { return n.id }

func FromInt(v int64) *Node {
	return &Node{id: newID(), Type: LeafType, Scalar: IntScalar, Int64: &v}
}

func FromFloat(v float64) *Node {
	return &Node{id: newID(), Type: LeafType, Scalar: FloatScalar, Float64: &v}
}

func FromString(v string) *Node {
	return &Node{id: newID(), Type: LeafType, Scalar: StringScalar, Str: v}
}

func FromBool(v bool) *Node {
	return &Node{id: newID(), Type: LeafType, Scalar: BoolScalar, Bool: v}
}

// FromHandle returns a leaf holding an opaque handle token.
func FromHandle(v string) *Node {
	return &Node{id: newID(), Type: LeafType, Scalar: HandleScalar, Handle: v}
}

// Field pairs a composite field name with its value.
type Field struct {
	Name  string
	Value *Node
}

// NewComposite returns a composite node of the given kind. Field order
// as stored is insertion order; the comparator and renderer always
// iterate in the schema-defined canonical order for the kind, so callers
// may list fields in any order.
func NewComposite(kind string, fields []Field) *Node {
	res := &Node{id: newID(), Type: CompositeType, Kind: kind}
	res.Fields = make([]string, len(fields))
	res.Values = make([]*Node, len(fields))
	for i, f := range fields {
		res.Fields[i] = f.Name
		res.Values[i] = f.Value
	}
	return res
}

func NewSequence(elems []*Node) *Node {
	return &Node{id: newID(), Type: SequenceType, Values: elems}
}

// KeyVal is one entry of a mapping.
type KeyVal struct {
	Key *Node
	Val *Node
}

func NewMapping(entries []KeyVal) *Node {
	res := &Node{id: newID(), Type: MappingType}
	res.Keys = make([]*Node, len(entries))
	res.Values = make([]*Node, len(entries))
	for i, kv := range entries {
		res.Keys[i] = kv.Key
		res.Values[i] = kv.Val
	}
	return res
}

// Var builds a variable composite, the kind used for binding positions.
// dtype may be empty.
func Var(name, dtype string) *Node {
	return NewComposite("var", []Field{
		{Name: "name", Value: FromString(name)},
		{Name: "dtype", Value: FromString(dtype)},
	})
}

// Get returns the value of the named field of a composite, or nil.
func Get(n *Node, field string) *Node {
	if n == nil || n.Type != CompositeType {
		return nil
	}
	for i, f := range n.Fields {
		if f == field {
			return n.Values[i]
		}
	}
	return nil
}

// KeyString returns the canonical string form of a node used as a
// mapping key: the scalar literal for leaves, the name field for named
// composites (vars, buffers), and a structural hash otherwise. Key
// segments of node paths carry this form.
func KeyString(n *Node) string {
	switch n.Type {
	case LeafType:
		return ScalarString(n)
	case CompositeType:
		if name := Get(n, "name"); name != nil && name.Type == LeafType && name.Scalar == StringScalar {
			return name.Str
		}
	}
	return fmt.Sprintf("#%016x", Hash(n))
}

// ScalarString formats a leaf's value. Floats keep a decimal point so
// that 1.0 and 1 stay distinguishable in paths and rendered text.
func ScalarString(n *Node) string {
	switch n.Scalar {
	case IntScalar:
		if n.Int64 == nil {
			return "0"
		}
		return strconv.FormatInt(*n.Int64, 10)
	case FloatScalar:
		if n.Float64 == nil {
			return "0.0"
		}
		v := strconv.FormatFloat(*n.Float64, 'f', -1, 64)
		if v == "0" || v == "-0" {
			v = "0.0"
		}
		return v
	case StringScalar:
		return n.Str
	case BoolScalar:
		return strconv.FormatBool(n.Bool)
	case HandleScalar:
		return n.Handle
	}
	return ""
}

// Visit walks the tree pre- and post-order: f is called with isPost
// false before descending and true after. Returning dive=false skips
// the children. Shared nodes are visited once per use-site.
func (n *Node) Visit(f func(n *Node, isPost bool) (bool, error)) error {
	dive, err := f(n, false)
	if err != nil {
		return err
	}
	if dive {
		for _, k := range n.Keys {
			if err := k.Visit(f); err != nil {
				return err
			}
		}
		for _, v := range n.Values {
			if err := v.Visit(f); err != nil {
				return err
			}
		}
	}
	_, err = f(n, true)
	return err
}
