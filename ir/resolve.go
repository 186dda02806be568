package ir

import (
	"fmt"

	"github.com/tensorir/go-tir/debug"
	"github.com/tensorir/go-tir/ir/npath"
)

// PathError reports the first segment of a path that could not be
// applied. Prefix is the number of segments that resolved, so callers
// can report "valid up to here".
type PathError struct {
	Path   npath.Path
	Prefix int
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("%v: %s at segment %d of %s (valid prefix %s)",
		ErrPathNotFound, e.Reason, e.Prefix, e.Path, npath.Path(e.Path[:e.Prefix]))
}

func (e *PathError) Unwrap() error { return ErrPathNotFound }

// Resolve applies each segment of the path starting at root and returns
// the addressed node. It never mutates root. On failure it returns a
// *PathError wrapping ErrPathNotFound.
//
// Attribute segments behave as field access on composites; on a leaf,
// the "value" attribute addresses the leaf's own boxed value and
// resolves to the leaf itself. A plain field segment named "value" is
// accepted the same way, since the serialized notation does not
// distinguish the two.
func Resolve(root *Node, p npath.Path) (*Node, error) {
	cur := root
	for i, seg := range p {
		next, reason := apply(cur, seg)
		if next == nil {
			if debug.Resolve() {
				debug.Logf("resolve: %s: %s at segment %d\n", p, reason, i)
			}
			return nil, &PathError{Path: p, Prefix: i, Reason: reason}
		}
		cur = next
	}
	return cur, nil
}

func apply(n *Node, seg npath.Segment) (*Node, string) {
	switch {
	case seg.FieldName != nil, seg.AttrName != nil:
		name, _ := segName(seg)
		if n.Type == LeafType && name == "value" {
			return n, ""
		}
		if n.Type != CompositeType {
			return nil, fmt.Sprintf("%s has no field %q", n.Type, name)
		}
		if v := Get(n, name); v != nil {
			return v, ""
		}
		return nil, fmt.Sprintf("composite %q has no field %q", n.Kind, name)

	case seg.IndexPos != nil:
		i := *seg.IndexPos
		if n.Type != SequenceType {
			return nil, fmt.Sprintf("%s is not indexable", n.Type)
		}
		if i < 0 || i >= len(n.Values) {
			return nil, fmt.Sprintf("index %d out of bounds (len %d)", i, len(n.Values))
		}
		return n.Values[i], ""

	case seg.KeyRepr != nil:
		k := *seg.KeyRepr
		if n.Type != MappingType {
			return nil, fmt.Sprintf("%s has no keys", n.Type)
		}
		for i, key := range n.Keys {
			if KeyString(key) == k {
				return n.Values[i], ""
			}
		}
		return nil, fmt.Sprintf("no entry for key %q", k)
	}
	return nil, "empty segment"
}

func segName(seg npath.Segment) (string, bool) {
	if seg.FieldName != nil {
		return *seg.FieldName, true
	}
	if seg.AttrName != nil {
		return *seg.AttrName, true
	}
	return "", false
}
