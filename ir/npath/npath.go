package npath

import (
	"bytes"
	"strconv"
)

// Segment is one step of a walk from a root to a node. Exactly one of
// the pointer fields is set.
type Segment struct {
	FieldName *string
	IndexPos  *int
	KeyRepr   *string
	AttrName  *string
}

// Field returns a segment entering the named field of a composite.
func Field(name string) Segment {
	return Segment{FieldName: &name}
}

// Index returns a segment entering position i of a sequence.
func Index(i int) Segment {
	return Segment{IndexPos: &i}
}

// Key returns a segment entering the value stored under the mapping key
// whose canonical string form is k (see ir.KeyString).
func Key(k string) Segment {
	return Segment{KeyRepr: &k}
}

// Attr returns a segment naming a logical attribute alias, such as
// "value" on a boxed scalar.
func Attr(name string) Segment {
	return Segment{AttrName: &name}
}

// IsAttr reports whether the segment is an attribute alias.
func (s Segment) IsAttr() bool { return s.AttrName != nil }

// String returns the canonical text of this single segment.
func (s Segment) String() string {
	switch {
	case s.FieldName != nil:
		return "." + quoteIfNeeded(*s.FieldName)
	case s.IndexPos != nil:
		return "[" + strconv.Itoa(*s.IndexPos) + "]"
	case s.KeyRepr != nil:
		// All-digit keys are quoted so they re-parse as keys, not indices.
		if allDigits(*s.KeyRepr) {
			return "[" + strconv.Quote(*s.KeyRepr) + "]"
		}
		return "[" + quoteIfNeeded(*s.KeyRepr) + "]"
	case s.AttrName != nil:
		return "." + quoteIfNeeded(*s.AttrName)
	}
	return ""
}

// Path is an ordered sequence of segments. The empty path denotes the
// tree root. A Path value is treated as immutable: With copies.
type Path []Segment

// With returns a new path extending p by seg. The receiver is not
// modified, so paths built during a traversal can be shared freely.
func (p Path) With(seg Segment) Path {
	res := make(Path, len(p), len(p)+1)
	copy(res, p)
	return append(res, seg)
}

// Parent returns the path with its last segment removed. The parent of
// the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return p
	}
	return p[:len(p)-1]
}

// String renders the path in dotted/bracketed notation, e.g.
// "<root>.buffer_map[b].shape[1].value".
func (p Path) String() string {
	buf := bytes.NewBufferString("<root>")
	for _, seg := range p {
		buf.WriteString(seg.String())
	}
	return buf.String()
}

// Equal reports whether p and q denote the same address. Attr and Field
// segments with the same name are considered equal: which of the two a
// producer uses depends only on whether it knows the target is a boxed
// scalar.
func (p Path) Equal(q Path) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if !segEqual(p[i], q[i]) {
			return false
		}
	}
	return true
}

func segEqual(a, b Segment) bool {
	an, aok := a.name()
	bn, bok := b.name()
	if aok != bok {
		return false
	}
	if aok {
		return an == bn
	}
	switch {
	case a.IndexPos != nil:
		return b.IndexPos != nil && *a.IndexPos == *b.IndexPos
	case a.KeyRepr != nil:
		return b.KeyRepr != nil && *a.KeyRepr == *b.KeyRepr
	}
	return b.IndexPos == nil && b.KeyRepr == nil
}

func (s Segment) name() (string, bool) {
	if s.FieldName != nil {
		return *s.FieldName, true
	}
	if s.AttrName != nil {
		return *s.AttrName, true
	}
	return "", false
}

func quoteIfNeeded(v string) string {
	if !needsQuote(v) {
		return v
	}
	return strconv.Quote(v)
}

func allDigits(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func needsQuote(v string) bool {
	if v == "" {
		return true
	}
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return true
		}
	}
	return false
}
