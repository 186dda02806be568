package render

import (
	"sort"
	"strconv"

	"github.com/tensorir/go-tir/ir"
	"github.com/tensorir/go-tir/ir/npath"
)

// expr prints n inline at the current position and records its span.
func (s *state) expr(n *ir.Node) error {
	if n == nil {
		s.emit("_")
		return nil
	}
	mk := s.mark()
	if err := s.exprInner(n); err != nil {
		return err
	}
	s.record(n, mk)
	return nil
}

func (s *state) exprInner(n *ir.Node) error {
	switch n.Type {
	case ir.LeafType:
		if n.Scalar == ir.StringScalar {
			s.emit(strconv.Quote(n.Str))
		} else {
			s.emit(ir.ScalarString(n))
		}
		return nil

	case ir.SequenceType:
		s.emit("[")
		if err := s.commaList(n); err != nil {
			return err
		}
		s.emit("]")
		return nil

	case ir.MappingType:
		s.emit("{")
		for i, e := range sortedEntries(n) {
			if i > 0 {
				s.sep()
			}
			s.keyOccurrence(e.key, e.ks)
			s.emit(" -> ")
			s.push(npath.Key(e.ks))
			if err := s.expr(e.val); err != nil {
				s.pop()
				return err
			}
			s.pop()
		}
		s.emit("}")
		return nil

	case ir.CompositeType:
		return s.compositeExpr(n)
	}
	return nil
}

func (s *state) compositeExpr(n *ir.Node) error {
	switch n.Kind {
	case "var":
		s.emit(varName(n))
		return nil

	case "buffer":
		s.emit("buffer(")
		if name := ir.Get(n, "name"); name != nil {
			s.push(npath.Field("name"))
			mk := s.mark()
			s.emit(ir.ScalarString(name))
			s.record(name, mk)
			s.pop()
		}
		s.emit(", ")
		if dt := ir.Get(n, "dtype"); dt != nil {
			s.push(npath.Field("dtype"))
			mk := s.mark()
			s.emit(ir.ScalarString(dt))
			s.record(dt, mk)
			s.pop()
		}
		s.emit(", ")
		if err := s.exprField(n, "shape"); err != nil {
			return err
		}
		s.emit(")")
		return nil

	case "load":
		if buf := ir.Get(n, "buffer"); buf != nil {
			s.push(npath.Field("buffer"))
			s.bufferRef(buf)
			s.pop()
		}
		s.emit("[")
		if idx := ir.Get(n, "indices"); idx != nil {
			s.push(npath.Field("indices"))
			if err := s.commaList(idx); err != nil {
				s.pop()
				return err
			}
			s.pop()
		}
		s.emit("]")
		return nil

	case "call":
		if op := ir.Get(n, "op"); op != nil {
			s.push(npath.Field("op"))
			mk := s.mark()
			s.emit(ir.ScalarString(op))
			s.record(op, mk)
			s.pop()
		}
		s.emit("(")
		if args := ir.Get(n, "args"); args != nil {
			s.push(npath.Field("args"))
			if err := s.commaList(args); err != nil {
				s.pop()
				return err
			}
			s.pop()
		}
		s.emit(")")
		return nil
	}

	// Statement kinds in expression position and unknown kinds print in
	// a generic functional form, fields in canonical order.
	s.emit(n.Kind + "(")
	first := true
	for _, f := range s.fieldOrder(n) {
		v := ir.Get(n, f)
		if v == nil {
			continue
		}
		if !first {
			s.sep()
		}
		first = false
		s.emit(f + "=")
		s.push(npath.Field(f))
		if err := s.expr(v); err != nil {
			s.pop()
			return err
		}
		s.pop()
	}
	s.emit(")")
	return nil
}

// fieldOrder returns n's present fields in the schema's canonical order
// for its kind, falling back to insertion order for undeclared kinds.
func (s *state) fieldOrder(n *ir.Node) []string {
	def := s.cfg.reg.Lookup(n.Kind)
	if def == nil {
		return n.Fields
	}
	order := make([]string, 0, len(def.Fields))
	for _, f := range def.Fields {
		order = append(order, f.Name)
	}
	return order
}

// commaList prints a sequence's elements comma-separated without
// brackets, recording the sequence span over the elements.
func (s *state) commaList(seq *ir.Node) error {
	mk := s.mark()
	for i, el := range seq.Values {
		if i > 0 {
			s.sep()
		}
		s.push(npath.Index(i))
		if err := s.expr(el); err != nil {
			s.pop()
			return err
		}
		s.pop()
	}
	s.record(seq, mk)
	return nil
}

// sep emits the element separator, wrapping onto an indented
// continuation line when the configured width is exceeded.
func (s *state) sep() {
	s.emit(",")
	if s.cfg.lineWidth > 0 && s.col >= s.cfg.lineWidth {
		s.endLine()
		s.emit(spaces(2*s.depth + 4))
		return
	}
	s.emit(" ")
}

func spaces(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

type entry struct {
	ks       string
	key, val *ir.Node
}

// sortedEntries returns a mapping's entries in canonical key order, the
// same order the comparator visits.
func sortedEntries(m *ir.Node) []entry {
	res := make([]entry, len(m.Keys))
	for i, k := range m.Keys {
		res[i] = entry{ks: ir.KeyString(k), key: k, val: m.Values[i]}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].ks < res[j].ks })
	return res
}
