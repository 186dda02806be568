package render

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tensorir/go-tir/debug"
	"github.com/tensorir/go-tir/ir"
	"github.com/tensorir/go-tir/ir/npath"
	"github.com/tensorir/go-tir/schema"
)

// Result is a finished render. Spans maps every printed node to its
// occurrences in Text, with line numbers already adjusted for any
// overlay lines the render inserted.
type Result struct {
	Text  string
	Spans map[ir.NodeID][]Span

	// Underlines and Annotations report, per request in request order,
	// the spans the request resolved to.
	Underlines  []Outcome
	Annotations []Outcome
}

// Outcome is the resolution of one underline or annotation request.
// Fallback is set when the target itself had no span (it was folded
// away by sugar, for example) and a printed ancestor was marked in its
// place.
type Outcome struct {
	Target   Target
	Label    string
	Spans    []Span
	Fallback bool
}

// Render prints the tree rooted at root. The tree is validated first;
// malformed input fails with the ir sentinel errors rather than
// rendering garbage.
func Render(root *ir.Node, opts ...Option) (*Result, error) {
	cfg := &config{reg: schema.Builtin()}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := ir.CheckTree(root, cfg.reg); err != nil {
		return nil, err
	}

	s := &state{
		cfg:  cfg,
		occ:  map[ir.NodeID][]occurrence{},
		fold: map[ir.NodeID]ir.NodeID{},
	}
	if err := s.stmt(root); err != nil {
		return nil, err
	}
	if s.cur.Len() > 0 {
		s.endLine()
	}
	if debug.Render() {
		debug.Logf("render: %d lines, %d spanned nodes\n", len(s.lines), len(s.occ))
	}
	return s.overlay(root)
}

// occurrence is one textual appearance of a node: where it printed and
// the path under which it printed there.
type occurrence struct {
	span Span
	path string
}

type marker struct {
	line, col int
}

type state struct {
	cfg *config

	lines []string
	cur   strings.Builder
	col   int
	depth int

	path npath.Path

	occ  map[ir.NodeID][]occurrence
	fold map[ir.NodeID]ir.NodeID

	blocks int
}

func (s *state) emit(str string) {
	s.cur.WriteString(str)
	s.col += runewidth.StringWidth(str)
}

func (s *state) beginLine() {
	s.emit(strings.Repeat("  ", s.depth))
}

func (s *state) endLine() {
	s.lines = append(s.lines, s.cur.String())
	s.cur.Reset()
	s.col = 0
}

func (s *state) mark() marker {
	return marker{line: len(s.lines), col: s.col}
}

func (s *state) push(seg npath.Segment) {
	s.path = append(s.path, seg)
}

func (s *state) pop() {
	s.path = s.path[:len(s.path)-1]
}

// record closes the span opened at mk and files it under n's identity
// and the current path.
func (s *state) record(n *ir.Node, mk marker) {
	end := s.pos()
	if end.line < mk.line || (end.line == mk.line && end.col < mk.col) {
		// Nothing printed for n (an empty sequence): pin a zero-width
		// span at the current position.
		mk = end
	}
	sp := Span{StartLine: mk.line, StartCol: mk.col, EndLine: end.line, EndCol: end.col}
	s.occ[n.ID()] = append(s.occ[n.ID()], occurrence{span: sp, path: s.path.String()})
}

func (s *state) pos() marker {
	if s.cur.Len() > 0 {
		return marker{line: len(s.lines), col: s.col}
	}
	if len(s.lines) == 0 {
		return marker{}
	}
	last := len(s.lines) - 1
	return marker{line: last, col: runewidth.StringWidth(s.lines[last])}
}

// stmt prints n as one or more complete lines at the current depth and
// records its span. The pending line must be empty on entry.
func (s *state) stmt(n *ir.Node) error {
	mk := marker{line: len(s.lines), col: 2 * s.depth}
	if err := s.stmtInner(n); err != nil {
		return err
	}
	s.record(n, mk)
	return nil
}

func (s *state) stmtInner(n *ir.Node) error {
	if n.Type == ir.SequenceType {
		for i, el := range n.Values {
			s.push(npath.Index(i))
			err := s.stmt(el)
			s.pop()
			if err != nil {
				return err
			}
		}
		return nil
	}
	if n.Type == ir.CompositeType {
		switch n.Kind {
		case "func":
			return s.printFunc(n)
		case "for":
			return s.printFor(n)
		case "block":
			return s.printBlock(n)
		case "axis_bind":
			return s.printAxisBind(n)
		case "let":
			return s.printLet(n)
		case "store":
			return s.printStore(n)
		case "eval":
			return s.printEval(n)
		}
	}
	// Expression at statement position: one line on its own.
	s.beginLine()
	if err := s.exprInner(n); err != nil {
		return err
	}
	s.endLine()
	return nil
}

func (s *state) printFunc(n *ir.Node) error {
	s.beginLine()
	s.emit("func ")
	if name := ir.Get(n, "name"); name != nil {
		s.push(npath.Field("name"))
		mk := s.mark()
		s.emit(ir.ScalarString(name))
		s.record(name, mk)
		s.pop()
	}
	s.emit("(")
	if ps := ir.Get(n, "params"); ps != nil {
		s.push(npath.Field("params"))
		mk := s.mark()
		for i, p := range ps.Values {
			if i > 0 {
				s.emit(", ")
			}
			s.push(npath.Index(i))
			s.varDecl(p, true)
			s.pop()
		}
		s.record(ps, mk)
		s.pop()
	}
	s.emit("):")
	s.endLine()

	s.depth++
	if bm := ir.Get(n, "buffer_map"); bm != nil {
		s.push(npath.Field("buffer_map"))
		if err := s.printBufferMap(bm); err != nil {
			s.pop()
			return err
		}
		s.pop()
	}
	err := s.bodyField(n)
	s.depth--
	return err
}

// printBufferMap prints one "param -> buffer" line per entry, in
// canonical key order.
func (s *state) printBufferMap(bm *ir.Node) error {
	mk := marker{line: len(s.lines), col: 2 * s.depth}
	for _, e := range sortedEntries(bm) {
		s.beginLine()
		s.keyOccurrence(e.key, e.ks)
		s.emit(" -> ")
		s.push(npath.Key(e.ks))
		if err := s.expr(e.val); err != nil {
			s.pop()
			return err
		}
		s.pop()
		s.endLine()
	}
	if len(bm.Keys) > 0 {
		s.record(bm, mk)
	}
	return nil
}

// keyOccurrence prints a mapping key. Keys are addressable only by
// identity; the occurrence is filed under a pseudo path that no
// resolvable request can produce.
func (s *state) keyOccurrence(key *ir.Node, ks string) {
	s.push(npath.Key(ks))
	s.push(npath.Attr("key"))
	mk := s.mark()
	if key.Type == ir.CompositeType && ir.Get(key, "name") != nil {
		s.emit(ir.ScalarString(ir.Get(key, "name")))
	} else if key.Type == ir.LeafType {
		s.emit(ir.ScalarString(key))
	} else {
		s.emit(ks)
	}
	s.record(key, mk)
	s.pop()
	s.pop()
}

func (s *state) printFor(n *ir.Node) error {
	s.beginLine()
	s.emit("for ")
	if v := ir.Get(n, "var"); v != nil {
		s.push(npath.Field("var"))
		s.varDecl(v, s.cfg.showMeta)
		s.pop()
	}
	s.emit(" in range(")
	if err := s.exprField(n, "min"); err != nil {
		return err
	}
	s.emit(", ")
	if err := s.exprField(n, "extent"); err != nil {
		return err
	}
	s.emit("):")
	s.endLine()

	s.depth++
	err := s.bodyField(n)
	s.depth--
	return err
}

func (s *state) printBlock(n *ir.Node) error {
	s.beginLine()
	s.emit("block")
	if name := ir.Get(n, "name"); name != nil && name.Str != "" {
		s.emit(" ")
		s.push(npath.Field("name"))
		mk := s.mark()
		s.emit(strconv.Quote(name.Str))
		s.record(name, mk)
		s.pop()
	}
	s.emit(":")
	if s.cfg.showMeta {
		s.emit("  # block " + strconv.Itoa(s.blocks))
		s.blocks++
	}
	s.endLine()

	s.depth++
	defer func() { s.depth-- }()
	if bs := ir.Get(n, "bindings"); bs != nil && len(bs.Values) > 0 {
		s.push(npath.Field("bindings"))
		var err error
		if s.cfg.sugar && allHaveSource(bs) {
			err = s.printRemap(bs)
		} else {
			err = s.stmt(bs)
		}
		s.pop()
		if err != nil {
			return err
		}
	}
	return s.bodyField(n)
}

func allHaveSource(bs *ir.Node) bool {
	for _, b := range bs.Values {
		if b.Type != ir.CompositeType || b.Kind != "axis_bind" || ir.Get(b, "source") == nil {
			return false
		}
	}
	return true
}

// printRemap prints a block's axis bindings as one folded line:
//
//	bind (vi, vj) = remap("SR", [i, j])
//
// The folded-away nodes (the axis_bind composites, their kind and
// extent) are mapped to the line's span for fallback resolution.
func (s *state) printRemap(bs *ir.Node) error {
	mk := marker{line: len(s.lines), col: 2 * s.depth}
	s.beginLine()
	s.emit("bind (")
	for i, b := range bs.Values {
		if i > 0 {
			s.emit(", ")
		}
		s.push(npath.Index(i))
		s.push(npath.Field("var"))
		if err := s.expr(ir.Get(b, "var")); err != nil {
			s.pop()
			s.pop()
			return err
		}
		s.pop()
		s.pop()
	}
	s.emit(`) = remap("`)
	for _, b := range bs.Values {
		s.emit(kindLetter(ir.Get(b, "kind")))
	}
	s.emit(`", [`)
	for i, b := range bs.Values {
		if i > 0 {
			s.emit(", ")
		}
		s.push(npath.Index(i))
		s.push(npath.Field("source"))
		if err := s.expr(ir.Get(b, "source")); err != nil {
			s.pop()
			s.pop()
			return err
		}
		s.pop()
		s.pop()
	}
	s.emit("])")
	s.endLine()
	s.record(bs, mk)

	for _, b := range bs.Values {
		s.foldInto(b, bs.ID())
		s.foldInto(ir.Get(b, "kind"), bs.ID())
		s.foldInto(ir.Get(b, "extent"), bs.ID())
	}
	return nil
}

// foldInto maps every node of the subtree at n to the span owner id.
// Nodes that printed elsewhere keep their own spans; fold is consulted
// only for spanless targets.
func (s *state) foldInto(n *ir.Node, id ir.NodeID) {
	if n == nil {
		return
	}
	_ = n.Visit(func(m *ir.Node, isPost bool) (bool, error) {
		if !isPost {
			s.fold[m.ID()] = id
		}
		return true, nil
	})
}

func kindLetter(kind *ir.Node) string {
	if kind == nil || kind.Str == "" {
		return "?"
	}
	return strings.ToUpper(kind.Str[:1])
}

func (s *state) printAxisBind(n *ir.Node) error {
	s.beginLine()
	s.emit("bind ")
	if v := ir.Get(n, "var"); v != nil {
		s.push(npath.Field("var"))
		s.varDecl(v, s.cfg.showMeta)
		s.pop()
	}
	s.emit(" = ")
	if kind := ir.Get(n, "kind"); kind != nil {
		s.push(npath.Field("kind"))
		mk := s.mark()
		s.emit(ir.ScalarString(kind))
		s.record(kind, mk)
		s.pop()
	}
	s.emit("(")
	if err := s.exprField(n, "extent"); err != nil {
		return err
	}
	if src := ir.Get(n, "source"); src != nil {
		s.emit(", ")
		s.push(npath.Field("source"))
		err := s.expr(src)
		s.pop()
		if err != nil {
			return err
		}
	}
	s.emit(")")
	s.endLine()
	return nil
}

func (s *state) printLet(n *ir.Node) error {
	s.beginLine()
	s.emit("let ")
	if v := ir.Get(n, "var"); v != nil {
		s.push(npath.Field("var"))
		s.varDecl(v, s.cfg.showMeta)
		s.pop()
	}
	s.emit(" = ")
	if err := s.exprField(n, "value"); err != nil {
		return err
	}
	s.endLine()
	// The let body stays at the same depth: a chain of lets reads as a
	// flat sequence of bindings.
	return s.bodyField(n)
}

func (s *state) printStore(n *ir.Node) error {
	s.beginLine()
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
	s.emit("] = ")
	if err := s.exprField(n, "value"); err != nil {
		return err
	}
	s.endLine()
	return nil
}

func (s *state) printEval(n *ir.Node) error {
	s.beginLine()
	if err := s.exprField(n, "value"); err != nil {
		return err
	}
	s.endLine()
	return nil
}

func (s *state) bodyField(n *ir.Node) error {
	b := ir.Get(n, "body")
	if b == nil {
		return nil
	}
	s.push(npath.Field("body"))
	err := s.stmt(b)
	s.pop()
	return err
}

func (s *state) exprField(n *ir.Node, field string) error {
	v := ir.Get(n, field)
	if v == nil {
		s.emit("_")
		return nil
	}
	s.push(npath.Field(field))
	err := s.expr(v)
	s.pop()
	return err
}

// varDecl prints a variable at a binding site. The variable's span (and
// its name leaf's) covers the name token only, so underlines land on
// the name, not the dtype.
func (s *state) varDecl(v *ir.Node, withType bool) {
	mk := s.mark()
	s.emit(varName(v))
	s.record(v, mk)
	if nm := ir.Get(v, "name"); nm != nil {
		s.push(npath.Field("name"))
		s.record(nm, mk)
		s.pop()
	}
	if !withType {
		return
	}
	if dt := ir.Get(v, "dtype"); dt != nil && dt.Str != "" {
		s.emit(": ")
		s.push(npath.Field("dtype"))
		mkD := s.mark()
		s.emit(dt.Str)
		s.record(dt, mkD)
		s.pop()
	}
}

func varName(v *ir.Node) string {
	if nm := ir.Get(v, "name"); nm != nil && nm.Str != "" {
		return nm.Str
	}
	return "?"
}

// bufferRef prints a buffer use-site as its bare name. The full
// buffer(...) form appears only where the buffer is declared, in the
// enclosing function's buffer map.
func (s *state) bufferRef(b *ir.Node) {
	mk := s.mark()
	s.emit(varName(b))
	s.record(b, mk)
}
