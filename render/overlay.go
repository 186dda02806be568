package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/tensorir/go-tir/ir"
	"github.com/tensorir/go-tir/ir/npath"
)

// overlay resolves the underline and annotation requests against the
// recorded occurrences, splices caret and comment lines into the text,
// and shifts every span to its final line number.
func (s *state) overlay(root *ir.Node) (*Result, error) {
	var unders, anns []Outcome
	for _, t := range s.cfg.underlines {
		_, spans, fb, err := s.resolveTarget(root, t)
		if err != nil {
			return nil, err
		}
		unders = append(unders, Outcome{Target: t, Spans: spans, Fallback: fb})
	}
	for _, a := range s.cfg.annotations {
		node, spans, fb, err := s.resolveTarget(root, a.target)
		if err != nil {
			return nil, err
		}
		if !isStatement(s.cfg, node) {
			return nil, fmt.Errorf("%w: %s", ErrAnnotationOnExpression, a.target)
		}
		anns = append(anns, Outcome{Target: a.target, Label: a.label, Spans: spans, Fallback: fb})
	}

	notes := map[int][]string{}
	for _, a := range anns {
		for _, sp := range a.Spans {
			indent := leadingSpaces(s.lines[sp.StartLine])
			notes[sp.StartLine] = append(notes[sp.StartLine], spaces(indent)+"# "+a.Label)
		}
	}
	carets := map[int][][2]int{}
	for _, u := range unders {
		for _, sp := range u.Spans {
			start, end := sp.StartCol, sp.EndCol
			if sp.EndLine > sp.StartLine {
				end = runewidth.StringWidth(s.lines[sp.StartLine])
			}
			if end <= start {
				end = start + 1
			}
			carets[sp.StartLine] = append(carets[sp.StartLine], [2]int{start, end})
		}
	}

	var out []string
	lineMap := make([]int, len(s.lines))
	for i, ln := range s.lines {
		out = append(out, notes[i]...)
		lineMap[i] = len(out)
		out = append(out, ln)
		if cs := carets[i]; len(cs) > 0 {
			out = append(out, caretLine(cs))
		}
	}

	res := &Result{Spans: map[ir.NodeID][]Span{}}
	if len(out) > 0 {
		res.Text = strings.Join(out, "\n") + "\n"
	}
	for id, occs := range s.occ {
		for _, o := range occs {
			res.Spans[id] = append(res.Spans[id], shift(o.span, lineMap))
		}
	}
	for _, u := range unders {
		res.Underlines = append(res.Underlines, shiftOutcome(u, lineMap))
	}
	for _, a := range anns {
		res.Annotations = append(res.Annotations, shiftOutcome(a, lineMap))
	}
	return res, nil
}

func isStatement(cfg *config, n *ir.Node) bool {
	if n == nil || n.Type != ir.CompositeType {
		return false
	}
	def := cfg.reg.Lookup(n.Kind)
	return def != nil && def.Stmt
}

// resolveTarget returns the target node, the spans the request marks,
// and whether a fallback ancestor was substituted for a spanless
// target.
func (s *state) resolveTarget(root *ir.Node, t Target) (*ir.Node, []Span, bool, error) {
	if t.byPath {
		return s.resolveByPath(root, t)
	}
	return s.resolveByNode(t)
}

func (s *state) resolveByPath(root *ir.Node, t Target) (*ir.Node, []Span, bool, error) {
	node, err := ir.Resolve(root, t.path)
	if err != nil {
		return nil, nil, false, err
	}
	// Trim trailing alias segments (".value" on a leaf) so the request
	// matches the path the occurrence was recorded under.
	p := t.path
	for len(p) > 0 {
		pn, err := ir.Resolve(root, p.Parent())
		if err != nil || pn != node {
			break
		}
		p = p.Parent()
	}
	if sp, ok := s.occAt(node, p); ok {
		return node, []Span{sp}, false, nil
	}
	// The addressed occurrence was not printed (folded by sugar, or a
	// form that elides the field): mark the nearest printed ancestor.
	for len(p) > 0 {
		p = p.Parent()
		pn, err := ir.Resolve(root, p)
		if err != nil {
			return nil, nil, false, err
		}
		if sp, ok := s.occAt(pn, p); ok {
			return node, []Span{sp}, true, nil
		}
	}
	return nil, nil, false, fmt.Errorf("%w: %s", ErrUnderlineTargetNotFound, t)
}

func (s *state) occAt(n *ir.Node, p npath.Path) (Span, bool) {
	want := p.String()
	for _, o := range s.occ[n.ID()] {
		if o.path == want {
			return o.span, true
		}
	}
	return Span{}, false
}

func (s *state) resolveByNode(t Target) (*ir.Node, []Span, bool, error) {
	if t.node == nil {
		return nil, nil, false, fmt.Errorf("%w: %s", ErrUnderlineTargetNotFound, t)
	}
	id := t.node.ID()
	fallback := false
	seen := map[ir.NodeID]bool{}
	for len(s.occ[id]) == 0 {
		next, ok := s.fold[id]
		if !ok || seen[next] {
			return nil, nil, false, fmt.Errorf("%w: %s", ErrUnderlineTargetNotFound, t)
		}
		seen[next] = true
		id = next
		fallback = true
	}
	occs := s.occ[id]
	spans := make([]Span, len(occs))
	for i, o := range occs {
		spans[i] = o.span
	}
	sort.SliceStable(spans, func(i, j int) bool { return spans[i].before(spans[j]) })
	return t.node, spans, fallback, nil
}

func shift(sp Span, lineMap []int) Span {
	if len(lineMap) == 0 {
		return sp
	}
	sp.StartLine = lineMap[sp.StartLine]
	sp.EndLine = lineMap[sp.EndLine]
	return sp
}

func shiftOutcome(o Outcome, lineMap []int) Outcome {
	spans := make([]Span, len(o.Spans))
	for i, sp := range o.Spans {
		spans[i] = shift(sp, lineMap)
	}
	o.Spans = spans
	return o
}

// caretLine merges possibly overlapping intervals into one line of
// carets under the marked columns.
func caretLine(cs [][2]int) string {
	max := 0
	for _, c := range cs {
		if c[1] > max {
			max = c[1]
		}
	}
	b := make([]byte, max)
	for i := range b {
		b[i] = ' '
	}
	for _, c := range cs {
		for i := c[0]; i < c[1]; i++ {
			b[i] = '^'
		}
	}
	return string(b)
}

func leadingSpaces(ln string) int {
	for i := 0; i < len(ln); i++ {
		if ln[i] != ' ' {
			return i
		}
	}
	return len(ln)
}
