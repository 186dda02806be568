package diff

import (
	"fmt"
	"math"
	"sort"

	"github.com/tensorir/go-tir/debug"
	"github.com/tensorir/go-tir/ir"
	"github.com/tensorir/go-tir/ir/npath"
	"github.com/tensorir/go-tir/schema"
)

// Compare walks lhs and rhs in lockstep and returns the first mismatch
// in pre-order traversal order, or nil if the trees are structurally
// equal. The error return is reserved for malformed input (a cyclic
// tree, or a composite claiming fields its kind does not declare).
func Compare(lhs, rhs *ir.Node, opts ...Option) (*Mismatch, error) {
	cfg := &config{reg: schema.Builtin()}
	for _, opt := range opts {
		opt(cfg)
	}
	if err := ir.CheckTree(lhs, cfg.reg); err != nil {
		return nil, fmt.Errorf("lhs: %w", err)
	}
	if err := ir.CheckTree(rhs, cfg.reg); err != nil {
		return nil, fmt.Errorf("rhs: %w", err)
	}
	c := &comparer{cfg: cfg}
	return c.compare(lhs, rhs, npath.Path{}, npath.Path{}), nil
}

// scope is one binder frame of the alpha-equivalence bijection.
type scope struct {
	l2r map[ir.NodeID]ir.NodeID
	r2l map[ir.NodeID]ir.NodeID
}

type comparer struct {
	cfg    *config
	scopes []*scope
}

func (c *comparer) pushScope() {
	c.scopes = append(c.scopes, &scope{
		l2r: map[ir.NodeID]ir.NodeID{},
		r2l: map[ir.NodeID]ir.NodeID{},
	})
}

func (c *comparer) popScope() {
	c.scopes = c.scopes[:len(c.scopes)-1]
}

func (c *comparer) bind(l, r *ir.Node) {
	top := c.scopes[len(c.scopes)-1]
	top.l2r[l.ID()] = r.ID()
	top.r2l[r.ID()] = l.ID()
}

// partner returns the rhs identity bound to l, searching innermost
// scope first.
func (c *comparer) partner(l ir.NodeID) (ir.NodeID, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if r, ok := c.scopes[i].l2r[l]; ok {
			return r, true
		}
	}
	return 0, false
}

func (c *comparer) boundRHS(r ir.NodeID) bool {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if _, ok := c.scopes[i].r2l[r]; ok {
			return true
		}
	}
	return false
}

func (c *comparer) compare(l, r *ir.Node, lp, rp npath.Path) *Mismatch {
	if debug.Compare() {
		debug.Logf("compare %s at %s | %s\n", l.Type, lp, rp)
	}
	if l.Type != r.Type {
		return &Mismatch{
			LHS: lp, RHS: rp, Reason: KindMismatch,
			Detail: fmt.Sprintf("%s vs %s", l.Type, r.Type),
		}
	}
	switch l.Type {
	case ir.LeafType:
		return c.compareLeaf(l, r, lp, rp)
	case ir.CompositeType:
		return c.compareComposite(l, r, lp, rp)
	case ir.SequenceType:
		return c.compareSequence(l, r, lp, rp)
	case ir.MappingType:
		return c.compareMapping(l, r, lp, rp)
	}
	return nil
}

func (c *comparer) compareLeaf(l, r *ir.Node, lp, rp npath.Path) *Mismatch {
	if l.Scalar != r.Scalar {
		return &Mismatch{
			LHS: lp, RHS: rp, Reason: KindMismatch,
			Detail: fmt.Sprintf("%s leaf vs %s leaf", l.Scalar, r.Scalar),
		}
	}
	equal := false
	switch l.Scalar {
	case ir.IntScalar:
		equal = intVal(l) == intVal(r)
	case ir.FloatScalar:
		lf, rf := floatVal(l), floatVal(r)
		if c.cfg.floatTol > 0 {
			equal = math.Abs(lf-rf) <= c.cfg.floatTol
		} else {
			equal = lf == rf
		}
	case ir.StringScalar:
		equal = l.Str == r.Str
	case ir.BoolScalar:
		equal = l.Bool == r.Bool
	case ir.HandleScalar:
		equal = l.Handle == r.Handle
	}
	if equal {
		return nil
	}
	// Leaf value mismatches address the boxed value, so the reported
	// path reads "...shape[1].value" and still resolves to the leaf.
	return &Mismatch{
		LHS:    lp.With(npath.Attr("value")),
		RHS:    rp.With(npath.Attr("value")),
		Reason: ValueMismatch,
		Detail: fmt.Sprintf("%s != %s", ir.ScalarString(l), ir.ScalarString(r)),
	}
}

func intVal(n *ir.Node) int64 {
	if n.Int64 == nil {
		return 0
	}
	return *n.Int64
}

func floatVal(n *ir.Node) float64 {
	if n.Float64 == nil {
		return 0
	}
	return *n.Float64
}

func (c *comparer) compareComposite(l, r *ir.Node, lp, rp npath.Path) *Mismatch {
	if c.cfg.alpha {
		ldef := c.cfg.reg.Lookup(l.Kind)
		rdef := c.cfg.reg.Lookup(r.Kind)
		if ldef.Variable || rdef.Variable {
			return c.compareVar(l, r, lp, rp)
		}
	}
	if l.Kind != r.Kind {
		return &Mismatch{
			LHS: lp, RHS: rp, Reason: KindMismatch,
			Detail: fmt.Sprintf("%q vs %q", l.Kind, r.Kind),
		}
	}
	def := c.cfg.reg.Lookup(l.Kind)
	hasBinder := false
	for _, f := range def.Fields {
		if f.Binder {
			hasBinder = true
			break
		}
	}
	if c.cfg.alpha && hasBinder {
		c.pushScope()
		defer c.popScope()
	}
	// Fields in the schema-defined canonical order, never the insertion
	// order of the construction site.
	for _, f := range def.Fields {
		lv := ir.Get(l, f.Name)
		rv := ir.Get(r, f.Name)
		switch {
		case lv == nil && rv == nil:
			continue
		case rv == nil:
			return &Mismatch{
				LHS:    lp.With(npath.Field(f.Name)),
				RHS:    rp,
				Reason: MissingField,
				Detail: fmt.Sprintf("rhs %q lacks field %q", r.Kind, f.Name),
			}
		case lv == nil:
			return &Mismatch{
				LHS:    lp,
				RHS:    rp.With(npath.Field(f.Name)),
				Reason: ExtraField,
				Detail: fmt.Sprintf("lhs %q lacks field %q", l.Kind, f.Name),
			}
		}
		if c.cfg.alpha && f.Binder {
			c.registerBinders(lv, rv)
		}
		if m := c.compare(lv, rv, lp.With(npath.Field(f.Name)), rp.With(npath.Field(f.Name))); m != nil {
			return m
		}
	}
	return nil
}

// registerBinders pairs the binding occurrences of a binder field
// positionally before the field values are compared, so that variable
// comparison inside the field already sees the bijection. Arity
// differences are left for the structural comparison to report.
func (c *comparer) registerBinders(lv, rv *ir.Node) {
	lb := collectBinders(lv, c.cfg.reg, nil)
	rb := collectBinders(rv, c.cfg.reg, nil)
	n := min(len(lb), len(rb))
	for i := 0; i < n; i++ {
		c.bind(lb[i], rb[i])
	}
}

// collectBinders gathers the variable occurrences a binder field
// introduces: a variable itself, each element of a sequence, each key
// of a mapping, and the binder fields of a nested composite (an
// axis_bind's var). This covers loop variables, parameters, buffer_map
// keys and axis bindings uniformly.
func collectBinders(n *ir.Node, reg *schema.Registry, dst []*ir.Node) []*ir.Node {
	if n == nil {
		return dst
	}
	switch n.Type {
	case ir.CompositeType:
		def := reg.Lookup(n.Kind)
		if def == nil {
			return dst
		}
		if def.Variable {
			return append(dst, n)
		}
		for _, f := range def.Fields {
			if !f.Binder {
				continue
			}
			dst = collectBinders(ir.Get(n, f.Name), reg, dst)
		}
	case ir.SequenceType:
		for _, v := range n.Values {
			dst = collectBinders(v, reg, dst)
		}
	case ir.MappingType:
		for _, k := range n.Keys {
			dst = collectBinders(k, reg, dst)
		}
	}
	return dst
}

// compareVar handles variable occurrences under alpha equivalence: two
// occurrences are equal iff the bijection in scope pairs them; surface
// names never participate, dtypes still must agree.
func (c *comparer) compareVar(l, r *ir.Node, lp, rp npath.Path) *Mismatch {
	ldef := c.cfg.reg.Lookup(l.Kind)
	rdef := c.cfg.reg.Lookup(r.Kind)
	if !ldef.Variable || !rdef.Variable {
		return &Mismatch{
			LHS: lp, RHS: rp, Reason: KindMismatch,
			Detail: fmt.Sprintf("%q vs %q", l.Kind, r.Kind),
		}
	}
	partner, ok := c.partner(l.ID())
	if !ok {
		if c.boundRHS(r.ID()) {
			return &Mismatch{
				LHS: lp, RHS: rp, Reason: ValueMismatch,
				Detail: fmt.Sprintf("variable %q is unbound, %q is bound", varName(l), varName(r)),
			}
		}
		return &Mismatch{
			LHS: lp, RHS: rp, Reason: ValueMismatch,
			Detail: fmt.Sprintf("unbound variable reference %q", varName(l)),
		}
	}
	if partner != r.ID() {
		return &Mismatch{
			LHS: lp, RHS: rp, Reason: ValueMismatch,
			Detail: fmt.Sprintf("variables %q and %q occupy different binding positions", varName(l), varName(r)),
		}
	}
	ld := ir.Get(l, "dtype")
	rd := ir.Get(r, "dtype")
	if ld == nil || rd == nil {
		if ld != rd {
			f := "dtype"
			detail := "rhs variable lacks dtype"
			m := &Mismatch{LHS: lp.With(npath.Field(f)), RHS: rp, Reason: MissingField, Detail: detail}
			if ld == nil {
				m = &Mismatch{LHS: lp, RHS: rp.With(npath.Field(f)), Reason: ExtraField, Detail: "lhs variable lacks dtype"}
			}
			return m
		}
		return nil
	}
	return c.compare(ld, rd, lp.With(npath.Field("dtype")), rp.With(npath.Field("dtype")))
}

func varName(n *ir.Node) string {
	if v := ir.Get(n, "name"); v != nil {
		return v.Str
	}
	return "?"
}

func (c *comparer) compareSequence(l, r *ir.Node, lp, rp npath.Path) *Mismatch {
	n := min(len(l.Values), len(r.Values))
	for i := 0; i < n; i++ {
		if m := c.compare(l.Values[i], r.Values[i], lp.With(npath.Index(i)), rp.With(npath.Index(i))); m != nil {
			return m
		}
	}
	if len(l.Values) != len(r.Values) {
		// Policy: the common prefix compares first, so a divergence
		// inside it wins over the length difference.
		return &Mismatch{
			LHS: lp, RHS: rp, Reason: LengthMismatch,
			Detail: fmt.Sprintf("length %d != %d", len(l.Values), len(r.Values)),
		}
	}
	return nil
}

// mapEntry aligns one lhs mapping entry with its rhs counterpart, if
// any. sortKey orders the union of both key sets canonically.
type mapEntry struct {
	sortKey  string
	lk, rk   string
	li, rInd int // -1 when absent on that side
}

func (c *comparer) compareMapping(l, r *ir.Node, lp, rp npath.Path) *Mismatch {
	usedR := make([]bool, len(r.Keys))
	entries := make([]mapEntry, 0, len(l.Keys)+len(r.Keys))
	for li, lk := range l.Keys {
		e := mapEntry{sortKey: ir.KeyString(lk), lk: ir.KeyString(lk), li: li, rInd: -1}
		for ri, rk := range r.Keys {
			if usedR[ri] {
				continue
			}
			if c.keysMatch(lk, rk) {
				usedR[ri] = true
				e.rInd = ri
				e.rk = ir.KeyString(rk)
				break
			}
		}
		entries = append(entries, e)
	}
	for ri, rk := range r.Keys {
		if usedR[ri] {
			continue
		}
		ks := ir.KeyString(rk)
		entries = append(entries, mapEntry{sortKey: ks, rk: ks, li: -1, rInd: ri})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].sortKey < entries[j].sortKey
	})
	// Key set first: the earliest unmatched key in canonical order is
	// the mismatch.
	for _, e := range entries {
		switch {
		case e.rInd == -1:
			return &Mismatch{
				LHS:    lp.With(npath.Key(e.lk)),
				RHS:    rp,
				Reason: MissingField,
				Detail: fmt.Sprintf("rhs mapping lacks key %q", e.lk),
			}
		case e.li == -1:
			return &Mismatch{
				LHS:    lp,
				RHS:    rp.With(npath.Key(e.rk)),
				Reason: ExtraField,
				Detail: fmt.Sprintf("lhs mapping lacks key %q", e.rk),
			}
		}
	}
	// Then values at each common key, in canonical key order.
	for _, e := range entries {
		if m := c.compare(l.Values[e.li], r.Values[e.rInd],
			lp.With(npath.Key(e.lk)), rp.With(npath.Key(e.rk))); m != nil {
			return m
		}
	}
	return nil
}

// keysMatch reports whether two mapping keys denote the same entry:
// alpha-paired variables match through the bijection, anything else
// matches structurally.
func (c *comparer) keysMatch(lk, rk *ir.Node) bool {
	if c.cfg.alpha && lk.Type == ir.CompositeType && rk.Type == ir.CompositeType {
		ldef := c.cfg.reg.Lookup(lk.Kind)
		rdef := c.cfg.reg.Lookup(rk.Kind)
		if ldef != nil && rdef != nil && ldef.Variable && rdef.Variable {
			p, ok := c.partner(lk.ID())
			return ok && p == rk.ID()
		}
	}
	return c.compare(lk, rk, npath.Path{}, npath.Path{}) == nil
}
