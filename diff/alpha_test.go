package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorir/go-tir/ir"
)

// loopOver builds `for <name> in range(0, 16): eval(<name> use)` with the
// loop variable shared between its binding position and its use-site.
func loopOver(name string) *ir.Node {
	v := ir.Var(name, "int32")
	return ir.NewComposite("for", []ir.Field{
		{Name: "var", Value: v},
		{Name: "min", Value: ir.FromInt(0)},
		{Name: "extent", Value: ir.FromInt(16)},
		{Name: "body", Value: ir.NewSequence([]*ir.Node{
			ir.NewComposite("eval", []ir.Field{{Name: "value", Value: v}}),
		})},
	})
}

func TestAlphaRenamedLoopVar(t *testing.T) {
	a, b := loopOver("i"), loopOver("j")

	m, err := Compare(a, b)
	require.NoError(t, err)
	require.NotNil(t, m, "without alpha, renamed variables differ")
	assert.Equal(t, ValueMismatch, m.Reason)
	assert.Equal(t, "<root>.var.name.value", m.LHS.String())

	m, err = Compare(a, b, AlphaEquivalent(true))
	require.NoError(t, err)
	assert.Nil(t, m, "renamed bound variables are alpha-equivalent")
}

func TestAlphaDtypeStillCompared(t *testing.T) {
	a := loopOver("i")
	b := loopOver("j")
	ir.Get(ir.Get(b, "var"), "dtype").Str = "int64"

	m, err := Compare(a, b, AlphaEquivalent(true))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, ValueMismatch, m.Reason)
	assert.Equal(t, "<root>.var.dtype.value", m.LHS.String())
}

func TestAlphaUnboundReference(t *testing.T) {
	// The use-site references a fresh variable that no binder
	// introduced: under alpha this is a mismatch even though the
	// surface names agree.
	free := func() *ir.Node {
		return ir.NewComposite("for", []ir.Field{
			{Name: "var", Value: ir.Var("i", "int32")},
			{Name: "min", Value: ir.FromInt(0)},
			{Name: "extent", Value: ir.FromInt(16)},
			{Name: "body", Value: ir.NewSequence([]*ir.Node{
				ir.NewComposite("eval", []ir.Field{{Name: "value", Value: ir.Var("i", "int32")}}),
			})},
		})
	}
	m, err := Compare(free(), free(), AlphaEquivalent(true))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, ValueMismatch, m.Reason)
	assert.Contains(t, m.Detail, "unbound")
}

func TestAlphaCrossedBindings(t *testing.T) {
	// Both trees bind two lets; the second tree swaps which binder the
	// use-sites refer to, so the bijection rejects them.
	build := func(crossed bool) *ir.Node {
		x := ir.Var("x", "int32")
		y := ir.Var("y", "int32")
		use1, use2 := x, y
		if crossed {
			use1, use2 = y, x
		}
		inner := ir.NewComposite("let", []ir.Field{
			{Name: "var", Value: y},
			{Name: "value", Value: ir.FromInt(2)},
			{Name: "body", Value: ir.NewSequence([]*ir.Node{
				ir.NewComposite("eval", []ir.Field{{Name: "value", Value: use1}}),
				ir.NewComposite("eval", []ir.Field{{Name: "value", Value: use2}}),
			})},
		})
		return ir.NewComposite("let", []ir.Field{
			{Name: "var", Value: x},
			{Name: "value", Value: ir.FromInt(1)},
			{Name: "body", Value: ir.NewSequence([]*ir.Node{inner})},
		})
	}
	m, err := Compare(build(false), build(true), AlphaEquivalent(true))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, ValueMismatch, m.Reason)
	assert.Contains(t, m.Detail, "different binding positions")
}

func TestAlphaSelfReferenceInLetValue(t *testing.T) {
	// The value references the let's own variable. The binding scopes
	// over the body only, so the reference inside the value is unbound
	// and mismatches even with both sides built identically.
	build := func() *ir.Node {
		x := ir.Var("x", "int32")
		return ir.NewComposite("let", []ir.Field{
			{Name: "var", Value: x},
			{Name: "value", Value: ir.NewComposite("call", []ir.Field{
				{Name: "op", Value: ir.FromString("inc")},
				{Name: "args", Value: ir.NewSequence([]*ir.Node{x})},
			})},
			{Name: "body", Value: ir.NewSequence([]*ir.Node{
				ir.NewComposite("eval", []ir.Field{{Name: "value", Value: x}}),
			})},
		})
	}
	m, err := Compare(build(), build(), AlphaEquivalent(true))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Equal(t, ValueMismatch, m.Reason)
	assert.Contains(t, m.Detail, "unbound")
	assert.Equal(t, "<root>.value.args[0]", m.LHS.String())
}

func TestAlphaShadowing(t *testing.T) {
	// An inner binder shadows the outer one; use-sites referring to the
	// innermost binding stay alpha-equivalent under renaming.
	build := func(outer, inner string) *ir.Node {
		ov := ir.Var(outer, "int32")
		iv := ir.Var(inner, "int32")
		return ir.NewComposite("for", []ir.Field{
			{Name: "var", Value: ov},
			{Name: "min", Value: ir.FromInt(0)},
			{Name: "extent", Value: ir.FromInt(4)},
			{Name: "body", Value: ir.NewSequence([]*ir.Node{
				ir.NewComposite("for", []ir.Field{
					{Name: "var", Value: iv},
					{Name: "min", Value: ir.FromInt(0)},
					{Name: "extent", Value: ir.FromInt(4)},
					{Name: "body", Value: ir.NewSequence([]*ir.Node{
						ir.NewComposite("eval", []ir.Field{{Name: "value", Value: iv}}),
					})},
				}),
			})},
		})
	}
	m, err := Compare(build("i", "j"), build("a", "b"), AlphaEquivalent(true))
	require.NoError(t, err)
	assert.Nil(t, m)
}

func TestAlphaBufferMapKeys(t *testing.T) {
	// buffer_map is keyed by parameter variables; under alpha the keys
	// match through the bijection even with renamed parameters.
	build := func(p1, p2 string) *ir.Node {
		a := ir.Var(p1, "handle")
		b := ir.Var(p2, "handle")
		bufA := ir.NewComposite("buffer", []ir.Field{
			{Name: "name", Value: ir.FromString("A")},
			{Name: "dtype", Value: ir.FromString("float32")},
			{Name: "shape", Value: ir.NewSequence([]*ir.Node{ir.FromInt(16)})},
		})
		bufB := ir.NewComposite("buffer", []ir.Field{
			{Name: "name", Value: ir.FromString("B")},
			{Name: "dtype", Value: ir.FromString("float32")},
			{Name: "shape", Value: ir.NewSequence([]*ir.Node{ir.FromInt(32)})},
		})
		return ir.NewComposite("func", []ir.Field{
			{Name: "name", Value: ir.FromString("main")},
			{Name: "params", Value: ir.NewSequence([]*ir.Node{a, b})},
			{Name: "buffer_map", Value: ir.NewMapping([]ir.KeyVal{
				{Key: a, Val: bufA},
				{Key: b, Val: bufB},
			})},
			{Name: "body", Value: ir.NewSequence(nil)},
		})
	}
	m, err := Compare(build("a", "b"), build("p0", "p1"), AlphaEquivalent(true))
	require.NoError(t, err)
	assert.Nil(t, m)

	m, err = Compare(build("a", "b"), build("p0", "p1"))
	require.NoError(t, err)
	require.NotNil(t, m, "without alpha the renamed parameters differ")
}

func TestAlphaScopeExit(t *testing.T) {
	// A variable bound in a first loop must not stay bound once the
	// traversal has left that loop.
	build := func(reuse bool) *ir.Node {
		v1 := ir.Var("i", "int32")
		use := ir.Var("i", "int32")
		if reuse {
			use = v1
		}
		loop1 := ir.NewComposite("for", []ir.Field{
			{Name: "var", Value: v1},
			{Name: "min", Value: ir.FromInt(0)},
			{Name: "extent", Value: ir.FromInt(4)},
			{Name: "body", Value: ir.NewSequence(nil)},
		})
		after := ir.NewComposite("eval", []ir.Field{{Name: "value", Value: use}})
		return ir.NewComposite("func", []ir.Field{
			{Name: "name", Value: ir.FromString("f")},
			{Name: "params", Value: ir.NewSequence(nil)},
			{Name: "body", Value: ir.NewSequence([]*ir.Node{loop1, after})},
		})
	}
	// Both sides reference their loop variable after the loop has
	// closed: the binding was popped with the loop scope, so the
	// references are unbound and mismatch.
	m, err := Compare(build(true), build(true), AlphaEquivalent(true))
	require.NoError(t, err)
	require.NotNil(t, m)
	assert.Contains(t, m.Detail, "unbound")
}
