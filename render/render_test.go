package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tensorir/go-tir/internal/treetest"
	"github.com/tensorir/go-tir/ir"
	"github.com/tensorir/go-tir/schema"
)

const sampleText = `func main(a: handle, b: handle):
  a -> buffer(A, float32, [16, 128])
  b -> buffer(B, float32, [16, 128])
  for i in range(0, 16):
    block "update":
      bind vi = spatial(16, i)
      let x = A[vi]
      B[vi] = add(x, 1)
`

func TestRenderSample(t *testing.T) {
	res, err := Render(treetest.NewSample(128).Root)
	require.NoError(t, err)
	assert.Equal(t, sampleText, res.Text)
}

func TestRenderNested(t *testing.T) {
	res, err := Render(treetest.NewNested().Root)
	require.NoError(t, err)
	assert.Equal(t, `func nest(a: handle):
  a -> buffer(A, float32, [4, 4])
  block "outer":
    for i in range(0, 4):
      for j in range(0, 4):
        block "inner":
          A[i, j] = 0
`, res.Text)
}

func TestRenderDeterministic(t *testing.T) {
	a, err := Render(treetest.NewSample(128).Root)
	require.NoError(t, err)
	b, err := Render(treetest.NewSample(128).Root)
	require.NoError(t, err)
	assert.Equal(t, a.Text, b.Text, "structurally equal trees render identically")
}

func TestRenderMappingCanonicalOrder(t *testing.T) {
	build := func(flip bool) *ir.Node {
		a := ir.Var("a", "handle")
		b := ir.Var("b", "handle")
		bufA := treetest.Buffer("A", "float32", ir.FromInt(4))
		bufB := treetest.Buffer("B", "float32", ir.FromInt(4))
		entries := []ir.KeyVal{{Key: a, Val: bufA}, {Key: b, Val: bufB}}
		if flip {
			entries = []ir.KeyVal{{Key: b, Val: bufB}, {Key: a, Val: bufA}}
		}
		return ir.NewComposite("func", []ir.Field{
			{Name: "name", Value: ir.FromString("f")},
			{Name: "params", Value: ir.NewSequence([]*ir.Node{a, b})},
			{Name: "buffer_map", Value: ir.NewMapping(entries)},
			{Name: "body", Value: ir.NewSequence(nil)},
		})
	}
	x, err := Render(build(false))
	require.NoError(t, err)
	y, err := Render(build(true))
	require.NoError(t, err)
	assert.Equal(t, x.Text, y.Text, "mapping insertion order must not show")
}

func TestRenderSpans(t *testing.T) {
	s := treetest.NewSample(128)
	res, err := Render(s.Root)
	require.NoError(t, err)

	// The loop's span covers the loop header and its whole body.
	require.Len(t, res.Spans[s.Loop.ID()], 1)
	assert.Equal(t, Span{StartLine: 3, StartCol: 2, EndLine: 7, EndCol: 23}, res.Spans[s.Loop.ID()][0])

	// The root's span covers everything.
	require.Len(t, res.Spans[s.Root.ID()], 1)
	assert.Equal(t, Span{StartLine: 0, StartCol: 0, EndLine: 7, EndCol: 23}, res.Spans[s.Root.ID()][0])

	// The second shape dimension of B prints once, in the buffer map.
	require.Len(t, res.Spans[s.Shape2.ID()], 1)
	assert.Equal(t, Span{StartLine: 2, StartCol: 31, EndLine: 2, EndCol: 34}, res.Spans[s.Shape2.ID()][0])

	// The shared block variable appears at its binding and both
	// use-sites.
	assert.Len(t, res.Spans[s.Vi.ID()], 3)
}

func TestRenderLeafRoot(t *testing.T) {
	res, err := Render(ir.FromInt(42))
	require.NoError(t, err)
	assert.Equal(t, "42\n", res.Text)

	res, err = Render(ir.FromString("hi"))
	require.NoError(t, err)
	assert.Equal(t, "\"hi\"\n", res.Text)
}

func TestRenderMappingRoot(t *testing.T) {
	m := ir.NewMapping([]ir.KeyVal{
		{Key: ir.FromString("b"), Val: ir.FromInt(2)},
		{Key: ir.FromString("a"), Val: ir.FromInt(1)},
	})
	res, err := Render(m)
	require.NoError(t, err)
	assert.Equal(t, "{a -> 1, b -> 2}\n", res.Text)
}

func TestRenderGenericComposite(t *testing.T) {
	reg := schema.Builtin()
	require.NoError(t, reg.Register(&schema.KindDef{
		Name:   "pair",
		Fields: []schema.FieldDef{{Name: "x"}, {Name: "y"}},
	}))
	n := ir.NewComposite("pair", []ir.Field{
		{Name: "y", Value: ir.FromInt(2)},
		{Name: "x", Value: ir.FromInt(1)},
	})
	res, err := Render(n, WithSchema(reg))
	require.NoError(t, err)
	assert.Equal(t, "pair(x=1, y=2)\n", res.Text, "fields print in canonical order")
}

func TestRenderShowMetadata(t *testing.T) {
	res, err := Render(treetest.NewSample(128).Root, ShowMetadata(true))
	require.NoError(t, err)
	assert.Equal(t, `func main(a: handle, b: handle):
  a -> buffer(A, float32, [16, 128])
  b -> buffer(B, float32, [16, 128])
  for i: int32 in range(0, 16):
    block "update":  # block 0
      bind vi: int32 = spatial(16, i)
      let x: float32 = A[vi]
      B[vi] = add(x, 1)
`, res.Text)
}

func TestRenderLineWidth(t *testing.T) {
	args := make([]*ir.Node, 8)
	for i := range args {
		args[i] = ir.FromInt(int64(i + 1))
	}
	n := ir.NewComposite("eval", []ir.Field{
		{Name: "value", Value: ir.NewComposite("call", []ir.Field{
			{Name: "op", Value: ir.FromString("f")},
			{Name: "args", Value: ir.NewSequence(args)},
		})},
	})
	res, err := Render(n, LineWidth(20))
	require.NoError(t, err)
	assert.Equal(t, "f(1, 2, 3, 4, 5, 6, 7,\n    8)\n", res.Text)
}

func TestRenderMalformed(t *testing.T) {
	cyclic := ir.NewSequence(nil)
	inner := ir.NewSequence([]*ir.Node{cyclic})
	cyclic.Values = []*ir.Node{inner}
	_, err := Render(cyclic)
	require.ErrorIs(t, err, ir.ErrCyclicTree)

	_, err = Render(ir.NewComposite("mystery", nil))
	require.ErrorIs(t, err, ir.ErrSchemaViolation)
}
