// Package treetest builds the small tensor-program trees the package
// tests share: a function with two buffer parameters, a loop, a block
// with an axis binding, and a load/store body.
package treetest

import "github.com/tensorir/go-tir/ir"

// Sample exposes the interesting nodes of the sample function so tests
// can address them by identity as well as by path.
//
// The tree renders (without sugar or metadata) as:
//
//	func main(a: handle, b: handle):
//	  a -> buffer(A, float32, [16, 128])
//	  b -> buffer(B, float32, [16, <shape2>])
//	  for i in range(0, 16):
//	    block "update":
//	      bind vi = spatial(16, i)
//	      let x = A[vi]
//	      B[vi] = add(x, 1)
type Sample struct {
	Root *ir.Node

	ParamA, ParamB *ir.Node
	BufA, BufB     *ir.Node
	LoopVar        *ir.Node
	Vi             *ir.Node
	X              *ir.Node

	Loop, Block, Bind, Let, Store *ir.Node
	Bindings                      *ir.Node
	Shape2                        *ir.Node
}

// NewSample builds the sample function. shape2 is the second shape
// dimension of buffer B, so two samples differing only there exercise
// the "128 vs 256" divergence scenario.
func NewSample(shape2 int64) *Sample {
	s := &Sample{}

	s.ParamA = ir.Var("a", "handle")
	s.ParamB = ir.Var("b", "handle")
	s.LoopVar = ir.Var("i", "int32")
	s.Vi = ir.Var("vi", "int32")
	s.X = ir.Var("x", "float32")

	s.Shape2 = ir.FromInt(shape2)
	s.BufA = Buffer("A", "float32", ir.FromInt(16), ir.FromInt(128))
	s.BufB = ir.NewComposite("buffer", []ir.Field{
		{Name: "name", Value: ir.FromString("B")},
		{Name: "dtype", Value: ir.FromString("float32")},
		{Name: "shape", Value: ir.NewSequence([]*ir.Node{ir.FromInt(16), s.Shape2})},
	})

	s.Bind = ir.NewComposite("axis_bind", []ir.Field{
		{Name: "var", Value: s.Vi},
		{Name: "kind", Value: ir.FromString("spatial")},
		{Name: "extent", Value: ir.FromInt(16)},
		{Name: "source", Value: s.LoopVar},
	})
	s.Bindings = ir.NewSequence([]*ir.Node{s.Bind})

	load := ir.NewComposite("load", []ir.Field{
		{Name: "buffer", Value: s.BufA},
		{Name: "indices", Value: ir.NewSequence([]*ir.Node{s.Vi})},
	})
	s.Store = ir.NewComposite("store", []ir.Field{
		{Name: "buffer", Value: s.BufB},
		{Name: "indices", Value: ir.NewSequence([]*ir.Node{s.Vi})},
		{Name: "value", Value: ir.NewComposite("call", []ir.Field{
			{Name: "op", Value: ir.FromString("add")},
			{Name: "args", Value: ir.NewSequence([]*ir.Node{s.X, ir.FromInt(1)})},
		})},
	})
	s.Let = ir.NewComposite("let", []ir.Field{
		{Name: "var", Value: s.X},
		{Name: "value", Value: load},
		{Name: "body", Value: ir.NewSequence([]*ir.Node{s.Store})},
	})

	s.Block = ir.NewComposite("block", []ir.Field{
		{Name: "name", Value: ir.FromString("update")},
		{Name: "bindings", Value: s.Bindings},
		{Name: "body", Value: ir.NewSequence([]*ir.Node{s.Let})},
	})
	s.Loop = ir.NewComposite("for", []ir.Field{
		{Name: "var", Value: s.LoopVar},
		{Name: "min", Value: ir.FromInt(0)},
		{Name: "extent", Value: ir.FromInt(16)},
		{Name: "body", Value: ir.NewSequence([]*ir.Node{s.Block})},
	})

	s.Root = ir.NewComposite("func", []ir.Field{
		{Name: "name", Value: ir.FromString("main")},
		{Name: "params", Value: ir.NewSequence([]*ir.Node{s.ParamA, s.ParamB})},
		{Name: "buffer_map", Value: ir.NewMapping([]ir.KeyVal{
			{Key: s.ParamA, Val: s.BufA},
			{Key: s.ParamB, Val: s.BufB},
		})},
		{Name: "body", Value: ir.NewSequence([]*ir.Node{s.Loop})},
	})
	return s
}

// Buffer builds a buffer composite with the given shape dimensions.
func Buffer(name, dtype string, dims ...*ir.Node) *ir.Node {
	return ir.NewComposite("buffer", []ir.Field{
		{Name: "name", Value: ir.FromString(name)},
		{Name: "dtype", Value: ir.FromString(dtype)},
		{Name: "shape", Value: ir.NewSequence(dims)},
	})
}

// Nested exposes the nodes of a function whose body is a block holding
// a loop holding a loop holding a block: the four statement ancestors
// of the innermost store, for annotation-ordering tests.
type Nested struct {
	Root                                         *ir.Node
	OuterBlock, OuterLoop, InnerLoop, InnerBlock *ir.Node
	Store                                        *ir.Node
}

// NewNested builds the nested-loop function:
//
//	func nest(a: handle):
//	  a -> buffer(A, float32, [4, 4])
//	  block "outer":
//	    for i in range(0, 4):
//	      for j in range(0, 4):
//	        block "inner":
//	          A[i, j] = 0
func NewNested() *Nested {
	n := &Nested{}
	paramA := ir.Var("a", "handle")
	bufA := Buffer("A", "float32", ir.FromInt(4), ir.FromInt(4))
	vi := ir.Var("i", "int32")
	vj := ir.Var("j", "int32")

	n.Store = ir.NewComposite("store", []ir.Field{
		{Name: "buffer", Value: bufA},
		{Name: "indices", Value: ir.NewSequence([]*ir.Node{vi, vj})},
		{Name: "value", Value: ir.FromInt(0)},
	})
	n.InnerBlock = ir.NewComposite("block", []ir.Field{
		{Name: "name", Value: ir.FromString("inner")},
		{Name: "bindings", Value: ir.NewSequence(nil)},
		{Name: "body", Value: ir.NewSequence([]*ir.Node{n.Store})},
	})
	n.InnerLoop = ir.NewComposite("for", []ir.Field{
		{Name: "var", Value: vj},
		{Name: "min", Value: ir.FromInt(0)},
		{Name: "extent", Value: ir.FromInt(4)},
		{Name: "body", Value: ir.NewSequence([]*ir.Node{n.InnerBlock})},
	})
	n.OuterLoop = ir.NewComposite("for", []ir.Field{
		{Name: "var", Value: vi},
		{Name: "min", Value: ir.FromInt(0)},
		{Name: "extent", Value: ir.FromInt(4)},
		{Name: "body", Value: ir.NewSequence([]*ir.Node{n.InnerLoop})},
	})
	n.OuterBlock = ir.NewComposite("block", []ir.Field{
		{Name: "name", Value: ir.FromString("outer")},
		{Name: "bindings", Value: ir.NewSequence(nil)},
		{Name: "body", Value: ir.NewSequence([]*ir.Node{n.OuterLoop})},
	})
	n.Root = ir.NewComposite("func", []ir.Field{
		{Name: "name", Value: ir.FromString("nest")},
		{Name: "params", Value: ir.NewSequence([]*ir.Node{paramA})},
		{Name: "buffer_map", Value: ir.NewMapping([]ir.KeyVal{
			{Key: paramA, Val: bufA},
		})},
		{Name: "body", Value: ir.NewSequence([]*ir.Node{n.OuterBlock})},
	})
	return n
}
