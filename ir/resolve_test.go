package ir

import (
	"errors"
	"testing"

	"github.com/tensorir/go-tir/ir/npath"
)

func sampleTree() *Node {
	a := Var("a", "handle")
	bufA := NewComposite("buffer", []Field{
		{Name: "name", Value: FromString("A")},
		{Name: "dtype", Value: FromString("float32")},
		{Name: "shape", Value: NewSequence([]*Node{FromInt(16), FromInt(128)})},
	})
	return NewComposite("func", []Field{
		{Name: "name", Value: FromString("main")},
		{Name: "params", Value: NewSequence([]*Node{a})},
		{Name: "buffer_map", Value: NewMapping([]KeyVal{{Key: a, Val: bufA}})},
		{Name: "body", Value: NewSequence(nil)},
	})
}

func TestResolve(t *testing.T) {
	root := sampleTree()
	tests := []struct {
		path string
		want func(n *Node) bool
	}{
		{"<root>", func(n *Node) bool { return n == root }},
		{"<root>.name", func(n *Node) bool { return n.Str == "main" }},
		{"<root>.params[0]", func(n *Node) bool { return n.Kind == "var" }},
		{"<root>.params[0].name", func(n *Node) bool { return n.Str == "a" }},
		{"<root>.buffer_map[a]", func(n *Node) bool { return n.Kind == "buffer" }},
		{"<root>.buffer_map[a].shape[1]", func(n *Node) bool { return n.Int64 != nil && *n.Int64 == 128 }},
		// Trailing .value addresses the leaf's own boxed value.
		{"<root>.buffer_map[a].shape[1].value", func(n *Node) bool { return n.Int64 != nil && *n.Int64 == 128 }},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := npath.Parse(tt.path)
			if err != nil {
				t.Fatal(err)
			}
			got, err := Resolve(root, p)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !tt.want(got) {
				t.Errorf("Resolve(%s) = %+v", tt.path, got)
			}
		})
	}
}

func TestResolveAttrSegment(t *testing.T) {
	root := sampleTree()
	p := npath.Path{npath.Field("buffer_map"), npath.Key("a"), npath.Field("shape"),
		npath.Index(1), npath.Attr("value")}
	got, err := Resolve(root, p)
	if err != nil {
		t.Fatal(err)
	}
	if got.Int64 == nil || *got.Int64 != 128 {
		t.Errorf("attr resolve = %+v", got)
	}
}

func TestResolveNotFound(t *testing.T) {
	root := sampleTree()
	tests := []struct {
		path   string
		prefix int
	}{
		{"<root>.missing", 0},
		{"<root>.params[4]", 1},
		{"<root>.params[0].rank", 2},
		{"<root>.buffer_map[z]", 1},
		{"<root>.name[0]", 1},
		{"<root>.buffer_map[a].shape[1].weight", 4},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			p, err := npath.Parse(tt.path)
			if err != nil {
				t.Fatal(err)
			}
			_, err = Resolve(root, p)
			if !errors.Is(err, ErrPathNotFound) {
				t.Fatalf("got %v, want ErrPathNotFound", err)
			}
			var pe *PathError
			if !errors.As(err, &pe) {
				t.Fatalf("error is not a *PathError: %v", err)
			}
			if pe.Prefix != tt.prefix {
				t.Errorf("Prefix = %d, want %d", pe.Prefix, tt.prefix)
			}
		})
	}
}

func TestResolveDoesNotMutate(t *testing.T) {
	root := sampleTree()
	before := Hash(root)
	p := npath.MustParse("<root>.buffer_map[a].shape[0]")
	if _, err := Resolve(root, p); err != nil {
		t.Fatal(err)
	}
	if Hash(root) != before {
		t.Errorf("Resolve mutated the tree")
	}
}
