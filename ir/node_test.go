package ir

import (
	"testing"
)

func TestConstructorsAssignIDs(t *testing.T) {
	nodes := []*Node{
		FromInt(1),
		FromFloat(1.5),
		FromString("x"),
		FromBool(true),
		FromHandle("h"),
		NewSequence(nil),
		NewMapping(nil),
		NewComposite("var", nil),
	}
	seen := map[NodeID]bool{}
	for i, n := range nodes {
		if n.ID() == 0 {
			t.Errorf("node %d has zero ID", i)
		}
		if seen[n.ID()] {
			t.Errorf("node %d reuses ID %d", i, n.ID())
		}
		seen[n.ID()] = true
	}
}

func TestGet(t *testing.T) {
	v := Var("i", "int32")
	if got := Get(v, "name"); got == nil || got.Str != "i" {
		t.Errorf("Get(name) = %v", got)
	}
	if got := Get(v, "dtype"); got == nil || got.Str != "int32" {
		t.Errorf("Get(dtype) = %v", got)
	}
	if got := Get(v, "missing"); got != nil {
		t.Errorf("Get(missing) = %v, want nil", got)
	}
	if got := Get(FromInt(1), "name"); got != nil {
		t.Errorf("Get on leaf = %v, want nil", got)
	}
}

func TestKeyString(t *testing.T) {
	tests := []struct {
		name string
		node *Node
		want string
	}{
		{"int leaf", FromInt(128), "128"},
		{"string leaf", FromString("b"), "b"},
		{"bool leaf", FromBool(true), "true"},
		{"float leaf", FromFloat(0), "0.0"},
		{"handle leaf", FromHandle("hdl"), "hdl"},
		{"var", Var("b", "handle"), "b"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KeyString(tt.node); got != tt.want {
				t.Errorf("KeyString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScalarStringFloats(t *testing.T) {
	if got := ScalarString(FromFloat(1)); got != "1.0" {
		t.Errorf("whole float = %q, want 1.0", got)
	}
	if got := ScalarString(FromFloat(1.25)); got != "1.25" {
		t.Errorf("fractional float = %q", got)
	}
}

func TestVisitOrder(t *testing.T) {
	tree := NewSequence([]*Node{
		FromInt(1),
		NewSequence([]*Node{FromInt(2)}),
	})
	var pre, post []Type
	err := tree.Visit(func(n *Node, isPost bool) (bool, error) {
		if isPost {
			post = append(post, n.Type)
		} else {
			pre = append(pre, n.Type)
		}
		return true, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(pre) != 4 || len(post) != 4 {
		t.Fatalf("pre=%v post=%v", pre, post)
	}
	if pre[0] != SequenceType || pre[1] != LeafType {
		t.Errorf("pre-order wrong: %v", pre)
	}
	if post[len(post)-1] != SequenceType {
		t.Errorf("post-order wrong: %v", post)
	}
}

func TestVisitSkipsChildren(t *testing.T) {
	tree := NewSequence([]*Node{FromInt(1), FromInt(2)})
	count := 0
	err := tree.Visit(func(n *Node, isPost bool) (bool, error) {
		if !isPost {
			count++
		}
		return false, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("visited %d nodes, want 1", count)
	}
}
