package ir

import "testing"

func TestHashEqualStructure(t *testing.T) {
	a := NewComposite("var", []Field{
		{Name: "name", Value: FromString("x")},
		{Name: "dtype", Value: FromString("int32")},
	})
	b := NewComposite("var", []Field{
		{Name: "name", Value: FromString("x")},
		{Name: "dtype", Value: FromString("int32")},
	})
	if Hash(a) != Hash(b) {
		t.Errorf("structurally equal nodes hash differently")
	}
}

func TestHashDistinguishes(t *testing.T) {
	pairs := [][2]*Node{
		{FromInt(1), FromInt(2)},
		{FromInt(1), FromFloat(1)},
		{FromString("x"), FromHandle("x")},
		{FromBool(true), FromBool(false)},
		{NewSequence([]*Node{FromInt(1)}), NewSequence([]*Node{FromInt(1), FromInt(1)})},
		{Var("x", "int32"), Var("y", "int32")},
		{
			NewMapping([]KeyVal{{Key: FromString("a"), Val: FromInt(1)}}),
			NewMapping([]KeyVal{{Key: FromString("b"), Val: FromInt(1)}}),
		},
	}
	for i, p := range pairs {
		if Hash(p[0]) == Hash(p[1]) {
			t.Errorf("pair %d: distinct nodes hash equal", i)
		}
	}
}

func TestHashIgnoresIdentity(t *testing.T) {
	v := Var("x", "int32")
	shared := NewSequence([]*Node{v, v})
	fresh := NewSequence([]*Node{Var("x", "int32"), Var("x", "int32")})
	if Hash(shared) != Hash(fresh) {
		t.Errorf("identity sharing changed the structural hash")
	}
}
