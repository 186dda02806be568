package schema

import (
	"errors"
	"testing"
)

func TestBuiltinKinds(t *testing.T) {
	r := Builtin()
	tests := []struct {
		kind     string
		fields   []string
		stmt     bool
		variable bool
	}{
		{"func", []string{"name", "params", "buffer_map", "body"}, true, false},
		{"var", []string{"name", "dtype"}, false, true},
		{"buffer", []string{"name", "dtype", "shape"}, false, false},
		{"for", []string{"var", "min", "extent", "body"}, true, false},
		{"block", []string{"name", "bindings", "body"}, true, false},
		{"let", []string{"value", "var", "body"}, true, false},
		{"store", []string{"buffer", "indices", "value"}, true, false},
		{"load", []string{"buffer", "indices"}, false, false},
		{"call", []string{"op", "args"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			def := r.Lookup(tt.kind)
			if def == nil {
				t.Fatalf("kind %q not registered", tt.kind)
			}
			if len(def.Fields) != len(tt.fields) {
				t.Fatalf("kind %q has %d fields, want %d", tt.kind, len(def.Fields), len(tt.fields))
			}
			for i, name := range tt.fields {
				if def.Fields[i].Name != name {
					t.Errorf("field %d = %q, want %q", i, def.Fields[i].Name, name)
				}
			}
			if def.Stmt != tt.stmt {
				t.Errorf("Stmt = %v, want %v", def.Stmt, tt.stmt)
			}
			if def.Variable != tt.variable {
				t.Errorf("Variable = %v, want %v", def.Variable, tt.variable)
			}
		})
	}
}

func TestBinderFields(t *testing.T) {
	r := Builtin()
	binders := map[string][]string{
		"func":      {"params", "buffer_map"},
		"for":       {"var"},
		"let":       {"var"},
		"block":     {"bindings"},
		"axis_bind": {"var"},
	}
	for kind, want := range binders {
		def := r.Lookup(kind)
		if def == nil {
			t.Fatalf("kind %q not registered", kind)
		}
		var got []string
		for _, f := range def.Fields {
			if f.Binder {
				got = append(got, f.Name)
			}
		}
		if len(got) != len(want) {
			t.Fatalf("kind %q binder fields = %v, want %v", kind, got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("kind %q binder fields = %v, want %v", kind, got, want)
			}
		}
	}
}

func TestRegisterErrors(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&KindDef{}); !errors.Is(err, ErrBadKindDef) {
		t.Errorf("empty name: got %v, want ErrBadKindDef", err)
	}
	if err := r.Register(&KindDef{Name: "x", Fields: []FieldDef{{Name: "a"}, {Name: "a"}}}); !errors.Is(err, ErrBadKindDef) {
		t.Errorf("duplicate field: got %v, want ErrBadKindDef", err)
	}
	if err := r.Register(&KindDef{Name: "x", Fields: []FieldDef{{Name: "a"}}}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := r.Register(&KindDef{Name: "x"}); !errors.Is(err, ErrDuplicateDef) {
		t.Errorf("duplicate kind: got %v, want ErrDuplicateDef", err)
	}
	if _, err := r.MustLookup("y"); !errors.Is(err, ErrUnknownKind) {
		t.Errorf("unknown kind: got %v, want ErrUnknownKind", err)
	}
}
