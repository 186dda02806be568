package schema

// Builtin returns the registry of tensor-program kinds. Callers with
// their own node kinds can build a Registry of their own; nothing in the
// comparator or renderer is specific to this table beyond defaults.
func Builtin() *Registry {
	r := NewRegistry()
	for _, def := range []*KindDef{
		{
			Name: "func",
			Fields: []FieldDef{
				{Name: "name"},
				{Name: "params", Binder: true},
				{Name: "buffer_map", Binder: true},
				{Name: "body"},
			},
			Stmt: true,
		},
		{
			Name: "var",
			Fields: []FieldDef{
				{Name: "name"},
				{Name: "dtype"},
			},
			Variable: true,
		},
		{
			Name: "buffer",
			Fields: []FieldDef{
				{Name: "name"},
				{Name: "dtype"},
				{Name: "shape"},
			},
		},
		{
			Name: "for",
			Fields: []FieldDef{
				{Name: "var", Binder: true},
				{Name: "min"},
				{Name: "extent"},
				{Name: "body"},
			},
			Stmt: true,
		},
		{
			Name: "block",
			Fields: []FieldDef{
				{Name: "name"},
				{Name: "bindings", Binder: true},
				{Name: "body"},
			},
			Stmt: true,
		},
		{
			Name: "axis_bind",
			Fields: []FieldDef{
				{Name: "var", Binder: true},
				{Name: "kind"},
				{Name: "extent"},
				{Name: "source"},
			},
			Stmt: true,
		},
		{
			Name: "let",
			// value precedes the binder: the bound variable scopes over
			// the body only, so a self-reference in the value is unbound.
			Fields: []FieldDef{
				{Name: "value"},
				{Name: "var", Binder: true},
				{Name: "body"},
			},
			Stmt: true,
		},
		{
			Name: "load",
			Fields: []FieldDef{
				{Name: "buffer"},
				{Name: "indices"},
			},
		},
		{
			Name: "store",
			Fields: []FieldDef{
				{Name: "buffer"},
				{Name: "indices"},
				{Name: "value"},
			},
			Stmt: true,
		},
		{
			Name: "call",
			Fields: []FieldDef{
				{Name: "op"},
				{Name: "args"},
			},
		},
		{
			Name: "eval",
			Fields: []FieldDef{
				{Name: "value"},
			},
			Stmt: true,
		},
	} {
		r.MustRegister(def)
	}
	return r
}
