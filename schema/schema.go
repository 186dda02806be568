package schema

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownKind  = errors.New("unknown kind")
	ErrBadKindDef   = errors.New("bad kind definition")
	ErrDuplicateDef = errors.New("duplicate kind definition")
)

// FieldDef describes one field of a composite kind. Binder marks a field
// whose variables bind over the fields declared after it (a loop
// variable over the loop body, parameters over a function body).
type FieldDef struct {
	Name   string
	Binder bool
}

// KindDef describes a composite kind: its fields in canonical order and
// its classification.
type KindDef struct {
	Name string

	// Fields in canonical order. Comparison and rendering follow this
	// order, not the insertion order at the construction site.
	Fields []FieldDef

	// Stmt classifies the kind as statement-like. Annotation requests
	// are only valid on statement-like kinds.
	Stmt bool

	// Variable marks the kind whose occurrences participate in
	// alpha-equivalent binding comparison.
	Variable bool
}

// Field returns the descriptor of the named field, or nil.
func (k *KindDef) Field(name string) *FieldDef {
	for i := range k.Fields {
		if k.Fields[i].Name == name {
			return &k.Fields[i]
		}
	}
	return nil
}

// Registry is a fixed table of kind definitions.
type Registry struct {
	kinds map[string]*KindDef
}

func NewRegistry() *Registry {
	return &Registry{kinds: map[string]*KindDef{}}
}

func (r *Registry) Register(def *KindDef) error {
	if def.Name == "" {
		return fmt.Errorf("%w: empty kind name", ErrBadKindDef)
	}
	seen := map[string]bool{}
	for _, f := range def.Fields {
		if f.Name == "" {
			return fmt.Errorf("%w: kind %q has an empty field name", ErrBadKindDef, def.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("%w: kind %q declares field %q twice", ErrBadKindDef, def.Name, f.Name)
		}
		seen[f.Name] = true
	}
	if _, ok := r.kinds[def.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateDef, def.Name)
	}
	r.kinds[def.Name] = def
	return nil
}

func (r *Registry) MustRegister(def *KindDef) {
	if err := r.Register(def); err != nil {
		panic(err)
	}
}

// Lookup returns the definition for a kind, or nil.
func (r *Registry) Lookup(kind string) *KindDef {
	return r.kinds[kind]
}

// MustLookup returns the definition for a kind, or an ErrUnknownKind.
func (r *Registry) MustLookup(kind string) (*KindDef, error) {
	def := r.kinds[kind]
	if def == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return def, nil
}
