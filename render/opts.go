package render

import "github.com/tensorir/go-tir/schema"

type annotation struct {
	target Target
	label  string
}

type config struct {
	reg       *schema.Registry
	sugar     bool
	lineWidth int
	showMeta  bool

	underlines  []Target
	annotations []annotation
}

type Option func(*config)

// WithSchema sets the kind registry consulted for canonical field order
// and statement classification. Defaults to schema.Builtin().
func WithSchema(reg *schema.Registry) Option {
	return func(c *config) { c.reg = reg }
}

// Sugar folds axis bindings that carry a source into a single remap
// line per block. Off by default.
func Sugar(v bool) Option {
	return func(c *config) { c.sugar = v }
}

// LineWidth makes bracketed lists and call arguments wrap onto
// continuation lines once a line reaches w display cells. Zero, the
// default, never wraps.
func LineWidth(w int) Option {
	return func(c *config) { c.lineWidth = w }
}

// ShowMetadata prints variable dtypes at binding sites and numbers
// blocks in visitation order.
func ShowMetadata(v bool) Option {
	return func(c *config) { c.showMeta = v }
}

// Underline requests caret lines below each target's text.
func Underline(targets ...Target) Option {
	return func(c *config) { c.underlines = append(c.underlines, targets...) }
}

// Annotate requests a comment line with the label above the target,
// which must be a statement-level node.
func Annotate(t Target, label string) Option {
	return func(c *config) { c.annotations = append(c.annotations, annotation{t, label}) }
}
