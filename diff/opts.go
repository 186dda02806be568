package diff

import "github.com/tensorir/go-tir/schema"

type config struct {
	alpha    bool
	floatTol float64
	reg      *schema.Registry
}

type Option func(*config)

// AlphaEquivalent makes bound variables compare by binding position
// instead of surface name.
func AlphaEquivalent(v bool) Option {
	return func(c *config) { c.alpha = v }
}

// FloatTolerance sets the absolute tolerance for float leaf equality.
// The default is exact comparison.
func FloatTolerance(tol float64) Option {
	return func(c *config) { c.floatTol = tol }
}

// WithSchema sets the kind registry consulted for canonical field order
// and variable classification. Defaults to schema.Builtin().
func WithSchema(reg *schema.Registry) Option {
	return func(c *config) { c.reg = reg }
}
