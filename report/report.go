// Package report formats comparison results for people: each side's
// rendering opened to the divergence, the divergent text underlined,
// and the two values spelled out.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/tensorir/go-tir/diff"
	"github.com/tensorir/go-tir/ir"
	"github.com/tensorir/go-tir/ir/npath"
	"github.com/tensorir/go-tir/render"
	"github.com/tensorir/go-tir/schema"
)

type config struct {
	reg     *schema.Registry
	color   bool
	sugar   bool
	context int
}

type Option func(*config)

// WithColor toggles ANSI colors. Off by default; the CLI switches it on
// for terminals.
func WithColor(v bool) Option {
	return func(c *config) { c.color = v }
}

// Sugar is forwarded to the renderer.
func Sugar(v bool) Option {
	return func(c *config) { c.sugar = v }
}

// WithSchema is forwarded to the renderer.
func WithSchema(reg *schema.Registry) Option {
	return func(c *config) { c.reg = reg }
}

// Context sets how many lines around the divergence each side shows.
func Context(n int) Option {
	return func(c *config) { c.context = n }
}

// Write formats the outcome of comparing lhs and rhs. A nil mismatch
// reports equality.
func Write(w io.Writer, lhs, rhs *ir.Node, m *diff.Mismatch, opts ...Option) error {
	cfg := &config{reg: schema.Builtin(), context: 2}
	for _, opt := range opts {
		opt(cfg)
	}
	p := newPainter(cfg.color)

	if m == nil {
		_, err := fmt.Fprintln(w, p.good("trees are structurally equal"))
		return err
	}

	if _, err := fmt.Fprintln(w, p.head(m.String())); err != nil {
		return err
	}
	if err := writeSide(w, cfg, p, "lhs", lhs, m.LHS); err != nil {
		return err
	}
	if err := writeSide(w, cfg, p, "rhs", rhs, m.RHS); err != nil {
		return err
	}
	return writeValues(w, cfg, p, lhs, rhs, m)
}

func writeSide(w io.Writer, cfg *config, p painter, label string, root *ir.Node, at npath.Path) error {
	res, err := render.Render(root,
		render.WithSchema(cfg.reg),
		render.Sugar(cfg.sugar),
		render.Underline(render.ByPath(at)))
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s: %s\n", p.side(label), at.String()); err != nil {
		return err
	}

	out := res.Underlines[0]
	lines := strings.Split(strings.TrimSuffix(res.Text, "\n"), "\n")
	focus := 0
	if len(out.Spans) > 0 {
		focus = out.Spans[0].StartLine
	}
	lo := focus - cfg.context
	if lo < 0 {
		lo = 0
	}
	hi := focus + 1 + cfg.context // include the caret line
	if hi >= len(lines) {
		hi = len(lines) - 1
	}
	for i := lo; i <= hi; i++ {
		ln := lines[i]
		if strings.Trim(ln, " ^") == "" && strings.Contains(ln, "^") {
			ln = p.bad(ln)
		}
		if _, err := fmt.Fprintf(w, "  %s\n", ln); err != nil {
			return err
		}
	}
	return nil
}

// writeValues prints the two leaf values for a value mismatch, with an
// inline character diff when both are strings.
func writeValues(w io.Writer, cfg *config, p painter, lhs, rhs *ir.Node, m *diff.Mismatch) error {
	if m.Reason != diff.ValueMismatch {
		return nil
	}
	lv, lerr := ir.Resolve(lhs, m.LHS)
	rv, rerr := ir.Resolve(rhs, m.RHS)
	if lerr != nil || rerr != nil {
		return nil
	}
	if lv.Type != ir.LeafType || rv.Type != ir.LeafType {
		return nil
	}
	if lv.Scalar == ir.StringScalar && rv.Scalar == ir.StringScalar {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(lv.Str, rv.Str, false)
		_, err := fmt.Fprintf(w, "  value: %q vs %q (%s | %s)\n",
			lv.Str, rv.Str, inline(p, diffs, false), inline(p, diffs, true))
		return err
	}
	_, err := fmt.Fprintf(w, "  value: %s vs %s\n", ir.ScalarString(lv), ir.ScalarString(rv))
	return err
}

// inline flattens a character diff into one side's string, coloring the
// segments unique to that side.
func inline(p painter, diffs []diffmatchpatch.Diff, right bool) string {
	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			if !right {
				b.WriteString(p.bad(d.Text))
			}
		case diffmatchpatch.DiffInsert:
			if right {
				b.WriteString(p.good(d.Text))
			}
		}
	}
	return b.String()
}

type painter struct {
	head, side, good, bad func(a ...interface{}) string
}

func newPainter(colored bool) painter {
	if !colored {
		plain := fmt.Sprint
		return painter{head: plain, side: plain, good: plain, bad: plain}
	}
	return painter{
		head: color.New(color.FgRed, color.Bold).SprintFunc(),
		side: color.New(color.FgCyan, color.Bold).SprintFunc(),
		good: color.New(color.FgGreen).SprintFunc(),
		bad:  color.New(color.FgRed).SprintFunc(),
	}
}
