// Package render prints IR trees as indented, script-like text and
// reports where every node landed in that text.
//
// Rendering is deterministic: the same tree and options always produce
// the same text and the same spans. Mapping entries print in the
// canonical key order the comparator uses, and composite fields follow
// the schema's canonical field order, so two structurally equal trees
// render identically regardless of construction order.
//
// Beyond plain printing, a render can carry overlays: underline requests
// mark spans with caret lines below the text they target, and annotation
// requests insert comment lines above statement-level nodes. Both kinds
// of request address their target either by node path or by node
// identity; see Target.
package render
