// Package schema holds the kind schema table the comparator and
// renderer consult: per-kind field descriptors in canonical order,
// statement-vs-expression classification, and binder declarations.
//
// The schema is a fixed table supplied with the tree, not something the
// core infers. Field order used for comparison and printing is data
// here, never duplicated logic in the consumers: re-ordering fields at a
// construction site can never change a comparison report or a rendering.
package schema
