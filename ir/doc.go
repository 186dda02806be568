// Package ir defines the tree model for tensor-program IR: a tagged node
// representation with composite nodes (named fields in schema order),
// sequences, mappings, and leaf scalars.
//
// # Node structure
//
// A Node is a tagged union discriminated by Type:
//
//   - LeafType: a scalar (integer, float, string, boolean, opaque handle)
//   - CompositeType: a kinded node with named fields, e.g. "for" or "buffer"
//   - SequenceType: an ordered list of children
//   - MappingType: an ordered list of key/value pairs
//
// Containers own their children exclusively, with one deliberate
// exception: the same node object (typically a "var" or "buffer"
// composite) may be referenced from several use-sites. That is an
// identity relationship, not ownership, and is tracked through NodeID
// handles rather than pointers into the structure. Because of sharing,
// nodes carry no parent backlink; paths are produced by traversals.
//
// # Creating nodes
//
// Use the constructor functions; they assign the NodeID handle:
//
//	i := ir.FromInt(128)
//	v := ir.Var("vi", "int32")
//	loop := ir.NewComposite("for", []ir.Field{
//	    {Name: "var", Value: v},
//	    {Name: "min", Value: ir.FromInt(0)},
//	    {Name: "extent", Value: ir.FromInt(16)},
//	    {Name: "body", Value: body},
//	})
//
// Nodes are immutable for the duration of comparison and rendering; all
// operations in this module are read-only over them.
//
// # Paths
//
// Resolve applies an npath.Path to a tree. Paths produced while walking
// tree A are meaningful for tree B only if both trees share the same
// schema along every prefix; Resolve fails explicitly with a *PathError
// when a segment cannot be applied.
package ir
