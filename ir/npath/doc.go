// Package npath defines node paths: serializable addresses from the root
// of an IR tree to a node or field.
//
// A path is an ordered sequence of segments. Each segment is one of:
//
//   - Field: enter a named field of a composite, printed ".name"
//   - Index: enter position i of a sequence, printed "[3]"
//   - Key: enter the value for a key of a mapping, printed "[k]"
//   - Attr: a logical attribute alias such as ".value" on a boxed scalar
//
// The empty path denotes the tree root and prints as "<root>". Paths are
// pure data: they hold no reference into any tree and only gain meaning
// when resolved against a concrete root (see ir.Resolve).
//
// Example:
//
//	p := npath.Path{npath.Field("buffer_map"), npath.Key("b"),
//		npath.Field("shape"), npath.Index(1), npath.Attr("value")}
//	p.String() // "<root>.buffer_map[b].shape[1].value"
package npath
