package render

import (
	"fmt"

	"github.com/tensorir/go-tir/ir"
	"github.com/tensorir/go-tir/ir/npath"
)

// Target addresses a node for underline and annotation requests, either
// by node path or by node identity. A path target marks the single
// textual occurrence the path denotes; an identity target marks every
// textual occurrence of the node, which for a shared variable is each
// of its use-sites.
type Target struct {
	path   npath.Path
	node   *ir.Node
	byPath bool
}

// ByPath addresses the one occurrence reached by walking p from the
// rendered root.
func ByPath(p npath.Path) Target {
	return Target{path: p, byPath: true}
}

// ByNode addresses every occurrence of n in the rendered text.
func ByNode(n *ir.Node) Target {
	return Target{node: n}
}

func (t Target) String() string {
	if t.byPath {
		return t.path.String()
	}
	if t.node == nil {
		return "node <nil>"
	}
	return fmt.Sprintf("node #%x", uint64(t.node.ID()))
}
