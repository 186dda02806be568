package ir

import (
	"fmt"

	"github.com/tensorir/go-tir/schema"
)

// CheckTree validates the preconditions the comparator and renderer
// assume: no parent/child cycles, container invariants (parallel slices
// of equal length), and every composite's kind and field set declared by
// the registry. A failure is a collaborator defect; callers treat it as
// fatal for the operation.
func CheckTree(root *Node, reg *schema.Registry) error {
	c := &checker{
		reg:     reg,
		onStack: map[NodeID]bool{},
		done:    map[NodeID]bool{},
	}
	return c.walk(root)
}

type checker struct {
	reg     *schema.Registry
	onStack map[NodeID]bool
	done    map[NodeID]bool
}

func (c *checker) walk(n *Node) error {
	if n == nil {
		return fmt.Errorf("%w: nil node", ErrSchemaViolation)
	}
	if c.onStack[n.id] {
		return fmt.Errorf("%w: node %d is its own ancestor", ErrCyclicTree, n.id)
	}
	if c.done[n.id] {
		// Shared use-site; the subtree was already validated.
		return nil
	}
	c.onStack[n.id] = true
	defer delete(c.onStack, n.id)

	switch n.Type {
	case LeafType:
	case CompositeType:
		if err := c.checkComposite(n); err != nil {
			return err
		}
	case SequenceType:
		for _, v := range n.Values {
			if err := c.walk(v); err != nil {
				return err
			}
		}
	case MappingType:
		if len(n.Keys) != len(n.Values) {
			return fmt.Errorf("%w: mapping with %d keys and %d values",
				ErrSchemaViolation, len(n.Keys), len(n.Values))
		}
		for i, k := range n.Keys {
			if err := c.walk(k); err != nil {
				return err
			}
			if err := c.walk(n.Values[i]); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: unknown node type %d", ErrSchemaViolation, n.Type)
	}
	c.done[n.id] = true
	return nil
}

func (c *checker) checkComposite(n *Node) error {
	def, err := c.reg.MustLookup(n.Kind)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaViolation, err)
	}
	if len(n.Fields) != len(n.Values) {
		return fmt.Errorf("%w: %q composite with %d field names and %d values",
			ErrSchemaViolation, n.Kind, len(n.Fields), len(n.Values))
	}
	seen := map[string]bool{}
	for _, f := range n.Fields {
		if def.Field(f) == nil {
			return fmt.Errorf("%w: kind %q does not declare field %q",
				ErrSchemaViolation, n.Kind, f)
		}
		if seen[f] {
			return fmt.Errorf("%w: kind %q field %q set twice",
				ErrSchemaViolation, n.Kind, f)
		}
		seen[f] = true
	}
	for _, v := range n.Values {
		if err := c.walk(v); err != nil {
			return err
		}
	}
	return nil
}
