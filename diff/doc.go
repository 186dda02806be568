// Package diff compares two IR trees structurally and reports the first
// point of divergence as a pair of navigable node paths.
//
// Comparison is pre-order, deterministic, and fail-fast: both trees are
// walked in lockstep and the first mismatch in traversal order is
// returned; there is no attempt to find a better alignment or to
// aggregate further mismatches. Callers wanting more than one divergence
// correct the first and compare again.
//
//	m, err := diff.Compare(lhs, rhs)
//	if err != nil {
//	    // malformed input (cycle, schema violation): collaborator defect
//	}
//	if m == nil {
//	    // trees are structurally equal
//	}
//
// A nil *Mismatch is the normal "equal" outcome, never an error.
//
// With AlphaEquivalent(true), bound variables are matched by binding
// position instead of surface name: a bijection between variable
// identities is pushed as the traversal enters binder scopes (loops,
// functions, lets, blocks) and popped on exit.
package diff
