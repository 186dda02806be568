package diff

import (
	"fmt"

	"github.com/tensorir/go-tir/ir/npath"
)

// Reason classifies a divergence. All reasons are normal comparator
// outcomes, not errors.
type Reason int

const (
	KindMismatch Reason = iota
	ValueMismatch
	LengthMismatch
	MissingField
	ExtraField
)

func (r Reason) String() string {
	switch r {
	case KindMismatch:
		return "kind mismatch"
	case ValueMismatch:
		return "value mismatch"
	case LengthMismatch:
		return "length mismatch"
	case MissingField:
		return "missing field"
	case ExtraField:
		return "extra field"
	}
	return "unknown"
}

// Mismatch names the first divergent position on each side. It carries
// no reference into either tree and is safe to pass across component
// boundaries.
type Mismatch struct {
	LHS    npath.Path
	RHS    npath.Path
	Reason Reason
	Detail string
}

func (m *Mismatch) String() string {
	if m.Detail == "" {
		return fmt.Sprintf("%s at %s | %s", m.Reason, m.LHS, m.RHS)
	}
	return fmt.Sprintf("%s at %s | %s: %s", m.Reason, m.LHS, m.RHS, m.Detail)
}
