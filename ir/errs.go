package ir

import "errors"

var (
	// ErrCyclicTree reports a parent/child cycle: a collaborator defect,
	// not a runtime condition to recover from.
	ErrCyclicTree = errors.New("cyclic tree")

	// ErrSchemaViolation reports a composite claiming a kind or field
	// its schema does not declare.
	ErrSchemaViolation = errors.New("schema violation")

	// ErrPathNotFound reports a path segment that cannot be applied to
	// the tree it is resolved against.
	ErrPathNotFound = errors.New("path not found")
)
