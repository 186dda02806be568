package render

import "errors"

var (
	// ErrUnderlineTargetNotFound reports an underline or annotation
	// target that has no span in the rendered text and no printed
	// ancestor to fall back to.
	ErrUnderlineTargetNotFound = errors.New("underline target not found")

	// ErrAnnotationOnExpression reports an annotation request whose
	// target is not a statement-level node.
	ErrAnnotationOnExpression = errors.New("annotation target is not a statement")
)
