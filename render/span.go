package render

// Span is a half-open region of the rendered text. Lines are 0-based;
// columns are 0-based display cells (wide runes count as two), with
// EndCol exclusive. A statement's span starts at the first cell of its
// opening line and ends after the last cell of its final line, so the
// span of a loop covers the loop body.
type Span struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

func (s Span) before(t Span) bool {
	if s.StartLine != t.StartLine {
		return s.StartLine < t.StartLine
	}
	return s.StartCol < t.StartCol
}
