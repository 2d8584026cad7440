package ropc

import "fmt"

// Position identifies a single point in the source text: a 0-based
// byte cursor plus the 1-based line/column derived from it. It plays
// the same role as the teacher's Location, stripped of the multi-file
// FileID field since a compilation here always walks a single source
// string (plus, transiently, one library file at a time).
type Position struct {
	Line   int
	Column int
	Cursor int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Span covers the text between two positions; CompileError anchors
// its diagnostics here the same way the teacher's ParsingError
// anchors to a Span.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	if s.Start == s.End {
		return s.Start.String()
	}
	return fmt.Sprintf("%s..%s", s.Start, s.End)
}

// spanAt builds a zero-width Span anchored at a single position, for
// the common case where a diagnostic has a point of failure but no
// meaningfully distinct start/end (e.g. "expected a hex digit here").
func spanAt(p Position) Span {
	return Span{Start: p, End: p}
}
