package ropc

import "fmt"

const eof = -1

// Scanner keeps the state shared by all five grammars in the family
// (library, preprocess, macro-expansion, address-pass, final-pass):
// a rune cursor with line/column bookkeeping, trivia skipping, and
// the handful of lexical primitives (literal matching, range
// matching, backtracking) every one of those grammars is built from.
// This plays the same role the teacher's BaseParser plays for the PEG
// engine, trimmed down to what a small recursive-descent family of
// grammars over a single input needs: no multi-file locations, no
// capture/action machinery, no predicate-depth tracking, since none
// of the five grammars here use semantic predicates.
type Scanner struct {
	cursor int
	line   int
	column int
	input  []rune
}

func NewScanner(input string) *Scanner {
	return &Scanner{line: 1, column: 1, input: []rune(input)}
}

// Pos returns the scanner's current position.
func (s *Scanner) Pos() Position {
	return Position{Line: s.line, Column: s.column, Cursor: s.cursor}
}

// Mark/Reset implement simple backtracking: save a position, restore
// it if an alternative in the caller's grammar didn't pan out.
func (s *Scanner) Mark() Position { return s.Pos() }

// SpanFrom covers the text between a previously marked start position
// and the scanner's current position, for diagnostics that anchor to
// a whole failing construct rather than a single point.
func (s *Scanner) SpanFrom(start Position) Span {
	return Span{Start: start, End: s.Pos()}
}

func (s *Scanner) Reset(p Position) {
	s.cursor = p.Cursor
	s.line = p.Line
	s.column = p.Column
}

// Peek returns the rune under the cursor, or eof past the end of input.
func (s *Scanner) Peek() rune {
	return s.PeekAt(0)
}

func (s *Scanner) PeekAt(offset int) rune {
	idx := s.cursor + offset
	if idx >= len(s.input) {
		return eof
	}
	return s.input[idx]
}

func (s *Scanner) AtEOF() bool { return s.cursor >= len(s.input) }

// Advance consumes and returns the rune under the cursor.
func (s *Scanner) Advance() rune {
	c := s.Peek()
	if c == eof {
		return eof
	}
	s.cursor++
	if c == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	return c
}

// SkipTrivia skips whitespace and `//…`/`;…` end-of-line comments,
// which are ignored everywhere across all five grammars (spec.md §4.1).
func (s *Scanner) SkipTrivia() {
	for {
		switch {
		case s.Peek() == ' ' || s.Peek() == '\t' || s.Peek() == '\n' || s.Peek() == '\r':
			s.Advance()
		case s.Peek() == ';' || (s.Peek() == '/' && s.PeekAt(1) == '/'):
			for s.Peek() != '\n' && s.Peek() != eof {
				s.Advance()
			}
		default:
			return
		}
	}
}

// Literal consumes `lit` if it matches at the cursor, backtracking
// (and reporting a parseMiss) otherwise.
func (s *Scanner) Literal(lit string) error {
	start := s.Mark()
	for _, want := range lit {
		if s.Peek() != want {
			span := s.SpanFrom(start)
			s.Reset(start)
			return &parseMiss{expected: fmt.Sprintf("%q", lit), span: span}
		}
		s.Advance()
	}
	return nil
}

// TakeWhile consumes and returns the longest run of runes satisfying `pred`.
func (s *Scanner) TakeWhile(pred func(rune) bool) string {
	start := s.cursor
	for pred(s.Peek()) {
		s.Advance()
	}
	return string(s.input[start:s.cursor])
}

func isHexDigitLoose(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F') || r == 'x' || r == 'X'
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

func isSigilNameChar(r rune) bool {
	return r != eof && r != ' ' && r != '\t' && r != '\r' && r != '\n' && r != '('
}

func isFileNameChar(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' || r == '.'
}
