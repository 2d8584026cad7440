package ropc

import "fmt"

// ErrorKind classifies a CompileError. The set is exactly the one
// spec'd for the compiler: one kind per way the pipeline can refuse
// to produce a block.
type ErrorKind int

const (
	ErrParse ErrorKind = iota
	ErrUndefinedSymbol
	ErrArityMismatch
	ErrExpansionDiverged
	ErrDuplicateLabel
	ErrUnresolvedLabel
	ErrMalformedEndian
	ErrOverwriteOutOfRange
	ErrBudgetExceeded
)

func (k ErrorKind) String() string {
	return [...]string{
		"ParseError",
		"UndefinedSymbol",
		"ArityMismatch",
		"ExpansionDiverged",
		"DuplicateLabel",
		"UnresolvedLabel",
		"MalformedEndian",
		"OverwriteOutOfRange",
		"BudgetExceeded",
	}[k]
}

// CompileError is the error type the pipeline stages construct for
// their own failures (a parse miss that no caller recovers from is
// returned as a *parseMiss instead; see below). It plays the same role
// the teacher's ParsingError plays for the PEG parser: it carries the
// error kind, a message and a span for a host to render a diagnostic.
// Error() prints Construct when it is set; no stage currently sets it.
type CompileError struct {
	Kind      ErrorKind
	Message   string
	Construct string
	Span      Span
}

func (e CompileError) Error() string {
	if e.Construct == "" {
		return fmt.Sprintf("%s: %s @ %s", e.Kind, e.Message, e.Span)
	}
	return fmt.Sprintf("%s: %s (%q) @ %s", e.Kind, e.Message, e.Construct, e.Span)
}

// newCompileError anchors a diagnostic to a single point; most of the
// pipeline's failures (an unexpected token, an undefined symbol) only
// have one position worth reporting.
func newCompileError(kind ErrorKind, pos Position, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Span: spanAt(pos)}
}

// newCompileErrorSpan anchors a diagnostic to the whole failing
// construct (its start through its current position), the way
// `base_parser.go`'s `NewError(exp, msg, span Span)` always does.
func newCompileErrorSpan(kind ErrorKind, span Span, format string, args ...any) *CompileError {
	return &CompileError{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

// parseMiss is an internal, backtracking-only error used while a
// recursive-descent parser tries alternatives (e.g. "is this a ggt
// call or a bare hex byte?"); mirrors the teacher's
// backtrackingError/ParsingError split, where only one kind is meant
// to be caught mid-parse. A miss that no alternative recovers from
// (e.g. a `def $z` with no `{` body) is returned as is, so Preprocess,
// LoadLibrary, ExpandBlock, ResolveLabels, Emit and Compile can return
// a *parseMiss rather than a *CompileError with kind ErrParse.
type parseMiss struct {
	expected string
	span     Span
}

func (e *parseMiss) Error() string {
	return fmt.Sprintf("expected %s @ %s", e.expected, e.span)
}

func isParseMiss(err error) bool {
	_, ok := err.(*parseMiss)
	return ok
}
