package ropc

// ResolveLabels runs the pass-1 address layout (spec.md §4.5) over a
// fully macro-expanded block body: a left-to-right walk that resolves
// every expression to a byte count (labels read as the placeholder
// `0000`, `x`/`X` hex digits always counted as `0`) and records each
// `@adr.NAME` at its `(absolute, relative)` address. `@overwrite` and
// `@x=` directives are recognized (so layout is not thrown off by
// their syntax) but otherwise discarded — pass 1 only cares about
// byte counts and label positions.
func ResolveLabels(body string) (LabelMap, error) {
	sc := NewScanner(body)
	labels := LabelMap{}
	offset := 0
	byteCount := 0

	resolve := func(name string, relative bool, pos Position) (string, error) {
		return "0000", nil
	}
	const xDigit = '0'

	for {
		sc.SkipTrivia()
		if sc.AtEOF() {
			return labels, nil
		}

		if sc.Peek() != '@' {
			hex, err := evalExpr(sc, resolve, xDigit)
			if err != nil {
				return nil, err
			}
			byteCount += len(hex) / 2
			continue
		}

		switch {
		case tryLiteral(sc, "@offset="):
			digits, err := readExactHex(sc, 4)
			if err != nil {
				return nil, err
			}
			offset = int(hexToBig(digits).Int64())

		case tryLiteral(sc, "@rstoffst"):
			byteCount = 0

		case tryLiteral(sc, "@adr."):
			name := sc.TakeWhile(isIdentCont)
			if name == "" {
				return nil, newCompileError(ErrParse, sc.Pos(), "expected label name after @adr.")
			}
			if _, exists := labels[name]; exists {
				return nil, newCompileError(ErrDuplicateLabel, sc.Pos(), "label %q declared twice", name)
			}
			labels[name] = LabelEntry{
				Absolute: hex4(offset + byteCount),
				Relative: hex4(byteCount),
			}

		case tryLiteral(sc, "@overwrite("):
			if err := skipBalancedParens(sc); err != nil {
				return nil, err
			}

		case tryLiteral(sc, "@x="):
			if _, err := readExactHex(sc, 1); err != nil {
				return nil, err
			}

		default:
			return nil, newCompileError(ErrParse, sc.Pos(), "unrecognized directive")
		}
	}
}

// tryLiteral consumes lit if it matches at the cursor, reporting
// whether it matched. Scanner.Literal already rewinds on mismatch, so
// there is nothing else to undo on failure.
func tryLiteral(sc *Scanner, lit string) bool {
	return sc.Literal(lit) == nil
}

// readExactHex reads exactly n hex digits, failing otherwise.
func readExactHex(sc *Scanner, n int) (string, error) {
	start := sc.Pos()
	digits := sc.TakeWhile(isHexDigit)
	if len(digits) != n {
		return "", newCompileError(ErrParse, start, "expected exactly %d hex digit(s)", n)
	}
	return digits, nil
}

// skipBalancedParens consumes up to (and including) the `)` that
// closes the `(` already consumed by the caller, without attempting
// to evaluate what's inside — pass 1 discards `@overwrite` entirely.
func skipBalancedParens(sc *Scanner) error {
	depth := 1
	for {
		switch sc.Peek() {
		case eof:
			return newCompileError(ErrParse, sc.Pos(), "unterminated @overwrite(...)")
		case '(':
			depth++
			sc.Advance()
		case ')':
			depth--
			sc.Advance()
			if depth == 0 {
				return nil
			}
		default:
			sc.Advance()
		}
	}
}

func hex4(v int) string {
	v &= 0xFFFF
	const hexDigits = "0123456789abcdef"
	return string([]byte{
		hexDigits[(v>>12)&0xF],
		hexDigits[(v>>8)&0xF],
		hexDigits[(v>>4)&0xF],
		hexDigits[v&0xF],
	})
}
