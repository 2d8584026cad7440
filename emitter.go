package ropc

import (
	"strings"
)

// Emit runs the pass-2 final emission (spec.md §4.6) over a fully
// macro-expanded block body, given the label map pass 1 built for it.
// It resolves every `#NAME`/`##NAME` to its real address, honors
// `@x=` placeholder updates as it goes, collects `@overwrite` patches,
// and applies them — in the order first recorded, a later patch at
// the same address only updating the value in place — once emission
// is done. The result is uppercase hex.
func Emit(body string, labels LabelMap) (string, error) {
	sc := NewScanner(body)
	var out strings.Builder

	xDigit := byte('0')
	var overwrites []Overwrite
	overwriteIndex := map[string]int{}

	resolve := func(name string, relative bool, pos Position) (string, error) {
		entry, ok := labels[name]
		if !ok {
			return "", newCompileError(ErrUnresolvedLabel, pos, "undeclared label %q", name)
		}
		if relative {
			return entry.Relative, nil
		}
		return entry.Absolute, nil
	}

	for {
		sc.SkipTrivia()
		if sc.AtEOF() {
			break
		}

		if sc.Peek() != '@' {
			hex, err := evalExpr(sc, resolve, rune(xDigit))
			if err != nil {
				return "", err
			}
			out.WriteString(hex)
			continue
		}

		switch {
		case tryLiteral(sc, "@offset="):
			if _, err := readExactHex(sc, 4); err != nil {
				return "", err
			}

		case tryLiteral(sc, "@rstoffst"):
			// no effect on emission; labels already resolved in pass 1

		case tryLiteral(sc, "@adr."):
			if name := sc.TakeWhile(isIdentCont); name == "" {
				return "", newCompileError(ErrParse, sc.Pos(), "expected label name after @adr.")
			}

		case tryLiteral(sc, "@overwrite("):
			addr, value, err := parseOverwriteArgs(sc, resolve, rune(xDigit))
			if err != nil {
				return "", err
			}
			if idx, seen := overwriteIndex[addr]; seen {
				overwrites[idx].Value = value
			} else {
				overwriteIndex[addr] = len(overwrites)
				overwrites = append(overwrites, Overwrite{Addr: addr, Value: value})
			}

		case tryLiteral(sc, "@x="):
			digit, err := readExactHex(sc, 1)
			if err != nil {
				return "", err
			}
			xDigit = digit[0]

		default:
			return "", newCompileError(ErrParse, sc.Pos(), "unrecognized directive")
		}
	}

	result := out.String()
	for _, ow := range overwrites {
		patched, err := applyOverwrite(result, ow)
		if err != nil {
			return "", err
		}
		result = patched
	}
	return strings.ToUpper(result), nil
}

func parseOverwriteArgs(sc *Scanner, resolve labelResolver, xDigit rune) (addr, value string, err error) {
	sc.SkipTrivia()
	addr, err = evalExpr(sc, resolve, xDigit)
	if err != nil {
		return "", "", err
	}
	sc.SkipTrivia()
	if err := sc.Literal(","); err != nil {
		return "", "", err
	}
	sc.SkipTrivia()
	value, err = evalExpr(sc, resolve, xDigit)
	if err != nil {
		return "", "", err
	}
	sc.SkipTrivia()
	if err := sc.Literal(")"); err != nil {
		return "", "", err
	}
	return addr, value, nil
}

// applyOverwrite reproduces the splice formula from spec.md §4.6/§9
// bit-exact, including its "two characters right of the computed
// position" quirk: pos_chars = int(A,16)*2 - 2, then
// output[:pos_chars+2] + V + output[pos_chars+len(V)+2:]. The original
// only ever rejects `pos_chars >= len(block)`; a low address is never
// an error there. The lowest one, `@overwrite(<0000>, ...)`, gives
// pos_chars = -2, whose slice bounds (0 and len(V)) are still valid,
// so V is spliced in at the very start. A bound past the end of the
// output is clamped to its length; pySliceIndex does that clamping
// (and folds a negative bound the way CPython would).
func applyOverwrite(output string, ow Overwrite) (string, error) {
	addr := hexToBig(ow.Addr).Int64()
	posChars := addr*2 - 2
	if posChars >= int64(len(output)) {
		return "", newCompileError(ErrOverwriteOutOfRange, Position{}, "overwrite at address %q falls outside the emitted body (length %d)", ow.Addr, len(output))
	}
	head := pySliceIndex(posChars+2, len(output))
	tail := pySliceIndex(posChars+int64(len(ow.Value))+2, len(output))
	return output[:head] + ow.Value + output[tail:], nil
}

// pySliceIndex folds a Python-style slice bound `i` (which may be
// negative or past the end) into a valid Go string index the same way
// CPython normalizes `s[:i]`/`s[i:]`: negative counts back from the
// end of the string, clamped to 0; anything past the end clamps to n.
func pySliceIndex(i int64, n int) int {
	if i < 0 {
		i += int64(n)
		if i < 0 {
			i = 0
		}
	} else if i > int64(n) {
		i = int64(n)
	}
	return int(i)
}
