package ropc

import (
	"fmt"
	"math/big"
)

// labelResolver looks up a label reference found inside an expression
// (`#NAME` when relative is false, `##NAME` when true). Pass 1 always
// succeeds with a placeholder; pass 2 looks the name up in a
// previously built LabelMap and fails with ErrUnresolvedLabel when
// it's missing (spec.md §4.5/§4.6).
type labelResolver func(name string, relative bool, pos Position) (string, error)

// evalExpr parses and evaluates one `expr` production (spec.md §4.1):
// a `term` optionally followed by `+`/`-` against further terms. Every
// value along the way is a normalized (lowercase, x-substituted) hex
// string; arithmetic is unsigned hex of width equal to the widest
// operand among this expr's terms, rounded up to even, with
// subtraction wrapping modulo 16^width (spec.md §4.5).
func evalExpr(sc *Scanner, resolve labelResolver, xDigit rune) (string, error) {
	first, err := evalTerm(sc, resolve, xDigit)
	if err != nil {
		return "", err
	}
	terms := []string{first}
	var ops []rune

	for {
		save := sc.Mark()
		sc.SkipTrivia()
		if sc.Peek() == '+' || sc.Peek() == '-' {
			op := sc.Advance()
			sc.SkipTrivia()
			t, err := evalTerm(sc, resolve, xDigit)
			if err != nil {
				return "", err
			}
			terms = append(terms, t)
			ops = append(ops, op)
			continue
		}
		sc.Reset(save)
		break
	}

	if len(ops) == 0 {
		return terms[0], nil
	}

	width := 0
	for _, t := range terms {
		if len(t) > width {
			width = len(t)
		}
	}
	if width%2 != 0 {
		width++
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(width*4))

	acc := hexToBig(terms[0])
	for i, op := range ops {
		v := hexToBig(terms[i+1])
		if op == '+' {
			acc.Add(acc, v)
		} else {
			acc.Sub(acc, v)
		}
		acc.Mod(acc, mod)
	}
	return fmt.Sprintf("%0*x", width, acc), nil
}

// evalTerm concatenates one or more factors — spec.md's `term :=
// factor+`, i.e. juxtaposition is string concatenation of hex digits.
func evalTerm(sc *Scanner, resolve labelResolver, xDigit rune) (string, error) {
	first, err := evalFactor(sc, resolve, xDigit)
	if err != nil {
		return "", err
	}
	out := first
	for {
		save := sc.Mark()
		sc.SkipTrivia()
		if !isFactorStart(sc.Peek()) {
			sc.Reset(save)
			break
		}
		next, err := evalFactor(sc, resolve, xDigit)
		if err != nil {
			sc.Reset(save)
			break
		}
		out += next
	}
	return out, nil
}

func isFactorStart(r rune) bool {
	return r == '<' || r == '[' || r == '#' || isHexDigitLoose(r)
}

// evalFactor parses one `factor` (spec.md §4.1): a parenthesized-by-
// angle-bracket group, an endian-swapped bracket group, a run of hex
// digits, or a label reference.
func evalFactor(sc *Scanner, resolve labelResolver, xDigit rune) (string, error) {
	switch sc.Peek() {
	case '<':
		sc.Advance()
		sc.SkipTrivia()
		inner, err := evalExpr(sc, resolve, xDigit)
		if err != nil {
			return "", err
		}
		sc.SkipTrivia()
		if err := sc.Literal(">"); err != nil {
			return "", err
		}
		return inner, nil

	case '[':
		start := sc.Mark()
		sc.Advance()
		sc.SkipTrivia()
		inner, err := evalExpr(sc, resolve, xDigit)
		if err != nil {
			return "", err
		}
		sc.SkipTrivia()
		if err := sc.Literal("]"); err != nil {
			return "", err
		}
		return endianSwap(inner, sc.SpanFrom(start))

	case '#':
		start := sc.Mark()
		sc.Advance()
		relative := false
		if sc.Peek() == '#' {
			sc.Advance()
			relative = true
		}
		name := sc.TakeWhile(isIdentCont)
		if name == "" {
			return "", &parseMiss{expected: "label name after #", span: sc.SpanFrom(start)}
		}
		return resolve(name, relative, start)

	default:
		if !isHexDigitLoose(sc.Peek()) {
			return "", &parseMiss{expected: "hex digits", span: spanAt(sc.Pos())}
		}
		raw := sc.TakeWhile(isHexDigitLoose)
		return normalizeHex(raw, xDigit), nil
	}
}

// normalizeHex lowercases a raw hex run and substitutes xDigit for
// every placeholder `x`/`X` digit.
func normalizeHex(raw string, xDigit rune) string {
	out := make([]rune, 0, len(raw))
	for _, r := range raw {
		switch {
		case r == 'x' || r == 'X':
			out = append(out, xDigit)
		case r >= 'A' && r <= 'F':
			out = append(out, r-'A'+'a')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

// endianSwap groups a hex string into bytes and reverses them in
// adjacent pairs: `AABBCCDD` -> `BBAADDCC` (spec.md §4.5). The input
// must be a whole number of byte-pairs (hex length a multiple of 4).
func endianSwap(hex string, span Span) (string, error) {
	if len(hex)%4 != 0 {
		return "", newCompileErrorSpan(ErrMalformedEndian, span, "endian-swap operand %q is not a whole number of byte pairs", hex)
	}
	out := make([]byte, len(hex))
	for i := 0; i < len(hex); i += 4 {
		copy(out[i:i+2], hex[i+2:i+4])
		copy(out[i+2:i+4], hex[i:i+2])
	}
	return string(out), nil
}

func hexToBig(hex string) *big.Int {
	v := new(big.Int)
	v.SetString(hex, 16)
	return v
}
