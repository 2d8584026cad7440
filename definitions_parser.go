package ropc

import "fmt"

// parseSigilName scans a `$name`/`*name`/`!name` token: the sigil
// plus every non-whitespace, non-`(` character that follows it
// (spec.md §4.1's GGT_NAME/SPF_NAME/CPF_NAME terminals).
func parseSigilName(sc *Scanner, sigil rune) (string, error) {
	start := sc.Mark()
	if sc.Peek() != sigil {
		return "", &parseMiss{expected: fmt.Sprintf("%q", string(sigil)), span: sc.SpanFrom(start)}
	}
	sc.Advance()
	rest := sc.TakeWhile(isSigilNameChar)
	if rest == "" {
		return "", &parseMiss{expected: "identifier after sigil", span: sc.SpanFrom(start)}
	}
	return string(sigil) + rest, nil
}

// parseParamList parses the `(param, param=default, ...)` parameter
// declaration list of a `*`/`!` definition. The default, when present,
// is the raw text up to the next `,` or `)` (spec.md §3).
func parseParamList(sc *Scanner) ([]Param, error) {
	sc.SkipTrivia()
	if err := sc.Literal("("); err != nil {
		return nil, err
	}
	var params []Param
	sc.SkipTrivia()
	for sc.Peek() != ')' {
		sc.SkipTrivia()
		name := sc.TakeWhile(isIdentCont)
		if name == "" {
			return nil, &parseMiss{expected: "parameter name", span: spanAt(sc.Pos())}
		}
		sc.SkipTrivia()
		var def *string
		if sc.Peek() == '=' {
			sc.Advance()
			raw := sc.TakeWhile(func(r rune) bool { return r != eof && r != ',' && r != ')' })
			def = &raw
		}
		params = append(params, Param{Name: name, Default: def})
		sc.SkipTrivia()
		if sc.Peek() == ',' {
			sc.Advance()
			sc.SkipTrivia()
			continue
		}
		break
	}
	if err := sc.Literal(")"); err != nil {
		return nil, err
	}
	return params, nil
}

// parseBraceBody scans a `{ ... }` block whose contents may nest
// braces arbitrarily; nested blocks are preserved textually as
// `{ inner }`, matching original_source/public/compiler.py's
// brace_block_nested transformer (`f"{{ {token[0]} }}"`).
func parseBraceBody(sc *Scanner) (string, error) {
	sc.SkipTrivia()
	start := sc.Mark()
	if err := sc.Literal("{"); err != nil {
		return "", err
	}
	body, err := scanBraceContents(sc, start)
	if err != nil {
		return "", err
	}
	if err := sc.Literal("}"); err != nil {
		return "", err
	}
	return body, nil
}

func scanBraceContents(sc *Scanner, start Position) (string, error) {
	var out []rune
	for {
		switch sc.Peek() {
		case eof:
			return "", &parseMiss{expected: "`}`", span: sc.SpanFrom(start)}
		case '}':
			return string(out), nil
		case '{':
			sc.Advance()
			inner, err := scanBraceContents(sc, start)
			if err != nil {
				return "", err
			}
			if err := sc.Literal("}"); err != nil {
				return "", err
			}
			out = append(out, []rune("{ "+inner+" }")...)
		default:
			out = append(out, sc.Advance())
		}
	}
}

// parseDefinition tries to parse one `$`/`*`/`!` definition at the
// scanner's current position, merging it into `defs`. When
// `requireKeyword` is true a leading `def` token is mandatory — this
// is the one divergence between the library grammar (bare
// `$name {...}`) and the top-level program grammar (`def $name {...}`)
// that original_source/public/compiler.py encodes via two distinct
// Lark grammars (config_grammar vs. pre_grammar); spec.md §4.2/§4.3
// describe both as "definitions" without calling out the keyword, so
// this follows the original exactly. Returns matched=false without
// consuming input if nothing in this production matches, so callers
// (the preprocessor) can fall through to try blocks/imports instead.
func parseDefinition(sc *Scanner, defs *Definitions, requireKeyword bool) (matched bool, err error) {
	start := sc.Mark()

	if requireKeyword {
		sc.SkipTrivia()
		if err := sc.Literal("def"); err != nil {
			sc.Reset(start)
			if !isParseMiss(err) {
				return false, err
			}
			return false, nil
		}
	}

	sc.SkipTrivia()
	switch sc.Peek() {
	case '$':
		name, err := parseSigilName(sc, '$')
		if err != nil {
			sc.Reset(start)
			if !isParseMiss(err) {
				return false, err
			}
			return false, nil
		}
		body, err := parseBraceBody(sc)
		if err != nil {
			return false, err
		}
		defs.GGT[name] = body
		return true, nil

	case '*':
		name, err := parseSigilName(sc, '*')
		if err != nil {
			sc.Reset(start)
			if !isParseMiss(err) {
				return false, err
			}
			return false, nil
		}
		params, err := parseParamList(sc)
		if err != nil {
			return false, err
		}
		body, err := parseBraceBody(sc)
		if err != nil {
			return false, err
		}
		defs.SPF[name] = &MacroDef{Params: params, Body: body}
		return true, nil

	case '!':
		name, err := parseSigilName(sc, '!')
		if err != nil {
			sc.Reset(start)
			if !isParseMiss(err) {
				return false, err
			}
			return false, nil
		}
		params, err := parseParamList(sc)
		if err != nil {
			return false, err
		}
		sc.SkipTrivia()
		if err := sc.Literal("{%%BODY%%}"); err != nil {
			return false, err
		}
		body, err := parseBraceBody(sc)
		if err != nil {
			return false, err
		}
		defs.CPF[name] = &MacroDef{Params: params, Body: body}
		return true, nil
	}

	sc.Reset(start)
	return false, nil
}
