package ropc

import "strings"

// ExpandBlock repeatedly rewrites a block's body against the macro
// expansion grammar (spec.md §4.4) until a pass produces no change —
// a fixed point — or Config.MaxExpansionIterations is exceeded, in
// which case it reports ErrExpansionDiverged. Each pass is a single
// left-to-right scan that expands every `$name`, `*name(...)`, and
// `!name(...){...}` call it finds, copying everything else through
// unchanged (including plain hex bytes — the macro grammar never
// inspects them, only recognizes the three sigils, so raw filler text
// is copied as-is rather than re-tokenized). A `{` or `}` outside a
// macro call is the one exception: it is an ErrParse.
func ExpandBlock(body string, defs *Definitions, namer *hygieneNamer, maxIter int, budget *iterationBudget) (string, error) {
	current := body
	for i := 0; i < maxIter; i++ {
		if err := budget.consume(); err != nil {
			return "", err
		}
		next, changed, err := expandPass(current, defs, namer)
		if err != nil {
			return "", err
		}
		if !changed {
			return next, nil
		}
		current = next
	}
	return "", newCompileError(ErrExpansionDiverged, Position{}, "macro expansion did not converge after %d iterations", maxIter)
}

// expandPass runs one left-to-right scan over body, reporting whether
// any call was actually expanded (so the caller can detect the fixed
// point).
func expandPass(body string, defs *Definitions, namer *hygieneNamer) (string, bool, error) {
	sc := NewScanner(body)
	var out strings.Builder
	changed := false

	for !sc.AtEOF() {
		switch sc.Peek() {
		case '$':
			text, err := expandGGTCall(sc, defs)
			if err != nil {
				return "", false, err
			}
			out.WriteString(text)
			changed = true

		case '*':
			text, err := expandSPFCall(sc, defs, namer)
			if err != nil {
				return "", false, err
			}
			out.WriteString(text)
			changed = true

		case '!':
			text, err := expandCPFCall(sc, defs, namer)
			if err != nil {
				return "", false, err
			}
			out.WriteString(text)
			changed = true

		case '{', '}':
			return "", false, newCompileError(ErrParse, sc.Pos(), "unexpected %q outside of a macro call", sc.Peek())

		default:
			out.WriteString(sc.TakeWhile(isExpandFillerChar))
		}
	}
	return out.String(), changed, nil
}

// expandBraceArg parses a `{...}` call-site body argument (the
// BODY passed to a `!name(...){BODY}` call). Unlike the filler scan
// above, nested `{...}` blocks and macro calls inside the argument are
// themselves expanded during this same pass (spec.md §4.4's
// brace_block production recurses into ggt/spf/cpf_call) and a
// genuinely nested brace pair is preserved textually as `{ inner }`,
// matching original_source's brace_block_nested transformer.
func expandBraceArg(sc *Scanner, defs *Definitions, namer *hygieneNamer) (string, error) {
	sc.SkipTrivia()
	if err := sc.Literal("{"); err != nil {
		return "", err
	}
	var out strings.Builder
	for {
		switch sc.Peek() {
		case eof:
			return "", newCompileError(ErrParse, sc.Pos(), "unterminated macro call body: expected `}`")
		case '}':
			sc.Advance()
			return out.String(), nil
		case '{':
			inner, err := expandBraceArg(sc, defs, namer)
			if err != nil {
				return "", err
			}
			out.WriteString("{ " + inner + " }")
		case '$':
			text, err := expandGGTCall(sc, defs)
			if err != nil {
				return "", err
			}
			out.WriteString(text)
		case '*':
			text, err := expandSPFCall(sc, defs, namer)
			if err != nil {
				return "", err
			}
			out.WriteString(text)
		case '!':
			text, err := expandCPFCall(sc, defs, namer)
			if err != nil {
				return "", err
			}
			out.WriteString(text)
		default:
			out.WriteString(sc.TakeWhile(isExpandFillerChar))
		}
	}
}

func isExpandFillerChar(r rune) bool {
	return r != eof && r != '$' && r != '*' && r != '!' && r != '{' && r != '}'
}

// expandGGTCall expands a `$name` reference to its defined body,
// verbatim — GGT bodies get picked up for further expansion on a
// later pass, not recursively within this one.
func expandGGTCall(sc *Scanner, defs *Definitions) (string, error) {
	name, err := parseSigilName(sc, '$')
	if err != nil {
		return "", err
	}
	body, ok := defs.GGT[name]
	if !ok {
		return "", newCompileError(ErrUndefinedSymbol, sc.Pos(), "undefined constant %q", name)
	}
	return body, nil
}

// expandSPFCall expands a `*name(args)` call: bind positional
// arguments against the declared parameters (falling back to declared
// defaults), substitute `%_param_%` occurrences, then run the
// hygienic-identifier pass over the result.
func expandSPFCall(sc *Scanner, defs *Definitions, namer *hygieneNamer) (string, error) {
	name, err := parseSigilName(sc, '*')
	if err != nil {
		return "", err
	}
	args, err := parseCallArgs(sc)
	if err != nil {
		return "", err
	}
	def, ok := defs.SPF[name]
	if !ok {
		return "", newCompileError(ErrUndefinedSymbol, sc.Pos(), "undefined macro %q", name)
	}
	bound, err := bindArgs(sc.Pos(), name, def.Params, args)
	if err != nil {
		return "", err
	}
	body := substituteParams(def.Body, bound)
	return applyHygiene(body, namer), nil
}

// expandCPFCall expands a `!name(args){BODY}` call: the BODY argument
// is itself fully expanded first (its calls resolved, its nested
// braces reconstructed) before being spliced into the macro body at
// `%%BODY%%`, alongside the usual `%_param_%` substitution and
// hygienic-identifier pass.
func expandCPFCall(sc *Scanner, defs *Definitions, namer *hygieneNamer) (string, error) {
	name, err := parseSigilName(sc, '!')
	if err != nil {
		return "", err
	}
	args, err := parseCallArgs(sc)
	if err != nil {
		return "", err
	}
	bodyArg, err := expandBraceArg(sc, defs, namer)
	if err != nil {
		return "", err
	}
	def, ok := defs.CPF[name]
	if !ok {
		return "", newCompileError(ErrUndefinedSymbol, sc.Pos(), "undefined macro %q", name)
	}
	bound, err := bindArgs(sc.Pos(), name, def.Params, args)
	if err != nil {
		return "", err
	}
	body := substituteParams(def.Body, bound)
	body = strings.ReplaceAll(body, "%%BODY%%", bodyArg)
	return applyHygiene(body, namer), nil
}

// parseCallArgs parses the `(arg, arg, ...)` argument list at a call
// site. Each argument is raw text up to the next `,` or `)` — spec.md
// §4.4's ANY_STRING terminal — taken verbatim, with no trimming and
// no recursive expansion of its own.
func parseCallArgs(sc *Scanner) ([]string, error) {
	sc.SkipTrivia()
	if err := sc.Literal("("); err != nil {
		return nil, err
	}
	var args []string
	if sc.Peek() == ')' {
		sc.Advance()
		return args, nil
	}
	for {
		arg := sc.TakeWhile(func(r rune) bool { return r != eof && r != ',' && r != ')' })
		args = append(args, arg)
		if sc.Peek() == ',' {
			sc.Advance()
			continue
		}
		break
	}
	if err := sc.Literal(")"); err != nil {
		return nil, err
	}
	return args, nil
}

// bindArgs binds positional call-site arguments to a macro's declared
// parameters, falling back to each parameter's default when the call
// omits it, and reporting ErrArityMismatch when neither is available.
func bindArgs(pos Position, macro string, params []Param, args []string) (map[string]string, error) {
	bound := make(map[string]string, len(params))
	for i, p := range params {
		switch {
		case i < len(args):
			bound[p.Name] = args[i]
		case p.Default != nil:
			bound[p.Name] = *p.Default
		default:
			return nil, newCompileError(ErrArityMismatch, pos, "macro %q: missing argument for parameter %q", macro, p.Name)
		}
	}
	return bound, nil
}

func substituteParams(body string, bound map[string]string) string {
	for name, value := range bound {
		body = strings.ReplaceAll(body, "%_"+name+"_%", value)
	}
	return body
}
