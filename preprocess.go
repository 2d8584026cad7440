package ropc

import "strings"

// Preprocess parses the top-level program grammar (spec.md §4.3): it
// collects `def` definitions and `@block.NAME:` regions, resolving
// every `import` it meets along the way (C2) by handing the imported
// name to `loader` and merging the result into the running tables —
// so import order in the source text is merge order (spec.md §5).
//
// A missing import or one that fails to parse is non-fatal: it is
// logged and contributes no definitions, exactly as spec.md §4.2/§7
// describe, and as original_source/public/compiler.py's `_load_module`
// does (catch, log, keep going — never unwind prior imports).
func Preprocess(source string, loader LibraryLoader, diag diagnostics) (*Definitions, Blocks, error) {
	sc := NewScanner(source)
	defs := NewDefinitions()
	blocks := Blocks{}

	for {
		sc.SkipTrivia()
		if sc.AtEOF() {
			return defs, blocks, nil
		}

		if matched, err := tryParseImport(sc, defs, loader, diag); err != nil {
			return nil, nil, err
		} else if matched {
			continue
		}

		if matched, err := parseDefinition(sc, defs, true); err != nil {
			return nil, nil, err
		} else if matched {
			continue
		}

		if matched, err := tryParseBlock(sc, blocks); err != nil {
			return nil, nil, err
		} else if matched {
			continue
		}

		return nil, nil, newCompileError(ErrParse, sc.Pos(), "expected import, definition, or block")
	}
}

// diagnostics is the narrow side-channel the driver uses to report
// non-fatal import failures (spec.md §6: "Diagnostics from failed
// imports are emitted on a side channel... without aborting").
type diagnostics interface {
	Warnf(format string, args ...any)
}

func tryParseImport(sc *Scanner, defs *Definitions, loader LibraryLoader, diag diagnostics) (bool, error) {
	start := sc.Mark()
	if err := sc.Literal("import"); err != nil {
		if !isParseMiss(err) {
			return false, err
		}
		return false, nil
	}
	sc.SkipTrivia()
	name := sc.TakeWhile(isFileNameChar)
	if name == "" {
		sc.Reset(start)
		return false, nil
	}

	resolveImport(name, defs, loader, diag)
	return true, nil
}

// resolveImport is the C2 module loader proper: load, parse, merge —
// or log and move on.
func resolveImport(name string, defs *Definitions, loader LibraryLoader, diag diagnostics) {
	content, err := loader.GetContent(name)
	if err != nil {
		diag.Warnf("error loading module %q: %s", name, err)
		return
	}
	libDefs, err := LoadLibrary(content)
	if err != nil {
		diag.Warnf("error loading module %q: %s", name, err)
		return
	}
	defs.Merge(libDefs)
}

func tryParseBlock(sc *Scanner, blocks Blocks) (bool, error) {
	start := sc.Mark()
	if err := sc.Literal("@block"); err != nil {
		if !isParseMiss(err) {
			return false, err
		}
		return false, nil
	}
	sc.SkipTrivia()
	if err := sc.Literal("."); err != nil {
		sc.Reset(start)
		if !isParseMiss(err) {
			return false, err
		}
		return false, nil
	}
	sc.SkipTrivia()
	name := sc.TakeWhile(isIdentCont)
	if name == "" {
		return false, newCompileError(ErrParse, sc.Pos(), "expected block name after @block.")
	}
	sc.SkipTrivia()
	if err := sc.Literal(":"); err != nil {
		return false, err
	}

	body, err := scanUntilBlockEnd(sc)
	if err != nil {
		return false, err
	}
	blocks[name] = body
	return true, nil
}

// scanUntilBlockEnd captures raw text up to whichever of "@blockend"
// or "@end" occurs first, consuming that terminator. spec.md §4.1
// describes BLOCK_CONTENT as lazily matching up to either terminator;
// "whichever comes first in the text" is the sane reading of that
// laziness (as opposed to a quirk of how a particular regex engine
// orders alternation, which original_source's Lark grammar happens to
// exhibit but which spec.md does not call out as intentional).
func scanUntilBlockEnd(sc *Scanner) (string, error) {
	rest := string(sc.input[sc.cursor:])
	iBlockEnd := strings.Index(rest, "@blockend")
	iEnd := strings.Index(rest, "@end")

	var endIdx, termLen int
	switch {
	case iBlockEnd < 0 && iEnd < 0:
		return "", newCompileError(ErrParse, sc.Pos(), "unterminated block: expected @blockend or @end")
	case iBlockEnd < 0:
		endIdx, termLen = iEnd, len("@end")
	case iEnd < 0:
		endIdx, termLen = iBlockEnd, len("@blockend")
	case iBlockEnd <= iEnd:
		endIdx, termLen = iBlockEnd, len("@blockend")
	default:
		endIdx, termLen = iEnd, len("@end")
	}

	body := rest[:endIdx]
	for range []rune(body) {
		sc.Advance()
	}
	for i := 0; i < termLen; i++ {
		sc.Advance()
	}
	return body, nil
}
