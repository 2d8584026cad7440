package ropc

// LoadLibrary parses one library file's content. The library grammar
// (spec.md §4.2) admits only bare `$name {...}` / `*name(...){...}` /
// `!name(...){%%BODY%%}{...}` definitions — no blocks, directives, or
// imports — so this is just a loop over parseDefinition with
// requireKeyword=false until the input is exhausted. A `$name` must be
// followed by whitespace before its `{`: a sigil name runs up to the
// first whitespace or `(`, so `$name{` would be read as one name.
func LoadLibrary(content string) (*Definitions, error) {
	sc := NewScanner(content)
	defs := NewDefinitions()
	for {
		sc.SkipTrivia()
		if sc.AtEOF() {
			return defs, nil
		}
		matched, err := parseDefinition(sc, defs, false)
		if err != nil {
			return nil, err
		}
		if !matched {
			return nil, newCompileError(ErrParse, sc.Pos(), "unexpected content in library file")
		}
	}
}
