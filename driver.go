package ropc

import (
	"sort"

	"github.com/sirupsen/logrus"
)

// LibraryLoader already abstracts away "get me this file's content";
// MapLibraryLoader (library_loader.go) is what both Compile and
// CompileConfigured hand callers' `libraries` maps to.

// Compile runs the full pipeline (spec.md §4.7: preprocess → expand →
// resolve → emit, per block) with the default Config and a logrus
// logger for non-fatal import diagnostics.
func Compile(source string, libraries map[string]string) (map[string]string, error) {
	return CompileConfigured(source, libraries, NewDefaultConfig())
}

// CompileConfigured is Compile with an explicit Config, for callers
// that want to tune the expansion/budget limits or the hygienic-id
// strategy.
func CompileConfigured(source string, libraries map[string]string, cfg Config) (map[string]string, error) {
	loader := NewMapLibraryLoader(libraries)
	diag := logrus.StandardLogger()
	budget := &iterationBudget{limit: cfg.MaxTotalIterations}

	if err := budget.consume(); err != nil {
		return nil, err
	}
	defs, blocks, err := Preprocess(source, loader, diag)
	if err != nil {
		return nil, err
	}

	namer := newHygieneNamer(cfg.HygieneMode)
	result := make(map[string]string, len(blocks))

	for _, name := range sortedKeys(blocks) {
		expanded, err := ExpandBlock(blocks[name], defs, namer, cfg.MaxExpansionIterations, budget)
		if err != nil {
			return nil, err
		}

		if err := budget.consume(); err != nil {
			return nil, err
		}
		labels, err := ResolveLabels(expanded)
		if err != nil {
			return nil, err
		}

		if err := budget.consume(); err != nil {
			return nil, err
		}
		hex, err := Emit(expanded, labels)
		if err != nil {
			return nil, err
		}
		result[name] = hex
	}
	return result, nil
}

// CompileResult matches spec.md §6's literal host-facing contract: a
// successful compilation returns `{block_name: hex_string, ...}`, a
// failed one the single-key `{"error": message}`. Prefer Compile /
// CompileConfigured from Go code — this form exists for hosts that
// want exactly the mapping the spec describes without inspecting a Go
// error value.
func CompileResult(source string, libraries map[string]string) map[string]string {
	result, err := Compile(source, libraries)
	if err != nil {
		return map[string]string{"error": err.Error()}
	}
	return result
}

func sortedKeys(blocks Blocks) []string {
	keys := make([]string, 0, len(blocks))
	for k := range blocks {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// iterationBudget is the cooperative cap spec.md §5 asks for: a
// maximum total count of parser/pass invocations across one
// Compile call, independent of any single block's expansion bound.
type iterationBudget struct {
	limit int
	spent int
}

func (b *iterationBudget) consume() error {
	b.spent++
	if b.spent > b.limit {
		return newCompileError(ErrBudgetExceeded, Position{}, "exceeded total iteration budget of %d", b.limit)
	}
	return nil
}
