package ropc

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// hygieneNamer mints the unique suffixes used to rewrite `&_TOKEN_&`
// placeholders into `TOKEN_<suffix>` identifiers. Two strategies are
// available (spec.md §9): a monotonic counter (deterministic,
// default) or a random UUID-derived suffix, which is what
// original_source/public/compiler.py does via `uuid.uuid4()`.
type hygieneNamer struct {
	mode    HygieneMode
	counter uint64
}

func newHygieneNamer(mode HygieneMode) *hygieneNamer {
	return &hygieneNamer{mode: mode}
}

func (n *hygieneNamer) suffix() string {
	if n.mode == HygieneUUID {
		return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	n.counter++
	return fmt.Sprintf("%08x", n.counter)
}

// applyHygiene rewrites every `&_TOKEN_&` occurrence in body. The
// first time a given TOKEN is seen *within this call to
// applyHygiene* (i.e. within one macro expansion instance — spec.md
// §4.4 is explicit that freshness is per-expansion, not per-block), a
// fresh suffix is minted and reused for the rest of this body.
//
// TOKEN itself is "everything between `&_` and the last `_&` found in
// the contiguous non-whitespace run that follows" rather than simply
// "up to the next `_&`" — this mirrors the greedy-then-backtrack
// behavior of original_source's `r'&_(\S+)_&'` regex, which prefers
// the longest TOKEN for which a closing `_&` can still be found.
func applyHygiene(body string, namer *hygieneNamer) string {
	local := map[string]string{}
	var out strings.Builder

	i := 0
	for i < len(body) {
		idx := strings.Index(body[i:], "&_")
		if idx < 0 {
			out.WriteString(body[i:])
			break
		}
		out.WriteString(body[i : i+idx])
		start := i + idx + 2

		j := start
		for j < len(body) && !isTriviaByte(body[j]) {
			j++
		}
		run := body[start:j]

		last := strings.LastIndex(run, "_&")
		if last < 0 {
			out.WriteString("&_")
			i = start
			continue
		}

		token := run[:last]
		replacement, ok := local[token]
		if !ok {
			replacement = token + "_" + namer.suffix()
			local[token] = replacement
		}
		out.WriteString(replacement)
		i = start + last + 2
	}
	return out.String()
}

func isTriviaByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
