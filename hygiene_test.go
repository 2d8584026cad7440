package ropc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyHygieneReusesSuffixWithinOneCall(t *testing.T) {
	namer := newHygieneNamer(HygieneCounter)
	out := applyHygiene("@adr.&_L_& jmp &_L_&", namer)
	assert.Equal(t, "@adr.L_00000001 jmp L_00000001", out)
}

func TestApplyHygieneFreshSuffixPerCall(t *testing.T) {
	namer := newHygieneNamer(HygieneCounter)
	first := applyHygiene("&_L_&", namer)
	second := applyHygiene("&_L_&", namer)
	assert.NotEqual(t, first, second)
}

func TestApplyHygieneLeavesUnterminatedMarkerAlone(t *testing.T) {
	namer := newHygieneNamer(HygieneCounter)
	out := applyHygiene("price &_ is $5", namer)
	assert.Equal(t, "price &_ is $5", out)
}

// A TOKEN run containing embedded `&`/`_` characters greedily extends
// to the LAST possible closing `_&` in its non-whitespace run, mirroring
// the greedy-then-backtrack behavior of the `&_(\S+)_&` regex this is
// grounded on (original_source/public/compiler.py).
func TestApplyHygieneTokenGreedyToLastCloseMarker(t *testing.T) {
	namer := newHygieneNamer(HygieneCounter)
	out := applyHygiene("&_A_&_B_&", namer)
	assert.Equal(t, "A_&_B_00000001", out)
}
