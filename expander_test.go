package ropc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defsWithGGT(name, body string) *Definitions {
	defs := NewDefinitions()
	defs.GGT[name] = body
	return defs
}

func TestExpandBlockGGTCall(t *testing.T) {
	defs := defsWithGGT("$z", "aa bb")
	out, err := ExpandBlock("$z cc", defs, newHygieneNamer(HygieneCounter), 64, &iterationBudget{limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, "aa bb cc", out)
}

func TestExpandBlockUndefinedGGTFails(t *testing.T) {
	defs := NewDefinitions()
	_, err := ExpandBlock("$nope", defs, newHygieneNamer(HygieneCounter), 64, &iterationBudget{limit: 1000})
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrUndefinedSymbol, cerr.Kind)
}

func TestExpandBlockSPFParamSubstitutionAndDefault(t *testing.T) {
	defs := NewDefinitions()
	def := "01"
	defs.SPF["*p"] = &MacroDef{Params: []Param{{Name: "a"}, {Name: "b", Default: &def}}, Body: "%_a_% %_b_%"}
	out, err := ExpandBlock("*p(22)", defs, newHygieneNamer(HygieneCounter), 64, &iterationBudget{limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, "22 01", out)
}

func TestExpandBlockSPFArityMismatchFails(t *testing.T) {
	defs := NewDefinitions()
	defs.SPF["*p"] = &MacroDef{Params: []Param{{Name: "a"}}, Body: "%_a_%"}
	_, err := ExpandBlock("*p()", defs, newHygieneNamer(HygieneCounter), 64, &iterationBudget{limit: 1000})
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrArityMismatch, cerr.Kind)
}

func TestExpandBlockCPFSplicesBody(t *testing.T) {
	defs := NewDefinitions()
	defs.CPF["!loop"] = &MacroDef{Body: "before %%BODY%% after"}
	out, err := ExpandBlock("!loop(){ middle }", defs, newHygieneNamer(HygieneCounter), 64, &iterationBudget{limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, "before  middle  after", out)
}

func TestExpandBlockCPFBodyArgExpandsNestedCalls(t *testing.T) {
	defs := defsWithGGT("$z", "NESTED")
	defs.CPF["!loop"] = &MacroDef{Body: "%%BODY%%"}
	out, err := ExpandBlock("!loop(){ $z }", defs, newHygieneNamer(HygieneCounter), 64, &iterationBudget{limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, " NESTED ", out)
}

func TestExpandBlockHygienicSuffixesDifferPerCall(t *testing.T) {
	defs := NewDefinitions()
	defs.SPF["*p"] = &MacroDef{Params: []Param{{Name: "a"}}, Body: "@adr.&_L_& %_a_%"}
	out, err := ExpandBlock("*p(aa) *p(bb)", defs, newHygieneNamer(HygieneCounter), 64, &iterationBudget{limit: 1000})
	require.NoError(t, err)
	assert.Equal(t, "@adr.L_00000001 aa @adr.L_00000002 bb", out)
}

func TestExpandBlockDivergesWithoutFixedPoint(t *testing.T) {
	defs := defsWithGGT("$a", "$a")
	_, err := ExpandBlock("$a", defs, newHygieneNamer(HygieneCounter), 8, &iterationBudget{limit: 1000})
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrExpansionDiverged, cerr.Kind)
}
