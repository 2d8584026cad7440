package ropc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileScenarios(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected map[string]string
	}{
		{
			name:     "literal pass-through",
			source:   `@block.a: de ad be ef @end`,
			expected: map[string]string{"a": "DEADBEEF"},
		},
		{
			name:     "placeholder digit",
			source:   `@block.a: @x=f xx xa @end`,
			expected: map[string]string{"a": "FFFA"},
		},
		{
			name:     "constant expansion",
			source:   `def $z { aa bb } @block.a: $z cc @end`,
			expected: map[string]string{"a": "AABBCC"},
		},
		{
			name:     "parameterized macro with hygienic labels",
			source:   `def *p(a) { @adr.&_L_& %_a_% } @block.x: *p(aa) *p(bb) @end`,
			expected: map[string]string{"x": "AABB"},
		},
		{
			name:     "label arithmetic and endian swap",
			source:   `@block.a: @offset=1000 @adr.s aa bb [#s+<0002>] @end`,
			expected: map[string]string{"a": "AABB0210"},
		},
		{
			// The splice formula (spec.md §4.6/§9) is applied bit-exact
			// against original_source/public/compiler.py's
			// Pass2Compile: pos_chars=2, output[:4]+"ee"+output[6:] —
			// which replaces "cc" (byte 3) rather than byte 2,
			// the "two characters right" quirk the spec calls out.
			name:     "overwrite patch",
			source:   `@block.a: aa bb cc dd @overwrite(<0002>, ee) @end`,
			expected: map[string]string{"a": "AABBEEDD"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Compile(tt.source, nil)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestCompileResultErrorShape(t *testing.T) {
	result := CompileResult(`@block.a: $undefined @end`, nil)
	require.Contains(t, result, "error")
	assert.Len(t, result, 1)
}

func TestCompileUndefinedImportIsNonFatal(t *testing.T) {
	result, err := Compile(`import missing.lib @block.a: aa @end`, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "AA"}, result)
}

func TestCompileImportMergesDefinitions(t *testing.T) {
	libs := map[string]string{
		"consts.lib": `$z { aa bb }`,
	}
	result, err := Compile(`import consts.lib @block.a: $z @end`, libs)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "AABB"}, result)
}

func TestCompileDuplicateLabelFails(t *testing.T) {
	_, err := Compile(`@block.a: @adr.x aa @adr.x bb @end`, nil)
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrDuplicateLabel, cerr.Kind)
}

func TestCompileUnresolvedLabelFails(t *testing.T) {
	_, err := Compile(`@block.a: aa #missing @end`, nil)
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrUnresolvedLabel, cerr.Kind)
}

func TestCompileOverwriteOutOfRangeFails(t *testing.T) {
	_, err := Compile(`@block.a: aa bb @overwrite(<00ff>, ee) @end`, nil)
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrOverwriteOutOfRange, cerr.Kind)
}

func TestCompileRstoffstResetsByteOffsetNotAddress(t *testing.T) {
	result, err := Compile(`@block.a: @offset=00a0 aa bb @rstoffst @adr.l cc @end`, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "AABBCC"}, result)

	labels, err := ResolveLabels(`@offset=00a0 aa bb @rstoffst @adr.l cc`)
	require.NoError(t, err)
	assert.Equal(t, LabelEntry{Absolute: "00a0", Relative: "0000"}, labels["l"])
}

func TestCompileBlocksAreIndependent(t *testing.T) {
	result, err := Compile(`@block.a: @adr.x aa @end @block.b: bb @end`, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"a": "AA", "b": "BB"}, result)
}

func TestCompileOutputInvariants(t *testing.T) {
	result, err := Compile(`@block.a: @offset=1000 @adr.s aa bb [#s+<0002>] @end`, nil)
	require.NoError(t, err)
	for _, hex := range result {
		assert.Equal(t, 0, len(hex)%2, "output length must be even")
		for _, r := range hex {
			assert.Contains(t, "0123456789ABCDEF", string(r))
		}
	}
}
