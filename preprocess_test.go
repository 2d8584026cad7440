package ropc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDiag struct{ warnings []string }

func (d *recordingDiag) Warnf(format string, args ...any) {
	d.warnings = append(d.warnings, format)
}

func TestPreprocessCollectsDefinitionsAndBlocks(t *testing.T) {
	diag := &recordingDiag{}
	defs, blocks, err := Preprocess(`def $z { aa } @block.a: $z bb @end`, NewMapLibraryLoader(nil), diag)
	require.NoError(t, err)
	assert.Equal(t, " aa ", defs.GGT["$z"])
	assert.Equal(t, " $z bb ", blocks["a"])
	assert.Empty(t, diag.warnings)
}

func TestPreprocessBlockendTerminator(t *testing.T) {
	_, blocks, err := Preprocess(`@block.a: de ad @blockend`, NewMapLibraryLoader(nil), &recordingDiag{})
	require.NoError(t, err)
	assert.Equal(t, " de ad ", blocks["a"])
}

func TestPreprocessMissingImportIsNonFatal(t *testing.T) {
	diag := &recordingDiag{}
	defs, blocks, err := Preprocess(`import nope.lib @block.a: aa @end`, NewMapLibraryLoader(nil), diag)
	require.NoError(t, err)
	assert.Empty(t, defs.GGT)
	assert.Equal(t, " aa ", blocks["a"])
	assert.NotEmpty(t, diag.warnings)
}

func TestPreprocessImportMergesBeforeProgramText(t *testing.T) {
	libs := map[string]string{"consts.lib": `$z { cc dd }`}
	defs, _, err := Preprocess(`import consts.lib def $z { ee ff } @block.a: $z @end`, NewMapLibraryLoader(libs), &recordingDiag{})
	require.NoError(t, err)
	// program-text definitions win over imported ones (last-write-wins)
	assert.Equal(t, " ee ff ", defs.GGT["$z"])
}
