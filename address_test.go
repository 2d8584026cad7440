package ropc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveLabelsAbsoluteAndRelative(t *testing.T) {
	labels, err := ResolveLabels("@offset=1000 aa bb @adr.here cc")
	require.NoError(t, err)
	assert.Equal(t, LabelEntry{Absolute: "1002", Relative: "0002"}, labels["here"])
}

func TestResolveLabelsRstoffstResetsRelativeNotOffset(t *testing.T) {
	labels, err := ResolveLabels("@offset=00a0 aa bb @rstoffst @adr.l cc")
	require.NoError(t, err)
	assert.Equal(t, LabelEntry{Absolute: "00a0", Relative: "0000"}, labels["l"])
}

func TestResolveLabelsDuplicateLabelFails(t *testing.T) {
	_, err := ResolveLabels("@adr.x aa @adr.x bb")
	require.Error(t, err)
	var cerr *CompileError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, ErrDuplicateLabel, cerr.Kind)
}

func TestResolveLabelsIgnoresXPlaceholderForCounting(t *testing.T) {
	labels, err := ResolveLabels("xx xa @adr.l xx")
	require.NoError(t, err)
	assert.Equal(t, LabelEntry{Absolute: "0002", Relative: "0002"}, labels["l"])
}

func TestResolveLabelsSkipsOverwriteDirective(t *testing.T) {
	labels, err := ResolveLabels("aa @overwrite(<0001>, ff) @adr.l bb")
	require.NoError(t, err)
	assert.Equal(t, LabelEntry{Absolute: "0001", Relative: "0001"}, labels["l"])
}

func TestResolveLabelsEndianSwapCountsEmittedBytes(t *testing.T) {
	labels, err := ResolveLabels("@adr.a [#a+<0002>] @adr.b")
	require.NoError(t, err)
	assert.Equal(t, "0000", labels["a"].Relative)
	assert.Equal(t, "0002", labels["b"].Relative)
}
