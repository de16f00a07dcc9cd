package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/deskdex/internal/analyzer"
	"github.com/standardbeagle/deskdex/internal/dserrors"
	"github.com/standardbeagle/deskdex/internal/preprocess"
	"github.com/standardbeagle/deskdex/internal/types"
)

func newTestIndex(keepDocs bool) *InvertedIndex {
	pre := preprocess.New(0, nil)
	a := analyzer.New(pre, preprocess.DefaultConfig())
	return New(a, keepDocs)
}

func freqs(code, text map[string]int) map[types.Field]map[string]int {
	return map[types.Field]map[string]int{types.FieldCode: code, types.FieldText: text}
}

func TestAddDocumentFreqsAssignsStableID(t *testing.T) {
	idx := newTestIndex(true)

	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 1}, nil))
	idx.AddDocumentFreqs("b.go", freqs(map[string]int{"bar": 1}, nil))

	assert.Equal(t, types.DocID(0), idx.docsToIDs["a.go"])
	assert.Equal(t, types.DocID(1), idx.docsToIDs["b.go"])
}

func TestRemoveThenReAddReusesDocID(t *testing.T) {
	idx := newTestIndex(true)

	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 1}, nil))
	id := idx.docsToIDs["a.go"]

	require.NoError(t, idx.RemoveDocument("a.go"))
	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 1}, nil))

	assert.Equal(t, id, idx.docsToIDs["a.go"])
}

func TestRemoveDocumentTombstonesAndPurgesPostings(t *testing.T) {
	idx := newTestIndex(true)
	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 1}, nil))

	require.NoError(t, idx.RemoveDocument("a.go"))

	docs := idx.GetDocs(types.FieldCode, "foo")
	assert.Empty(t, docs)
}

func TestRemoveUnknownDocumentIsInvalid(t *testing.T) {
	idx := newTestIndex(true)
	err := idx.RemoveDocument("missing.go")
	_, ok := err.(*dserrors.InvalidDocument)
	assert.True(t, ok)
}

func TestRemoveAlreadyRemovedDocumentIsInvalid(t *testing.T) {
	idx := newTestIndex(true)
	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 1}, nil))
	require.NoError(t, idx.RemoveDocument("a.go"))

	err := idx.RemoveDocument("a.go")
	_, ok := err.(*dserrors.InvalidDocument)
	assert.True(t, ok)
}

func TestGetPathsUnscoredReflectsInsertionOrder(t *testing.T) {
	idx := newTestIndex(true)
	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 1}, nil))
	idx.AddDocumentFreqs("b.go", freqs(map[string]int{"foo": 1}, nil))

	results := idx.GetPaths(types.FieldCode, "foo", types.ScoringUnscored)
	require.Len(t, results, 2)
	assert.Equal(t, "a.go", *results[0].Path)
	assert.Equal(t, float64(0), results[0].Score)
	assert.Equal(t, "b.go", *results[1].Path)
	assert.Equal(t, float64(1), results[1].Score)
}

func TestGetPathsTermFreqScoring(t *testing.T) {
	idx := newTestIndex(true)
	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 3}, nil))

	results := idx.GetPaths(types.FieldCode, "foo", types.ScoringTermFreq)
	require.Len(t, results, 1)
	assert.Equal(t, float64(3), results[0].Score)
}

func TestGetPathsTFIDFScoring(t *testing.T) {
	idx := newTestIndex(true)
	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 2, "bar": 1}, nil))
	idx.AddDocumentFreqs("b.go", freqs(map[string]int{"bar": 1}, nil))

	// "foo" appears in 1 document and the code field holds 2 distinct
	// tokens ("foo", "bar"): idf = log10(distinctCodeTokens / df).
	results := idx.GetPaths(types.FieldCode, "foo", types.ScoringTFIDF)
	require.Len(t, results, 1)
	assert.Greater(t, results[0].Score, 0.0)
}

func TestGetPathsOpIntersection(t *testing.T) {
	idx := newTestIndex(true)
	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 1, "bar": 1}, nil))
	idx.AddDocumentFreqs("b.go", freqs(map[string]int{"foo": 1}, nil))

	results := idx.GetPathsOp(types.FieldCode, []string{"foo", "bar"}, types.OpIntersection, types.ScoringUnscored)
	require.Len(t, results, 1)
	assert.Equal(t, "a.go", *results[0].Path)
}

func TestGetPathsOpUnion(t *testing.T) {
	idx := newTestIndex(true)
	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 1}, nil))
	idx.AddDocumentFreqs("b.go", freqs(map[string]int{"bar": 1}, nil))

	results := idx.GetPathsOp(types.FieldCode, []string{"foo", "bar"}, types.OpUnion, types.ScoringUnscored)
	assert.Len(t, results, 2)
}

func TestGetPathsUnknownTokenReturnsNilWithoutInsertion(t *testing.T) {
	idx := newTestIndex(true)
	assert.Nil(t, idx.GetPaths(types.FieldCode, "nope", types.ScoringUnscored))
	assert.Empty(t, idx.table[types.FieldCode])
}

func TestGetDocsIsCaseInsensitiveForTextField(t *testing.T) {
	idx := newTestIndex(true)
	idx.AddDocumentFreqs("a.go", freqs(nil, map[string]int{"foo": 1}))

	docs := idx.GetDocs(types.FieldText, "FOO")
	assert.Len(t, docs, 1)
}

func TestUpdateDocumentPreservesDocID(t *testing.T) {
	idx := newTestIndex(true)
	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 1}, nil))
	id := idx.docsToIDs["a.go"]

	ok, err := idx.UpdateDocument("a.go")
	require.NoError(t, err)
	assert.False(t, ok) // analyzer has no plugins registered, so re-Analyze fails NotAnalyzable
	assert.Equal(t, id, idx.docsToIDs["a.go"])
}

func TestEnsurePreprocessorConfigRejectsMismatch(t *testing.T) {
	idx := newTestIndex(true)
	cfg := preprocess.DefaultConfig()
	cfg.Code.CaseSensitive = false

	err := idx.EnsurePreprocessorConfig(cfg)
	_, ok := err.(*dserrors.IndexerError)
	assert.True(t, ok)
}

func TestRebuildClearsStateAndAdoptsConfig(t *testing.T) {
	idx := newTestIndex(true)
	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 1}, nil))

	cfg := preprocess.DefaultConfig()
	cfg.Code.CaseSensitive = false
	idx.Rebuild(cfg)

	assert.Empty(t, idx.docsToIDs)
	assert.True(t, idx.Analyzer().Config().Equal(cfg))
}

func TestKeepDocsFalseStillRemovesPostings(t *testing.T) {
	idx := newTestIndex(false)
	idx.AddDocumentFreqs("a.go", freqs(map[string]int{"foo": 1}, nil))

	require.NoError(t, idx.RemoveDocument("a.go"))
	assert.Empty(t, idx.GetDocs(types.FieldCode, "foo"))
}
