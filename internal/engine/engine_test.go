package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/deskdex/internal/config"
	"github.com/standardbeagle/deskdex/internal/types"
)

func TestEngineIndexesAndSearchesPlaintextFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello deskdex"), 0o644))

	cfg := config.Default()
	cfg.Groups = []config.Group{{Name: "default", Roots: []string{dir}}}

	e := New(cfg, true)
	added, _, _, err := e.Run(false, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	results := e.Search("default", types.FieldText, "deskdex", types.OpIntersection, types.SortPath, types.ScoringTFIDF)
	require.Len(t, results, 1)
	assert.Equal(t, filepath.Join(dir, "notes.txt"), results[0].Path)
}

func TestEngineIndexesGoSourceIntoBothFields(t *testing.T) {
	dir := t.TempDir()
	src := "package main\n\nfunc greet() string {\n\treturn \"hi\"\n}\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte(src), 0o644))

	cfg := config.Default()
	cfg.Groups = []config.Group{{Name: "default", Roots: []string{dir}}}

	e := New(cfg, true)
	_, _, _, err := e.Run(false, nil)
	require.NoError(t, err)

	results := e.Search("default", types.FieldCode, "greet", types.OpIntersection, types.SortPath, types.ScoringUnscored)
	require.Len(t, results, 1)

	results = e.Search("default", types.FieldText, "hi", types.OpIntersection, types.SortPath, types.ScoringUnscored)
	require.Len(t, results, 1)
}

func TestReconfigureUpdatesGroupsUsedBySearch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644))

	cfg := config.Default()
	cfg.Groups = []config.Group{{Name: "a", Roots: []string{dir}}}
	e := New(cfg, true)
	_, _, _, err := e.Run(false, nil)
	require.NoError(t, err)

	cfg.Groups = []config.Group{{Name: "b", Roots: []string{dir}}}
	e.Reconfigure(cfg)

	assert.Empty(t, e.Search("a", types.FieldText, "hello", types.OpIntersection, types.SortPath, types.ScoringUnscored))
	assert.Len(t, e.Search("b", types.FieldText, "hello", types.OpIntersection, types.SortPath, types.ScoringUnscored), 1)
}
