package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithNoFileReturnsDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadParsesGroupsSuffixesAndFieldConfig(t *testing.T) {
	dir := t.TempDir()
	kdl := `
group "work" {
	roots "/home/me/work"
}
suffixes ".go" ".py"
gitignore false
debounce-ms 750
code {
	tokenize false
	case-sensitive true
}
text {
	lemmatize false
}
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".deskdex.kdl"), []byte(kdl), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	require.Len(t, cfg.Groups, 1)
	assert.Equal(t, "work", cfg.Groups[0].Name)
	assert.Equal(t, []string{"/home/me/work"}, cfg.Groups[0].Roots)

	assert.True(t, cfg.Suffixes[".go"])
	assert.True(t, cfg.Suffixes[".py"])
	assert.False(t, cfg.Gitignore)
	assert.Equal(t, 750, cfg.DebounceMs)
	assert.False(t, cfg.Preprocess.Code.Tokenize)
	assert.False(t, cfg.Preprocess.Text.Lemmatize)
}

func TestGroupMapFlattensGroups(t *testing.T) {
	cfg := Config{Groups: []Group{
		{Name: "a", Roots: []string{"/x"}},
		{Name: "b", Roots: []string{"/y", "/z"}},
	}}

	gm := cfg.GroupMap()
	assert.Equal(t, []string{"/x"}, gm["a"])
	assert.Equal(t, []string{"/y", "/z"}, gm["b"])
}

func TestLoadRejectsMalformedKDL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".deskdex.kdl"), []byte("group \"unterminated"), 0o644))

	_, err := Load(dir)
	assert.Error(t, err)
}
