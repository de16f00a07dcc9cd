package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/deskdex/internal/dserrors"
	"github.com/standardbeagle/deskdex/internal/preprocess"
	"github.com/standardbeagle/deskdex/internal/tokenizer"
	"github.com/standardbeagle/deskdex/internal/types"
)

func TestAnalyzeDispatchesBySuffix(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello hello world"), 0o644))

	pre := preprocess.New(0, nil)
	a := New(pre, preprocess.DefaultConfig(), tokenizer.NewPlaintextPlugin())

	freqs, err := a.Analyze(path)
	require.NoError(t, err)
	assert.Equal(t, 2, freqs[types.FieldText]["hello"])
}

func TestAnalyzeUnclaimedSuffixIsNotAnalyzable(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data.unknownext")
	require.NoError(t, os.WriteFile(path, []byte("whatever"), 0o644))

	pre := preprocess.New(0, nil)
	a := New(pre, preprocess.DefaultConfig(), tokenizer.NewPlaintextPlugin())

	_, err := a.Analyze(path)
	require.Error(t, err)
	_, ok := err.(*dserrors.NotAnalyzable)
	assert.True(t, ok)
}

func TestRegisterFirstPluginWinsOnSuffixConflict(t *testing.T) {
	first := tokenizer.NewPlaintextPlugin()
	second := &conflictingPlugin{}

	pre := preprocess.New(0, nil)
	a := New(pre, preprocess.DefaultConfig(), first, second)

	assert.Same(t, tokenizer.Plugin(first), a.bySuffix[".txt"])
}

func TestQueryUsesSameConfigAsIndexTime(t *testing.T) {
	pre := preprocess.New(0, nil)
	a := New(pre, preprocess.DefaultConfig())

	tokens := a.Query(types.FieldText, "Running fast")
	assert.NotContains(t, tokens, "Running")
}

type conflictingPlugin struct{}

func (c *conflictingPlugin) Suffixes() []string                          { return []string{".txt"} }
func (c *conflictingPlugin) Exceptions() map[tokenizer.ErrorCategory]string { return nil }
func (c *conflictingPlugin) Lex(path string) (tokenizer.RawTokens, error)   { return nil, nil }
