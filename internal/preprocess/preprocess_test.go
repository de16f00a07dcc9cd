package preprocess

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/standardbeagle/deskdex/internal/types"
)

func TestPreprocessTextCodeFieldIsExactAndCaseSensitive(t *testing.T) {
	p := New(0, nil)
	cfg := DefaultConfig().Get(types.FieldCode)

	terms := p.PreprocessText(cfg, "FooBar fooBar")
	assert.Equal(t, []string{"FooBar", "fooBar"}, terms)
}

func TestPreprocessTextTextFieldLowercasesAndStems(t *testing.T) {
	p := New(0, nil)
	cfg := DefaultConfig().Get(types.FieldText)

	terms := p.PreprocessText(cfg, "Running runners")
	assert.NotContains(t, terms, "Running")
	assert.NotContains(t, terms, "Runners")
}

func TestPreprocessTextEmptyStringYieldsNoTerms(t *testing.T) {
	p := New(0, nil)
	assert.Nil(t, p.PreprocessText(DefaultConfig().Code, ""))
	assert.Nil(t, p.PreprocessText(DefaultConfig().Text, ""))
}

func TestPreprocessBatchCountsFrequencies(t *testing.T) {
	p := New(0, nil)
	cfg := DefaultConfig().Get(types.FieldCode)

	freq := map[string]int{}
	p.PreprocessBatch(cfg, []string{"foo bar", "foo"}, freq)

	assert.Equal(t, 2, freq["foo"])
	assert.Equal(t, 1, freq["bar"])
}

func TestExclusionsProtectWordsFromLemmatization(t *testing.T) {
	p := New(0, map[string]bool{"running": true})
	cfg := DefaultConfig().Get(types.FieldText)

	terms := p.PreprocessText(cfg, "running")
	assert.Equal(t, []string{"running"}, terms)
}

func TestMinStemLengthProtectsShortWords(t *testing.T) {
	p := New(4, nil)
	cfg := DefaultConfig().Get(types.FieldText)

	terms := p.PreprocessText(cfg, "cat cats")
	assert.Equal(t, "cat", terms[0])
}

func TestConfigEqual(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	assert.True(t, a.Equal(b))

	b.Code.CaseSensitive = false
	assert.False(t, a.Equal(b))
}

func TestPreprocessTextPanicsWhenLemmatizeWithoutTokenize(t *testing.T) {
	p := New(0, nil)
	cfg := FieldConfig{Tokenize: false, Lemmatize: true}
	assert.Panics(t, func() { p.PreprocessText(cfg, "a b") })
}
