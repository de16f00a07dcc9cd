// Package preprocess normalizes raw token streams into the terms that
// populate and query the inverted index (spec §4.1). It mirrors the
// teacher's internal/semantic stemming layer, swapping the teacher's
// symbol-splitting concerns for the spec's tokenize/case-fold/lemmatize
// pipeline.
package preprocess

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/surgebase/porter2"

	"github.com/standardbeagle/deskdex/internal/types"
)

// FieldConfig controls normalization for a single field.
type FieldConfig struct {
	// Tokenize, if true, splits prose into words before further
	// normalization. If false, the input is split on a single space
	// character (spec §4.1).
	Tokenize bool
	// CaseSensitive, if false, lowercases tokens after lemmatization.
	CaseSensitive bool
	// Lemmatize replaces each token with its lemma. Only meaningful
	// when Tokenize is true.
	Lemmatize bool
}

// Config is the preprocessor configuration for both fields (spec §6).
type Config struct {
	Code FieldConfig
	Text FieldConfig
}

// DefaultConfig matches the original desktopsearch defaults: exact
// code tokens, case-folded and lemmatized prose.
func DefaultConfig() Config {
	return Config{
		Code: FieldConfig{Tokenize: false, CaseSensitive: true, Lemmatize: false},
		Text: FieldConfig{Tokenize: true, CaseSensitive: false, Lemmatize: true},
	}
}

// Get returns the configuration for the named field.
func (c Config) Get(field types.Field) FieldConfig {
	if field == types.FieldCode {
		return c.Code
	}
	return c.Text
}

// Equal reports whether two configs describe the same normalization,
// used by the indexer to detect a case-sensitivity change that
// requires a full rebuild (spec §4.5 step 1).
func (c Config) Equal(other Config) bool {
	return c.Code == other.Code && c.Text == other.Text
}

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Preprocessor normalizes token streams. It holds no per-call state
// and is safe to share across plugins (spec §5).
type Preprocessor struct {
	minStemLength int
	exclusions    map[string]bool
}

// New creates a Preprocessor. minStemLength and exclusions tune the
// lemmatizer the same way the teacher's Stemmer does (internal/semantic/stemmer.go);
// a minStemLength of 0 and a nil exclusion set behave like the
// original desktopsearch, which always lemmatizes.
func New(minStemLength int, exclusions map[string]bool) *Preprocessor {
	if exclusions == nil {
		exclusions = map[string]bool{}
	}
	return &Preprocessor{minStemLength: minStemLength, exclusions: exclusions}
}

func (p *Preprocessor) lemma(word string) string {
	if len(word) < p.minStemLength || p.exclusions[strings.ToLower(word)] {
		return word
	}
	return porter2.Stem(word)
}

// PreprocessText runs the full pipeline over a single string and
// returns the resulting terms. It is deterministic and pure (spec §4.1).
func (p *Preprocessor) PreprocessText(cfg FieldConfig, text string) []string {
	if text == "" {
		return nil
	}

	var raw []string
	if cfg.Tokenize {
		raw = wordPattern.FindAllString(text, -1)
	} else {
		if cfg.Lemmatize {
			panic("preprocess: lemmatize requires tokenize")
		}
		raw = strings.Split(text, " ")
	}

	terms := make([]string, 0, len(raw))
	for _, tok := range raw {
		terms = append(terms, p.normalizeToken(cfg, tok))
	}
	return terms
}

func (p *Preprocessor) normalizeToken(cfg FieldConfig, tok string) string {
	if cfg.Tokenize && cfg.Lemmatize {
		tok = p.lemma(tok)
	}
	if !cfg.CaseSensitive {
		tok = strings.ToLower(tok)
	}
	return tok
}

// PreprocessBatch updates freq with the terms produced by running
// PreprocessText over every element of texts; it iterates
// PreprocessText and counts the terms (spec §4.1).
func (p *Preprocessor) PreprocessBatch(cfg FieldConfig, texts []string, freq map[string]int) {
	if !cfg.Tokenize && cfg.Lemmatize {
		panic("preprocess: lemmatize requires tokenize")
	}
	for _, text := range texts {
		for _, term := range p.PreprocessText(cfg, text) {
			freq[term]++
		}
	}
}

// String implements fmt.Stringer for debug logging.
func (c FieldConfig) String() string {
	return fmt.Sprintf("tokenize=%t case-sensitive=%t lemmatize=%t", c.Tokenize, c.CaseSensitive, c.Lemmatize)
}
