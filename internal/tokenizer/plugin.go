// Package tokenizer declares the per-suffix lexer plugin contract and
// the phase-two preprocessing glue described in spec §4.2. Each plugin
// only produces raw (field, token) pairs; frequency counting and
// normalization is delegated to internal/preprocess so every plugin
// shares one normalization pipeline (spec "Query/index vocabulary
// agreement").
package tokenizer

import (
	"fmt"
	"log"
	"strings"

	"github.com/standardbeagle/deskdex/internal/preprocess"
	"github.com/standardbeagle/deskdex/internal/types"
)

// ErrorCategory names a class of tokenization failure a plugin knows
// how to downgrade to a skip-with-warning (spec §4.2, §7).
type ErrorCategory string

const (
	CategoryValueError        ErrorCategory = "ValueError"
	CategorySyntaxError       ErrorCategory = "SyntaxError"
	CategoryIndentationError  ErrorCategory = "IndentationError"
	CategoryTokenError        ErrorCategory = "TokenError"
	CategoryUnicodeDecodeErr  ErrorCategory = "UnicodeDecodeError"
)

// CategorizedError tags an error raised during lexing with the
// category a plugin's Exceptions table may recognize.
type CategorizedError struct {
	Category ErrorCategory
	Err      error
}

func (e *CategorizedError) Error() string { return e.Err.Error() }
func (e *CategorizedError) Unwrap() error { return e.Err }

// RawTokens is the phase-one lexer output: every raw token observed
// for a field, in lexical order, before any preprocessing.
type RawTokens map[types.Field][]string

// Plugin is implemented by every per-suffix lexer.
type Plugin interface {
	// Suffixes lists the lowercase, dot-prefixed suffixes this plugin
	// claims (spec §6).
	Suffixes() []string
	// Exceptions maps an error category to a log message template
	// using the named placeholders {path} and {exc} (spec §6).
	Exceptions() map[ErrorCategory]string
	// Lex performs phase one: raw (field, token) extraction. A
	// *CategorizedError listed in Exceptions causes the file to be
	// skipped with a warning; any other error is fatal to the file
	// and bubbles up to the indexer (spec §4.2, §7).
	Lex(path string) (RawTokens, error)
}

func renderTemplate(tpl, path string, exc error) string {
	r := strings.NewReplacer("{path}", path, "{exc}", exc.Error())
	return r.Replace(tpl)
}

// Tokenize runs both phases of spec §4.2's tokenize(path) operation:
// phase one via plugin.Lex, phase two through the shared preprocessor.
// A recognized exception category does not abort the file: it is
// logged, any raw tokens the plugin returned are discarded, and
// preprocessing continues with no tokens, so the document still gets
// added with empty postings rather than being dropped outright (spec
// §4.2 "the file contributes no tokens", §7). Only an unrecognized
// error aborts the file and is returned to the caller.
func Tokenize(plugin Plugin, pre *preprocess.Preprocessor, cfg preprocess.Config, path string) (freqs map[types.Field]map[string]int, err error) {
	raw, lexErr := plugin.Lex(path)
	if lexErr != nil {
		ce, isCategorized := lexErr.(*CategorizedError)
		if !isCategorized {
			return nil, lexErr
		}
		tpl, known := plugin.Exceptions()[ce.Category]
		if !known {
			return nil, lexErr
		}
		log.Printf("WARNING: %s", renderTemplate(tpl, path, ce.Err))
		raw = RawTokens{}
	}

	freqs = make(map[types.Field]map[string]int, len(types.Fields))
	for _, field := range types.Fields {
		fieldFreqs := make(map[string]int)
		fieldCfg := cfg.Get(field)
		if err := preprocessField(pre, fieldCfg, raw[field], fieldFreqs); err != nil {
			log.Printf("ERROR: preprocessing %s [%s] failed: %v", path, field, err)
			continue
		}
		freqs[field] = fieldFreqs
	}
	return freqs, nil
}

// preprocessField wraps PreprocessBatch so a malformed config (caught
// by the panic in internal/preprocess) is reported the way the
// original plugin.py reports a ValueError during preprocessing,
// instead of crashing the whole indexing pass.
func preprocessField(pre *preprocess.Preprocessor, cfg preprocess.FieldConfig, tokens []string, freq map[string]int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	pre.PreprocessBatch(cfg, tokens, freq)
	return nil
}
