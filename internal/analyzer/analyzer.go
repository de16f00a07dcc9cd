// Package analyzer dispatches a path to the right tokenizer plugin by
// suffix and normalizes query strings through the same preprocessing
// pipeline used at index time (spec §4.3).
package analyzer

import (
	"log"
	"strings"

	"github.com/standardbeagle/deskdex/internal/dserrors"
	"github.com/standardbeagle/deskdex/internal/preprocess"
	"github.com/standardbeagle/deskdex/internal/tokenizer"
	"github.com/standardbeagle/deskdex/internal/types"
)

// Analyzer holds one plugin instance per claimed suffix.
type Analyzer struct {
	pre        *preprocess.Preprocessor
	config     preprocess.Config
	bySuffix   map[string]tokenizer.Plugin
}

// New builds an Analyzer from a registration-ordered plugin list.
// Registration order determines precedence: the first plugin to claim
// a suffix wins, and later claimants are logged and ignored for that
// suffix (spec §4.3).
func New(pre *preprocess.Preprocessor, cfg preprocess.Config, plugins ...tokenizer.Plugin) *Analyzer {
	a := &Analyzer{pre: pre, config: cfg, bySuffix: make(map[string]tokenizer.Plugin)}
	for _, p := range plugins {
		a.register(p)
	}
	return a
}

func (a *Analyzer) register(p tokenizer.Plugin) {
	for _, suffix := range p.Suffixes() {
		if _, claimed := a.bySuffix[suffix]; claimed {
			log.Printf("WARNING: %s already handled by another plugin", suffix)
			continue
		}
		a.bySuffix[suffix] = p
	}
}

// Config returns the preprocessor configuration currently in effect.
func (a *Analyzer) Config() preprocess.Config { return a.config }

// SetConfig replaces the active preprocessor configuration. Callers
// (the indexer) must ensure this is only called at the start of a full
// rebuild, never mid-pass (spec §4.5 step 1).
func (a *Analyzer) SetConfig(cfg preprocess.Config) { a.config = cfg }

func suffixOf(path string) string {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ""
	}
	// Only treat it as a suffix if it comes after the last path
	// separator, matching filepath.Ext semantics without importing
	// path/filepath here.
	sep := strings.LastIndexAny(path, `/\`)
	if idx < sep {
		return ""
	}
	return strings.ToLower(path[idx:])
}

// Analyze dispatches on path's suffix and returns per-field term
// frequencies, or *dserrors.NotAnalyzable when no plugin claims the
// suffix (spec §4.3, §4.4's AddDocument contract).
func (a *Analyzer) Analyze(path string) (map[types.Field]map[string]int, error) {
	suffix := suffixOf(path)
	plugin, ok := a.bySuffix[suffix]
	if !ok {
		log.Printf("DEBUG: ignoring %s (invalid suffix)", path)
		return nil, &dserrors.NotAnalyzable{Path: path, Suffix: suffix}
	}

	return tokenizer.Tokenize(plugin, a.pre, a.config, path)
}

// Query applies the same preprocessing pipeline used at index time to
// a raw query string, so index and query vocabularies agree (spec
// §4.3, "Query/index vocabulary agreement").
func (a *Analyzer) Query(field types.Field, text string) []string {
	return a.pre.PreprocessText(a.config.Get(field), text)
}
