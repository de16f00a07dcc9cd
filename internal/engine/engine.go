// Package engine wires a Preprocessor, Analyzer, InvertedIndex,
// Indexer and Retriever into the single value a front end drives (spec
// §9's design note: "module-level globals become an explicit Engine
// value"). Nothing in the core packages themselves knows about this
// type; it exists purely to give cmd/deskdex one object to hold,
// matching the way the teacher's cmd/lci wraps its own core services
// behind one struct built in main.go.
package engine

import (
	"github.com/standardbeagle/deskdex/internal/analyzer"
	"github.com/standardbeagle/deskdex/internal/config"
	"github.com/standardbeagle/deskdex/internal/index"
	"github.com/standardbeagle/deskdex/internal/indexer"
	"github.com/standardbeagle/deskdex/internal/preprocess"
	"github.com/standardbeagle/deskdex/internal/retriever"
	"github.com/standardbeagle/deskdex/internal/tokenizer"
	"github.com/standardbeagle/deskdex/internal/types"
)

// Engine owns one index and the indexer/retriever pair bound to it.
type Engine struct {
	Index     *index.InvertedIndex
	Indexer   *indexer.Indexer
	Retriever *retriever.Retriever
	cfg       config.Config
}

// New builds an Engine from cfg, registering every tokenizer plugin
// this module ships (spec §4.2's plugin table) in the precedence order
// the analyzer uses to break suffix ties. keepDocs controls whether
// the index keeps its per-document reverse view for O(unique tokens)
// removal or scans every posting list instead (spec §4.4).
func New(cfg config.Config, keepDocs bool) *Engine {
	pre := preprocess.New(0, nil)
	a := analyzer.New(pre, cfg.Preprocess,
		tokenizer.NewGoPlugin(),
		tokenizer.NewPythonPlugin(),
		tokenizer.NewJavaScriptPlugin(),
		tokenizer.NewTypeScriptPlugin(),
		tokenizer.NewTSXPlugin(),
		tokenizer.NewJavaPlugin(),
		tokenizer.NewCSharpPlugin(),
		tokenizer.NewCppPlugin(),
		tokenizer.NewRustPlugin(),
		tokenizer.NewPHPPlugin(),
		tokenizer.NewZigPlugin(),
		tokenizer.NewPlaintextPlugin(),
	)

	idx := index.New(a, keepDocs)
	ix := indexer.New(idx)
	ix.SetGroups(cfg.GroupMap())
	rt := retriever.New(idx)
	rt.SetGroups(cfg.GroupMap())

	return &Engine{Index: idx, Indexer: ix, Retriever: rt, cfg: cfg}
}

// Reconfigure installs a new root configuration, re-deriving the
// group maps both the indexer and retriever read. It does not by
// itself trigger a rebuild; the caller's next Index call decides that
// via preprocess.Config.Equal (spec §4.5 step 1).
func (e *Engine) Reconfigure(cfg config.Config) {
	e.cfg = cfg
	e.Indexer.SetGroups(cfg.GroupMap())
	e.Retriever.SetGroups(cfg.GroupMap())
}

// Config returns the configuration the Engine was last built or
// reconfigured with.
func (e *Engine) Config() config.Config { return e.cfg }

// Run walks every configured group and applies the diff against the
// index's current state (spec §4.5). partial selects an incremental
// pass; a full pass rebuilds the index from scratch first.
func (e *Engine) Run(partial bool, progress func(path string)) (added, removed, updated int, err error) {
	return e.Indexer.Index(e.cfg.Suffixes, partial, e.cfg.Gitignore, e.cfg.Preprocess, progress)
}

// Search runs a free-text query against field within group, scoped
// and sorted the way the retriever's post-processing dictates (spec
// §4.6).
func (e *Engine) Search(group string, field types.Field, text string, op types.SetOp, sortBy types.SortOrder, scoring types.Scoring) []retriever.Result {
	return e.Retriever.SearchText(group, field, text, op, sortBy, scoring)
}
