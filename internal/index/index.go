// Package index implements the dual-field inverted index of spec §4.4:
// a docs<->ids bimap with tombstoned removal, per-field posting lists,
// and two scoring modes. It has no concurrency control of its own
// (spec §5): callers serialize mutations and fully drain lazy readers
// before mutating again.
package index

import (
	"log"
	"math"

	"github.com/standardbeagle/deskdex/internal/analyzer"
	"github.com/standardbeagle/deskdex/internal/dserrors"
	"github.com/standardbeagle/deskdex/internal/preprocess"
	"github.com/standardbeagle/deskdex/internal/types"
)

// postingList is an insertion-ordered doc_id -> term_frequency map.
// Insertion order is preserved so "unscored" positions are
// reproducible across a given index history (spec §4.4 "Scoring
// determinism"). Deletion is O(n) in the list's own size, which is no
// worse than the O(unique tokens)/O(total tokens) bounds the spec
// already allows for RemoveDocument.
type postingList struct {
	order []types.DocID
	freq  map[types.DocID]int
}

func newPostingList() *postingList {
	return &postingList{freq: make(map[types.DocID]int)}
}

func (pl *postingList) set(id types.DocID, freq int) {
	if _, exists := pl.freq[id]; !exists {
		pl.order = append(pl.order, id)
	}
	pl.freq[id] = freq
}

func (pl *postingList) delete(id types.DocID) {
	if _, exists := pl.freq[id]; !exists {
		return
	}
	delete(pl.freq, id)
	for i, existing := range pl.order {
		if existing == id {
			pl.order = append(pl.order[:i], pl.order[i+1:]...)
			break
		}
	}
}

func (pl *postingList) len() int { return len(pl.order) }

// InvertedIndex holds document identity and the per-field posting
// tables described in spec §3.
type InvertedIndex struct {
	analyzer *analyzer.Analyzer
	keepDocs bool

	docsToIDs map[string]types.DocID
	idsToDocs map[types.DocID]*string // nil entry == tombstone

	// table[field][token] is the posting list for that token.
	table map[types.Field]map[string]*postingList

	// docFreqs[field][docID] is the reverse view used for O(unique
	// tokens) removal; present only when keepDocs is true.
	docFreqs map[types.Field]map[types.DocID]map[string]int
}

// New creates an empty index bound to analyzer. Set keepDocs=false to
// reduce memory at the cost of O(total tokens) removal (spec §4.4).
func New(a *analyzer.Analyzer, keepDocs bool) *InvertedIndex {
	idx := &InvertedIndex{analyzer: a, keepDocs: keepDocs}
	idx.Clear()
	return idx
}

// SetAnalyzer re-attaches a runtime analyzer after the persisted state
// (docsToIDs/idsToDocs/table/docFreqs) has been loaded from a snapshot
// (spec §6 "the analyzer is re-attached... not part of the serialized
// state").
func (idx *InvertedIndex) SetAnalyzer(a *analyzer.Analyzer) { idx.analyzer = a }

// Analyzer returns the attached analyzer.
func (idx *InvertedIndex) Analyzer() *analyzer.Analyzer { return idx.analyzer }

// Clear wipes all state back to empty.
func (idx *InvertedIndex) Clear() {
	idx.docsToIDs = make(map[string]types.DocID)
	idx.idsToDocs = make(map[types.DocID]*string)
	idx.table = map[types.Field]map[string]*postingList{
		types.FieldCode: make(map[string]*postingList),
		types.FieldText: make(map[string]*postingList),
	}
	if idx.keepDocs {
		idx.docFreqs = map[types.Field]map[types.DocID]map[string]int{
			types.FieldCode: make(map[types.DocID]map[string]int),
			types.FieldText: make(map[types.DocID]map[string]int),
		}
	} else {
		idx.docFreqs = nil
	}
}

// AddDocument runs the analyzer over path and forwards the result to
// AddDocumentFreqs. It returns false when the file is not analyzable;
// per spec §9's open-question resolution, no doc_id is allocated for
// an unanalyzable path.
func (idx *InvertedIndex) AddDocument(path string) (bool, error) {
	freqs, err := idx.analyzer.Analyze(path)
	if err != nil {
		if _, ok := err.(*dserrors.NotAnalyzable); ok {
			return false, nil
		}
		return false, err
	}
	return idx.AddDocumentFreqs(path, freqs), nil
}

// AddDocumentFreqs allocates or reuses a doc_id for path and
// materializes its postings (spec §4.4).
func (idx *InvertedIndex) AddDocumentFreqs(path string, freqs map[types.Field]map[string]int) bool {
	id, exists := idx.docsToIDs[path]
	if !exists {
		id = types.DocID(len(idx.docsToIDs))
		idx.docsToIDs[path] = id
	} else if idx.idsToDocs[id] != nil {
		log.Printf("WARNING: ignoring %s (duplicate path)", path)
		return false
	}

	pathCopy := path
	idx.idsToDocs[id] = &pathCopy

	if idx.keepDocs {
		for _, field := range types.Fields {
			idx.docFreqs[field][id] = freqs[field]
		}
	}

	for _, field := range types.Fields {
		table := idx.table[field]
		for token, freq := range freqs[field] {
			pl, ok := table[token]
			if !ok {
				pl = newPostingList()
				table[token] = pl
			}
			pl.set(id, freq)
		}
	}

	return true
}

// RemoveDocument tombstones path's doc_id and erases its postings
// (spec §4.4). It returns *dserrors.InvalidDocument if path has no id.
func (idx *InvertedIndex) RemoveDocument(path string) error {
	id, ok := idx.docsToIDs[path]
	if !ok {
		return &dserrors.InvalidDocument{Path: path}
	}
	if idx.idsToDocs[id] == nil {
		return &dserrors.InvalidDocument{Path: path}
	}
	idx.idsToDocs[id] = nil

	if idx.keepDocs {
		for _, field := range types.Fields {
			fieldFreqs, ok := idx.docFreqs[field][id]
			if !ok {
				continue
			}
			table := idx.table[field]
			for token := range fieldFreqs {
				if pl, ok := table[token]; ok {
					pl.delete(id)
				}
			}
			delete(idx.docFreqs[field], id)
		}
		return nil
	}

	for _, table := range idx.table {
		for _, pl := range table {
			pl.delete(id)
		}
	}
	return nil
}

// UpdateDocument is RemoveDocument followed by AddDocument, preserving
// the doc_id (spec §4.4). It returns the result of the add.
func (idx *InvertedIndex) UpdateDocument(path string) (bool, error) {
	if err := idx.RemoveDocument(path); err != nil {
		return false, err
	}
	return idx.AddDocument(path)
}

// GetDocs returns the posting list for (field, token) as a plain map.
// Unknown tokens return an empty map and never insert into the index
// (spec §4.4). Case-insensitive fields lowercase the token first.
func (idx *InvertedIndex) GetDocs(field types.Field, token string) map[types.DocID]int {
	token = idx.normalizeLookup(field, token)
	pl, ok := idx.table[field][token]
	if !ok {
		return map[types.DocID]int{}
	}
	out := make(map[types.DocID]int, len(pl.freq))
	for id, freq := range pl.freq {
		out[id] = freq
	}
	return out
}

func (idx *InvertedIndex) normalizeLookup(field types.Field, token string) string {
	if idx.analyzer == nil {
		return token
	}
	if !idx.analyzer.Config().Get(field).CaseSensitive {
		return toLower(token)
	}
	return token
}

func toLower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}

// SearchResult pairs an optional path (nil for a tombstoned doc_id)
// with a score.
type SearchResult struct {
	Path  *string
	Score float64
}

func (idx *InvertedIndex) path(id types.DocID) *string { return idx.idsToDocs[id] }

func (idx *InvertedIndex) idf(field types.Field, df int) float64 {
	numDocs := len(idx.table[field])
	return math.Log10(float64(numDocs) / float64(df))
}

// GetPaths returns every (path_or_tombstone, score) pair for (field,
// token) under the requested scoring mode (spec §4.4). The result is
// materialized eagerly (Go lacks the source ecosystem's free lazy
// generators) but holds no further reference into the index once
// returned.
func (idx *InvertedIndex) GetPaths(field types.Field, token string, scoring types.Scoring) []SearchResult {
	token = idx.normalizeLookup(field, token)
	pl, ok := idx.table[field][token]
	if !ok {
		return nil
	}

	results := make([]SearchResult, 0, pl.len())
	switch scoring {
	case types.ScoringUnscored:
		for i, id := range pl.order {
			results = append(results, SearchResult{Path: idx.path(id), Score: float64(i)})
		}
	case types.ScoringTermFreq:
		for _, id := range pl.order {
			results = append(results, SearchResult{Path: idx.path(id), Score: float64(pl.freq[id])})
		}
	case types.ScoringTFIDF:
		if pl.len() == 0 {
			return nil
		}
		idf := idx.idf(field, pl.len())
		for _, id := range pl.order {
			results = append(results, SearchResult{Path: idx.path(id), Score: float64(pl.freq[id]) * idf})
		}
	}
	return results
}

// GetPathsOp combines the per-token document sets for tokens with op
// and scores the combined set (spec §4.4).
func (idx *InvertedIndex) GetPathsOp(field types.Field, tokens []string, op types.SetOp, scoring types.Scoring) []SearchResult {
	lists := make([]*postingList, 0, len(tokens))
	for _, token := range tokens {
		token = idx.normalizeLookup(field, token)
		if pl, ok := idx.table[field][token]; ok {
			lists = append(lists, pl)
		} else {
			lists = append(lists, newPostingList())
		}
	}

	combined := combineOrdered(lists, op)

	results := make([]SearchResult, 0, len(combined))
	switch scoring {
	case types.ScoringUnscored:
		for i, id := range combined {
			results = append(results, SearchResult{Path: idx.path(id), Score: float64(i)})
		}
	case types.ScoringTermFreq:
		sums := make(map[types.DocID]int, len(combined))
		for _, pl := range lists {
			for id, freq := range pl.freq {
				sums[id] += freq
			}
		}
		for _, id := range combined {
			results = append(results, SearchResult{Path: idx.path(id), Score: float64(sums[id])})
		}
	case types.ScoringTFIDF:
		sums := make(map[types.DocID]float64, len(combined))
		for _, pl := range lists {
			if pl.len() == 0 {
				continue
			}
			idf := idx.idf(field, pl.len())
			for id, freq := range pl.freq {
				sums[id] += float64(freq) * idf
			}
		}
		for _, id := range combined {
			results = append(results, SearchResult{Path: idx.path(id), Score: sums[id]})
		}
	}
	return results
}

// combineOrdered applies op across the posting lists' doc_id sets
// while preserving, for the union case, the first-seen insertion order
// across all lists, and for the intersection case the order of the
// first list (spec §4.4 "Scoring determinism").
func combineOrdered(lists []*postingList, op types.SetOp) []types.DocID {
	if len(lists) == 0 {
		return nil
	}

	switch op {
	case types.OpIntersection:
		counts := make(map[types.DocID]int)
		for _, pl := range lists {
			seen := make(map[types.DocID]bool, pl.len())
			for _, id := range pl.order {
				if !seen[id] {
					seen[id] = true
					counts[id]++
				}
			}
		}
		var out []types.DocID
		for _, id := range lists[0].order {
			if counts[id] == len(lists) {
				out = append(out, id)
			}
		}
		return out
	case types.OpUnion:
		var out []types.DocID
		seen := make(map[types.DocID]bool)
		for _, pl := range lists {
			for _, id := range pl.order {
				if !seen[id] {
					seen[id] = true
					out = append(out, id)
				}
			}
		}
		return out
	default:
		return nil
	}
}

// EnsurePreprocessorConfig checks whether cfg matches the analyzer's
// active config, surfacing *dserrors.IndexerError when it diverges, as
// required before any incremental indexing pass (spec §4.5 step 1).
func (idx *InvertedIndex) EnsurePreprocessorConfig(cfg preprocess.Config) error {
	if !idx.analyzer.Config().Equal(cfg) {
		return &dserrors.IndexerError{Reason: "Changing case-sensitivity requires a full index rebuild"}
	}
	return nil
}

// Rebuild clears the index and adopts cfg as the analyzer's new
// configuration (spec §4.5 step 1, full-rebuild path).
func (idx *InvertedIndex) Rebuild(cfg preprocess.Config) {
	idx.Clear()
	idx.analyzer.SetConfig(cfg)
}
