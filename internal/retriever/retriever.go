// Package retriever filters and sorts InvertedIndex search hits by a
// named group of roots (spec §4.6).
package retriever

import (
	"sort"
	"strings"

	"github.com/standardbeagle/deskdex/internal/index"
	"github.com/standardbeagle/deskdex/internal/types"
)

// Result pairs a live (never tombstoned) path with its score.
type Result struct {
	Path  string
	Score float64
}

// Retriever holds a reference to an index and the group definitions
// that scope search results (spec §4.6).
type Retriever struct {
	idx    *index.InvertedIndex
	groups map[string][]string
}

// New creates a Retriever bound to idx with no groups.
func New(idx *index.InvertedIndex) *Retriever {
	return &Retriever{idx: idx, groups: map[string][]string{}}
}

// SetGroups installs the group -> roots mapping used to scope results.
func (r *Retriever) SetGroups(groups map[string][]string) { r.groups = groups }

// SearchToken performs a single-token lookup (spec §4.6).
func (r *Retriever) SearchToken(group string, field types.Field, token string, sortBy types.SortOrder, scoring types.Scoring) []Result {
	hits := r.idx.GetPaths(field, token, scoring)
	return r.finish(group, hits, sortBy)
}

// SearchTokensAnd performs a multi-token intersection lookup (spec §4.6).
func (r *Retriever) SearchTokensAnd(group string, field types.Field, tokens []string, sortBy types.SortOrder, scoring types.Scoring) []Result {
	hits := r.idx.GetPathsOp(field, tokens, types.OpIntersection, scoring)
	return r.finish(group, hits, sortBy)
}

// SearchTokensOr performs a multi-token union lookup (spec §4.6).
func (r *Retriever) SearchTokensOr(group string, field types.Field, tokens []string, sortBy types.SortOrder, scoring types.Scoring) []Result {
	hits := r.idx.GetPathsOp(field, tokens, types.OpUnion, scoring)
	return r.finish(group, hits, sortBy)
}

// SearchText tokenizes text through the analyzer's query path; with
// one resulting token it delegates to SearchToken, otherwise it
// dispatches by op (spec §4.6).
func (r *Retriever) SearchText(group string, field types.Field, text string, op types.SetOp, sortBy types.SortOrder, scoring types.Scoring) []Result {
	tokens := r.idx.Analyzer().Query(field, text)
	if len(tokens) == 1 {
		return r.SearchToken(group, field, tokens[0], sortBy, scoring)
	}
	switch op {
	case types.OpIntersection:
		return r.SearchTokensAnd(group, field, tokens, sortBy, scoring)
	case types.OpUnion:
		return r.SearchTokensOr(group, field, tokens, sortBy, scoring)
	default:
		return nil
	}
}

// finish drops tombstones, applies the group filter, and sorts (spec
// §4.6 "Common post-processing").
func (r *Retriever) finish(group string, hits []index.SearchResult, sortBy types.SortOrder) []Result {
	roots := r.groups[group] // caller-validated per spec §4.6; missing group yields no results

	out := make([]Result, 0, len(hits))
	for _, hit := range hits {
		if hit.Path == nil {
			continue
		}
		if !inAnyRoot(*hit.Path, roots) {
			continue
		}
		out = append(out, Result{Path: *hit.Path, Score: hit.Score})
	}

	switch sortBy {
	case types.SortPath:
		sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	default:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	}
	return out
}

func inAnyRoot(path string, roots []string) bool {
	for _, root := range roots {
		if strings.HasPrefix(path, root) {
			return true
		}
	}
	return false
}
