// Package types holds the small value types shared across the index,
// analyzer, indexer and retriever packages.
package types

// Field is one of the two token classes the analyzer can emit.
type Field string

const (
	// FieldCode holds identifiers and numeric literals.
	FieldCode Field = "code"
	// FieldText holds strings, comments and prose.
	FieldText Field = "text"
)

// Fields lists the two recognized fields in a stable order, used
// anywhere the table needs to be iterated deterministically.
var Fields = [2]Field{FieldCode, FieldText}

// DocID is a stable, monotonically-allocated document identifier.
// Once assigned to a path it is never reassigned to a different path,
// though it may be reused by the same path after a remove+re-add.
type DocID int

// Scoring selects how InvertedIndex.GetPaths / GetPathsOp rank hits.
type Scoring string

const (
	ScoringUnscored Scoring = "unscored"
	ScoringTermFreq Scoring = "term_freq"
	ScoringTFIDF    Scoring = "tfidf"
)

// SetOp combines per-token document sets in GetPathsOp.
type SetOp string

const (
	OpIntersection SetOp = "intersection"
	OpUnion        SetOp = "union"
)

// SortOrder controls Retriever result ordering.
type SortOrder string

const (
	SortPath     SortOrder = "path"
	SortScore    SortOrder = "score"
	SortTermFreq SortOrder = "term_freq"
	SortTFIDF    SortOrder = "tfidf"
)
