// Package indexer implements the incremental indexing pass of spec
// §4.5: walk configured root trees, optionally honor .gitignore
// scoping, diff file modification times against a persistent map, and
// drive add/update/remove against an InvertedIndex.
package indexer

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/standardbeagle/deskdex/internal/dserrors"
	"github.com/standardbeagle/deskdex/internal/gitwalk"
	"github.com/standardbeagle/deskdex/internal/index"
	"github.com/standardbeagle/deskdex/internal/preprocess"
)

// defaultIgnores seeds every walk's root PathSpec (spec §4.5 step 2).
var defaultIgnores = []string{".git"}

// Indexer drives one InvertedIndex through repeated incremental or
// full passes (spec §4.5).
type Indexer struct {
	idx    *index.InvertedIndex
	groups map[string][]string
	mtimes map[string]int64
}

// New creates an Indexer bound to idx, with no groups and no history.
func New(idx *index.InvertedIndex) *Indexer {
	return &Indexer{idx: idx, groups: map[string][]string{}, mtimes: map[string]int64{}}
}

// SetGroups installs the named root sets a later Index call walks
// (spec §3 "groups").
func (ix *Indexer) SetGroups(groups map[string][]string) { ix.groups = groups }

// Counts reports how many paths are currently tracked by mtime,
// mainly useful for tests asserting the post-pass invariant in spec §3
// ("mtimes keys after a completed indexing pass equal the set of files
// that were present and handled in that pass").
func (ix *Indexer) Counts() int { return len(ix.mtimes) }

// Index performs one indexing pass and returns (added, removed,
// updated) counts (spec §4.5).
func (ix *Indexer) Index(suffixes map[string]bool, partial bool, gitignore bool, cfg preprocess.Config, progress func(path string)) (added, removed, updated int, err error) {
	if partial {
		if err := ix.idx.EnsurePreprocessorConfig(cfg); err != nil {
			return 0, 0, 0, err
		}
	} else {
		ix.idx.Rebuild(cfg)
		ix.mtimes = map[string]int64{}
	}

	files, err := ix.walkAll(gitignore, suffixes)
	if err != nil {
		return 0, 0, 0, err
	}

	touched := map[string]bool{}

	for _, file := range files {
		info, statErr := os.Stat(file)
		if statErr != nil {
			return added, removed, updated, statErr
		}
		newMtime := info.ModTime().UnixNano()

		if !partial {
			if err := ix.addAndTrack(file, newMtime, &added, progress); err != nil {
				return added, removed, updated, err
			}
			continue
		}

		touched[file] = true
		oldMtime, existed := ix.mtimes[file]
		switch {
		case !existed:
			if err := ix.addAndTrack(file, newMtime, &added, progress); err != nil {
				return added, removed, updated, err
			}
		case oldMtime == newMtime:
			// no-op
		default:
			ok, updErr := ix.idx.UpdateDocument(file)
			if _, isInvalid := updErr.(*dserrors.InvalidDocument); isInvalid {
				if err := ix.addAndTrack(file, newMtime, &added, progress); err != nil {
					return added, removed, updated, err
				}
				continue
			}
			if updErr != nil {
				return added, removed, updated, updErr
			}
			ix.mtimes[file] = newMtime
			if ok {
				updated++
			} else {
				removed++
			}
		}
	}

	if partial {
		var gone []string
		for file := range ix.mtimes {
			if !touched[file] {
				gone = append(gone, file)
			}
		}
		sort.Strings(gone)
		for _, file := range gone {
			if err := ix.idx.RemoveDocument(file); err != nil {
				return added, removed, updated, err
			}
			delete(ix.mtimes, file)
			removed++
		}
	}

	return added, removed, updated, nil
}

// addAndTrack adds file and records its mtime. An error other than
// "not analyzable" (which AddDocument already reports as ok=false,
// err=nil) is an unexpected plugin/filesystem failure and must abort
// the pass rather than be swallowed (spec §7: "Unexpected plugin
// errors: re-raised; abort the current file, bubble up to the
// indexer, which aborts the pass").
func (ix *Indexer) addAndTrack(file string, mtime int64, added *int, progress func(string)) error {
	ix.mtimes[file] = mtime
	ok, err := ix.idx.AddDocument(file)
	if err != nil {
		return err
	}
	if ok {
		*added++
	}
	if progress != nil {
		progress(file)
	}
	return nil
}

// walkAll enumerates every candidate file across every root in every
// group, in a deterministic traversal order (spec §4.5 "Ordering").
func (ix *Indexer) walkAll(gitignore bool, suffixes map[string]bool) ([]string, error) {
	var roots []string
	var names []string
	for name := range ix.groups {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		roots = append(roots, ix.groups[name]...)
	}

	var out []string
	for _, root := range roots {
		var spec *gitwalk.PathSpec
		if gitignore {
			spec = gitwalk.NewPathSpec(defaultIgnores)
		}
		files, err := walkRoot(root, spec, suffixes)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

func walkRoot(root string, spec *gitwalk.PathSpec, suffixes map[string]bool) ([]string, error) {
	var out []string
	var recurse func(dir string, spec *gitwalk.PathSpec) error
	recurse = func(dir string, spec *gitwalk.PathSpec) error {
		if spec != nil {
			composed, err := spec.WithGitignore(dir)
			if err != nil {
				return err
			}
			spec = composed
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			return err
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

		for _, entry := range entries {
			full := filepath.Join(dir, entry.Name())
			rel, relErr := filepath.Rel(root, full)
			if relErr != nil {
				rel = entry.Name()
			}

			if spec != nil && spec.Match(rel, entry.IsDir()) {
				continue
			}

			if entry.IsDir() {
				if err := recurse(full, spec); err != nil {
					return err
				}
				continue
			}

			if len(suffixes) > 0 && !suffixes[filepath.Ext(full)] {
				continue
			}
			out = append(out, full)
		}
		return nil
	}

	if err := recurse(root, spec); err != nil {
		return nil, err
	}
	return out, nil
}
