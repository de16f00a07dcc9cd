// Package gitwalk composes .gitignore-style exclusion rules while
// walking a directory tree (spec §4.5 step 2): "descend composing
// .gitignore patterns with the inherited PathSpec at each directory:
// the child spec is the parent's patterns followed by the directory's
// own patterns". Matching itself is delegated to
// github.com/bmatcuk/doublestar/v4, the glob matcher the teacher
// already depends on, rather than a hand-rolled regex compiler.
package gitwalk

import (
	"bufio"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// rule is one parsed .gitignore line.
type rule struct {
	glob   string // doublestar pattern, relative to the spec's root
	negate bool
	dir    bool // pattern ends in "/": only matches directories (and their contents)
}

// PathSpec is an ordered, composable set of gitignore rules. The zero
// value is an empty spec.
type PathSpec struct {
	rules []rule
}

// NewPathSpec seeds a root spec from a default ignore list (spec §4.5:
// "a default ignore set (e.g. .git) seeds the root spec").
func NewPathSpec(defaults []string) *PathSpec {
	spec := &PathSpec{}
	for _, pattern := range defaults {
		spec.rules = append(spec.rules, parseRule(pattern))
	}
	return spec
}

// WithGitignore returns a new spec combining ps's rules with the
// patterns found in dir's .gitignore file, if any exists. A missing
// .gitignore is not an error (spec §4.5).
func (ps *PathSpec) WithGitignore(dir string) (*PathSpec, error) {
	f, err := os.Open(path.Join(dir, ".gitignore"))
	if err != nil {
		if os.IsNotExist(err) {
			return ps, nil
		}
		return nil, err
	}
	defer f.Close()

	child := &PathSpec{rules: append([]rule(nil), ps.rules...)}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		child.rules = append(child.rules, parseRule(line))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return child, nil
}

func parseRule(line string) rule {
	r := rule{}
	if strings.HasPrefix(line, "!") {
		r.negate = true
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		r.dir = true
		line = strings.TrimSuffix(line, "/")
	}
	anchored := strings.HasPrefix(line, "/")
	line = strings.TrimPrefix(line, "/")

	if anchored || strings.Contains(line, "/") {
		r.glob = line
	} else {
		r.glob = "**/" + line
	}
	return r
}

// Match reports whether relPath (slash-separated, relative to the
// directory the spec was seeded at) should be ignored. Later rules
// override earlier ones; a negated match un-ignores a path (spec
// §4.5: "Files matching the current spec are skipped; directories
// matching it are not descended").
func (ps *PathSpec) Match(relPath string, isDir bool) bool {
	relPath = path.Clean(strings.ReplaceAll(relPath, `\`, "/"))
	ignored := false
	for _, r := range ps.rules {
		if r.dir && !isDir && !matchesInsideDir(r.glob, relPath) {
			continue
		}
		if matchGlob(r.glob, relPath) || (r.dir && matchesInsideDir(r.glob, relPath)) {
			ignored = !r.negate
		}
	}
	return ignored
}

func matchGlob(glob, relPath string) bool {
	ok, err := doublestar.Match(glob, relPath)
	return err == nil && ok
}

// matchesInsideDir reports whether relPath lives underneath a
// directory the glob matches, so a directory-only rule also excludes
// every file beneath it.
func matchesInsideDir(glob, relPath string) bool {
	ok, err := doublestar.Match(glob+"/**", relPath)
	return err == nil && ok
}
