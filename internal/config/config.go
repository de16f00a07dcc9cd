// Package config loads deskdex's KDL configuration file, the one
// "external collaborator" concern spec §9 calls out as sitting outside
// the pure core: nothing in internal/index, internal/indexer,
// internal/analyzer or internal/preprocess imports this package. It is
// grounded on the teacher's internal/config/kdl_config.go, which
// parses the same document model (github.com/sblinch/kdl-go) for its
// own .lci.kdl file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/standardbeagle/deskdex/internal/preprocess"
)

// Group names one named root set a search or index pass can be scoped
// to (spec §3 "groups").
type Group struct {
	Name  string
	Roots []string
}

// Config is everything the CLI front end needs to drive an Engine: the
// preprocessing rules, the suffixes the analyzer accepts, the named
// root groups to walk, and the walk/indexing knobs (spec §4.5, §6).
type Config struct {
	Preprocess preprocess.Config
	Suffixes   map[string]bool
	Groups     []Group
	Gitignore  bool
	DebounceMs int
}

// Default returns the configuration deskdex runs with when no
// .deskdex.kdl file is found, matching spec §6's documented defaults.
func Default() Config {
	return Config{
		Preprocess: preprocess.DefaultConfig(),
		Suffixes:   nil,
		Groups:     nil,
		Gitignore:  true,
		DebounceMs: 500,
	}
}

// Load reads root/.deskdex.kdl if present and overlays it onto
// Default(). A missing file is not an error, matching the teacher's
// LoadKDL (internal/config/kdl_config.go): "no KDL config found, use
// defaults".
func Load(root string) (Config, error) {
	cfg := Default()

	path := filepath.Join(root, ".deskdex.kdl")
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "group":
			name, ok := firstStringArg(n)
			if !ok {
				continue
			}
			cfg.Groups = append(cfg.Groups, Group{Name: name, Roots: collectStringArgs(childByName(n, "roots"))})
		case "suffixes":
			if cfg.Suffixes == nil {
				cfg.Suffixes = map[string]bool{}
			}
			for _, s := range collectStringArgs(n) {
				cfg.Suffixes[s] = true
			}
		case "gitignore":
			if b, ok := firstBoolArg(n); ok {
				cfg.Gitignore = b
			}
		case "debounce-ms":
			if i, ok := firstIntArg(n); ok {
				cfg.DebounceMs = i
			}
		case "code":
			applyFieldConfig(n, &cfg.Preprocess.Code)
		case "text":
			applyFieldConfig(n, &cfg.Preprocess.Text)
		}
	}

	return cfg, nil
}

func applyFieldConfig(n *document.Node, fc *preprocess.FieldConfig) {
	for _, cn := range n.Children {
		switch nodeName(cn) {
		case "tokenize":
			if b, ok := firstBoolArg(cn); ok {
				fc.Tokenize = b
			}
		case "case-sensitive":
			if b, ok := firstBoolArg(cn); ok {
				fc.CaseSensitive = b
			}
		case "lemmatize":
			if b, ok := firstBoolArg(cn); ok {
				fc.Lemmatize = b
			}
		}
	}
}

// GroupMap flattens Groups into the map[string][]string the engine's
// Indexer and Retriever both take.
func (c Config) GroupMap() map[string][]string {
	out := make(map[string][]string, len(c.Groups))
	for _, g := range c.Groups {
		out[g.Name] = g.Roots
	}
	return out
}

// The helpers below mirror the teacher's kdl-go accessor helpers
// (internal/config/kdl_config.go: nodeName, firstIntArg, firstStringArg,
// firstBoolArg, collectStringArgs) verbatim in behavior, adapted to
// this package's node shapes.

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func childByName(n *document.Node, name string) *document.Node {
	if n == nil {
		return nil
	}
	for _, cn := range n.Children {
		if nodeName(cn) == name {
			return cn
		}
	}
	return nil
}

func firstIntArg(n *document.Node) (int, bool) {
	if n == nil || len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if n == nil || len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if n == nil || len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

// collectStringArgs reads string arguments from n's inline arguments,
// falling back to one-string-per-child-node-name for KDL block format
// (e.g. "roots { \"/a\" \"/b\" }"), matching the teacher's
// collectStringArgs.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}
