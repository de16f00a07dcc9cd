// Command deskdex is the CLI front end over internal/engine: an
// indexing pass and a search query, plus an optional filesystem watch
// that re-triggers incremental passes. It is ambient scaffolding
// (spec §9 calls a front end out of core scope) laid out the way the
// teacher's cmd/lci wraps its own core behind one main.go plus one
// file per subcommand.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/deskdex/internal/config"
	"github.com/standardbeagle/deskdex/internal/engine"
)

// Version is set by module metadata in a real release build; the
// teacher threads an equivalent value through internal/version, which
// this module has no use for at this scope.
const Version = "0.1.0"

func loadEngine(c *cli.Context) (*engine.Engine, string, error) {
	root := c.String("root")
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, "", fmt.Errorf("resolving root %q: %w", root, err)
	}

	cfg, err := config.Load(absRoot)
	if err != nil {
		return nil, "", err
	}
	if len(cfg.Groups) == 0 {
		cfg.Groups = []config.Group{{Name: "default", Roots: []string{absRoot}}}
	}

	return engine.New(cfg, false), absRoot, nil
}

func main() {
	app := &cli.App{
		Name:                   "deskdex",
		Usage:                  "personal desktop search engine for source code and text files",
		Version:                Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "project root to load .deskdex.kdl from and index by default",
				Value:   ".",
			},
		},
		Commands: []*cli.Command{
			indexCommand,
			searchCommand,
			watchCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "deskdex: %v\n", err)
		os.Exit(1)
	}
}
