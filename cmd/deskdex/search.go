package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/deskdex/internal/types"
)

var searchCommand = &cli.Command{
	Name:      "search",
	Usage:     "index the configured groups, then run one query against them",
	ArgsUsage: "<query>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "field",
			Usage: "code or text",
			Value: "text",
		},
		&cli.StringFlag{
			Name:  "group",
			Usage: "named root group to search",
			Value: "default",
		},
		&cli.StringFlag{
			Name:  "op",
			Usage: "intersection or union, when the query has multiple terms",
			Value: "intersection",
		},
		&cli.StringFlag{
			Name:  "sort",
			Usage: "path, score, term_freq or tfidf",
			Value: "tfidf",
		},
		&cli.StringFlag{
			Name:  "scoring",
			Usage: "unscored, term_freq or tfidf",
			Value: "tfidf",
		},
		&cli.IntFlag{
			Name:  "limit",
			Usage: "maximum number of results to print, 0 for unlimited",
		},
	},
	Action: func(c *cli.Context) error {
		if c.NArg() < 1 {
			return cli.Exit("usage: deskdex search [flags] <query>", 2)
		}
		query := c.Args().First()

		eng, _, err := loadEngine(c)
		if err != nil {
			return err
		}
		// deskdex's index is memory-only per design (persistence is a
		// collaborator concern this CLI doesn't implement); a search
		// invocation runs its own full pass first so the two
		// subcommands remain independently usable.
		if _, _, _, err := eng.Run(false, nil); err != nil {
			return err
		}

		field := types.Field(c.String("field"))
		op := types.SetOp(c.String("op"))
		sortBy := types.SortOrder(c.String("sort"))
		scoring := types.Scoring(c.String("scoring"))

		results := eng.Search(c.String("group"), field, query, op, sortBy, scoring)

		limit := c.Int("limit")
		for i, r := range results {
			if limit > 0 && i >= limit {
				break
			}
			fmt.Printf("%.4f\t%s\n", r.Score, r.Path)
		}
		return nil
	},
}
