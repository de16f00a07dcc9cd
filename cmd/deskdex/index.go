package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

var indexCommand = &cli.Command{
	Name:  "index",
	Usage: "walk the configured groups and build or refresh the index",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "partial",
			Usage: "run an incremental pass instead of a full rebuild",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "print every path as it is handled",
		},
	},
	Action: func(c *cli.Context) error {
		eng, root, err := loadEngine(c)
		if err != nil {
			return err
		}

		var progress func(string)
		if c.Bool("verbose") {
			progress = func(path string) { fmt.Println(path) }
		}

		added, removed, updated, err := eng.Run(c.Bool("partial"), progress)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d added, %d updated, %d removed\n", root, added, updated, removed)
		return nil
	},
}
