package main

import (
	"fmt"

	"wastewatch/internal/utils"

	"github.com/urfave/cli/v2"
)

var nanoidCommand = &cli.Command{
	Name:  "nanoid",
	Usage: "Generate NanoIDs for use in seed files",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    "count",
			Aliases: []string{"c"},
			Usage:   "Number of IDs to generate",
			Value:   1,
		},
		&cli.StringFlag{
			Name:  "prefix",
			Usage: "Optional prefix joined to each ID with a dash",
		},
	},
	Action: func(c *cli.Context) error {
		count := c.Int("count")
		prefix := c.String("prefix")
		for range count {
			if prefix != "" {
				fmt.Println(utils.PrefixedNanoID(prefix))
				continue
			}
			fmt.Println(utils.NanoID())
		}
		return nil
	},
}
