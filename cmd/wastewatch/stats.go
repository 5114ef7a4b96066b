package main

import (
	"context"
	"fmt"

	"wastewatch/internal/service"

	"github.com/k0kubun/pp/v3"
	"github.com/urfave/cli/v2"
)

var statsCommand = &cli.Command{
	Name:  "stats",
	Usage: "Print the current waste stats",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("env-prefix"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		ctx := context.Background()
		logger := newLogger(cfg)

		st, err := openStore(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		summary, err := service.NewStatsService(logger, st).ComputeStats(ctx)
		if err != nil {
			return err
		}

		pp.Println(summary)

		return nil
	},
}
