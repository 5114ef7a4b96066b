package main

import (
	"context"
	"fmt"

	"wastewatch/internal/seed"
	"wastewatch/internal/service"

	"github.com/urfave/cli/v2"
)

var seedCommand = &cli.Command{
	Name:  "seed",
	Usage: "Sync tips and optionally write demo data",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "demo",
			Usage: "Number of demo waste entries to write",
			Value: 0,
		},
	},
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

		logger.Info("Seeding tips...")
		if err := seed.SyncTips(ctx, st); err != nil {
			return fmt.Errorf("failed to seed tips: %w", err)
		}

		if n := c.Int("demo"); n > 0 {
			logger.WithField("count", n).Info("Seeding demo data...")
			waste := service.NewWasteService(logger, st)
			events := service.NewEventService(logger, st)
			if err := seed.SeedDemo(ctx, waste, events, n, nil); err != nil {
				return fmt.Errorf("failed to seed demo data: %w", err)
			}
		}

		logger.Info("Seed complete")

		return nil
	},
}
