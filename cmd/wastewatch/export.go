package main

import (
	"context"
	"fmt"

	"wastewatch/internal/export"
	"wastewatch/internal/service"
	"wastewatch/internal/storage"
	"wastewatch/pkg/types"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v2"
)

var exportCommand = &cli.Command{
	Name:  "export",
	Usage: "Upload a stats snapshot to S3",
	Action: func(c *cli.Context) error {
		cfg, err := loadConfig(c.String("env-prefix"))
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if cfg.ExportBucket == "" {
			return &types.ConfigError{Field: "EXPORT_BUCKET", Reason: "required for export"}
		}

		ctx := context.Background()
		logger := newLogger(cfg)

		awsConfig, err := loadAWSConfig(ctx)
		if err != nil {
			return err
		}

		st, err := openStore(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}
		defer st.Close()

		objects := storage.NewS3Storage(s3.NewFromConfig(awsConfig), cfg.ExportBucket)
		exporter := export.New(logger, service.NewWasteService(logger, st), objects, cfg.ExportPrefix)

		key, err := exporter.Export(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("s3://%s/%s\n", objects.Bucket(), key)

		return nil
	},
}
