// Package export writes stats snapshots to object storage.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"wastewatch/internal/service"
	"wastewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

type Uploader interface {
	UploadFile(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// Report is the document written by an export.
type Report struct {
	GeneratedAt time.Time           `json:"generatedAt"`
	Summary     types.StatsSummary  `json:"summary"`
	Entries     []*types.WasteEntry `json:"entries"`
}

type Exporter struct {
	logger   logrus.FieldLogger
	waste    *service.WasteService
	uploader Uploader
	prefix   string
	now      func() time.Time
}

func New(logger logrus.FieldLogger, waste *service.WasteService, uploader Uploader, prefix string) *Exporter {
	return &Exporter{
		logger:   logger,
		waste:    waste,
		uploader: uploader,
		prefix:   prefix,
		now:      time.Now,
	}
}

// Export uploads the current summary together with every entry it was
// computed from and returns the object key.
func (e *Exporter) Export(ctx context.Context) (string, error) {
	entries, err := e.waste.WasteEntries(ctx)
	if err != nil {
		return "", err
	}
	if entries == nil {
		entries = []*types.WasteEntry{}
	}

	report := Report{
		GeneratedAt: e.now().UTC(),
		Summary:     service.Aggregate(entries),
		Entries:     entries,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}

	key := e.prefix + report.GeneratedAt.Format("20060102T150405Z") + ".json"

	key, err = e.uploader.UploadFile(ctx, key, data, "application/json")
	if err != nil {
		return "", err
	}

	e.logger.WithFields(logrus.Fields{
		"key":           key,
		"total_entries": report.Summary.TotalEntries,
	}).Info("stats exported")

	return key, nil
}
