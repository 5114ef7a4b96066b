package service

import (
	"context"

	"wastewatch/internal/store"
	"wastewatch/pkg/types"

	"github.com/sirupsen/logrus"
)

type StatsService struct {
	logger logrus.FieldLogger
	store  store.WasteEntryStore
}

func NewStatsService(logger logrus.FieldLogger, store store.WasteEntryStore) *StatsService {
	return &StatsService{logger: logger, store: store}
}

// ComputeStats scans the whole waste entry collection. Writes that land
// during the scan may or may not be counted.
func (s *StatsService) ComputeStats(ctx context.Context) (types.StatsSummary, error) {
	entries, err := s.store.WasteEntries(ctx)
	if err != nil {
		return types.StatsSummary{}, &types.StorageError{Op: "list waste entries", Err: err}
	}

	summary := Aggregate(entries)

	s.logger.WithFields(logrus.Fields{
		"total_entries": summary.TotalEntries,
		"types":         len(summary.TotalsByType),
		"submitters":    len(summary.TotalsByUser),
	}).Debug("stats computed")

	return summary, nil
}

// Aggregate folds entries into counts. Entries without a type count as
// "Unknown", entries without a submitter as "unknown".
func Aggregate(entries []*types.WasteEntry) types.StatsSummary {
	summary := types.StatsSummary{
		TotalsByType: make(map[string]int),
		TotalsByUser: make(map[string]int),
	}

	for _, entry := range entries {
		summary.TotalEntries++

		wasteType := entry.Type
		if wasteType == "" {
			wasteType = types.UnknownWasteType
		}
		summary.TotalsByType[wasteType]++

		submitter := entry.SubmitterID
		if submitter == "" {
			submitter = types.UnknownSubmitter
		}
		summary.TotalsByUser[submitter]++
	}

	return summary
}
