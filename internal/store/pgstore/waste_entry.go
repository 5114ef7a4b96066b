package pgstore

import (
	"context"
	"fmt"

	"wastewatch/internal/utils"
	"wastewatch/pkg/types"

	"github.com/georgysavva/scany/v2/pgxscan"
)

const wasteEntryTableName = "wastewatch.waste_entries"

var wasteEntryColumns = utils.StructTagValues(types.WasteEntry{})

func (s *Store) CreateWasteEntry(ctx context.Context, entry *types.WasteEntry) error {
	entry.ID = utils.NanoID()

	query, args, err := psql().Insert(wasteEntryTableName).SetMap(utils.StructToMap(entry)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert waste entry query: %w", err)
	}

	_, err = s.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create waste entry")
}

func (s *Store) WasteEntries(ctx context.Context) ([]*types.WasteEntry, error) {
	query, args, err := psql().Select(wasteEntryColumns...).
		From(wasteEntryTableName).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate waste entries query: %w", err)
	}

	entries := make([]*types.WasteEntry, 0)
	err = pgxscan.Select(ctx, s.pool, &entries, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch waste entries")
	}

	return entries, nil
}
