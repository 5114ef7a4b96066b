package pgstore

import (
	"context"
	"fmt"

	"wastewatch/internal/utils"
	"wastewatch/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
)

const tipTableName = "wastewatch.tips"

var tipColumns = utils.StructTagValues(types.Tip{})

func (s *Store) Tips(ctx context.Context) ([]*types.Tip, error) {
	query, args, err := psql().
		Select(tipColumns...).
		From(tipTableName).
		OrderBy("display_order ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate tips query: %w", err)
	}

	tips := make([]*types.Tip, 0)
	err = pgxscan.Select(ctx, s.pool, &tips, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tips: %w", err)
	}

	return tips, nil
}

func (s *Store) UpsertTip(ctx context.Context, tip *types.Tip) error {
	tipMap := utils.StructToMap(tip)

	updateMap := make(map[string]any)
	for k, v := range tipMap {
		if k != "id" {
			updateMap[k] = v
		}
	}

	query, args, err := psql().
		Insert(tipTableName).
		SetMap(tipMap).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + buildUpdateClause(updateMap)).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate upsert tip query: %w", err)
	}

	_, err = s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to upsert tip: %w", err)
	}

	return nil
}

func (s *Store) DeleteTip(ctx context.Context, id string) error {
	query, args, err := psql().
		Delete(tipTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate delete tip query: %w", err)
	}

	_, err = s.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete tip: %w", err)
	}

	return nil
}
