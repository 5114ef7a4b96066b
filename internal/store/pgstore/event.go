package pgstore

import (
	"context"
	"fmt"

	"wastewatch/internal/utils"
	"wastewatch/pkg/types"

	"github.com/georgysavva/scany/v2/pgxscan"
)

const eventTableName = "wastewatch.events"

var eventColumns = utils.StructTagValues(types.Event{})

func (s *Store) CreateEvent(ctx context.Context, event *types.Event) error {
	event.ID = utils.NanoID()

	query, args, err := psql().Insert(eventTableName).SetMap(utils.StructToMap(event)).ToSql()
	if err != nil {
		return fmt.Errorf("failed to generate insert event query: %w", err)
	}

	_, err = s.pool.Exec(ctx, query, args...)
	return utils.ErrorWrapOrNil(err, "failed to create event")
}

func (s *Store) Events(ctx context.Context) ([]*types.Event, error) {
	query, args, err := psql().Select(eventColumns...).From(eventTableName).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to generate events query: %w", err)
	}

	events := make([]*types.Event, 0)
	err = pgxscan.Select(ctx, s.pool, &events, query, args...)
	if err != nil {
		return nil, utils.ErrorWrapOrNil(err, "failed to fetch events")
	}

	return events, nil
}
