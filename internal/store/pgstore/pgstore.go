// Package pgstore is a Postgres-backed implementation of store.Store.
package pgstore

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"wastewatch/internal/store"
	"wastewatch/pkg/types"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

var _ store.Store = (*Store)(nil)

type Store struct {
	pool         *pgxpool.Pool
	logger       logrus.FieldLogger
	pollInterval time.Duration
}

func New(pool *pgxpool.Pool, logger logrus.FieldLogger, pollInterval time.Duration) *Store {
	if pollInterval <= 0 {
		pollInterval = 5 * time.Second
	}
	return &Store{pool: pool, logger: logger, pollInterval: pollInterval}
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func psql() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
}

// Subscribe has no server push in Postgres, so it polls the collection.
func (s *Store) Subscribe(ctx context.Context, collection string) (<-chan types.ChangeEvent, error) {
	var list store.ListFunc
	switch collection {
	case store.CollectionWasteEntries:
		list = func(ctx context.Context) ([]store.Document, error) {
			entries, err := s.WasteEntries(ctx)
			return store.Documents(entries), err
		}
	case store.CollectionEvents:
		list = func(ctx context.Context) ([]store.Document, error) {
			events, err := s.Events(ctx)
			return store.Documents(events), err
		}
	case store.CollectionTips:
		list = func(ctx context.Context) ([]store.Document, error) {
			tips, err := s.Tips(ctx)
			return store.Documents(tips), err
		}
	default:
		return nil, fmt.Errorf("%w: %s", store.ErrUnknownCollection, collection)
	}

	return store.Poll(ctx, s.logger, collection, s.pollInterval, list), nil
}

// buildUpdateClause creates the SET clause for ON CONFLICT DO UPDATE
// e.g., "body = EXCLUDED.body, title = EXCLUDED.title, ..."
func buildUpdateClause(fields map[string]any) string {
	names := make([]string, 0, len(fields))
	for field := range fields {
		names = append(names, field)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, field := range names {
		parts[i] = fmt.Sprintf("%s = EXCLUDED.%s", field, field)
	}
	return strings.Join(parts, ", ")
}
