package pgstore

import "context"

// schema runs on startup to ensure tables exist.
const schema = `
CREATE SCHEMA IF NOT EXISTS wastewatch;

CREATE TABLE IF NOT EXISTS wastewatch.waste_entries (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL DEFAULT '',
    volume TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    submitter_id TEXT NOT NULL,
    submitter_email TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS wastewatch.events (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    location TEXT NOT NULL DEFAULT '',
    date TEXT NOT NULL DEFAULT '',
    creator_id TEXT NOT NULL,
    creator_email TEXT,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS wastewatch.tips (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    body TEXT NOT NULL,
    category TEXT NOT NULL DEFAULT '',
    display_order INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_events_created_at ON wastewatch.events(created_at DESC);
`

// Migrate executes the schema setup.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schema)
	return err
}
