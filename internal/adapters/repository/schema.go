package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS habits (
		id          TEXT PRIMARY KEY,
		user_id     TEXT NOT NULL,
		title       TEXT NOT NULL,
		unit        TEXT NOT NULL DEFAULT '',
		goal_amount DOUBLE PRECISION NOT NULL DEFAULT 1 CHECK (goal_amount >= 0),
		cadence     TEXT NOT NULL DEFAULT 'daily',
		start_date  TIMESTAMPTZ NOT NULL,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		archived_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_habits_user ON habits (user_id)`,
	`CREATE TABLE IF NOT EXISTS progress_entries (
		id         TEXT PRIMARY KEY,
		habit_id   TEXT NOT NULL REFERENCES habits (id) ON DELETE CASCADE,
		user_id    TEXT NOT NULL,
		date       TIMESTAMPTZ NOT NULL,
		value      DOUBLE PRECISION NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_progress_entries_user_date ON progress_entries (user_id, date)`,
	`CREATE TABLE IF NOT EXISTS todos (
		id           TEXT PRIMARY KEY,
		user_id      TEXT NOT NULL,
		title        TEXT NOT NULL,
		status       TEXT NOT NULL DEFAULT 'PENDING',
		completed_at TIMESTAMPTZ,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_todos_user_status ON todos (user_id, status)`,
}

// Migrate creates the tables read by the Postgres repositories when they do
// not exist yet. It is safe to run on every start.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

const (
	sqlStateForeignKeyViolation = "23503"
	sqlStateCheckViolation      = "23514"
	sqlStateUniqueViolation     = "23505"
)

// sqlState extracts the Postgres error code from either driver's error type.
func sqlState(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
