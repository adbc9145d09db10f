package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
)

var _ domain.ProgressRepository = (*PostgresProgressRepository)(nil)

type PostgresProgressRepository struct {
	db *sqlx.DB
}

func NewPostgresProgressRepository(db *sqlx.DB) *PostgresProgressRepository {
	return &PostgresProgressRepository{db: db}
}

func (r *PostgresProgressRepository) Create(ctx context.Context, entry *domain.ProgressEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}

	query := `
		INSERT INTO progress_entries (
			id, habit_id, user_id, date, value, created_at, updated_at
		) VALUES (
			:id, :habit_id, :user_id, :date, :value, :created_at, :updated_at
		)`

	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		if sqlState(err) == sqlStateForeignKeyViolation {
			return domain.ErrHabitNotFound
		}
		return fmt.Errorf("failed to insert progress entry: %w", err)
	}
	return nil
}

// ListByUserIDAndDateRange returns entries of active habits with from <= date
// <= to, ordered by UTC day. Entries recorded for the same day keep their
// insertion order, so the latest one is the last in the slice.
func (r *PostgresProgressRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.ProgressEntry, error) {
	entries := []domain.ProgressEntry{}

	query := `
		SELECT e.id, e.habit_id, e.user_id, e.date, e.value, e.created_at, e.updated_at
		FROM progress_entries e
		JOIN habits h ON h.id = e.habit_id
		WHERE e.user_id = $1
		  AND e.date >= $2
		  AND e.date <= $3
		  AND h.archived_at IS NULL
		ORDER BY (e.date AT TIME ZONE 'UTC')::date ASC, e.created_at ASC, e.id ASC`

	if err := r.db.SelectContext(ctx, &entries, query, userID, from, to); err != nil {
		return nil, fmt.Errorf("progress range query error: %w", err)
	}
	return entries, nil
}
