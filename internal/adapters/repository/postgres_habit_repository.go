package repository

import (
	"context"
	"fmt"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"
)

var _ domain.HabitRepository = (*PostgresHabitRepository)(nil)

type PostgresHabitRepository struct {
	db *sqlx.DB
}

func NewPostgresHabitRepository(db *sqlx.DB) *PostgresHabitRepository {
	return &PostgresHabitRepository{db: db}
}

const habitColumns = `id, user_id, title, unit, goal_amount, cadence, start_date, created_at, updated_at, archived_at`

func (r *PostgresHabitRepository) Create(ctx context.Context, h *domain.Habit) error {
	query := `
        INSERT INTO habits (` + habitColumns + `)
        VALUES (
            :id, :user_id, :title, :unit, :goal_amount, :cadence,
            :start_date, :created_at, :updated_at, :archived_at
        )`

	if _, err := r.db.NamedExecContext(ctx, query, h); err != nil {
		switch sqlState(err) {
		case sqlStateCheckViolation:
			return domain.ErrInvalidGoal
		case sqlStateUniqueViolation:
			return fmt.Errorf("habit %s already exists: %w", h.ID, err)
		}
		return fmt.Errorf("failed to insert habit: %w", err)
	}
	return nil
}

// ListByUserID returns the user's active habits. Archived habits are left
// out of every analytic.
func (r *PostgresHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	query := `
        SELECT ` + habitColumns + ` FROM habits
        WHERE user_id = $1 AND archived_at IS NULL
        ORDER BY created_at ASC, id ASC`

	habits := []*domain.Habit{}
	if err := r.db.SelectContext(ctx, &habits, query, userID); err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return habits, nil
}
