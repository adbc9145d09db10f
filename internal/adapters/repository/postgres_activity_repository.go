package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
)

var _ domain.ActivityRepository = (*PostgresActivityRepository)(nil)

// DefaultCompletedStatuses are the todo statuses that count as done.
var DefaultCompletedStatuses = []string{"COMPLETED"}

// lastHabitEntries keeps the last entry of each habit and UTC day for user $1.
// A goal of zero or less counts as 1, matching the engine's normalization.
const lastHabitEntries = `
	last_entries AS (
		SELECT DISTINCT ON (e.habit_id, (e.date AT TIME ZONE 'UTC')::date)
		       e.date, e.value,
		       CASE WHEN h.goal_amount > 0 THEN h.goal_amount ELSE 1 END AS goal
		  FROM progress_entries e
		  JOIN habits h ON h.id = e.habit_id
		 WHERE e.user_id = $1
		 ORDER BY e.habit_id, (e.date AT TIME ZONE 'UTC')::date, e.created_at DESC, e.id DESC
	)`

// habitDayCompleted compares the capped goal ratio to the threshold bound at
// the given placeholder.
func habitDayCompleted(placeholder string) string {
	return `LEAST(GREATEST(value, 0) / goal, 1) >= ` + placeholder
}

type PostgresActivityRepository struct {
	db                *sqlx.DB
	threshold         float64
	completedStatuses []string
}

// NewPostgresActivityRepository counts a habit day as completed when its last
// entry reaches threshold of the goal.
func NewPostgresActivityRepository(db *sqlx.DB, threshold float64, completedStatuses ...string) *PostgresActivityRepository {
	if len(completedStatuses) == 0 {
		completedStatuses = DefaultCompletedStatuses
	}
	return &PostgresActivityRepository{
		db:                db,
		threshold:         threshold,
		completedStatuses: completedStatuses,
	}
}

func (r *PostgresActivityRepository) CountActivity(ctx context.Context, userID string) (domain.ActivityCounts, error) {
	query := `
		WITH ` + lastHabitEntries + `
		SELECT
			(SELECT count(*) FROM todos
			  WHERE user_id = $1 AND status = ANY($2)) AS completed_todos,
			(SELECT count(*) FROM last_entries
			  WHERE ` + habitDayCompleted("$3") + `) AS completed_habit_days`

	var counts domain.ActivityCounts
	if err := r.db.GetContext(ctx, &counts, query, userID, pq.Array(r.completedStatuses), r.threshold); err != nil {
		return domain.ActivityCounts{}, fmt.Errorf("activity count query error: %w", err)
	}
	return counts, nil
}

// ListCompletionDays returns the timestamps of every completed todo and of
// every completed habit day, taken from its last entry, between from and to.
func (r *PostgresActivityRepository) ListCompletionDays(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	query := `
		WITH ` + lastHabitEntries + `
		SELECT completed_at FROM todos
		 WHERE user_id = $1 AND status = ANY($2)
		   AND completed_at >= $3 AND completed_at <= $4
		UNION ALL
		SELECT date FROM last_entries
		 WHERE date >= $3 AND date <= $4
		   AND ` + habitDayCompleted("$5")

	days := []time.Time{}
	if err := r.db.SelectContext(ctx, &days, query, userID, pq.Array(r.completedStatuses), from, to, r.threshold); err != nil {
		return nil, fmt.Errorf("completion days query error: %w", err)
	}
	return days, nil
}
