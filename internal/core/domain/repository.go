package domain

import (
	"context"
	"errors"
	"time"
)

var ErrHabitNotFound = errors.New("habit not found")

type HabitRepository interface {
	// ListByUserID retrieves all non-archived habits associated with a specific user.
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)
}

type ProgressRepository interface {
	// ListByUserIDAndDateRange returns every progress entry of the user whose
	// date falls in [from, to], ordered by UTC day then insertion.
	ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]ProgressEntry, error)
}

type ActivityRepository interface {
	// CountActivity returns lifetime completion counts feeding the XP ledger.
	CountActivity(ctx context.Context, userID string) (ActivityCounts, error)

	// ListCompletionDays returns the timestamps in [from, to] of completed
	// todos and of habit entries that reached their goal.
	ListCompletionDays(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error)
}
