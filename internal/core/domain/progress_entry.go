package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrInvalidEntry = errors.New("invalid progress entry data")

// ProgressEntry is a single check-in value for one habit on one calendar day.
// At most one entry per (habit, day) is expected; when the store returns more,
// the progress engine keeps the last one it is handed.
type ProgressEntry struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	Date  time.Time `json:"date" db:"date"`
	Value float64   `json:"value" db:"value"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

func NewProgressEntry(habitID, userID string, date time.Time, value float64) *ProgressEntry {
	now := time.Now().UTC()

	return &ProgressEntry{
		ID:      uuid.NewString(),
		HabitID: habitID,
		UserID:  userID,
		Date:    date.UTC(),
		Value:   value,

		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *ProgressEntry) Validate() error {
	if strings.TrimSpace(e.HabitID) == "" {
		return fmt.Errorf("%w: habit_id is required", ErrInvalidEntry)
	}
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidEntry)
	}
	if e.Value < 0 {
		return fmt.Errorf("%w: value cannot be negative", ErrInvalidEntry)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidEntry)
	}
	return nil
}
