package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty    = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong  = errors.New("habit title is too long (max 100 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidGoal        = errors.New("goal amount cannot be negative")
	ErrInvalidCadence     = errors.New("invalid cadence (must be daily, weekly, or monthly)")
)

const (
	CadenceDaily   = "daily"
	CadenceWeekly  = "weekly"
	CadenceMonthly = "monthly"
	MaxTitleLen    = 100
)

// Habit is a recurring goal owned by a user. GoalAmount is unit-less for the
// progress engine; Unit is only carried for display.
type Habit struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"user_id" db:"user_id"`
	Title      string     `json:"title" db:"title"`
	Unit       string     `json:"unit" db:"unit"`
	GoalAmount float64    `json:"goal_amount" db:"goal_amount"`
	Cadence    string     `json:"cadence" db:"cadence"`
	StartDate  time.Time  `json:"start_date" db:"start_date"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	ArchivedAt *time.Time `json:"archived_at,omitempty" db:"archived_at"`
}

func validateAndNormalize(title, cadence string, goal float64) (string, string, error) {
	trimmedTitle := strings.TrimSpace(title)
	if trimmedTitle == "" {
		return "", "", ErrHabitTitleEmpty
	}
	if len(trimmedTitle) > MaxTitleLen {
		return "", "", ErrHabitTitleTooLong
	}

	if goal < 0 {
		return "", "", ErrInvalidGoal
	}

	switch cadence {
	case "":
		cadence = CadenceDaily
	case CadenceDaily, CadenceWeekly, CadenceMonthly:
	default:
		return "", "", ErrInvalidCadence
	}

	return trimmedTitle, cadence, nil
}

func NewHabit(userID, title, unit, cadence string, goal float64, startDate time.Time) (*Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}

	cleanTitle, cleanCadence, err := validateAndNormalize(title, cadence, goal)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if startDate.IsZero() {
		startDate = now
	}

	return &Habit{
		ID:         uuid.New().String(),
		UserID:     userID,
		Title:      cleanTitle,
		Unit:       strings.TrimSpace(unit),
		GoalAmount: goal,
		Cadence:    cleanCadence,
		StartDate:  startDate.UTC(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Archive hides the habit from analytics. Archiving twice keeps the first time.
func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}

	now := time.Now().UTC()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

func (h *Habit) Restore() {
	if h.ArchivedAt == nil {
		return
	}
	h.ArchivedAt = nil
	h.UpdatedAt = time.Now().UTC()
}
