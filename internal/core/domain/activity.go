package domain

// ActivityCounts are the lifetime completion totals the XP ledger is built from.
type ActivityCounts struct {
	CompletedTodos     int `json:"completed_todos" db:"completed_todos"`
	CompletedHabitDays int `json:"completed_habit_days" db:"completed_habit_days"`
}
