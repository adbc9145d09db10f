package engine

import "github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"

const (
	XPPerTodo         = 10
	XPPerHabitDay     = 15
	StreakBonusPerDay = 10
	MaxStreakBonus    = 100

	// StreakBonusLookbackDays bounds how far back the activity streak behind
	// the daily bonus is searched.
	StreakBonusLookbackDays = 30
)

// XPRules turn lifetime activity counts into an XP total.
type XPRules struct {
	PerTodo           int `json:"per_todo"`
	PerHabitDay       int `json:"per_habit_day"`
	StreakBonusPerDay int `json:"streak_bonus_per_day"`
	MaxStreakBonus    int `json:"max_streak_bonus"`
}

var DefaultXPRules = XPRules{
	PerTodo:           XPPerTodo,
	PerHabitDay:       XPPerHabitDay,
	StreakBonusPerDay: StreakBonusPerDay,
	MaxStreakBonus:    MaxStreakBonus,
}

// TotalXP is completed todos and completed habit days weighted by their XP
// value. Negative counts contribute nothing.
func (r XPRules) TotalXP(counts domain.ActivityCounts) int {
	return max(0, counts.CompletedTodos)*max(0, r.PerTodo) +
		max(0, counts.CompletedHabitDays)*max(0, r.PerHabitDay)
}

// StreakBonus rewards an activity streak, capped at MaxStreakBonus.
func (r XPRules) StreakBonus(streak int) int {
	if streak <= 0 || r.StreakBonusPerDay <= 0 {
		return 0
	}
	return min(max(0, r.MaxStreakBonus), streak*r.StreakBonusPerDay)
}
