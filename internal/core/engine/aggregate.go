package engine

import (
	"math"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
)

// Aggregation holds one habit's per-day goal ratios. A day absent from the
// maps has no data, which is not the same as a day where the goal was missed.
type Aggregation struct {
	RatioByDay   map[DayKey]float64
	GoalMetByDay map[DayKey]bool
	ValueByDay   map[DayKey]float64
}

// NormalizedGoal maps a non-positive goal to 1 so that any progress counts.
func NormalizedGoal(goal float64) float64 {
	if goal > 0 && !math.IsInf(goal, 0) && !math.IsNaN(goal) {
		return goal
	}
	return 1
}

// GoalRatio returns min(1, value/goal) for a normalized goal, never below 0.
func GoalRatio(value, goal float64) float64 {
	if value <= 0 || math.IsNaN(value) {
		return 0
	}
	return math.Min(1, value/NormalizedGoal(goal))
}

// Aggregate buckets the entries of habit by UTC day. Entries of other habits
// are skipped. When a day appears more than once the last entry in slice order
// replaces the earlier ones; values are never summed.
func Aggregate(habit domain.Habit, entries []domain.ProgressEntry) Aggregation {
	agg := Aggregation{
		RatioByDay:   make(map[DayKey]float64),
		GoalMetByDay: make(map[DayKey]bool),
		ValueByDay:   make(map[DayKey]float64),
	}

	goal := NormalizedGoal(habit.GoalAmount)
	for _, e := range entries {
		if e.HabitID != habit.ID {
			continue
		}
		value := e.Value
		if !(value > 0) {
			value = 0
		}
		key := DayKeyOf(e.Date)
		agg.RatioByDay[key] = GoalRatio(value, goal)
		agg.GoalMetByDay[key] = value >= goal
		agg.ValueByDay[key] = value
	}

	return agg
}
