package engine_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/engine"
)

var (
	day0 = time.Date(2024, 1, 8, 9, 0, 0, 0, time.UTC)
	day1 = day0.AddDate(0, 0, 1)
	day2 = day0.AddDate(0, 0, 2)
)

func entry(habitID string, date time.Time, value float64) domain.ProgressEntry {
	return domain.ProgressEntry{HabitID: habitID, UserID: "u1", Date: date, Value: value}
}

func TestAggregate(t *testing.T) {
	water := domain.Habit{ID: "water", GoalAmount: 1500, Unit: "ml"}

	t.Run("Ratios and goal flags per day", func(t *testing.T) {
		agg := engine.Aggregate(water, []domain.ProgressEntry{
			entry("water", day0, 1500),
			entry("water", day1, 750),
			entry("water", day2, 1500),
		})

		assert.Equal(t, map[engine.DayKey]float64{
			engine.DayKeyOf(day0): 1.0,
			engine.DayKeyOf(day1): 0.5,
			engine.DayKeyOf(day2): 1.0,
		}, agg.RatioByDay)
		assert.Equal(t, map[engine.DayKey]bool{
			engine.DayKeyOf(day0): true,
			engine.DayKeyOf(day1): false,
			engine.DayKeyOf(day2): true,
		}, agg.GoalMetByDay)
	})

	t.Run("Ratio is capped at 1 but raw value is kept", func(t *testing.T) {
		agg := engine.Aggregate(water, []domain.ProgressEntry{entry("water", day0, 3000)})

		assert.Equal(t, 1.0, agg.RatioByDay[engine.DayKeyOf(day0)])
		assert.Equal(t, 3000.0, agg.ValueByDay[engine.DayKeyOf(day0)])
		assert.True(t, agg.GoalMetByDay[engine.DayKeyOf(day0)])
	})

	t.Run("Empty entries give empty maps", func(t *testing.T) {
		agg := engine.Aggregate(water, nil)

		assert.Empty(t, agg.RatioByDay)
		assert.Empty(t, agg.GoalMetByDay)
	})

	t.Run("Entries of other habits are ignored", func(t *testing.T) {
		agg := engine.Aggregate(water, []domain.ProgressEntry{entry("read", day0, 5000)})
		assert.Empty(t, agg.RatioByDay)
	})

	t.Run("Duplicate day keeps the last entry, no summing", func(t *testing.T) {
		agg := engine.Aggregate(water, []domain.ProgressEntry{
			entry("water", day0, 1500),
			entry("water", day0.Add(3*time.Hour), 300),
		})

		assert.Len(t, agg.RatioByDay, 1)
		assert.InDelta(t, 0.2, agg.RatioByDay[engine.DayKeyOf(day0)], 1e-9)
		assert.False(t, agg.GoalMetByDay[engine.DayKeyOf(day0)])
	})

	t.Run("Negative values are clamped to zero", func(t *testing.T) {
		agg := engine.Aggregate(water, []domain.ProgressEntry{entry("water", day0, -40)})

		ratio, ok := agg.RatioByDay[engine.DayKeyOf(day0)]
		assert.True(t, ok, "a logged day stays present even when clamped")
		assert.Equal(t, 0.0, ratio)
	})
}

func TestAggregate_DegenerateGoal(t *testing.T) {
	entries := []domain.ProgressEntry{
		entry("h", day0, 0),
		entry("h", day1, 0.4),
		entry("h", day2, 7),
	}

	withOne := engine.Aggregate(domain.Habit{ID: "h", GoalAmount: 1}, entries)

	for _, goal := range []float64{0, -3} {
		got := engine.Aggregate(domain.Habit{ID: "h", GoalAmount: goal}, entries)
		assert.Equal(t, withOne, got, "goal %v must behave like goal 1", goal)
	}
}

func TestGoalRatio(t *testing.T) {
	assert.Equal(t, 0.0, engine.GoalRatio(0, 10))
	assert.Equal(t, 0.25, engine.GoalRatio(2.5, 10))
	assert.Equal(t, 1.0, engine.GoalRatio(11, 10))
	assert.InDelta(t, 0.1, engine.GoalRatio(0.1, 0), 1e-9)
	assert.Equal(t, 1.0, engine.GoalRatio(1, 0))
	assert.Equal(t, 0.0, engine.GoalRatio(-1, 10))
}
