package engine

import (
	"sort"
	"time"
)

// StreakThreshold is the goal ratio a day needs to count as a streak day.
// Every streak in the system, per habit or across users, uses this value.
const StreakThreshold = 1.0

func qualifies(ratioByDay map[DayKey]float64, day DayKey, threshold float64) bool {
	ratio, ok := ratioByDay[day]
	return ok && ratio >= threshold
}

// Streak counts consecutive qualifying days walking backward from the day of
// asOf. A missing day stops the walk like a non-qualifying one, so a habit
// with nothing logged today has a streak of 0.
func Streak(ratioByDay map[DayKey]float64, asOf time.Time, threshold float64) int {
	if len(ratioByDay) == 0 {
		return 0
	}

	streak := 0
	for day := DayKeyOf(asOf); qualifies(ratioByDay, day, threshold); day = day.AddDays(-1) {
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive qualifying days found
// anywhere in the map.
func LongestStreak(ratioByDay map[DayKey]float64, threshold float64) int {
	days := make([]DayKey, 0, len(ratioByDay))
	for day := range ratioByDay {
		if qualifies(ratioByDay, day, threshold) {
			days = append(days, day)
		}
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool {
		return days[i].Before(days[j])
	})

	longest := 1
	run := 1
	for i := 1; i < len(days); i++ {
		if days[i-1].AddDays(1) == days[i] {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// ActivityStreak counts consecutive UTC days ending on the day of asOf that
// hold at least one timestamp, capped at maxDays when maxDays is positive.
func ActivityStreak(timestamps []time.Time, asOf time.Time, maxDays int) int {
	active := make(map[DayKey]float64, len(timestamps))
	for _, ts := range timestamps {
		active[DayKeyOf(ts)] = 1
	}

	streak := Streak(active, asOf, 1)
	if maxDays > 0 && streak > maxDays {
		return maxDays
	}
	return streak
}
