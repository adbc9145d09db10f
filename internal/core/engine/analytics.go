package engine

import (
	"math"
	"sort"
	"time"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
)

// DefaultLookbackDays is the analytics window used when none is given.
const DefaultLookbackDays = 21

// MissingDayPolicy decides how a day without an entry weighs on averages.
// Under either policy a missing day never counts as a streak day.
type MissingDayPolicy int

const (
	// MissingExcluded leaves days without data out of every mean and rate.
	MissingExcluded MissingDayPolicy = iota
	// MissingAsZero counts every day since the habit started as 0% when
	// nothing was logged.
	MissingAsZero
)

func (p MissingDayPolicy) String() string {
	if p == MissingAsZero {
		return "zero"
	}
	return "excluded"
}

var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Options tunes Analyze. Out-of-range values fall back to the defaults.
type Options struct {
	LookbackDays    int
	StreakThreshold float64
	MissingDays     MissingDayPolicy
}

// DefaultOptions returns the package defaults.
func DefaultOptions() Options {
	return Options{
		LookbackDays:    DefaultLookbackDays,
		StreakThreshold: StreakThreshold,
		MissingDays:     MissingExcluded,
	}
}

func (o Options) normalized() Options {
	if o.LookbackDays < 1 {
		o.LookbackDays = DefaultLookbackDays
	}
	if !(o.StreakThreshold > 0) || o.StreakThreshold > 1 {
		o.StreakThreshold = StreakThreshold
	}
	if o.MissingDays != MissingAsZero {
		o.MissingDays = MissingExcluded
	}
	return o
}

// HabitStats are the derived figures of one habit. Percentages are integers
// in [0, 100]; DailyProgress is today's goal ratio in [0, 1].
type HabitStats struct {
	HabitID           string  `json:"habit_id"`
	Title             string  `json:"title"`
	Streak            int     `json:"streak"`
	LongestStreak     int     `json:"longest_streak"`
	SuccessRate       int     `json:"success_rate"`
	AverageCompletion int     `json:"average_completion"`
	DailyProgress     float64 `json:"daily_progress"`
	TodayValue        float64 `json:"today_value"`
	DaysCounted       int     `json:"days_counted"`
	DaysMet           int     `json:"days_met"`
}

// WeekdayScore is the mean goal ratio of all samples falling on one weekday.
type WeekdayScore struct {
	Weekday time.Weekday `json:"weekday"`
	Label   string       `json:"label"`
	Value   float64      `json:"value"`
	Samples int          `json:"samples"`
}

// Analytics is the result of Analyze for one user.
type Analytics struct {
	AsOf               DayKey             `json:"as_of"`
	LookbackDays       int                `json:"lookback_days"`
	MissingDays        string             `json:"missing_days"`
	ProgressByDay      map[DayKey]float64 `json:"progress_by_day"`
	WeekdayPerformance []WeekdayScore     `json:"weekday_performance"`
	Habits             []HabitStats       `json:"habits"`
}

type mean struct {
	sum   float64
	count int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.count++
}

func (m mean) value() float64 {
	if m.count == 0 {
		return 0
	}
	return math.Min(1, m.sum/float64(m.count))
}

// sample is one (habit, day) contribution inside the window.
type sample struct {
	day   DayKey
	ratio float64
}

// Analyze derives per-habit stats and cross-habit aggregates over the
// lookbackDays window ending on the day of asOf. Streaks look at all the
// entries given, not only the ones inside the window. Archived habits are
// left out. Inputs are not mutated.
func Analyze(all []domain.Habit, entries []domain.ProgressEntry, asOf time.Time, opts Options) Analytics {
	opts = opts.normalized()
	today := DayKeyOf(asOf)

	habits := make([]domain.Habit, 0, len(all))
	for _, h := range all {
		if h.ArchivedAt == nil {
			habits = append(habits, h)
		}
	}

	byHabit := make(map[string][]domain.ProgressEntry, len(habits))
	for _, e := range entries {
		byHabit[e.HabitID] = append(byHabit[e.HabitID], e)
	}

	stats := make([]HabitStats, len(habits))
	samples := make([][]sample, len(habits))
	for i, h := range habits {
		stats[i], samples[i] = analyzeHabit(h, byHabit[h.ID], today, opts)
	}

	// Accumulate in habit-id order so the float sums, and therefore the
	// reported means, do not depend on the order habits were passed in.
	order := make([]int, len(habits))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return habits[order[a]].ID < habits[order[b]].ID
	})

	perDay := make(map[DayKey]*mean, opts.LookbackDays)
	var perWeekday [7]mean
	for _, i := range order {
		for _, s := range samples[i] {
			m, ok := perDay[s.day]
			if !ok {
				m = &mean{}
				perDay[s.day] = m
			}
			m.add(s.ratio)
			perWeekday[s.day.Weekday()].add(s.ratio)
		}
	}

	progressByDay := make(map[DayKey]float64, len(perDay))
	for day, m := range perDay {
		progressByDay[day] = m.value()
	}

	weekdays := make([]WeekdayScore, 7)
	for wd := range perWeekday {
		weekdays[wd] = WeekdayScore{
			Weekday: time.Weekday(wd),
			Label:   weekdayLabels[wd],
			Value:   perWeekday[wd].value(),
			Samples: perWeekday[wd].count,
		}
	}

	return Analytics{
		AsOf:               today,
		LookbackDays:       opts.LookbackDays,
		MissingDays:        opts.MissingDays.String(),
		ProgressByDay:      progressByDay,
		WeekdayPerformance: weekdays,
		Habits:             stats,
	}
}

func analyzeHabit(h domain.Habit, entries []domain.ProgressEntry, today DayKey, opts Options) (HabitStats, []sample) {
	agg := Aggregate(h, entries)

	var start DayKey
	hasStart := !h.StartDate.IsZero()
	if hasStart {
		start = DayKeyOf(h.StartDate)
	}

	var (
		total   float64
		met     int
		counted int
		window  []sample
	)
	for offset := 0; offset < opts.LookbackDays; offset++ {
		day := today.AddDays(-offset)
		if hasStart && day.Before(start) {
			continue
		}

		ratio, ok := agg.RatioByDay[day]
		if !ok {
			if opts.MissingDays != MissingAsZero {
				continue
			}
			ratio = 0
		}

		counted++
		total += ratio
		if agg.GoalMetByDay[day] {
			met++
		}
		window = append(window, sample{day: day, ratio: ratio})
	}

	stats := HabitStats{
		HabitID:       h.ID,
		Title:         h.Title,
		Streak:        Streak(agg.RatioByDay, today.Time(), opts.StreakThreshold),
		LongestStreak: LongestStreak(agg.RatioByDay, opts.StreakThreshold),
		DailyProgress: agg.RatioByDay[today],
		TodayValue:    agg.ValueByDay[today],
		DaysCounted:   counted,
		DaysMet:       met,
	}
	if counted > 0 {
		stats.SuccessRate = Percent(float64(met) / float64(counted))
		stats.AverageCompletion = Percent(total / float64(counted))
	}

	return stats, window
}

// Percent converts a ratio to a whole percentage, rounding halves up and
// clamping to [0, 100].
func Percent(ratio float64) int {
	if math.IsNaN(ratio) || ratio <= 0 {
		return 0
	}
	p := int(math.Floor(ratio*100 + 0.5))
	if p > 100 {
		return 100
	}
	return p
}
