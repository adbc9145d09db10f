package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/engine"
)

var ErrMissingAsOf = errors.New("as-of time is required")

// AnalyticsCache memoizes analytics. Keys already encode the full input, so
// implementations never need to invalidate.
type AnalyticsCache interface {
	Get(ctx context.Context, key string) (*engine.Analytics, bool)
	Set(ctx context.Context, key string, analytics *engine.Analytics)
}

type StatsService struct {
	habitRepo    domain.HabitRepository
	progressRepo domain.ProgressRepository
	cache        AnalyticsCache
	opts         engine.Options
}

// NewStatsService wires the analytics use case. cache may be nil.
func NewStatsService(habitRepo domain.HabitRepository, progressRepo domain.ProgressRepository, opts engine.Options, cache AnalyticsCache) *StatsService {
	return &StatsService{
		habitRepo:    habitRepo,
		progressRepo: progressRepo,
		cache:        cache,
		opts:         opts,
	}
}

type AnalyticsInput struct {
	UserID       string
	AsOf         time.Time
	LookbackDays int
}

func (s *StatsService) GetHabitAnalytics(ctx context.Context, input AnalyticsInput) (*engine.Analytics, error) {
	if input.AsOf.IsZero() {
		return nil, ErrMissingAsOf
	}

	opts := s.opts
	if input.LookbackDays > 0 {
		opts.LookbackDays = input.LookbackDays
	}

	habitPtrs, err := s.habitRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	habits := make([]domain.Habit, 0, len(habitPtrs))
	for _, h := range habitPtrs {
		if h != nil {
			habits = append(habits, *h)
		}
	}

	var entries []domain.ProgressEntry
	if len(habits) > 0 {
		from, to := entryRange(habits, input.AsOf, opts.LookbackDays)
		entries, err = s.progressRepo.ListByUserIDAndDateRange(ctx, input.UserID, from, to)
		if err != nil {
			return nil, err
		}
	}

	key, keyErr := analyticsKey(input.UserID, habits, entries, input.AsOf, opts)
	if keyErr == nil && s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached, nil
		}
	}

	analytics := engine.Analyze(habits, entries, input.AsOf, opts)

	if keyErr == nil && s.cache != nil {
		s.cache.Set(ctx, key, &analytics)
	}

	return &analytics, nil
}

// entryRange covers the lookback window and reaches back to the oldest habit
// start, so streaks are not cut at the window edge.
func entryRange(habits []domain.Habit, asOf time.Time, lookbackDays int) (time.Time, time.Time) {
	from, to := dayBounds(asOf)
	if lookbackDays > 1 {
		from = from.AddDate(0, 0, -(lookbackDays - 1))
	}

	for _, h := range habits {
		if h.StartDate.IsZero() {
			continue
		}
		start := engine.DayKeyOf(h.StartDate).Time()
		if start.Before(from) {
			from = start
		}
	}
	return from, to
}

// dayBounds returns the first and last instant of the UTC day holding t.
func dayBounds(t time.Time) (time.Time, time.Time) {
	start := engine.DayKeyOf(t).Time()
	return start, start.Add(24*time.Hour - time.Nanosecond)
}

type analyticsFingerprint struct {
	UserID   string                 `json:"user_id"`
	AsOf     engine.DayKey          `json:"as_of"`
	Options  engine.Options         `json:"options"`
	Habits   []domain.Habit         `json:"habits"`
	Entries  []domain.ProgressEntry `json:"entries"`
	Revision int                    `json:"revision"`
}

// analyticsRevision changes whenever the shape of engine.Analytics does, so
// stale cache entries are never decoded into a newer layout.
const analyticsRevision = 1

func analyticsKey(userID string, habits []domain.Habit, entries []domain.ProgressEntry, asOf time.Time, opts engine.Options) (string, error) {
	data, err := json.Marshal(analyticsFingerprint{
		UserID:   userID,
		AsOf:     engine.DayKeyOf(asOf),
		Options:  opts,
		Habits:   habits,
		Entries:  entries,
		Revision: analyticsRevision,
	})
	if err != nil {
		return "", fmt.Errorf("stats service: failed to fingerprint input: %w", err)
	}

	sum := sha256.Sum256(data)
	return "analytics:" + userID + ":" + hex.EncodeToString(sum[:]), nil
}
