package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/engine"
)

var (
	_ domain.HabitRepository    = (*InMemoryHabitRepository)(nil)
	_ domain.ProgressRepository = (*InMemoryProgressRepository)(nil)
	_ domain.ActivityRepository = (*InMemoryActivityRepository)(nil)
)

type InMemoryHabitRepository struct {
	store map[string]*domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]*domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.store[habit.ID] = habit
	return nil
}

func (r *InMemoryHabitRepository) get(id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID && h.ArchivedAt == nil {
			habits = append(habits, h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		if !habits[i].CreatedAt.Equal(habits[j].CreatedAt) {
			return habits[i].CreatedAt.Before(habits[j].CreatedAt)
		}
		return habits[i].ID < habits[j].ID
	})

	return habits, nil
}

type InMemoryProgressRepository struct {
	habits  *InMemoryHabitRepository
	entries []domain.ProgressEntry

	mu sync.RWMutex
}

// NewInMemoryProgressRepository keeps entries in insertion order. habits is
// used to reject entries of unknown habits and to hide archived ones.
func NewInMemoryProgressRepository(habits *InMemoryHabitRepository) *InMemoryProgressRepository {
	return &InMemoryProgressRepository{habits: habits}
}

func (r *InMemoryProgressRepository) Create(ctx context.Context, entry *domain.ProgressEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	if _, err := r.habits.get(entry.HabitID); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, *entry)
	return nil
}

func (r *InMemoryProgressRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.ProgressEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []domain.ProgressEntry{}
	for _, e := range r.entries {
		if e.UserID != userID || e.Date.Before(from) || e.Date.After(to) {
			continue
		}
		if h, err := r.habits.get(e.HabitID); err != nil || h.ArchivedAt != nil {
			continue
		}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return engine.DayKeyOf(out[i].Date).Before(engine.DayKeyOf(out[j].Date))
	})
	return out, nil
}

type habitDay struct {
	habitID string
	day     engine.DayKey
}

// completedDays collapses the user's entries to the last one per habit and
// UTC day, and keeps the days whose goal ratio reaches threshold. The value
// is the date of the entry that decided the day.
func (r *InMemoryProgressRepository) completedDays(userID string, threshold float64) map[habitDay]time.Time {
	r.mu.RLock()
	entries := append([]domain.ProgressEntry(nil), r.entries...)
	r.mu.RUnlock()

	last := make(map[habitDay]domain.ProgressEntry)
	for _, e := range entries {
		if e.UserID == userID {
			last[habitDay{e.HabitID, engine.DayKeyOf(e.Date)}] = e
		}
	}

	out := make(map[habitDay]time.Time)
	for key, e := range last {
		h, err := r.habits.get(e.HabitID)
		if err != nil {
			continue
		}
		if engine.GoalRatio(e.Value, h.GoalAmount) >= threshold {
			out[key] = e.Date
		}
	}
	return out
}

type InMemoryActivityRepository struct {
	progress  *InMemoryProgressRepository
	threshold float64
	todos     map[string][]time.Time

	mu sync.RWMutex
}

// NewInMemoryActivityRepository counts a habit day as completed when its last
// entry reaches threshold of the goal.
func NewInMemoryActivityRepository(progress *InMemoryProgressRepository, threshold float64) *InMemoryActivityRepository {
	return &InMemoryActivityRepository{
		progress:  progress,
		threshold: threshold,
		todos:     make(map[string][]time.Time),
	}
}

// CompleteTodo records a todo of userID completed at the given time.
func (r *InMemoryActivityRepository) CompleteTodo(userID string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.todos[userID] = append(r.todos[userID], at)
}

func (r *InMemoryActivityRepository) CountActivity(ctx context.Context, userID string) (domain.ActivityCounts, error) {
	r.mu.RLock()
	todos := len(r.todos[userID])
	r.mu.RUnlock()

	return domain.ActivityCounts{
		CompletedTodos:     todos,
		CompletedHabitDays: len(r.progress.completedDays(userID, r.threshold)),
	}, nil
}

func (r *InMemoryActivityRepository) ListCompletionDays(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	inRange := func(t time.Time) bool {
		return !t.Before(from) && !t.After(to)
	}

	out := []time.Time{}

	r.mu.RLock()
	for _, at := range r.todos[userID] {
		if inRange(at) {
			out = append(out, at)
		}
	}
	r.mu.RUnlock()

	for _, at := range r.progress.completedDays(userID, r.threshold) {
		if inRange(at) {
			out = append(out, at)
		}
	}
	return out, nil
}
