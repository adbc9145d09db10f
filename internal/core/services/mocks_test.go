package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/engine"
)

type MockHabitRepo struct {
	mock.Mock
}

func (m *MockHabitRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Habit), args.Error(1)
}

type MockProgressRepo struct {
	mock.Mock
}

func (m *MockProgressRepo) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]domain.ProgressEntry, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ProgressEntry), args.Error(1)
}

type MockActivityRepo struct {
	mock.Mock
}

func (m *MockActivityRepo) CountActivity(ctx context.Context, userID string) (domain.ActivityCounts, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.ActivityCounts), args.Error(1)
}

func (m *MockActivityRepo) ListCompletionDays(ctx context.Context, userID string, from, to time.Time) ([]time.Time, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]time.Time), args.Error(1)
}

type MockAnalyticsCache struct {
	mock.Mock
}

func (m *MockAnalyticsCache) Get(ctx context.Context, key string) (*engine.Analytics, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*engine.Analytics), args.Bool(1)
}

func (m *MockAnalyticsCache) Set(ctx context.Context, key string, analytics *engine.Analytics) {
	m.Called(ctx, key, analytics)
}
