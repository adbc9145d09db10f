package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/engine"

	_ "github.com/jackc/pgx/v5/stdlib"
)

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func setupTestDB(t *testing.T) *sqlx.DB {
	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getenv("DB_USER", "kanso_user"),
		getenv("DB_PASSWORD", "secret"),
		getenv("DB_HOST", "localhost"),
		getenv("DB_PORT", "5432"),
		getenv("DB_NAME", "kanso_db"),
	)

	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		t.Skipf("Skipping integration tests: database connection failed: %v", err)
	}
	require.NoError(t, Migrate(context.Background(), db))
	return db
}

func cleanup(t *testing.T, db *sqlx.DB) {
	_, err := db.Exec("TRUNCATE TABLE progress_entries, habits, todos CASCADE")
	require.NoError(t, err, "Failed to clean up database")
}

func TestPostgresRepositories_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	cleanup(t, db)
	defer cleanup(t, db)

	ctx := context.Background()
	habits := NewPostgresHabitRepository(db)
	progress := NewPostgresProgressRepository(db)
	activity := NewPostgresActivityRepository(db, engine.StreakThreshold)

	userID := "integration-user-" + uuid.NewString()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	h, err := domain.NewHabit(userID, "Read", "pages", domain.CadenceDaily, 10, start)
	require.NoError(t, err)

	t.Run("Create and List Habit", func(t *testing.T) {
		require.NoError(t, habits.Create(ctx, h))

		list, err := habits.ListByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		fetched := list[0]
		assert.Equal(t, h.Title, fetched.Title)
		assert.Equal(t, 10.0, fetched.GoalAmount)
		assert.True(t, fetched.StartDate.Equal(start))
		assert.Nil(t, fetched.ArchivedAt)
	})

	t.Run("Negative goal hits the check constraint", func(t *testing.T) {
		bad := *h
		bad.ID = uuid.NewString()
		bad.GoalAmount = -1

		err := habits.Create(ctx, &bad)
		assert.ErrorIs(t, err, domain.ErrInvalidGoal)
	})

	t.Run("List skips archived habits", func(t *testing.T) {
		archived, err := domain.NewHabit(userID, "Old", "", domain.CadenceDaily, 1, start)
		require.NoError(t, err)
		archived.Archive()
		require.NoError(t, habits.Create(ctx, archived))

		list, err := habits.ListByUserID(ctx, userID)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, h.ID, list[0].ID)
	})

	day := time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC)

	t.Run("Progress range", func(t *testing.T) {
		require.NoError(t, progress.Create(ctx, domain.NewProgressEntry(h.ID, userID, day, 4)))
		require.NoError(t, progress.Create(ctx, domain.NewProgressEntry(h.ID, userID, day.Add(time.Hour), 12)))
		require.NoError(t, progress.Create(ctx, domain.NewProgressEntry(h.ID, userID, day.AddDate(0, 0, -20), 12)))

		list, err := progress.ListByUserIDAndDateRange(ctx, userID, day.AddDate(0, 0, -1), day.AddDate(0, 0, 1))
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, 4.0, list[0].Value)
		assert.Equal(t, 12.0, list[1].Value)
	})

	t.Run("Progress for unknown habit", func(t *testing.T) {
		err := progress.Create(ctx, domain.NewProgressEntry(uuid.NewString(), userID, day, 1))
		assert.ErrorIs(t, err, domain.ErrHabitNotFound)
	})

	t.Run("Activity counts and completion days", func(t *testing.T) {
		_, err := db.Exec(`INSERT INTO todos (id, user_id, title, status, completed_at)
			VALUES ($1, $2, 'done', 'COMPLETED', $3), ($4, $2, 'open', 'PENDING', NULL)`,
			uuid.NewString(), userID, day.AddDate(0, 0, 1), uuid.NewString())
		require.NoError(t, err)

		counts, err := activity.CountActivity(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 1, counts.CompletedTodos)
		assert.Equal(t, 2, counts.CompletedHabitDays)

		days, err := activity.ListCompletionDays(ctx, userID, day.AddDate(0, 0, -1), day.AddDate(0, 0, 2))
		require.NoError(t, err)
		assert.Len(t, days, 2)
	})

	t.Run("A same-day correction replaces the earlier entry", func(t *testing.T) {
		corrected := day.AddDate(0, 0, 3)
		require.NoError(t, progress.Create(ctx, domain.NewProgressEntry(h.ID, userID, corrected, 10)))
		later := domain.NewProgressEntry(h.ID, userID, corrected.Add(time.Hour), 5)
		later.CreatedAt = later.CreatedAt.Add(time.Second)
		require.NoError(t, progress.Create(ctx, later))

		counts, err := activity.CountActivity(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 2, counts.CompletedHabitDays)

		days, err := activity.ListCompletionDays(ctx, userID, corrected, corrected.Add(2*time.Hour))
		require.NoError(t, err)
		assert.Empty(t, days)
	})

	t.Run("Threshold below one counts partial days", func(t *testing.T) {
		half := NewPostgresActivityRepository(db, 0.5)

		counts, err := half.CountActivity(ctx, userID)
		require.NoError(t, err)
		assert.Equal(t, 3, counts.CompletedHabitDays)
	})
}
