package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/domain"
)

func TestNewProgressEntry(t *testing.T) {
	local := time.Date(2024, 1, 10, 23, 30, 0, 0, time.FixedZone("EST", -5*3600))

	e := domain.NewProgressEntry("h1", "u1", local, 750)

	assert.NotEmpty(t, e.ID)
	assert.Equal(t, "h1", e.HabitID)
	assert.Equal(t, "u1", e.UserID)
	assert.Equal(t, 750.0, e.Value)
	assert.Equal(t, time.UTC, e.Date.Location())
	assert.True(t, local.Equal(e.Date))
	assert.NoError(t, e.Validate())
}

func TestProgressEntry_Validate(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		entry   domain.ProgressEntry
		wantErr bool
	}{
		{"Valid", domain.ProgressEntry{HabitID: "h", UserID: "u", Date: now, Value: 1}, false},
		{"Zero value is valid", domain.ProgressEntry{HabitID: "h", UserID: "u", Date: now}, false},
		{"Missing habit", domain.ProgressEntry{UserID: "u", Date: now, Value: 1}, true},
		{"Missing user", domain.ProgressEntry{HabitID: "h", Date: now, Value: 1}, true},
		{"Negative value", domain.ProgressEntry{HabitID: "h", UserID: "u", Date: now, Value: -1}, true},
		{"Missing date", domain.ProgressEntry{HabitID: "h", UserID: "u", Value: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidEntry)
				return
			}
			assert.NoError(t, err)
		})
	}
}
