package engine_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-progress-engine/internal/core/engine"
)

func TestDayKeyOf(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	tokyo := time.FixedZone("JST", 9*3600)

	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"UTC midnight", time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), "2024-03-10"},
		{"UTC last second", time.Date(2024, 3, 10, 23, 59, 59, 0, time.UTC), "2024-03-10"},
		{"Late evening west of UTC rolls forward", time.Date(2024, 3, 10, 23, 30, 0, 0, est), "2024-03-11"},
		{"Early morning east of UTC rolls back", time.Date(2024, 3, 10, 3, 0, 0, 0, tokyo), "2024-03-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.DayKeyOf(tt.in).String())
		})
	}

	t.Run("Same instant in different zones maps to the same bucket", func(t *testing.T) {
		instant := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, engine.DayKeyOf(instant), engine.DayKeyOf(instant.In(est)))
		assert.Equal(t, engine.DayKeyOf(instant), engine.DayKeyOf(instant.In(tokyo)))
	})
}

func TestDayKey_Ordering(t *testing.T) {
	a := engine.DayKey{Year: 2023, Month: time.December, Day: 31}
	b := engine.DayKey{Year: 2024, Month: time.January, Day: 1}
	c := engine.DayKey{Year: 2024, Month: time.February, Day: 1}

	assert.True(t, a.Before(b))
	assert.True(t, b.Before(c))
	assert.False(t, c.Before(a))
	assert.Equal(t, 0, b.Compare(b))
	assert.Equal(t, -1, a.Compare(c))
	assert.Equal(t, 1, c.Compare(a))
}

func TestDayKey_AddDays(t *testing.T) {
	feb28 := engine.DayKey{Year: 2024, Month: time.February, Day: 28}

	assert.Equal(t, "2024-02-29", feb28.AddDays(1).String())
	assert.Equal(t, "2024-03-01", feb28.AddDays(2).String())
	assert.Equal(t, "2024-01-31", feb28.AddDays(-28).String())
	assert.Equal(t, time.Wednesday, feb28.Weekday())
}

func TestDayKey_TextRoundTrip(t *testing.T) {
	k, err := engine.ParseDayKey("2024-01-10")
	require.NoError(t, err)
	assert.Equal(t, engine.DayKey{Year: 2024, Month: time.January, Day: 10}, k)

	_, err = engine.ParseDayKey("10/01/2024")
	assert.Error(t, err)

	data, err := json.Marshal(map[engine.DayKey]float64{k: 0.5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"2024-01-10":0.5}`, string(data))

	var decoded map[engine.DayKey]float64
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 0.5, decoded[k])
}
