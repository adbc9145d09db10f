package engine

import (
	"fmt"
	"time"
)

const dayKeyLayout = "2006-01-02"

// DayKey identifies a UTC calendar day. It is comparable and used as a map key
// wherever progress is bucketed by day.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// DayKeyOf returns the UTC calendar day of t, whatever location t carries.
func DayKeyOf(t time.Time) DayKey {
	y, m, d := t.UTC().Date()
	return DayKey{Year: y, Month: m, Day: d}
}

// ParseDayKey reads a YYYY-MM-DD key.
func ParseDayKey(s string) (DayKey, error) {
	t, err := time.Parse(dayKeyLayout, s)
	if err != nil {
		return DayKey{}, fmt.Errorf("invalid day key %q: %w", s, err)
	}
	return DayKeyOf(t), nil
}

// Time returns midnight UTC of the day.
func (k DayKey) Time() time.Time {
	return time.Date(k.Year, k.Month, k.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays moves the key by n calendar days.
func (k DayKey) AddDays(n int) DayKey {
	return DayKeyOf(k.Time().AddDate(0, 0, n))
}

func (k DayKey) Weekday() time.Weekday {
	return k.Time().Weekday()
}

// Compare returns -1, 0 or +1 following chronological order.
func (k DayKey) Compare(other DayKey) int {
	switch {
	case k.Year != other.Year:
		return sign(k.Year - other.Year)
	case k.Month != other.Month:
		return sign(int(k.Month) - int(other.Month))
	default:
		return sign(k.Day - other.Day)
	}
}

func (k DayKey) Before(other DayKey) bool {
	return k.Compare(other) < 0
}

func (k DayKey) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", k.Year, int(k.Month), k.Day)
}

func (k DayKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *DayKey) UnmarshalText(text []byte) error {
	parsed, err := ParseDayKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
