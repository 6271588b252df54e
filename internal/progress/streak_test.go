package progress

import (
	"testing"
	"time"

	"fitforge/coach-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entriesAt(times ...time.Time) []domain.CompletedDayEntry {
	entries := make([]domain.CompletedDayEntry, 0, len(times))
	for i, at := range times {
		entries = append(entries, domain.CompletedDayEntry{
			Week:        1 + i/7,
			Day:         1 + i%7,
			CompletedAt: at,
			Duration:    30,
			Difficulty:  domain.DifficultyMedium,
		})
	}
	return entries
}

func TestCalculateStreaks_Empty(t *testing.T) {
	current, longest, last := CalculateStreaks(nil, testStart)
	assert.Zero(t, current)
	assert.Zero(t, longest)
	assert.Nil(t, last)
}

func TestCalculateStreaks_ConsecutiveDays(t *testing.T) {
	entries := entriesAt(testStart, testStart.AddDate(0, 0, 1), testStart.AddDate(0, 0, 2))
	now := testStart.AddDate(0, 0, 2)

	current, longest, last := CalculateStreaks(entries, now)
	assert.Equal(t, 3, current)
	assert.Equal(t, 3, longest)
	require.NotNil(t, last)
	assert.Equal(t, testStart.AddDate(0, 0, 2), last.UTC())
}

// One rest day is tolerated: a 2-day gap keeps the streak alive.
func TestCalculateStreaks_RestDayTolerated(t *testing.T) {
	entries := entriesAt(testStart, testStart.AddDate(0, 0, 2), testStart.AddDate(0, 0, 4))

	current, longest, _ := CalculateStreaks(entries, testStart.AddDate(0, 0, 4))
	assert.Equal(t, 3, current)
	assert.Equal(t, 3, longest)
}

// Scenario: t0, t0+1d, t0+4d. The 3-day gap breaks the run; longest stays 2
// and the trailing run restarts at 1.
func TestCalculateStreaks_GapBreaksStreak(t *testing.T) {
	entries := entriesAt(testStart, testStart.AddDate(0, 0, 1), testStart.AddDate(0, 0, 4))

	current, longest, _ := CalculateStreaks(entries, testStart.AddDate(0, 0, 4))
	assert.Equal(t, 1, current)
	assert.Equal(t, 2, longest)
}

// The current streak lapses to 0 once the latest session is more than 3 days
// old; the longest streak is retained.
func TestCalculateStreaks_Lapsed(t *testing.T) {
	entries := entriesAt(testStart, testStart.AddDate(0, 0, 1), testStart.AddDate(0, 0, 2))

	current, longest, _ := CalculateStreaks(entries, testStart.AddDate(0, 0, 10))
	assert.Zero(t, current)
	assert.Equal(t, 3, longest)

	// Exactly 3 days out is still alive.
	current, _, _ = CalculateStreaks(entries, testStart.AddDate(0, 0, 5))
	assert.Equal(t, 3, current)
}

// Entries arrive in append order, not time order; the calculator sorts.
func TestCalculateStreaks_UnsortedInput(t *testing.T) {
	entries := entriesAt(testStart.AddDate(0, 0, 2), testStart, testStart.AddDate(0, 0, 1))

	current, longest, last := CalculateStreaks(entries, testStart.AddDate(0, 0, 2))
	assert.Equal(t, 3, current)
	assert.Equal(t, 3, longest)
	require.NotNil(t, last)
	assert.Equal(t, testStart.AddDate(0, 0, 2), last.UTC())
}

// Two sessions on the same calendar date count as consecutive activity, and
// clock times within a day don't affect the day arithmetic.
func TestCalendarDaysBetween(t *testing.T) {
	morning := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	sameEvening := time.Date(2026, 3, 2, 23, 30, 0, 0, time.UTC)
	nextJustAfterMidnight := time.Date(2026, 3, 3, 0, 10, 0, 0, time.UTC)

	assert.Equal(t, 0, calendarDaysBetween(morning, sameEvening))
	assert.Equal(t, 1, calendarDaysBetween(sameEvening, nextJustAfterMidnight))
	assert.Equal(t, 1, calendarDaysBetween(nextJustAfterMidnight, sameEvening))
}
