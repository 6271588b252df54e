package progress

import (
	"sort"
	"time"

	"fitforge/coach-app/internal/domain"
)

const (
	// A single rest day between sessions keeps a streak alive, so up to a
	// 2-calendar-day gap between consecutive completions continues it.
	maxStreakGapDays = 2
	// The current streak lapses to 0 once the latest session is more than
	// 3 calendar days in the past.
	streakLapseDays = 3
)

// CalculateStreaks derives the consecutive-activity streaks from the
// completion timestamps. Entries are sorted by completedAt internally, so
// callers may pass the log in append order.
//
// currentStreak is the trailing run, reported as 0 when it has lapsed
// relative to now; longestStreak is retained either way.
func CalculateStreaks(entries []domain.CompletedDayEntry, now time.Time) (current, longest int, lastWorkout *time.Time) {
	if len(entries) == 0 {
		return 0, 0, nil
	}

	completions := make([]time.Time, len(entries))
	for i := range entries {
		completions[i] = entries[i].CompletedAt
	}
	sort.Slice(completions, func(i, j int) bool { return completions[i].Before(completions[j]) })

	streak := 1
	longest = 1
	for i := 1; i < len(completions); i++ {
		if calendarDaysBetween(completions[i-1], completions[i]) <= maxStreakGapDays {
			streak++
		} else {
			streak = 1
		}
		if streak > longest {
			longest = streak
		}
	}

	last := completions[len(completions)-1]
	current = streak
	if calendarDaysBetween(last, now) > streakLapseDays {
		current = 0
	}
	return current, longest, &last
}

// calendarDaysBetween counts whole calendar days from a to b in UTC.
// Two sessions on the same date are 0 days apart regardless of clock time.
func calendarDaysBetween(a, b time.Time) int {
	a = a.UTC()
	b = b.UTC()
	aDay := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bDay := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	days := int(bDay.Sub(aDay) / (24 * time.Hour))
	if days < 0 {
		return -days
	}
	return days
}
