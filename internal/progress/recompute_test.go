package progress

import (
	"math/rand"
	"testing"
	"time"

	"fitforge/coach-app/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecompute_Aggregates(t *testing.T) {
	rec := newTestRecord(2, 2)
	rec.CompletedDays = []domain.CompletedDayEntry{
		{Week: 1, Day: 1, CompletedAt: testStart, Duration: 30, Difficulty: domain.DifficultyEasy, CaloriesBurned: 200},
		{Week: 1, Day: 2, CompletedAt: testStart.AddDate(0, 0, 1), Duration: 45, Difficulty: domain.DifficultyHard, CaloriesBurned: 350},
		{Week: 2, Day: 1, CompletedAt: testStart.AddDate(0, 0, 2), Duration: 25, Difficulty: domain.DifficultyMedium},
	}

	got := Recompute(rec, testStart.AddDate(0, 0, 2))

	assert.Equal(t, 3, got.TotalCompletedDays)
	assert.Equal(t, 100, got.TotalTimeSpent)
	assert.Equal(t, 550, got.TotalCaloriesBurned)
	// easy=1, hard=5, medium=3 -> mean 3
	assert.InDelta(t, 3.0, got.AverageDifficulty, 0.001)
	assert.Equal(t, []int{1}, got.CompletedWeeks)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, 2, got.CurrentWeek)
	assert.Equal(t, 2, got.CurrentDay)
}

func TestRecompute_EmptyLog(t *testing.T) {
	got := Recompute(newTestRecord(4, 3), testStart)

	assert.Zero(t, got.TotalCompletedDays)
	assert.Zero(t, got.AverageDifficulty)
	assert.Empty(t, got.CompletedWeeks)
	assert.False(t, got.IsCompleted)
	assert.Equal(t, 1, got.CurrentWeek)
	assert.Equal(t, 1, got.CurrentDay)
	assert.Zero(t, got.CurrentStreak)
	assert.Nil(t, got.LastWorkoutDate)
}

// The reduction must not care about append order: a shuffled log yields the
// same derived state.
func TestRecompute_OrderIndependent(t *testing.T) {
	entries := []domain.CompletedDayEntry{
		{Week: 1, Day: 1, CompletedAt: testStart, Duration: 30, Difficulty: domain.DifficultyEasy},
		{Week: 1, Day: 2, CompletedAt: testStart.AddDate(0, 0, 1), Duration: 40, Difficulty: domain.DifficultyMedium},
		{Week: 1, Day: 3, CompletedAt: testStart.AddDate(0, 0, 2), Duration: 50, Difficulty: domain.DifficultyHard},
		{Week: 2, Day: 1, CompletedAt: testStart.AddDate(0, 0, 4), Duration: 35, Difficulty: domain.DifficultyMedium},
	}
	now := testStart.AddDate(0, 0, 4)

	base := newTestRecord(4, 3)
	base.CompletedDays = entries
	want := Recompute(base, now)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]domain.CompletedDayEntry, len(entries))
		copy(shuffled, entries)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		rec := newTestRecord(4, 3)
		rec.CompletedDays = shuffled
		got := Recompute(rec, now)

		assert.Equal(t, want.TotalCompletedDays, got.TotalCompletedDays)
		assert.Equal(t, want.TotalTimeSpent, got.TotalTimeSpent)
		assert.Equal(t, want.AverageDifficulty, got.AverageDifficulty)
		assert.Equal(t, want.CompletedWeeks, got.CompletedWeeks)
		assert.Equal(t, want.CurrentWeek, got.CurrentWeek)
		assert.Equal(t, want.CurrentDay, got.CurrentDay)
		assert.Equal(t, want.CurrentStreak, got.CurrentStreak)
		assert.Equal(t, want.LongestStreak, got.LongestStreak)
	}
}

func TestDifficultyScore(t *testing.T) {
	// The 1/3/5 scale is load-bearing for historical averages.
	assert.Equal(t, 1, domain.DifficultyEasy.Score())
	assert.Equal(t, 3, domain.DifficultyMedium.Score())
	assert.Equal(t, 5, domain.DifficultyHard.Score())
	assert.False(t, domain.Difficulty("extreme").IsValid())
}

func TestRecompute_CursorSkipsCompletedUnits(t *testing.T) {
	rec := newTestRecord(2, 2)
	rec.CompletedDays = []domain.CompletedDayEntry{
		{Week: 1, Day: 1, CompletedAt: testStart, Duration: 30, Difficulty: domain.DifficultyEasy},
		{Week: 1, Day: 2, CompletedAt: testStart.Add(time.Hour), Duration: 30, Difficulty: domain.DifficultyEasy},
		{Week: 2, Day: 1, CompletedAt: testStart.Add(2 * time.Hour), Duration: 30, Difficulty: domain.DifficultyEasy},
	}

	got := Recompute(rec, testStart.Add(3*time.Hour))
	require.Equal(t, 2, got.CurrentWeek)
	require.Equal(t, 2, got.CurrentDay)
}
