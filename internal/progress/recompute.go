package progress

import (
	"sort"
	"time"

	"fitforge/coach-app/internal/domain"
)

// Recompute rebuilds every derived field of a record from its completedDays
// log: totals, average difficulty, completed weeks, completion flag, streaks
// and the (currentWeek, currentDay) cursor. It is the single source of truth
// for derived state; every mutator calls it before the record is persisted.
//
// The reduction is order-independent: users may complete day 2 of a week
// before day 1, and entries are appended in request order, not plan order.
func Recompute(rec domain.ProgressRecord, now time.Time) domain.ProgressRecord {
	rec.TotalCompletedDays = len(rec.CompletedDays)

	totalTime := 0
	totalCalories := 0
	difficultySum := 0
	perWeek := make(map[int]int)
	for i := range rec.CompletedDays {
		e := &rec.CompletedDays[i]
		totalTime += e.Duration
		totalCalories += e.CaloriesBurned
		difficultySum += e.Difficulty.Score()
		perWeek[e.Week]++
	}
	rec.TotalTimeSpent = totalTime
	rec.TotalCaloriesBurned = totalCalories

	rec.AverageDifficulty = 0
	if len(rec.CompletedDays) > 0 {
		rec.AverageDifficulty = float64(difficultySum) / float64(len(rec.CompletedDays))
	}

	rec.CompletedWeeks = completedWeeks(perWeek, rec.TotalDaysPerWeek)

	// Completion is monotonic: the log is append-only and no API removes
	// entries, so the flag can only ever flip false -> true.
	rec.IsCompleted = rec.TotalPlanDays() > 0 && rec.TotalCompletedDays == rec.TotalPlanDays()

	rec.CurrentStreak, rec.LongestStreak, rec.LastWorkoutDate = CalculateStreaks(rec.CompletedDays, now)

	rec.CurrentWeek, rec.CurrentDay = advanceCursor(&rec)
	return rec
}

// completedWeeks returns the sorted set of weeks that have every day logged.
func completedWeeks(perWeek map[int]int, daysPerWeek int) []int {
	weeks := make([]int, 0, len(perWeek))
	for week, count := range perWeek {
		if daysPerWeek > 0 && count == daysPerWeek {
			weeks = append(weeks, week)
		}
	}
	sort.Ints(weeks)
	return weeks
}

// advanceCursor returns the lowest (week, day) in plan order not yet logged.
// Once the plan is fully complete the cursor freezes at the final unit.
func advanceCursor(rec *domain.ProgressRecord) (week, day int) {
	done := make(map[[2]int]bool, len(rec.CompletedDays))
	for i := range rec.CompletedDays {
		done[[2]int{rec.CompletedDays[i].Week, rec.CompletedDays[i].Day}] = true
	}
	for w := 1; w <= rec.TotalWeeks; w++ {
		for d := 1; d <= rec.TotalDaysPerWeek; d++ {
			if !done[[2]int{w, d}] {
				return w, d
			}
		}
	}
	return rec.TotalWeeks, rec.TotalDaysPerWeek
}
