package progress

import "fitforge/coach-app/internal/domain"

// WeekSummary is the per-week slice of the plan grid shown on the plan page.
// It is derived on read and never persisted.
type WeekSummary struct {
	Week                 int     `json:"week"`
	CompletedDays        int     `json:"completedDays"`
	TotalDays            int     `json:"totalDays"`
	IsCompleted          bool    `json:"isCompleted"`
	IsUnlocked           bool    `json:"isUnlocked"`
	CompletionPercentage float64 `json:"completionPercentage"`
}

// PlanDay identifies one (week, day) unit of a plan.
type PlanDay struct {
	Week int `json:"week"`
	Day  int `json:"day"`
}

// ProjectWeeks produces the week-by-week view of a record. A week is
// unlocked when it is at most one ahead of the cursor week, so users can
// peek at (and start) the next week without finishing the current one.
func ProjectWeeks(rec domain.ProgressRecord) []WeekSummary {
	perWeek := make(map[int]int)
	for i := range rec.CompletedDays {
		perWeek[rec.CompletedDays[i].Week]++
	}

	weeks := make([]WeekSummary, 0, rec.TotalWeeks)
	for w := 1; w <= rec.TotalWeeks; w++ {
		count := perWeek[w]
		summary := WeekSummary{
			Week:          w,
			CompletedDays: count,
			TotalDays:     rec.TotalDaysPerWeek,
			IsCompleted:   rec.TotalDaysPerWeek > 0 && count == rec.TotalDaysPerWeek,
			IsUnlocked:    w <= rec.CurrentWeek+1,
		}
		if rec.TotalDaysPerWeek > 0 {
			summary.CompletionPercentage = float64(count) / float64(rec.TotalDaysPerWeek) * 100
		}
		weeks = append(weeks, summary)
	}
	return weeks
}

// NextWorkoutDay returns the first uncompleted (week, day) in plan order, or
// nil when the plan is fully completed.
func NextWorkoutDay(rec domain.ProgressRecord) *PlanDay {
	if rec.IsCompleted {
		return nil
	}
	done := make(map[[2]int]bool, len(rec.CompletedDays))
	for i := range rec.CompletedDays {
		done[[2]int{rec.CompletedDays[i].Week, rec.CompletedDays[i].Day}] = true
	}
	for w := 1; w <= rec.TotalWeeks; w++ {
		for d := 1; d <= rec.TotalDaysPerWeek; d++ {
			if !done[[2]int{w, d}] {
				return &PlanDay{Week: w, Day: d}
			}
		}
	}
	return nil
}
