package progress

import (
	"fmt"
	"time"

	"fitforge/coach-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The transition functions take a record by value and return a new value with
// the mutation and a full recompute applied. Persistence (and the optimistic
// version check) stays with the caller, which keeps every rule here testable
// without a datastore.

// NewRecord seeds a fresh progress record for a user starting a plan.
func NewRecord(userID, workoutID primitive.ObjectID, shape domain.PlanShape, now time.Time) domain.ProgressRecord {
	return domain.ProgressRecord{
		UserID:           userID,
		WorkoutID:        workoutID,
		IsStarted:        true,
		StartedAt:        now,
		LastAccessedAt:   now,
		CurrentWeek:      1,
		CurrentDay:       1,
		TotalWeeks:       shape.TotalWeeks,
		TotalDaysPerWeek: shape.TotalDaysPerWeek,
		CompletedDays:    []domain.CompletedDayEntry{},
		CompletedWeeks:   []int{},
	}
}

// CompleteDayInput carries the user-supplied fields of one finished session.
type CompleteDayInput struct {
	Week           int
	Day            int
	Duration       int // minutes
	Difficulty     domain.Difficulty
	CaloriesBurned int
	Notes          string
	SessionID      string
}

// CompleteDay logs one finished (week, day) unit and rederives every
// aggregate. A duplicate (week, day) is rejected, never merged; callers treat
// ErrDuplicateCompletion as "already recorded" rather than a hard failure.
func CompleteDay(rec domain.ProgressRecord, in CompleteDayInput, now time.Time) (domain.ProgressRecord, error) {
	if in.Week < 1 || in.Week > rec.TotalWeeks {
		return rec, fmt.Errorf("week %d not in [1,%d]: %w", in.Week, rec.TotalWeeks, ErrOutOfRange)
	}
	if in.Day < 1 || in.Day > rec.TotalDaysPerWeek {
		return rec, fmt.Errorf("day %d not in [1,%d]: %w", in.Day, rec.TotalDaysPerWeek, ErrOutOfRange)
	}
	if in.Duration < 1 {
		return rec, ErrInvalidDuration
	}
	if !in.Difficulty.IsValid() {
		return rec, ErrInvalidDifficulty
	}
	if rec.HasCompletedDay(in.Week, in.Day) {
		return rec, fmt.Errorf("week %d day %d: %w", in.Week, in.Day, ErrDuplicateCompletion)
	}

	entry := domain.CompletedDayEntry{
		Week:           in.Week,
		Day:            in.Day,
		CompletedAt:    now,
		Duration:       in.Duration,
		Difficulty:     in.Difficulty,
		CaloriesBurned: in.CaloriesBurned,
		Notes:          in.Notes,
		SessionID:      in.SessionID,
	}
	// Copy-on-append so the caller's record is untouched if the save fails.
	entries := make([]domain.CompletedDayEntry, 0, len(rec.CompletedDays)+1)
	entries = append(entries, rec.CompletedDays...)
	rec.CompletedDays = append(entries, entry)

	rec.IsStarted = true
	if rec.StartedAt.IsZero() {
		rec.StartedAt = now
	}
	rec.LastAccessedAt = now

	rec = Recompute(rec, now)

	// completedAt is stamped exactly once; later recomputes keep the
	// original completion moment.
	if rec.IsCompleted && rec.CompletedAt == nil {
		completedAt := now
		rec.CompletedAt = &completedAt
	}
	return rec, nil
}

// ToggleBookmark flips the bookmark flag, stamping or clearing bookmarkedAt.
func ToggleBookmark(rec domain.ProgressRecord, now time.Time) domain.ProgressRecord {
	rec.IsBookmarked = !rec.IsBookmarked
	if rec.IsBookmarked {
		bookmarkedAt := now
		rec.BookmarkedAt = &bookmarkedAt
	} else {
		rec.BookmarkedAt = nil
	}
	rec.LastAccessedAt = now
	return rec
}

// Rate records the user's 1-5 rating and optional review. Re-rating
// overwrites the previous value; the catalog rollup is recomputed by the
// service from all users' ratings afterwards.
func Rate(rec domain.ProgressRecord, rating int, review string, now time.Time) (domain.ProgressRecord, error) {
	if rating < 1 || rating > 5 {
		return rec, fmt.Errorf("rating %d: %w", rating, ErrRatingOutOfRange)
	}
	rec.UserRating = &rating
	rec.UserReview = review
	ratedAt := now
	rec.RatedAt = &ratedAt
	rec.LastAccessedAt = now
	return rec, nil
}
