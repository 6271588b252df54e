package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Difficulty is the perceived difficulty a user reports for a completed day.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// IsValid reports whether d is one of the known difficulty levels.
func (d Difficulty) IsValid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Score maps a difficulty onto the 1-5 scale used for averageDifficulty.
// The mapping (easy=1, medium=3, hard=5) is a product constant; changing it
// changes historical averages, so don't.
func (d Difficulty) Score() int {
	switch d {
	case DifficultyEasy:
		return 1
	case DifficultyMedium:
		return 3
	case DifficultyHard:
		return 5
	}
	return 0
}

// CompletedDayEntry is one logged (week, day) unit of a plan. Entries are
// append-only and immutable once logged; (week, day) is unique per record.
type CompletedDayEntry struct {
	Week           int        `bson:"week" json:"week"`
	Day            int        `bson:"day" json:"day"`
	CompletedAt    time.Time  `bson:"completedAt" json:"completedAt"`
	Duration       int        `bson:"duration" json:"duration"` // minutes
	Difficulty     Difficulty `bson:"difficulty" json:"difficulty"`
	CaloriesBurned int        `bson:"caloriesBurned,omitempty" json:"caloriesBurned,omitempty"`
	Notes          string     `bson:"notes,omitempty" json:"notes,omitempty"`
	SessionID      string     `bson:"sessionId,omitempty" json:"sessionId,omitempty"` // opaque correlation id, not validated here
}

// ProgressRecord tracks one user's progress through one premade workout plan.
// There is exactly one record per (userId, workoutId) pair.
//
// CompletedDays is the single source of truth; every other numeric field is
// derived from it and rewritten in the same persistence snapshot (see the
// progress package). Version backs the optimistic-concurrency guard on saves.
type ProgressRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	WorkoutID primitive.ObjectID `bson:"workoutId" json:"workoutId"`

	IsStarted      bool       `bson:"isStarted" json:"isStarted"`
	IsCompleted    bool       `bson:"isCompleted" json:"isCompleted"`
	StartedAt      time.Time  `bson:"startedAt" json:"startedAt"`
	CompletedAt    *time.Time `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	LastAccessedAt time.Time  `bson:"lastAccessedAt" json:"lastAccessedAt"`

	// Cursor to the next unit the user should attempt.
	CurrentWeek int `bson:"currentWeek" json:"currentWeek"`
	CurrentDay  int `bson:"currentDay" json:"currentDay"`

	// Plan shape pinned at creation time. The catalog plan may change later;
	// this record keeps the shape it was started with.
	TotalWeeks       int `bson:"totalWeeks" json:"totalWeeks"`
	TotalDaysPerWeek int `bson:"totalDaysPerWeek" json:"totalDaysPerWeek"`

	CompletedDays []CompletedDayEntry `bson:"completedDays" json:"completedDays"`

	// Derived aggregates.
	CompletedWeeks      []int   `bson:"completedWeeks" json:"completedWeeks"`
	TotalCompletedDays  int     `bson:"totalCompletedDays" json:"totalCompletedDays"`
	TotalTimeSpent      int     `bson:"totalTimeSpent" json:"totalTimeSpent"` // minutes
	TotalCaloriesBurned int     `bson:"totalCaloriesBurned" json:"totalCaloriesBurned"`
	AverageDifficulty   float64 `bson:"averageDifficulty" json:"averageDifficulty"`

	CurrentStreak   int        `bson:"currentStreak" json:"currentStreak"`
	LongestStreak   int        `bson:"longestStreak" json:"longestStreak"`
	LastWorkoutDate *time.Time `bson:"lastWorkoutDate,omitempty" json:"lastWorkoutDate,omitempty"`

	IsBookmarked bool       `bson:"isBookmarked" json:"isBookmarked"`
	BookmarkedAt *time.Time `bson:"bookmarkedAt,omitempty" json:"bookmarkedAt,omitempty"`

	UserRating *int       `bson:"userRating,omitempty" json:"userRating,omitempty"` // 1..5
	UserReview string     `bson:"userReview,omitempty" json:"userReview,omitempty"`
	RatedAt    *time.Time `bson:"ratedAt,omitempty" json:"ratedAt,omitempty"`

	Version int64 `bson:"version" json:"-"`
}

// TotalPlanDays is the number of units in the pinned plan shape.
func (p *ProgressRecord) TotalPlanDays() int {
	return p.TotalWeeks * p.TotalDaysPerWeek
}

// CompletionPercentage is the share of plan units completed, in [0,100].
func (p *ProgressRecord) CompletionPercentage() float64 {
	total := p.TotalPlanDays()
	if total == 0 {
		return 0
	}
	return float64(p.TotalCompletedDays) / float64(total) * 100
}

// HasCompletedDay reports whether (week, day) is already logged.
func (p *ProgressRecord) HasCompletedDay(week, day int) bool {
	for i := range p.CompletedDays {
		if p.CompletedDays[i].Week == week && p.CompletedDays[i].Day == day {
			return true
		}
	}
	return false
}
