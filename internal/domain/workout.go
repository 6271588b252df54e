package domain

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanShape is the immutable (weeks x days-per-week) grid of a premade plan.
// A ProgressRecord copies it at creation time and stays pinned to that copy.
type PlanShape struct {
	TotalWeeks       int
	TotalDaysPerWeek int
}

// Workout is the catalog's premade workout plan, read-only for this service
// except for the rating rollup fields, which this service recomputes whenever
// a user rates the workout.
type Workout struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description,omitempty" json:"description,omitempty"`
	Category        string             `bson:"category,omitempty" json:"category,omitempty"`
	Level           string             `bson:"level,omitempty" json:"level,omitempty"`
	PlanDuration    string             `bson:"planDuration" json:"planDuration"` // e.g. "8 weeks"
	WorkoutsPerWeek int                `bson:"workoutsPerWeek" json:"workoutsPerWeek"`
	IsPublished     bool               `bson:"isPublished" json:"isPublished"`

	// Aggregate rating across all users, maintained by the rating rollup.
	Rating       float64 `bson:"rating" json:"rating"`
	TotalRatings int     `bson:"totalRatings" json:"totalRatings"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

const (
	defaultPlanWeeks       = 4
	defaultWorkoutsPerWeek = 3
)

// Shape derives the plan grid this workout was published with.
// PlanDuration is a catalog-owned display string ("8 weeks", "12-week plan");
// the leading integer is the week count. Missing or unparsable values fall
// back to a 4x3 plan, matching how the catalog seeds new workouts.
func (w *Workout) Shape() PlanShape {
	shape := PlanShape{
		TotalWeeks:       defaultPlanWeeks,
		TotalDaysPerWeek: w.WorkoutsPerWeek,
	}
	if shape.TotalDaysPerWeek < 1 {
		shape.TotalDaysPerWeek = defaultWorkoutsPerWeek
	}
	if weeks := parseLeadingInt(w.PlanDuration); weeks >= 1 {
		shape.TotalWeeks = weeks
	}
	return shape
}

func parseLeadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
