package repository

import (
	"context"

	"fitforge/coach-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("version conflict")
	ErrUpdateFailed = RepositoryError("update failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WorkoutRatingSummary is the catalog-side rollup of all users' ratings for
// one workout.
type WorkoutRatingSummary struct {
	Average float64
	Count   int
}

// ProgressRepository persists one progress record per (user, workout) pair.
type ProgressRepository interface {
	// GetOrCreate returns the existing record for (userID, workoutID) or
	// atomically inserts a fresh one. Concurrent first calls for the same
	// pair must resolve to a single record.
	GetOrCreate(ctx context.Context, fresh *domain.ProgressRecord) (*domain.ProgressRecord, error)

	Get(ctx context.Context, userID, workoutID primitive.ObjectID) (*domain.ProgressRecord, error)

	// Save writes the full record snapshot conditional on the version it was
	// read at. ErrConflict means another writer won the race and the caller
	// should reload and retry.
	Save(ctx context.Context, rec *domain.ProgressRecord) error

	// TouchLastAccessed bumps lastAccessedAt without a version check;
	// last-write-wins is fine for an access timestamp.
	TouchLastAccessed(ctx context.Context, userID, workoutID primitive.ObjectID) error

	// ListByUser returns all of the user's records, most recently accessed
	// first.
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]domain.ProgressRecord, error)

	// AggregateRating computes the average and count of userRating across all
	// users' records for one workout.
	AggregateRating(ctx context.Context, workoutID primitive.ObjectID) (WorkoutRatingSummary, error)
}

// WorkoutRepository is the read-only catalog lookup, plus the single
// catalog-side write this subsystem owns: the rating rollup.
type WorkoutRepository interface {
	// GetPublishedByID returns the workout if it exists and is published,
	// ErrNotFound otherwise.
	GetPublishedByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)

	UpdateRating(ctx context.Context, id primitive.ObjectID, summary WorkoutRatingSummary) error
}
