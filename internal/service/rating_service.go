package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/progress"
	"fitforge/coach-app/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingResult echoes the stored rating back to the caller.
type RatingResult struct {
	WorkoutID primitive.ObjectID
	Rating    int
	Review    string
}

// BookmarkRatingService owns the two engagement sub-features on a progress
// record: bookmarking and the 1-5 rating with its catalog-side rollup.
type BookmarkRatingService interface {
	// SetBookmark moves the bookmark flag to the wanted state. Setting an
	// already-set state is a no-op, so POST/DELETE are both idempotent.
	SetBookmark(ctx context.Context, userID, workoutID primitive.ObjectID, bookmarked bool) (*domain.ProgressRecord, error)

	// Rate stores the user's rating on their record and recomputes the
	// workout's aggregate rating over all users.
	Rate(ctx context.Context, userID, workoutID primitive.ObjectID, rating int, review string) (*RatingResult, error)
}

type bookmarkRatingService struct {
	progressRepo repository.ProgressRepository
	workoutRepo  repository.WorkoutRepository
	now          func() time.Time
}

// NewBookmarkRatingService creates a new instance of bookmarkRatingService.
func NewBookmarkRatingService(progressRepo repository.ProgressRepository, workoutRepo repository.WorkoutRepository) BookmarkRatingService {
	return &bookmarkRatingService{
		progressRepo: progressRepo,
		workoutRepo:  workoutRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *bookmarkRatingService) SetBookmark(ctx context.Context, userID, workoutID primitive.ObjectID, bookmarked bool) (*domain.ProgressRecord, error) {
	return mutateRecord(ctx, s.progressRepo, userID, workoutID, func(r domain.ProgressRecord) (domain.ProgressRecord, error) {
		if r.IsBookmarked == bookmarked {
			return r, nil
		}
		return progress.ToggleBookmark(r, s.now()), nil
	})
}

// Rate requires the user to have started the workout; rating from the catalog
// page without a progress record is rejected by design.
func (s *bookmarkRatingService) Rate(ctx context.Context, userID, workoutID primitive.ObjectID, rating int, review string) (*RatingResult, error) {
	if _, err := s.workoutRepo.GetPublishedByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	rec, err := mutateRecord(ctx, s.progressRepo, userID, workoutID, func(r domain.ProgressRecord) (domain.ProgressRecord, error) {
		return progress.Rate(r, rating, review, s.now())
	})
	if err != nil {
		return nil, err
	}

	// Catalog-side rollup: recompute the workout's aggregate from all users'
	// stored ratings. The record write above already succeeded; a rollup
	// failure must not lose the user's rating.
	summary, err := s.progressRepo.AggregateRating(ctx, workoutID)
	if err != nil {
		return nil, fmt.Errorf("rating stored, aggregate recompute failed: %w", err)
	}
	if err := s.workoutRepo.UpdateRating(ctx, workoutID, summary); err != nil {
		return nil, fmt.Errorf("rating stored, workout rollup failed: %w", err)
	}

	return &RatingResult{
		WorkoutID: workoutID,
		Rating:    *rec.UserRating,
		Review:    rec.UserReview,
	}, nil
}
