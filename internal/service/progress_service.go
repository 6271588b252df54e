package service

import (
	"context"
	"errors"
	"time"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/progress"
	"fitforge/coach-app/internal/repository"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound  = errors.New("workout not found")
	ErrProgressNotFound = errors.New("no progress for this workout; start it first")
	ErrConcurrentUpdate = errors.New("progress was updated concurrently, please retry")
)

// StartResult is returned when a user starts (or resumes) a premade workout.
type StartResult struct {
	SessionID   string
	CurrentWeek int
	CurrentDay  int
	Resumed     bool
	Workout     *domain.Workout
}

// ProgressDetails is the read view of one record: the persisted snapshot plus
// the derived weekly projection, which is computed here and never stored.
type ProgressDetails struct {
	Record               *domain.ProgressRecord
	Weeks                []progress.WeekSummary
	NextWorkoutDay       *progress.PlanDay
	CompletionPercentage float64
}

// CompleteDayResult is the summary returned after logging one day.
type CompleteDayResult struct {
	Week                 int
	Day                  int
	CompletionPercentage float64
	CurrentStreak        int
	TotalCompletedDays   int
	IsWorkoutCompleted   bool
}

// OverviewStats aggregates across all of one user's progress records.
type OverviewStats struct {
	TotalWorkoutsStarted   int
	TotalWorkoutsCompleted int
	TotalCompletedDays     int
	TotalTimeSpent         int
	TotalCaloriesBurned    int
	BestCurrentStreak      int
	LongestStreak          int
	BookmarkedWorkouts     int
}

// Overview is the cross-workout dashboard payload.
type Overview struct {
	Stats  OverviewStats
	Recent []domain.ProgressRecord
}

type ProgressService interface {
	Start(ctx context.Context, userID, workoutID primitive.ObjectID) (*StartResult, error)
	GetProgress(ctx context.Context, userID, workoutID primitive.ObjectID) (*ProgressDetails, error)
	CompleteDay(ctx context.Context, userID, workoutID primitive.ObjectID, input progress.CompleteDayInput) (*CompleteDayResult, error)
	GetOverview(ctx context.Context, userID primitive.ObjectID) (*Overview, error)
}

// recentOverviewLimit caps the "most recent" list on the overview dashboard.
const recentOverviewLimit = 5

// progressService implements the ProgressService interface.
type progressService struct {
	progressRepo repository.ProgressRepository
	workoutRepo  repository.WorkoutRepository
	now          func() time.Time
}

// NewProgressService creates a new instance of progressService.
func NewProgressService(progressRepo repository.ProgressRepository, workoutRepo repository.WorkoutRepository) ProgressService {
	return &progressService{
		progressRepo: progressRepo,
		workoutRepo:  workoutRepo,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Start begins a premade workout for the user, or resumes it if a record
// already exists. Creation goes through the repository upsert, so two devices
// starting simultaneously still end up sharing one record.
func (s *progressService) Start(ctx context.Context, userID, workoutID primitive.ObjectID) (*StartResult, error) {
	workout, err := s.workoutRepo.GetPublishedByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	now := s.now()
	fresh := progress.NewRecord(userID, workoutID, workout.Shape(), now)
	rec, err := s.progressRepo.GetOrCreate(ctx, &fresh)
	if err != nil {
		return nil, err
	}

	// The generated ObjectID survives only when our upsert actually inserted;
	// reading back a different ID means the user had started this plan before.
	resumed := rec.ID != fresh.ID
	if resumed {
		// Best effort; a stale access timestamp is not worth failing a start.
		_ = s.progressRepo.TouchLastAccessed(ctx, userID, workoutID)
	}

	return &StartResult{
		SessionID:   uuid.NewString(),
		CurrentWeek: rec.CurrentWeek,
		CurrentDay:  rec.CurrentDay,
		Resumed:     resumed,
		Workout:     workout,
	}, nil
}

// GetProgress returns the user's progress for one workout, with the weekly
// projection derived on read. Reading never creates a record: browsing a
// workout page must not write. A missing record is reported via
// ErrProgressNotFound so the handler can answer hasProgress=false.
func (s *progressService) GetProgress(ctx context.Context, userID, workoutID primitive.ObjectID) (*ProgressDetails, error) {
	if _, err := s.workoutRepo.GetPublishedByID(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, err
	}

	rec, err := s.progressRepo.Get(ctx, userID, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}

	return &ProgressDetails{
		Record:               rec,
		Weeks:                progress.ProjectWeeks(*rec),
		NextWorkoutDay:       progress.NextWorkoutDay(*rec),
		CompletionPercentage: rec.CompletionPercentage(),
	}, nil
}

// CompleteDay logs one finished (week, day) unit. The read-transition-save
// cycle is guarded by the record version; a lost race is retried exactly once
// against the latest snapshot. If the other device logged the same day, the
// retry surfaces ErrDuplicateCompletion, which callers treat as "already
// recorded".
func (s *progressService) CompleteDay(ctx context.Context, userID, workoutID primitive.ObjectID, input progress.CompleteDayInput) (*CompleteDayResult, error) {
	rec, err := mutateRecord(ctx, s.progressRepo, userID, workoutID, func(r domain.ProgressRecord) (domain.ProgressRecord, error) {
		return progress.CompleteDay(r, input, s.now())
	})
	if err != nil {
		return nil, err
	}

	return &CompleteDayResult{
		Week:                 input.Week,
		Day:                  input.Day,
		CompletionPercentage: rec.CompletionPercentage(),
		CurrentStreak:        rec.CurrentStreak,
		TotalCompletedDays:   rec.TotalCompletedDays,
		IsWorkoutCompleted:   rec.IsCompleted,
	}, nil
}

// GetOverview aggregates across all of the user's records and returns the
// most recently accessed ones.
func (s *progressService) GetOverview(ctx context.Context, userID primitive.ObjectID) (*Overview, error) {
	records, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	var stats OverviewStats
	for i := range records {
		r := &records[i]
		stats.TotalWorkoutsStarted++
		if r.IsCompleted {
			stats.TotalWorkoutsCompleted++
		}
		if r.IsBookmarked {
			stats.BookmarkedWorkouts++
		}
		stats.TotalCompletedDays += r.TotalCompletedDays
		stats.TotalTimeSpent += r.TotalTimeSpent
		stats.TotalCaloriesBurned += r.TotalCaloriesBurned
		if r.CurrentStreak > stats.BestCurrentStreak {
			stats.BestCurrentStreak = r.CurrentStreak
		}
		if r.LongestStreak > stats.LongestStreak {
			stats.LongestStreak = r.LongestStreak
		}
	}

	recent := records
	if len(recent) > recentOverviewLimit {
		recent = recent[:recentOverviewLimit]
	}

	return &Overview{Stats: stats, Recent: recent}, nil
}

// mutateRecord runs one read-transition-save cycle under the optimistic
// version guard, retrying a conflicted save exactly once against the
// reloaded record. Shared by the progress and bookmark/rating services.
func mutateRecord(
	ctx context.Context,
	progressRepo repository.ProgressRepository,
	userID, workoutID primitive.ObjectID,
	apply func(domain.ProgressRecord) (domain.ProgressRecord, error),
) (*domain.ProgressRecord, error) {
	rec, err := progressRepo.Get(ctx, userID, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProgressNotFound
		}
		return nil, err
	}

	for attempt := 0; attempt < 2; attempt++ {
		updated, err := apply(*rec)
		if err != nil {
			return nil, err
		}

		err = progressRepo.Save(ctx, &updated)
		if err == nil {
			return &updated, nil
		}
		if !errors.Is(err, repository.ErrConflict) {
			return nil, err
		}

		rec, err = progressRepo.Get(ctx, userID, workoutID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrProgressNotFound
			}
			return nil, err
		}
	}
	return nil, ErrConcurrentUpdate
}
