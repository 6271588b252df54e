// internal/api/progress_handler.go
package api

import (
	"errors"
	"log"
	"net/http"

	"fitforge/coach-app/internal/domain"
	"fitforge/coach-app/internal/progress"
	"fitforge/coach-app/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProgressHandler struct {
	progressService service.ProgressService
	bookmarkRating  service.BookmarkRatingService
}

func NewProgressHandler(progressService service.ProgressService, bookmarkRating service.BookmarkRatingService) *ProgressHandler {
	return &ProgressHandler{
		progressService: progressService,
		bookmarkRating:  bookmarkRating,
	}
}

// --- DTOs ---

type WorkoutResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Category        string  `json:"category,omitempty"`
	Level           string  `json:"level,omitempty"`
	PlanDuration    string  `json:"planDuration"`
	WorkoutsPerWeek int     `json:"workoutsPerWeek"`
	Rating          float64 `json:"rating"`
	TotalRatings    int     `json:"totalRatings"`
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	return WorkoutResponse{
		ID:              w.ID.Hex(),
		Name:            w.Name,
		Description:     w.Description,
		Category:        w.Category,
		Level:           w.Level,
		PlanDuration:    w.PlanDuration,
		WorkoutsPerWeek: w.WorkoutsPerWeek,
		Rating:          w.Rating,
		TotalRatings:    w.TotalRatings,
	}
}

type StartWorkoutResponse struct {
	SessionID   string          `json:"sessionId"`
	CurrentWeek int             `json:"currentWeek"`
	CurrentDay  int             `json:"currentDay"`
	Resumed     bool            `json:"resumed"`
	Workout     WorkoutResponse `json:"workout"`
}

// ProgressResponse is the persisted record plus the projections derived on
// read (weekly breakdown, next day pointer, completion percentage).
type ProgressResponse struct {
	*domain.ProgressRecord
	CompletionPercentage float64                `json:"completionPercentage"`
	WeeklyBreakdown      []progress.WeekSummary `json:"weeklyBreakdown"`
	NextWorkoutDay       *progress.PlanDay      `json:"nextWorkoutDay"`
}

type GetProgressResponse struct {
	HasProgress bool              `json:"hasProgress"`
	Progress    *ProgressResponse `json:"progress,omitempty"`
}

type CompleteDayRequest struct {
	Week           int    `json:"week" binding:"required,min=1"`
	Day            int    `json:"day" binding:"required,min=1"`
	Duration       int    `json:"duration" binding:"required,min=1"`
	Difficulty     string `json:"difficulty" binding:"required"`
	CaloriesBurned int    `json:"caloriesBurned" binding:"omitempty,min=0"`
	Notes          string `json:"notes" binding:"omitempty,max=1000"`
	SessionID      string `json:"sessionId" binding:"omitempty"`
}

type CompleteDayResponse struct {
	Week                 int     `json:"week"`
	Day                  int     `json:"day"`
	CompletionPercentage float64 `json:"completionPercentage"`
	CurrentStreak        int     `json:"currentStreak"`
	TotalCompletedDays   int     `json:"totalCompletedDays"`
	IsWorkoutCompleted   bool    `json:"isWorkoutCompleted"`
}

type BookmarkResponse struct {
	WorkoutID    string `json:"workoutId"`
	IsBookmarked bool   `json:"isBookmarked"`
}

type RateWorkoutRequest struct {
	Rating int    `json:"rating" binding:"required"`
	Review string `json:"review" binding:"omitempty,max=2000"`
}

type RatingResponse struct {
	WorkoutID string `json:"workoutId"`
	Rating    int    `json:"rating"`
	Review    string `json:"review,omitempty"`
}

type OverviewStatsResponse struct {
	TotalWorkoutsStarted   int `json:"totalWorkoutsStarted"`
	TotalWorkoutsCompleted int `json:"totalWorkoutsCompleted"`
	TotalCompletedDays     int `json:"totalCompletedDays"`
	TotalTimeSpent         int `json:"totalTimeSpent"`
	TotalCaloriesBurned    int `json:"totalCaloriesBurned"`
	BestCurrentStreak      int `json:"bestCurrentStreak"`
	LongestStreak          int `json:"longestStreak"`
	BookmarkedWorkouts     int `json:"bookmarkedWorkouts"`
}

type OverviewResponse struct {
	Stats          OverviewStatsResponse    `json:"stats"`
	RecentWorkouts []*domain.ProgressRecord `json:"recentWorkouts"`
}

// --- Helpers ---

// principal resolves the authenticated user and the :id path param.
func principal(c *gin.Context) (userID, workoutID primitive.ObjectID, ok bool) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}
	userID, err = primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return
	}
	workoutID, err = primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid workout ID format.")
		return
	}
	return userID, workoutID, true
}

// mapProgressError translates service/engine errors to HTTP statuses.
// Validation and the duplicate-day rejection are 400 (the client treats a
// duplicate as "already recorded"); a lost optimistic race that survived the
// internal retry is 409.
func mapProgressError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrProgressNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, progress.ErrOutOfRange),
		errors.Is(err, progress.ErrInvalidDuration),
		errors.Is(err, progress.ErrInvalidDifficulty),
		errors.Is(err, progress.ErrDuplicateCompletion),
		errors.Is(err, progress.ErrRatingOutOfRange):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConcurrentUpdate):
		abortWithError(c, http.StatusConflict, err.Error())
	default:
		log.Printf("ERROR: %s: %v", fallback, err)
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

// --- Handler Methods ---

// StartWorkout godoc
// @Summary Start (or resume) a premade workout plan
// @Description Creates the user's progress record for the workout if absent and returns the current cursor.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout's ObjectID Hex"
// @Success 200 {object} StartWorkoutResponse
// @Failure 400 {object} gin.H "Invalid workout ID format"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout not found or unpublished"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/premade/{id}/start [post]
func (h *ProgressHandler) StartWorkout(c *gin.Context) {
	userID, workoutID, ok := principal(c)
	if !ok {
		return
	}

	result, err := h.progressService.Start(c.Request.Context(), userID, workoutID)
	if err != nil {
		mapProgressError(c, err, "Failed to start workout.")
		return
	}

	c.JSON(http.StatusOK, StartWorkoutResponse{
		SessionID:   result.SessionID,
		CurrentWeek: result.CurrentWeek,
		CurrentDay:  result.CurrentDay,
		Resumed:     result.Resumed,
		Workout:     MapWorkoutToResponse(result.Workout),
	})
}

// GetProgress godoc
// @Summary Get my progress for a premade workout
// @Description Returns the progress record with its weekly breakdown, or hasProgress=false if never started. Read-only: never creates a record.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout's ObjectID Hex"
// @Success 200 {object} GetProgressResponse
// @Failure 400 {object} gin.H "Invalid workout ID format"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/premade/{id}/progress [get]
func (h *ProgressHandler) GetProgress(c *gin.Context) {
	userID, workoutID, ok := principal(c)
	if !ok {
		return
	}

	details, err := h.progressService.GetProgress(c.Request.Context(), userID, workoutID)
	if err != nil {
		// A never-started workout is not an error for this endpoint.
		if errors.Is(err, service.ErrProgressNotFound) {
			c.JSON(http.StatusOK, GetProgressResponse{HasProgress: false})
			return
		}
		mapProgressError(c, err, "Failed to retrieve progress.")
		return
	}

	c.JSON(http.StatusOK, GetProgressResponse{
		HasProgress: true,
		Progress: &ProgressResponse{
			ProgressRecord:       details.Record,
			CompletionPercentage: details.CompletionPercentage,
			WeeklyBreakdown:      details.Weeks,
			NextWorkoutDay:       details.NextWorkoutDay,
		},
	})
}

// CompleteDay godoc
// @Summary Log completion of one (week, day) unit
// @Description Appends a completed-day entry, recomputes aggregates/streaks and advances the cursor. Re-completing the same day yields 400, which clients treat as "already recorded".
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout's ObjectID Hex"
// @Param completeRequest body CompleteDayRequest true "Completed day details"
// @Success 200 {object} CompleteDayResponse
// @Failure 400 {object} gin.H "Validation error, out-of-range week/day, or duplicate completion"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout never started"
// @Failure 409 {object} gin.H "Concurrent update lost after retry"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/premade/{id}/complete-day [post]
func (h *ProgressHandler) CompleteDay(c *gin.Context) {
	userID, workoutID, ok := principal(c)
	if !ok {
		return
	}

	var req CompleteDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.progressService.CompleteDay(c.Request.Context(), userID, workoutID, progress.CompleteDayInput{
		Week:           req.Week,
		Day:            req.Day,
		Duration:       req.Duration,
		Difficulty:     domain.Difficulty(req.Difficulty),
		CaloriesBurned: req.CaloriesBurned,
		Notes:          req.Notes,
		SessionID:      req.SessionID,
	})
	if err != nil {
		mapProgressError(c, err, "Failed to complete workout day.")
		return
	}

	c.JSON(http.StatusOK, CompleteDayResponse{
		Week:                 result.Week,
		Day:                  result.Day,
		CompletionPercentage: result.CompletionPercentage,
		CurrentStreak:        result.CurrentStreak,
		TotalCompletedDays:   result.TotalCompletedDays,
		IsWorkoutCompleted:   result.IsWorkoutCompleted,
	})
}

// AddBookmark godoc
// @Summary Bookmark a premade workout
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout's ObjectID Hex"
// @Success 200 {object} BookmarkResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout never started"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/premade/{id}/bookmark [post]
func (h *ProgressHandler) AddBookmark(c *gin.Context) {
	h.setBookmark(c, true)
}

// RemoveBookmark godoc
// @Summary Remove a bookmark from a premade workout
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout's ObjectID Hex"
// @Success 200 {object} BookmarkResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout never started"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/premade/{id}/bookmark [delete]
func (h *ProgressHandler) RemoveBookmark(c *gin.Context) {
	h.setBookmark(c, false)
}

func (h *ProgressHandler) setBookmark(c *gin.Context, bookmarked bool) {
	userID, workoutID, ok := principal(c)
	if !ok {
		return
	}

	rec, err := h.bookmarkRating.SetBookmark(c.Request.Context(), userID, workoutID, bookmarked)
	if err != nil {
		mapProgressError(c, err, "Failed to update bookmark.")
		return
	}

	c.JSON(http.StatusOK, BookmarkResponse{
		WorkoutID:    rec.WorkoutID.Hex(),
		IsBookmarked: rec.IsBookmarked,
	})
}

// RateWorkout godoc
// @Summary Rate a premade workout
// @Description Stores the user's 1-5 rating and review on their progress record and recomputes the workout's aggregate rating.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Workout's ObjectID Hex"
// @Param rateRequest body RateWorkoutRequest true "Rating and optional review"
// @Success 200 {object} RatingResponse
// @Failure 400 {object} gin.H "Rating outside 1-5"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout not found or never started"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/premade/{id}/rate [post]
func (h *ProgressHandler) RateWorkout(c *gin.Context) {
	userID, workoutID, ok := principal(c)
	if !ok {
		return
	}

	var req RateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	result, err := h.bookmarkRating.Rate(c.Request.Context(), userID, workoutID, req.Rating, req.Review)
	if err != nil {
		mapProgressError(c, err, "Failed to rate workout.")
		return
	}

	c.JSON(http.StatusOK, RatingResponse{
		WorkoutID: result.WorkoutID.Hex(),
		Rating:    result.Rating,
		Review:    result.Review,
	})
}

// GetOverview godoc
// @Summary Get my progress overview across all workouts
// @Description Aggregate stats over every progress record of the user plus the five most recently accessed.
// @Tags Progress
// @Produce json
// @Security BearerAuth
// @Success 200 {object} OverviewResponse
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/progress/overview [get]
func (h *ProgressHandler) GetOverview(c *gin.Context) {
	userIDStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user.")
		return
	}
	userID, err := primitive.ObjectIDFromHex(userIDStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid user ID format in token.")
		return
	}

	overview, err := h.progressService.GetOverview(c.Request.Context(), userID)
	if err != nil {
		mapProgressError(c, err, "Failed to retrieve progress overview.")
		return
	}

	recent := make([]*domain.ProgressRecord, 0, len(overview.Recent))
	for i := range overview.Recent {
		recent = append(recent, &overview.Recent[i])
	}

	c.JSON(http.StatusOK, OverviewResponse{
		Stats: OverviewStatsResponse{
			TotalWorkoutsStarted:   overview.Stats.TotalWorkoutsStarted,
			TotalWorkoutsCompleted: overview.Stats.TotalWorkoutsCompleted,
			TotalCompletedDays:     overview.Stats.TotalCompletedDays,
			TotalTimeSpent:         overview.Stats.TotalTimeSpent,
			TotalCaloriesBurned:    overview.Stats.TotalCaloriesBurned,
			BestCurrentStreak:      overview.Stats.BestCurrentStreak,
			LongestStreak:          overview.Stats.LongestStreak,
			BookmarkedWorkouts:     overview.Stats.BookmarkedWorkouts,
		},
		RecentWorkouts: recent,
	})
}
