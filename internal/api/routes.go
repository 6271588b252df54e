package api

import (
	"net/http"

	"fitforge/coach-app/internal/config"
	"fitforge/coach-app/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupRoutes mounts the progress-tracking surface consumed by the web UI.
// Paths are the contract with the frontend; don't rename them here without a
// matching UI change.
func SetupRoutes(
	router *gin.Engine,
	cfg config.Config,
	progressService service.ProgressService,
	bookmarkRatingService service.BookmarkRatingService,
) {
	progressHandler := NewProgressHandler(progressService, bookmarkRatingService)
	authMiddleware := AuthMiddleware(cfg.JWT.Secret)

	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	workouts := router.Group("/workouts")
	workouts.Use(authMiddleware)
	{
		premade := workouts.Group("/premade/:id")
		{
			premade.POST("/start", progressHandler.StartWorkout)
			premade.GET("/progress", progressHandler.GetProgress)
			premade.POST("/complete-day", progressHandler.CompleteDay)
			premade.POST("/bookmark", progressHandler.AddBookmark)
			premade.DELETE("/bookmark", progressHandler.RemoveBookmark)
			premade.POST("/rate", progressHandler.RateWorkout)
		}

		workouts.GET("/progress/overview", progressHandler.GetOverview)
	}
}
