package api

import (
	"net/http"

	"alcyxob/group-fitness/internal/metrics"
	"alcyxob/group-fitness/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Services are the operations exposed over HTTP.
type Services struct {
	Auth        service.AuthService
	Groups      service.GroupService
	Workouts    service.WorkoutService
	Progress    service.ProgressService
	Leaderboard service.LeaderboardService
}

// RouterOptions configures the cross-cutting parts of the router.
type RouterOptions struct {
	JWTSecret string
	// Metrics and Gatherer are optional; without them no request metrics
	// are recorded and /metrics is not served.
	Metrics  *metrics.Manager
	Gatherer prometheus.Gatherer
}

// NewRouter builds a gin engine with the standard middleware chain and
// all routes registered.
func NewRouter(svc Services, opts RouterOptions) *gin.Engine {
	router := gin.New()
	router.Use(Recovery(opts.Metrics), RequestLogger())
	if opts.Metrics != nil {
		router.Use(RequestMetrics(opts.Metrics))
	}
	SetupRoutes(router, svc, opts)
	return router
}

func SetupRoutes(router *gin.Engine, svc Services, opts RouterOptions) {
	authHandler := NewAuthHandler(svc.Auth)
	groupHandler := NewGroupHandler(svc.Groups, svc.Leaderboard)
	workoutHandler := NewWorkoutHandler(svc.Workouts, svc.Progress)
	progressHandler := NewProgressHandler(svc.Progress)

	authMiddleware := AuthMiddleware(opts.JWTSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", authHandler.Me)
		protected.GET("/me/stats", progressHandler.MyStats)

		// --- Group Routes ---
		groups := protected.Group("/groups")
		{
			groups.GET("", groupHandler.ListGroups)
			groups.POST("", groupHandler.CreateGroup)
			groups.GET("/mine", groupHandler.MyGroups)
			groups.GET("/available", groupHandler.AvailableGroups)
			groups.GET("/:groupId", groupHandler.GetGroup)
			groups.POST("/:groupId/join", groupHandler.JoinGroup)
			groups.GET("/:groupId/leaderboard", groupHandler.GetLeaderboard)
			groups.GET("/:groupId/workouts", workoutHandler.GroupWorkouts)
			groups.POST("/:groupId/workouts", workoutHandler.CreateWorkout)
		}

		// --- Workout Routes ---
		workouts := protected.Group("/workouts")
		{
			workouts.GET("", workoutHandler.ListWorkouts)
			workouts.GET("/:workoutId", workoutHandler.GetWorkout)
			workouts.POST("/:workoutId/progress", progressHandler.LogProgress)
			workouts.GET("/:workoutId/progress", progressHandler.MyWorkoutProgress)
		}

		protected.GET("/progress", progressHandler.ListProgress)
	}
}
