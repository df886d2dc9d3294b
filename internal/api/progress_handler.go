package api

import (
	"net/http"
	"time"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/service"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progressService service.ProgressService
}

func NewProgressHandler(progressService service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

type ExerciseProgressRequest struct {
	ExerciseID string  `json:"exerciseId" binding:"required"`
	Value      float64 `json:"value"`
	Unit       string  `json:"unit"`
	Notes      string  `json:"notes"`
}

type LogProgressRequest struct {
	ExerciseProgresses []ExerciseProgressRequest `json:"exerciseProgresses" binding:"dive"`
	CompletedAt        *time.Time                `json:"completedAt"` // Optional, defaults to now
}

// WorkoutProgressResponse is the caller's history for one workout.
type WorkoutProgressResponse struct {
	Records       []domain.ProgressRecord `json:"records"`
	LastCompleted *domain.ProgressRecord  `json:"lastCompleted"`
}

// LogProgress godoc
// @Summary Log a workout submission
// @Description Scores the submitted results against the workout's targets and appends a progress record.
// @Tags Progress
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param progress body LogProgressRequest true "Exercise results"
// @Success 201 {object} domain.ProgressRecord "Stored record with its score"
// @Failure 400 {object} gin.H "Invalid input (negative values)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Workout not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /workouts/{workoutId}/progress [post]
func (h *ProgressHandler) LogProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req LogProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := domain.LogProgressInput{
		UserID:             userID,
		WorkoutID:          c.Param("workoutId"),
		ExerciseProgresses: make([]domain.ExerciseProgress, len(req.ExerciseProgresses)),
	}
	for i, p := range req.ExerciseProgresses {
		input.ExerciseProgresses[i] = domain.ExerciseProgress{
			ExerciseID: p.ExerciseID,
			Value:      p.Value,
			Unit:       p.Unit,
			Notes:      p.Notes,
		}
	}
	if req.CompletedAt != nil {
		input.CompletedAt = req.CompletedAt.UTC()
	}

	record, err := h.progressService.LogProgress(c.Request.Context(), input)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// MyWorkoutProgress returns the caller's records for a workout in the
// order they were logged.
func (h *ProgressHandler) MyWorkoutProgress(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	records, err := h.progressService.QueryByWorkoutAndUser(c.Request.Context(), c.Param("workoutId"), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := WorkoutProgressResponse{Records: records}
	if len(records) > 0 {
		resp.LastCompleted = &records[len(records)-1]
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ProgressHandler) ListProgress(c *gin.Context) {
	records, err := h.progressService.ListProgress(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// MyStats returns the caller's profile statistics.
func (h *ProgressHandler) MyStats(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	stats, err := h.progressService.UserStats(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
