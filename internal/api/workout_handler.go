package api

import (
	"net/http"
	"time"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/service"

	"github.com/gin-gonic/gin"
)

type WorkoutHandler struct {
	workoutService  service.WorkoutService
	progressService service.ProgressService
}

func NewWorkoutHandler(workoutService service.WorkoutService, progressService service.ProgressService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService, progressService: progressService}
}

// --- DTOs for Workouts ---

type ExerciseRequest struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Type        domain.ExerciseType `json:"type"`
	TargetValue *float64            `json:"targetValue"`
	Unit        string              `json:"unit"`
	Description string              `json:"description"`
}

type CreateWorkoutRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Exercises   []ExerciseRequest `json:"exercises"`
}

type WorkoutResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Exercises   []domain.Exercise `json:"exercises"`
	GroupID     string            `json:"groupId"`
	CreatedBy   string            `json:"createdBy"`
	CreatedAt   time.Time         `json:"createdAt"`
	Completions *int              `json:"completions,omitempty"` // Only on single-workout responses
}

func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	exercises := w.Exercises
	if exercises == nil {
		exercises = []domain.Exercise{}
	}
	return WorkoutResponse{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Exercises:   exercises,
		GroupID:     w.GroupID,
		CreatedBy:   w.CreatedBy,
		CreatedAt:   w.CreatedAt,
	}
}

func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	resp := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		resp[i] = MapWorkoutToResponse(&workouts[i])
	}
	return resp
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Create a workout in a group
// @Description Stores the workout and links it from the group.
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param groupId path string true "Group ID"
// @Param workoutRequest body CreateWorkoutRequest true "Workout details"
// @Success 201 {object} WorkoutResponse "Workout created successfully"
// @Failure 400 {object} gin.H "Invalid input (no exercises, empty names)"
// @Failure 401 {object} gin.H "Unauthorized"
// @Failure 404 {object} gin.H "Group not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /groups/{groupId}/workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	exercises := make([]domain.ExerciseInput, len(req.Exercises))
	for i, ex := range req.Exercises {
		exercises[i] = domain.ExerciseInput{
			ID:          ex.ID,
			Name:        ex.Name,
			Type:        ex.Type,
			TargetValue: ex.TargetValue,
			Unit:        ex.Unit,
			Description: ex.Description,
		}
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), domain.CreateWorkoutInput{
		Name:        req.Name,
		Description: req.Description,
		Exercises:   exercises,
		GroupID:     c.Param("groupId"),
		CreatedBy:   userID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapWorkoutToResponse(workout))
}

func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListWorkouts(c.Request.Context())
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// GroupWorkouts lists the workouts of one group.
func (h *WorkoutHandler) GroupWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListGroupWorkouts(c.Request.Context(), c.Param("groupId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// GetWorkout returns a workout with the number of submissions logged for it.
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	ctx := c.Request.Context()
	workout, err := h.workoutService.GetWorkout(ctx, c.Param("workoutId"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	completions, err := h.progressService.CompletionCount(ctx, workout.ID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	resp := MapWorkoutToResponse(workout)
	resp.Completions = &completions
	c.JSON(http.StatusOK, resp)
}
