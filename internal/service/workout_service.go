package service

import (
	"context"
	"fmt"
	"strings"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/events"
	"alcyxob/group-fitness/internal/store"

	log "github.com/sirupsen/logrus"
)

// WorkoutService manages workouts and their link to the owning group.
type WorkoutService interface {
	// CreateWorkout stores a workout and appends its ID to the group in a
	// single update: either both are saved or neither is.
	CreateWorkout(ctx context.Context, input domain.CreateWorkoutInput) (*domain.Workout, error)
	GetWorkout(ctx context.Context, workoutID string) (*domain.Workout, error)
	ListWorkouts(ctx context.Context) ([]domain.Workout, error)
	ListGroupWorkouts(ctx context.Context, groupID string) ([]domain.Workout, error)
	// Reconcile links every workout missing from its group's workout IDs
	// and returns the number of links added.
	Reconcile(ctx context.Context) (int, error)
}

type workoutService struct {
	store *store.Store
	deps  Deps
}

// NewWorkoutService creates a new workout service.
func NewWorkoutService(s *store.Store, deps Deps) WorkoutService {
	return &workoutService{store: s, deps: deps.withDefaults()}
}

func (s *workoutService) CreateWorkout(ctx context.Context, input domain.CreateWorkoutInput) (*domain.Workout, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" {
		return nil, invalid("name", "cannot be empty")
	}
	if description == "" {
		return nil, invalid("description", "cannot be empty")
	}
	if len(input.Exercises) == 0 {
		return nil, invalid("exercises", "at least one exercise is required")
	}
	exercises, err := s.buildExercises(input.Exercises)
	if err != nil {
		return nil, err
	}

	workout := domain.Workout{
		ID:          s.deps.NewID(),
		Name:        name,
		Description: description,
		Exercises:   exercises,
		GroupID:     input.GroupID,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   s.deps.Now(),
	}
	err = s.store.Update(ctx, func(tx *store.Tx) error {
		group, ok := tx.Group(input.GroupID)
		if !ok {
			return groupNotFound(input.GroupID)
		}
		tx.AddWorkout(workout)
		group.WorkoutIDs = append(group.WorkoutIDs, workout.ID)
		tx.MarkGroupsDirty()
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Infof("workout %s created in group %s", workout.ID, workout.GroupID)
	s.deps.publish(ctx, events.Event{
		Type:      events.WorkoutCreated,
		GroupID:   workout.GroupID,
		WorkoutID: workout.ID,
		UserID:    workout.CreatedBy,
	})
	return &workout, nil
}

func (s *workoutService) buildExercises(inputs []domain.ExerciseInput) ([]domain.Exercise, error) {
	exercises := make([]domain.Exercise, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		field := fmt.Sprintf("exercises[%d]", i)
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, invalid(field+".name", "cannot be empty")
		}
		exerciseType := in.Type
		if exerciseType == "" {
			exerciseType = domain.ExerciseReps
		}
		if !exerciseType.Valid() {
			return nil, invalid(field+".type", fmt.Sprintf("unknown exercise type %q", in.Type))
		}
		if in.TargetValue != nil && *in.TargetValue < 0 {
			return nil, invalid(field+".targetValue", "cannot be negative")
		}
		id := in.ID
		if id == "" {
			id = s.deps.NewID()
		}
		if seen[id] {
			return nil, invalid(field+".id", "duplicate exercise id")
		}
		seen[id] = true

		unit := strings.TrimSpace(in.Unit)
		if unit == "" {
			unit = domain.DefaultUnit
		}
		exercises = append(exercises, domain.Exercise{
			ID:          id,
			Name:        name,
			Type:        exerciseType,
			TargetValue: in.TargetValue,
			Unit:        unit,
			Description: strings.TrimSpace(in.Description),
		})
	}
	return exercises, nil
}

func (s *workoutService) GetWorkout(_ context.Context, workoutID string) (*domain.Workout, error) {
	for _, w := range s.store.Workouts() {
		if w.ID == workoutID {
			return &w, nil
		}
	}
	return nil, workoutNotFound(workoutID)
}

func (s *workoutService) ListWorkouts(_ context.Context) ([]domain.Workout, error) {
	return s.store.Workouts(), nil
}

func (s *workoutService) ListGroupWorkouts(_ context.Context, groupID string) ([]domain.Workout, error) {
	out := []domain.Workout{}
	for _, w := range s.store.Workouts() {
		if w.GroupID == groupID {
			out = append(out, w)
		}
	}
	return out, nil
}

func (s *workoutService) Reconcile(ctx context.Context) (int, error) {
	repaired := 0
	err := s.store.Update(ctx, func(tx *store.Tx) error {
		for _, w := range tx.Workouts() {
			group, ok := tx.Group(w.GroupID)
			if !ok {
				log.Warnf("workout %s references missing group %s", w.ID, w.GroupID)
				continue
			}
			if group.HasWorkout(w.ID) {
				continue
			}
			group.WorkoutIDs = append(group.WorkoutIDs, w.ID)
			repaired++
		}
		if repaired > 0 {
			tx.MarkGroupsDirty()
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if repaired > 0 {
		log.Infof("reconcile linked %d workouts to their groups", repaired)
	}
	return repaired, nil
}
