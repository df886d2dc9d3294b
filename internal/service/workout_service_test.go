package service

import (
	"context"
	"errors"
	"testing"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/events"
	"alcyxob/group-fitness/internal/repository"
	"alcyxob/group-fitness/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateWorkout_LinksGroup(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.createGroup(t, "u1")

	w, err := env.workouts.CreateWorkout(ctx, domain.CreateWorkoutInput{
		Name:        " Leg day ",
		Description: "squats and lunges",
		GroupID:     g.ID,
		CreatedBy:   "u1",
		Exercises: []domain.ExerciseInput{
			{Name: "Squats", TargetValue: target(20)},
			{Name: "Plank", Type: domain.ExerciseTime, TargetValue: target(60), Unit: "seconds"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Leg day", w.Name)
	assert.Equal(t, g.ID, w.GroupID)
	require.Len(t, w.Exercises, 2)
	assert.NotEmpty(t, w.Exercises[0].ID)
	assert.Equal(t, domain.ExerciseReps, w.Exercises[0].Type)
	assert.Equal(t, domain.DefaultUnit, w.Exercises[0].Unit)
	assert.Equal(t, "seconds", w.Exercises[1].Unit)

	stored, err := env.groups.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{w.ID}, stored.WorkoutIDs)

	inGroup, err := env.workouts.ListGroupWorkouts(ctx, g.ID)
	require.NoError(t, err)
	require.Len(t, inGroup, 1)
	assert.Equal(t, w.ID, inGroup[0].ID)

	got, err := env.workouts.GetWorkout(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w, got)
	assert.Equal(t, []string{events.GroupCreated, events.WorkoutCreated}, env.events.Types())
}

func TestCreateWorkout_Validation(t *testing.T) {
	env := newTestEnv(t)
	g := env.createGroup(t, "u1")
	valid := []domain.ExerciseInput{{Name: "Burpees"}}

	tests := []struct {
		name  string
		input domain.CreateWorkoutInput
		field string
	}{
		{"no exercises", domain.CreateWorkoutInput{Name: "w", Description: "d", GroupID: g.ID}, "exercises"},
		{"blank exercise name", domain.CreateWorkoutInput{Name: "w", Description: "d", GroupID: g.ID,
			Exercises: []domain.ExerciseInput{{Name: "ok"}, {Name: "  "}}}, "exercises[1].name"},
		{"blank name", domain.CreateWorkoutInput{Name: "", Description: "d", GroupID: g.ID, Exercises: valid}, "name"},
		{"blank description", domain.CreateWorkoutInput{Name: "w", Description: " ", GroupID: g.ID, Exercises: valid}, "description"},
		{"unknown type", domain.CreateWorkoutInput{Name: "w", Description: "d", GroupID: g.ID,
			Exercises: []domain.ExerciseInput{{Name: "Swim", Type: "laps"}}}, "exercises[0].type"},
		{"negative target", domain.CreateWorkoutInput{Name: "w", Description: "d", GroupID: g.ID,
			Exercises: []domain.ExerciseInput{{Name: "Run", TargetValue: target(-1)}}}, "exercises[0].targetValue"},
		{"duplicate exercise id", domain.CreateWorkoutInput{Name: "w", Description: "d", GroupID: g.ID,
			Exercises: []domain.ExerciseInput{{ID: "x", Name: "a"}, {ID: "x", Name: "b"}}}, "exercises[1].id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.workouts.CreateWorkout(context.Background(), tt.input)
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.ErrorIs(t, err, ErrValidationFailed)
		})
	}

	assert.Empty(t, env.store.Workouts())
}

func TestCreateWorkout_UnknownGroup(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.workouts.CreateWorkout(context.Background(), domain.CreateWorkoutInput{
		Name: "w", Description: "d", GroupID: "missing",
		Exercises: []domain.ExerciseInput{{Name: "Burpees"}},
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
	assert.Empty(t, env.store.Workouts())
}

func TestCreateWorkout_StorageFailureSavesNothing(t *testing.T) {
	env := newTestEnv(t)
	g := env.createGroup(t, "u1")
	env.backend.FailSave = func(collection string) error {
		if collection == repository.CollectionGroups {
			return errors.New("groups unavailable")
		}
		return nil
	}

	_, err := env.workouts.CreateWorkout(context.Background(), domain.CreateWorkoutInput{
		Name: "w", Description: "d", GroupID: g.ID,
		Exercises: []domain.ExerciseInput{{Name: "Burpees"}},
	})
	require.ErrorIs(t, err, repository.ErrStorage)

	assert.Empty(t, env.store.Workouts())
	data, err := env.backend.Load(context.Background(), repository.CollectionWorkouts)
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestReconcile_RepairsMissingLinkOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.createGroup(t, "u1")
	w := env.createWorkout(t, g.ID)

	// Simulate an interrupted commit that saved the workout only.
	require.NoError(t, env.store.Update(ctx, func(tx *store.Tx) error {
		group, _ := tx.Group(g.ID)
		group.WorkoutIDs = group.WorkoutIDs[:0]
		tx.MarkGroupsDirty()
		tx.AddWorkout(domain.Workout{ID: "orphan", GroupID: "no-such-group"})
		return nil
	}))

	repaired, err := env.workouts.Reconcile(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, repaired)

	stored, err := env.groups.GetGroup(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{w.ID}, stored.WorkoutIDs)

	repaired, err = env.workouts.Reconcile(ctx)
	require.NoError(t, err)
	assert.Zero(t, repaired)
}
