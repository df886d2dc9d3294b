package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/events"
	"alcyxob/group-fitness/internal/repository/memory"
	"alcyxob/group-fitness/internal/store"

	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2024, 3, 1, 7, 0, 0, 0, time.UTC)

type testEnv struct {
	backend     *memory.Backend
	store       *store.Store
	events      *events.Recorder
	groups      GroupService
	workouts    WorkoutService
	progress    ProgressService
	leaderboard LeaderboardService

	now time.Time
	ids int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	backend := memory.New()
	s, err := store.Open(context.Background(), backend)
	require.NoError(t, err)

	env := &testEnv{backend: backend, store: s, events: &events.Recorder{}, now: testEpoch}
	deps := env.deps()
	env.groups = NewGroupService(s, deps)
	env.workouts = NewWorkoutService(s, deps)
	env.progress = NewProgressService(s, deps)
	env.leaderboard = NewLeaderboardService(s, env.progress)
	return env
}

// deps hands out sequential IDs and a clock advancing one minute per call.
func (e *testEnv) deps() Deps {
	return Deps{
		Events: e.events,
		Now: func() time.Time {
			e.now = e.now.Add(time.Minute)
			return e.now
		},
		NewID: func() string {
			e.ids++
			return fmt.Sprintf("id-%04d", e.ids)
		},
	}
}

func (e *testEnv) createGroup(t *testing.T, creator string) *domain.WorkoutGroup {
	t.Helper()
	g, err := e.groups.CreateGroup(context.Background(), domain.CreateGroupInput{
		Name:        "Group of " + creator,
		Description: "training together",
		CreatorID:   creator,
	})
	require.NoError(t, err)
	return g
}

func target(v float64) *float64 { return &v }

// createWorkout adds a workout with a single exercise "e1" targeting 10 reps.
func (e *testEnv) createWorkout(t *testing.T, groupID string) *domain.Workout {
	t.Helper()
	w, err := e.workouts.CreateWorkout(context.Background(), domain.CreateWorkoutInput{
		Name:        "Push day",
		Description: "upper body",
		GroupID:     groupID,
		CreatedBy:   "u1",
		Exercises: []domain.ExerciseInput{
			{ID: "e1", Name: "Push-ups", Type: domain.ExerciseReps, TargetValue: target(10)},
		},
	})
	require.NoError(t, err)
	return w
}

// logReps submits value reps of exercise "e1" and returns the stored record.
func (e *testEnv) logReps(t *testing.T, userID, workoutID string, value float64) *domain.ProgressRecord {
	t.Helper()
	r, err := e.progress.LogProgress(context.Background(), domain.LogProgressInput{
		UserID:             userID,
		WorkoutID:          workoutID,
		ExerciseProgresses: []domain.ExerciseProgress{{ExerciseID: "e1", Value: value}},
	})
	require.NoError(t, err)
	return r
}
