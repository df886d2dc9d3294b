package service

import (
	"context"
	"testing"
	"time"

	"alcyxob/group-fitness/internal/domain"
	"alcyxob/group-fitness/internal/events"
	"alcyxob/group-fitness/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_QueryRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.progress.Append(ctx, domain.ProgressRecord{UserID: "u1", WorkoutID: "w1", TotalScore: 10})
	require.NoError(t, err)
	_, err = env.progress.Append(ctx, domain.ProgressRecord{UserID: "u2", WorkoutID: "w1", TotalScore: 20})
	require.NoError(t, err)
	appended, err := env.progress.Append(ctx, domain.ProgressRecord{
		UserID:             "u1",
		WorkoutID:          "w1",
		ExerciseProgresses: []domain.ExerciseProgress{{ExerciseID: "e1", Value: 12, Unit: "reps"}},
		TotalScore:         120,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, appended.ID)
	assert.False(t, appended.CompletedAt.IsZero())

	records, err := env.progress.QueryByWorkoutAndUser(ctx, "w1", "u1")
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, *appended, records[len(records)-1])
	assert.Equal(t, 10, records[0].TotalScore)

	last, ok, err := env.progress.LastCompleted(ctx, "w1", "u1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, appended.ID, last.ID)
}

func TestAppend_KeepsGivenIDAndTime(t *testing.T) {
	env := newTestEnv(t)
	at := time.Date(2023, 12, 31, 23, 0, 0, 0, time.UTC)

	r, err := env.progress.Append(context.Background(), domain.ProgressRecord{ID: "p-1", UserID: "u1", WorkoutID: "w1", CompletedAt: at})
	require.NoError(t, err)
	assert.Equal(t, "p-1", r.ID)
	assert.Equal(t, at, r.CompletedAt)
	assert.NotNil(t, r.ExerciseProgresses)
}

func TestQueries_Empty(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	records, err := env.progress.QueryByWorkoutAndUser(ctx, "w1", "u1")
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	_, ok, err := env.progress.LastCompleted(ctx, "w1", "u1")
	require.NoError(t, err)
	assert.False(t, ok)

	byIDs, err := env.progress.QueryByWorkoutIDs(ctx, map[string]struct{}{"w1": {}})
	require.NoError(t, err)
	assert.Empty(t, byIDs)
}

func TestQueryByWorkoutIDs_InsertionOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	for _, wid := range []string{"w1", "w2", "w3", "w1", "w2"} {
		_, err := env.progress.Append(ctx, domain.ProgressRecord{UserID: "u1", WorkoutID: wid})
		require.NoError(t, err)
	}

	records, err := env.progress.QueryByWorkoutIDs(ctx, map[string]struct{}{"w1": {}, "w2": {}})
	require.NoError(t, err)
	got := make([]string, len(records))
	for i, r := range records {
		got[i] = r.WorkoutID
	}
	assert.Equal(t, []string{"w1", "w2", "w1", "w2"}, got)

	count, err := env.progress.CompletionCount(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestLogProgress_ScoresAndFillsUnits(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.createGroup(t, "u1")
	w, err := env.workouts.CreateWorkout(ctx, domain.CreateWorkoutInput{
		Name: "Mixed", Description: "d", GroupID: g.ID, CreatedBy: "u1",
		Exercises: []domain.ExerciseInput{
			{ID: "e1", Name: "Push-ups", TargetValue: target(10)},
			{ID: "e2", Name: "Run", Type: domain.ExerciseDistance, TargetValue: target(5), Unit: "km"},
			{ID: "e3", Name: "Stretch"},
		},
	})
	require.NoError(t, err)

	r, err := env.progress.LogProgress(ctx, domain.LogProgressInput{
		UserID:    "u2",
		WorkoutID: w.ID,
		ExerciseProgresses: []domain.ExerciseProgress{
			{ExerciseID: "e1", Value: 15},              // capped at 150
			{ExerciseID: "e2", Value: 2.5},             // 50
			{ExerciseID: "e3", Value: 9, Unit: "mins"}, // no target
			{ExerciseID: "unknown", Value: 100},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 200, r.TotalScore)
	assert.Equal(t, "reps", r.ExerciseProgresses[0].Unit)
	assert.Equal(t, "km", r.ExerciseProgresses[1].Unit)
	assert.Equal(t, "mins", r.ExerciseProgresses[2].Unit)
	assert.Equal(t, "reps", r.ExerciseProgresses[3].Unit)

	require.NotEmpty(t, env.events.Events)
	last := env.events.Events[len(env.events.Events)-1]
	assert.Equal(t, events.ProgressLogged, last.Type)
	assert.Equal(t, g.ID, last.GroupID)
	assert.Equal(t, r.ID, last.ProgressID)
	assert.Equal(t, 200, last.Score)
}

func TestLogProgress_Rejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	w := env.createWorkout(t, env.createGroup(t, "u1").ID)

	_, err := env.progress.LogProgress(ctx, domain.LogProgressInput{UserID: "u1", WorkoutID: "missing"})
	require.ErrorIs(t, err, repository.ErrNotFound)

	_, err = env.progress.LogProgress(ctx, domain.LogProgressInput{
		UserID:             "u1",
		WorkoutID:          w.ID,
		ExerciseProgresses: []domain.ExerciseProgress{{ExerciseID: "e1", Value: -3}},
	})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "exerciseProgresses[0].value", verr.Field)

	_, err = env.progress.LogProgress(ctx, domain.LogProgressInput{WorkoutID: w.ID})
	require.ErrorIs(t, err, ErrValidationFailed)

	assert.Empty(t, env.store.Progress())
}

func TestUserStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	g := env.createGroup(t, "u1")
	env.createGroup(t, "u2")
	w := env.createWorkout(t, g.ID)

	var ids []string
	for i := 1; i <= 7; i++ {
		ids = append(ids, env.logReps(t, "u1", w.ID, float64(i)).ID)
	}
	env.logReps(t, "u2", w.ID, 10)

	stats, err := env.progress.UserStats(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.GroupsJoined)
	assert.Equal(t, 7, stats.WorkoutsLogged)
	assert.Equal(t, 10+20+30+40+50+60+70, stats.TotalScore)
	require.Len(t, stats.RecentActivity, 5)
	assert.Equal(t, ids[6], stats.RecentActivity[0].ID)
	assert.Equal(t, ids[2], stats.RecentActivity[4].ID)

	// A back-dated submission is still the most recent activity.
	backdated, err := env.progress.LogProgress(ctx, domain.LogProgressInput{
		UserID:             "u1",
		WorkoutID:          w.ID,
		ExerciseProgresses: []domain.ExerciseProgress{{ExerciseID: "e1", Value: 1}},
		CompletedAt:        testEpoch.Add(-48 * time.Hour),
	})
	require.NoError(t, err)
	stats, err = env.progress.UserStats(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, stats.RecentActivity, 5)
	assert.Equal(t, backdated.ID, stats.RecentActivity[0].ID)
	assert.Equal(t, ids[6], stats.RecentActivity[1].ID)

	empty, err := env.progress.UserStats(ctx, "nobody")
	require.NoError(t, err)
	assert.Zero(t, empty.WorkoutsLogged)
	assert.NotNil(t, empty.RecentActivity)
}
