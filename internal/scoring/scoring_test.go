package scoring

import (
	"testing"

	"alcyxob/group-fitness/internal/domain"

	"github.com/stretchr/testify/assert"
)

func target(v float64) *float64 {
	return &v
}

func TestContribution(t *testing.T) {
	ex := &domain.Exercise{ID: "e1", TargetValue: target(10)}

	assert.Equal(t, 150.0, Contribution(15, ex))
	assert.Equal(t, 50.0, Contribution(5, ex))
	assert.Equal(t, 100.0, Contribution(10, ex))
	assert.Equal(t, 150.0, Contribution(1000, ex))
	assert.Equal(t, 0.0, Contribution(0, ex))
	assert.Equal(t, -20.0, Contribution(-2, ex))

	assert.Equal(t, 0.0, Contribution(5, nil))
	assert.Equal(t, 0.0, Contribution(5, &domain.Exercise{ID: "e2"}))
	assert.Equal(t, 0.0, Contribution(5, &domain.Exercise{ID: "e3", TargetValue: target(0)}))
}

func TestContribution_MatchesFormula(t *testing.T) {
	pairs := []struct{ value, target float64 }{
		{1, 3}, {7, 9}, {12.5, 10}, {3, 2}, {0.1, 0.3}, {99, 100},
	}
	for _, p := range pairs {
		ex := &domain.Exercise{ID: "e", TargetValue: target(p.target)}
		want := p.value / p.target * 100
		if want > 150 {
			want = 150
		}
		assert.Equal(t, want, Contribution(p.value, ex), "value=%v target=%v", p.value, p.target)
	}
}

func TestScore(t *testing.T) {
	exercises := []domain.Exercise{
		{ID: "e1", Name: "Push-ups", Type: domain.ExerciseReps, TargetValue: target(10)},
		{ID: "e2", Name: "Plank", Type: domain.ExerciseTime, TargetValue: target(60)},
		{ID: "e3", Name: "Stretch", Type: domain.ExerciseTime},
		{ID: "e4", Name: "Row", Type: domain.ExerciseDistance, TargetValue: target(8), Unit: "km"},
	}

	tests := []struct {
		name       string
		progresses []domain.ExerciseProgress
		want       int
	}{
		{name: "empty", progresses: nil, want: 0},
		{name: "capped", progresses: []domain.ExerciseProgress{{ExerciseID: "e1", Value: 15}}, want: 150},
		{name: "half", progresses: []domain.ExerciseProgress{{ExerciseID: "e1", Value: 5}}, want: 50},
		{
			name: "sum of exercises",
			progresses: []domain.ExerciseProgress{
				{ExerciseID: "e1", Value: 10},
				{ExerciseID: "e2", Value: 30},
			},
			want: 150,
		},
		{
			name: "unknown and untargeted contribute nothing",
			progresses: []domain.ExerciseProgress{
				{ExerciseID: "nope", Value: 100},
				{ExerciseID: "e3", Value: 100},
			},
			want: 0,
		},
		{
			// 1/60*100 = 1.666..., rounds to 2
			name:       "rounds to nearest",
			progresses: []domain.ExerciseProgress{{ExerciseID: "e2", Value: 1}},
			want:       2,
		},
		{
			// 1/8*100 = 12.5
			name:       "half rounds up",
			progresses: []domain.ExerciseProgress{{ExerciseID: "e4", Value: 1}},
			want:       13,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.progresses, exercises))
		})
	}
}

func TestScore_NoExercises(t *testing.T) {
	assert.Equal(t, 0, Score(nil, nil))
	assert.Equal(t, 0, Score([]domain.ExerciseProgress{{ExerciseID: "e1", Value: 3}}, nil))
}
