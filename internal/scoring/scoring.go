// Package scoring turns a workout submission into a single numeric score.
package scoring

import (
	"math"

	"alcyxob/group-fitness/internal/domain"
)

// MaxContribution caps what a single exercise can add to a score, so
// overperforming pays off up to 1.5x the target.
const MaxContribution = 150.0

// Contribution returns the points one result earns against its exercise:
// the percentage of the target reached, capped at MaxContribution.
// Exercises without a positive target earn nothing. Negative values are
// not rejected here and yield negative contributions.
func Contribution(value float64, exercise *domain.Exercise) float64 {
	if exercise == nil || !exercise.HasTarget() {
		return 0
	}
	percentage := (value / *exercise.TargetValue) * 100
	return math.Min(percentage, MaxContribution)
}

// Score sums the contributions of all results that match an exercise of
// the workout and rounds half up to an integer.
func Score(progresses []domain.ExerciseProgress, exercises []domain.Exercise) int {
	byID := make(map[string]*domain.Exercise, len(exercises))
	for i := range exercises {
		byID[exercises[i].ID] = &exercises[i]
	}

	var sum float64
	for _, p := range progresses {
		sum += Contribution(p.Value, byID[p.ExerciseID])
	}
	return int(math.Floor(sum + 0.5))
}
