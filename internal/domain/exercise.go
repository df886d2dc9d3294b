package domain

// ExerciseType describes how an exercise result is measured.
type ExerciseType string

const (
	ExerciseReps     ExerciseType = "reps"
	ExerciseTime     ExerciseType = "time"
	ExerciseDistance ExerciseType = "distance"
	ExerciseWeight   ExerciseType = "weight"
)

// DefaultUnit is used when neither the exercise nor the submitted result
// names a unit.
const DefaultUnit = "reps"

// Valid reports whether t is one of the known exercise types.
func (t ExerciseType) Valid() bool {
	switch t {
	case ExerciseReps, ExerciseTime, ExerciseDistance, ExerciseWeight:
		return true
	}
	return false
}

// Exercise is a single entry of a workout. It is embedded in its workout
// and has no identity outside of it.
type Exercise struct {
	ID          string       `bson:"id" json:"id"`
	Name        string       `bson:"name" json:"name"`
	Type        ExerciseType `bson:"type" json:"type"`
	TargetValue *float64     `bson:"targetValue,omitempty" json:"targetValue,omitempty"` // nil when the exercise has no target
	Unit        string       `bson:"unit,omitempty" json:"unit,omitempty"`
	Description string       `bson:"description,omitempty" json:"description,omitempty"`
}

// HasTarget reports whether the exercise defines a positive target value.
func (e *Exercise) HasTarget() bool {
	return e.TargetValue != nil && *e.TargetValue > 0
}

// ExerciseInput is the typed form of an exercise submitted with a new
// workout. ID is optional and generated when empty.
type ExerciseInput struct {
	ID          string
	Name        string
	Type        ExerciseType
	TargetValue *float64
	Unit        string
	Description string
}
