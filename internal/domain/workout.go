package domain

import (
	"slices"
	"time"
)

// Workout is an ordered set of exercises belonging to exactly one group.
type Workout struct {
	ID          string     `bson:"id" json:"id"`
	Name        string     `bson:"name" json:"name"` // e.g., "Morning HIIT", "Long Run"
	Description string     `bson:"description" json:"description"`
	Exercises   []Exercise `bson:"exercises" json:"exercises"`
	GroupID     string     `bson:"groupId" json:"groupId"` // Never reassigned
	CreatedBy   string     `bson:"createdBy" json:"createdBy"`
	CreatedAt   time.Time  `bson:"createdAt" json:"createdAt"`
}

// Exercise looks up an exercise of the workout by ID.
func (w *Workout) Exercise(id string) (*Exercise, bool) {
	for i := range w.Exercises {
		if w.Exercises[i].ID == id {
			return &w.Exercises[i], true
		}
	}
	return nil, false
}

// Clone returns a copy that shares no slices or target values with w.
func (w Workout) Clone() Workout {
	w.Exercises = slices.Clone(w.Exercises)
	for i := range w.Exercises {
		if t := w.Exercises[i].TargetValue; t != nil {
			v := *t
			w.Exercises[i].TargetValue = &v
		}
	}
	return w
}

// CreateWorkoutInput carries the fields accepted when creating a workout.
type CreateWorkoutInput struct {
	Name        string
	Description string
	Exercises   []ExerciseInput
	GroupID     string
	CreatedBy   string
}
