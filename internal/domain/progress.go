package domain

import (
	"slices"
	"time"
)

// ExerciseProgress is the result a user logged for one exercise.
type ExerciseProgress struct {
	ExerciseID string  `bson:"exerciseId" json:"exerciseId"`
	Value      float64 `bson:"value" json:"value"`
	Unit       string  `bson:"unit" json:"unit"`
	Notes      string  `bson:"notes,omitempty" json:"notes,omitempty"`
}

// ProgressRecord is one submission of a workout by a user. Records are
// append-only; the latest record for a (user, workout) pair is the last
// completed attempt.
type ProgressRecord struct {
	ID                 string             `bson:"id" json:"id"`
	UserID             string             `bson:"userId" json:"userId"`
	WorkoutID          string             `bson:"workoutId" json:"workoutId"`
	ExerciseProgresses []ExerciseProgress `bson:"exerciseProgresses" json:"exerciseProgresses"`
	CompletedAt        time.Time          `bson:"completedAt" json:"completedAt"`
	TotalScore         int                `bson:"totalScore" json:"totalScore"`
}

// Clone returns a copy that shares no slices with r.
func (r ProgressRecord) Clone() ProgressRecord {
	r.ExerciseProgresses = slices.Clone(r.ExerciseProgresses)
	return r
}

// LogProgressInput is a user's submission for a workout before scoring.
type LogProgressInput struct {
	UserID             string
	WorkoutID          string
	ExerciseProgresses []ExerciseProgress
	CompletedAt        time.Time // Zero means now
}

// LeaderboardEntry is a derived standing of one user within a group.
// It is recomputed on every query and never stored.
type LeaderboardEntry struct {
	UserID            string `json:"userId"`
	UserName          string `json:"userName"`
	Avatar            string `json:"avatar,omitempty"`
	TotalScore        int    `json:"totalScore"`
	CompletedWorkouts int    `json:"completedWorkouts"`
	Rank              int    `json:"rank"`
}

// UserStats summarizes a user's activity for the profile view.
type UserStats struct {
	UserID         string           `json:"userId"`
	GroupsJoined   int              `json:"groupsJoined"`
	WorkoutsLogged int              `json:"workoutsLogged"`
	TotalScore     int              `json:"totalScore"`
	RecentActivity []ProgressRecord `json:"recentActivity"` // Newest first
}
