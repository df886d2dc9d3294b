package domain

import (
	"slices"
	"time"
)

// WorkoutGroup is a community of users sharing workouts and a leaderboard.
// The creator is always a member; members and workout IDs only grow.
type WorkoutGroup struct {
	ID          string    `bson:"id" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description" json:"description"`
	CreatedBy   string    `bson:"createdBy" json:"createdBy"`
	Members     []string  `bson:"members" json:"members"`
	WorkoutIDs  []string  `bson:"workouts" json:"workouts"` // Weak references into the workouts collection
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	IsPublic    bool      `bson:"isPublic" json:"isPublic"`
}

// HasMember reports whether userID belongs to the group.
func (g *WorkoutGroup) HasMember(userID string) bool {
	return slices.Contains(g.Members, userID)
}

// HasWorkout reports whether workoutID is linked from the group.
func (g *WorkoutGroup) HasWorkout(workoutID string) bool {
	return slices.Contains(g.WorkoutIDs, workoutID)
}

// Clone returns a copy that shares no slices with g.
func (g WorkoutGroup) Clone() WorkoutGroup {
	g.Members = slices.Clone(g.Members)
	g.WorkoutIDs = slices.Clone(g.WorkoutIDs)
	if g.Members == nil {
		g.Members = []string{}
	}
	if g.WorkoutIDs == nil {
		g.WorkoutIDs = []string{}
	}
	return g
}

// CreateGroupInput carries the fields accepted when creating a group.
type CreateGroupInput struct {
	Name        string
	Description string
	CreatorID   string
}
