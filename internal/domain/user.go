package domain

import (
	"time"
)

// User represents a member of the app. Users are created on first
// registration or login and are not modified afterwards.
type User struct {
	ID        string    `bson:"id" json:"id"`
	Email     string    `bson:"email" json:"email"` // Should be unique
	Name      string    `bson:"name" json:"name"`
	Avatar    string    `bson:"avatar,omitempty" json:"avatar,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`

	// Persisted with the users collection; API responses go through a DTO
	// that drops it.
	PasswordHash string `bson:"passwordHash,omitempty" json:"passwordHash,omitempty"`
}

// DisplayName returns the user's name, or a short label derived from the ID
// when no name is known.
func (u *User) DisplayName() string {
	if u != nil && u.Name != "" {
		return u.Name
	}
	if u == nil {
		return ""
	}
	return FallbackUserName(u.ID)
}

// FallbackUserName builds the "User 1234" label shown for users without a
// stored profile.
func FallbackUserName(userID string) string {
	suffix := userID
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return "User " + suffix
}
