package team

import (
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/sport"
)

// Role is a member's function inside a team.
type Role string

const (
	RoleCoach   Role = "coach"
	RoleCaptain Role = "captain"
	RoleAthlete Role = "athlete"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleCoach, RoleCaptain, RoleAthlete:
		return true
	default:
		return false
	}
}

// Team is a roster of people playing one sport together. The sport is
// fixed at creation; formations and default rosters derive from it.
type Team struct {
	ID        string
	Name      string
	Sport     sport.Type
	AvatarURL string
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member links a user to a team with an optional on-court assignment.
type Member struct {
	ID           string
	TeamID       string
	UserID       string
	Role         Role
	Position     string
	JerseyNumber int
	JoinedAt     time.Time
}
