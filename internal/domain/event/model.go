package event

import "time"

// Type categorizes a calendar entry.
type Type string

const (
	TypeTraining     Type = "training"
	TypeFriendly     Type = "friendly"
	TypeChampionship Type = "championship"
	TypeMeeting      Type = "meeting"
)

// ValidType reports whether t is one of the known event types.
func ValidType(t Type) bool {
	switch t {
	case TypeTraining, TypeFriendly, TypeChampionship, TypeMeeting:
		return true
	default:
		return false
	}
}

// Event is one entry in a team's calendar.
type Event struct {
	ID          string
	TeamID      string
	Title       string
	Description string
	Type        Type
	StartAt     time.Time
	EndAt       time.Time
	Location    string
	CreatedBy   string
	CreatedAt   time.Time
}
