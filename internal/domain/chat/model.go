package chat

import "time"

// Type tags what a chat room is for.
type Type string

const (
	TypeGeneral  Type = "general"
	TypeStrategy Type = "strategy"
	TypeTraining Type = "training"
)

// ValidType reports whether t is one of the known chat types.
func ValidType(t Type) bool {
	switch t {
	case TypeGeneral, TypeStrategy, TypeTraining:
		return true
	default:
		return false
	}
}

// Chat is a message room scoped to one team.
type Chat struct {
	ID        string
	TeamID    string
	Name      string
	Type      Type
	CreatedAt time.Time
}

// Message is one entry in a chat. AuthorName is denormalized at read
// time so clients can render without a second lookup.
type Message struct {
	ID         string
	ChatID     string
	UserID     string
	AuthorName string
	Content    string
	CreatedAt  time.Time
}
