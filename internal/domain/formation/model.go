package formation

import (
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/sport"
)

// Player is one positioned marker inside a formation. The ID is unique
// within its formation only. Position is free text: defaults come from
// the sport's vocabulary but edited rosters may use anything.
type Player struct {
	ID           string
	Name         string
	Position     string
	JerseyNumber int
	X            float64
	Y            float64
}

// Formation is a named arrangement of players for one team. A formation
// with an empty ID is a draft that has never been persisted; the
// repository assigns the real identifier on insert. Sport is copied
// from the owning team at creation time and never changes afterwards.
type Formation struct {
	ID        string
	TeamID    string
	Name      string
	Sport     sport.Type
	Players   []Player
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsDraft reports whether the formation has not been persisted yet.
func (f Formation) IsDraft() bool {
	return f.ID == ""
}

// Clone returns a deep copy so callers can mutate players freely.
func (f Formation) Clone() Formation {
	copied := f
	copied.Players = append([]Player(nil), f.Players...)
	return copied
}
