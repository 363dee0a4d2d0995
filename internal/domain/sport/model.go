package sport

// Type identifies one of the supported sports.
type Type string

const (
	TypeVolleyball Type = "volleyball"
	TypeBasketball Type = "basketball"
	TypeHandball   Type = "handball"
	TypeFutsal     Type = "futsal"
	TypeFootball   Type = "football"
)

// CourtSize is the drawable board area for a sport, in board units.
type CourtSize struct {
	Width  int
	Height int
}

// Profile is the static configuration of one sport: how many players
// are on court, the position vocabulary used when generating default
// rosters, and the court dimensions markers are clamped against.
type Profile struct {
	ID           Type
	Name         string
	PlayersCount int
	Positions    []string
	Court        CourtSize
}
