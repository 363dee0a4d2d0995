package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"

	"github.com/courtside-app/courtside-api/internal/domain/formation"
)

type formationTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	TeamID    string     `db:"team_public_id"`
	Name      string     `db:"name"`
	Sport     string     `db:"sport"`
	Players   []byte     `db:"players"`
	CreatedBy string     `db:"created_by"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type formationInsertModel struct {
	PublicID  string    `db:"public_id"`
	TeamID    string    `db:"team_public_id"`
	Name      string    `db:"name"`
	Sport     string    `db:"sport"`
	Players   []byte    `db:"players"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// playerDocument is the JSONB shape of one marker inside the players
// column.
type playerDocument struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Position     string  `json:"position"`
	JerseyNumber int     `json:"jersey_number"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
}

func encodePlayers(players []formation.Player) ([]byte, error) {
	docs := make([]playerDocument, 0, len(players))
	for _, p := range players {
		docs = append(docs, playerDocument(p))
	}

	raw, err := sonic.Marshal(docs)
	if err != nil {
		return nil, fmt.Errorf("encode players: %w", err)
	}
	return raw, nil
}

func decodePlayers(raw []byte) ([]formation.Player, error) {
	if len(raw) == 0 {
		return []formation.Player{}, nil
	}

	var docs []playerDocument
	if err := sonic.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}

	players := make([]formation.Player, 0, len(docs))
	for _, d := range docs {
		players = append(players, formation.Player(d))
	}
	return players, nil
}
