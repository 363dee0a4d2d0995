package postgres

import "time"

type teamTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	Name      string     `db:"name"`
	Sport     string     `db:"sport"`
	AvatarURL string     `db:"avatar_url"`
	CreatedBy string     `db:"created_by"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type teamInsertModel struct {
	PublicID  string    `db:"public_id"`
	Name      string    `db:"name"`
	Sport     string    `db:"sport"`
	AvatarURL string    `db:"avatar_url"`
	CreatedBy string    `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type memberTableModel struct {
	ID           int64      `db:"id"`
	PublicID     string     `db:"public_id"`
	TeamID       string     `db:"team_public_id"`
	UserID       string     `db:"user_id"`
	Role         string     `db:"role"`
	Position     string     `db:"position"`
	JerseyNumber int        `db:"jersey_number"`
	JoinedAt     time.Time  `db:"joined_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

type memberInsertModel struct {
	PublicID     string    `db:"public_id"`
	TeamID       string    `db:"team_public_id"`
	UserID       string    `db:"user_id"`
	Role         string    `db:"role"`
	Position     string    `db:"position"`
	JerseyNumber int       `db:"jersey_number"`
	JoinedAt     time.Time `db:"joined_at"`
}
