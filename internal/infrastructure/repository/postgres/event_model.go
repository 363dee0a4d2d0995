package postgres

import "time"

type eventTableModel struct {
	ID          int64      `db:"id"`
	PublicID    string     `db:"public_id"`
	TeamID      string     `db:"team_public_id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	EventType   string     `db:"event_type"`
	StartAt     time.Time  `db:"start_at"`
	EndAt       time.Time  `db:"end_at"`
	Location    string     `db:"location"`
	CreatedBy   string     `db:"created_by"`
	CreatedAt   time.Time  `db:"created_at"`
	DeletedAt   *time.Time `db:"deleted_at"`
}

type eventInsertModel struct {
	PublicID    string    `db:"public_id"`
	TeamID      string    `db:"team_public_id"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	EventType   string    `db:"event_type"`
	StartAt     time.Time `db:"start_at"`
	EndAt       time.Time `db:"end_at"`
	Location    string    `db:"location"`
	CreatedBy   string    `db:"created_by"`
	CreatedAt   time.Time `db:"created_at"`
}
