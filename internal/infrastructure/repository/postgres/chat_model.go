package postgres

import "time"

type chatTableModel struct {
	ID        int64      `db:"id"`
	PublicID  string     `db:"public_id"`
	TeamID    string     `db:"team_public_id"`
	Name      string     `db:"name"`
	ChatType  string     `db:"chat_type"`
	CreatedAt time.Time  `db:"created_at"`
	DeletedAt *time.Time `db:"deleted_at"`
}

type chatInsertModel struct {
	PublicID  string    `db:"public_id"`
	TeamID    string    `db:"team_public_id"`
	Name      string    `db:"name"`
	ChatType  string    `db:"chat_type"`
	CreatedAt time.Time `db:"created_at"`
}

type messageTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	ChatID     string    `db:"chat_public_id"`
	UserID     string    `db:"user_id"`
	AuthorName string    `db:"author_name"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
}

type messageInsertModel struct {
	PublicID   string    `db:"public_id"`
	ChatID     string    `db:"chat_public_id"`
	UserID     string    `db:"user_id"`
	AuthorName string    `db:"author_name"`
	Content    string    `db:"content"`
	CreatedAt  time.Time `db:"created_at"`
}
