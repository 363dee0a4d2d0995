package chat

import "context"

// Repository exposes chat and message persistence operations.
type Repository interface {
	ListByTeam(ctx context.Context, teamID string) ([]Chat, error)
	GetByID(ctx context.Context, id string) (Chat, bool, error)
	CountByTeam(ctx context.Context, teamID string) (int, error)
	Insert(ctx context.Context, item Chat) (Chat, error)
	Delete(ctx context.Context, id string) (bool, error)

	// ListMessages returns a chat's messages in chronological order.
	ListMessages(ctx context.Context, chatID string, limit int) ([]Message, error)
	InsertMessage(ctx context.Context, item Message) (Message, error)
}
