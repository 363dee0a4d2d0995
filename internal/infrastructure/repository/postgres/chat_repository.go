package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtside-app/courtside-api/internal/domain/chat"
	qb "github.com/courtside-app/courtside-api/internal/platform/querybuilder"
)

type ChatRepository struct {
	db *sqlx.DB
}

func NewChatRepository(db *sqlx.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

func (r *ChatRepository) ListByTeam(ctx context.Context, teamID string) ([]chat.Chat, error) {
	query, args, err := qb.Select("*").From("chats").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list chats query: %w", err)
	}

	var rows []chatTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list chats by team: %w", err)
	}

	out := make([]chat.Chat, 0, len(rows))
	for _, row := range rows {
		out = append(out, chatFromRow(row))
	}
	return out, nil
}

func (r *ChatRepository) GetByID(ctx context.Context, id string) (chat.Chat, bool, error) {
	query, args, err := qb.Select("*").From("chats").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return chat.Chat{}, false, fmt.Errorf("build get chat query: %w", err)
	}

	var row chatTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return chat.Chat{}, false, nil
		}
		return chat.Chat{}, false, fmt.Errorf("get chat by id: %w", err)
	}

	return chatFromRow(row), true, nil
}

func (r *ChatRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("chats").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count chats query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count chats by team: %w", err)
	}

	return count, nil
}

func (r *ChatRepository) Insert(ctx context.Context, item chat.Chat) (chat.Chat, error) {
	insertModel := chatInsertModel{
		PublicID:  item.ID,
		TeamID:    item.TeamID,
		Name:      item.Name,
		ChatType:  string(item.Type),
		CreatedAt: item.CreatedAt,
	}
	query, args, err := qb.InsertModel("chats", insertModel, "")
	if err != nil {
		return chat.Chat{}, fmt.Errorf("build insert chat query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return chat.Chat{}, fmt.Errorf("insert chat: %w", err)
	}

	return item, nil
}

func (r *ChatRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := qb.Update("chats").
		SetRaw("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete chat query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete chat: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete chat: %w", err)
	}

	return affected > 0, nil
}

// ListMessages fetches the newest limit rows and reverses them so the
// caller always sees chronological order.
func (r *ChatRepository) ListMessages(ctx context.Context, chatID string, limit int) ([]chat.Message, error) {
	builder := qb.Select("*").From("chat_messages").
		Where(qb.Eq("chat_public_id", chatID)).
		OrderBy("created_at DESC", "id DESC")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list messages query: %w", err)
	}

	var rows []messageTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list chat messages: %w", err)
	}

	out := make([]chat.Message, len(rows))
	for i, row := range rows {
		out[len(rows)-1-i] = messageFromRow(row)
	}
	return out, nil
}

func (r *ChatRepository) InsertMessage(ctx context.Context, item chat.Message) (chat.Message, error) {
	insertModel := messageInsertModel{
		PublicID:   item.ID,
		ChatID:     item.ChatID,
		UserID:     item.UserID,
		AuthorName: item.AuthorName,
		Content:    item.Content,
		CreatedAt:  item.CreatedAt,
	}
	query, args, err := qb.InsertModel("chat_messages", insertModel, "")
	if err != nil {
		return chat.Message{}, fmt.Errorf("build insert message query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return chat.Message{}, fmt.Errorf("insert chat message: %w", err)
	}

	return item, nil
}

func chatFromRow(row chatTableModel) chat.Chat {
	return chat.Chat{
		ID:        row.PublicID,
		TeamID:    row.TeamID,
		Name:      row.Name,
		Type:      chat.Type(row.ChatType),
		CreatedAt: row.CreatedAt,
	}
}

func messageFromRow(row messageTableModel) chat.Message {
	return chat.Message{
		ID:         row.PublicID,
		ChatID:     row.ChatID,
		UserID:     row.UserID,
		AuthorName: row.AuthorName,
		Content:    row.Content,
		CreatedAt:  row.CreatedAt,
	}
}
