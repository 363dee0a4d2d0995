package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/courtside-app/courtside-api/internal/domain/chat"
)

type ChatRepository struct {
	mu       sync.RWMutex
	chats    map[string]chat.Chat
	messages map[string][]chat.Message
}

func NewChatRepository() *ChatRepository {
	return &ChatRepository{
		chats:    make(map[string]chat.Chat),
		messages: make(map[string][]chat.Message),
	}
}

func (r *ChatRepository) ListByTeam(_ context.Context, teamID string) ([]chat.Chat, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]chat.Chat, 0)
	for _, item := range r.chats {
		if item.TeamID == teamID {
			items = append(items, item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}

func (r *ChatRepository) GetByID(_ context.Context, id string) (chat.Chat, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.chats[id]
	if !ok {
		return chat.Chat{}, false, nil
	}

	return item, true, nil
}

func (r *ChatRepository) CountByTeam(_ context.Context, teamID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.chats {
		if item.TeamID == teamID {
			count++
		}
	}

	return count, nil
}

func (r *ChatRepository) Insert(_ context.Context, item chat.Chat) (chat.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.chats[item.ID] = item
	return item, nil
}

func (r *ChatRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chats[id]; !ok {
		return false, nil
	}
	delete(r.chats, id)
	delete(r.messages, id)

	return true, nil
}

// RemoveTeam drops a team's chats and their messages, mirroring the
// cascade the postgres backend applies on team deletion.
func (r *ChatRepository) RemoveTeam(teamID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.chats {
		if item.TeamID == teamID {
			delete(r.chats, id)
			delete(r.messages, id)
		}
	}
}

// ListMessages returns the newest limit messages in chronological order.
func (r *ChatRepository) ListMessages(_ context.Context, chatID string, limit int) ([]chat.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.messages[chatID]
	start := 0
	if limit > 0 && len(stored) > limit {
		start = len(stored) - limit
	}

	return append([]chat.Message(nil), stored[start:]...), nil
}

func (r *ChatRepository) InsertMessage(_ context.Context, item chat.Message) (chat.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.messages[item.ChatID] = append(r.messages[item.ChatID], item)
	return item, nil
}
