package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/gorilla/websocket"

	"github.com/courtside-app/courtside-api/internal/domain/chat"
	"github.com/courtside-app/courtside-api/internal/usecase"
)

const (
	streamWriteTimeout = 10 * time.Second
	streamPingInterval = 30 * time.Second
)

func (h *Handler) ListChatsByTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListChatsByTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	chats, err := h.chatService.ListByTeam(ctx, teamID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "list chats failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]chatDTO, 0, len(chats))
	for _, c := range chats {
		items = append(items, chatToDTO(ctx, c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateChat")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	var req createChatRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.chatService.Create(ctx, usecase.CreateChatInput{
		TeamID: teamID,
		Name:   req.Name,
		Type:   chat.Type(req.Type),
	}, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "create chat failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, chatToDTO(ctx, created))
}

func (h *Handler) ListChatMessages(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListChatMessages")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	chatID := r.PathValue("chatID")
	messages, err := h.chatService.ListMessages(ctx, chatID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "list messages failed", "chat_id", chatID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]messageDTO, 0, len(messages))
	for _, m := range messages {
		items = append(items, messageToDTO(ctx, m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) PostChatMessage(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PostChatMessage")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	chatID := r.PathValue("chatID")
	var req postMessageRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	posted, err := h.chatService.PostMessage(ctx, chatID, req.Content, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "post message failed", "chat_id", chatID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, messageToDTO(ctx, posted))
}

// StreamChat upgrades the connection to a websocket and forwards every
// message published to the chat room until the client disconnects.
func (h *Handler) StreamChat(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StreamChat")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	chatID := r.PathValue("chatID")
	feed, err := h.chatService.Subscribe(ctx, chatID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "subscribe chat failed", "chat_id", chatID, "error", err)
		writeError(ctx, w, err)
		return
	}
	defer h.chatService.Unsubscribe(chatID, feed)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade already wrote the handshake error response.
		h.logger.WarnContext(ctx, "websocket upgrade failed", "chat_id", chatID, "error", err)
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-closed:
			return
		case msg, ok := <-feed:
			if !ok {
				return
			}
			payload, err := sonic.Marshal(messageToDTO(ctx, msg))
			if err != nil {
				h.logger.WarnContext(ctx, "encode stream message failed", "chat_id", chatID, "error", err)
				continue
			}
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type createChatRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"required,oneof=general strategy training"`
}

type postMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

type chatDTO struct {
	ID        string `json:"id"`
	TeamID    string `json:"teamId"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	CreatedAt string `json:"createdAt"`
}

type messageDTO struct {
	ID         string `json:"id"`
	ChatID     string `json:"chatId"`
	UserID     string `json:"userId"`
	AuthorName string `json:"authorName,omitempty"`
	Content    string `json:"content"`
	CreatedAt  string `json:"createdAt"`
}

func chatToDTO(ctx context.Context, v chat.Chat) chatDTO {
	ctx, span := startSpan(ctx, "httpapi.chatToDTO")
	defer span.End()

	return chatDTO{
		ID:        v.ID,
		TeamID:    v.TeamID,
		Name:      v.Name,
		Type:      string(v.Type),
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func messageToDTO(ctx context.Context, v chat.Message) messageDTO {
	ctx, span := startSpan(ctx, "httpapi.messageToDTO")
	defer span.End()

	return messageDTO{
		ID:         v.ID,
		ChatID:     v.ChatID,
		UserID:     v.UserID,
		AuthorName: v.AuthorName,
		Content:    v.Content,
		CreatedAt:  v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
