package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/chat"
	"github.com/courtside-app/courtside-api/internal/domain/user"
	"github.com/courtside-app/courtside-api/internal/platform/id"
	"github.com/courtside-app/courtside-api/internal/platform/realtime"
)

const defaultMessageHistory = 100

type CreateChatInput struct {
	TeamID string
	Name   string
	Type   chat.Type
}

// ChatService manages team chat rooms and fans new messages out to
// live subscribers.
type ChatService struct {
	chatRepo       chat.Repository
	teams          *TeamService
	idgen          id.Generator
	stream         *realtime.Broadcaster[chat.Message]
	gatewayTimeout time.Duration
	now            func() time.Time
}

func NewChatService(chatRepo chat.Repository, teams *TeamService, idgen id.Generator, stream *realtime.Broadcaster[chat.Message]) *ChatService {
	return &ChatService{
		chatRepo:       chatRepo,
		teams:          teams,
		idgen:          idgen,
		stream:         stream,
		gatewayTimeout: DefaultGatewayTimeout,
		now:            time.Now,
	}
}

// SetGatewayTimeout overrides the per-call persistence deadline.
func (s *ChatService) SetGatewayTimeout(d time.Duration) {
	if d > 0 {
		s.gatewayTimeout = d
	}
}

func (s *ChatService) ListByTeam(ctx context.Context, teamID string, actor user.Principal) ([]chat.Chat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChatService.ListByTeam")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return nil, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if err := s.requireMembership(ctx, teamID, actor.UserID); err != nil {
		return nil, err
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	items, err := s.chatRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, wrapGatewayErr("list chats by team", err)
	}

	return items, nil
}

func (s *ChatService) Create(ctx context.Context, input CreateChatInput, actor user.Principal) (chat.Chat, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChatService.Create")
	defer span.End()

	input.TeamID = strings.TrimSpace(input.TeamID)
	input.Name = strings.TrimSpace(input.Name)
	if input.TeamID == "" {
		return chat.Chat{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return chat.Chat{}, fmt.Errorf("%w: chat name is required", ErrInvalidInput)
	}
	if !chat.ValidType(input.Type) {
		return chat.Chat{}, fmt.Errorf("%w: unknown chat type %q", ErrInvalidInput, input.Type)
	}

	if err := s.requireMembership(ctx, input.TeamID, actor.UserID); err != nil {
		return chat.Chat{}, err
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	count, err := s.chatRepo.CountByTeam(ctx, input.TeamID)
	if err != nil {
		return chat.Chat{}, wrapGatewayErr("count chats by team", err)
	}
	if count >= user.LimitsFor(actor.Plan).Chats {
		return chat.Chat{}, fmt.Errorf("%w: chats per team on plan %s", ErrPlanLimitReached, actor.Plan)
	}

	chatID, err := s.idgen.NewID()
	if err != nil {
		return chat.Chat{}, fmt.Errorf("generate chat id: %w", err)
	}

	created, err := s.chatRepo.Insert(ctx, chat.Chat{
		ID:        chatID,
		TeamID:    input.TeamID,
		Name:      input.Name,
		Type:      input.Type,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return chat.Chat{}, wrapGatewayErr("insert chat", err)
	}

	return created, nil
}

// ListMessages returns a chat's recent history in chronological order.
func (s *ChatService) ListMessages(ctx context.Context, chatID string, actor user.Principal) ([]chat.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChatService.ListMessages")
	defer span.End()

	room, err := s.getChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, room.TeamID, actor.UserID); err != nil {
		return nil, err
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	items, err := s.chatRepo.ListMessages(ctx, room.ID, defaultMessageHistory)
	if err != nil {
		return nil, wrapGatewayErr("list chat messages", err)
	}

	return items, nil
}

// PostMessage stores a message and publishes it to the chat's live
// stream. Subscribers that miss the publish pick it up from history.
func (s *ChatService) PostMessage(ctx context.Context, chatID, content string, actor user.Principal) (chat.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChatService.PostMessage")
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return chat.Message{}, fmt.Errorf("%w: message content is required", ErrInvalidInput)
	}

	room, err := s.getChat(ctx, chatID)
	if err != nil {
		return chat.Message{}, err
	}
	if err := s.requireMembership(ctx, room.TeamID, actor.UserID); err != nil {
		return chat.Message{}, err
	}

	messageID, err := s.idgen.NewID()
	if err != nil {
		return chat.Message{}, fmt.Errorf("generate message id: %w", err)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	stored, err := s.chatRepo.InsertMessage(ctx, chat.Message{
		ID:         messageID,
		ChatID:     room.ID,
		UserID:     actor.UserID,
		AuthorName: actor.Name,
		Content:    content,
		CreatedAt:  s.now().UTC(),
	})
	if err != nil {
		return chat.Message{}, wrapGatewayErr("insert chat message", err)
	}

	if s.stream != nil {
		s.stream.Publish(room.ID, stored)
	}
	return stored, nil
}

// Subscribe attaches a live message feed for one chat. The caller must
// Unsubscribe with the returned channel when done.
func (s *ChatService) Subscribe(ctx context.Context, chatID string, actor user.Principal) (chan chat.Message, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ChatService.Subscribe")
	defer span.End()

	room, err := s.getChat(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMembership(ctx, room.TeamID, actor.UserID); err != nil {
		return nil, err
	}
	if s.stream == nil {
		return nil, fmt.Errorf("%w: live stream is not configured", ErrDependencyUnavailable)
	}

	return s.stream.Subscribe(room.ID), nil
}

func (s *ChatService) Unsubscribe(chatID string, ch chan chat.Message) {
	if s.stream != nil {
		s.stream.Unsubscribe(chatID, ch)
	}
}

func (s *ChatService) getChat(ctx context.Context, chatID string) (chat.Chat, error) {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return chat.Chat{}, fmt.Errorf("%w: chat_id is required", ErrInvalidInput)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	room, found, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return chat.Chat{}, wrapGatewayErr("get chat by id", err)
	}
	if !found {
		return chat.Chat{}, fmt.Errorf("%w: chat=%s", ErrNotFound, chatID)
	}

	return room, nil
}

func (s *ChatService) requireMembership(ctx context.Context, teamID, userID string) error {
	member, err := s.teams.IsMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !member {
		return fmt.Errorf("%w: not a member of team=%s", ErrForbidden, teamID)
	}
	return nil
}
