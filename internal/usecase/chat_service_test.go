package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/chat"
	"github.com/courtside-app/courtside-api/internal/domain/sport"
	"github.com/courtside-app/courtside-api/internal/domain/user"
	"github.com/courtside-app/courtside-api/internal/infrastructure/repository/memory"
	"github.com/courtside-app/courtside-api/internal/platform/realtime"
)

func newChatFixture(t *testing.T) (*ChatService, user.Principal, string, func()) {
	t.Helper()

	teams, _ := newTeamFixture()
	owner := user.Principal{UserID: "user-coach", Name: "Treinador", Plan: user.PlanPremium}

	created, err := teams.Create(t.Context(), CreateTeamInput{Name: "Estrelas", Sport: sport.TypeVolleyball}, owner)
	if err != nil {
		t.Fatalf("create team: %v", err)
	}

	stream, err := realtime.NewBroadcaster[chat.Message](2)
	if err != nil {
		t.Fatalf("new broadcaster: %v", err)
	}
	service := NewChatService(memory.NewChatRepository(), teams, &seqIDGenerator{prefix: "chat"}, stream)
	service.now = func() time.Time { return time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC) }

	return service, owner, created.ID, func() { stream.Close() }
}

func TestChatService_Create_PlanLimitAndMembership(t *testing.T) {
	service, owner, teamID, cleanup := newChatFixture(t)
	defer cleanup()

	stranger := user.Principal{UserID: "user-stranger", Plan: user.PlanPremium}
	if _, err := service.Create(t.Context(), CreateChatInput{TeamID: teamID, Name: "Geral", Type: chat.TypeGeneral}, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member, got %v", err)
	}

	// Premium allows five chats per team; the sixth is rejected.
	names := []string{"Geral", "Tática", "Treinos", "Jogos", "Avisos"}
	for _, name := range names {
		if _, err := service.Create(t.Context(), CreateChatInput{TeamID: teamID, Name: name, Type: chat.TypeGeneral}, owner); err != nil {
			t.Fatalf("create chat %q failed: %v", name, err)
		}
	}
	_, err := service.Create(t.Context(), CreateChatInput{TeamID: teamID, Name: "Extra", Type: chat.TypeGeneral}, owner)
	if !errors.Is(err, ErrPlanLimitReached) {
		t.Fatalf("expected ErrPlanLimitReached, got %v", err)
	}

	chats, err := service.ListByTeam(t.Context(), teamID, owner)
	if err != nil {
		t.Fatalf("list chats failed: %v", err)
	}
	if len(chats) != len(names) {
		t.Fatalf("expected %d chats, got %d", len(names), len(chats))
	}
}

func TestChatService_PostMessage_StoredAndBroadcast(t *testing.T) {
	service, owner, teamID, cleanup := newChatFixture(t)
	defer cleanup()

	room, err := service.Create(t.Context(), CreateChatInput{TeamID: teamID, Name: "Geral", Type: chat.TypeGeneral}, owner)
	if err != nil {
		t.Fatalf("create chat failed: %v", err)
	}

	feed, err := service.Subscribe(t.Context(), room.ID, owner)
	if err != nil {
		t.Fatalf("subscribe failed: %v", err)
	}
	defer service.Unsubscribe(room.ID, feed)

	posted, err := service.PostMessage(t.Context(), room.ID, "Treino confirmado para amanhã", owner)
	if err != nil {
		t.Fatalf("post message failed: %v", err)
	}
	if posted.AuthorName != owner.Name {
		t.Fatalf("expected author name %q, got %q", owner.Name, posted.AuthorName)
	}

	select {
	case live := <-feed:
		if live.ID != posted.ID || live.Content != posted.Content {
			t.Fatalf("expected broadcast of posted message, got %+v", live)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for broadcast")
	}

	history, err := service.ListMessages(t.Context(), room.ID, owner)
	if err != nil {
		t.Fatalf("list messages failed: %v", err)
	}
	if len(history) != 1 || history[0].ID != posted.ID {
		t.Fatalf("expected posted message in history, got %+v", history)
	}
}

func TestChatService_PostMessage_Validation(t *testing.T) {
	service, owner, teamID, cleanup := newChatFixture(t)
	defer cleanup()

	room, err := service.Create(t.Context(), CreateChatInput{TeamID: teamID, Name: "Geral", Type: chat.TypeGeneral}, owner)
	if err != nil {
		t.Fatalf("create chat failed: %v", err)
	}

	if _, err := service.PostMessage(t.Context(), room.ID, "   ", owner); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank content, got %v", err)
	}
	if _, err := service.PostMessage(t.Context(), "chat-missing", "oi", owner); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown chat, got %v", err)
	}

	stranger := user.Principal{UserID: "user-stranger"}
	if _, err := service.PostMessage(t.Context(), room.ID, "oi", stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-member, got %v", err)
	}
}
