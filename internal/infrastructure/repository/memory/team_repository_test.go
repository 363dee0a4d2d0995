package memory

import (
	"testing"
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/chat"
	"github.com/courtside-app/courtside-api/internal/domain/event"
	"github.com/courtside-app/courtside-api/internal/domain/formation"
	"github.com/courtside-app/courtside-api/internal/domain/team"
)

func TestTeamRepository_Delete_CascadesToSiblingStores(t *testing.T) {
	teams := NewTeamRepository()
	formations := NewFormationRepository()
	events := NewEventRepository()
	chats := NewChatRepository()

	teams.OnDelete(formations.RemoveTeam)
	teams.OnDelete(events.RemoveTeam)
	teams.OnDelete(chats.RemoveTeam)

	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for _, teamID := range []string{"team-1", "team-2"} {
		if _, err := teams.Insert(t.Context(), team.Team{ID: teamID, Name: "Time " + teamID, CreatedBy: "user-coach"}); err != nil {
			t.Fatalf("insert %s: %v", teamID, err)
		}
		if _, err := teams.InsertMember(t.Context(), team.Member{ID: "member-" + teamID, TeamID: teamID, UserID: "user-athlete"}); err != nil {
			t.Fatalf("insert member: %v", err)
		}
		if _, err := formations.Insert(t.Context(), formation.Formation{ID: "formation-" + teamID, TeamID: teamID, Name: "Base"}); err != nil {
			t.Fatalf("insert formation: %v", err)
		}
		if _, err := events.Insert(t.Context(), event.Event{ID: "event-" + teamID, TeamID: teamID, Title: "Treino", StartAt: now, EndAt: now.Add(time.Hour)}); err != nil {
			t.Fatalf("insert event: %v", err)
		}
		if _, err := chats.Insert(t.Context(), chat.Chat{ID: "chat-" + teamID, TeamID: teamID, Name: "Geral", Type: chat.TypeGeneral}); err != nil {
			t.Fatalf("insert chat: %v", err)
		}
		if _, err := chats.InsertMessage(t.Context(), chat.Message{ID: "message-" + teamID, ChatID: "chat-" + teamID, UserID: "user-athlete", Content: "olá"}); err != nil {
			t.Fatalf("insert message: %v", err)
		}
	}

	found, err := teams.Delete(t.Context(), "team-1")
	if err != nil {
		t.Fatalf("delete team: %v", err)
	}
	if !found {
		t.Fatalf("expected delete to find team-1")
	}

	if members, _ := teams.ListMembers(t.Context(), "team-1"); len(members) != 0 {
		t.Fatalf("expected members removed, got %d", len(members))
	}
	if items, _ := formations.ListByTeam(t.Context(), "team-1"); len(items) != 0 {
		t.Fatalf("expected formations removed, got %d", len(items))
	}
	if items, _ := events.ListByTeam(t.Context(), "team-1"); len(items) != 0 {
		t.Fatalf("expected events removed, got %d", len(items))
	}
	if items, _ := chats.ListByTeam(t.Context(), "team-1"); len(items) != 0 {
		t.Fatalf("expected chats removed, got %d", len(items))
	}
	if messages, _ := chats.ListMessages(t.Context(), "chat-team-1", 50); len(messages) != 0 {
		t.Fatalf("expected chat messages removed, got %d", len(messages))
	}

	// The sibling team is untouched.
	if items, _ := formations.ListByTeam(t.Context(), "team-2"); len(items) != 1 {
		t.Fatalf("expected team-2 formations kept, got %d", len(items))
	}
	if items, _ := events.ListByTeam(t.Context(), "team-2"); len(items) != 1 {
		t.Fatalf("expected team-2 events kept, got %d", len(items))
	}
	if items, _ := chats.ListByTeam(t.Context(), "team-2"); len(items) != 1 {
		t.Fatalf("expected team-2 chats kept, got %d", len(items))
	}
	if messages, _ := chats.ListMessages(t.Context(), "chat-team-2", 50); len(messages) != 1 {
		t.Fatalf("expected team-2 chat messages kept, got %d", len(messages))
	}
}
