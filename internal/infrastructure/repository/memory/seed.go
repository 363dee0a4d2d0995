package memory

import (
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/chat"
	"github.com/courtside-app/courtside-api/internal/domain/event"
	"github.com/courtside-app/courtside-api/internal/domain/formation"
	"github.com/courtside-app/courtside-api/internal/domain/sport"
	"github.com/courtside-app/courtside-api/internal/domain/team"
)

const (
	SeedUserIDCoach   = "user-demo-coach"
	SeedUserIDCaptain = "user-demo-captain"

	SeedTeamIDVolei   = "team-volei-estrelas"
	SeedTeamIDFutebol = "team-furacao-fc"
)

func SeedTeams() []team.Team {
	return []team.Team{
		{
			ID:        SeedTeamIDVolei,
			Name:      "Estrelas do Vôlei",
			Sport:     sport.TypeVolleyball,
			CreatedBy: SeedUserIDCoach,
			CreatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		},
		{
			ID:        SeedTeamIDFutebol,
			Name:      "Furacão FC",
			Sport:     sport.TypeFootball,
			CreatedBy: SeedUserIDCoach,
			CreatedAt: time.Date(2026, 2, 2, 14, 30, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 2, 2, 14, 30, 0, 0, time.UTC),
		},
	}
}

func SeedMembers() []team.Member {
	return []team.Member{
		{ID: "member-volei-01", TeamID: SeedTeamIDVolei, UserID: SeedUserIDCoach, Role: team.RoleCoach, JoinedAt: time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)},
		{ID: "member-volei-02", TeamID: SeedTeamIDVolei, UserID: SeedUserIDCaptain, Role: team.RoleCaptain, Position: "Levantador", JerseyNumber: 1, JoinedAt: time.Date(2026, 1, 11, 10, 0, 0, 0, time.UTC)},
		{ID: "member-fut-01", TeamID: SeedTeamIDFutebol, UserID: SeedUserIDCoach, Role: team.RoleCoach, JoinedAt: time.Date(2026, 2, 2, 14, 30, 0, 0, time.UTC)},
	}
}

func SeedFormations() []formation.Formation {
	return []formation.Formation{
		{
			ID:     "formation-volei-base",
			TeamID: SeedTeamIDVolei,
			Name:   "Sistema 5x1",
			Sport:  sport.TypeVolleyball,
			Players: []formation.Player{
				{ID: "player-0", Name: "Jogador 1", Position: "Levantador", JerseyNumber: 1, X: 130, Y: 120},
				{ID: "player-1", Name: "Jogador 2", Position: "Oposto", JerseyNumber: 2, X: 130, Y: 480},
				{ID: "player-2", Name: "Jogador 3", Position: "Central", JerseyNumber: 3, X: 40, Y: 220},
				{ID: "player-3", Name: "Jogador 4", Position: "Ponteiro", JerseyNumber: 4, X: 220, Y: 220},
				{ID: "player-4", Name: "Jogador 5", Position: "Central", JerseyNumber: 5, X: 40, Y: 380},
				{ID: "player-5", Name: "Jogador 6", Position: "Líbero", JerseyNumber: 6, X: 220, Y: 380},
			},
			CreatedBy: SeedUserIDCoach,
			CreatedAt: time.Date(2026, 1, 12, 18, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2026, 1, 20, 19, 15, 0, 0, time.UTC),
		},
	}
}

func SeedEvents() []event.Event {
	return []event.Event{
		{
			ID:        "event-volei-treino",
			TeamID:    SeedTeamIDVolei,
			Title:     "Treino técnico",
			Type:      event.TypeTraining,
			StartAt:   time.Date(2026, 9, 3, 19, 0, 0, 0, time.UTC),
			EndAt:     time.Date(2026, 9, 3, 21, 0, 0, 0, time.UTC),
			Location:  "Ginásio Municipal",
			CreatedBy: SeedUserIDCoach,
			CreatedAt: time.Date(2026, 8, 20, 11, 0, 0, 0, time.UTC),
		},
		{
			ID:          "event-volei-amistoso",
			TeamID:      SeedTeamIDVolei,
			Title:       "Amistoso contra Vôlei Praia Clube",
			Description: "Chegar uma hora antes para aquecimento.",
			Type:        event.TypeFriendly,
			StartAt:     time.Date(2026, 9, 12, 16, 0, 0, 0, time.UTC),
			EndAt:       time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC),
			Location:    "Arena Beira-Mar",
			CreatedBy:   SeedUserIDCoach,
			CreatedAt:   time.Date(2026, 8, 22, 9, 30, 0, 0, time.UTC),
		},
	}
}

func SeedChats() []chat.Chat {
	return []chat.Chat{
		{
			ID:        "chat-volei-geral",
			TeamID:    SeedTeamIDVolei,
			Name:      "Geral",
			Type:      chat.TypeGeneral,
			CreatedAt: time.Date(2026, 1, 10, 9, 5, 0, 0, time.UTC),
		},
	}
}

func SeedMessages() []chat.Message {
	return []chat.Message{
		{
			ID:         "message-volei-001",
			ChatID:     "chat-volei-geral",
			UserID:     SeedUserIDCoach,
			AuthorName: "Treinador Demo",
			Content:    "Bem-vindos ao chat do time!",
			CreatedAt:  time.Date(2026, 1, 10, 9, 10, 0, 0, time.UTC),
		},
	}
}
