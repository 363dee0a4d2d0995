package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/formation"
	"github.com/courtside-app/courtside-api/internal/domain/sport"
	"github.com/courtside-app/courtside-api/internal/domain/team"
	"github.com/courtside-app/courtside-api/internal/domain/user"
	"github.com/courtside-app/courtside-api/internal/infrastructure/repository/memory"
)

type seqIDGenerator struct {
	prefix string
	next   int
}

func (g *seqIDGenerator) NewID() (string, error) {
	g.next++
	return fmt.Sprintf("%s-%03d", g.prefix, g.next), nil
}

func seedTeam(t *testing.T, repo team.Repository, sportType sport.Type) team.Team {
	t.Helper()

	seeded, err := repo.Insert(t.Context(), team.Team{
		ID:        "team-1",
		Name:      "Estrelas",
		Sport:     sportType,
		CreatedBy: "user-coach",
		CreatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		UpdatedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("seed team: %v", err)
	}
	return seeded
}

func seedMember(t *testing.T, repo team.Repository, teamID, userID string, role team.Role) team.Member {
	t.Helper()

	member, err := repo.InsertMember(t.Context(), team.Member{
		ID:     "member-" + userID,
		TeamID: teamID,
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
	return member
}

func TestFormationService_NewDefaultFormation_GridLayout(t *testing.T) {
	teamRepo := memory.NewTeamRepository()
	seedTeam(t, teamRepo, sport.TypeVolleyball)

	service := NewFormationService(memory.NewFormationRepository(), teamRepo, &seqIDGenerator{prefix: "formation"})

	coach := user.Principal{UserID: "user-coach"}
	draft, err := service.NewDefaultFormation(t.Context(), "team-1", coach)
	if err != nil {
		t.Fatalf("new default formation failed: %v", err)
	}

	if !draft.IsDraft() {
		t.Fatalf("expected unsaved draft, got id %q", draft.ID)
	}
	if draft.Name != "Nova Formação" {
		t.Fatalf("expected default name, got %q", draft.Name)
	}
	if len(draft.Players) != 6 {
		t.Fatalf("expected 6 volleyball players, got %d", len(draft.Players))
	}

	for i, p := range draft.Players {
		wantX := float64(50 + (i%3)*30)
		wantY := float64(100 + (i/3)*100)
		if p.X != wantX || p.Y != wantY {
			t.Fatalf("player %d: expected grid position (%v,%v), got (%v,%v)", i, wantX, wantY, p.X, p.Y)
		}
		if p.JerseyNumber != i+1 {
			t.Fatalf("player %d: expected jersey %d, got %d", i, i+1, p.JerseyNumber)
		}
		if p.Name != fmt.Sprintf("Jogador %d", i+1) {
			t.Fatalf("player %d: unexpected name %q", i, p.Name)
		}
	}

	// Jersey 6 wraps around the 5-entry volleyball vocabulary.
	if draft.Players[5].Position != draft.Players[0].Position {
		t.Fatalf("expected positions to cycle, got %q vs %q", draft.Players[5].Position, draft.Players[0].Position)
	}
}

func TestFormationService_Save_DraftThenUpdate(t *testing.T) {
	teamRepo := memory.NewTeamRepository()
	seedTeam(t, teamRepo, sport.TypeBasketball)

	formationRepo := memory.NewFormationRepository()
	service := NewFormationService(formationRepo, teamRepo, &seqIDGenerator{prefix: "formation"})

	firstNow := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return firstNow }

	actor := user.Principal{UserID: "user-coach", Plan: user.PlanFree}

	draft, err := service.NewDefaultFormation(t.Context(), "team-1", actor)
	if err != nil {
		t.Fatalf("new default formation failed: %v", err)
	}

	saved, err := service.Save(t.Context(), draft, actor)
	if err != nil {
		t.Fatalf("save draft failed: %v", err)
	}
	if saved.ID != "formation-001" {
		t.Fatalf("expected assigned id formation-001, got %q", saved.ID)
	}
	if saved.CreatedBy != actor.UserID {
		t.Fatalf("expected creator %q, got %q", actor.UserID, saved.CreatedBy)
	}
	if !saved.CreatedAt.Equal(firstNow) || !saved.UpdatedAt.Equal(firstNow) {
		t.Fatalf("expected timestamps %v, got created=%v updated=%v", firstNow, saved.CreatedAt, saved.UpdatedAt)
	}

	secondNow := firstNow.Add(10 * time.Minute)
	service.now = func() time.Time { return secondNow }

	saved.Name = "Ataque rápido"
	saved.Players[0].X = 42

	updated, err := service.Save(t.Context(), saved, actor)
	if err != nil {
		t.Fatalf("save existing failed: %v", err)
	}
	if updated.ID != saved.ID {
		t.Fatalf("expected same id on update, got %q vs %q", updated.ID, saved.ID)
	}
	if updated.Name != "Ataque rápido" || updated.Players[0].X != 42 {
		t.Fatalf("expected name and players replaced, got name=%q x=%v", updated.Name, updated.Players[0].X)
	}
	if !updated.CreatedAt.Equal(firstNow) {
		t.Fatalf("expected created_at unchanged, got %v", updated.CreatedAt)
	}
	if !updated.UpdatedAt.Equal(secondNow) {
		t.Fatalf("expected updated_at %v, got %v", updated.UpdatedAt, secondNow)
	}
}

func TestFormationService_Save_ClampsPositionsToCourt(t *testing.T) {
	teamRepo := memory.NewTeamRepository()
	seedTeam(t, teamRepo, sport.TypeVolleyball)

	service := NewFormationService(memory.NewFormationRepository(), teamRepo, &seqIDGenerator{prefix: "formation"})

	actor := user.Principal{UserID: "user-coach", Plan: user.PlanFree}
	draft, err := service.NewDefaultFormation(t.Context(), "team-1", actor)
	if err != nil {
		t.Fatalf("new default formation failed: %v", err)
	}

	// Far outside the 300x600 volleyball court in both directions.
	draft.Players[0].X = 9999
	draft.Players[0].Y = -500
	draft.Players[1].X = -1
	draft.Players[1].Y = 601

	saved, err := service.Save(t.Context(), draft, actor)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	stored, err := service.GetByID(t.Context(), saved.ID, actor)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if stored.Players[0].X != 260 || stored.Players[0].Y != 0 {
		t.Fatalf("expected player 0 clamped to (260,0), got (%v,%v)", stored.Players[0].X, stored.Players[0].Y)
	}
	if stored.Players[1].X != 0 || stored.Players[1].Y != 560 {
		t.Fatalf("expected player 1 clamped to (0,560), got (%v,%v)", stored.Players[1].X, stored.Players[1].Y)
	}
}

func TestFormationService_MembershipRequired(t *testing.T) {
	teamRepo := memory.NewTeamRepository()
	seedTeam(t, teamRepo, sport.TypeVolleyball)

	service := NewFormationService(memory.NewFormationRepository(), teamRepo, &seqIDGenerator{prefix: "formation"})

	coach := user.Principal{UserID: "user-coach", Plan: user.PlanPremium}
	draft, err := service.NewDefaultFormation(t.Context(), "team-1", coach)
	if err != nil {
		t.Fatalf("new default formation failed: %v", err)
	}
	saved, err := service.Save(t.Context(), draft, coach)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	stranger := user.Principal{UserID: "user-stranger", Plan: user.PlanPremium}

	if _, err := service.NewDefaultFormation(t.Context(), "team-1", stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on default formation, got %v", err)
	}
	if _, err := service.ListByTeam(t.Context(), "team-1", stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on list, got %v", err)
	}
	if _, err := service.GetByID(t.Context(), saved.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on get, got %v", err)
	}

	saved.Name = "Roubada"
	if _, err := service.Save(t.Context(), saved, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on save, got %v", err)
	}
	if _, err := service.Duplicate(t.Context(), saved.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on duplicate, got %v", err)
	}
	if err := service.Delete(t.Context(), saved.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden on delete, got %v", err)
	}

	// The rejected writes never reached the store.
	current, err := service.GetByID(t.Context(), saved.ID, coach)
	if err != nil {
		t.Fatalf("get as coach failed: %v", err)
	}
	if current.Name == "Roubada" {
		t.Fatalf("expected stranger's rename to be rejected, got %q", current.Name)
	}
}

func TestFormationService_Save_EmptyNameNeverReachesRepository(t *testing.T) {
	teamRepo := memory.NewTeamRepository()
	seedTeam(t, teamRepo, sport.TypeFutsal)

	repo := &countingFormationRepo{}
	service := NewFormationService(repo, teamRepo, &seqIDGenerator{prefix: "formation"})

	_, err := service.Save(t.Context(), formation.Formation{
		TeamID: "team-1",
		Name:   "   ",
		Sport:  sport.TypeFutsal,
	}, user.Principal{UserID: "user-coach", Plan: user.PlanFree})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if repo.calls != 0 {
		t.Fatalf("expected no repository calls for invalid input, got %d", repo.calls)
	}
}

func TestFormationService_Duplicate_IndependentCopy(t *testing.T) {
	teamRepo := memory.NewTeamRepository()
	seedTeam(t, teamRepo, sport.TypeHandball)
	seedMember(t, teamRepo, "team-1", "user-captain", team.RoleCaptain)

	formationRepo := memory.NewFormationRepository()
	service := NewFormationService(formationRepo, teamRepo, &seqIDGenerator{prefix: "formation"})
	service.now = func() time.Time { return time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC) }

	coach := user.Principal{UserID: "user-coach", Plan: user.PlanPremium}
	draft, err := service.NewDefaultFormation(t.Context(), "team-1", coach)
	if err != nil {
		t.Fatalf("new default formation failed: %v", err)
	}
	original, err := service.Save(t.Context(), draft, coach)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	captain := user.Principal{UserID: "user-captain", Plan: user.PlanPremium}
	copied, err := service.Duplicate(t.Context(), original.ID, captain)
	if err != nil {
		t.Fatalf("duplicate failed: %v", err)
	}

	if copied.ID == original.ID {
		t.Fatalf("expected duplicate to get its own id")
	}
	if copied.Name != original.Name+" (Cópia)" {
		t.Fatalf("expected copy-suffixed name, got %q", copied.Name)
	}
	if copied.CreatedBy != captain.UserID {
		t.Fatalf("expected duplicating user as creator, got %q", copied.CreatedBy)
	}

	// Lifecycles are independent: deleting the original leaves the copy.
	if err := service.Delete(t.Context(), original.ID, coach); err != nil {
		t.Fatalf("delete original failed: %v", err)
	}
	if _, err := service.GetByID(t.Context(), copied.ID, coach); err != nil {
		t.Fatalf("expected copy to survive original's deletion, got %v", err)
	}
}

func TestFormationService_Save_PlanLimit(t *testing.T) {
	teamRepo := memory.NewTeamRepository()
	seedTeam(t, teamRepo, sport.TypeVolleyball)

	formationRepo := memory.NewFormationRepository()
	service := NewFormationService(formationRepo, teamRepo, &seqIDGenerator{prefix: "formation"})

	free := user.Principal{UserID: "user-coach", Plan: user.PlanFree}
	for i := 0; i < 3; i++ {
		draft, err := service.NewDefaultFormation(t.Context(), "team-1", free)
		if err != nil {
			t.Fatalf("new default formation failed: %v", err)
		}
		if _, err := service.Save(t.Context(), draft, free); err != nil {
			t.Fatalf("save %d failed: %v", i, err)
		}
	}

	draft, err := service.NewDefaultFormation(t.Context(), "team-1", free)
	if err != nil {
		t.Fatalf("new default formation failed: %v", err)
	}
	if _, err := service.Save(t.Context(), draft, free); !errors.Is(err, ErrPlanLimitReached) {
		t.Fatalf("expected ErrPlanLimitReached on fourth save, got %v", err)
	}
}

func TestFormationService_Delete_NotFound(t *testing.T) {
	teamRepo := memory.NewTeamRepository()
	service := NewFormationService(memory.NewFormationRepository(), teamRepo, &seqIDGenerator{prefix: "formation"})

	actor := user.Principal{UserID: "user-coach"}
	if err := service.Delete(t.Context(), "formation-missing", actor); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

type countingFormationRepo struct {
	calls int
}

func (r *countingFormationRepo) ListByTeam(context.Context, string) ([]formation.Formation, error) {
	r.calls++
	return nil, nil
}

func (r *countingFormationRepo) GetByID(context.Context, string) (formation.Formation, bool, error) {
	r.calls++
	return formation.Formation{}, false, nil
}

func (r *countingFormationRepo) Insert(_ context.Context, item formation.Formation) (formation.Formation, error) {
	r.calls++
	return item, nil
}

func (r *countingFormationRepo) Update(_ context.Context, item formation.Formation) (formation.Formation, bool, error) {
	r.calls++
	return item, true, nil
}

func (r *countingFormationRepo) Delete(context.Context, string) (bool, error) {
	r.calls++
	return true, nil
}

func (r *countingFormationRepo) CountByTeam(context.Context, string) (int, error) {
	r.calls++
	return 0, nil
}
