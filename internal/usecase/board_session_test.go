package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/board"
	"github.com/courtside-app/courtside-api/internal/domain/sport"
	"github.com/courtside-app/courtside-api/internal/domain/team"
	"github.com/courtside-app/courtside-api/internal/domain/user"
	"github.com/courtside-app/courtside-api/internal/infrastructure/repository/memory"
)

func newBoardFixture(t *testing.T) (*BoardSession, *FormationService) {
	t.Helper()

	teamRepo := memory.NewTeamRepository()
	owner := seedTeam(t, teamRepo, sport.TypeVolleyball)

	service := NewFormationService(memory.NewFormationRepository(), teamRepo, &seqIDGenerator{prefix: "formation"})
	service.now = func() time.Time { return time.Date(2026, 3, 5, 18, 0, 0, 0, time.UTC) }

	session, err := NewBoardSession(service, user.Principal{UserID: "user-coach", Plan: user.PlanPremium}, owner)
	if err != nil {
		t.Fatalf("new board session: %v", err)
	}
	return session, service
}

func TestBoardSession_OpenEditSaveRoundTrip(t *testing.T) {
	session, service := newBoardFixture(t)

	if session.State() != NoFormationOpen {
		t.Fatalf("expected fresh session to have nothing open")
	}

	draft, err := session.OpenNew(t.Context())
	if err != nil {
		t.Fatalf("open new failed: %v", err)
	}
	if session.State() != EditingNewFormation {
		t.Fatalf("expected EditingNewFormation, got %v", session.State())
	}

	playerID := draft.Players[0].ID
	if err := session.BeginDrag(playerID); err != nil {
		t.Fatalf("begin drag failed: %v", err)
	}
	if _, err := session.MoveDrag(playerID, 60, 80); err != nil {
		t.Fatalf("move drag failed: %v", err)
	}
	final, err := session.EndDrag(playerID)
	if err != nil {
		t.Fatalf("end drag failed: %v", err)
	}

	want := board.Point{X: draft.Players[0].X + 60, Y: draft.Players[0].Y + 80}
	if final != want {
		t.Fatalf("expected committed position %+v, got %+v", want, final)
	}

	saved, err := session.Save(t.Context(), "Recepção em W")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if session.State() != NoFormationOpen {
		t.Fatalf("expected save to close the session")
	}
	if saved.Players[0].X != want.X || saved.Players[0].Y != want.Y {
		t.Fatalf("expected dragged position persisted, got (%v,%v)", saved.Players[0].X, saved.Players[0].Y)
	}

	// The durable copy carries the edit too.
	stored, err := service.GetByID(t.Context(), saved.ID, user.Principal{UserID: "user-coach", Plan: user.PlanPremium})
	if err != nil {
		t.Fatalf("get saved formation: %v", err)
	}
	if stored.Name != "Recepção em W" {
		t.Fatalf("expected saved name, got %q", stored.Name)
	}
}

func TestBoardSession_DragClampsToCourt(t *testing.T) {
	session, _ := newBoardFixture(t)

	draft, err := session.OpenNew(t.Context())
	if err != nil {
		t.Fatalf("open new failed: %v", err)
	}

	playerID := draft.Players[0].ID
	if err := session.BeginDrag(playerID); err != nil {
		t.Fatalf("begin drag failed: %v", err)
	}

	// Far past the volleyball court's 300x600 bounds.
	got, err := session.MoveDrag(playerID, 10000, 10000)
	if err != nil {
		t.Fatalf("move drag failed: %v", err)
	}
	want := board.Point{X: 300 - board.MarkerSize, Y: 600 - board.MarkerSize}
	if got != want {
		t.Fatalf("expected clamp to %+v, got %+v", want, got)
	}
}

func TestBoardSession_SaveFailureKeepsEdits(t *testing.T) {
	session, _ := newBoardFixture(t)

	if _, err := session.OpenNew(t.Context()); err != nil {
		t.Fatalf("open new failed: %v", err)
	}

	if _, err := session.Save(t.Context(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank name, got %v", err)
	}
	if session.State() != EditingNewFormation {
		t.Fatalf("expected failed save to leave the session open")
	}
	if _, open := session.Current(); !open {
		t.Fatalf("expected formation still open after failed save")
	}
}

func TestBoardSession_DeleteWhileOpenClearsSession(t *testing.T) {
	session, _ := newBoardFixture(t)

	if _, err := session.OpenNew(t.Context()); err != nil {
		t.Fatalf("open new failed: %v", err)
	}
	saved, err := session.Save(t.Context(), "Formação titular")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := session.OpenExisting(t.Context(), saved.ID); err != nil {
		t.Fatalf("open existing failed: %v", err)
	}
	if session.State() != EditingExistingFormation {
		t.Fatalf("expected EditingExistingFormation, got %v", session.State())
	}

	if err := session.Delete(t.Context(), saved.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if session.State() != NoFormationOpen {
		t.Fatalf("expected deleting the open formation to clear the session")
	}
	if _, open := session.Current(); open {
		t.Fatalf("expected no current formation after delete")
	}
}

func TestBoardSession_DeleteOtherFormationKeepsSession(t *testing.T) {
	session, _ := newBoardFixture(t)

	if _, err := session.OpenNew(t.Context()); err != nil {
		t.Fatalf("open new failed: %v", err)
	}
	savedFirst, err := session.Save(t.Context(), "Formação A")
	if err != nil {
		t.Fatalf("save first failed: %v", err)
	}

	if _, err := session.OpenNew(t.Context()); err != nil {
		t.Fatalf("open second failed: %v", err)
	}
	savedSecond, err := session.Save(t.Context(), "Formação B")
	if err != nil {
		t.Fatalf("save second failed: %v", err)
	}

	if _, err := session.OpenExisting(t.Context(), savedSecond.ID); err != nil {
		t.Fatalf("open existing failed: %v", err)
	}
	if err := session.Delete(t.Context(), savedFirst.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if session.State() != EditingExistingFormation {
		t.Fatalf("expected session to stay open when deleting another formation")
	}
}

func TestBoardSession_OpenExistingRejectsForeignTeam(t *testing.T) {
	teamRepo := memory.NewTeamRepository()
	owner := seedTeam(t, teamRepo, sport.TypeVolleyball)
	other, err := teamRepo.Insert(t.Context(), team.Team{
		ID:        "team-2",
		Name:      "Rivais",
		Sport:     sport.TypeVolleyball,
		CreatedBy: "user-rival",
	})
	if err != nil {
		t.Fatalf("seed rival team: %v", err)
	}

	formationRepo := memory.NewFormationRepository()
	service := NewFormationService(formationRepo, teamRepo, &seqIDGenerator{prefix: "formation"})
	actor := user.Principal{UserID: "user-rival", Plan: user.PlanPremium}

	rivalSession, err := NewBoardSession(service, actor, other)
	if err != nil {
		t.Fatalf("new rival session: %v", err)
	}
	if _, err := rivalSession.OpenNew(t.Context()); err != nil {
		t.Fatalf("open rival draft: %v", err)
	}
	rivalSaved, err := rivalSession.Save(t.Context(), "Segredo tático")
	if err != nil {
		t.Fatalf("save rival formation: %v", err)
	}

	session, err := NewBoardSession(service, user.Principal{UserID: "user-coach"}, owner)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if _, err := session.OpenExisting(t.Context(), rivalSaved.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for foreign formation, got %v", err)
	}
}

func TestBoardSession_CloseDiscardsEdits(t *testing.T) {
	session, service := newBoardFixture(t)

	if _, err := session.OpenNew(t.Context()); err != nil {
		t.Fatalf("open new failed: %v", err)
	}
	saved, err := session.Save(t.Context(), "Base")
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	if _, err := session.OpenExisting(t.Context(), saved.ID); err != nil {
		t.Fatalf("open existing failed: %v", err)
	}
	if err := session.Rename("Nome nunca salvo"); err != nil {
		t.Fatalf("rename failed: %v", err)
	}
	session.Close()

	stored, err := service.GetByID(t.Context(), saved.ID, user.Principal{UserID: "user-coach", Plan: user.PlanPremium})
	if err != nil {
		t.Fatalf("get stored formation: %v", err)
	}
	if stored.Name != "Base" {
		t.Fatalf("expected close to discard the rename, got %q", stored.Name)
	}
}
