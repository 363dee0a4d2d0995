package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/board"
	"github.com/courtside-app/courtside-api/internal/domain/formation"
	"github.com/courtside-app/courtside-api/internal/domain/sport"
	"github.com/courtside-app/courtside-api/internal/domain/team"
	"github.com/courtside-app/courtside-api/internal/domain/user"
	"github.com/courtside-app/courtside-api/internal/platform/id"
)

const (
	defaultFormationName = "Nova Formação"
	duplicateNameSuffix  = " (Cópia)"

	// Default roster grid: three columns with fixed spacing, matching
	// the layout players land on when a new board is opened.
	defaultGridColumns  = 3
	defaultGridBaseX    = 50
	defaultGridStepX    = 30
	defaultGridBaseY    = 100
	defaultGridStepY    = 100
	defaultJerseyOffset = 1
)

// FormationService is the boundary between in-memory formations and
// the persistence layer.
type FormationService struct {
	formationRepo  formation.Repository
	teamRepo       team.Repository
	idgen          id.Generator
	gatewayTimeout time.Duration
	now            func() time.Time
}

func NewFormationService(formationRepo formation.Repository, teamRepo team.Repository, idgen id.Generator) *FormationService {
	return &FormationService{
		formationRepo:  formationRepo,
		teamRepo:       teamRepo,
		idgen:          idgen,
		gatewayTimeout: DefaultGatewayTimeout,
		now:            time.Now,
	}
}

// SetGatewayTimeout overrides the per-call persistence deadline.
func (s *FormationService) SetGatewayTimeout(d time.Duration) {
	if d > 0 {
		s.gatewayTimeout = d
	}
}

// ListByTeam returns a team's saved formations, newest created first.
// Only roster members see them.
func (s *FormationService) ListByTeam(ctx context.Context, teamID string, actor user.Principal) ([]formation.Formation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormationService.ListByTeam")
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

	items, err := s.formationRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, wrapGatewayErr("list formations by team", err)
	}

	return items, nil
}

// GetByID loads one formation for editing. Actors outside the owning
// team get ErrForbidden.
func (s *FormationService) GetByID(ctx context.Context, formationID string, actor user.Principal) (formation.Formation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormationService.GetByID")
	defer span.End()

	item, err := s.loadFormation(ctx, formationID)
	if err != nil {
		return formation.Formation{}, err
	}
	if err := s.requireMembership(ctx, item.TeamID, actor.UserID); err != nil {
		return formation.Formation{}, err
	}

	return item, nil
}

// NewDefaultFormation builds an unsaved draft for a team: one player
// per on-court slot, position labels cycled from the sport vocabulary,
// jersey numbers 1..n, markers placed on a deterministic 3-column grid.
// Nothing is persisted.
func (s *FormationService) NewDefaultFormation(ctx context.Context, teamID string, actor user.Principal) (formation.Formation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormationService.NewDefaultFormation")
	defer span.End()

	owner, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return formation.Formation{}, err
	}
	if err := s.requireMembershipOf(ctx, owner, actor.UserID); err != nil {
		return formation.Formation{}, err
	}

	profile, ok := sport.ProfileFor(owner.Sport)
	if !ok {
		return formation.Formation{}, fmt.Errorf("%w: team %s has unknown sport %q", ErrInvalidInput, owner.ID, owner.Sport)
	}

	players := make([]formation.Player, 0, profile.PlayersCount)
	for i := 0; i < profile.PlayersCount; i++ {
		players = append(players, formation.Player{
			ID:           fmt.Sprintf("player-%d", i),
			Name:         fmt.Sprintf("Jogador %d", i+defaultJerseyOffset),
			Position:     profile.Positions[i%len(profile.Positions)],
			JerseyNumber: i + defaultJerseyOffset,
			X:            float64(defaultGridBaseX + (i%defaultGridColumns)*defaultGridStepX),
			Y:            float64(defaultGridBaseY + (i/defaultGridColumns)*defaultGridStepY),
		})
	}

	now := s.now().UTC()
	return formation.Formation{
		TeamID:    owner.ID,
		Name:      defaultFormationName,
		Sport:     owner.Sport,
		Players:   players,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Save persists a formation. Drafts are inserted and come back with the
// assigned id; existing formations get their name, players and
// updated_at replaced. The caller's in-memory copy is never mutated, so
// a failed save can simply be retried.
func (s *FormationService) Save(ctx context.Context, item formation.Formation, actor user.Principal) (formation.Formation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormationService.Save")
	defer span.End()

	item = item.Clone()
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return formation.Formation{}, fmt.Errorf("%w: formation name is required", ErrInvalidInput)
	}
	if strings.TrimSpace(item.TeamID) == "" {
		return formation.Formation{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if err := s.requireMembership(ctx, item.TeamID, actor.UserID); err != nil {
		return formation.Formation{}, err
	}

	profile, ok := sport.ProfileFor(item.Sport)
	if !ok {
		return formation.Formation{}, fmt.Errorf("%w: unknown sport %q", ErrInvalidInput, item.Sport)
	}
	clampPlayers(item.Players, profile)

	now := s.now().UTC()
	item.UpdatedAt = now

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	if !item.IsDraft() {
		saved, found, err := s.formationRepo.Update(ctx, item)
		if err != nil {
			return formation.Formation{}, wrapGatewayErr("update formation", err)
		}
		if !found {
			return formation.Formation{}, fmt.Errorf("%w: formation=%s", ErrNotFound, item.ID)
		}
		return saved, nil
	}

	if err := s.checkFormationLimit(ctx, item.TeamID, actor.Plan); err != nil {
		return formation.Formation{}, err
	}

	newID, err := s.idgen.NewID()
	if err != nil {
		return formation.Formation{}, fmt.Errorf("generate formation id: %w", err)
	}
	item.ID = newID
	item.CreatedBy = actor.UserID
	item.CreatedAt = now

	saved, err := s.formationRepo.Insert(ctx, item)
	if err != nil {
		return formation.Formation{}, wrapGatewayErr("insert formation", err)
	}

	return saved, nil
}

// Duplicate copies a persisted formation into a new row with " (Cópia)"
// appended to the name and the duplicating user as creator. The copy's
// lifecycle is independent of the original.
func (s *FormationService) Duplicate(ctx context.Context, formationID string, actor user.Principal) (formation.Formation, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormationService.Duplicate")
	defer span.End()

	original, err := s.GetByID(ctx, formationID, actor)
	if err != nil {
		return formation.Formation{}, err
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	if err := s.checkFormationLimit(ctx, original.TeamID, actor.Plan); err != nil {
		return formation.Formation{}, err
	}

	newID, err := s.idgen.NewID()
	if err != nil {
		return formation.Formation{}, fmt.Errorf("generate formation id: %w", err)
	}

	now := s.now().UTC()
	copied := original.Clone()
	copied.ID = newID
	copied.Name = original.Name + duplicateNameSuffix
	copied.CreatedBy = actor.UserID
	copied.CreatedAt = now
	copied.UpdatedAt = now

	saved, err := s.formationRepo.Insert(ctx, copied)
	if err != nil {
		return formation.Formation{}, wrapGatewayErr("insert duplicated formation", err)
	}

	return saved, nil
}

// Delete removes a persisted formation. Deleting a row that is already
// gone reports ErrNotFound so callers can tell it apart from transport
// failures.
func (s *FormationService) Delete(ctx context.Context, formationID string, actor user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.FormationService.Delete")
	defer span.End()

	item, err := s.loadFormation(ctx, formationID)
	if err != nil {
		return err
	}
	if err := s.requireMembership(ctx, item.TeamID, actor.UserID); err != nil {
		return err
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	found, err := s.formationRepo.Delete(ctx, item.ID)
	if err != nil {
		return wrapGatewayErr("delete formation", err)
	}
	if !found {
		return fmt.Errorf("%w: formation=%s", ErrNotFound, formationID)
	}

	return nil
}

func (s *FormationService) loadFormation(ctx context.Context, formationID string) (formation.Formation, error) {
	formationID = strings.TrimSpace(formationID)
	if formationID == "" {
		return formation.Formation{}, fmt.Errorf("%w: formation_id is required", ErrInvalidInput)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	item, found, err := s.formationRepo.GetByID(ctx, formationID)
	if err != nil {
		return formation.Formation{}, wrapGatewayErr("get formation by id", err)
	}
	if !found {
		return formation.Formation{}, fmt.Errorf("%w: formation=%s", ErrNotFound, formationID)
	}

	return item, nil
}

func (s *FormationService) requireMembership(ctx context.Context, teamID, userID string) error {
	owner, err := s.loadTeam(ctx, teamID)
	if err != nil {
		return err
	}
	return s.requireMembershipOf(ctx, owner, userID)
}

func (s *FormationService) requireMembershipOf(ctx context.Context, owner team.Team, userID string) error {
	if owner.CreatedBy == userID {
		return nil
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	_, member, err := s.teamRepo.GetMemberByUser(ctx, owner.ID, userID)
	if err != nil {
		return wrapGatewayErr("get membership", err)
	}
	if !member {
		return fmt.Errorf("%w: not a member of team=%s", ErrForbidden, owner.ID)
	}
	return nil
}

// clampPlayers snaps every marker back inside the sport's court before
// the formation is written, so out-of-bounds coordinates never persist.
func clampPlayers(players []formation.Player, profile sport.Profile) {
	court := board.Court{Width: profile.Court.Width, Height: profile.Court.Height}
	for i := range players {
		p := board.ClampPosition(board.Point{X: players[i].X, Y: players[i].Y}, 0, 0, court)
		players[i].X = p.X
		players[i].Y = p.Y
	}
}

func (s *FormationService) loadTeam(ctx context.Context, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	owner, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, wrapGatewayErr("get team by id", err)
	}
	if !found {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	return owner, nil
}

func (s *FormationService) checkFormationLimit(ctx context.Context, teamID string, plan user.Plan) error {
	count, err := s.formationRepo.CountByTeam(ctx, teamID)
	if err != nil {
		return wrapGatewayErr("count formations by team", err)
	}
	if count >= user.LimitsFor(plan).Formations {
		return fmt.Errorf("%w: formations per team on plan %s", ErrPlanLimitReached, plan)
	}
	return nil
}
