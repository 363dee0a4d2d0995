package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/courtside-app/courtside-api/internal/domain/board"
	"github.com/courtside-app/courtside-api/internal/domain/formation"
	"github.com/courtside-app/courtside-api/internal/domain/sport"
	"github.com/courtside-app/courtside-api/internal/domain/team"
	"github.com/courtside-app/courtside-api/internal/domain/user"
)

// BoardSessionState names what, if anything, the session is editing.
type BoardSessionState int

const (
	NoFormationOpen BoardSessionState = iota
	EditingNewFormation
	EditingExistingFormation
)

// BoardSession is one tactical-board screen instance: the single
// source of truth for the formation currently being edited. It owns its
// in-memory copy exclusively; the repositories own the durable one.
// Edits accumulate locally and only an explicit Save pushes them out.
//
// The session runs on one UI loop and is not goroutine-safe. Each
// marker gets an independent drag controller, so overlapping gestures
// on different markers never interfere.
type BoardSession struct {
	formations *FormationService
	actor      user.Principal
	team       team.Team
	court      board.Court

	state   BoardSessionState
	current formation.Formation
	drags   map[string]*board.Drag
}

// NewBoardSession builds a session for one team's board. The actor and
// team come in explicitly rather than from ambient process state so a
// session is constructible in isolation.
func NewBoardSession(formations *FormationService, actor user.Principal, owner team.Team) (*BoardSession, error) {
	profile, ok := sport.ProfileFor(owner.Sport)
	if !ok {
		return nil, fmt.Errorf("%w: team %s has unknown sport %q", ErrInvalidInput, owner.ID, owner.Sport)
	}

	return &BoardSession{
		formations: formations,
		actor:      actor,
		team:       owner,
		court:      board.Court{Width: profile.Court.Width, Height: profile.Court.Height},
		drags:      make(map[string]*board.Drag),
	}, nil
}

func (s *BoardSession) State() BoardSessionState {
	return s.state
}

// Current returns the open formation, or false when nothing is open.
func (s *BoardSession) Current() (formation.Formation, bool) {
	if s.state == NoFormationOpen {
		return formation.Formation{}, false
	}
	return s.current.Clone(), true
}

// OpenNew starts editing a fresh default-layout draft. Any formation
// already open is discarded without confirmation, matching the
// board's back-navigation behavior.
func (s *BoardSession) OpenNew(ctx context.Context) (formation.Formation, error) {
	draft, err := s.formations.NewDefaultFormation(ctx, s.team.ID, s.actor)
	if err != nil {
		return formation.Formation{}, err
	}

	s.open(draft, EditingNewFormation)
	return draft.Clone(), nil
}

// OpenExisting loads a persisted formation for editing.
func (s *BoardSession) OpenExisting(ctx context.Context, formationID string) (formation.Formation, error) {
	item, err := s.formations.GetByID(ctx, formationID, s.actor)
	if err != nil {
		return formation.Formation{}, err
	}
	if item.TeamID != s.team.ID {
		return formation.Formation{}, fmt.Errorf("%w: formation %s does not belong to team %s", ErrForbidden, formationID, s.team.ID)
	}

	s.open(item, EditingExistingFormation)
	return item.Clone(), nil
}

// Close discards the open formation. Unsaved edits are dropped
// silently.
func (s *BoardSession) Close() {
	s.state = NoFormationOpen
	s.current = formation.Formation{}
	s.drags = make(map[string]*board.Drag)
}

// Rename replaces the candidate name. Validation happens on save, not
// here, so the user can type through invalid intermediate states.
func (s *BoardSession) Rename(name string) error {
	if s.state == NoFormationOpen {
		return fmt.Errorf("%w: no formation open", ErrInvalidInput)
	}
	s.current.Name = name
	return nil
}

// BeginDrag starts a gesture on one marker, anchored at the player's
// current position.
func (s *BoardSession) BeginDrag(playerID string) error {
	p, ok := s.findPlayer(playerID)
	if !ok {
		return fmt.Errorf("%w: player=%s", ErrNotFound, playerID)
	}

	drag := board.NewDrag(s.court)
	drag.Start(board.Point{X: p.X, Y: p.Y})
	s.drags[playerID] = drag
	return nil
}

// MoveDrag feeds one movement sample; dx/dy are cumulative since
// BeginDrag. The returned point is the clamped, uncommitted position.
func (s *BoardSession) MoveDrag(playerID string, dx, dy float64) (board.Point, error) {
	drag, ok := s.drags[playerID]
	if !ok {
		return board.Point{}, fmt.Errorf("%w: no active drag for player=%s", ErrInvalidInput, playerID)
	}
	return drag.Move(dx, dy), nil
}

// EndDrag releases the gesture and commits the final clamped position
// to the session's player list.
func (s *BoardSession) EndDrag(playerID string) (board.Point, error) {
	drag, ok := s.drags[playerID]
	if !ok {
		return board.Point{}, fmt.Errorf("%w: no active drag for player=%s", ErrInvalidInput, playerID)
	}

	final := drag.Release()
	delete(s.drags, playerID)

	for i := range s.current.Players {
		if s.current.Players[i].ID == playerID {
			s.current.Players[i].X = final.X
			s.current.Players[i].Y = final.Y
			break
		}
	}
	return final, nil
}

// Save validates and persists the open formation. On success the
// session transitions back to NoFormationOpen (save-and-close); on
// failure it stays put with all edits intact so the user can retry.
func (s *BoardSession) Save(ctx context.Context, name string) (formation.Formation, error) {
	if s.state == NoFormationOpen {
		return formation.Formation{}, fmt.Errorf("%w: no formation open", ErrInvalidInput)
	}
	if strings.TrimSpace(name) == "" {
		return formation.Formation{}, fmt.Errorf("%w: formation name is required", ErrInvalidInput)
	}

	candidate := s.current.Clone()
	candidate.Name = strings.TrimSpace(name)

	saved, err := s.formations.Save(ctx, candidate, s.actor)
	if err != nil {
		return formation.Formation{}, err
	}

	s.Close()
	return saved, nil
}

// Duplicate copies a persisted formation; the open formation, if any,
// is unaffected.
func (s *BoardSession) Duplicate(ctx context.Context, formationID string) (formation.Formation, error) {
	return s.formations.Duplicate(ctx, formationID, s.actor)
}

// Delete removes a persisted formation. If it is the one currently
// open, the session clears its open state as a purely local
// consequence, regardless of any refresh ordering around the call.
func (s *BoardSession) Delete(ctx context.Context, formationID string) error {
	if err := s.formations.Delete(ctx, formationID, s.actor); err != nil {
		return err
	}

	if s.state != NoFormationOpen && s.current.ID == formationID {
		s.Close()
	}
	return nil
}

// ListFormations refreshes the saved-formation list for the session's
// team.
func (s *BoardSession) ListFormations(ctx context.Context) ([]formation.Formation, error) {
	return s.formations.ListByTeam(ctx, s.team.ID, s.actor)
}

func (s *BoardSession) open(item formation.Formation, state BoardSessionState) {
	s.current = item.Clone()
	s.state = state
	s.drags = make(map[string]*board.Drag)
}

func (s *BoardSession) findPlayer(playerID string) (formation.Player, bool) {
	if s.state == NoFormationOpen {
		return formation.Player{}, false
	}
	for _, p := range s.current.Players {
		if p.ID == playerID {
			return p, true
		}
	}
	return formation.Player{}, false
}
