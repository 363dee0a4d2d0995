package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/event"
	"github.com/courtside-app/courtside-api/internal/domain/team"
	"github.com/courtside-app/courtside-api/internal/domain/user"
	"github.com/courtside-app/courtside-api/internal/platform/id"
)

type SaveEventInput struct {
	TeamID      string
	Title       string
	Description string
	Type        event.Type
	StartAt     time.Time
	EndAt       time.Time
	Location    string
}

// EventService manages a team's calendar. Every operation checks the
// actor against the owning team's roster.
type EventService struct {
	eventRepo      event.Repository
	teamRepo       team.Repository
	idgen          id.Generator
	gatewayTimeout time.Duration
	now            func() time.Time
}

func NewEventService(eventRepo event.Repository, teamRepo team.Repository, idgen id.Generator) *EventService {
	return &EventService{
		eventRepo:      eventRepo,
		teamRepo:       teamRepo,
		idgen:          idgen,
		gatewayTimeout: DefaultGatewayTimeout,
		now:            time.Now,
	}
}

// SetGatewayTimeout overrides the per-call persistence deadline.
func (s *EventService) SetGatewayTimeout(d time.Duration) {
	if d > 0 {
		s.gatewayTimeout = d
	}
}

func (s *EventService) ListByTeam(ctx context.Context, teamID string, actor user.Principal) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.ListByTeam")
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

	items, err := s.eventRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, wrapGatewayErr("list events by team", err)
	}

	return items, nil
}

func (s *EventService) Create(ctx context.Context, input SaveEventInput, actor user.Principal) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Create")
	defer span.End()

	if err := validateEventInput(&input); err != nil {
		return event.Event{}, err
	}
	if err := s.requireMembership(ctx, input.TeamID, actor.UserID); err != nil {
		return event.Event{}, err
	}

	eventID, err := s.idgen.NewID()
	if err != nil {
		return event.Event{}, fmt.Errorf("generate event id: %w", err)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	created, err := s.eventRepo.Insert(ctx, event.Event{
		ID:          eventID,
		TeamID:      input.TeamID,
		Title:       input.Title,
		Description: input.Description,
		Type:        input.Type,
		StartAt:     input.StartAt.UTC(),
		EndAt:       input.EndAt.UTC(),
		Location:    input.Location,
		CreatedBy:   actor.UserID,
		CreatedAt:   s.now().UTC(),
	})
	if err != nil {
		return event.Event{}, wrapGatewayErr("insert event", err)
	}

	return created, nil
}

func (s *EventService) Update(ctx context.Context, eventID string, input SaveEventInput, actor user.Principal) (event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Update")
	defer span.End()

	if err := validateEventInput(&input); err != nil {
		return event.Event{}, err
	}

	current, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return event.Event{}, err
	}
	if err := s.requireMembership(ctx, current.TeamID, actor.UserID); err != nil {
		return event.Event{}, err
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	current.Title = input.Title
	current.Description = input.Description
	current.Type = input.Type
	current.StartAt = input.StartAt.UTC()
	current.EndAt = input.EndAt.UTC()
	current.Location = input.Location

	updated, found, err := s.eventRepo.Update(ctx, current)
	if err != nil {
		return event.Event{}, wrapGatewayErr("update event", err)
	}
	if !found {
		return event.Event{}, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}

	return updated, nil
}

func (s *EventService) Delete(ctx context.Context, eventID string, actor user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Delete")
	defer span.End()

	current, err := s.loadEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if err := s.requireMembership(ctx, current.TeamID, actor.UserID); err != nil {
		return err
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	found, err := s.eventRepo.Delete(ctx, current.ID)
	if err != nil {
		return wrapGatewayErr("delete event", err)
	}
	if !found {
		return fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}

	return nil
}

func (s *EventService) loadEvent(ctx context.Context, eventID string) (event.Event, error) {
	eventID = strings.TrimSpace(eventID)
	if eventID == "" {
		return event.Event{}, fmt.Errorf("%w: event_id is required", ErrInvalidInput)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	current, found, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return event.Event{}, wrapGatewayErr("get event by id", err)
	}
	if !found {
		return event.Event{}, fmt.Errorf("%w: event=%s", ErrNotFound, eventID)
	}

	return current, nil
}

func (s *EventService) requireMembership(ctx context.Context, teamID, userID string) error {
	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	owner, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return wrapGatewayErr("get team by id", err)
	}
	if !found {
		return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if owner.CreatedBy == userID {
		return nil
	}

	_, member, err := s.teamRepo.GetMemberByUser(ctx, teamID, userID)
	if err != nil {
		return wrapGatewayErr("get membership", err)
	}
	if !member {
		return fmt.Errorf("%w: not a member of team=%s", ErrForbidden, teamID)
	}
	return nil
}

func validateEventInput(input *SaveEventInput) error {
	input.TeamID = strings.TrimSpace(input.TeamID)
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)

	if input.TeamID == "" {
		return fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}
	if input.Title == "" {
		return fmt.Errorf("%w: event title is required", ErrInvalidInput)
	}
	if !event.ValidType(input.Type) {
		return fmt.Errorf("%w: unknown event type %q", ErrInvalidInput, input.Type)
	}
	if input.StartAt.IsZero() || input.EndAt.IsZero() {
		return fmt.Errorf("%w: start and end times are required", ErrInvalidInput)
	}
	if input.EndAt.Before(input.StartAt) {
		return fmt.Errorf("%w: event cannot end before it starts", ErrInvalidInput)
	}
	return nil
}
