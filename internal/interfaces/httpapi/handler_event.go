package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/courtside-app/courtside-api/internal/domain/event"
	"github.com/courtside-app/courtside-api/internal/usecase"
)

func (h *Handler) ListEventsByTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventsByTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	events, err := h.eventService.ListByTeam(ctx, teamID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "list events failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]eventDTO, 0, len(events))
	for _, e := range events {
		items = append(items, eventToDTO(ctx, e))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateEvent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	req, err := h.decodeEventRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	input, err := eventInputFromRequest(ctx, teamID, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.eventService.Create(ctx, input, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "create event failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, eventToDTO(ctx, created))
}

func (h *Handler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateEvent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	eventID := r.PathValue("eventID")
	req, err := h.decodeEventRequest(ctx, r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	input, err := eventInputFromRequest(ctx, req.TeamID, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	updated, err := h.eventService.Update(ctx, eventID, input, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "update event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, eventToDTO(ctx, updated))
}

func (h *Handler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteEvent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	eventID := r.PathValue("eventID")
	if err := h.eventService.Delete(ctx, eventID, principal); err != nil {
		h.logger.WarnContext(ctx, "delete event failed", "event_id", eventID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) decodeEventRequest(ctx context.Context, r *http.Request) (saveEventRequest, error) {
	ctx, span := startSpan(ctx, "httpapi.Handler.decodeEventRequest")
	defer span.End()

	var req saveEventRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return saveEventRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validateRequest(ctx, req); err != nil {
		return saveEventRequest{}, err
	}

	return req, nil
}

type saveEventRequest struct {
	TeamID      string `json:"teamId"`
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	Type        string `json:"type" validate:"required,oneof=training friendly championship meeting"`
	StartAt     string `json:"startAt" validate:"required"`
	EndAt       string `json:"endAt" validate:"required"`
	Location    string `json:"location" validate:"max=200"`
}

type eventDTO struct {
	ID          string `json:"id"`
	TeamID      string `json:"teamId"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"`
	StartAt     string `json:"startAt"`
	EndAt       string `json:"endAt"`
	Location    string `json:"location,omitempty"`
	CreatedBy   string `json:"createdBy"`
	CreatedAt   string `json:"createdAt"`
}

func eventInputFromRequest(ctx context.Context, teamID string, req saveEventRequest) (usecase.SaveEventInput, error) {
	ctx, span := startSpan(ctx, "httpapi.eventInputFromRequest")
	defer span.End()

	startAt, err := time.Parse(time.RFC3339, req.StartAt)
	if err != nil {
		return usecase.SaveEventInput{}, fmt.Errorf("%w: startAt must be RFC 3339: %v", usecase.ErrInvalidInput, err)
	}
	endAt, err := time.Parse(time.RFC3339, req.EndAt)
	if err != nil {
		return usecase.SaveEventInput{}, fmt.Errorf("%w: endAt must be RFC 3339: %v", usecase.ErrInvalidInput, err)
	}

	return usecase.SaveEventInput{
		TeamID:      teamID,
		Title:       req.Title,
		Description: req.Description,
		Type:        event.Type(req.Type),
		StartAt:     startAt,
		EndAt:       endAt,
		Location:    req.Location,
	}, nil
}

func eventToDTO(ctx context.Context, v event.Event) eventDTO {
	ctx, span := startSpan(ctx, "httpapi.eventToDTO")
	defer span.End()

	return eventDTO{
		ID:          v.ID,
		TeamID:      v.TeamID,
		Title:       v.Title,
		Description: v.Description,
		Type:        string(v.Type),
		StartAt:     v.StartAt.UTC().Format(time.RFC3339),
		EndAt:       v.EndAt.UTC().Format(time.RFC3339),
		Location:    v.Location,
		CreatedBy:   v.CreatedBy,
		CreatedAt:   v.CreatedAt.UTC().Format(time.RFC3339),
	}
}
