package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/courtside-app/courtside-api/internal/domain/formation"
	"github.com/courtside-app/courtside-api/internal/usecase"
)

func (h *Handler) ListFormationsByTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListFormationsByTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	formations, err := h.formationService.ListByTeam(ctx, teamID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "list formations failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]formationDTO, 0, len(formations))
	for _, f := range formations {
		items = append(items, formationToDTO(ctx, f))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

// GetDefaultFormation returns an unsaved draft laid out on the default
// grid for the team's sport. Nothing is persisted until the client
// saves it back.
func (h *Handler) GetDefaultFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDefaultFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	draft, err := h.formationService.NewDefaultFormation(ctx, teamID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "build default formation failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, formationToDTO(ctx, draft))
}

func (h *Handler) CreateFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	teamID := r.PathValue("teamID")
	var req saveFormationRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	owner, err := h.teamService.GetForMember(ctx, teamID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "load team for formation failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	draft := formation.Formation{
		TeamID:  owner.ID,
		Name:    req.Name,
		Sport:   owner.Sport,
		Players: playersFromDTO(ctx, req.Players),
	}

	saved, err := h.formationService.Save(ctx, draft, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "create formation failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, formationToDTO(ctx, saved))
}

func (h *Handler) GetFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	formationID := r.PathValue("formationID")
	item, err := h.formationService.GetByID(ctx, formationID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "get formation failed", "formation_id", formationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, formationToDTO(ctx, item))
}

func (h *Handler) UpdateFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	formationID := r.PathValue("formationID")
	var req saveFormationRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	existing, err := h.formationService.GetByID(ctx, formationID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "load formation for update failed", "formation_id", formationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	existing.Name = req.Name
	existing.Players = playersFromDTO(ctx, req.Players)

	saved, err := h.formationService.Save(ctx, existing, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "update formation failed", "formation_id", formationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, formationToDTO(ctx, saved))
}

func (h *Handler) DeleteFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	formationID := r.PathValue("formationID")
	if err := h.formationService.Delete(ctx, formationID, principal); err != nil {
		h.logger.WarnContext(ctx, "delete formation failed", "formation_id", formationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) DuplicateFormation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DuplicateFormation")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	formationID := r.PathValue("formationID")
	copied, err := h.formationService.Duplicate(ctx, formationID, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "duplicate formation failed", "formation_id", formationID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, formationToDTO(ctx, copied))
}

type saveFormationRequest struct {
	Name    string      `json:"name" validate:"required,max=100"`
	Players []playerDTO `json:"players" validate:"required,min=1,dive"`
}

type playerDTO struct {
	ID           string  `json:"id" validate:"required"`
	Name         string  `json:"name" validate:"required,max=100"`
	Position     string  `json:"position" validate:"max=50"`
	JerseyNumber int     `json:"jerseyNumber" validate:"min=0,max=999"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
}

type formationDTO struct {
	ID        string      `json:"id,omitempty"`
	TeamID    string      `json:"teamId"`
	Name      string      `json:"name"`
	Sport     string      `json:"sport"`
	Players   []playerDTO `json:"players"`
	CreatedBy string      `json:"createdBy,omitempty"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
}

func playersFromDTO(ctx context.Context, items []playerDTO) []formation.Player {
	ctx, span := startSpan(ctx, "httpapi.playersFromDTO")
	defer span.End()

	players := make([]formation.Player, 0, len(items))
	for _, p := range items {
		players = append(players, formation.Player{
			ID:           p.ID,
			Name:         p.Name,
			Position:     p.Position,
			JerseyNumber: p.JerseyNumber,
			X:            p.X,
			Y:            p.Y,
		})
	}

	return players
}

func formationToDTO(ctx context.Context, v formation.Formation) formationDTO {
	ctx, span := startSpan(ctx, "httpapi.formationToDTO")
	defer span.End()

	players := make([]playerDTO, 0, len(v.Players))
	for _, p := range v.Players {
		players = append(players, playerDTO{
			ID:           p.ID,
			Name:         p.Name,
			Position:     p.Position,
			JerseyNumber: p.JerseyNumber,
			X:            p.X,
			Y:            p.Y,
		})
	}

	return formationDTO{
		ID:        v.ID,
		TeamID:    v.TeamID,
		Name:      v.Name,
		Sport:     string(v.Sport),
		Players:   players,
		CreatedBy: v.CreatedBy,
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
