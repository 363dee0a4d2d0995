package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"

	"github.com/courtside-app/courtside-api/internal/domain/sport"
	"github.com/courtside-app/courtside-api/internal/usecase"
)

type Handler struct {
	teamService      *usecase.TeamService
	formationService *usecase.FormationService
	eventService     *usecase.EventService
	chatService      *usecase.ChatService
	overviewService  *usecase.OverviewService
	logger           *slog.Logger
	validator        *validator.Validate
	upgrader         websocket.Upgrader
}

func NewHandler(
	teamService *usecase.TeamService,
	formationService *usecase.FormationService,
	eventService *usecase.EventService,
	chatService *usecase.ChatService,
	overviewService *usecase.OverviewService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		teamService:      teamService,
		formationService: formationService,
		eventService:     eventService,
		chatService:      chatService,
		overviewService:  overviewService,
		logger:           logger,
		validator:        validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Origin enforcement happens in the CORS middleware; the
			// stream endpoint is already behind bearer auth.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListSports(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSports")
	defer span.End()

	profiles := sport.Profiles()
	items := make([]sportDTO, 0, len(profiles))
	for _, p := range profiles {
		items = append(items, sportToDTO(ctx, p))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetOverview")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	entries, err := h.overviewService.ForUser(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "get overview failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamOverviewDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, teamOverviewToDTO(ctx, entry))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type sportDTO struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	PlayersCount int      `json:"playersCount"`
	Positions    []string `json:"positions"`
	CourtWidth   int      `json:"courtWidth"`
	CourtHeight  int      `json:"courtHeight"`
}

type teamOverviewDTO struct {
	Team             teamDTO        `json:"team"`
	MemberCount      int            `json:"memberCount"`
	UpcomingEvents   []eventDTO     `json:"upcomingEvents"`
	RecentFormations []formationDTO `json:"recentFormations"`
}

func sportToDTO(ctx context.Context, p sport.Profile) sportDTO {
	ctx, span := startSpan(ctx, "httpapi.sportToDTO")
	defer span.End()

	return sportDTO{
		ID:           string(p.ID),
		Name:         p.Name,
		PlayersCount: p.PlayersCount,
		Positions:    append([]string(nil), p.Positions...),
		CourtWidth:   p.Court.Width,
		CourtHeight:  p.Court.Height,
	}
}

func teamOverviewToDTO(ctx context.Context, entry usecase.TeamOverview) teamOverviewDTO {
	ctx, span := startSpan(ctx, "httpapi.teamOverviewToDTO")
	defer span.End()

	events := make([]eventDTO, 0, len(entry.UpcomingEvents))
	for _, e := range entry.UpcomingEvents {
		events = append(events, eventToDTO(ctx, e))
	}

	formations := make([]formationDTO, 0, len(entry.RecentFormations))
	for _, f := range entry.RecentFormations {
		formations = append(formations, formationToDTO(ctx, f))
	}

	return teamOverviewDTO{
		Team:             teamToDTO(ctx, entry.Team),
		MemberCount:      entry.MemberCount,
		UpcomingEvents:   events,
		RecentFormations: formations,
	}
}
