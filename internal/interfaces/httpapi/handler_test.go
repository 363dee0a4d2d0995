package httpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/courtside-app/courtside-api/internal/domain/chat"
	"github.com/courtside-app/courtside-api/internal/domain/user"
	"github.com/courtside-app/courtside-api/internal/infrastructure/repository/memory"
	"github.com/courtside-app/courtside-api/internal/platform/cache"
	"github.com/courtside-app/courtside-api/internal/platform/id"
	"github.com/courtside-app/courtside-api/internal/platform/realtime"
	"github.com/courtside-app/courtside-api/internal/usecase"
)

type noDirectory struct{}

func (noDirectory) LookupByEmail(context.Context, string) (user.Principal, error) {
	return user.Principal{}, fmt.Errorf("%w: no such account", usecase.ErrNotFound)
}

type tokenVerifier map[string]user.Principal

func (v tokenVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	principal, ok := v[token]
	if !ok {
		return user.Principal{}, fmt.Errorf("%w: unknown token", usecase.ErrUnauthorized)
	}
	return principal, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	teamRepo := memory.NewTeamRepository()
	formationRepo := memory.NewFormationRepository()
	eventRepo := memory.NewEventRepository()
	chatRepo := memory.NewChatRepository()

	stream, err := realtime.NewBroadcaster[chat.Message](2)
	if err != nil {
		t.Fatalf("new broadcaster: %v", err)
	}
	t.Cleanup(stream.Close)

	idgen := id.NewRandomGenerator()
	teamService := usecase.NewTeamService(teamRepo, noDirectory{}, idgen, cache.NewStore(time.Minute))
	formationService := usecase.NewFormationService(formationRepo, teamRepo, idgen)
	eventService := usecase.NewEventService(eventRepo, teamRepo, idgen)
	chatService := usecase.NewChatService(chatRepo, teamService, idgen, stream)
	overviewService := usecase.NewOverviewService(teamRepo, eventRepo, formationRepo)

	handler := NewHandler(teamService, formationService, eventService, chatService, overviewService, slog.Default())
	verifier := tokenVerifier{
		"coach-token":    {UserID: "user-coach", Email: "coach@example.com", Name: "Coach", Plan: user.PlanPremium},
		"stranger-token": {UserID: "user-stranger", Email: "stranger@example.com", Name: "Stranger", Plan: user.PlanPremium},
	}

	return NewRouter(handler, verifier, slog.Default(), []string{"*"})
}

func doJSON(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		APIVersion string          `json:"apiVersion"`
		Data       json.RawMessage `json:"data"`
	}
	if err := sonic.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal envelope: %v", err)
	}
	if err := sonic.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("unmarshal data: %v", err)
	}
}

func TestRouter_HealthzIsPublic(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_SportsCatalogIsPublic(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/v1/sports", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var sports []sportDTO
	decodeData(t, rec, &sports)
	if len(sports) != 5 {
		t.Fatalf("expected 5 sports, got %d", len(sports))
	}
}

func TestRouter_TeamsRequireAuth(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/v1/teams", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestRouter_TeamAndFormationLifecycle(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/teams", "coach-token",
		`{"name":"Vôlei Estrela","sport":"volleyball"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create team: expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var created teamDTO
	decodeData(t, rec, &created)
	if created.ID == "" {
		t.Fatalf("expected created team to carry an id")
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/teams/"+created.ID+"/formations/default", "coach-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("default formation: expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	var draft formationDTO
	decodeData(t, rec, &draft)
	if draft.ID != "" {
		t.Fatalf("expected default formation to be a draft, got id %q", draft.ID)
	}
	if len(draft.Players) != 6 {
		t.Fatalf("expected 6 volleyball players, got %d", len(draft.Players))
	}

	payload, err := sonic.MarshalString(saveFormationRequest{Name: "Sistema 5x1", Players: draft.Players})
	if err != nil {
		t.Fatalf("marshal save request: %v", err)
	}
	rec = doJSON(t, router, http.MethodPost, "/v1/teams/"+created.ID+"/formations", "coach-token", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save formation: expected status 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var saved formationDTO
	decodeData(t, rec, &saved)
	if saved.ID == "" {
		t.Fatalf("expected saved formation to carry an id")
	}

	rec = doJSON(t, router, http.MethodGet, "/v1/teams/"+created.ID+"/formations", "coach-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list formations: expected status 200, got %d", rec.Code)
	}

	var formations []formationDTO
	decodeData(t, rec, &formations)
	if len(formations) != 1 || formations[0].ID != saved.ID {
		t.Fatalf("expected the saved formation in the list, got %+v", formations)
	}

	rec = doJSON(t, router, http.MethodDelete, "/v1/formations/"+saved.ID, "coach-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete formation: expected status 200, got %d", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/v1/formations/"+saved.ID, "coach-token", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected status 404, got %d", rec.Code)
	}
}

func TestRouter_ForeignFormationAccessForbidden(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/teams", "coach-token",
		`{"name":"Vôlei Estrela","sport":"volleyball"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create team: expected status 201, got %d", rec.Code)
	}
	var created teamDTO
	decodeData(t, rec, &created)

	rec = doJSON(t, router, http.MethodGet, "/v1/teams/"+created.ID+"/formations/default", "coach-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("default formation: expected status 200, got %d", rec.Code)
	}
	var draft formationDTO
	decodeData(t, rec, &draft)

	payload, err := sonic.MarshalString(saveFormationRequest{Name: "Sistema 5x1", Players: draft.Players})
	if err != nil {
		t.Fatalf("marshal save request: %v", err)
	}
	rec = doJSON(t, router, http.MethodPost, "/v1/teams/"+created.ID+"/formations", "coach-token", payload)
	if rec.Code != http.StatusCreated {
		t.Fatalf("save formation: expected status 201, got %d", rec.Code)
	}
	var saved formationDTO
	decodeData(t, rec, &saved)

	// A user outside the roster gets 403 on every formation route.
	rec = doJSON(t, router, http.MethodGet, "/v1/formations/"+saved.ID, "stranger-token", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign get: expected status 403, got %d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodPut, "/v1/formations/"+saved.ID, "stranger-token", payload)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign update: expected status 403, got %d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodDelete, "/v1/formations/"+saved.ID, "stranger-token", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign delete: expected status 403, got %d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodGet, "/v1/teams/"+created.ID+"/formations", "stranger-token", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign list: expected status 403, got %d body=%s", rec.Code, rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodPut, "/v1/teams/"+created.ID, "stranger-token",
		`{"name":"Roubado"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("foreign team update: expected status 403, got %d body=%s", rec.Code, rec.Body.String())
	}

	// Nothing was deleted or renamed by the rejected calls.
	rec = doJSON(t, router, http.MethodGet, "/v1/formations/"+saved.ID, "coach-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("owner get after rejected delete: expected status 200, got %d", rec.Code)
	}
	var current formationDTO
	decodeData(t, rec, &current)
	if current.Name != "Sistema 5x1" {
		t.Fatalf("expected formation untouched, got name %q", current.Name)
	}
}

func TestRouter_SaveFormationRejectsBlankName(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/teams", "coach-token",
		`{"name":"Futsal Clube","sport":"futsal"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create team: expected status 201, got %d", rec.Code)
	}

	var created teamDTO
	decodeData(t, rec, &created)

	rec = doJSON(t, router, http.MethodPost, "/v1/teams/"+created.ID+"/formations", "coach-token",
		`{"name":"","players":[{"id":"player-0","name":"Jogador 1","position":"Goleiro","jerseyNumber":1,"x":50,"y":100}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_UnknownSportRejected(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/v1/teams", "coach-token",
		`{"name":"Time Xadrez","sport":"chess"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}
