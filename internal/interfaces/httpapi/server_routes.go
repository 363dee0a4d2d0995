package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/sports", handler.ListSports)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	registerAuthorizedOverviewRoutes(mux, handler, verifier)
	registerAuthorizedTeamRoutes(mux, handler, verifier)
	registerAuthorizedFormationRoutes(mux, handler, verifier)
	registerAuthorizedEventRoutes(mux, handler, verifier)
	registerAuthorizedChatRoutes(mux, handler, verifier)
}

func registerAuthorizedOverviewRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/overview", RequireAuth(verifier, http.HandlerFunc(handler.GetOverview)))
}

func registerAuthorizedTeamRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams", RequireAuth(verifier, http.HandlerFunc(handler.ListMyTeams)))
	mux.Handle("POST /v1/teams", RequireAuth(verifier, http.HandlerFunc(handler.CreateTeam)))
	mux.Handle("GET /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.GetTeam)))
	mux.Handle("PUT /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateTeam)))
	mux.Handle("DELETE /v1/teams/{teamID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteTeam)))
	mux.Handle("GET /v1/teams/{teamID}/members", RequireAuth(verifier, http.HandlerFunc(handler.ListTeamMembers)))
	mux.Handle("POST /v1/teams/{teamID}/members", RequireAuth(verifier, http.HandlerFunc(handler.InviteTeamMember)))
	mux.Handle("POST /v1/teams/{teamID}/leave", RequireAuth(verifier, http.HandlerFunc(handler.LeaveTeam)))
	mux.Handle("PUT /v1/members/{memberID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateTeamMember)))
	mux.Handle("DELETE /v1/members/{memberID}", RequireAuth(verifier, http.HandlerFunc(handler.RemoveTeamMember)))
}

func registerAuthorizedFormationRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams/{teamID}/formations", RequireAuth(verifier, http.HandlerFunc(handler.ListFormationsByTeam)))
	mux.Handle("POST /v1/teams/{teamID}/formations", RequireAuth(verifier, http.HandlerFunc(handler.CreateFormation)))
	mux.Handle("GET /v1/teams/{teamID}/formations/default", RequireAuth(verifier, http.HandlerFunc(handler.GetDefaultFormation)))
	mux.Handle("GET /v1/formations/{formationID}", RequireAuth(verifier, http.HandlerFunc(handler.GetFormation)))
	mux.Handle("PUT /v1/formations/{formationID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateFormation)))
	mux.Handle("DELETE /v1/formations/{formationID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteFormation)))
	mux.Handle("POST /v1/formations/{formationID}/duplicate", RequireAuth(verifier, http.HandlerFunc(handler.DuplicateFormation)))
}

func registerAuthorizedEventRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams/{teamID}/events", RequireAuth(verifier, http.HandlerFunc(handler.ListEventsByTeam)))
	mux.Handle("POST /v1/teams/{teamID}/events", RequireAuth(verifier, http.HandlerFunc(handler.CreateEvent)))
	mux.Handle("PUT /v1/events/{eventID}", RequireAuth(verifier, http.HandlerFunc(handler.UpdateEvent)))
	mux.Handle("DELETE /v1/events/{eventID}", RequireAuth(verifier, http.HandlerFunc(handler.DeleteEvent)))
}

func registerAuthorizedChatRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/teams/{teamID}/chats", RequireAuth(verifier, http.HandlerFunc(handler.ListChatsByTeam)))
	mux.Handle("POST /v1/teams/{teamID}/chats", RequireAuth(verifier, http.HandlerFunc(handler.CreateChat)))
	mux.Handle("GET /v1/chats/{chatID}/messages", RequireAuth(verifier, http.HandlerFunc(handler.ListChatMessages)))
	mux.Handle("POST /v1/chats/{chatID}/messages", RequireAuth(verifier, http.HandlerFunc(handler.PostChatMessage)))
	mux.Handle("GET /v1/chats/{chatID}/stream", RequireAuth(verifier, http.HandlerFunc(handler.StreamChat)))
}
