package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/courtside-app/courtside-api/internal/config"
	"github.com/courtside-app/courtside-api/internal/domain/chat"
	"github.com/courtside-app/courtside-api/internal/domain/event"
	"github.com/courtside-app/courtside-api/internal/domain/formation"
	"github.com/courtside-app/courtside-api/internal/domain/team"
	"github.com/courtside-app/courtside-api/internal/infrastructure/account/sessiond"
	"github.com/courtside-app/courtside-api/internal/infrastructure/repository/memory"
	"github.com/courtside-app/courtside-api/internal/infrastructure/repository/postgres"
	"github.com/courtside-app/courtside-api/internal/interfaces/httpapi"
	"github.com/courtside-app/courtside-api/internal/platform/cache"
	idgen "github.com/courtside-app/courtside-api/internal/platform/id"
	"github.com/courtside-app/courtside-api/internal/platform/logging"
	"github.com/courtside-app/courtside-api/internal/platform/realtime"
	"github.com/courtside-app/courtside-api/internal/platform/resilience"
	"github.com/courtside-app/courtside-api/internal/usecase"
)

type repositories struct {
	teams      team.Repository
	formations formation.Repository
	events     event.Repository
	chats      chat.Repository
}

func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, error) {
	if logger == nil {
		logger = logging.Default()
	}

	repos, err := buildRepositories(cfg, logger)
	if err != nil {
		return nil, err
	}

	stream, err := realtime.NewBroadcaster[chat.Message](cfg.ChatStreamWorkers)
	if err != nil {
		return nil, fmt.Errorf("start chat broadcaster: %w", err)
	}

	accountClient := sessiond.NewClient(
		&http.Client{Timeout: cfg.SessiondTimeout},
		sessiond.Config{
			BaseURL:       cfg.SessiondBaseURL,
			VerifyPath:    cfg.SessiondVerifyPath,
			LookupPath:    cfg.SessiondLookupPath,
			TokenCacheTTL: cfg.SessiondTokenCacheTTL,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.SessiondCircuitEnabled,
				FailureThreshold: cfg.SessiondCircuitFailureCount,
				OpenTimeout:      cfg.SessiondCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.SessiondCircuitHalfOpenMax,
			},
		},
		logger,
	)

	ids := idgen.NewRandomGenerator()
	teamSvc := usecase.NewTeamService(repos.teams, accountClient, ids, cache.NewStore(cfg.TeamListCacheTTL))
	formationSvc := usecase.NewFormationService(repos.formations, repos.teams, ids)
	eventSvc := usecase.NewEventService(repos.events, repos.teams, ids)
	chatSvc := usecase.NewChatService(repos.chats, teamSvc, ids, stream)
	overviewSvc := usecase.NewOverviewService(repos.teams, repos.events, repos.formations)

	teamSvc.SetGatewayTimeout(cfg.GatewayTimeout)
	formationSvc.SetGatewayTimeout(cfg.GatewayTimeout)
	eventSvc.SetGatewayTimeout(cfg.GatewayTimeout)
	chatSvc.SetGatewayTimeout(cfg.GatewayTimeout)
	overviewSvc.SetGatewayTimeout(cfg.GatewayTimeout)

	handler := httpapi.NewHandler(teamSvc, formationSvc, eventSvc, chatSvc, overviewSvc, logger.Slog())
	router := httpapi.NewRouter(handler, accountClient, logger.Slog(), cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	return server, nil
}

// buildRepositories picks the persistence backend: postgres when DB_URL
// is configured, seeded in-memory stores otherwise.
func buildRepositories(cfg config.Config, logger *logging.Logger) (repositories, error) {
	if cfg.DBURL == "" {
		logger.Info("persistence backend", "driver", "memory", "reason", "DB_URL not set")
		return seedMemoryRepositories(logger)
	}

	db, err := otelsqlx.Connect("postgres", cfg.DBURL,
		otelsql.WithDBName(dbNameFromURL(cfg.DBURL)),
	)
	if err != nil {
		return repositories{}, fmt.Errorf("connect to postgres: %w", err)
	}

	logger.Info("persistence backend", "driver", "postgres", "database", dbNameFromURL(cfg.DBURL))
	return postgresRepositories(db), nil
}

func postgresRepositories(db *sqlx.DB) repositories {
	return repositories{
		teams:      postgres.NewTeamRepository(db),
		formations: postgres.NewFormationRepository(db),
		events:     postgres.NewEventRepository(db),
		chats:      postgres.NewChatRepository(db),
	}
}

func seedMemoryRepositories(logger *logging.Logger) (repositories, error) {
	teams := memory.NewTeamRepository()
	formations := memory.NewFormationRepository()
	events := memory.NewEventRepository()
	chats := memory.NewChatRepository()

	// Team deletion cascades to the sibling stores, like the postgres
	// backend does inside its delete transaction.
	teams.OnDelete(formations.RemoveTeam)
	teams.OnDelete(events.RemoveTeam)
	teams.OnDelete(chats.RemoveTeam)

	repos := repositories{
		teams:      teams,
		formations: formations,
		events:     events,
		chats:      chats,
	}

	ctx := context.Background()
	for _, item := range memory.SeedTeams() {
		if _, err := repos.teams.Insert(ctx, item); err != nil {
			return repositories{}, fmt.Errorf("seed team %s: %w", item.ID, err)
		}
	}
	for _, item := range memory.SeedMembers() {
		if _, err := repos.teams.InsertMember(ctx, item); err != nil {
			return repositories{}, fmt.Errorf("seed member %s: %w", item.ID, err)
		}
	}
	for _, item := range memory.SeedFormations() {
		if _, err := repos.formations.Insert(ctx, item); err != nil {
			return repositories{}, fmt.Errorf("seed formation %s: %w", item.ID, err)
		}
	}
	for _, item := range memory.SeedEvents() {
		if _, err := repos.events.Insert(ctx, item); err != nil {
			return repositories{}, fmt.Errorf("seed event %s: %w", item.ID, err)
		}
	}
	for _, item := range memory.SeedChats() {
		if _, err := repos.chats.Insert(ctx, item); err != nil {
			return repositories{}, fmt.Errorf("seed chat %s: %w", item.ID, err)
		}
	}
	for _, item := range memory.SeedMessages() {
		if _, err := repos.chats.InsertMessage(ctx, item); err != nil {
			return repositories{}, fmt.Errorf("seed message %s: %w", item.ID, err)
		}
	}

	logger.Info("memory repositories seeded")
	return repos, nil
}
