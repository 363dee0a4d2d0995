package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/courtside-app/courtside-api/internal/domain/event"
	"github.com/courtside-app/courtside-api/internal/domain/formation"
	"github.com/courtside-app/courtside-api/internal/domain/team"
	"github.com/courtside-app/courtside-api/internal/domain/user"
)

const (
	overviewUpcomingEvents   = 3
	overviewRecentFormations = 3
	overviewMaxConcurrency   = 8
)

// TeamOverview is the dashboard snapshot for one team.
type TeamOverview struct {
	Team             team.Team
	MemberCount      int
	UpcomingEvents   []event.Event
	RecentFormations []formation.Formation
}

// OverviewService assembles the home-screen dashboard by fanning out
// per-team lookups across repositories.
type OverviewService struct {
	teamRepo       team.Repository
	eventRepo      event.Repository
	formationRepo  formation.Repository
	gatewayTimeout time.Duration
	now            func() time.Time
}

func NewOverviewService(teamRepo team.Repository, eventRepo event.Repository, formationRepo formation.Repository) *OverviewService {
	return &OverviewService{
		teamRepo:       teamRepo,
		eventRepo:      eventRepo,
		formationRepo:  formationRepo,
		gatewayTimeout: DefaultGatewayTimeout,
		now:            time.Now,
	}
}

// SetGatewayTimeout overrides the per-call persistence deadline.
func (s *OverviewService) SetGatewayTimeout(d time.Duration) {
	if d > 0 {
		s.gatewayTimeout = d
	}
}

// ForUser builds an overview entry for every team visible to the actor.
// The per-team lookups run concurrently; the first failure aborts the
// whole call so the dashboard is never partially stale.
func (s *OverviewService) ForUser(ctx context.Context, actor user.Principal) ([]TeamOverview, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OverviewService.ForUser")
	defer span.End()

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	teams, err := s.teamRepo.ListVisibleToUser(ctx, actor.UserID)
	if err != nil {
		return nil, wrapGatewayErr("list teams for overview", err)
	}
	if len(teams) == 0 {
		return []TeamOverview{}, nil
	}

	overviews := make([]TeamOverview, len(teams))
	var mu sync.Mutex

	p := pool.New().WithContext(ctx).WithMaxGoroutines(overviewMaxConcurrency).WithCancelOnError()
	for i, t := range teams {
		p.Go(func(ctx context.Context) error {
			entry, err := s.buildEntry(ctx, t)
			if err != nil {
				return err
			}
			mu.Lock()
			overviews[i] = entry
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, wrapGatewayErr("assemble team overview", err)
	}

	return overviews, nil
}

func (s *OverviewService) buildEntry(ctx context.Context, t team.Team) (TeamOverview, error) {
	members, err := s.teamRepo.ListMembers(ctx, t.ID)
	if err != nil {
		return TeamOverview{}, err
	}

	upcoming, err := s.eventRepo.ListUpcomingByTeam(ctx, t.ID, s.now().UTC(), overviewUpcomingEvents)
	if err != nil {
		return TeamOverview{}, err
	}

	formations, err := s.formationRepo.ListByTeam(ctx, t.ID)
	if err != nil {
		return TeamOverview{}, err
	}
	if len(formations) > overviewRecentFormations {
		formations = formations[:overviewRecentFormations]
	}

	return TeamOverview{
		Team:             t,
		MemberCount:      len(members),
		UpcomingEvents:   upcoming,
		RecentFormations: formations,
	}, nil
}
