package event

import (
	"context"
	"time"
)

// Repository exposes calendar persistence operations.
type Repository interface {
	// ListByTeam returns a team's events ordered by start time ascending.
	ListByTeam(ctx context.Context, teamID string) ([]Event, error)
	// ListUpcomingByTeam returns events starting at or after the given
	// instant, ordered by start time ascending, at most limit entries.
	ListUpcomingByTeam(ctx context.Context, teamID string, from time.Time, limit int) ([]Event, error)
	GetByID(ctx context.Context, id string) (Event, bool, error)
	Insert(ctx context.Context, item Event) (Event, error)
	Update(ctx context.Context, item Event) (Event, bool, error)
	Delete(ctx context.Context, id string) (bool, error)
}
