package formation

import "context"

// Repository exposes formation persistence operations.
type Repository interface {
	// ListByTeam returns a team's formations, newest created first.
	ListByTeam(ctx context.Context, teamID string) ([]Formation, error)
	GetByID(ctx context.Context, id string) (Formation, bool, error)
	// Insert persists a draft and returns it with the assigned id and
	// repository-owned timestamps filled in.
	Insert(ctx context.Context, item Formation) (Formation, error)
	// Update replaces name and players of an existing row and refreshes
	// updated_at. Reports false when the row no longer exists.
	Update(ctx context.Context, item Formation) (Formation, bool, error)
	// Delete removes a row, reporting false when it was already gone.
	Delete(ctx context.Context, id string) (bool, error)
	CountByTeam(ctx context.Context, teamID string) (int, error)
}
