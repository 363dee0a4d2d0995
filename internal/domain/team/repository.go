package team

import "context"

// Repository exposes team and membership persistence operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Team, bool, error)
	// ListVisibleToUser returns teams the user owns or belongs to,
	// deduplicated, ordered by creation time ascending.
	ListVisibleToUser(ctx context.Context, userID string) ([]Team, error)
	CountOwnedByUser(ctx context.Context, userID string) (int, error)
	Insert(ctx context.Context, item Team) (Team, error)
	Update(ctx context.Context, item Team) (Team, bool, error)
	Delete(ctx context.Context, id string) (bool, error)

	ListMembers(ctx context.Context, teamID string) ([]Member, error)
	GetMember(ctx context.Context, memberID string) (Member, bool, error)
	GetMemberByUser(ctx context.Context, teamID, userID string) (Member, bool, error)
	InsertMember(ctx context.Context, item Member) (Member, error)
	UpdateMember(ctx context.Context, item Member) (Member, bool, error)
	DeleteMember(ctx context.Context, memberID string) (bool, error)
}
