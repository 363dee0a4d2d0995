package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"github.com/courtside-app/courtside-api/internal/domain/sport"
	"github.com/courtside-app/courtside-api/internal/domain/team"
	qb "github.com/courtside-app/courtside-api/internal/platform/querybuilder"
)

type TeamRepository struct {
	db *sqlx.DB
}

func NewTeamRepository(db *sqlx.DB) *TeamRepository {
	return &TeamRepository{db: db}
}

func (r *TeamRepository) GetByID(ctx context.Context, id string) (team.Team, bool, error) {
	query, args, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build get team query: %w", err)
	}

	var row teamTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Team{}, false, nil
		}
		return team.Team{}, false, fmt.Errorf("get team by id: %w", err)
	}

	return teamFromRow(row), true, nil
}

// ListVisibleToUser unions owned teams with membership teams. Two
// indexed lookups and an in-process merge keep the query builder free
// of OR branches.
func (r *TeamRepository) ListVisibleToUser(ctx context.Context, userID string) ([]team.Team, error) {
	ownedQuery, ownedArgs, err := qb.Select("*").From("teams").
		Where(
			qb.Eq("created_by", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list owned teams query: %w", err)
	}

	var ownedRows []teamTableModel
	if err := r.db.SelectContext(ctx, &ownedRows, ownedQuery, ownedArgs...); err != nil {
		return nil, fmt.Errorf("list owned teams: %w", err)
	}

	memberQuery, memberArgs, err := qb.Select("team_public_id").From("team_members").
		Where(
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list membership teams query: %w", err)
	}

	var memberTeamIDs []string
	if err := r.db.SelectContext(ctx, &memberTeamIDs, memberQuery, memberArgs...); err != nil {
		return nil, fmt.Errorf("list membership team ids: %w", err)
	}

	seen := make(map[string]struct{}, len(ownedRows))
	items := make([]team.Team, 0, len(ownedRows)+len(memberTeamIDs))
	for _, row := range ownedRows {
		seen[row.PublicID] = struct{}{}
		items = append(items, teamFromRow(row))
	}

	missing := make([]any, 0, len(memberTeamIDs))
	for _, id := range memberTeamIDs {
		if _, ok := seen[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		joinedQuery, joinedArgs, err := qb.Select("*").From("teams").
			Where(
				qb.In("public_id", missing),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return nil, fmt.Errorf("build list joined teams query: %w", err)
		}

		var joinedRows []teamTableModel
		if err := r.db.SelectContext(ctx, &joinedRows, joinedQuery, joinedArgs...); err != nil {
			return nil, fmt.Errorf("list joined teams: %w", err)
		}
		for _, row := range joinedRows {
			items = append(items, teamFromRow(row))
		}
	}

	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}

func (r *TeamRepository) CountOwnedByUser(ctx context.Context, userID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("teams").
		Where(
			qb.Eq("created_by", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count owned teams query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count owned teams: %w", err)
	}

	return count, nil
}

func (r *TeamRepository) Insert(ctx context.Context, item team.Team) (team.Team, error) {
	insertModel := teamInsertModel{
		PublicID:  item.ID,
		Name:      item.Name,
		Sport:     string(item.Sport),
		AvatarURL: item.AvatarURL,
		CreatedBy: item.CreatedBy,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	query, args, err := qb.InsertModel("teams", insertModel, "")
	if err != nil {
		return team.Team{}, fmt.Errorf("build insert team query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return team.Team{}, fmt.Errorf("insert team: %w", err)
	}

	return item, nil
}

func (r *TeamRepository) Update(ctx context.Context, item team.Team) (team.Team, bool, error) {
	query, args, err := qb.Update("teams").
		Set("name", item.Name).
		Set("avatar_url", item.AvatarURL).
		Set("updated_at", item.UpdatedAt).
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("build update team query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return team.Team{}, false, fmt.Errorf("update team: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return team.Team{}, false, fmt.Errorf("rows affected update team: %w", err)
	}
	if affected == 0 {
		return team.Team{}, false, nil
	}

	return item, true, nil
}

// Delete soft-deletes a team and everything hanging off it in one
// transaction.
func (r *TeamRepository) Delete(ctx context.Context, id string) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx delete team: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	teamQuery, teamArgs, err := qb.Update("teams").
		SetRaw("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete team query: %w", err)
	}
	result, err := tx.ExecContext(ctx, teamQuery, teamArgs...)
	if err != nil {
		return false, fmt.Errorf("delete team: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete team: %w", err)
	}
	if affected == 0 {
		return false, nil
	}

	for _, table := range []string{"team_members", "formations", "events", "chats"} {
		query, args, err := qb.Update(table).
			SetRaw("deleted_at", "NOW()").
			Where(
				qb.Eq("team_public_id", id),
				qb.IsNull("deleted_at"),
			).
			ToSQL()
		if err != nil {
			return false, fmt.Errorf("build cascade delete %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return false, fmt.Errorf("cascade delete %s: %w", table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit delete team tx: %w", err)
	}

	return true, nil
}

func (r *TeamRepository) ListMembers(ctx context.Context, teamID string) ([]team.Member, error) {
	query, args, err := qb.Select("*").From("team_members").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("joined_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list members query: %w", err)
	}

	var rows []memberTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}

	out := make([]team.Member, 0, len(rows))
	for _, row := range rows {
		out = append(out, memberFromRow(row))
	}
	return out, nil
}

func (r *TeamRepository) GetMember(ctx context.Context, memberID string) (team.Member, bool, error) {
	query, args, err := qb.Select("*").From("team_members").
		Where(
			qb.Eq("public_id", memberID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Member{}, false, fmt.Errorf("build get member query: %w", err)
	}

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Member{}, false, nil
		}
		return team.Member{}, false, fmt.Errorf("get member: %w", err)
	}

	return memberFromRow(row), true, nil
}

func (r *TeamRepository) GetMemberByUser(ctx context.Context, teamID, userID string) (team.Member, bool, error) {
	query, args, err := qb.Select("*").From("team_members").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Eq("user_id", userID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Member{}, false, fmt.Errorf("build get member by user query: %w", err)
	}

	var row memberTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return team.Member{}, false, nil
		}
		return team.Member{}, false, fmt.Errorf("get member by user: %w", err)
	}

	return memberFromRow(row), true, nil
}

func (r *TeamRepository) InsertMember(ctx context.Context, item team.Member) (team.Member, error) {
	insertModel := memberInsertModel{
		PublicID:     item.ID,
		TeamID:       item.TeamID,
		UserID:       item.UserID,
		Role:         string(item.Role),
		Position:     item.Position,
		JerseyNumber: item.JerseyNumber,
		JoinedAt:     item.JoinedAt,
	}
	query, args, err := qb.InsertModel("team_members", insertModel, "")
	if err != nil {
		return team.Member{}, fmt.Errorf("build insert member query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return team.Member{}, fmt.Errorf("insert member: %w", err)
	}

	return item, nil
}

func (r *TeamRepository) UpdateMember(ctx context.Context, item team.Member) (team.Member, bool, error) {
	query, args, err := qb.Update("team_members").
		Set("role", string(item.Role)).
		Set("position", item.Position).
		Set("jersey_number", item.JerseyNumber).
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return team.Member{}, false, fmt.Errorf("build update member query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return team.Member{}, false, fmt.Errorf("update member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return team.Member{}, false, fmt.Errorf("rows affected update member: %w", err)
	}
	if affected == 0 {
		return team.Member{}, false, nil
	}

	return item, true, nil
}

func (r *TeamRepository) DeleteMember(ctx context.Context, memberID string) (bool, error) {
	query, args, err := qb.Update("team_members").
		SetRaw("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", memberID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete member query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete member: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete member: %w", err)
	}

	return affected > 0, nil
}

func teamFromRow(row teamTableModel) team.Team {
	return team.Team{
		ID:        row.PublicID,
		Name:      row.Name,
		Sport:     sport.Type(row.Sport),
		AvatarURL: row.AvatarURL,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
}

func memberFromRow(row memberTableModel) team.Member {
	return team.Member{
		ID:           row.PublicID,
		TeamID:       row.TeamID,
		UserID:       row.UserID,
		Role:         team.Role(row.Role),
		Position:     row.Position,
		JerseyNumber: row.JerseyNumber,
		JoinedAt:     row.JoinedAt,
	}
}
