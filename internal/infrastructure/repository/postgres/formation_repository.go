package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/courtside-app/courtside-api/internal/domain/formation"
	"github.com/courtside-app/courtside-api/internal/domain/sport"
	qb "github.com/courtside-app/courtside-api/internal/platform/querybuilder"
)

type FormationRepository struct {
	db *sqlx.DB
}

func NewFormationRepository(db *sqlx.DB) *FormationRepository {
	return &FormationRepository{db: db}
}

func (r *FormationRepository) ListByTeam(ctx context.Context, teamID string) ([]formation.Formation, error) {
	query, args, err := qb.Select("*").From("formations").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("created_at DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list formations query: %w", err)
	}

	var rows []formationTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list formations by team: %w", err)
	}

	out := make([]formation.Formation, 0, len(rows))
	for _, row := range rows {
		item, err := formationFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, nil
}

func (r *FormationRepository) GetByID(ctx context.Context, id string) (formation.Formation, bool, error) {
	query, args, err := qb.Select("*").From("formations").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return formation.Formation{}, false, fmt.Errorf("build get formation query: %w", err)
	}

	var row formationTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return formation.Formation{}, false, nil
		}
		return formation.Formation{}, false, fmt.Errorf("get formation by id: %w", err)
	}

	item, err := formationFromRow(row)
	if err != nil {
		return formation.Formation{}, false, err
	}
	return item, true, nil
}

func (r *FormationRepository) Insert(ctx context.Context, item formation.Formation) (formation.Formation, error) {
	players, err := encodePlayers(item.Players)
	if err != nil {
		return formation.Formation{}, err
	}

	insertModel := formationInsertModel{
		PublicID:  item.ID,
		TeamID:    item.TeamID,
		Name:      item.Name,
		Sport:     string(item.Sport),
		Players:   players,
		CreatedBy: item.CreatedBy,
		CreatedAt: item.CreatedAt,
		UpdatedAt: item.UpdatedAt,
	}
	query, args, err := qb.InsertModel("formations", insertModel, "")
	if err != nil {
		return formation.Formation{}, fmt.Errorf("build insert formation query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return formation.Formation{}, fmt.Errorf("insert formation: %w", err)
	}

	return item, nil
}

func (r *FormationRepository) Update(ctx context.Context, item formation.Formation) (formation.Formation, bool, error) {
	players, err := encodePlayers(item.Players)
	if err != nil {
		return formation.Formation{}, false, err
	}

	query, args, err := qb.Update("formations").
		Set("name", item.Name).
		Set("players", players).
		Set("updated_at", item.UpdatedAt).
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return formation.Formation{}, false, fmt.Errorf("build update formation query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return formation.Formation{}, false, fmt.Errorf("update formation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return formation.Formation{}, false, fmt.Errorf("rows affected update formation: %w", err)
	}
	if affected == 0 {
		return formation.Formation{}, false, nil
	}

	return item, true, nil
}

func (r *FormationRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := qb.Update("formations").
		SetRaw("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete formation query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete formation: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete formation: %w", err)
	}

	return affected > 0, nil
}

func (r *FormationRepository) CountByTeam(ctx context.Context, teamID string) (int, error) {
	query, args, err := qb.Select("COUNT(*)").From("formations").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count formations query: %w", err)
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, fmt.Errorf("count formations by team: %w", err)
	}

	return count, nil
}

func formationFromRow(row formationTableModel) (formation.Formation, error) {
	players, err := decodePlayers(row.Players)
	if err != nil {
		return formation.Formation{}, err
	}

	return formation.Formation{
		ID:        row.PublicID,
		TeamID:    row.TeamID,
		Name:      row.Name,
		Sport:     sport.Type(row.Sport),
		Players:   players,
		CreatedBy: row.CreatedBy,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}, nil
}
