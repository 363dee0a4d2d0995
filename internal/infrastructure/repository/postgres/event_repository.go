package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/courtside-app/courtside-api/internal/domain/event"
	qb "github.com/courtside-app/courtside-api/internal/platform/querybuilder"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) ListByTeam(ctx context.Context, teamID string) ([]event.Event, error) {
	query, args, err := qb.Select("*").From("events").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.IsNull("deleted_at"),
		).
		OrderBy("start_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list events by team: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromRow(row))
	}
	return out, nil
}

func (r *EventRepository) ListUpcomingByTeam(ctx context.Context, teamID string, from time.Time, limit int) ([]event.Event, error) {
	builder := qb.Select("*").From("events").
		Where(
			qb.Eq("team_public_id", teamID),
			qb.Gte("start_at", from),
			qb.IsNull("deleted_at"),
		).
		OrderBy("start_at", "id")
	if limit > 0 {
		builder = builder.Limit(limit)
	}
	query, args, err := builder.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list upcoming events query: %w", err)
	}

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list upcoming events by team: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		out = append(out, eventFromRow(row))
	}
	return out, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id string) (event.Event, bool, error) {
	query, args, err := qb.Select("*").From("events").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("build get event query: %w", err)
	}

	var row eventTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return event.Event{}, false, nil
		}
		return event.Event{}, false, fmt.Errorf("get event by id: %w", err)
	}

	return eventFromRow(row), true, nil
}

func (r *EventRepository) Insert(ctx context.Context, item event.Event) (event.Event, error) {
	insertModel := eventInsertModel{
		PublicID:    item.ID,
		TeamID:      item.TeamID,
		Title:       item.Title,
		Description: item.Description,
		EventType:   string(item.Type),
		StartAt:     item.StartAt,
		EndAt:       item.EndAt,
		Location:    item.Location,
		CreatedBy:   item.CreatedBy,
		CreatedAt:   item.CreatedAt,
	}
	query, args, err := qb.InsertModel("events", insertModel, "")
	if err != nil {
		return event.Event{}, fmt.Errorf("build insert event query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return event.Event{}, fmt.Errorf("insert event: %w", err)
	}

	return item, nil
}

func (r *EventRepository) Update(ctx context.Context, item event.Event) (event.Event, bool, error) {
	query, args, err := qb.Update("events").
		Set("title", item.Title).
		Set("description", item.Description).
		Set("event_type", string(item.Type)).
		Set("start_at", item.StartAt).
		Set("end_at", item.EndAt).
		Set("location", item.Location).
		Where(
			qb.Eq("public_id", item.ID),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("build update event query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return event.Event{}, false, fmt.Errorf("update event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return event.Event{}, false, fmt.Errorf("rows affected update event: %w", err)
	}
	if affected == 0 {
		return event.Event{}, false, nil
	}

	return item, true, nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) (bool, error) {
	query, args, err := qb.Update("events").
		SetRaw("deleted_at", "NOW()").
		Where(
			qb.Eq("public_id", id),
			qb.IsNull("deleted_at"),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build delete event query: %w", err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("delete event: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected delete event: %w", err)
	}

	return affected > 0, nil
}

func eventFromRow(row eventTableModel) event.Event {
	return event.Event{
		ID:          row.PublicID,
		TeamID:      row.TeamID,
		Title:       row.Title,
		Description: row.Description,
		Type:        event.Type(row.EventType),
		StartAt:     row.StartAt,
		EndAt:       row.EndAt,
		Location:    row.Location,
		CreatedBy:   row.CreatedBy,
		CreatedAt:   row.CreatedAt,
	}
}
