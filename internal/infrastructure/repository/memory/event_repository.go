package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/event"
)

type EventRepository struct {
	mu    sync.RWMutex
	items map[string]event.Event
}

func NewEventRepository() *EventRepository {
	return &EventRepository{items: make(map[string]event.Event)}
}

func (r *EventRepository) ListByTeam(_ context.Context, teamID string) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]event.Event, 0)
	for _, item := range r.items {
		if item.TeamID == teamID {
			items = append(items, item)
		}
	}
	sortByStart(items)

	return items, nil
}

func (r *EventRepository) ListUpcomingByTeam(_ context.Context, teamID string, from time.Time, limit int) ([]event.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]event.Event, 0)
	for _, item := range r.items {
		if item.TeamID == teamID && !item.StartAt.Before(from) {
			items = append(items, item)
		}
	}
	sortByStart(items)
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	return items, nil
}

func (r *EventRepository) GetByID(_ context.Context, id string) (event.Event, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return event.Event{}, false, nil
	}

	return item, true, nil
}

func (r *EventRepository) Insert(_ context.Context, item event.Event) (event.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item
	return item, nil
}

func (r *EventRepository) Update(_ context.Context, item event.Event) (event.Event, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return event.Event{}, false, nil
	}

	stored.Title = item.Title
	stored.Description = item.Description
	stored.Type = item.Type
	stored.StartAt = item.StartAt
	stored.EndAt = item.EndAt
	stored.Location = item.Location
	r.items[item.ID] = stored

	return stored, true, nil
}

func (r *EventRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)

	return true, nil
}

// RemoveTeam drops every event belonging to a team, mirroring the
// cascade the postgres backend applies on team deletion.
func (r *EventRepository) RemoveTeam(teamID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.TeamID == teamID {
			delete(r.items, id)
		}
	}
}

func sortByStart(items []event.Event) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].StartAt.Equal(items[j].StartAt) {
			return items[i].StartAt.Before(items[j].StartAt)
		}
		return items[i].ID < items[j].ID
	})
}
