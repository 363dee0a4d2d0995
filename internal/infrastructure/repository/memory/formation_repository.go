package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/courtside-app/courtside-api/internal/domain/formation"
)

type FormationRepository struct {
	mu    sync.RWMutex
	items map[string]formation.Formation
}

func NewFormationRepository() *FormationRepository {
	return &FormationRepository{items: make(map[string]formation.Formation)}
}

func (r *FormationRepository) ListByTeam(_ context.Context, teamID string) ([]formation.Formation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]formation.Formation, 0)
	for _, item := range r.items {
		if item.TeamID == teamID {
			items = append(items, item.Clone())
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.After(items[j].CreatedAt)
		}
		return items[i].ID > items[j].ID
	})

	return items, nil
}

func (r *FormationRepository) GetByID(_ context.Context, id string) (formation.Formation, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return formation.Formation{}, false, nil
	}

	return item.Clone(), true, nil
}

func (r *FormationRepository) Insert(_ context.Context, item formation.Formation) (formation.Formation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = item.Clone()
	return item.Clone(), nil
}

func (r *FormationRepository) Update(_ context.Context, item formation.Formation) (formation.Formation, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[item.ID]
	if !ok {
		return formation.Formation{}, false, nil
	}

	stored.Name = item.Name
	stored.Players = append([]formation.Player(nil), item.Players...)
	stored.UpdatedAt = item.UpdatedAt
	r.items[item.ID] = stored

	return stored.Clone(), true, nil
}

func (r *FormationRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return false, nil
	}
	delete(r.items, id)

	return true, nil
}

// RemoveTeam drops every formation belonging to a team, mirroring the
// cascade the postgres backend applies on team deletion.
func (r *FormationRepository) RemoveTeam(teamID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, item := range r.items {
		if item.TeamID == teamID {
			delete(r.items, id)
		}
	}
}

func (r *FormationRepository) CountByTeam(_ context.Context, teamID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.items {
		if item.TeamID == teamID {
			count++
		}
	}

	return count, nil
}
