package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/courtside-app/courtside-api/internal/domain/team"
)

type TeamRepository struct {
	mu       sync.RWMutex
	teams    map[string]team.Team
	members  map[string]team.Member
	onDelete []func(teamID string)
}

func NewTeamRepository() *TeamRepository {
	return &TeamRepository{
		teams:   make(map[string]team.Team),
		members: make(map[string]team.Member),
	}
}

// OnDelete registers a cascade run after a team row is removed. The
// postgres backend folds these into one transaction; here the sibling
// stores register themselves at wiring time.
func (r *TeamRepository) OnDelete(fn func(teamID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.onDelete = append(r.onDelete, fn)
}

func (r *TeamRepository) GetByID(_ context.Context, id string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.teams[id]
	if !ok {
		return team.Team{}, false, nil
	}

	return item, true, nil
}

func (r *TeamRepository) ListVisibleToUser(_ context.Context, userID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	visible := make(map[string]struct{})
	for _, item := range r.teams {
		if item.CreatedBy == userID {
			visible[item.ID] = struct{}{}
		}
	}
	for _, member := range r.members {
		if member.UserID == userID {
			visible[member.TeamID] = struct{}{}
		}
	}

	items := make([]team.Team, 0, len(visible))
	for id := range visible {
		if item, ok := r.teams[id]; ok {
			items = append(items, item)
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

func (r *TeamRepository) CountOwnedByUser(_ context.Context, userID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	count := 0
	for _, item := range r.teams {
		if item.CreatedBy == userID {
			count++
		}
	}

	return count, nil
}

func (r *TeamRepository) Insert(_ context.Context, item team.Team) (team.Team, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.teams[item.ID] = item
	return item, nil
}

func (r *TeamRepository) Update(_ context.Context, item team.Team) (team.Team, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.teams[item.ID]
	if !ok {
		return team.Team{}, false, nil
	}

	stored.Name = item.Name
	stored.AvatarURL = item.AvatarURL
	stored.UpdatedAt = item.UpdatedAt
	r.teams[item.ID] = stored

	return stored, true, nil
}

func (r *TeamRepository) Delete(_ context.Context, id string) (bool, error) {
	r.mu.Lock()
	if _, ok := r.teams[id]; !ok {
		r.mu.Unlock()
		return false, nil
	}
	delete(r.teams, id)
	for memberID, member := range r.members {
		if member.TeamID == id {
			delete(r.members, memberID)
		}
	}
	cascades := r.onDelete
	r.mu.Unlock()

	// Hooks run outside the lock; they take their own store's mutex.
	for _, cascade := range cascades {
		cascade(id)
	}

	return true, nil
}

func (r *TeamRepository) ListMembers(_ context.Context, teamID string) ([]team.Member, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]team.Member, 0)
	for _, member := range r.members {
		if member.TeamID == teamID {
			items = append(items, member)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].JoinedAt.Equal(items[j].JoinedAt) {
			return items[i].JoinedAt.Before(items[j].JoinedAt)
		}
		return items[i].ID < items[j].ID
	})

	return items, nil
}

func (r *TeamRepository) GetMember(_ context.Context, memberID string) (team.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	member, ok := r.members[memberID]
	if !ok {
		return team.Member{}, false, nil
	}

	return member, true, nil
}

func (r *TeamRepository) GetMemberByUser(_ context.Context, teamID, userID string) (team.Member, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, member := range r.members {
		if member.TeamID == teamID && member.UserID == userID {
			return member, true, nil
		}
	}

	return team.Member{}, false, nil
}

func (r *TeamRepository) InsertMember(_ context.Context, item team.Member) (team.Member, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members[item.ID] = item
	return item, nil
}

func (r *TeamRepository) UpdateMember(_ context.Context, item team.Member) (team.Member, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.members[item.ID]
	if !ok {
		return team.Member{}, false, nil
	}

	stored.Role = item.Role
	stored.Position = item.Position
	stored.JerseyNumber = item.JerseyNumber
	r.members[item.ID] = stored

	return stored, true, nil
}

func (r *TeamRepository) DeleteMember(_ context.Context, memberID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.members[memberID]; !ok {
		return false, nil
	}
	delete(r.members, memberID)

	return true, nil
}
