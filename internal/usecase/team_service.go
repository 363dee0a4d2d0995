package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/sport"
	"github.com/courtside-app/courtside-api/internal/domain/team"
	"github.com/courtside-app/courtside-api/internal/domain/user"
	"github.com/courtside-app/courtside-api/internal/platform/cache"
	"github.com/courtside-app/courtside-api/internal/platform/id"
)

const teamListCachePrefix = "teams:user:"

// AccountDirectory resolves account identities, used when inviting a
// member by email.
type AccountDirectory interface {
	LookupByEmail(ctx context.Context, email string) (user.Principal, error)
}

type CreateTeamInput struct {
	Name      string
	Sport     sport.Type
	AvatarURL string
}

type UpdateTeamInput struct {
	Name      string
	AvatarURL string
}

type InviteMemberInput struct {
	TeamID       string
	Email        string
	Role         team.Role
	Position     string
	JerseyNumber int
}

type UpdateMemberInput struct {
	MemberID     string
	Role         team.Role
	Position     string
	JerseyNumber int
}

// TeamService manages teams and their rosters.
type TeamService struct {
	teamRepo       team.Repository
	directory      AccountDirectory
	idgen          id.Generator
	listCache      *cache.Store
	gatewayTimeout time.Duration
	now            func() time.Time
}

func NewTeamService(teamRepo team.Repository, directory AccountDirectory, idgen id.Generator, listCache *cache.Store) *TeamService {
	return &TeamService{
		teamRepo:       teamRepo,
		directory:      directory,
		idgen:          idgen,
		listCache:      listCache,
		gatewayTimeout: DefaultGatewayTimeout,
		now:            time.Now,
	}
}

// SetGatewayTimeout overrides the per-call persistence deadline.
func (s *TeamService) SetGatewayTimeout(d time.Duration) {
	if d > 0 {
		s.gatewayTimeout = d
	}
}

// ListVisibleToUser returns teams the user owns or belongs to. Results
// are cached per user; any team write by that user invalidates them.
func (s *TeamService) ListVisibleToUser(ctx context.Context, userID string) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListVisibleToUser")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user_id is required", ErrInvalidInput)
	}

	load := func(ctx context.Context) (any, error) {
		ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
		defer cancel()

		items, err := s.teamRepo.ListVisibleToUser(ctx, userID)
		if err != nil {
			return nil, wrapGatewayErr("list teams visible to user", err)
		}
		return items, nil
	}

	if s.listCache == nil {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		return value.([]team.Team), nil
	}

	value, err := s.listCache.GetOrLoad(ctx, teamListCachePrefix+userID, load)
	if err != nil {
		return nil, err
	}
	return value.([]team.Team), nil
}

func (s *TeamService) GetByID(ctx context.Context, teamID string) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetByID")
	defer span.End()

	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, fmt.Errorf("%w: team_id is required", ErrInvalidInput)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	item, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, wrapGatewayErr("get team by id", err)
	}
	if !found {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	return item, nil
}

// Create makes a team owned by the actor, who also joins the roster as
// coach. The sport is fixed for the team's lifetime.
func (s *TeamService) Create(ctx context.Context, input CreateTeamInput, actor user.Principal) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Create")
	defer span.End()

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}
	if !sport.Valid(input.Sport) {
		return team.Team{}, fmt.Errorf("%w: unknown sport %q", ErrInvalidInput, input.Sport)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	owned, err := s.teamRepo.CountOwnedByUser(ctx, actor.UserID)
	if err != nil {
		return team.Team{}, wrapGatewayErr("count owned teams", err)
	}
	if owned >= user.LimitsFor(actor.Plan).Teams {
		return team.Team{}, fmt.Errorf("%w: teams on plan %s", ErrPlanLimitReached, actor.Plan)
	}

	teamID, err := s.idgen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate team id: %w", err)
	}

	now := s.now().UTC()
	created, err := s.teamRepo.Insert(ctx, team.Team{
		ID:        teamID,
		Name:      input.Name,
		Sport:     input.Sport,
		AvatarURL: strings.TrimSpace(input.AvatarURL),
		CreatedBy: actor.UserID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return team.Team{}, wrapGatewayErr("insert team", err)
	}

	memberID, err := s.idgen.NewID()
	if err != nil {
		return team.Team{}, fmt.Errorf("generate member id: %w", err)
	}
	if _, err := s.teamRepo.InsertMember(ctx, team.Member{
		ID:       memberID,
		TeamID:   created.ID,
		UserID:   actor.UserID,
		Role:     team.RoleCoach,
		JoinedAt: now,
	}); err != nil {
		return team.Team{}, wrapGatewayErr("insert owner membership", err)
	}

	s.invalidateListCache(ctx, actor.UserID)
	return created, nil
}

// Update renames a team or swaps its avatar. The sport cannot change.
func (s *TeamService) Update(ctx context.Context, teamID string, input UpdateTeamInput, actor user.Principal) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Update")
	defer span.End()

	current, err := s.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, err
	}
	if err := s.requireCoach(ctx, current, actor); err != nil {
		return team.Team{}, err
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return team.Team{}, fmt.Errorf("%w: team name is required", ErrInvalidInput)
	}

	current.Name = input.Name
	current.AvatarURL = strings.TrimSpace(input.AvatarURL)
	current.UpdatedAt = s.now().UTC()

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	updated, found, err := s.teamRepo.Update(ctx, current)
	if err != nil {
		return team.Team{}, wrapGatewayErr("update team", err)
	}
	if !found {
		return team.Team{}, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	s.invalidateListCache(ctx, actor.UserID)
	return updated, nil
}

// Delete removes a team. Members, formations, events and chats go with
// it at the storage layer.
func (s *TeamService) Delete(ctx context.Context, teamID string, actor user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Delete")
	defer span.End()

	current, err := s.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if current.CreatedBy != actor.UserID {
		return fmt.Errorf("%w: only the team owner can delete it", ErrForbidden)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	found, err := s.teamRepo.Delete(ctx, teamID)
	if err != nil {
		return wrapGatewayErr("delete team", err)
	}
	if !found {
		return fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}

	s.invalidateListCache(ctx, actor.UserID)
	return nil
}

func (s *TeamService) ListMembers(ctx context.Context, teamID string, actor user.Principal) ([]team.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListMembers")
	defer span.End()

	current, err := s.GetByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if err := s.requireMember(ctx, current, actor.UserID); err != nil {
		return nil, err
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	members, err := s.teamRepo.ListMembers(ctx, teamID)
	if err != nil {
		return nil, wrapGatewayErr("list team members", err)
	}

	return members, nil
}

// InviteMember resolves an email through the account directory and adds
// the user to the roster. Only the owner or a coach can invite.
func (s *TeamService) InviteMember(ctx context.Context, input InviteMemberInput, actor user.Principal) (team.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.InviteMember")
	defer span.End()

	input.Email = strings.TrimSpace(input.Email)
	if input.Email == "" {
		return team.Member{}, fmt.Errorf("%w: email is required", ErrInvalidInput)
	}
	if !team.ValidRole(input.Role) {
		return team.Member{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}

	current, err := s.GetByID(ctx, input.TeamID)
	if err != nil {
		return team.Member{}, err
	}
	if err := s.requireCoach(ctx, current, actor); err != nil {
		return team.Member{}, err
	}

	invited, err := s.directory.LookupByEmail(ctx, input.Email)
	if err != nil {
		return team.Member{}, err
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	if _, exists, err := s.teamRepo.GetMemberByUser(ctx, input.TeamID, invited.UserID); err != nil {
		return team.Member{}, wrapGatewayErr("check existing membership", err)
	} else if exists {
		return team.Member{}, fmt.Errorf("%w: user is already a member", ErrInvalidInput)
	}

	memberID, err := s.idgen.NewID()
	if err != nil {
		return team.Member{}, fmt.Errorf("generate member id: %w", err)
	}

	created, err := s.teamRepo.InsertMember(ctx, team.Member{
		ID:           memberID,
		TeamID:       input.TeamID,
		UserID:       invited.UserID,
		Role:         input.Role,
		Position:     strings.TrimSpace(input.Position),
		JerseyNumber: input.JerseyNumber,
		JoinedAt:     s.now().UTC(),
	})
	if err != nil {
		return team.Member{}, wrapGatewayErr("insert member", err)
	}

	s.invalidateListCache(ctx, invited.UserID)
	return created, nil
}

func (s *TeamService) UpdateMember(ctx context.Context, input UpdateMemberInput, actor user.Principal) (team.Member, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UpdateMember")
	defer span.End()

	input.MemberID = strings.TrimSpace(input.MemberID)
	if input.MemberID == "" {
		return team.Member{}, fmt.Errorf("%w: member_id is required", ErrInvalidInput)
	}
	if !team.ValidRole(input.Role) {
		return team.Member{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, input.Role)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	current, found, err := s.teamRepo.GetMember(ctx, input.MemberID)
	if err != nil {
		return team.Member{}, wrapGatewayErr("get member", err)
	}
	if !found {
		return team.Member{}, fmt.Errorf("%w: member=%s", ErrNotFound, input.MemberID)
	}

	owner, err := s.GetByID(ctx, current.TeamID)
	if err != nil {
		return team.Member{}, err
	}
	if err := s.requireCoach(ctx, owner, actor); err != nil {
		return team.Member{}, err
	}

	current.Role = input.Role
	current.Position = strings.TrimSpace(input.Position)
	current.JerseyNumber = input.JerseyNumber

	updated, found, err := s.teamRepo.UpdateMember(ctx, current)
	if err != nil {
		return team.Member{}, wrapGatewayErr("update member", err)
	}
	if !found {
		return team.Member{}, fmt.Errorf("%w: member=%s", ErrNotFound, input.MemberID)
	}

	return updated, nil
}

func (s *TeamService) RemoveMember(ctx context.Context, memberID string, actor user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RemoveMember")
	defer span.End()

	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return fmt.Errorf("%w: member_id is required", ErrInvalidInput)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	current, found, err := s.teamRepo.GetMember(ctx, memberID)
	if err != nil {
		return wrapGatewayErr("get member", err)
	}
	if !found {
		return fmt.Errorf("%w: member=%s", ErrNotFound, memberID)
	}

	owner, err := s.GetByID(ctx, current.TeamID)
	if err != nil {
		return err
	}
	if err := s.requireCoach(ctx, owner, actor); err != nil {
		return err
	}

	if _, err := s.teamRepo.DeleteMember(ctx, memberID); err != nil {
		return wrapGatewayErr("delete member", err)
	}

	s.invalidateListCache(ctx, current.UserID)
	return nil
}

// Leave removes the actor's own membership. Owners cannot leave their
// team; they delete it instead.
func (s *TeamService) Leave(ctx context.Context, teamID string, actor user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.Leave")
	defer span.End()

	current, err := s.GetByID(ctx, teamID)
	if err != nil {
		return err
	}
	if current.CreatedBy == actor.UserID {
		return fmt.Errorf("%w: the owner cannot leave the team", ErrInvalidInput)
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	membership, found, err := s.teamRepo.GetMemberByUser(ctx, teamID, actor.UserID)
	if err != nil {
		return wrapGatewayErr("get membership", err)
	}
	if !found {
		return fmt.Errorf("%w: membership in team=%s", ErrNotFound, teamID)
	}

	if _, err := s.teamRepo.DeleteMember(ctx, membership.ID); err != nil {
		return wrapGatewayErr("delete membership", err)
	}

	s.invalidateListCache(ctx, actor.UserID)
	return nil
}

// GetForMember returns a team to its owner and roster members only.
func (s *TeamService) GetForMember(ctx context.Context, teamID string, actor user.Principal) (team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.GetForMember")
	defer span.End()

	item, err := s.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, err
	}
	if err := s.requireMember(ctx, item, actor.UserID); err != nil {
		return team.Team{}, err
	}

	return item, nil
}

// IsMember reports whether a user belongs to a team, owner included.
func (s *TeamService) IsMember(ctx context.Context, teamID, userID string) (bool, error) {
	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	item, found, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		return false, wrapGatewayErr("get team by id", err)
	}
	if !found {
		return false, fmt.Errorf("%w: team=%s", ErrNotFound, teamID)
	}
	if item.CreatedBy == userID {
		return true, nil
	}

	_, member, err := s.teamRepo.GetMemberByUser(ctx, teamID, userID)
	if err != nil {
		return false, wrapGatewayErr("get membership", err)
	}
	return member, nil
}

func (s *TeamService) requireMember(ctx context.Context, owner team.Team, userID string) error {
	if owner.CreatedBy == userID {
		return nil
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	_, member, err := s.teamRepo.GetMemberByUser(ctx, owner.ID, userID)
	if err != nil {
		return wrapGatewayErr("get membership", err)
	}
	if !member {
		return fmt.Errorf("%w: not a member of team=%s", ErrForbidden, owner.ID)
	}
	return nil
}

// requireCoach admits the team owner and roster members carrying the
// coach role; everyone else gets ErrForbidden.
func (s *TeamService) requireCoach(ctx context.Context, owner team.Team, actor user.Principal) error {
	if owner.CreatedBy == actor.UserID {
		return nil
	}

	ctx, cancel := gatewayContext(ctx, s.gatewayTimeout)
	defer cancel()

	member, found, err := s.teamRepo.GetMemberByUser(ctx, owner.ID, actor.UserID)
	if err != nil {
		return wrapGatewayErr("get membership", err)
	}
	if !found || member.Role != team.RoleCoach {
		return fmt.Errorf("%w: coach role required for team=%s", ErrForbidden, owner.ID)
	}
	return nil
}

func (s *TeamService) invalidateListCache(ctx context.Context, userID string) {
	if s.listCache != nil {
		s.listCache.Delete(ctx, teamListCachePrefix+userID)
	}
}
