package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/courtside-app/courtside-api/internal/domain/sport"
	"github.com/courtside-app/courtside-api/internal/domain/team"
	"github.com/courtside-app/courtside-api/internal/domain/user"
	"github.com/courtside-app/courtside-api/internal/infrastructure/repository/memory"
	"github.com/courtside-app/courtside-api/internal/platform/cache"
)

type staticDirectory struct {
	accounts map[string]user.Principal
}

func (d staticDirectory) LookupByEmail(_ context.Context, email string) (user.Principal, error) {
	principal, ok := d.accounts[email]
	if !ok {
		return user.Principal{}, ErrNotFound
	}
	return principal, nil
}

func newTeamFixture() (*TeamService, *memory.TeamRepository) {
	repo := memory.NewTeamRepository()
	directory := staticDirectory{accounts: map[string]user.Principal{
		"atleta@example.com": {UserID: "user-athlete", Email: "atleta@example.com", Name: "Ana Atleta"},
	}}
	service := NewTeamService(repo, directory, &seqIDGenerator{prefix: "team"}, cache.NewStore(time.Minute))
	service.now = func() time.Time { return time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC) }
	return service, repo
}

func TestTeamService_Create_OwnerJoinsAsCoach(t *testing.T) {
	service, repo := newTeamFixture()
	actor := user.Principal{UserID: "user-coach", Plan: user.PlanFree}

	created, err := service.Create(t.Context(), CreateTeamInput{
		Name:  "Estrelas do Vôlei",
		Sport: sport.TypeVolleyball,
	}, actor)
	if err != nil {
		t.Fatalf("create team failed: %v", err)
	}
	if created.CreatedBy != actor.UserID {
		t.Fatalf("expected owner %q, got %q", actor.UserID, created.CreatedBy)
	}

	members, err := repo.ListMembers(t.Context(), created.ID)
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 1 || members[0].UserID != actor.UserID || members[0].Role != team.RoleCoach {
		t.Fatalf("expected owner as sole coach member, got %+v", members)
	}
}

func TestTeamService_Create_PlanLimit(t *testing.T) {
	service, _ := newTeamFixture()
	actor := user.Principal{UserID: "user-coach", Plan: user.PlanFree}

	if _, err := service.Create(t.Context(), CreateTeamInput{Name: "Time 1", Sport: sport.TypeFutsal}, actor); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	_, err := service.Create(t.Context(), CreateTeamInput{Name: "Time 2", Sport: sport.TypeFutsal}, actor)
	if !errors.Is(err, ErrPlanLimitReached) {
		t.Fatalf("expected ErrPlanLimitReached on second free-plan team, got %v", err)
	}
}

func TestTeamService_Update_SportImmutable(t *testing.T) {
	service, _ := newTeamFixture()
	actor := user.Principal{UserID: "user-coach", Plan: user.PlanPremium}

	created, err := service.Create(t.Context(), CreateTeamInput{Name: "Furacão", Sport: sport.TypeFootball}, actor)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := service.Update(t.Context(), created.ID, UpdateTeamInput{Name: "Furacão FC"}, actor)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Name != "Furacão FC" {
		t.Fatalf("expected renamed team, got %q", updated.Name)
	}
	if updated.Sport != sport.TypeFootball {
		t.Fatalf("expected sport unchanged, got %q", updated.Sport)
	}
}

func TestTeamService_Delete_OwnerOnly(t *testing.T) {
	service, _ := newTeamFixture()
	owner := user.Principal{UserID: "user-coach", Plan: user.PlanPremium}

	created, err := service.Create(t.Context(), CreateTeamInput{Name: "Estrelas", Sport: sport.TypeBasketball}, owner)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	intruder := user.Principal{UserID: "user-other", Plan: user.PlanPremium}
	if err := service.Delete(t.Context(), created.ID, intruder); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner delete, got %v", err)
	}
	if err := service.Delete(t.Context(), created.ID, owner); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if _, err := service.GetByID(t.Context(), created.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected team gone, got %v", err)
	}
}

func TestTeamService_InviteMember_ByEmail(t *testing.T) {
	service, _ := newTeamFixture()
	owner := user.Principal{UserID: "user-coach", Plan: user.PlanPremium}

	created, err := service.Create(t.Context(), CreateTeamInput{Name: "Estrelas", Sport: sport.TypeVolleyball}, owner)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	member, err := service.InviteMember(t.Context(), InviteMemberInput{
		TeamID:       created.ID,
		Email:        "atleta@example.com",
		Role:         team.RoleAthlete,
		Position:     "Ponteiro",
		JerseyNumber: 7,
	}, owner)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}
	if member.UserID != "user-athlete" || member.Role != team.RoleAthlete {
		t.Fatalf("unexpected member %+v", member)
	}

	// Inviting the same account twice is rejected.
	_, err = service.InviteMember(t.Context(), InviteMemberInput{
		TeamID: created.ID,
		Email:  "atleta@example.com",
		Role:   team.RoleAthlete,
	}, owner)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for duplicate invite, got %v", err)
	}

	// The invited user now sees the team in their list.
	visible, err := service.ListVisibleToUser(t.Context(), "user-athlete")
	if err != nil {
		t.Fatalf("list visible failed: %v", err)
	}
	if len(visible) != 1 || visible[0].ID != created.ID {
		t.Fatalf("expected invited user to see the team, got %+v", visible)
	}
}

func TestTeamService_Leave_OwnerCannotLeave(t *testing.T) {
	service, _ := newTeamFixture()
	owner := user.Principal{UserID: "user-coach", Plan: user.PlanPremium}

	created, err := service.Create(t.Context(), CreateTeamInput{Name: "Estrelas", Sport: sport.TypeHandball}, owner)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if err := service.Leave(t.Context(), created.ID, owner); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for owner leave, got %v", err)
	}

	if _, err := service.InviteMember(t.Context(), InviteMemberInput{
		TeamID: created.ID,
		Email:  "atleta@example.com",
		Role:   team.RoleAthlete,
	}, owner); err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	athlete := user.Principal{UserID: "user-athlete"}
	if err := service.Leave(t.Context(), created.ID, athlete); err != nil {
		t.Fatalf("athlete leave failed: %v", err)
	}
	isMember, err := service.IsMember(t.Context(), created.ID, athlete.UserID)
	if err != nil {
		t.Fatalf("is member failed: %v", err)
	}
	if isMember {
		t.Fatalf("expected athlete to be off the roster after leaving")
	}
}

func TestTeamService_CoachRoleGuardsMutations(t *testing.T) {
	service, _ := newTeamFixture()
	owner := user.Principal{UserID: "user-coach", Plan: user.PlanPremium}

	created, err := service.Create(t.Context(), CreateTeamInput{Name: "Estrelas", Sport: sport.TypeVolleyball}, owner)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	invited, err := service.InviteMember(t.Context(), InviteMemberInput{
		TeamID: created.ID,
		Email:  "atleta@example.com",
		Role:   team.RoleAthlete,
	}, owner)
	if err != nil {
		t.Fatalf("invite failed: %v", err)
	}

	athlete := user.Principal{UserID: "user-athlete", Plan: user.PlanPremium}
	stranger := user.Principal{UserID: "user-stranger", Plan: user.PlanPremium}

	// Team reads are for the roster only.
	if _, err := service.GetForMember(t.Context(), created.ID, athlete); err != nil {
		t.Fatalf("athlete get failed: %v", err)
	}
	if _, err := service.GetForMember(t.Context(), created.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger get, got %v", err)
	}
	if _, err := service.ListMembers(t.Context(), created.ID, stranger); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for stranger member list, got %v", err)
	}

	// Roster and team mutations need the coach role, not mere membership.
	if _, err := service.Update(t.Context(), created.ID, UpdateTeamInput{Name: "Golpe"}, athlete); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for athlete team update, got %v", err)
	}
	if _, err := service.InviteMember(t.Context(), InviteMemberInput{
		TeamID: created.ID,
		Email:  "atleta@example.com",
		Role:   team.RoleAthlete,
	}, athlete); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for athlete invite, got %v", err)
	}
	if _, err := service.UpdateMember(t.Context(), UpdateMemberInput{
		MemberID: invited.ID,
		Role:     team.RoleCoach,
	}, athlete); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for athlete role change, got %v", err)
	}
	if err := service.RemoveMember(t.Context(), invited.ID, athlete); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for athlete removal, got %v", err)
	}

	// Owner still passes every guard.
	if _, err := service.Update(t.Context(), created.ID, UpdateTeamInput{Name: "Estrelas FC"}, owner); err != nil {
		t.Fatalf("owner update failed: %v", err)
	}
	if err := service.RemoveMember(t.Context(), invited.ID, owner); err != nil {
		t.Fatalf("owner removal failed: %v", err)
	}
}

func TestTeamService_ListVisibleToUser_CacheInvalidatedOnWrite(t *testing.T) {
	service, _ := newTeamFixture()
	actor := user.Principal{UserID: "user-coach", Plan: user.PlanPremiumPro}

	first, err := service.Create(t.Context(), CreateTeamInput{Name: "Time A", Sport: sport.TypeFutsal}, actor)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := service.ListVisibleToUser(t.Context(), actor.UserID); err != nil {
		t.Fatalf("warm list failed: %v", err)
	}

	second, err := service.Create(t.Context(), CreateTeamInput{Name: "Time B", Sport: sport.TypeFutsal}, actor)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	visible, err := service.ListVisibleToUser(t.Context(), actor.UserID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("expected cache invalidation to surface both teams, got %d", len(visible))
	}
	if visible[0].ID != first.ID || visible[1].ID != second.ID {
		t.Fatalf("expected creation order, got %+v", visible)
	}
}
