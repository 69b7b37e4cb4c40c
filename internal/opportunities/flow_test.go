package opportunities

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/abronee/devex/internal/memberships"
	"github.com/abronee/devex/pkg/db/models"
	"github.com/abronee/devex/pkg/enums"
)

// fakeMachine keeps real membership state in memory so the full
// request/approve/revoke lifecycle can be walked through the service.
type fakeMachine struct {
	states map[uuid.UUID]map[uuid.UUID]enums.MembershipState
	codes  map[uuid.UUID]string
}

func newFakeMachine() *fakeMachine {
	return &fakeMachine{
		states: make(map[uuid.UUID]map[uuid.UUID]enums.MembershipState),
		codes:  make(map[uuid.UUID]string),
	}
}

func (f *fakeMachine) set(opportunityID, userID uuid.UUID, state enums.MembershipState) {
	if f.states[opportunityID] == nil {
		f.states[opportunityID] = make(map[uuid.UUID]enums.MembershipState)
	}
	f.states[opportunityID][userID] = state
}

func (f *fakeMachine) SetAdmin(_ context.Context, opportunityID, userID uuid.UUID) error {
	f.set(opportunityID, userID, enums.MembershipStateAdmin)
	return nil
}

func (f *fakeMachine) SetRequest(_ context.Context, opportunityID, userID uuid.UUID) error {
	if _, exists := f.states[opportunityID][userID]; exists {
		return nil
	}
	f.set(opportunityID, userID, enums.MembershipStatePending)
	return nil
}

func (f *fakeMachine) UnsetAdmin(_ context.Context, opportunityID, userID uuid.UUID) error {
	state := f.states[opportunityID][userID]
	if state == enums.MembershipStateMember || state == enums.MembershipStateAdmin {
		delete(f.states[opportunityID], userID)
	}
	return nil
}

func (f *fakeMachine) Approve(_ context.Context, opportunityID, userID uuid.UUID) (bool, error) {
	if f.states[opportunityID][userID] != enums.MembershipStatePending {
		return false, nil
	}
	f.set(opportunityID, userID, enums.MembershipStateMember)
	return true, nil
}

func (f *fakeMachine) Deny(_ context.Context, opportunityID, userID uuid.UUID) error {
	state := f.states[opportunityID][userID]
	if state == enums.MembershipStatePending || state == enums.MembershipStateMember {
		delete(f.states[opportunityID], userID)
	}
	return nil
}

func (f *fakeMachine) IsAdmin(_ context.Context, opportunityID, userID uuid.UUID) (bool, error) {
	return f.states[opportunityID][userID] == enums.MembershipStateAdmin, nil
}

func (f *fakeMachine) StandingsFor(_ context.Context, userID uuid.UUID) ([]memberships.Standing, error) {
	var standings []memberships.Standing
	for opportunityID, users := range f.states {
		if state, ok := users[userID]; ok {
			standings = append(standings, memberships.Standing{Code: f.codes[opportunityID], State: state})
		}
	}
	return standings, nil
}

func TestMembershipLifecycle(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()
	applicantID := uuid.New()

	repo := &stubOppRepo{}
	machine := newFakeMachine()
	usersRepo := &stubUsers{users: map[uuid.UUID]*models.User{
		creatorID:   {ID: creatorID, Email: "creator@example.com"},
		applicantID: {ID: applicantID, Email: "applicant@example.com"},
	}}
	svc := newTestService(t, repo, machine, usersRepo)

	// create assigns the normalized slug and promotes the creator to admin
	dto, err := svc.Create(ctx, creatorID, CreateOpportunityInput{Title: "Clean Water Initiative!!"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.Code != "clean-water-initiative" {
		t.Fatalf("expected normalized code, got %q", dto.Code)
	}
	machine.codes[dto.ID] = dto.Code
	opp := &models.Opportunity{ID: dto.ID, Code: dto.Code, Title: dto.Title}

	creatorRoles, err := svc.ViewerRoles(ctx, creatorID, nil)
	if err != nil {
		t.Fatalf("viewer roles: %v", err)
	}
	if !HasRole(creatorRoles, "clean-water-initiative") || !HasRole(creatorRoles, "clean-water-initiative-admin") {
		t.Fatalf("creator must hold member and admin roles, got %v", creatorRoles)
	}

	// applicant requests membership
	if err := svc.RequestMembership(ctx, applicantID, opp); err != nil {
		t.Fatalf("request: %v", err)
	}
	applicantRoles, _ := svc.ViewerRoles(ctx, applicantID, nil)
	if !HasRole(applicantRoles, "clean-water-initiative-request") {
		t.Fatalf("expected request role, got %v", applicantRoles)
	}
	if Decorate(dto, applicantRoles).UserIs.Member {
		t.Fatal("pending request must not read as membership")
	}

	// creator approves; the request role is replaced with the member role
	member, err := svc.ConfirmMember(ctx, creatorID, opp, applicantID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if !HasRole(member.Roles, "clean-water-initiative") {
		t.Fatalf("expected member role in snapshot, got %v", member.Roles)
	}
	applicantRoles, _ = svc.ViewerRoles(ctx, applicantID, nil)
	if HasRole(applicantRoles, "clean-water-initiative-request") {
		t.Fatalf("request role must be gone after approval, got %v", applicantRoles)
	}
	if !Decorate(dto, applicantRoles).UserIs.Member {
		t.Fatal("approved applicant must decorate as member")
	}

	// creator revokes; applicant loses all standing
	if err := svc.RemoveMember(ctx, creatorID, opp, applicantID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	applicantRoles, _ = svc.ViewerRoles(ctx, applicantID, nil)
	if HasRole(applicantRoles, "clean-water-initiative") {
		t.Fatalf("member role must be gone after revoke, got %v", applicantRoles)
	}

	// the applicant was never allowed to administer anything
	ok, err := svc.IsAuthorizedAdmin(ctx, opp, applicantID)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}
	if ok {
		t.Fatal("applicant must never pass the admin gate")
	}
}

func TestMembershipLifecycleDeny(t *testing.T) {
	ctx := context.Background()
	creatorID := uuid.New()
	applicantID := uuid.New()

	repo := &stubOppRepo{}
	machine := newFakeMachine()
	usersRepo := &stubUsers{users: map[uuid.UUID]*models.User{
		creatorID:   {ID: creatorID},
		applicantID: {ID: applicantID},
	}}
	svc := newTestService(t, repo, machine, usersRepo)

	dto, err := svc.Create(ctx, creatorID, CreateOpportunityInput{Title: "Beach Cleanup"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	machine.codes[dto.ID] = dto.Code
	opp := &models.Opportunity{ID: dto.ID, Code: dto.Code, Title: dto.Title}

	if err := svc.RequestMembership(ctx, applicantID, opp); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := svc.DenyMember(ctx, creatorID, opp, applicantID); err != nil {
		t.Fatalf("deny: %v", err)
	}

	applicantRoles, _ := svc.ViewerRoles(ctx, applicantID, nil)
	if len(applicantRoles) != 0 {
		t.Fatalf("denied applicant must hold no roles, got %v", applicantRoles)
	}

	// creator's admin standing is untouched by someone else's deny
	creatorRoles, _ := svc.ViewerRoles(ctx, creatorID, nil)
	if !HasRole(creatorRoles, "beach-cleanup-admin") {
		t.Fatalf("creator must keep admin standing, got %v", creatorRoles)
	}
}
