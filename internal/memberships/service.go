package memberships

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/abronee/devex/pkg/enums"
)

// Store is the persistence surface the state machine drives.
type Store interface {
	Upsert(ctx context.Context, opportunityID, userID uuid.UUID, state enums.MembershipState) error
	UpsertUnlessAdmin(ctx context.Context, opportunityID, userID uuid.UUID, state enums.MembershipState) error
	InsertIfAbsent(ctx context.Context, opportunityID, userID uuid.UUID, state enums.MembershipState) error
	Promote(ctx context.Context, opportunityID, userID uuid.UUID, from, to enums.MembershipState) (bool, error)
	DeleteStates(ctx context.Context, opportunityID, userID uuid.UUID, states ...enums.MembershipState) error
	HasState(ctx context.Context, opportunityID, userID uuid.UUID, states ...enums.MembershipState) (bool, error)
	StandingsFor(ctx context.Context, userID uuid.UUID) ([]Standing, error)
}

// Service runs the membership state machine for one (opportunity, user) pair:
//
//	none    --request--> pending
//	pending --approve--> member
//	pending --deny-----> none
//	any     --admin----> admin (creation-time grant; implies member)
//	member  --revoke---> none
//	admin   --revoke---> none
//
// Authorization of the acting caller is the opportunity service's concern;
// every method here mutates unconditionally.
type Service struct {
	store Store
}

// NewService builds the state machine over the provided store.
func NewService(store Store) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("membership store required")
	}
	return &Service{store: store}, nil
}

// SetMember grants member standing. An existing admin row is left alone since
// admin already implies membership.
func (s *Service) SetMember(ctx context.Context, opportunityID, userID uuid.UUID) error {
	return s.store.UpsertUnlessAdmin(ctx, opportunityID, userID, enums.MembershipStateMember)
}

// SetAdmin grants admin standing, which carries membership with it.
func (s *Service) SetAdmin(ctx context.Context, opportunityID, userID uuid.UUID) error {
	return s.store.Upsert(ctx, opportunityID, userID, enums.MembershipStateAdmin)
}

// SetRequest records a pending membership request. A user who already holds
// any standing keeps it; requesting again is a no-op.
func (s *Service) SetRequest(ctx context.Context, opportunityID, userID uuid.UUID) error {
	return s.store.InsertIfAbsent(ctx, opportunityID, userID, enums.MembershipStatePending)
}

// UnsetMember revokes member standing. Admin and pending rows are untouched.
func (s *Service) UnsetMember(ctx context.Context, opportunityID, userID uuid.UUID) error {
	return s.store.DeleteStates(ctx, opportunityID, userID, enums.MembershipStateMember)
}

// UnsetAdmin revokes both admin and member standing in one step, whichever of
// the two the user held. A no-op when neither is present.
func (s *Service) UnsetAdmin(ctx context.Context, opportunityID, userID uuid.UUID) error {
	return s.store.DeleteStates(ctx, opportunityID, userID,
		enums.MembershipStateMember, enums.MembershipStateAdmin)
}

// UnsetRequest withdraws a pending request.
func (s *Service) UnsetRequest(ctx context.Context, opportunityID, userID uuid.UUID) error {
	return s.store.DeleteStates(ctx, opportunityID, userID, enums.MembershipStatePending)
}

// Approve moves pending to member as one statement, so a crash can never strand
// the user between the two states. It reports whether a pending request
// actually existed.
func (s *Service) Approve(ctx context.Context, opportunityID, userID uuid.UUID) (bool, error) {
	return s.store.Promote(ctx, opportunityID, userID,
		enums.MembershipStatePending, enums.MembershipStateMember)
}

// Deny clears a pending request, together with any member standing, in one
// statement. Admin standing survives a deny.
func (s *Service) Deny(ctx context.Context, opportunityID, userID uuid.UUID) error {
	return s.store.DeleteStates(ctx, opportunityID, userID,
		enums.MembershipStatePending, enums.MembershipStateMember)
}

// IsAdmin reports whether the user holds admin standing on the opportunity.
func (s *Service) IsAdmin(ctx context.Context, opportunityID, userID uuid.UUID) (bool, error) {
	return s.store.HasState(ctx, opportunityID, userID, enums.MembershipStateAdmin)
}

// StandingsFor lists every (code, state) pair the user holds.
func (s *Service) StandingsFor(ctx context.Context, userID uuid.UUID) ([]Standing, error) {
	return s.store.StandingsFor(ctx, userID)
}
