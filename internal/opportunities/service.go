package opportunities

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abronee/devex/internal/memberships"
	"github.com/abronee/devex/internal/users"
	"github.com/abronee/devex/pkg/db"
	"github.com/abronee/devex/pkg/db/models"
	"github.com/abronee/devex/pkg/enums"
	pkgerrors "github.com/abronee/devex/pkg/errors"
)

// createRetries bounds how often a create is replayed after losing a code race
// to a concurrent creation with the same title. The unique index on code is
// the arbiter; the pre-check only keeps the common path cheap.
const createRetries = 3

const codeUniqueConstraint = "opportunities_code_key"

type opportunityRepository interface {
	Create(ctx context.Context, opp *models.Opportunity) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	Update(ctx context.Context, opp *models.Opportunity) error
	Delete(ctx context.Context, opp *models.Opportunity) error
	ListAll(ctx context.Context) ([]models.Opportunity, error)
}

type membershipMachine interface {
	SetAdmin(ctx context.Context, opportunityID, userID uuid.UUID) error
	SetRequest(ctx context.Context, opportunityID, userID uuid.UUID) error
	UnsetAdmin(ctx context.Context, opportunityID, userID uuid.UUID) error
	Approve(ctx context.Context, opportunityID, userID uuid.UUID) (bool, error)
	Deny(ctx context.Context, opportunityID, userID uuid.UUID) error
	IsAdmin(ctx context.Context, opportunityID, userID uuid.UUID) (bool, error)
	StandingsFor(ctx context.Context, userID uuid.UUID) ([]memberships.Standing, error)
}

type userRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	ListByMembership(ctx context.Context, opportunityID uuid.UUID, states ...enums.MembershipState) ([]models.User, error)
}

// Service exposes opportunity operations.
type Service interface {
	New() *OpportunityDTO
	Create(ctx context.Context, actorID uuid.UUID, input CreateOpportunityInput) (*OpportunityDTO, error)
	Read(opp *models.Opportunity, viewerRoles []string) Decorated
	List(ctx context.Context, viewerRoles []string) ([]Decorated, error)
	Update(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity, input UpdateOpportunityInput) (*OpportunityDTO, error)
	Delete(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity) error
	ListMembers(ctx context.Context, opp *models.Opportunity) ([]users.UserDTO, error)
	ListRequests(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity) ([]users.UserDTO, error)
	RequestMembership(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity) error
	ConfirmMember(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity, memberID uuid.UUID) (users.UserDTO, error)
	DenyMember(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity, memberID uuid.UUID) (users.UserDTO, error)
	RemoveMember(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity, memberID uuid.UUID) error
	ViewerRoles(ctx context.Context, userID uuid.UUID, globalRoles []string) ([]string, error)
	IsAuthorizedAdmin(ctx context.Context, opp *models.Opportunity, actorID uuid.UUID) (bool, error)
}

type service struct {
	repo        opportunityRepository
	memberships membershipMachine
	users       userRepository
}

// NewService builds an opportunity service with the provided collaborators.
func NewService(repo opportunityRepository, machine membershipMachine, usersRepo userRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("opportunity repository required")
	}
	if machine == nil {
		return nil, fmt.Errorf("membership machine required")
	}
	if usersRepo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, memberships: machine, users: usersRepo}, nil
}

// New returns a blank opportunity payload for client-side form setup.
func (s *service) New() *OpportunityDTO {
	return &OpportunityDTO{}
}

// Create assigns a unique code from the title, persists the opportunity and
// promotes the creator to admin. Losing the code race to a concurrent create
// retries slug generation from the next suffix.
func (s *service) Create(ctx context.Context, actorID uuid.UUID, input CreateOpportunityInput) (*OpportunityDTO, error) {
	startSuffix := 0
	var opp *models.Opportunity

	for attempt := 0; ; attempt++ {
		code, err := FindUniqueCode(ctx, input.Title, startSuffix, s.repo)
		if err != nil {
			return nil, err
		}

		opp = &models.Opportunity{
			Code:        code,
			Title:       input.Title,
			Short:       input.Short,
			Description: input.Description,
			Website:     input.Website,
			ProgramID:   input.ProgramID,
			ProjectID:   input.ProjectID,
		}
		opp.ApplyAudit(actorID)

		err = s.repo.Create(ctx, opp)
		if err == nil {
			break
		}
		if db.IsUniqueViolation(err, codeUniqueConstraint) && attempt < createRetries {
			startSuffix = nextSuffix(input.Title, code)
			continue
		}
		return nil, storeFailure(err, "save opportunity")
	}

	if err := s.memberships.SetAdmin(ctx, opp.ID, actorID); err != nil {
		return nil, storeFailure(err, "grant creator admin")
	}

	return FromModel(opp), nil
}

func nextSuffix(title, lastCode string) int {
	base := NormalizeTitle(title)
	rest := strings.TrimPrefix(lastCode, base)
	if rest == "" {
		return 1
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 1
	}
	return n + 1
}

// Read decorates an already resolved opportunity for the viewer.
func (s *service) Read(opp *models.Opportunity, viewerRoles []string) Decorated {
	return Decorate(FromModel(opp), viewerRoles)
}

// List returns every opportunity sorted by title, decorated for the viewer.
func (s *service) List(ctx context.Context, viewerRoles []string) ([]Decorated, error) {
	opps, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, storeFailure(err, "list opportunities")
	}
	dtos := make([]*OpportunityDTO, 0, len(opps))
	for i := range opps {
		dtos = append(dtos, FromModel(&opps[i]))
	}
	return DecorateList(dtos, viewerRoles), nil
}

// Update overwrites the mutable fields and re-stamps the audit actor. The code
// is left alone even when the title changes, since every derived role hangs
// off it.
func (s *service) Update(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity, input UpdateOpportunityInput) (*OpportunityDTO, error) {
	if err := s.authorizeAdmin(ctx, opp, actorID); err != nil {
		return nil, err
	}

	if input.Title != nil {
		opp.Title = *input.Title
	}
	if input.Short != nil {
		opp.Short = input.Short
	}
	if input.Description != nil {
		opp.Description = input.Description
	}
	if input.Website != nil {
		opp.Website = input.Website
	}
	if input.ProgramID != nil {
		opp.ProgramID = input.ProgramID
	}
	if input.ProjectID != nil {
		opp.ProjectID = input.ProjectID
	}
	opp.ApplyAudit(actorID)

	if err := s.repo.Update(ctx, opp); err != nil {
		return nil, storeFailure(err, "save opportunity")
	}
	return FromModel(opp), nil
}

// Delete removes the opportunity. Membership rows cascade with it.
func (s *service) Delete(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity) error {
	if err := s.authorizeAdmin(ctx, opp, actorID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, opp); err != nil {
		return storeFailure(err, "delete opportunity")
	}
	return nil
}

// ListMembers returns the users holding member or admin standing; users who
// merely requested access are excluded.
func (s *service) ListMembers(ctx context.Context, opp *models.Opportunity) ([]users.UserDTO, error) {
	list, err := s.users.ListByMembership(ctx, opp.ID,
		enums.MembershipStateMember, enums.MembershipStateAdmin)
	if err != nil {
		return nil, storeFailure(err, "list members")
	}
	return users.FromModels(list), nil
}

// ListRequests returns the users currently waiting on approval.
func (s *service) ListRequests(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity) ([]users.UserDTO, error) {
	if err := s.authorizeAdmin(ctx, opp, actorID); err != nil {
		return nil, err
	}
	list, err := s.users.ListByMembership(ctx, opp.ID, enums.MembershipStatePending)
	if err != nil {
		return nil, storeFailure(err, "list requests")
	}
	return users.FromModels(list), nil
}

// RequestMembership records the acting user's wish to join.
func (s *service) RequestMembership(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity) error {
	if err := s.memberships.SetRequest(ctx, opp.ID, actorID); err != nil {
		return storeFailure(err, "record membership request")
	}
	return nil
}

// ConfirmMember approves a pending request, moving the user to member.
func (s *service) ConfirmMember(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity, memberID uuid.UUID) (users.UserDTO, error) {
	if err := s.authorizeAdmin(ctx, opp, actorID); err != nil {
		return users.UserDTO{}, err
	}

	moved, err := s.memberships.Approve(ctx, opp.ID, memberID)
	if err != nil {
		return users.UserDTO{}, storeFailure(err, "approve membership request")
	}
	if !moved {
		return users.UserDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "no pending membership request")
	}

	return s.memberSnapshot(ctx, memberID)
}

// DenyMember declines a pending request. Member standing is cleared along
// with it; admin standing survives a deny.
func (s *service) DenyMember(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity, memberID uuid.UUID) (users.UserDTO, error) {
	if err := s.authorizeAdmin(ctx, opp, actorID); err != nil {
		return users.UserDTO{}, err
	}
	if err := s.memberships.Deny(ctx, opp.ID, memberID); err != nil {
		return users.UserDTO{}, storeFailure(err, "deny membership request")
	}
	return s.memberSnapshot(ctx, memberID)
}

// RemoveMember revokes the user's membership, admin standing included.
func (s *service) RemoveMember(ctx context.Context, actorID uuid.UUID, opp *models.Opportunity, memberID uuid.UUID) error {
	if err := s.authorizeAdmin(ctx, opp, actorID); err != nil {
		return err
	}
	if err := s.memberships.UnsetAdmin(ctx, opp.ID, memberID); err != nil {
		return storeFailure(err, "revoke membership")
	}
	return nil
}

// ViewerRoles assembles the viewer's full role set: platform-wide markers plus
// the role strings derived from every standing they hold.
func (s *service) ViewerRoles(ctx context.Context, userID uuid.UUID, globalRoles []string) ([]string, error) {
	roles := make([]string, 0, len(globalRoles))
	roles = append(roles, globalRoles...)
	if userID == uuid.Nil {
		return roles, nil
	}

	standings, err := s.memberships.StandingsFor(ctx, userID)
	if err != nil {
		return nil, storeFailure(err, "load viewer standings")
	}
	for _, standing := range standings {
		roles = append(roles, RolesForState(standing.Code, standing.State)...)
	}
	return roles, nil
}

// IsAuthorizedAdmin answers whether the actor may administer the opportunity:
// platform admin or opportunity admin, checked as two independent predicates.
func (s *service) IsAuthorizedAdmin(ctx context.Context, opp *models.Opportunity, actorID uuid.UUID) (bool, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, storeFailure(err, "load acting user")
	}
	if IsPlatformAdmin(actor.Roles) {
		return true, nil
	}
	return s.memberships.IsAdmin(ctx, opp.ID, actorID)
}

func (s *service) authorizeAdmin(ctx context.Context, opp *models.Opportunity, actorID uuid.UUID) error {
	ok, err := s.IsAuthorizedAdmin(ctx, opp, actorID)
	if err != nil {
		return err
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeForbidden, "user not authorized")
	}
	return nil
}

// memberSnapshot returns the affected user with their full role set, matching
// what confirm/deny responses have always carried.
func (s *service) memberSnapshot(ctx context.Context, memberID uuid.UUID) (users.UserDTO, error) {
	member, err := s.users.FindByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return users.UserDTO{}, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return users.UserDTO{}, storeFailure(err, "load user")
	}

	dto := users.FromModel(member)
	roles, err := s.ViewerRoles(ctx, member.ID, dto.Roles)
	if err != nil {
		return users.UserDTO{}, err
	}
	dto.Roles = roles
	return dto, nil
}

// storeFailure surfaces a persistence error with the store's message carried
// verbatim in the details.
func storeFailure(err error, action string) *pkgerrors.Error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action).
		WithDetails(map[string]any{"error": err.Error()})
}
