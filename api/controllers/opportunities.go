package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/abronee/devex/api/middleware"
	"github.com/abronee/devex/api/responses"
	"github.com/abronee/devex/api/validators"
	"github.com/abronee/devex/internal/opportunities"
	"github.com/abronee/devex/pkg/db/models"
	pkgerrors "github.com/abronee/devex/pkg/errors"
	"github.com/abronee/devex/pkg/logger"
)

// MemberParam is the chi URL parameter naming the affected member.
const MemberParam = "userId"

type opportunityCreateRequest struct {
	Title       string     `json:"title" validate:"required,min=1"`
	Short       *string    `json:"short,omitempty"`
	Description *string    `json:"description,omitempty"`
	Website     *string    `json:"website,omitempty" validate:"omitempty,url"`
	ProgramID   *uuid.UUID `json:"program_id,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
}

func (r opportunityCreateRequest) toInput() opportunities.CreateOpportunityInput {
	return opportunities.CreateOpportunityInput{
		Title:       r.Title,
		Short:       r.Short,
		Description: r.Description,
		Website:     r.Website,
		ProgramID:   r.ProgramID,
		ProjectID:   r.ProjectID,
	}
}

type opportunityUpdateRequest struct {
	Title       *string    `json:"title,omitempty" validate:"omitempty,min=1"`
	Short       *string    `json:"short,omitempty"`
	Description *string    `json:"description,omitempty"`
	Website     *string    `json:"website,omitempty" validate:"omitempty,url"`
	ProgramID   *uuid.UUID `json:"program_id,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
}

func (r opportunityUpdateRequest) toInput() opportunities.UpdateOpportunityInput {
	return opportunities.UpdateOpportunityInput{
		Title:       r.Title,
		Short:       r.Short,
		Description: r.Description,
		Website:     r.Website,
		ProgramID:   r.ProgramID,
		ProjectID:   r.ProjectID,
	}
}

// OpportunityList returns every opportunity decorated for the viewer, anonymous
// viewers included.
func OpportunityList(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		roles, err := resolveViewerRoles(r.Context(), svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		decorated, err := svc.List(r.Context(), roles)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, decorated)
	}
}

// OpportunityCreate persists a new opportunity; the acting user is promoted to
// its administrator.
func OpportunityCreate(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		actorID, ok := actingUserID(w, r, logg)
		if !ok {
			return
		}

		var payload opportunityCreateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Create(r.Context(), actorID, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// OpportunityNew hands back a blank opportunity for form setup.
func OpportunityNew(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.New())
	}
}

// OpportunityRead returns the resolved opportunity decorated for the viewer.
func OpportunityRead(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		opp, ok := resolvedOpportunity(w, r, logg)
		if !ok {
			return
		}

		roles, err := resolveViewerRoles(r.Context(), svc)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, svc.Read(opp, roles))
	}
}

// OpportunityUpdate adjusts the mutable fields; the code never changes.
func OpportunityUpdate(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		opp, ok := resolvedOpportunity(w, r, logg)
		if !ok {
			return
		}
		actorID, ok := actingUserID(w, r, logg)
		if !ok {
			return
		}

		var payload opportunityUpdateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.Update(r.Context(), actorID, opp, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// OpportunityDelete removes the opportunity.
func OpportunityDelete(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		opp, ok := resolvedOpportunity(w, r, logg)
		if !ok {
			return
		}
		actorID, ok := actingUserID(w, r, logg)
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), actorID, opp); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"ok": true})
	}
}

// OpportunityMembers lists approved members, waiting requests excluded.
func OpportunityMembers(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		opp, ok := resolvedOpportunity(w, r, logg)
		if !ok {
			return
		}

		members, err := svc.ListMembers(r.Context(), opp)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, members)
	}
}

// OpportunityRequests lists the users waiting on approval.
func OpportunityRequests(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		opp, ok := resolvedOpportunity(w, r, logg)
		if !ok {
			return
		}
		actorID, ok := actingUserID(w, r, logg)
		if !ok {
			return
		}

		requests, err := svc.ListRequests(r.Context(), actorID, opp)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, requests)
	}
}

// OpportunityRequestMembership records the acting user's join request.
func OpportunityRequestMembership(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		opp, ok := resolvedOpportunity(w, r, logg)
		if !ok {
			return
		}
		actorID, ok := actingUserID(w, r, logg)
		if !ok {
			return
		}

		if err := svc.RequestMembership(r.Context(), actorID, opp); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"ok": true})
	}
}

// OpportunityConfirmMember approves a pending request.
func OpportunityConfirmMember(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		opp, ok := resolvedOpportunity(w, r, logg)
		if !ok {
			return
		}
		actorID, ok := actingUserID(w, r, logg)
		if !ok {
			return
		}
		memberID, ok := memberParam(w, r, logg)
		if !ok {
			return
		}

		member, err := svc.ConfirmMember(r.Context(), actorID, opp, memberID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

// OpportunityDenyMember declines a pending request.
func OpportunityDenyMember(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		opp, ok := resolvedOpportunity(w, r, logg)
		if !ok {
			return
		}
		actorID, ok := actingUserID(w, r, logg)
		if !ok {
			return
		}
		memberID, ok := memberParam(w, r, logg)
		if !ok {
			return
		}

		member, err := svc.DenyMember(r.Context(), actorID, opp, memberID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, member)
	}
}

// OpportunityRemoveMember revokes a membership, admin standing included.
func OpportunityRemoveMember(svc opportunities.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity service unavailable"))
			return
		}

		opp, ok := resolvedOpportunity(w, r, logg)
		if !ok {
			return
		}
		actorID, ok := actingUserID(w, r, logg)
		if !ok {
			return
		}
		memberID, ok := memberParam(w, r, logg)
		if !ok {
			return
		}

		if err := svc.RemoveMember(r.Context(), actorID, opp, memberID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]bool{"ok": true})
	}
}

func resolveViewerRoles(ctx context.Context, svc opportunities.Service) ([]string, error) {
	userID := middleware.UserIDFromContext(ctx)
	if userID == "" {
		return svc.ViewerRoles(ctx, uuid.Nil, nil)
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id")
	}
	return svc.ViewerRoles(ctx, uid, middleware.RolesFromContext(ctx))
}

func actingUserID(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	userID := middleware.UserIDFromContext(r.Context())
	if userID == "" {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user context missing"))
		return uuid.Nil, false
	}
	uid, err := uuid.Parse(userID)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid user id"))
		return uuid.Nil, false
	}
	return uid, true
}

func resolvedOpportunity(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (*models.Opportunity, bool) {
	opp := middleware.OpportunityFromContext(r.Context())
	if opp == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity context missing"))
		return nil, false
	}
	return opp, true
}

func memberParam(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	raw := chi.URLParam(r, MemberParam)
	uid, err := uuid.Parse(raw)
	if err != nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "user is invalid"))
		return uuid.Nil, false
	}
	return uid, true
}
