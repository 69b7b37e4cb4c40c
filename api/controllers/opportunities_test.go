package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/abronee/devex/api/middleware"
	"github.com/abronee/devex/internal/opportunities"
	"github.com/abronee/devex/internal/users"
	"github.com/abronee/devex/pkg/db/models"
	pkgerrors "github.com/abronee/devex/pkg/errors"
)

func TestOpportunityListSuccess(t *testing.T) {
	svc := &stubOpportunityService{
		viewerRoles: []string{"cup-of-water"},
		decorated: []opportunities.Decorated{
			{OpportunityDTO: opportunities.OpportunityDTO{Code: "cup-of-water", Title: "Cup of Water"}},
		},
	}
	handler := OpportunityList(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/opportunities", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data []opportunities.Decorated `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data) != 1 || envelope.Data[0].Code != "cup-of-water" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestOpportunityListNilService(t *testing.T) {
	handler := OpportunityList(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/opportunities", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}

func TestOpportunityCreateSuccess(t *testing.T) {
	created := &opportunities.OpportunityDTO{ID: uuid.New(), Code: "cup-of-water", Title: "Cup of Water"}
	svc := &stubOpportunityService{created: created}
	handler := OpportunityCreate(svc, nil)

	body, _ := json.Marshal(map[string]string{"title": "Cup of Water"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/opportunities", bytes.NewReader(body))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data opportunities.OpportunityDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Code != "cup-of-water" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestOpportunityCreateMissingTitle(t *testing.T) {
	handler := OpportunityCreate(&stubOpportunityService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/opportunities", bytes.NewReader([]byte(`{}`)))
	req = req.WithContext(middleware.WithUserID(req.Context(), uuid.NewString()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestOpportunityCreateMissingUserContext(t *testing.T) {
	handler := OpportunityCreate(&stubOpportunityService{}, nil)

	body, _ := json.Marshal(map[string]string{"title": "Cup of Water"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/opportunities", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestOpportunityReadSuccess(t *testing.T) {
	opp := &models.Opportunity{ID: uuid.New(), Code: "cup-of-water", Title: "Cup of Water"}
	svc := &stubOpportunityService{
		read: opportunities.Decorated{
			OpportunityDTO: opportunities.OpportunityDTO{ID: opp.ID, Code: opp.Code, Title: opp.Title},
			UserIs:         opportunities.UserIs{Member: true},
		},
	}
	handler := OpportunityRead(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/opportunities/"+opp.ID.String(), nil)
	req = req.WithContext(middleware.WithOpportunity(req.Context(), opp))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var envelope struct {
		Data opportunities.Decorated `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !envelope.Data.UserIs.Member {
		t.Fatalf("expected member flag, got %+v", envelope.Data.UserIs)
	}
}

func TestOpportunityReadMissingContext(t *testing.T) {
	handler := OpportunityRead(&stubOpportunityService{}, nil)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/opportunities/whatever", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", rec.Code)
	}
}

func TestOpportunityUpdateForbidden(t *testing.T) {
	svc := &stubOpportunityService{err: pkgerrors.New(pkgerrors.CodeForbidden, "user not authorized")}
	handler := OpportunityUpdate(svc, nil)

	opp := &models.Opportunity{ID: uuid.New(), Code: "cup-of-water"}
	body, _ := json.Marshal(map[string]string{"title": "New Title"})
	req := httptest.NewRequest(http.MethodPut, "/api/v1/opportunities/"+opp.ID.String(), bytes.NewReader(body))
	ctx := middleware.WithOpportunity(req.Context(), opp)
	ctx = middleware.WithUserID(ctx, uuid.NewString())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", rec.Code)
	}
}

func TestOpportunityRequestMembershipSuccess(t *testing.T) {
	svc := &stubOpportunityService{}
	handler := OpportunityRequestMembership(svc, nil)

	opp := &models.Opportunity{ID: uuid.New(), Code: "cup-of-water"}
	req := httptest.NewRequest(http.MethodPost, "/api/v1/opportunities/"+opp.ID.String()+"/requests", nil)
	ctx := middleware.WithOpportunity(req.Context(), opp)
	ctx = middleware.WithUserID(ctx, uuid.NewString())
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if !svc.requested {
		t.Fatal("expected membership request to reach the service")
	}
}

func TestOpportunityConfirmMemberInvalidParam(t *testing.T) {
	handler := OpportunityConfirmMember(&stubOpportunityService{}, nil)

	opp := &models.Opportunity{ID: uuid.New(), Code: "cup-of-water"}
	req := httptest.NewRequest(http.MethodPost, "/members/not-a-uuid/confirm", nil)
	ctx := middleware.WithOpportunity(req.Context(), opp)
	ctx = middleware.WithUserID(ctx, uuid.NewString())
	req = req.WithContext(withURLParam(ctx, MemberParam, "not-a-uuid"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestOpportunityConfirmMemberSuccess(t *testing.T) {
	memberID := uuid.New()
	svc := &stubOpportunityService{member: users.UserDTO{
		ID:    memberID,
		Roles: []string{"cup-of-water"},
	}}
	handler := OpportunityConfirmMember(svc, nil)

	opp := &models.Opportunity{ID: uuid.New(), Code: "cup-of-water"}
	req := httptest.NewRequest(http.MethodPost, "/members/"+memberID.String()+"/confirm", nil)
	ctx := middleware.WithOpportunity(req.Context(), opp)
	ctx = middleware.WithUserID(ctx, uuid.NewString())
	req = req.WithContext(withURLParam(ctx, MemberParam, memberID.String()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	var envelope struct {
		Data users.UserDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.ID != memberID {
		t.Fatalf("expected member snapshot, got %+v", envelope.Data)
	}
}

func TestOpportunityDenyMemberStoreFailure(t *testing.T) {
	svc := &stubOpportunityService{err: pkgerrors.New(pkgerrors.CodeDependency, "deny membership request").
		WithDetails(map[string]any{"error": "connection reset"})}
	handler := OpportunityDenyMember(svc, nil)

	opp := &models.Opportunity{ID: uuid.New(), Code: "cup-of-water"}
	memberID := uuid.New()
	req := httptest.NewRequest(http.MethodPost, "/members/"+memberID.String()+"/deny", nil)
	ctx := middleware.WithOpportunity(req.Context(), opp)
	ctx = middleware.WithUserID(ctx, uuid.NewString())
	req = req.WithContext(withURLParam(ctx, MemberParam, memberID.String()))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
	var envelope struct {
		Error struct {
			Code    string         `json:"code"`
			Details map[string]any `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Code != "DEPENDENCY_ERROR" {
		t.Fatalf("expected dependency code, got %q", envelope.Error.Code)
	}
	if envelope.Error.Details["error"] != "connection reset" {
		t.Fatalf("expected verbatim store message, got %v", envelope.Error.Details)
	}
}

func withURLParam(ctx context.Context, key, value string) context.Context {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

type stubOpportunityService struct {
	created     *opportunities.OpportunityDTO
	read        opportunities.Decorated
	decorated   []opportunities.Decorated
	member      users.UserDTO
	members     []users.UserDTO
	viewerRoles []string
	requested   bool
	err         error
}

func (s *stubOpportunityService) New() *opportunities.OpportunityDTO {
	return &opportunities.OpportunityDTO{}
}

func (s *stubOpportunityService) Create(_ context.Context, _ uuid.UUID, _ opportunities.CreateOpportunityInput) (*opportunities.OpportunityDTO, error) {
	return s.created, s.err
}

func (s *stubOpportunityService) Read(_ *models.Opportunity, _ []string) opportunities.Decorated {
	return s.read
}

func (s *stubOpportunityService) List(_ context.Context, _ []string) ([]opportunities.Decorated, error) {
	return s.decorated, s.err
}

func (s *stubOpportunityService) Update(_ context.Context, _ uuid.UUID, _ *models.Opportunity, _ opportunities.UpdateOpportunityInput) (*opportunities.OpportunityDTO, error) {
	return s.created, s.err
}

func (s *stubOpportunityService) Delete(_ context.Context, _ uuid.UUID, _ *models.Opportunity) error {
	return s.err
}

func (s *stubOpportunityService) ListMembers(_ context.Context, _ *models.Opportunity) ([]users.UserDTO, error) {
	return s.members, s.err
}

func (s *stubOpportunityService) ListRequests(_ context.Context, _ uuid.UUID, _ *models.Opportunity) ([]users.UserDTO, error) {
	return s.members, s.err
}

func (s *stubOpportunityService) RequestMembership(_ context.Context, _ uuid.UUID, _ *models.Opportunity) error {
	if s.err == nil {
		s.requested = true
	}
	return s.err
}

func (s *stubOpportunityService) ConfirmMember(_ context.Context, _ uuid.UUID, _ *models.Opportunity, _ uuid.UUID) (users.UserDTO, error) {
	return s.member, s.err
}

func (s *stubOpportunityService) DenyMember(_ context.Context, _ uuid.UUID, _ *models.Opportunity, _ uuid.UUID) (users.UserDTO, error) {
	return s.member, s.err
}

func (s *stubOpportunityService) RemoveMember(_ context.Context, _ uuid.UUID, _ *models.Opportunity, _ uuid.UUID) error {
	return s.err
}

func (s *stubOpportunityService) ViewerRoles(_ context.Context, _ uuid.UUID, globalRoles []string) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.viewerRoles != nil {
		return s.viewerRoles, nil
	}
	return globalRoles, nil
}

func (s *stubOpportunityService) IsAuthorizedAdmin(_ context.Context, _ *models.Opportunity, _ uuid.UUID) (bool, error) {
	return false, s.err
}
