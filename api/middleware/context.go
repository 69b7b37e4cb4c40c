package middleware

import (
	"context"

	"github.com/abronee/devex/pkg/db/models"
)

type contextKey string

const (
	ctxUserID      contextKey = "user_id"
	ctxRoles       contextKey = "roles"
	ctxOpportunity contextKey = "opportunity"
)

func UserIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxUserID).(string); ok {
		return v
	}
	return ""
}

// RolesFromContext returns the authenticated user's platform-wide role
// markers. Empty for unauthenticated requests.
func RolesFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxRoles).([]string); ok {
		return v
	}
	return nil
}

// OpportunityFromContext returns the opportunity resolved by OpportunityCtx.
func OpportunityFromContext(ctx context.Context) *models.Opportunity {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxOpportunity).(*models.Opportunity); ok {
		return v
	}
	return nil
}

// WithUserID injects the user identifier into the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxUserID, userID)
}

// WithRoles injects the platform-wide role markers into the context.
func WithRoles(ctx context.Context, roles []string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRoles, roles)
}

// WithOpportunity injects the resolved opportunity into the context for
// downstream handlers.
func WithOpportunity(ctx context.Context, opp *models.Opportunity) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxOpportunity, opp)
}
