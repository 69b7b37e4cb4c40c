package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/abronee/devex/api/responses"
	"github.com/abronee/devex/pkg/db/models"
	pkgerrors "github.com/abronee/devex/pkg/errors"
	"github.com/abronee/devex/pkg/logger"
)

// OpportunityParam is the chi URL parameter the resolver reads.
const OpportunityParam = "opportunityId"

// OpportunityFinder loads an opportunity by id.
type OpportunityFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Opportunity, error)
}

// OpportunityCtx resolves the opportunity named in the URL and stores it in
// the request context. A malformed identifier is a validation error, distinct
// from an unknown one, which is not found.
func OpportunityCtx(finder OpportunityFinder, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if finder == nil {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "opportunity finder unavailable"))
				return
			}

			raw := chi.URLParam(r, OpportunityParam)
			id, err := uuid.Parse(raw)
			if err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "opportunity is invalid"))
				return
			}

			opp, err := finder.FindByID(ctx, id)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "no opportunity with that identifier has been found"))
					return
				}
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load opportunity"))
				return
			}

			ctx = WithOpportunity(ctx, opp)
			if logg != nil {
				ctx = logg.WithOpportunityID(ctx, opp.ID.String())
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
