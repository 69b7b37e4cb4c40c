package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/abronee/devex/api/controllers"
	"github.com/abronee/devex/api/middleware"
	"github.com/abronee/devex/internal/opportunities"
	"github.com/abronee/devex/pkg/config"
	"github.com/abronee/devex/pkg/db"
	"github.com/abronee/devex/pkg/logger"
	"github.com/abronee/devex/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	opportunityFinder middleware.OpportunityFinder,
	opportunityService opportunities.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	requestPolicy := middleware.NewRateLimitPolicy(
		"membership-request",
		cfg.RequestRate.Window,
		cfg.RequestRate.IPLimit,
		cfg.RequestRate.UserLimit,
	)

	// A nil *redis.Client stored in an interface is no longer nil to the
	// callee, so the optional wiring happens here.
	var redisPinger redis.Pinger
	rateLimit := middleware.RateLimit(requestPolicy, nil, logg)
	if redisClient != nil {
		redisPinger = redisClient
		rateLimit = middleware.RateLimit(requestPolicy, redisClient, logg)
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisPinger))
	})

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/ping", controllers.PublicPing())
	})

	r.Route("/api/v1/opportunities", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Get("/", controllers.OpportunityList(opportunityService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/", controllers.OpportunityCreate(opportunityService, logg))
			r.Get("/new", controllers.OpportunityNew(opportunityService, logg))
		})

		r.Route("/{opportunityId}", func(r chi.Router) {
			// Authentication runs before the id is resolved, so missing
			// credentials answer 401 even for ids that do not exist.
			resolve := middleware.OpportunityCtx(opportunityFinder, logg)

			r.Group(func(r chi.Router) {
				r.Use(middleware.OptionalAuth(cfg.JWT, logg), resolve)
				r.Get("/", controllers.OpportunityRead(opportunityService, logg))
				r.Get("/members", controllers.OpportunityMembers(opportunityService, logg))
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(cfg.JWT, logg), resolve)
				r.Put("/", controllers.OpportunityUpdate(opportunityService, logg))
				r.Delete("/", controllers.OpportunityDelete(opportunityService, logg))
				r.Get("/requests", controllers.OpportunityRequests(opportunityService, logg))
				r.With(rateLimit).
					Post("/requests", controllers.OpportunityRequestMembership(opportunityService, logg))
				r.Post("/members/{userId}/confirm", controllers.OpportunityConfirmMember(opportunityService, logg))
				r.Post("/members/{userId}/deny", controllers.OpportunityDenyMember(opportunityService, logg))
				r.Delete("/members/{userId}", controllers.OpportunityRemoveMember(opportunityService, logg))
			})
		})
	})

	return r
}
