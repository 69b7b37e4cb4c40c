package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/abronee/devex/api/responses"
	"github.com/abronee/devex/pkg/config"
	pkgerrors "github.com/abronee/devex/pkg/errors"
	"github.com/abronee/devex/pkg/logger"
)

type pinger interface {
	Ping(ctx context.Context) error
}

const readyTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Devex-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Devex-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
		defer cancel()

		checks := map[string]string{}
		failed := false

		check := func(name string, p pinger) {
			if p == nil {
				checks[name] = "skipped"
				return
			}
			if err := p.Ping(ctx); err != nil {
				checks[name] = err.Error()
				failed = true
				return
			}
			checks[name] = "ok"
		}

		check("db", dbP)
		check("redis", redisP)

		if failed {
			responses.WriteError(ctx, logg,
				w, pkgerrors.New(pkgerrors.CodeDependency, "dependency not ready").WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
