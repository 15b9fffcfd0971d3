package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/mvillagra/storefront-session/api/responses"
	"github.com/mvillagra/storefront-session/pkg/config"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/logger"
)

const envHeader = "X-Storefront-Env"

type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set(envHeader, cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes every dependency the service needs to take
// traffic. A nil pinger means the dependency is not configured and is
// skipped.
func HealthReady(cfg *config.Config, logg *logger.Logger, catalogDB, redisClient, platform Pinger) http.HandlerFunc {
	checks := []struct {
		name   string
		pinger Pinger
	}{
		{"catalog_db", catalogDB},
		{"redis", redisClient},
		{"gateway", platform},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		w.Header().Set(envHeader, cfg.App.Env)

		status := map[string]string{}
		failed := false
		for _, check := range checks {
			if check.pinger == nil {
				status[check.name] = "skipped"
				continue
			}
			if err := check.pinger.Ping(ctx); err != nil {
				status[check.name] = "down"
				failed = true
				if logg != nil {
					logg.Error(ctx, "readiness check failed: "+check.name, err)
				}
				continue
			}
			status[check.name] = "ok"
		}

		if failed {
			responses.WriteError(ctx, logg, w,
				pkgerrors.New(pkgerrors.CodeDependency, "dependency not ready").WithDetails(status))
			return
		}
		responses.WriteSuccess(w, status)
	}
}
