package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mvillagra/storefront-session/api/responses"
	"github.com/mvillagra/storefront-session/pkg/config"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/logger"
)

type limiterStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// MutationRateLimit throttles mutating intents per session. Redis being
// down never blocks the storefront: counting errors degrade to allow.
func MutationRateLimit(cfg config.RateLimitConfig, store limiterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if store == nil || cfg.MutationLimit <= 0 || cfg.MutationWindow <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := TokenFromContext(ctx)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			scope := fmt.Sprintf("mutations:%s", tokenDigest(token))
			allowed, count, err := store.FixedWindowAllow(ctx, scope, int64(cfg.MutationLimit), cfg.MutationWindow)
			if err != nil {
				if logg != nil {
					logg.Warn(ctx, "rate limit check failed, allowing request")
				}
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				if logg != nil {
					ctx = logg.WithFields(ctx, map[string]any{"count": count})
					logg.Warn(ctx, "session mutation rate limit hit")
				}
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many cart updates, slow down"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
