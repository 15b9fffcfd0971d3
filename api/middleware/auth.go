package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/mvillagra/storefront-session/api/responses"
	"github.com/mvillagra/storefront-session/internal/session"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/logger"
)

// SessionAuth extracts the platform bearer token, acquires the session
// container for it, and binds both into the request context. The token
// itself never reaches the logs; a short digest identifies the session.
func SessionAuth(registry *session.Registry, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token := bearerToken(r)
			if token == "" {
				responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "bearer token required"))
				return
			}

			if logg != nil {
				ctx = logg.WithSessionID(ctx, tokenDigest(token))
			}

			container, err := registry.Acquire(ctx, token)
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withSession(ctx, token, container)))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func tokenDigest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:6])
}
