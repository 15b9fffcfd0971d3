package controllers

import (
	"net/http"

	"github.com/mvillagra/storefront-session/api/middleware"
	"github.com/mvillagra/storefront-session/api/responses"
	"github.com/mvillagra/storefront-session/internal/session"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/logger"
)

// SessionLogout tears down the caller's session container. The platform
// token itself stays valid; only the local state is dropped.
func SessionLogout(registry *session.Registry, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if registry == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session registry unavailable"))
			return
		}

		token := middleware.TokenFromContext(ctx)
		if token == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "no session bound to request"))
			return
		}

		registry.Logout(ctx, token)
		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}
