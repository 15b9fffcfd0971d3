package controllers

import (
	"context"
	"net/http"

	"github.com/mvillagra/storefront-session/api/middleware"
	"github.com/mvillagra/storefront-session/api/responses"
	"github.com/mvillagra/storefront-session/internal/intent"
	"github.com/mvillagra/storefront-session/internal/session"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/logger"
)

// sessionContainer pulls the container bound by the auth middleware.
func sessionContainer(ctx context.Context) (*session.Container, error) {
	c := middleware.ContainerFromContext(ctx)
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "no session bound to request")
	}
	return c, nil
}

// writeIntent resolves a store mutation to the wire: success carries the
// refreshed state payload, failure surfaces the original reason.
func writeIntent(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, res intent.Result, payload func() any) {
	if !res.OK {
		responses.WriteError(ctx, logg, w, pkgerrors.New(res.Code, res.Message))
		return
	}
	responses.WriteSuccess(w, payload())
}
