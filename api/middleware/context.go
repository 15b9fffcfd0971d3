package middleware

import (
	"context"

	"github.com/mvillagra/storefront-session/internal/session"
)

type contextKey string

const (
	ctxToken     contextKey = "session_token"
	ctxContainer contextKey = "session_container"
)

func withSession(ctx context.Context, token string, c *session.Container) context.Context {
	ctx = context.WithValue(ctx, ctxToken, token)
	return context.WithValue(ctx, ctxContainer, c)
}

// TokenFromContext returns the bearer token the request authenticated
// with, or "".
func TokenFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxToken).(string); ok {
		return v
	}
	return ""
}

// ContainerFromContext returns the session container bound by the auth
// middleware, or nil.
func ContainerFromContext(ctx context.Context) *session.Container {
	if ctx == nil {
		return nil
	}
	if v, ok := ctx.Value(ctxContainer).(*session.Container); ok {
		return v
	}
	return nil
}
