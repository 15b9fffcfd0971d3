package middleware

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mvillagra/storefront-session/internal/session"
	"github.com/mvillagra/storefront-session/pkg/config"
	"github.com/mvillagra/storefront-session/pkg/gateway"
	"github.com/mvillagra/storefront-session/pkg/logger"
)

type stubPlatform struct{}

func (stubPlatform) AddItem(ctx context.Context, token string, req gateway.AddItemRequest) (*gateway.AddItemResponse, error) {
	return &gateway.AddItemResponse{Item: gateway.CartItemPayload{ProductID: req.ProductID, Quantity: req.Quantity}}, nil
}

func (stubPlatform) GetCart(ctx context.Context, token string) (*gateway.CartPayload, error) {
	return &gateway.CartPayload{}, nil
}

func (stubPlatform) DecrementItem(ctx context.Context, token, productID string) (*gateway.DecrementResponse, error) {
	return &gateway.DecrementResponse{Removed: true}, nil
}

func (stubPlatform) RemoveItem(ctx context.Context, token, productID string) error { return nil }

func (stubPlatform) ClearCart(ctx context.Context, token string) error { return nil }

func (stubPlatform) ListFavoriteLists(ctx context.Context, token string) ([]gateway.FavoriteListPayload, error) {
	return nil, nil
}

func (stubPlatform) CreateFavoriteList(ctx context.Context, token, name string) (*gateway.CreateListResponse, error) {
	return &gateway.CreateListResponse{ID: "srv-1", Name: name}, nil
}

func (stubPlatform) AddFavorite(ctx context.Context, token string, req gateway.AddFavoriteRequest) error {
	return nil
}

func (stubPlatform) RemoveFavorite(ctx context.Context, token, productID string) error { return nil }

func (stubPlatform) DeleteFavoriteList(ctx context.Context, token, listID string) error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func newTestRegistry(t *testing.T) *session.Registry {
	t.Helper()
	reg, err := session.NewRegistry(stubPlatform{}, testLogger(), config.SessionConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return reg
}

func TestSessionAuthRejectsMissingToken(t *testing.T) {
	t.Parallel()

	handler := SessionAuth(newTestRegistry(t), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	for _, header := range []string{"", "Basic abc", "Bearer   "} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, rec.Code)
		}
		var body struct {
			Error struct {
				Code string `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("invalid error envelope: %v", err)
		}
		if body.Error.Code != "UNAUTHORIZED" {
			t.Fatalf("unexpected error code %q", body.Error.Code)
		}
	}
}

func TestSessionAuthBindsContainerAndToken(t *testing.T) {
	t.Parallel()

	var seenToken string
	var seenContainer *session.Container
	handler := SessionAuth(newTestRegistry(t), testLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenToken = TokenFromContext(r.Context())
		seenContainer = ContainerFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set("Authorization", "Bearer token-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if seenToken != "token-1" {
		t.Fatalf("unexpected token %q", seenToken)
	}
	if seenContainer == nil || seenContainer.Cart == nil || seenContainer.Favorites == nil {
		t.Fatal("expected a fully built session container")
	}
}
