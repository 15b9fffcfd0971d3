package gateway

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mvillagra/storefront-session/pkg/config"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/logger"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewClient(config.GatewayConfig{BaseURL: srv.URL}, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return client
}

func TestAddItemSendsBearerAndDecodes(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cart/items" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-1" {
			t.Errorf("unexpected authorization header %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"item":{"product_id":"7","name":"Yerba Mate","unit_price":"1500","quantity":2,"stock_limit":10,"unit":"kg"},"subtotal":"3000"}`))
	}))

	resp, err := client.AddItem(context.Background(), "token-1", AddItemRequest{ProductID: "7", Quantity: 2, Unit: "kg"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Item.ProductID != "7" || resp.Item.Quantity != 2 {
		t.Fatalf("unexpected item %+v", resp.Item)
	}
	if resp.Item.UnitPrice.String() != "1500" {
		t.Fatalf("unexpected price %s", resp.Item.UnitPrice)
	}
}

func TestMissingTokenFailsWithoutNetworkCall(t *testing.T) {
	t.Parallel()

	called := false
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	_, err := client.GetCart(context.Background(), "  ")
	if !pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if called {
		t.Fatal("no request should be attempted without a token")
	}
}

func TestStatusMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status int
		body   string
		code   pkgerrors.Code
		msg    string
	}{
		{http.StatusNotFound, `{"message":"list not found"}`, pkgerrors.CodeNotFound, "list not found"},
		{http.StatusUnauthorized, `{}`, pkgerrors.CodeUnauthorized, ""},
		{http.StatusConflict, `{"error":{"message":"stock exhausted"}}`, pkgerrors.CodeConflict, "stock exhausted"},
		{http.StatusBadRequest, `{"message":"name required"}`, pkgerrors.CodeValidation, "name required"},
		{http.StatusBadGateway, ``, pkgerrors.CodeDependency, ""},
	}

	for _, tc := range cases {
		client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			_, _ = w.Write([]byte(tc.body))
		}))

		err := client.RemoveFavorite(context.Background(), "token-1", "7")
		typed := pkgerrors.As(err)
		if typed == nil || typed.Code() != tc.code {
			t.Fatalf("status %d: expected %s, got %v", tc.status, tc.code, err)
		}
		if tc.msg != "" && typed.Message() != tc.msg {
			t.Fatalf("status %d: expected remote message %q, got %q", tc.status, tc.msg, typed.Message())
		}
	}
}

func TestDeleteListEscapesID(t *testing.T) {
	t.Parallel()

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/favorites-list/a%2Fb" {
			t.Errorf("unexpected path %q", r.URL.EscapedPath())
		}
		w.WriteHeader(http.StatusOK)
	}))

	if err := client.DeleteFavoriteList(context.Background(), "token-1", "a/b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
