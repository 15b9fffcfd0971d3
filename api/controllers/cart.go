package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mvillagra/storefront-session/api/responses"
	"github.com/mvillagra/storefront-session/api/validators"
	"github.com/mvillagra/storefront-session/pkg/logger"
)

type addCartItemPayload struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
	Unit      string `json:"unit"`
}

// CartFetch returns the session cart snapshot.
func CartFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, c.Cart.Snapshot())
	}
}

// CartAddItem registers an add-to-cart intent.
func CartAddItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res := c.Cart.AddItem(ctx, payload.ProductID, payload.Quantity, payload.Unit)
		writeIntent(ctx, logg, w, res, func() any {
			return map[string]any{"ok": true, "cart": c.Cart.Snapshot()}
		})
	}
}

// CartIncrement raises a line's quantity by one.
func CartIncrement(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res := c.Cart.IncrementLine(ctx, chi.URLParam(r, "productId"))
		writeIntent(ctx, logg, w, res, func() any {
			return map[string]any{"ok": true, "cart": c.Cart.Snapshot()}
		})
	}
}

// CartDecrement lowers a line's quantity by one, removing it at zero.
func CartDecrement(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res := c.Cart.DecrementLine(ctx, chi.URLParam(r, "productId"))
		writeIntent(ctx, logg, w, res, func() any {
			return map[string]any{"ok": true, "cart": c.Cart.Snapshot()}
		})
	}
}

// CartRemoveItem drops a line regardless of quantity.
func CartRemoveItem(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res := c.Cart.RemoveLine(ctx, chi.URLParam(r, "productId"))
		writeIntent(ctx, logg, w, res, func() any {
			return map[string]any{"ok": true, "cart": c.Cart.Snapshot()}
		})
	}
}

// CartClear empties the cart, all or nothing.
func CartClear(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res := c.Cart.Clear(ctx)
		writeIntent(ctx, logg, w, res, func() any {
			return map[string]any{"ok": true, "cart": c.Cart.Snapshot()}
		})
	}
}
