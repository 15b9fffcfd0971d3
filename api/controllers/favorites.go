package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/mvillagra/storefront-session/api/responses"
	"github.com/mvillagra/storefront-session/api/validators"
	"github.com/mvillagra/storefront-session/internal/favorites"
	"github.com/mvillagra/storefront-session/pkg/logger"
)

type createListPayload struct {
	Name string `json:"name" validate:"required,max=80"`
}

type addFavoritePayload struct {
	FavoriteListID string          `json:"favorite_list_id" validate:"required"`
	ProductID      string          `json:"product_id" validate:"required"`
	Name           string          `json:"name"`
	Brand          string          `json:"brand"`
	Price          decimal.Decimal `json:"price"`
	Unit           string          `json:"unit"`
}

// FavoritesFetch returns the lists snapshot.
func FavoritesFetch(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, c.Favorites.Snapshot())
	}
}

// FavoritesRefresh re-pulls the lists from the platform.
func FavoritesRefresh(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := c.Favorites.FetchLists(ctx); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, c.Favorites.Snapshot())
	}
}

// FavoritesCreateList creates a named list.
func FavoritesCreateList(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload createListPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		created, res := c.Favorites.CreateList(ctx, payload.Name)
		writeIntent(ctx, logg, w, res, func() any {
			return map[string]any{"ok": true, "list": created, "favorites": c.Favorites.Snapshot()}
		})
	}
}

// FavoritesDeleteList removes a whole list.
func FavoritesDeleteList(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res := c.Favorites.DeleteList(ctx, chi.URLParam(r, "listId"))
		writeIntent(ctx, logg, w, res, func() any {
			return map[string]any{"ok": true, "favorites": c.Favorites.Snapshot()}
		})
	}
}

// FavoritesAddProduct attaches a product to a confirmed list. The body
// carries the product snapshot the storefront already has, so the entry
// renders without waiting for a refresh.
func FavoritesAddProduct(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload addFavoritePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		entry := favorites.Entry{
			ProductID: payload.ProductID,
			Name:      payload.Name,
			Brand:     payload.Brand,
			Price:     payload.Price,
			Unit:      payload.Unit,
		}
		res := c.Favorites.AddProduct(ctx, payload.FavoriteListID, entry)
		writeIntent(ctx, logg, w, res, func() any {
			return map[string]any{"ok": true, "favorites": c.Favorites.Snapshot()}
		})
	}
}

// FavoritesRemoveProduct detaches a product from every list.
func FavoritesRemoveProduct(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		c, err := sessionContainer(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		res := c.Favorites.RemoveProduct(ctx, chi.URLParam(r, "productId"))
		writeIntent(ctx, logg, w, res, func() any {
			return map[string]any{"ok": true, "favorites": c.Favorites.Snapshot()}
		})
	}
}
