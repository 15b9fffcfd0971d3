package controllers

import (
	"net/http"
	"time"

	"github.com/mvillagra/storefront-session/api/middleware"
	"github.com/mvillagra/storefront-session/api/responses"
	"github.com/mvillagra/storefront-session/api/validators"
	"github.com/mvillagra/storefront-session/internal/catalog"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/logger"
)

const (
	defaultPerPage = 15
	maxPerPage     = 100
)

func tableQuery(r *http.Request) (catalog.Query, error) {
	page, err := validators.ParseQueryInt(r, "page", 1, 1, 1_000_000)
	if err != nil {
		return catalog.Query{}, err
	}
	perPage, err := validators.ParseQueryInt(r, "per_page", defaultPerPage, 1, maxPerPage)
	if err != nil {
		return catalog.Query{}, err
	}

	return catalog.Query{
		Search:     validators.SanitizeString(r.URL.Query().Get("search"), 120),
		Categories: validators.ParseQueryList(r, "categories"),
		Providers:  validators.ParseQueryList(r, "providers"),
		SortBy:     validators.SanitizeString(r.URL.Query().Get("sort_by"), 40),
		SortDir:    validators.SanitizeString(r.URL.Query().Get("sort_dir"), 4),
		Page:       page,
		PerPage:    perPage,
	}, nil
}

// AdminProducts serves the products table.
func AdminProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		q, err := tableQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := svc.QueryProducts(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminCategories serves the categories table.
func AdminCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		q, err := tableQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := svc.QueryCategories(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminClients serves the clients table.
func AdminClients(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		q, err := tableQuery(r)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		page, err := svc.QueryClients(ctx, q)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, page)
	}
}

// AdminCatalogRefresh re-pulls the catalog snapshot from the platform.
func AdminCatalogRefresh(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		if err := svc.Refresh(ctx, middleware.TokenFromContext(ctx)); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		at, err := svc.LastRefreshed(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"status":       "refreshed",
			"refreshed_at": at.Format(time.RFC3339),
		})
	}
}
