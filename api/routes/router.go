package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvillagra/storefront-session/api/controllers"
	"github.com/mvillagra/storefront-session/api/middleware"
	"github.com/mvillagra/storefront-session/internal/catalog"
	"github.com/mvillagra/storefront-session/internal/session"
	"github.com/mvillagra/storefront-session/pkg/config"
	"github.com/mvillagra/storefront-session/pkg/db"
	"github.com/mvillagra/storefront-session/pkg/gateway"
	"github.com/mvillagra/storefront-session/pkg/logger"
	"github.com/mvillagra/storefront-session/pkg/redis"
)

// NewRouter assembles the HTTP surface: health and metrics unauthenticated,
// everything under /api/v1 behind the session token.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbClient *db.Client,
	redisClient *redis.Client,
	platform *gateway.Client,
	registry *session.Registry,
	catalogService catalog.Service,
	promRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	var redisPinger controllers.Pinger
	if redisClient != nil {
		redisPinger = redisClient
	}
	var dbPinger controllers.Pinger
	if dbClient != nil {
		dbPinger = dbClient
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbPinger, redisPinger, platform))
	})

	if promRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(promRegistry, promhttp.HandlerOpts{}))
	}

	throttle := middleware.MutationRateLimit(cfg.RateLimit, nil, logg)
	if redisClient != nil {
		throttle = middleware.MutationRateLimit(cfg.RateLimit, redisClient, logg)
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.SessionAuth(registry, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(logg))
			r.With(throttle).Post("/items", controllers.CartAddItem(logg))
			r.With(throttle).Post("/items/{productId}/increment", controllers.CartIncrement(logg))
			r.With(throttle).Post("/items/{productId}/decrement", controllers.CartDecrement(logg))
			r.With(throttle).Delete("/items/{productId}", controllers.CartRemoveItem(logg))
			r.With(throttle).Delete("/", controllers.CartClear(logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesFetch(logg))
			r.Post("/refresh", controllers.FavoritesRefresh(logg))
			r.With(throttle).Post("/", controllers.FavoritesAddProduct(logg))
			r.With(throttle).Delete("/{productId}", controllers.FavoritesRemoveProduct(logg))
		})

		r.Route("/favorites-list", func(r chi.Router) {
			r.With(throttle).Post("/", controllers.FavoritesCreateList(logg))
			r.With(throttle).Delete("/{listId}", controllers.FavoritesDeleteList(logg))
		})

		r.Post("/session/logout", controllers.SessionLogout(registry, logg))

		r.Route("/admin", func(r chi.Router) {
			r.Get("/products", controllers.AdminProducts(catalogService, logg))
			r.Get("/categories", controllers.AdminCategories(catalogService, logg))
			r.Get("/clients", controllers.AdminClients(catalogService, logg))
			r.Post("/refresh", controllers.AdminCatalogRefresh(catalogService, logg))
		})
	})

	return r
}
