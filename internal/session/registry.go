// Package session keys one in-memory state container per platform
// bearer token: the cart and favorites stores for that user, created on
// first authenticated request and torn down on logout or idleness.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/mvillagra/storefront-session/internal/cart"
	"github.com/mvillagra/storefront-session/internal/favorites"
	"github.com/mvillagra/storefront-session/pkg/config"
	"github.com/mvillagra/storefront-session/pkg/gateway"
	"github.com/mvillagra/storefront-session/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// PlatformGateway is the token-scoped platform surface the registry
// binds into each container. *gateway.Client satisfies it.
type PlatformGateway interface {
	AddItem(ctx context.Context, token string, req gateway.AddItemRequest) (*gateway.AddItemResponse, error)
	GetCart(ctx context.Context, token string) (*gateway.CartPayload, error)
	DecrementItem(ctx context.Context, token, productID string) (*gateway.DecrementResponse, error)
	RemoveItem(ctx context.Context, token, productID string) error
	ClearCart(ctx context.Context, token string) error

	ListFavoriteLists(ctx context.Context, token string) ([]gateway.FavoriteListPayload, error)
	CreateFavoriteList(ctx context.Context, token, name string) (*gateway.CreateListResponse, error)
	AddFavorite(ctx context.Context, token string, req gateway.AddFavoriteRequest) error
	RemoveFavorite(ctx context.Context, token, productID string) error
	DeleteFavoriteList(ctx context.Context, token, listID string) error
}

// Container holds the per-session stores.
type Container struct {
	Cart      *cart.Store
	Favorites *favorites.Store

	mu       sync.Mutex
	lastSeen time.Time
}

func (c *Container) touch(now time.Time) {
	c.mu.Lock()
	c.lastSeen = now
	c.mu.Unlock()
}

func (c *Container) seen() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen
}

// Registry owns every live session container.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Container

	creating singleflight.Group
	gw       PlatformGateway
	logg     *logger.Logger
	idleTTL  time.Duration
	now      func() time.Time
}

// NewRegistry builds an empty registry.
func NewRegistry(gw PlatformGateway, logg *logger.Logger, cfg config.SessionConfig) (*Registry, error) {
	if gw == nil {
		return nil, fmt.Errorf("platform gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	idleTTL := cfg.IdleTTL
	if idleTTL <= 0 {
		idleTTL = 30 * time.Minute
	}
	return &Registry{
		sessions: map[string]*Container{},
		gw:       gw,
		logg:     logg,
		idleTTL:  idleTTL,
		now:      time.Now,
	}, nil
}

// Acquire returns the container for the token, creating and rehydrating
// it on first use. Concurrent first requests for the same token share a
// single creation.
func (r *Registry) Acquire(ctx context.Context, token string) (*Container, error) {
	r.mu.Lock()
	if c, ok := r.sessions[token]; ok {
		r.mu.Unlock()
		c.touch(r.now())
		return c, nil
	}
	r.mu.Unlock()

	v, err, _ := r.creating.Do(token, func() (any, error) {
		r.mu.Lock()
		if c, ok := r.sessions[token]; ok {
			r.mu.Unlock()
			return c, nil
		}
		r.mu.Unlock()

		c, err := r.build(ctx, token)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.sessions[token] = c
		r.mu.Unlock()
		r.logg.Info(ctx, "session container created")
		return c, nil
	})
	if err != nil {
		return nil, err
	}

	c := v.(*Container)
	c.touch(r.now())
	return c, nil
}

func (r *Registry) build(ctx context.Context, token string) (*Container, error) {
	cartStore, err := cart.NewStore(&cartGateway{client: r.gw, token: token}, r.logg)
	if err != nil {
		return nil, err
	}
	favStore, err := favorites.NewStore(&favoritesGateway{client: r.gw, token: token}, r.logg)
	if err != nil {
		return nil, err
	}

	if err := cartStore.Rehydrate(ctx); err != nil {
		return nil, err
	}
	if err := favStore.FetchLists(ctx); err != nil {
		return nil, err
	}

	return &Container{Cart: cartStore, Favorites: favStore, lastSeen: r.now()}, nil
}

// Logout tears down the container. Unknown tokens are a no-op.
func (r *Registry) Logout(ctx context.Context, token string) {
	r.mu.Lock()
	_, existed := r.sessions[token]
	delete(r.sessions, token)
	r.mu.Unlock()
	if existed {
		r.logg.Info(ctx, "session container torn down")
	}
}

// ActiveSessions reports how many containers are live.
func (r *Registry) ActiveSessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts containers idle past the TTL and returns the count.
func (r *Registry) Sweep(ctx context.Context) int {
	cutoff := r.now().Add(-r.idleTTL)

	r.mu.Lock()
	var evicted int
	for token, c := range r.sessions {
		if c.seen().Before(cutoff) {
			delete(r.sessions, token)
			evicted++
		}
	}
	r.mu.Unlock()

	if evicted > 0 {
		r.logg.Info(ctx, fmt.Sprintf("evicted %d idle session containers", evicted))
	}
	return evicted
}

// StartSweeper runs Sweep on the interval until the context ends.
func (r *Registry) StartSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.Sweep(ctx)
			}
		}
	}()
}
