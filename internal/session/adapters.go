package session

import (
	"context"

	"github.com/mvillagra/storefront-session/pkg/gateway"
)

// cartGateway binds the session token into the cart store's gateway.
type cartGateway struct {
	client PlatformGateway
	token  string
}

func (g *cartGateway) AddItem(ctx context.Context, req gateway.AddItemRequest) (*gateway.AddItemResponse, error) {
	return g.client.AddItem(ctx, g.token, req)
}

func (g *cartGateway) GetCart(ctx context.Context) (*gateway.CartPayload, error) {
	return g.client.GetCart(ctx, g.token)
}

func (g *cartGateway) DecrementItem(ctx context.Context, productID string) (*gateway.DecrementResponse, error) {
	return g.client.DecrementItem(ctx, g.token, productID)
}

func (g *cartGateway) RemoveItem(ctx context.Context, productID string) error {
	return g.client.RemoveItem(ctx, g.token, productID)
}

func (g *cartGateway) ClearCart(ctx context.Context) error {
	return g.client.ClearCart(ctx, g.token)
}

// favoritesGateway binds the session token into the favorites store's
// gateway.
type favoritesGateway struct {
	client PlatformGateway
	token  string
}

func (g *favoritesGateway) ListFavoriteLists(ctx context.Context) ([]gateway.FavoriteListPayload, error) {
	return g.client.ListFavoriteLists(ctx, g.token)
}

func (g *favoritesGateway) CreateFavoriteList(ctx context.Context, name string) (*gateway.CreateListResponse, error) {
	return g.client.CreateFavoriteList(ctx, g.token, name)
}

func (g *favoritesGateway) AddFavorite(ctx context.Context, req gateway.AddFavoriteRequest) error {
	return g.client.AddFavorite(ctx, g.token, req)
}

func (g *favoritesGateway) RemoveFavorite(ctx context.Context, productID string) error {
	return g.client.RemoveFavorite(ctx, g.token, productID)
}

func (g *favoritesGateway) DeleteFavoriteList(ctx context.Context, listID string) error {
	return g.client.DeleteFavoriteList(ctx, g.token, listID)
}
