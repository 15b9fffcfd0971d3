package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Favorites operations

// ListFavoriteLists fetches every named list owned by the session user.
func (c *Client) ListFavoriteLists(ctx context.Context, token string) ([]FavoriteListPayload, error) {
	var resp []FavoriteListPayload
	if err := c.do(ctx, token, "favorites.list", http.MethodGet, "/favorites", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// CreateFavoriteList creates a named list and returns its server id.
func (c *Client) CreateFavoriteList(ctx context.Context, token, name string) (*CreateListResponse, error) {
	var resp CreateListResponse
	req := CreateListRequest{Name: name}
	if err := c.do(ctx, token, "favorites.create_list", http.MethodPost, "/favorites-list", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddFavorite attaches a product to a confirmed list.
func (c *Client) AddFavorite(ctx context.Context, token string, req AddFavoriteRequest) error {
	return c.do(ctx, token, "favorites.add_product", http.MethodPost, "/favorites", req, nil)
}

// RemoveFavorite detaches a product from every list that holds it.
func (c *Client) RemoveFavorite(ctx context.Context, token, productID string) error {
	path := fmt.Sprintf("/favorites/%s", url.PathEscape(productID))
	return c.do(ctx, token, "favorites.remove_product", http.MethodDelete, path, nil, nil)
}

// DeleteFavoriteList removes a whole list.
func (c *Client) DeleteFavoriteList(ctx context.Context, token, listID string) error {
	path := fmt.Sprintf("/favorites-list/%s", url.PathEscape(listID))
	return c.do(ctx, token, "favorites.delete_list", http.MethodDelete, path, nil, nil)
}
