package gateway

import (
	"context"
	"net/http"
)

// Catalog operations, used by the snapshot cache behind the admin tables.

// ListProducts fetches the full product catalog.
func (c *Client) ListProducts(ctx context.Context, token string) ([]ProductRow, error) {
	var resp []ProductRow
	if err := c.do(ctx, token, "catalog.list_products", http.MethodGet, "/products", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListCategories fetches every catalog category.
func (c *Client) ListCategories(ctx context.Context, token string) ([]CategoryRow, error) {
	var resp []CategoryRow
	if err := c.do(ctx, token, "catalog.list_categories", http.MethodGet, "/categories", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// ListClients fetches the registered storefront clients.
func (c *Client) ListClients(ctx context.Context, token string) ([]ClientRow, error) {
	var resp []ClientRow
	if err := c.do(ctx, token, "catalog.list_clients", http.MethodGet, "/clients", nil, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}
