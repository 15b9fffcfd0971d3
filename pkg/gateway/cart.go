package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Cart operations

// AddItem registers quantity units of a product in the remote cart and
// returns the authoritative line.
func (c *Client) AddItem(ctx context.Context, token string, req AddItemRequest) (*AddItemResponse, error) {
	var resp AddItemResponse
	if err := c.do(ctx, token, "cart.add_item", http.MethodPost, "/cart/items", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCart fetches the authoritative cart snapshot.
func (c *Client) GetCart(ctx context.Context, token string) (*CartPayload, error) {
	var resp CartPayload
	if err := c.do(ctx, token, "cart.get", http.MethodGet, "/cart", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DecrementItem lowers a line's quantity by one on the platform.
func (c *Client) DecrementItem(ctx context.Context, token, productID string) (*DecrementResponse, error) {
	var resp DecrementResponse
	path := fmt.Sprintf("/cart/items/%s/decrement", url.PathEscape(productID))
	if err := c.do(ctx, token, "cart.decrement_item", http.MethodPost, path, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RemoveItem drops a line from the remote cart regardless of quantity.
func (c *Client) RemoveItem(ctx context.Context, token, productID string) error {
	path := fmt.Sprintf("/cart/items/%s", url.PathEscape(productID))
	return c.do(ctx, token, "cart.remove_item", http.MethodDelete, path, nil, nil)
}

// ClearCart empties the remote cart in one call.
func (c *Client) ClearCart(ctx context.Context, token string) error {
	return c.do(ctx, token, "cart.clear", http.MethodDelete, "/cart", nil, nil)
}
