package gateway

import "github.com/shopspring/decimal"

// CartItemPayload mirrors one authoritative cart line as the platform
// reports it.
type CartItemPayload struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	StockLimit int             `json:"stock_limit"`
	Unit       string          `json:"unit"`
}

// CartPayload is the full authoritative cart snapshot.
type CartPayload struct {
	Items []CartItemPayload `json:"items"`
	Total decimal.Decimal   `json:"total"`
}

// AddItemRequest is the body for the add-to-cart call.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	Unit      string `json:"unit"`
}

// AddItemResponse acknowledges an add with the authoritative line.
type AddItemResponse struct {
	Item     CartItemPayload `json:"item"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// DecrementResponse acknowledges a decrement; Removed is set when the
// platform dropped the line entirely.
type DecrementResponse struct {
	Item    *CartItemPayload `json:"item,omitempty"`
	Removed bool             `json:"removed"`
}

// ProductSnapshotPayload is the denormalized product copy stored inside a
// favorite entry.
type ProductSnapshotPayload struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Brand string          `json:"brand"`
	Price decimal.Decimal `json:"price"`
	Unit  string          `json:"unit"`
}

// FavoriteEntryPayload is one saved product within a list.
type FavoriteEntryPayload struct {
	Product ProductSnapshotPayload `json:"product"`
}

// FavoriteListPayload mirrors one named favorites list.
type FavoriteListPayload struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Favorites []FavoriteEntryPayload `json:"favorites"`
}

// CreateListRequest is the body for creating a favorites list.
type CreateListRequest struct {
	Name string `json:"name"`
}

// CreateListResponse acknowledges the creation with the server id.
type CreateListResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AddFavoriteRequest attaches a product to a confirmed list.
type AddFavoriteRequest struct {
	FavoriteListID string `json:"favorite_list_id"`
	ProductID      string `json:"product_id"`
	Unit           string `json:"unit"`
}

// ProductRow is one catalog product as served to the admin tables.
type ProductRow struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Brand    string          `json:"brand"`
	Category string          `json:"category"`
	Provider string          `json:"provider"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Unit     string          `json:"unit"`
}

// CategoryRow is one catalog category.
type CategoryRow struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ClientRow is one registered storefront client.
type ClientRow struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city"`
}
