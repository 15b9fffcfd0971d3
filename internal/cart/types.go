package cart

import "github.com/shopspring/decimal"

// Line is one product's entry in the session cart.
type Line struct {
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Brand      string          `json:"brand"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Quantity   int             `json:"quantity"`
	StockLimit int             `json:"stock_limit"`
	Unit       string          `json:"unit"`
}

// Notice is a user-visible reconciliation message, e.g. when the platform
// clamps a quantity because stock ran out between click and confirmation.
type Notice struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

// Snapshot is the read surface handed to the presentation layer. Subtotal
// and ItemCount are recomputed from the lines on every read; they are
// never stored where they could drift.
type Snapshot struct {
	Lines     []Line          `json:"lines"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	ItemCount int             `json:"item_count"`
	Notices   []Notice        `json:"notices,omitempty"`
}

// line is the store-private record wrapping the public Line with
// reconciliation bookkeeping.
type line struct {
	Line
	// seq counts local intents against this product. A gateway response
	// whose captured seq is older than the current one must not override
	// the quantity: the most recent local intent wins.
	seq uint64
	// confirmed flips once the first authoritative response lands; until
	// then the price is an optimistic placeholder.
	confirmed bool
}

func clampQuantity(quantity, stockLimit int) int {
	if quantity < 0 {
		return 0
	}
	if stockLimit > 0 && quantity > stockLimit {
		return stockLimit
	}
	return quantity
}
