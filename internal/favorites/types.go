package favorites

import (
	"github.com/mvillagra/storefront-session/pkg/gateway"
	"github.com/shopspring/decimal"
)

// Entry is one saved product inside a list, carrying a denormalized
// snapshot so lists render without a catalog lookup.
type Entry struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Brand     string          `json:"brand"`
	Price     decimal.Decimal `json:"price"`
	Unit      string          `json:"unit"`
}

// List is one named favorites list. A pending list exists only in the
// session, under a locally generated id, until the platform confirms it.
type List struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Pending bool    `json:"pending"`
	Entries []Entry `json:"entries"`
}

// Snapshot is the read surface for the presentation layer.
type Snapshot struct {
	Lists []List `json:"lists"`
}

func entryFromPayload(p gateway.FavoriteEntryPayload) Entry {
	return Entry{
		ProductID: p.Product.ID,
		Name:      p.Product.Name,
		Brand:     p.Product.Brand,
		Price:     p.Product.Price,
		Unit:      p.Product.Unit,
	}
}

func listFromPayload(p gateway.FavoriteListPayload) List {
	l := List{ID: p.ID, Name: p.Name, Entries: make([]Entry, 0, len(p.Favorites))}
	for _, fav := range p.Favorites {
		l.Entries = append(l.Entries, entryFromPayload(fav))
	}
	return l
}
