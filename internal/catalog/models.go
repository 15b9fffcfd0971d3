package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is one cached catalog product row.
type Product struct {
	ID       string          `gorm:"primaryKey" json:"id"`
	Name     string          `json:"name"`
	Brand    string          `json:"brand"`
	Category string          `json:"category"`
	Provider string          `json:"provider"`
	Price    decimal.Decimal `gorm:"type:numeric" json:"price"`
	Stock    int             `json:"stock"`
	Unit     string          `json:"unit"`
}

// TableName keeps cache tables under a common prefix.
func (Product) TableName() string { return "catalog_products" }

// Category is one cached catalog category row.
type Category struct {
	ID   string `gorm:"primaryKey" json:"id"`
	Name string `json:"name"`
}

func (Category) TableName() string { return "catalog_categories" }

// Client is one cached storefront client row.
type Client struct {
	ID    string `gorm:"primaryKey" json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	City  string `json:"city"`
}

func (Client) TableName() string { return "catalog_clients" }

// SyncState records when each cached resource was last refreshed.
type SyncState struct {
	Resource    string    `gorm:"primaryKey" json:"resource"`
	RefreshedAt time.Time `json:"refreshed_at"`
}

func (SyncState) TableName() string { return "catalog_sync_state" }

const (
	resourceProducts   = "products"
	resourceCategories = "categories"
	resourceClients    = "clients"
)
