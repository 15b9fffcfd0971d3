package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/mvillagra/storefront-session/pkg/db"
	"gorm.io/gorm"
)

// Repository persists the catalog snapshot cache.
type Repository struct {
	client *db.Client
}

// NewRepository builds a repository over the shared catalog db client.
func NewRepository(client *db.Client) *Repository {
	return &Repository{client: client}
}

// Migrate creates the cache tables.
func (r *Repository) Migrate(ctx context.Context) error {
	return r.client.DB().WithContext(ctx).AutoMigrate(&Product{}, &Category{}, &Client{}, &SyncState{})
}

// ReplaceProducts swaps the whole product cache in one transaction.
func (r *Repository) ReplaceProducts(ctx context.Context, rows []Product) error {
	return r.replace(ctx, resourceProducts, &Product{}, func(tx *gorm.DB) error {
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// ReplaceCategories swaps the whole category cache in one transaction.
func (r *Repository) ReplaceCategories(ctx context.Context, rows []Category) error {
	return r.replace(ctx, resourceCategories, &Category{}, func(tx *gorm.DB) error {
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// ReplaceClients swaps the whole client cache in one transaction.
func (r *Repository) ReplaceClients(ctx context.Context, rows []Client) error {
	return r.replace(ctx, resourceClients, &Client{}, func(tx *gorm.DB) error {
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *Repository) replace(ctx context.Context, resource string, model any, insert func(tx *gorm.DB) error) error {
	return r.client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
			return err
		}
		if err := insert(tx); err != nil {
			return err
		}
		state := SyncState{Resource: resource, RefreshedAt: time.Now().UTC()}
		return tx.Save(&state).Error
	})
}

// ListProducts returns every cached product.
func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	var rows []Product
	if err := r.client.DB().WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListCategories returns every cached category.
func (r *Repository) ListCategories(ctx context.Context) ([]Category, error) {
	var rows []Category
	if err := r.client.DB().WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// ListClients returns every cached client.
func (r *Repository) ListClients(ctx context.Context) ([]Client, error) {
	var rows []Client
	if err := r.client.DB().WithContext(ctx).Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// LastRefreshed reports when the resource cache was last replaced; the
// zero time means it never was.
func (r *Repository) LastRefreshed(ctx context.Context, resource string) (time.Time, error) {
	var state SyncState
	err := r.client.DB().WithContext(ctx).First(&state, "resource = ?", resource).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	return state.RefreshedAt, nil
}
