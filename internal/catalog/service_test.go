package catalog

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/mvillagra/storefront-session/pkg/config"
	"github.com/mvillagra/storefront-session/pkg/db"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/gateway"
	"github.com/mvillagra/storefront-session/pkg/logger"
	"github.com/shopspring/decimal"
)

type fakeGateway struct {
	products   []gateway.ProductRow
	categories []gateway.CategoryRow
	clients    []gateway.ClientRow
	err        error
	tokens     []string
}

func (f *fakeGateway) ListProducts(ctx context.Context, token string) ([]gateway.ProductRow, error) {
	f.tokens = append(f.tokens, token)
	return f.products, f.err
}

func (f *fakeGateway) ListCategories(ctx context.Context, token string) ([]gateway.CategoryRow, error) {
	return f.categories, f.err
}

func (f *fakeGateway) ListClients(ctx context.Context, token string) ([]gateway.ClientRow, error) {
	return f.clients, f.err
}

func newTestService(t *testing.T, gw Gateway) (Service, *Repository) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	client, err := db.New(context.Background(), config.CatalogDBConfig{Driver: config.DriverSQLite, DSN: dsn}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })

	repo := NewRepository(client)
	if err := repo.Migrate(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc, err := NewService(repo, gw, logger.New(logger.Options{ServiceName: "test", Output: io.Discard}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return svc, repo
}

func seedProducts(t *testing.T, repo *Repository, rows []Product) {
	t.Helper()
	if err := repo.ReplaceProducts(context.Background(), rows); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRefreshPopulatesCache(t *testing.T) {
	gw := &fakeGateway{
		products: []gateway.ProductRow{
			{ID: "1", Name: "Yerba Mate", Brand: "Taragui", Category: "almacen", Provider: "Distribuidora Sur", Price: decimal.NewFromInt(1500), Stock: 10, Unit: "kg"},
		},
		categories: []gateway.CategoryRow{{ID: "10", Name: "Almacén"}},
		clients:    []gateway.ClientRow{{ID: "c1", Name: "Mariana", Email: "m@example.com", City: "Rosario"}},
	}
	svc, repo := newTestService(t, gw)

	if err := svc.Refresh(context.Background(), "token-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gw.tokens) != 1 || gw.tokens[0] != "token-1" {
		t.Fatalf("expected the session token forwarded, got %v", gw.tokens)
	}

	products, err := repo.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(products) != 1 || products[0].Name != "Yerba Mate" {
		t.Fatalf("unexpected cache contents %+v", products)
	}
	if !products[0].Price.Equal(decimal.NewFromInt(1500)) {
		t.Fatalf("unexpected price %s", products[0].Price)
	}

	at, err := svc.LastRefreshed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if at.IsZero() {
		t.Fatal("expected a refresh timestamp")
	}
}

func TestLastRefreshedZeroBeforeFirstRefresh(t *testing.T) {
	svc, _ := newTestService(t, &fakeGateway{})

	at, err := svc.LastRefreshed(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !at.IsZero() {
		t.Fatalf("expected zero time, got %v", at)
	}
}

func TestQueryProductsSearchFilterSortPage(t *testing.T) {
	svc, repo := newTestService(t, &fakeGateway{})
	seedProducts(t, repo, []Product{
		{ID: "1", Name: "Yerba Mate", Brand: "Taragui", Category: "almacen", Provider: "Sur", Price: decimal.NewFromInt(1500), Stock: 10},
		{ID: "2", Name: "Azúcar", Brand: "Ledesma", Category: "almacen", Provider: "Norte", Price: decimal.NewFromInt(900), Stock: 4},
		{ID: "3", Name: "Mate Listo", Brand: "CBSe", Category: "bebidas", Provider: "Sur", Price: decimal.NewFromInt(2100), Stock: 2},
	})

	page, err := svc.QueryProducts(context.Background(), Query{Search: "mate", SortBy: "price", SortDir: "desc", Page: 1, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("expected two matches, got %+v", page.Items)
	}
	if page.Items[0].ID != "3" || page.Items[1].ID != "1" {
		t.Fatalf("expected price descending, got %+v", page.Items)
	}
	if page.Meta.Total != 2 || page.Meta.From != 1 || page.Meta.To != 2 || page.Meta.LastPage != 1 {
		t.Fatalf("unexpected meta %+v", page.Meta)
	}

	page, err = svc.QueryProducts(context.Background(), Query{Categories: []string{"almacen"}, Providers: []string{"Sur"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "1" {
		t.Fatalf("expected the intersection of both filters, got %+v", page.Items)
	}
}

func TestQueryProductsNumericIDOrdering(t *testing.T) {
	svc, repo := newTestService(t, &fakeGateway{})
	seedProducts(t, repo, []Product{
		{ID: "10", Name: "A"},
		{ID: "2", Name: "B"},
		{ID: "1", Name: "C"},
	})

	page, err := svc.QueryProducts(context.Background(), Query{SortBy: "id"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := []string{page.Items[0].ID, page.Items[1].ID, page.Items[2].ID}
	if got[0] != "1" || got[1] != "2" || got[2] != "10" {
		t.Fatalf("expected numeric id ordering, got %v", got)
	}
}

func TestQueryProductsPaginationWindow(t *testing.T) {
	svc, repo := newTestService(t, &fakeGateway{})
	rows := make([]Product, 0, 25)
	for i := 1; i <= 25; i++ {
		rows = append(rows, Product{ID: fmt.Sprintf("%d", i), Name: fmt.Sprintf("Producto %02d", i)})
	}
	seedProducts(t, repo, rows)

	page, err := svc.QueryProducts(context.Background(), Query{SortBy: "id", Page: 3, PerPage: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 5 {
		t.Fatalf("expected the last partial page, got %d items", len(page.Items))
	}
	meta := page.Meta
	if meta.From != 21 || meta.To != 25 || meta.LastPage != 3 || meta.Total != 25 {
		t.Fatalf("unexpected meta %+v", meta)
	}
}

func TestQueryRejectsUnknownSortField(t *testing.T) {
	svc, _ := newTestService(t, &fakeGateway{})

	_, err := svc.QueryProducts(context.Background(), Query{SortBy: "weight"})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestQueryClientsSearchesEmailAndCity(t *testing.T) {
	svc, repo := newTestService(t, &fakeGateway{})
	if err := repo.ReplaceClients(context.Background(), []Client{
		{ID: "c1", Name: "Mariana", Email: "mariana@example.com", City: "Rosario"},
		{ID: "c2", Name: "Pedro", Email: "pedro@example.com", City: "Salta"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	page, err := svc.QueryClients(context.Background(), Query{Search: "rosario"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(page.Items) != 1 || page.Items[0].ID != "c1" {
		t.Fatalf("unexpected result %+v", page.Items)
	}
}
