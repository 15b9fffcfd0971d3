// Package catalog serves the admin tables from a local snapshot cache.
// The platform catalog is pulled wholesale into the cache and every
// search/filter/sort/page request runs against the cached rows.
package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mvillagra/storefront-session/pkg/collection"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/gateway"
	"github.com/mvillagra/storefront-session/pkg/logger"
	"golang.org/x/text/language"
)

// Gateway is the platform catalog surface used to refresh the cache.
type Gateway interface {
	ListProducts(ctx context.Context, token string) ([]gateway.ProductRow, error)
	ListCategories(ctx context.Context, token string) ([]gateway.CategoryRow, error)
	ListClients(ctx context.Context, token string) ([]gateway.ClientRow, error)
}

// Query carries the table controls shared by every admin listing.
type Query struct {
	Search     string
	Categories []string
	Providers  []string
	SortBy     string
	SortDir    string
	Page       int
	PerPage    int
}

// PageMeta describes the returned window the way the tables render it.
type PageMeta struct {
	CurrentPage int `json:"current_page"`
	PerPage     int `json:"per_page"`
	Total       int `json:"total"`
	From        int `json:"from"`
	To          int `json:"to"`
	LastPage    int `json:"last_page"`
}

// ProductPage is one page of the products table.
type ProductPage struct {
	Items []Product `json:"items"`
	Meta  PageMeta  `json:"meta"`
}

// CategoryPage is one page of the categories table.
type CategoryPage struct {
	Items []Category `json:"items"`
	Meta  PageMeta   `json:"meta"`
}

// ClientPage is one page of the clients table.
type ClientPage struct {
	Items []Client `json:"items"`
	Meta  PageMeta `json:"meta"`
}

// Service exposes the admin table queries and the cache refresh.
type Service interface {
	QueryProducts(ctx context.Context, q Query) (*ProductPage, error)
	QueryCategories(ctx context.Context, q Query) (*CategoryPage, error)
	QueryClients(ctx context.Context, q Query) (*ClientPage, error)
	Refresh(ctx context.Context, token string) error
	LastRefreshed(ctx context.Context) (time.Time, error)
}

type service struct {
	repo   *Repository
	gw     Gateway
	sorter *collection.Sorter
	logg   *logger.Logger
}

// NewService constructs the catalog service. Names collate with Spanish
// rules to match the storefront locale.
func NewService(repo *Repository, gw Gateway, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if gw == nil {
		return nil, fmt.Errorf("catalog gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:   repo,
		gw:     gw,
		sorter: collection.NewSorter(language.Spanish),
		logg:   logg,
	}, nil
}

func (s *service) QueryProducts(ctx context.Context, q Query) (*ProductPage, error) {
	rows, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cached products")
	}

	rows = collection.Search(rows, q.Search,
		func(p Product) string { return p.Name },
		func(p Product) string { return p.Brand },
		func(p Product) string { return p.Provider },
	)
	rows = collection.FilterBySet(rows, func(p Product) string { return p.Category }, q.Categories)
	rows = collection.FilterBySet(rows, func(p Product) string { return p.Provider }, q.Providers)

	key, err := productSortKey(q.SortBy)
	if err != nil {
		return nil, err
	}
	rows = collection.SortBy(s.sorter, rows, key, collection.ParseDirection(q.SortDir))

	window := collection.NewWindow(q.Page, q.PerPage, len(rows))
	return &ProductPage{
		Items: collection.Paginate(rows, window.CurrentPage, window.PerPage),
		Meta:  metaFromWindow(window),
	}, nil
}

func (s *service) QueryCategories(ctx context.Context, q Query) (*CategoryPage, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cached categories")
	}

	rows = collection.Search(rows, q.Search, func(c Category) string { return c.Name })

	key, err := categorySortKey(q.SortBy)
	if err != nil {
		return nil, err
	}
	rows = collection.SortBy(s.sorter, rows, key, collection.ParseDirection(q.SortDir))

	window := collection.NewWindow(q.Page, q.PerPage, len(rows))
	return &CategoryPage{
		Items: collection.Paginate(rows, window.CurrentPage, window.PerPage),
		Meta:  metaFromWindow(window),
	}, nil
}

func (s *service) QueryClients(ctx context.Context, q Query) (*ClientPage, error) {
	rows, err := s.repo.ListClients(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing cached clients")
	}

	rows = collection.Search(rows, q.Search,
		func(c Client) string { return c.Name },
		func(c Client) string { return c.Email },
		func(c Client) string { return c.City },
	)

	key, err := clientSortKey(q.SortBy)
	if err != nil {
		return nil, err
	}
	rows = collection.SortBy(s.sorter, rows, key, collection.ParseDirection(q.SortDir))

	window := collection.NewWindow(q.Page, q.PerPage, len(rows))
	return &ClientPage{
		Items: collection.Paginate(rows, window.CurrentPage, window.PerPage),
		Meta:  metaFromWindow(window),
	}, nil
}

// Refresh pulls the three catalog resources and replaces the cache.
func (s *service) Refresh(ctx context.Context, token string) error {
	products, err := s.gw.ListProducts(ctx, token)
	if err != nil {
		return err
	}
	categories, err := s.gw.ListCategories(ctx, token)
	if err != nil {
		return err
	}
	clients, err := s.gw.ListClients(ctx, token)
	if err != nil {
		return err
	}

	productRows := make([]Product, 0, len(products))
	for _, p := range products {
		productRows = append(productRows, Product{
			ID:       p.ID,
			Name:     p.Name,
			Brand:    p.Brand,
			Category: p.Category,
			Provider: p.Provider,
			Price:    p.Price,
			Stock:    p.Stock,
			Unit:     p.Unit,
		})
	}
	categoryRows := make([]Category, 0, len(categories))
	for _, c := range categories {
		categoryRows = append(categoryRows, Category{ID: c.ID, Name: c.Name})
	}
	clientRows := make([]Client, 0, len(clients))
	for _, c := range clients {
		clientRows = append(clientRows, Client{ID: c.ID, Name: c.Name, Email: c.Email, City: c.City})
	}

	if err := s.repo.ReplaceProducts(ctx, productRows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing product cache")
	}
	if err := s.repo.ReplaceCategories(ctx, categoryRows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing category cache")
	}
	if err := s.repo.ReplaceClients(ctx, clientRows); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replacing client cache")
	}

	s.logg.Info(ctx, fmt.Sprintf("catalog cache refreshed: %d products, %d categories, %d clients",
		len(productRows), len(categoryRows), len(clientRows)))
	return nil
}

// LastRefreshed reports the oldest refresh across the three resources,
// so staleness reflects the least fresh table.
func (s *service) LastRefreshed(ctx context.Context) (time.Time, error) {
	oldest := time.Time{}
	for i, resource := range []string{resourceProducts, resourceCategories, resourceClients} {
		at, err := s.repo.LastRefreshed(ctx, resource)
		if err != nil {
			return time.Time{}, err
		}
		if at.IsZero() {
			return time.Time{}, nil
		}
		if i == 0 || at.Before(oldest) {
			oldest = at
		}
	}
	return oldest, nil
}

func metaFromWindow(w collection.Window) PageMeta {
	return PageMeta{
		CurrentPage: w.CurrentPage,
		PerPage:     w.PerPage,
		Total:       w.TotalItems,
		From:        w.From(),
		To:          w.To(),
		LastPage:    w.LastPage(),
	}
}

func productSortKey(sortBy string) (func(Product) collection.SortValue, error) {
	switch normalizeSortBy(sortBy, "name") {
	case "id":
		return func(p Product) collection.SortValue { return collection.StringValue(p.ID) }, nil
	case "name":
		return func(p Product) collection.SortValue { return collection.StringValue(p.Name) }, nil
	case "brand":
		return func(p Product) collection.SortValue { return stringOrMissing(p.Brand) }, nil
	case "category":
		return func(p Product) collection.SortValue { return stringOrMissing(p.Category) }, nil
	case "provider":
		return func(p Product) collection.SortValue { return stringOrMissing(p.Provider) }, nil
	case "price":
		return func(p Product) collection.SortValue { return collection.NumberValue(p.Price.InexactFloat64()) }, nil
	case "stock":
		return func(p Product) collection.SortValue { return collection.NumberValue(float64(p.Stock)) }, nil
	default:
		return nil, unknownSortField(sortBy)
	}
}

func categorySortKey(sortBy string) (func(Category) collection.SortValue, error) {
	switch normalizeSortBy(sortBy, "name") {
	case "id":
		return func(c Category) collection.SortValue { return collection.StringValue(c.ID) }, nil
	case "name":
		return func(c Category) collection.SortValue { return collection.StringValue(c.Name) }, nil
	default:
		return nil, unknownSortField(sortBy)
	}
}

func clientSortKey(sortBy string) (func(Client) collection.SortValue, error) {
	switch normalizeSortBy(sortBy, "name") {
	case "id":
		return func(c Client) collection.SortValue { return collection.StringValue(c.ID) }, nil
	case "name":
		return func(c Client) collection.SortValue { return collection.StringValue(c.Name) }, nil
	case "email":
		return func(c Client) collection.SortValue { return stringOrMissing(c.Email) }, nil
	case "city":
		return func(c Client) collection.SortValue { return stringOrMissing(c.City) }, nil
	default:
		return nil, unknownSortField(sortBy)
	}
}

func normalizeSortBy(sortBy, fallback string) string {
	sortBy = strings.ToLower(strings.TrimSpace(sortBy))
	if sortBy == "" {
		return fallback
	}
	return sortBy
}

func stringOrMissing(value string) collection.SortValue {
	if strings.TrimSpace(value) == "" {
		return collection.MissingValue()
	}
	return collection.StringValue(value)
}

func unknownSortField(sortBy string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown sort field %q", sortBy))
}
