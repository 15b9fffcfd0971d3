// Package favorites holds the session-side favorites synchronization
// store: named lists of saved products kept in step with the platform
// through optimistic updates and rollback, like the cart store.
package favorites

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mvillagra/storefront-session/internal/intent"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/gateway"
	"github.com/mvillagra/storefront-session/pkg/logger"
	"golang.org/x/sync/singleflight"
)

// Gateway is the remote favorites surface, bound to the session token.
type Gateway interface {
	ListFavoriteLists(ctx context.Context) ([]gateway.FavoriteListPayload, error)
	CreateFavoriteList(ctx context.Context, name string) (*gateway.CreateListResponse, error)
	AddFavorite(ctx context.Context, req gateway.AddFavoriteRequest) error
	RemoveFavorite(ctx context.Context, productID string) error
	DeleteFavoriteList(ctx context.Context, listID string) error
}

// Store owns the favorites lists for one session.
type Store struct {
	mu    sync.Mutex
	lists []*List

	refresh singleflight.Group
	gw      Gateway
	logg    *logger.Logger
}

// NewStore builds an empty favorites store over the given gateway.
func NewStore(gw Gateway, logg *logger.Logger) (*Store, error) {
	if gw == nil {
		return nil, fmt.Errorf("favorites gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{gw: gw, logg: logg}, nil
}

// FetchLists refreshes the collection from the platform. Concurrent
// refreshes coalesce into a single gateway call; pending local lists
// survive the refresh, appended after the confirmed ones.
func (s *Store) FetchLists(ctx context.Context) error {
	_, err, _ := s.refresh.Do("lists", func() (any, error) {
		payload, err := s.gw.ListFavoriteLists(ctx)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		defer s.mu.Unlock()

		next := make([]*List, 0, len(payload)+len(s.lists))
		for _, p := range payload {
			confirmed := listFromPayload(p)
			next = append(next, &confirmed)
		}
		for _, l := range s.lists {
			if l.Pending {
				next = append(next, l)
			}
		}
		s.lists = next
		return nil, nil
	})
	return err
}

// CreateList registers a named list. The list appears immediately as
// pending under a local id; on acknowledgement it is confirmed in place
// with the platform's id, and on failure it is removed again.
func (s *Store) CreateList(ctx context.Context, name string) (List, intent.Result) {
	name = strings.TrimSpace(name)
	if name == "" {
		return List{}, intent.Invalid("list name is required")
	}

	localID := uuid.NewString()
	s.mu.Lock()
	for _, l := range s.lists {
		if strings.EqualFold(l.Name, name) {
			s.mu.Unlock()
			return List{}, intent.Result{Code: pkgerrors.CodeConflict, Message: "a list with this name already exists"}
		}
	}
	pending := &List{ID: localID, Name: name, Pending: true}
	s.lists = append(s.lists, pending)
	s.mu.Unlock()

	resp, err := s.gw.CreateFavoriteList(ctx, name)
	if err != nil {
		s.mu.Lock()
		s.removeListLocked(localID)
		s.mu.Unlock()
		s.logg.Warn(s.logg.WithListID(ctx, localID), "favorites list creation rolled back")
		return List{}, intent.Failure(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cur := s.findLocked(localID)
	if cur == nil {
		// Session torn down while in flight; nothing to confirm.
		return List{}, intent.Success()
	}
	cur.ID = resp.ID
	cur.Pending = false
	if resp.Name != "" {
		cur.Name = resp.Name
	}
	return *cur, intent.Success()
}

// AddProduct attaches a product to a confirmed list. Pending lists do
// not exist on the platform yet, so adds against them fail not-found.
func (s *Store) AddProduct(ctx context.Context, listID string, entry Entry) intent.Result {
	if strings.TrimSpace(entry.ProductID) == "" {
		return intent.Invalid("product id is required")
	}

	s.mu.Lock()
	cur := s.findLocked(listID)
	if cur == nil || cur.Pending {
		s.mu.Unlock()
		return intent.NotFound("favorites list not found")
	}
	if indexOfEntry(cur.Entries, entry.ProductID) >= 0 {
		s.mu.Unlock()
		return intent.Success()
	}
	cur.Entries = append(cur.Entries, entry)
	s.mu.Unlock()

	err := s.gw.AddFavorite(ctx, gateway.AddFavoriteRequest{
		FavoriteListID: listID,
		ProductID:      entry.ProductID,
		Unit:           entry.Unit,
	})
	if err != nil {
		s.mu.Lock()
		if cur := s.findLocked(listID); cur != nil {
			if idx := indexOfEntry(cur.Entries, entry.ProductID); idx >= 0 {
				cur.Entries = append(cur.Entries[:idx], cur.Entries[idx+1:]...)
			}
		}
		s.mu.Unlock()
		return intent.Failure(err)
	}
	return intent.Success()
}

// RemoveProduct detaches a product from every list that holds it, both
// locally and on the platform. On failure every local removal is
// restored at its original position.
func (s *Store) RemoveProduct(ctx context.Context, productID string) intent.Result {
	if strings.TrimSpace(productID) == "" {
		return intent.Invalid("product id is required")
	}

	type removal struct {
		listID string
		index  int
		entry  Entry
	}

	s.mu.Lock()
	var removed []removal
	for _, l := range s.lists {
		if idx := indexOfEntry(l.Entries, productID); idx >= 0 {
			removed = append(removed, removal{listID: l.ID, index: idx, entry: l.Entries[idx]})
			l.Entries = append(l.Entries[:idx], l.Entries[idx+1:]...)
		}
	}
	s.mu.Unlock()

	if len(removed) == 0 {
		return intent.Success()
	}

	if err := s.gw.RemoveFavorite(ctx, productID); err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		s.mu.Lock()
		for _, r := range removed {
			cur := s.findLocked(r.listID)
			if cur == nil || indexOfEntry(cur.Entries, productID) >= 0 {
				continue
			}
			idx := r.index
			if idx > len(cur.Entries) {
				idx = len(cur.Entries)
			}
			cur.Entries = append(cur.Entries[:idx], append([]Entry{r.entry}, cur.Entries[idx:]...)...)
		}
		s.mu.Unlock()
		return intent.Failure(err)
	}
	return intent.Success()
}

// DeleteList removes a whole confirmed list, restoring it in place when
// the platform rejects the deletion.
func (s *Store) DeleteList(ctx context.Context, listID string) intent.Result {
	s.mu.Lock()
	cur := s.findLocked(listID)
	if cur == nil || cur.Pending {
		s.mu.Unlock()
		return intent.NotFound("favorites list not found")
	}
	restore := *cur
	index := s.indexOfListLocked(listID)
	s.removeListLocked(listID)
	s.mu.Unlock()

	if err := s.gw.DeleteFavoriteList(ctx, listID); err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		s.mu.Lock()
		if s.findLocked(listID) == nil {
			if index < 0 || index > len(s.lists) {
				index = len(s.lists)
			}
			s.lists = append(s.lists[:index], append([]*List{&restore}, s.lists[index:]...)...)
		}
		s.mu.Unlock()
		return intent.Failure(err)
	}
	return intent.Success()
}

// ContainsProduct reports whether any list holds the product.
func (s *Store) ContainsProduct(productID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.lists {
		if indexOfEntry(l.Entries, productID) >= 0 {
			return true
		}
	}
	return false
}

// Snapshot returns a deep copy of the lists in display order.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Lists: make([]List, 0, len(s.lists))}
	for _, l := range s.lists {
		c := *l
		c.Entries = append([]Entry(nil), l.Entries...)
		snap.Lists = append(snap.Lists, c)
	}
	return snap
}

func (s *Store) findLocked(listID string) *List {
	for _, l := range s.lists {
		if l.ID == listID {
			return l
		}
	}
	return nil
}

func (s *Store) indexOfListLocked(listID string) int {
	for i, l := range s.lists {
		if l.ID == listID {
			return i
		}
	}
	return -1
}

func (s *Store) removeListLocked(listID string) {
	if idx := s.indexOfListLocked(listID); idx >= 0 {
		s.lists = append(s.lists[:idx], s.lists[idx+1:]...)
	}
}

func indexOfEntry(entries []Entry, productID string) int {
	for i, e := range entries {
		if e.ProductID == productID {
			return i
		}
	}
	return -1
}
