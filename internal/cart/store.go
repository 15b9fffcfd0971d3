// Package cart holds the session-side cart synchronization store. The
// store is authoritative for the session: every mutation applies an
// optimistic local update first, then reconciles against the platform's
// acknowledgement, rolling back on failure.
package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/mvillagra/storefront-session/internal/intent"
	pkgerrors "github.com/mvillagra/storefront-session/pkg/errors"
	"github.com/mvillagra/storefront-session/pkg/gateway"
	"github.com/mvillagra/storefront-session/pkg/logger"
	"github.com/shopspring/decimal"
)

// Gateway is the remote cart surface the store mediates. Implementations
// are bound to the session's bearer token.
type Gateway interface {
	AddItem(ctx context.Context, req gateway.AddItemRequest) (*gateway.AddItemResponse, error)
	GetCart(ctx context.Context) (*gateway.CartPayload, error)
	DecrementItem(ctx context.Context, productID string) (*gateway.DecrementResponse, error)
	RemoveItem(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) error
}

// Store owns the cart line collection for one session. Presentation code
// reads snapshots and dispatches intents; it never mutates lines directly.
type Store struct {
	mu      sync.Mutex
	lines   map[string]*line
	order   []string
	notices []Notice

	gw   Gateway
	logg *logger.Logger
}

// NewStore builds an empty cart store over the given gateway.
func NewStore(gw Gateway, logg *logger.Logger) (*Store, error) {
	if gw == nil {
		return nil, fmt.Errorf("cart gateway required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Store{
		lines: map[string]*line{},
		gw:    gw,
		logg:  logg,
	}, nil
}

// Rehydrate replaces the collection with the platform's snapshot. Called
// at session start, before any intent is accepted.
func (s *Store) Rehydrate(ctx context.Context) error {
	payload, err := s.gw.GetCart(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = make(map[string]*line, len(payload.Items))
	s.order = s.order[:0]
	for _, item := range payload.Items {
		s.lines[item.ProductID] = &line{Line: lineFromPayload(item), confirmed: true}
		s.order = append(s.order, item.ProductID)
	}
	return nil
}

// AddItem registers quantity units of a product, inserting a new
// optimistic line (placeholder price 0) when the product is not in the
// cart yet.
func (s *Store) AddItem(ctx context.Context, productID string, quantity int, unit string) intent.Result {
	if strings.TrimSpace(productID) == "" {
		return intent.Invalid("product id is required")
	}
	if quantity <= 0 {
		return intent.Invalid("quantity must be positive")
	}
	return s.applyAdd(ctx, productID, quantity, unit, false)
}

// IncrementLine raises an existing line's quantity by exactly one,
// clamped to the stock limit.
func (s *Store) IncrementLine(ctx context.Context, productID string) intent.Result {
	return s.applyAdd(ctx, productID, 1, "", true)
}

// applyAdd is the shared optimistic add path. The delta is applied to the
// current in-memory value under the lock, never to a snapshot captured
// before an in-flight call, so rapid clicks cannot lose updates.
func (s *Store) applyAdd(ctx context.Context, productID string, quantity int, unit string, requireExisting bool) intent.Result {
	s.mu.Lock()

	existing := s.lines[productID]
	if existing == nil && requireExisting {
		s.mu.Unlock()
		return intent.NotFound("product is not in the cart")
	}

	var (
		applied   int
		intentSeq uint64
	)
	if existing != nil {
		if unit == "" {
			unit = existing.Unit
		}
		before := existing.Quantity
		existing.Quantity = clampQuantity(before+quantity, existing.StockLimit)
		applied = existing.Quantity - before
		if applied == 0 {
			// Already at the stock limit; nothing to send.
			s.notices = append(s.notices, Notice{
				ProductID: productID,
				Message:   fmt.Sprintf("only %d available in stock", existing.StockLimit),
			})
			s.mu.Unlock()
			return intent.Success()
		}
		existing.seq++
		intentSeq = existing.seq
	} else {
		applied = quantity
		s.lines[productID] = &line{
			Line: Line{
				ProductID: productID,
				UnitPrice: decimal.Zero,
				Quantity:  quantity,
				Unit:      unit,
			},
			seq: 1,
		}
		s.order = append(s.order, productID)
		intentSeq = 1
	}
	s.mu.Unlock()

	resp, err := s.gw.AddItem(ctx, gateway.AddItemRequest{ProductID: productID, Quantity: applied, Unit: unit})
	if err != nil {
		s.rollbackAdd(ctx, productID, applied)
		return intent.Failure(err)
	}

	s.reconcileLine(productID, resp.Item, intentSeq)
	return intent.Success()
}

// rollbackAdd reverses this intent's delta against the current state.
// Newer intents applied while the call was in flight keep their effect.
func (s *Store) rollbackAdd(ctx context.Context, productID string, applied int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.lines[productID]
	if cur == nil {
		return
	}
	cur.Quantity -= applied
	if cur.Quantity <= 0 {
		s.removeLocked(productID)
	}
	s.logg.Warn(s.logg.WithProductID(ctx, productID), "cart add rolled back")
}

// reconcileLine merges an authoritative acknowledgement into the current
// state. Price and stock limit always come from the platform; the local
// quantity survives unless the platform clamped it and no newer local
// intent has run since.
func (s *Store) reconcileLine(productID string, item gateway.CartItemPayload, intentSeq uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur := s.lines[productID]
	if cur == nil {
		// Removed locally while the call was in flight; a stale
		// acknowledgement must not resurrect the line.
		return
	}

	cur.Name = item.Name
	cur.Brand = item.Brand
	cur.UnitPrice = item.UnitPrice
	cur.StockLimit = item.StockLimit
	if item.Unit != "" {
		cur.Unit = item.Unit
	}
	cur.confirmed = true

	if cur.seq == intentSeq && item.Quantity != cur.Quantity {
		cur.Quantity = item.Quantity
		s.notices = append(s.notices, Notice{
			ProductID: productID,
			Message:   fmt.Sprintf("quantity adjusted to %d by available stock", item.Quantity),
		})
	}
	if clamped := clampQuantity(cur.Quantity, cur.StockLimit); clamped != cur.Quantity {
		cur.Quantity = clamped
		s.notices = append(s.notices, Notice{
			ProductID: productID,
			Message:   fmt.Sprintf("only %d available in stock", cur.StockLimit),
		})
	}
	if cur.Quantity <= 0 {
		s.removeLocked(productID)
	}
}

// DecrementLine lowers a line's quantity by exactly one. A decrement that
// would reach zero removes the line instead; a zero-quantity line is
// never retained.
func (s *Store) DecrementLine(ctx context.Context, productID string) intent.Result {
	s.mu.Lock()
	cur := s.lines[productID]
	if cur == nil {
		s.mu.Unlock()
		return intent.NotFound("product is not in the cart")
	}
	if cur.Quantity <= 1 {
		s.mu.Unlock()
		return s.RemoveLine(ctx, productID)
	}
	cur.Quantity--
	cur.seq++
	intentSeq := cur.seq
	s.mu.Unlock()

	resp, err := s.gw.DecrementItem(ctx, productID)
	if err != nil {
		s.mu.Lock()
		if cur := s.lines[productID]; cur != nil {
			cur.Quantity = clampQuantity(cur.Quantity+1, cur.StockLimit)
		}
		s.mu.Unlock()
		return intent.Failure(err)
	}

	if resp.Removed {
		s.mu.Lock()
		if cur := s.lines[productID]; cur != nil && cur.seq == intentSeq {
			s.removeLocked(productID)
			s.notices = append(s.notices, Notice{ProductID: productID, Message: "item removed by the store"})
		}
		s.mu.Unlock()
		return intent.Success()
	}
	if resp.Item != nil {
		s.reconcileLine(productID, *resp.Item, intentSeq)
	}
	return intent.Success()
}

// RemoveLine drops a line regardless of quantity. Removing an absent line
// is a no-op success, and a platform not-found on the removal call is
// treated the same way.
func (s *Store) RemoveLine(ctx context.Context, productID string) intent.Result {
	s.mu.Lock()
	cur := s.lines[productID]
	if cur == nil {
		s.mu.Unlock()
		return intent.Success()
	}
	restore := *cur
	index := s.indexOfLocked(productID)
	s.removeLocked(productID)
	s.mu.Unlock()

	if err := s.gw.RemoveItem(ctx, productID); err != nil && !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		s.mu.Lock()
		// Restore only if the product was not re-added while in flight.
		if s.lines[productID] == nil {
			s.insertLocked(&restore, index)
		}
		s.mu.Unlock()
		return intent.Failure(err)
	}
	return intent.Success()
}

// Clear removes every line optimistically, then issues the bulk clear.
// On failure the exact pre-clear collection is restored, all or nothing.
func (s *Store) Clear(ctx context.Context) intent.Result {
	s.mu.Lock()
	if len(s.order) == 0 {
		s.mu.Unlock()
		return intent.Success()
	}
	prevOrder := make([]string, len(s.order))
	copy(prevOrder, s.order)
	prevLines := make(map[string]*line, len(s.lines))
	for id, l := range s.lines {
		snapshot := *l
		prevLines[id] = &snapshot
	}
	s.lines = map[string]*line{}
	s.order = nil
	s.mu.Unlock()

	if err := s.gw.ClearCart(ctx); err != nil {
		s.mu.Lock()
		s.lines = prevLines
		s.order = prevOrder
		s.mu.Unlock()
		return intent.Failure(err)
	}
	return intent.Success()
}

// Snapshot returns the lines in insertion order with derived subtotal and
// item count, draining any pending reconciliation notices.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{
		Lines:    make([]Line, 0, len(s.order)),
		Subtotal: decimal.Zero,
	}
	for _, id := range s.order {
		cur := s.lines[id]
		if cur == nil {
			continue
		}
		snap.Lines = append(snap.Lines, cur.Line)
		snap.Subtotal = snap.Subtotal.Add(cur.UnitPrice.Mul(decimal.NewFromInt(int64(cur.Quantity))))
		snap.ItemCount += cur.Quantity
	}
	snap.Notices = s.notices
	s.notices = nil
	return snap
}

func (s *Store) indexOfLocked(productID string) int {
	for i, id := range s.order {
		if id == productID {
			return i
		}
	}
	return -1
}

func (s *Store) removeLocked(productID string) {
	delete(s.lines, productID)
	if idx := s.indexOfLocked(productID); idx >= 0 {
		s.order = append(s.order[:idx], s.order[idx+1:]...)
	}
}

func (s *Store) insertLocked(restored *line, index int) {
	s.lines[restored.ProductID] = restored
	if index < 0 || index > len(s.order) {
		index = len(s.order)
	}
	s.order = append(s.order[:index], append([]string{restored.ProductID}, s.order[index:]...)...)
}

func lineFromPayload(item gateway.CartItemPayload) Line {
	return Line{
		ProductID:  item.ProductID,
		Name:       item.Name,
		Brand:      item.Brand,
		UnitPrice:  item.UnitPrice,
		Quantity:   item.Quantity,
		StockLimit: item.StockLimit,
		Unit:       item.Unit,
	}
}
