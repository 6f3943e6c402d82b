package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brianragasi/Highland-sub003/internal/entity"
	"github.com/shopspring/decimal"
)

// CartStore holds the open transaction for every terminal. Each terminal
// has at most one cart; lines within a cart are unique per product id.
// All mutations happen under the store lock, so the invariants in
// entity.Cart hold for any interleaving of handler calls.
type CartStore struct {
	mu      sync.Mutex
	carts   map[string]*entity.Cart
	catalog CatalogProvider
}

func NewCartStore(catalog CatalogProvider) *CartStore {
	return &CartStore{
		carts:   make(map[string]*entity.Cart),
		catalog: catalog,
	}
}

// Get returns a copy of the terminal's cart. A terminal with no open
// transaction gets an empty cart; nothing is allocated in the store.
func (s *CartStore) Get(terminalID string) *entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.carts[terminalID]; ok {
		return c.Clone()
	}
	return &entity.Cart{TerminalID: terminalID, Tendered: decimal.Zero}
}

// AddItem puts one unit of productID into the cart, snapshotting the
// catalog price and stock at this instant. Adding a product already in the
// cart increments its line instead of creating a duplicate.
func (s *CartStore) AddItem(ctx context.Context, terminalID, productID string) (*entity.Cart, error) {
	item, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, productID)
	}
	if !item.InStock() {
		return nil, fmt.Errorf("%w: %s", ErrOutOfStock, item.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cart(terminalID)
	if i := cart.FindLine(productID); i >= 0 {
		line := &cart.Lines[i]
		if line.Quantity+1 > line.MaxStock {
			return nil, fmt.Errorf("%w: only %d of %s available", ErrStockExceeded, line.MaxStock, line.Name)
		}
		line.Quantity++
	} else {
		cart.Lines = append(cart.Lines, entity.CartLine{
			ProductID: productID,
			Name:      item.Name,
			UnitPrice: item.Price,
			Quantity:  1,
			MaxStock:  item.QuantityOnHand,
		})
	}
	cart.UpdatedAt = time.Now()
	return cart.Clone(), nil
}

// RemoveItem deletes the line unconditionally. Removing a product that is
// not in the cart is a no-op.
func (s *CartStore) RemoveItem(terminalID, productID string) *entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[terminalID]
	if !ok {
		return &entity.Cart{TerminalID: terminalID, Tendered: decimal.Zero}
	}
	if i := cart.FindLine(productID); i >= 0 {
		cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
		cart.UpdatedAt = time.Now()
	}
	return cart.Clone()
}

// SetQuantity sets the line to quantity. Zero or less removes the line; a
// quantity above the snapshotted max stock fails and leaves the line as it was.
func (s *CartStore) SetQuantity(terminalID, productID string, quantity int) (*entity.Cart, error) {
	if quantity <= 0 {
		return s.RemoveItem(terminalID, productID), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[terminalID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, productID)
	}
	i := cart.FindLine(productID)
	if i < 0 {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, productID)
	}
	line := &cart.Lines[i]
	if quantity > line.MaxStock {
		return nil, fmt.Errorf("%w: only %d of %s available", ErrStockExceeded, line.MaxStock, line.Name)
	}
	line.Quantity = quantity
	cart.UpdatedAt = time.Now()
	return cart.Clone(), nil
}

// Clear drops the terminal's cart entirely: lines and tendered payment.
// Called on explicit cancel.
func (s *CartStore) Clear(terminalID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, terminalID)
}

// ClearSold removes the sold snapshot from the live cart after a successful
// checkout. When the cart was not touched while the submission was on the
// wire it is dropped whole; otherwise only the sold quantities and the sold
// tender come off, so an edit made during the window is not lost.
func (s *CartStore) ClearSold(terminalID string, sold *entity.Cart) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cart, ok := s.carts[terminalID]
	if !ok {
		return
	}
	if cart.UpdatedAt.Equal(sold.UpdatedAt) {
		delete(s.carts, terminalID)
		return
	}

	for _, sl := range sold.Lines {
		if i := cart.FindLine(sl.ProductID); i >= 0 {
			cart.Lines[i].Quantity -= sl.Quantity
			if cart.Lines[i].Quantity <= 0 {
				cart.Lines = append(cart.Lines[:i], cart.Lines[i+1:]...)
			}
		}
	}
	cart.Tendered = cart.Tendered.Sub(sold.Tendered)
	if cart.Tendered.IsNegative() {
		cart.Tendered = decimal.Zero
	}
	if len(cart.Lines) == 0 && !cart.Tendered.IsPositive() {
		delete(s.carts, terminalID)
		return
	}
	cart.UpdatedAt = time.Now()
}

// SetTendered replaces the tendered amount. Negative amounts are rejected.
func (s *CartStore) SetTendered(terminalID string, amount decimal.Decimal) (*entity.Cart, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cart(terminalID)
	cart.Tendered = amount
	cart.UpdatedAt = time.Now()
	return cart.Clone(), nil
}

// AddTender accumulates onto the tendered amount (quick cash buttons).
func (s *CartStore) AddTender(terminalID string, amount decimal.Decimal) (*entity.Cart, error) {
	if amount.IsNegative() {
		return nil, fmt.Errorf("%w: negative amount", ErrInvalidInput)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cart(terminalID)
	cart.Tendered = cart.Tendered.Add(amount)
	cart.UpdatedAt = time.Now()
	return cart.Clone(), nil
}

// SetExact sets tendered to the current grand total, computed under the
// lock so a concurrent line edit cannot slip between read and write.
func (s *CartStore) SetExact(terminalID string, pricing Pricing) *entity.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cart(terminalID)
	cart.Tendered = pricing.Totals(cart.Lines).GrandTotal
	cart.UpdatedAt = time.Now()
	return cart.Clone()
}

// cart returns the live cart for terminalID, creating it on first use.
// Callers must hold s.mu.
func (s *CartStore) cart(terminalID string) *entity.Cart {
	c, ok := s.carts[terminalID]
	if !ok {
		c = &entity.Cart{
			TerminalID: terminalID,
			Tendered:   decimal.Zero,
			CreatedAt:  time.Now(),
			UpdatedAt:  time.Now(),
		}
		s.carts[terminalID] = c
	}
	return c
}
