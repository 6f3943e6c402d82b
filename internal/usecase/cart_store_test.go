package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/brianragasi/Highland-sub003/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCatalog struct {
	items map[string]entity.CatalogItem
	err   error
}

func (s *stubCatalog) List(context.Context) ([]entity.CatalogItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]entity.CatalogItem, 0, len(s.items))
	for _, it := range s.items {
		out = append(out, it)
	}
	return out, nil
}

func (s *stubCatalog) Get(_ context.Context, productID string) (*entity.CatalogItem, error) {
	if s.err != nil {
		return nil, s.err
	}
	it, ok := s.items[productID]
	if !ok {
		return nil, nil
	}
	return &it, nil
}

func testCatalog(t *testing.T) *stubCatalog {
	t.Helper()
	return &stubCatalog{items: map[string]entity.CatalogItem{
		"A": {ProductID: "A", Name: "Fresh Milk 1L", Price: dec(t, "40.00"), QuantityOnHand: 10},
		"B": {ProductID: "B", Name: "Butter 250g", Price: dec(t, "25.50"), QuantityOnHand: 3},
		"C": {ProductID: "C", Name: "Yogurt Cup", Price: dec(t, "15.00"), QuantityOnHand: 0},
	}}
}

const term = "till-1"

func TestAddItem_NewLineAndIncrement(t *testing.T) {
	s := NewCartStore(testCatalog(t))
	ctx := context.Background()

	cart, err := s.AddItem(ctx, term, "A")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.Equal(t, 10, cart.Lines[0].MaxStock)
	assert.True(t, cart.Lines[0].UnitPrice.Equal(dec(t, "40.00")))

	// same product again: increments, never a duplicate line
	cart, err = s.AddItem(ctx, term, "A")
	require.NoError(t, err)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
}

func TestAddItem_SnapshotsPriceAtAddTime(t *testing.T) {
	cat := testCatalog(t)
	s := NewCartStore(cat)
	ctx := context.Background()

	_, err := s.AddItem(ctx, term, "A")
	require.NoError(t, err)

	// catalog price moves after the line was created
	it := cat.items["A"]
	it.Price = dec(t, "99.00")
	cat.items["A"] = it

	cart, err := s.AddItem(ctx, term, "A")
	require.NoError(t, err)
	assert.True(t, cart.Lines[0].UnitPrice.Equal(dec(t, "40.00")), "line keeps the add-time price")
}

func TestAddItem_Errors(t *testing.T) {
	s := NewCartStore(testCatalog(t))
	ctx := context.Background()

	_, err := s.AddItem(ctx, term, "nope")
	assert.True(t, errors.Is(err, ErrItemNotFound))

	_, err = s.AddItem(ctx, term, "C")
	assert.True(t, errors.Is(err, ErrOutOfStock))

	// B has stock 3; a fourth add must fail and leave the line at 3
	for i := 0; i < 3; i++ {
		_, err = s.AddItem(ctx, term, "B")
		require.NoError(t, err)
	}
	_, err = s.AddItem(ctx, term, "B")
	assert.True(t, errors.Is(err, ErrStockExceeded))
	assert.Equal(t, 3, s.Get(term).Lines[0].Quantity)
}

func TestSetQuantity(t *testing.T) {
	s := NewCartStore(testCatalog(t))
	ctx := context.Background()

	_, err := s.AddItem(ctx, term, "B")
	require.NoError(t, err)

	cart, err := s.SetQuantity(term, "B", 2)
	require.NoError(t, err)
	assert.Equal(t, 2, cart.Lines[0].Quantity)

	// scenario: over the snapshotted stock fails, line unchanged
	_, err = s.SetQuantity(term, "B", 5)
	assert.True(t, errors.Is(err, ErrStockExceeded))
	assert.Equal(t, 2, s.Get(term).Lines[0].Quantity)

	// zero or less behaves as remove
	cart, err = s.SetQuantity(term, "B", 0)
	require.NoError(t, err)
	assert.True(t, cart.IsEmpty())

	_, err = s.SetQuantity(term, "B", 1)
	assert.True(t, errors.Is(err, ErrItemNotFound))
}

func TestRemoveItem_Idempotent(t *testing.T) {
	s := NewCartStore(testCatalog(t))
	ctx := context.Background()

	_, err := s.AddItem(ctx, term, "A")
	require.NoError(t, err)

	cart := s.RemoveItem(term, "A")
	assert.True(t, cart.IsEmpty())

	// removing again, or from an unknown terminal, is a no-op
	cart = s.RemoveItem(term, "A")
	assert.True(t, cart.IsEmpty())
	cart = s.RemoveItem("till-9", "A")
	assert.True(t, cart.IsEmpty())
}

func TestClear(t *testing.T) {
	s := NewCartStore(testCatalog(t))
	ctx := context.Background()

	_, err := s.AddItem(ctx, term, "A")
	require.NoError(t, err)
	_, err = s.SetTendered(term, dec(t, "100.00"))
	require.NoError(t, err)

	s.Clear(term)

	cart := s.Get(term)
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Tendered.IsZero(), "clear resets payment too")
}

func TestClearSold_UntouchedCartDroppedWhole(t *testing.T) {
	s := NewCartStore(testCatalog(t))
	ctx := context.Background()

	_, err := s.AddItem(ctx, term, "A")
	require.NoError(t, err)
	_, err = s.SetTendered(term, dec(t, "50.00"))
	require.NoError(t, err)

	s.ClearSold(term, s.Get(term))

	cart := s.Get(term)
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Tendered.IsZero())
}

func TestClearSold_KeepsLaterEdits(t *testing.T) {
	s := NewCartStore(testCatalog(t))
	ctx := context.Background()

	_, err := s.AddItem(ctx, term, "A")
	require.NoError(t, err)
	sold := s.Get(term)

	// edits after the snapshot: one more A and a fresh B
	_, err = s.AddItem(ctx, term, "A")
	require.NoError(t, err)
	_, err = s.AddItem(ctx, term, "B")
	require.NoError(t, err)

	s.ClearSold(term, sold)

	cart := s.Get(term)
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 1, cart.Lines[0].Quantity, "only the sold unit of A comes off")
	assert.Equal(t, "B", cart.Lines[1].ProductID)
}

func TestTenderOps(t *testing.T) {
	s := NewCartStore(testCatalog(t))
	ctx := context.Background()

	_, err := s.SetTendered(term, dec(t, "-1"))
	assert.True(t, errors.Is(err, ErrInvalidInput))

	cart, err := s.SetTendered(term, dec(t, "50.00"))
	require.NoError(t, err)
	assert.True(t, cart.Tendered.Equal(dec(t, "50.00")))

	// quick cash buttons accumulate
	cart, err = s.AddTender(term, dec(t, "20.00"))
	require.NoError(t, err)
	cart, err = s.AddTender(term, dec(t, "20.00"))
	require.NoError(t, err)
	assert.True(t, cart.Tendered.Equal(dec(t, "90.00")))

	// exact payment: tendered becomes the grand total, change zero
	_, err = s.AddItem(ctx, term, "A")
	require.NoError(t, err)
	_, err = s.AddItem(ctx, term, "B")
	require.NoError(t, err)
	_, err = s.AddItem(ctx, term, "B")
	require.NoError(t, err)

	pricing := NewPricing(dec(t, "0.12"))
	cart = s.SetExact(term, pricing)
	assert.True(t, cart.Tendered.Equal(dec(t, "101.92")))
	assert.True(t, Change(pricing.Totals(cart.Lines).GrandTotal, cart.Tendered).IsZero())
}

func TestGet_IsACopy(t *testing.T) {
	s := NewCartStore(testCatalog(t))
	ctx := context.Background()

	_, err := s.AddItem(ctx, term, "A")
	require.NoError(t, err)

	cart := s.Get(term)
	cart.Lines[0].Quantity = 99

	assert.Equal(t, 1, s.Get(term).Lines[0].Quantity, "mutating a snapshot must not touch the store")
}
