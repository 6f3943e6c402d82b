package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/brianragasi/Highland-sub003/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockGateway struct {
	createCalls int
	lastReq     SaleRequest
	receipt     *entity.SaleReceipt
	err         error

	receipts map[string]*entity.SaleReceipt
}

func (m *mockGateway) CreateSale(_ context.Context, req SaleRequest) (*entity.SaleReceipt, error) {
	m.createCalls++
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.receipt, nil
}

func (m *mockGateway) GetReceipt(_ context.Context, saleID string) (*entity.SaleReceipt, error) {
	if r, ok := m.receipts[saleID]; ok {
		return r, nil
	}
	return nil, fmt.Errorf("%w: receipt fetch failed", ErrTransport)
}

type memIdem struct {
	locks map[string]bool
	vals  map[string]string
}

func newMemIdem() *memIdem {
	return &memIdem{locks: map[string]bool{}, vals: map[string]string{}}
}

func (m *memIdem) TryLock(_ context.Context, scope, key string) (bool, error) {
	k := scope + ":" + key
	if m.locks[k] {
		return false, nil
	}
	m.locks[k] = true
	return true, nil
}

func (m *memIdem) Release(_ context.Context, scope, key string) error {
	delete(m.locks, scope+":"+key)
	return nil
}

func (m *memIdem) Remember(_ context.Context, scope, key, value string) error {
	m.vals[scope+":"+key] = value
	return nil
}

func (m *memIdem) Recall(_ context.Context, scope, key string) (string, bool, error) {
	v, ok := m.vals[scope+":"+key]
	return v, ok, nil
}

type memEvents struct {
	published []SaleCompletedMsg
}

func (m *memEvents) PublishCompleted(_ context.Context, msg SaleCompletedMsg) error {
	m.published = append(m.published, msg)
	return nil
}

func testReceipt(t *testing.T) *entity.SaleReceipt {
	t.Helper()
	return &entity.SaleReceipt{
		SaleID:      "sale-1",
		SaleNumber:  "HF-000123",
		TotalAmount: dec(t, "101.92"),
	}
}

// loads cart with A x1 and B x2, totals 101.92 at 12% tax
func loadedCart(t *testing.T, s *CartStore) {
	t.Helper()
	ctx := context.Background()
	_, err := s.AddItem(ctx, term, "A")
	require.NoError(t, err)
	_, err = s.AddItem(ctx, term, "B")
	require.NoError(t, err)
	_, err = s.AddItem(ctx, term, "B")
	require.NoError(t, err)
}

func newCheckoutFixture(t *testing.T, gw *mockGateway) (*Checkout, *CartStore, *memEvents) {
	t.Helper()
	carts := NewCartStore(testCatalog(t))
	events := &memEvents{}
	co := NewCheckout(carts, NewPricing(dec(t, "0.12")), gw, newMemIdem(), events, 5*time.Second)
	return co, carts, events
}

func TestExecute_EmptyCart(t *testing.T) {
	gw := &mockGateway{}
	co, carts, _ := newCheckoutFixture(t, gw)

	// any tendered amount: empty cart still refuses
	_, err := carts.SetTendered(term, dec(t, "500.00"))
	require.NoError(t, err)

	_, err = co.Execute(context.Background(), term, "tok-1", "")
	assert.True(t, errors.Is(err, ErrEmptyCart))
	assert.Equal(t, 0, gw.createCalls, "no service call on precondition failure")
}

func TestExecute_InsufficientPayment(t *testing.T) {
	gw := &mockGateway{}
	co, carts, _ := newCheckoutFixture(t, gw)
	loadedCart(t, carts)
	_, err := carts.SetTendered(term, dec(t, "50.00"))
	require.NoError(t, err)

	_, err = co.Execute(context.Background(), term, "tok-1", "")
	assert.True(t, errors.Is(err, ErrInsufficientPayment))
	assert.Equal(t, 0, gw.createCalls, "no service call on precondition failure")

	cart := carts.Get(term)
	assert.Len(t, cart.Lines, 2)
	assert.True(t, cart.Tendered.Equal(dec(t, "50.00")))
}

func TestExecute_Success(t *testing.T) {
	gw := &mockGateway{receipt: testReceipt(t)}
	co, carts, events := newCheckoutFixture(t, gw)
	loadedCart(t, carts)
	_, err := carts.SetTendered(term, dec(t, "110.00"))
	require.NoError(t, err)

	receipt, err := co.Execute(context.Background(), term, "tok-1", "walk-in")
	require.NoError(t, err)
	assert.Equal(t, "HF-000123", receipt.SaleNumber)

	// request carried every line and the payment
	require.Len(t, gw.lastReq.Items, 2)
	assert.Equal(t, "A", gw.lastReq.Items[0].ProductID)
	assert.Equal(t, 1, gw.lastReq.Items[0].Quantity)
	assert.Equal(t, "B", gw.lastReq.Items[1].ProductID)
	assert.Equal(t, 2, gw.lastReq.Items[1].Quantity)
	assert.True(t, gw.lastReq.PaymentReceived.Equal(dec(t, "110.00")))
	assert.Equal(t, "walk-in", gw.lastReq.Notes)

	// cart and payment reset for the next customer
	cart := carts.Get(term)
	assert.True(t, cart.IsEmpty())
	assert.True(t, cart.Tendered.IsZero())

	require.Len(t, events.published, 1)
	assert.Equal(t, "sale-1", events.published[0].SaleID)
	assert.Equal(t, term, events.published[0].TerminalID)
}

func TestExecute_ServiceRejection_LeavesCartIntact(t *testing.T) {
	gw := &mockGateway{err: &RejectionError{Message: "Stock changed"}}
	co, carts, events := newCheckoutFixture(t, gw)
	loadedCart(t, carts)
	_, err := carts.SetTendered(term, dec(t, "110.00"))
	require.NoError(t, err)

	_, err = co.Execute(context.Background(), term, "tok-1", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrServiceRejected))
	assert.Contains(t, err.Error(), "Stock changed", "server message shown verbatim")

	cart := carts.Get(term)
	assert.Len(t, cart.Lines, 2)
	assert.True(t, cart.Tendered.Equal(dec(t, "110.00")))
	assert.Empty(t, events.published)
}

func TestExecute_TransportError_AllowsRetry(t *testing.T) {
	gw := &mockGateway{err: fmt.Errorf("%w: connection refused", ErrTransport)}
	co, carts, _ := newCheckoutFixture(t, gw)
	loadedCart(t, carts)
	_, err := carts.SetTendered(term, dec(t, "110.00"))
	require.NoError(t, err)

	_, err = co.Execute(context.Background(), term, "tok-1", "")
	assert.True(t, errors.Is(err, ErrTransport))

	// same confirm token retries cleanly once the network is back
	gw.err = nil
	gw.receipt = testReceipt(t)
	receipt, err := co.Execute(context.Background(), term, "tok-1", "")
	require.NoError(t, err)
	assert.Equal(t, "sale-1", receipt.SaleID)
	assert.Equal(t, 2, gw.createCalls)
}

func TestExecute_DuplicateConfirmToken(t *testing.T) {
	gw := &mockGateway{
		receipt:  testReceipt(t),
		receipts: map[string]*entity.SaleReceipt{"sale-1": testReceipt(t)},
	}
	co, carts, _ := newCheckoutFixture(t, gw)
	loadedCart(t, carts)
	_, err := carts.SetTendered(term, dec(t, "110.00"))
	require.NoError(t, err)

	_, err = co.Execute(context.Background(), term, "tok-1", "")
	require.NoError(t, err)

	// a replayed confirm with the same token must not create a second sale
	loadedCart(t, carts)
	_, err = carts.SetTendered(term, dec(t, "110.00"))
	require.NoError(t, err)

	receipt, err := co.Execute(context.Background(), term, "tok-1", "")
	require.NoError(t, err)
	assert.Equal(t, "sale-1", receipt.SaleID)
	assert.Equal(t, 1, gw.createCalls, "sale submitted exactly once")
}

type failingRecallIdem struct {
	*memIdem
	err error
}

func (f *failingRecallIdem) Recall(context.Context, string, string) (string, bool, error) {
	return "", false, f.err
}

func TestExecute_IdempotencyStoreDown(t *testing.T) {
	gw := &mockGateway{receipt: testReceipt(t)}
	carts := NewCartStore(testCatalog(t))
	storeErr := errors.New("connection refused")
	idem := &failingRecallIdem{memIdem: newMemIdem(), err: storeErr}
	co := NewCheckout(carts, NewPricing(dec(t, "0.12")), gw, idem, &memEvents{}, 5*time.Second)
	loadedCart(t, carts)
	_, err := carts.SetTendered(term, dec(t, "110.00"))
	require.NoError(t, err)

	_, err = co.Execute(context.Background(), term, "tok-1", "")
	assert.True(t, errors.Is(err, storeErr))
	assert.Equal(t, 0, gw.createCalls, "no sale submitted while the store is unreachable")

	cart := carts.Get(term)
	assert.Len(t, cart.Lines, 2, "cart intact for the retry")
	assert.True(t, cart.Tendered.Equal(dec(t, "110.00")))
}

type blockingGateway struct {
	entered chan struct{}
	release chan struct{}
	receipt *entity.SaleReceipt
}

func (b *blockingGateway) CreateSale(ctx context.Context, _ SaleRequest) (*entity.SaleReceipt, error) {
	close(b.entered)
	select {
	case <-b.release:
		return b.receipt, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
	}
}

func (b *blockingGateway) GetReceipt(context.Context, string) (*entity.SaleReceipt, error) {
	return nil, fmt.Errorf("%w: not implemented", ErrTransport)
}

func TestExecute_SecondConfirmWhileInFlight(t *testing.T) {
	gw := &blockingGateway{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		receipt: testReceipt(t),
	}
	carts := NewCartStore(testCatalog(t))
	co := NewCheckout(carts, NewPricing(dec(t, "0.12")), gw, newMemIdem(), &memEvents{}, 5*time.Second)
	loadedCart(t, carts)
	_, err := carts.SetTendered(term, dec(t, "110.00"))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := co.Execute(context.Background(), term, "tok-1", "")
		done <- err
	}()
	<-gw.entered

	_, err = co.Execute(context.Background(), term, "tok-2", "")
	assert.True(t, errors.Is(err, ErrCheckoutInFlight))

	close(gw.release)
	require.NoError(t, <-done)
}

func TestExecute_EditDuringSubmissionSurvives(t *testing.T) {
	gw := &blockingGateway{
		entered: make(chan struct{}),
		release: make(chan struct{}),
		receipt: testReceipt(t),
	}
	carts := NewCartStore(testCatalog(t))
	co := NewCheckout(carts, NewPricing(dec(t, "0.12")), gw, newMemIdem(), &memEvents{}, 5*time.Second)
	loadedCart(t, carts)
	_, err := carts.SetTendered(term, dec(t, "110.00"))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := co.Execute(context.Background(), term, "tok-1", "")
		done <- err
	}()
	<-gw.entered

	// operator scans another item while the confirm is on the wire
	_, err = carts.AddItem(context.Background(), term, "A")
	require.NoError(t, err)

	close(gw.release)
	require.NoError(t, <-done)

	// sold quantities are gone, the late scan is not
	cart := carts.Get(term)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, "A", cart.Lines[0].ProductID)
	assert.Equal(t, 1, cart.Lines[0].Quantity)
	assert.True(t, cart.Tendered.IsZero())
}

func TestExecute_SubmissionTimeout(t *testing.T) {
	gw := &blockingGateway{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	carts := NewCartStore(testCatalog(t))
	co := NewCheckout(carts, NewPricing(dec(t, "0.12")), gw, newMemIdem(), &memEvents{}, 20*time.Millisecond)
	loadedCart(t, carts)
	_, err := carts.SetTendered(term, dec(t, "110.00"))
	require.NoError(t, err)

	_, err = co.Execute(context.Background(), term, "tok-1", "")
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Len(t, carts.Get(term).Lines, 2, "cart intact after timeout")
}
