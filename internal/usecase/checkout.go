package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/brianragasi/Highland-sub003/internal/entity"
)

// Checkout validates the cart and payment, submits the sale, and clears the
// terminal's state on success. One submission per terminal at a time; the
// old cash registers relied on a disabled button for this, here it is an
// in-flight guard plus an idempotency lock on the confirm token.
type Checkout struct {
	carts   *CartStore
	pricing Pricing
	sales   SalesGateway
	idem    IdempotencyStore
	events  SaleEvents
	timeout time.Duration

	mu       sync.Mutex
	inflight map[string]bool
}

func NewCheckout(carts *CartStore, pricing Pricing, sales SalesGateway, idem IdempotencyStore, events SaleEvents, timeout time.Duration) *Checkout {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Checkout{
		carts:    carts,
		pricing:  pricing,
		sales:    sales,
		idem:     idem,
		events:   events,
		timeout:  timeout,
		inflight: make(map[string]bool),
	}
}

// Execute runs one confirm action. Precondition failures (empty cart,
// short payment) return before any network call. On success the cart and
// tendered amount are reset; on any failure they are left untouched so the
// operator can correct and retry.
func (c *Checkout) Execute(ctx context.Context, terminalID, confirmToken, notes string) (*entity.SaleReceipt, error) {
	cart := c.carts.Get(terminalID)
	if cart.IsEmpty() {
		return nil, ErrEmptyCart
	}
	totals := c.pricing.Totals(cart.Lines)
	if !Sufficient(totals.GrandTotal, cart.Tendered) {
		short := Change(totals.GrandTotal, cart.Tendered).Neg()
		return nil, fmt.Errorf("%w: short by %s", ErrInsufficientPayment, short.StringFixed(2))
	}

	if !c.acquire(terminalID) {
		return nil, ErrCheckoutInFlight
	}
	defer c.release(terminalID)

	// Fast path: this confirm token already produced a sale. A store error
	// fails the confirm; submitting blind could double-sell the token.
	id, ok, err := c.idem.Recall(ctx, terminalID, confirmToken)
	if err != nil {
		return nil, err
	}
	if ok {
		return c.sales.GetReceipt(ctx, id)
	}
	locked, err := c.idem.TryLock(ctx, terminalID, confirmToken)
	if err != nil {
		return nil, err
	}
	if !locked {
		return nil, ErrCheckoutInFlight
	}

	req := SaleRequest{
		Items:           make([]SaleLine, 0, len(cart.Lines)),
		PaymentReceived: cart.Tendered,
		Notes:           notes,
	}
	for _, l := range cart.Lines {
		req.Items = append(req.Items, SaleLine{
			ProductID: l.ProductID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}

	subCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	receipt, err := c.sales.CreateSale(subCtx, req)
	if err != nil {
		// Free the token so the operator's next attempt is not locked out.
		_ = c.idem.Release(ctx, terminalID, confirmToken)
		return nil, err
	}

	_ = c.idem.Remember(ctx, terminalID, confirmToken, receipt.SaleID)
	c.carts.ClearSold(terminalID, cart)

	// Best effort; downstream consumers reconcile from the sales service
	// if a publish is lost.
	_ = c.events.PublishCompleted(ctx, SaleCompletedMsg{
		SaleID:     receipt.SaleID,
		SaleNumber: receipt.SaleNumber,
		TerminalID: terminalID,
		Total:      receipt.TotalAmount.StringFixed(2),
		Lines:      req.Items,
	})

	return receipt, nil
}

func (c *Checkout) acquire(terminalID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight[terminalID] {
		return false
	}
	c.inflight[terminalID] = true
	return true
}

func (c *Checkout) release(terminalID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, terminalID)
}
