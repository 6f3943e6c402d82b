package usecase

import (
	"errors"
	"fmt"
)

// Cart-local validation failures. Surfaced to the operator immediately;
// the cart is left exactly as it was.
var (
	ErrItemNotFound  = errors.New("item not found in catalog")
	ErrOutOfStock    = errors.New("item is out of stock")
	ErrStockExceeded = errors.New("quantity exceeds available stock")
	ErrInvalidInput  = errors.New("invalid amount")
)

// Checkout preconditions. These fail before any network call is made.
var (
	ErrEmptyCart           = errors.New("cart is empty, nothing to check out")
	ErrInsufficientPayment = errors.New("tendered amount is less than the grand total")
	ErrCheckoutInFlight    = errors.New("a checkout is already in progress for this terminal")
)

// Checkout outcomes from the sales service side.
var (
	ErrServiceRejected = errors.New("sale rejected by sales service")
	ErrTransport       = errors.New("upstream service unreachable")
)

// ErrCacheMiss is returned by CatalogCache when no snapshot is cached.
var ErrCacheMiss = errors.New("catalog cache miss")

// RejectionError carries the sales service's message verbatim so the
// operator sees exactly what the server said.
type RejectionError struct {
	Message string
}

func (e *RejectionError) Error() string {
	if e.Message == "" {
		return ErrServiceRejected.Error()
	}
	return fmt.Sprintf("%s: %s", ErrServiceRejected.Error(), e.Message)
}

func (e *RejectionError) Unwrap() error { return ErrServiceRejected }
