package usecase

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Change is tendered minus the grand total. Negative means shortfall.
func Change(grandTotal, tendered decimal.Decimal) decimal.Decimal {
	return tendered.Sub(grandTotal)
}

// Sufficient reports whether the tendered amount covers the grand total.
func Sufficient(grandTotal, tendered decimal.Decimal) bool {
	return tendered.GreaterThanOrEqual(grandTotal)
}

// ParseAmount validates operator-entered money. Bad input is an error,
// never silently coerced to zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	amt, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidInput, raw)
	}
	if amt.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: negative amount", ErrInvalidInput)
	}
	return amt, nil
}
