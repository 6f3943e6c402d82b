package usecase

import (
	"github.com/brianragasi/Highland-sub003/internal/entity"
	"github.com/shopspring/decimal"
)

// Pricing derives totals from cart lines. Pure function of the lines: no
// mutation, no rounding until display. The tax rate is injected from config
// rather than hard-coded so a rate change never needs a code edit.
type Pricing struct {
	taxRate decimal.Decimal
}

func NewPricing(taxRate decimal.Decimal) Pricing {
	return Pricing{taxRate: taxRate}
}

func (p Pricing) TaxRate() decimal.Decimal { return p.taxRate }

func (p Pricing) Totals(lines []entity.CartLine) entity.CartTotals {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.LineTotal())
	}
	tax := subtotal.Mul(p.taxRate)
	return entity.CartTotals{
		Subtotal:   subtotal,
		Tax:        tax,
		GrandTotal: subtotal.Add(tax),
	}
}
