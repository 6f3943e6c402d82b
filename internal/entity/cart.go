package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one product in the current transaction. Unit price and max
// stock are snapshots taken when the line was created; later catalog changes
// do not touch an existing line.
type CartLine struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	MaxStock  int             `json:"max_stock"`
}

func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds the lines and tendered payment for one terminal's open
// transaction. At most one line per product id.
type Cart struct {
	TerminalID string          `json:"terminal_id"`
	Lines      []CartLine      `json:"lines"`
	Tendered   decimal.Decimal `json:"tendered"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

// FindLine returns the index of the line for productID, or -1.
func (c *Cart) FindLine(productID string) int {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy so callers can read cart state without holding
// the store lock.
func (c *Cart) Clone() *Cart {
	cp := *c
	cp.Lines = make([]CartLine, len(c.Lines))
	copy(cp.Lines, c.Lines)
	return &cp
}

// CartTotals are derived on every read; they are never stored.
type CartTotals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}
