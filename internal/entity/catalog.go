package entity

import "github.com/shopspring/decimal"

// CatalogItem is a sellable product as reported by the catalog service.
// The cart never mutates it; it only snapshots price and stock at add time.
type CatalogItem struct {
	ProductID      string          `json:"product_id"`
	SKU            string          `json:"product_sku,omitempty"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	QuantityOnHand int             `json:"quantity_on_hand"`
}

func (i CatalogItem) InStock() bool { return i.QuantityOnHand > 0 }
