package usecase

import (
	"context"

	"github.com/brianragasi/Highland-sub003/internal/entity"
	"github.com/shopspring/decimal"
)

// CatalogProvider supplies sellable items. Backed by the catalog service,
// usually fronted by a cache. Get returns (nil, nil) for an unknown product.
type CatalogProvider interface {
	List(ctx context.Context) ([]entity.CatalogItem, error)
	Get(ctx context.Context, productID string) (*entity.CatalogItem, error)
}

// SaleLine is the wire shape of one cart line toward the sales service.
// The server re-verifies price and stock; it is the source of truth.
type SaleLine struct {
	ProductID string          `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type SaleRequest struct {
	Items           []SaleLine      `json:"items"`
	PaymentReceived decimal.Decimal `json:"payment_received"`
	Notes           string          `json:"notes,omitempty"`
}

// SalesGateway submits finalized sales and fetches receipts. CreateSale
// returns *RejectionError when the service answers success:false, and an
// error wrapping ErrTransport on network or decode failure.
type SalesGateway interface {
	CreateSale(ctx context.Context, req SaleRequest) (*entity.SaleReceipt, error)
	GetReceipt(ctx context.Context, saleID string) (*entity.SaleReceipt, error)
}

// CatalogCache holds a short-lived catalog snapshot shared by all
// terminals. SetQuantity patches one item in place when the inventory
// service reports a stock movement.
type CatalogCache interface {
	Get(ctx context.Context) ([]entity.CatalogItem, error)
	Set(ctx context.Context, items []entity.CatalogItem) error
	SetQuantity(ctx context.Context, productID string, quantityOnHand int) error
	Invalidate(ctx context.Context) error
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)
	Release(ctx context.Context, scope, key string) error
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// SaleEvents publishes completed sales for downstream consumers
// (inventory, reporting). Best effort; a publish failure never undoes a sale.
type SaleEvents interface {
	PublishCompleted(ctx context.Context, msg SaleCompletedMsg) error
}
