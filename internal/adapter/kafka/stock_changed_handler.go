package kafka

import (
	"context"
	"fmt"

	"github.com/brianragasi/Highland-sub003/internal/usecase"
)

// StockChangedHandler keeps the cached catalog in step with the inventory
// service, so a terminal's stock ceilings stay honest between full reloads.
type StockChangedHandler struct {
	Cache usecase.CatalogCache
}

func NewStockChangedHandler(cache usecase.CatalogCache) *StockChangedHandler {
	return &StockChangedHandler{Cache: cache}
}

func (h *StockChangedHandler) Handle(ctx context.Context, ev usecase.StockChangedMsg) error {
	if ev.ProductID == "" {
		// malformed event, nothing to patch
		return nil
	}
	qty := ev.QuantityOnHand
	if qty < 0 {
		qty = 0
	}
	if err := h.Cache.SetQuantity(ctx, ev.ProductID, qty); err != nil {
		return fmt.Errorf("patch cached stock for %s: %w", ev.ProductID, err)
	}
	return nil
}
