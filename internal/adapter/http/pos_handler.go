package http

import (
	"errors"
	"net/http"

	"github.com/brianragasi/Highland-sub003/internal/adapter/http/middleware"
	"github.com/brianragasi/Highland-sub003/internal/entity"
	"github.com/brianragasi/Highland-sub003/internal/logging"
	"github.com/brianragasi/Highland-sub003/internal/usecase"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PosHandler exposes the terminal workflow: browse the catalog, build a
// cart, record payment, confirm the sale, reprint a receipt.
type PosHandler struct {
	catalog  usecase.CatalogProvider
	carts    *usecase.CartStore
	pricing  usecase.Pricing
	checkout *usecase.Checkout
	sales    usecase.SalesGateway
}

func NewPosHandler(catalog usecase.CatalogProvider, carts *usecase.CartStore, pricing usecase.Pricing, checkout *usecase.Checkout, sales usecase.SalesGateway) *PosHandler {
	return &PosHandler{
		catalog:  catalog,
		carts:    carts,
		pricing:  pricing,
		checkout: checkout,
		sales:    sales,
	}
}

type lineView struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

type cartView struct {
	TerminalID string     `json:"terminal_id"`
	Lines      []lineView `json:"lines"`
	Subtotal   string     `json:"subtotal"`
	Tax        string     `json:"tax"`
	GrandTotal string     `json:"grand_total"`
	Tendered   string     `json:"tendered"`
	Change     string     `json:"change"`
	Sufficient bool       `json:"sufficient"`
}

func (h *PosHandler) renderCart(cart *entity.Cart) cartView {
	totals := h.pricing.Totals(cart.Lines)
	v := cartView{
		TerminalID: cart.TerminalID,
		Lines:      make([]lineView, 0, len(cart.Lines)),
		Subtotal:   totals.Subtotal.StringFixed(2),
		Tax:        totals.Tax.StringFixed(2),
		GrandTotal: totals.GrandTotal.StringFixed(2),
		Tendered:   cart.Tendered.StringFixed(2),
		Change:     usecase.Change(totals.GrandTotal, cart.Tendered).StringFixed(2),
		Sufficient: usecase.Sufficient(totals.GrandTotal, cart.Tendered),
	}
	for _, l := range cart.Lines {
		v.Lines = append(v.Lines, lineView{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal().StringFixed(2),
		})
	}
	return v
}

// GET /v1/products
func (h *PosHandler) ListProducts(c *gin.Context) {
	items, err := h.catalog.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	type productView struct {
		ProductID      string `json:"product_id"`
		SKU            string `json:"product_sku,omitempty"`
		Name           string `json:"name"`
		Price          string `json:"price"`
		QuantityOnHand int    `json:"quantity_on_hand"`
	}
	out := make([]productView, 0, len(items))
	for _, it := range items {
		out = append(out, productView{
			ProductID:      it.ProductID,
			SKU:            it.SKU,
			Name:           it.Name,
			Price:          it.Price.StringFixed(2),
			QuantityOnHand: it.QuantityOnHand,
		})
	}
	c.JSON(http.StatusOK, gin.H{"products": out})
}

// GET /v1/carts/:terminal
func (h *PosHandler) GetCart(c *gin.Context) {
	cart := h.carts.Get(c.Param("terminal"))
	c.JSON(http.StatusOK, h.renderCart(cart))
}

// DELETE /v1/carts/:terminal
func (h *PosHandler) ClearCart(c *gin.Context) {
	terminal := c.Param("terminal")
	h.carts.Clear(terminal)
	c.JSON(http.StatusOK, h.renderCart(h.carts.Get(terminal)))
}

type addItemReq struct {
	ProductID string `json:"product_id" binding:"required"`
}

// POST /v1/carts/:terminal/items
func (h *PosHandler) AddItem(c *gin.Context) {
	var req addItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	cart, err := h.carts.AddItem(c.Request.Context(), c.Param("terminal"), req.ProductID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.renderCart(cart))
}

type setQuantityReq struct {
	Quantity *int `json:"quantity" binding:"required"`
}

// PUT /v1/carts/:terminal/items/:productId
func (h *PosHandler) SetQuantity(c *gin.Context) {
	var req setQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	cart, err := h.carts.SetQuantity(c.Param("terminal"), c.Param("productId"), *req.Quantity)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.renderCart(cart))
}

// DELETE /v1/carts/:terminal/items/:productId
func (h *PosHandler) RemoveItem(c *gin.Context) {
	cart := h.carts.RemoveItem(c.Param("terminal"), c.Param("productId"))
	c.JSON(http.StatusOK, h.renderCart(cart))
}

type paymentReq struct {
	// set: replace tendered with amount
	// add: accumulate amount onto tendered (quick cash buttons)
	// exact: tender the grand total; amount is ignored
	Mode   string `json:"mode" binding:"required,oneof=set add exact"`
	Amount string `json:"amount"`
}

// PUT /v1/carts/:terminal/payment
func (h *PosHandler) SetPayment(c *gin.Context) {
	var req paymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	terminal := c.Param("terminal")

	var (
		cart *entity.Cart
		err  error
	)
	switch req.Mode {
	case "exact":
		cart = h.carts.SetExact(terminal, h.pricing)
	default:
		var amount decimal.Decimal
		amount, err = usecase.ParseAmount(req.Amount)
		if err == nil {
			if req.Mode == "add" {
				cart, err = h.carts.AddTender(terminal, amount)
			} else {
				cart, err = h.carts.SetTendered(terminal, amount)
			}
		}
	}
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.renderCart(cart))
}

type checkoutReq struct {
	Notes string `json:"notes"`
}

// POST /v1/carts/:terminal/checkout
// The confirm token comes from X-Confirm-Token; terminals send a fresh one
// per confirm tap and reuse it on retries. A missing header gets a random
// token, which disables replay protection for that attempt.
func (h *PosHandler) Checkout(c *gin.Context) {
	var req checkoutReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
			return
		}
	}
	confirmToken := c.GetHeader("X-Confirm-Token")
	if confirmToken == "" {
		confirmToken = uuid.NewString()
	}
	terminal := c.Param("terminal")

	receipt, err := h.checkout.Execute(c.Request.Context(), terminal, confirmToken, req.Notes)
	if err != nil {
		middleware.ObserveCheckout(checkoutOutcome(err))
		writeError(c, err)
		return
	}
	middleware.ObserveCheckout("completed")
	logging.From(c).Info("sale completed",
		"terminal", terminal,
		"sale_id", receipt.SaleID,
		"sale_number", receipt.SaleNumber,
		"total", receipt.TotalAmount.StringFixed(2),
	)
	c.JSON(http.StatusCreated, gin.H{"receipt": receipt})
}

// GET /v1/sales/:id/receipt
func (h *PosHandler) GetReceipt(c *gin.Context) {
	receipt, err := h.sales.GetReceipt(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"receipt": receipt})
}

func checkoutOutcome(err error) string {
	switch {
	case errors.Is(err, usecase.ErrEmptyCart), errors.Is(err, usecase.ErrInsufficientPayment):
		return "precondition_failed"
	case errors.Is(err, usecase.ErrCheckoutInFlight):
		return "in_flight"
	case errors.Is(err, usecase.ErrServiceRejected):
		return "rejected"
	case errors.Is(err, usecase.ErrTransport):
		return "transport_error"
	default:
		return "error"
	}
}

// writeError maps domain errors onto HTTP statuses. Rejections from the
// sales service keep their message verbatim so the operator sees the same
// reason the server gave.
func writeError(c *gin.Context, err error) {
	var rej *usecase.RejectionError
	if errors.As(err, &rej) && rej.Message != "" {
		c.JSON(http.StatusConflict, gin.H{"error": rej.Message})
		return
	}

	var status int
	switch {
	case errors.Is(err, usecase.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, usecase.ErrOutOfStock),
		errors.Is(err, usecase.ErrStockExceeded),
		errors.Is(err, usecase.ErrInvalidInput),
		errors.Is(err, usecase.ErrEmptyCart),
		errors.Is(err, usecase.ErrInsufficientPayment):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, usecase.ErrCheckoutInFlight),
		errors.Is(err, usecase.ErrServiceRejected):
		status = http.StatusConflict
	case errors.Is(err, usecase.ErrTransport):
		status = http.StatusBadGateway
	default:
		status = http.StatusInternalServerError
	}
	if status >= http.StatusInternalServerError {
		logging.From(c).Error("request failed", "error", err.Error())
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
