package entity

import "github.com/shopspring/decimal"

// SaleReceipt is the sales service's record of a finished sale. The POS only
// renders it; all fields are authored server-side.
type SaleReceipt struct {
	SaleID          string          `json:"sale_id"`
	SaleNumber      string          `json:"sale_number"`
	SaleDate        string          `json:"sale_date"`
	SaleTime        string          `json:"sale_time"`
	CashierName     string          `json:"cashier_name"`
	Items           []ReceiptItem   `json:"items"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaymentMethod   string          `json:"payment_method"`
	PaymentReceived decimal.Decimal `json:"payment_received"`
	ChangeAmount    decimal.Decimal `json:"change_amount"`
}

type ReceiptItem struct {
	ProductName    string          `json:"product_name"`
	ProductSKU     string          `json:"product_sku"`
	Quantity       int             `json:"quantity"`
	UnitPrice      decimal.Decimal `json:"unit_price"`
	LineTotal      decimal.Decimal `json:"line_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
}
