package usecase

// Published on RabbitMQ after a successful checkout.
type SaleCompletedMsg struct {
	SaleID     string     `json:"saleId"`
	SaleNumber string     `json:"saleNumber"`
	TerminalID string     `json:"terminalId"`
	Total      string     `json:"total"`
	Lines      []SaleLine `json:"lines"`
}

// Sent by the inventory service on Kafka whenever on-hand stock moves.
type StockChangedMsg struct {
	ProductID      string `json:"productId"`
	QuantityOnHand int    `json:"quantityOnHand"`
}
