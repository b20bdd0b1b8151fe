package domain

import "time"

const OrderStatusPaid = "PAID"

type OrderLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Qty       int     `json:"qty"`
	LineTotal float64 `json:"line_total"`
}

type Order struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Lines     []OrderLine `json:"lines"`
	Total     float64     `json:"total"`
	CreatedAt time.Time   `json:"created_at"`
}
