package domain

import "time"

// Product is a sellable item with a live stock counter. StockQuantity is the
// shared counter placement decrements and cancellation restores; it must
// never go negative.
type Product struct {
	ID            string    `json:"id"`
	SellerID      string    `json:"seller_id"`
	Name          string    `json:"name"`
	Price         float64   `json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
}
