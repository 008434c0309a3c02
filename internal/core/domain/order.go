package domain

import "time"

// OrderStatus represents the lifecycle state of an order.
type OrderStatus string

const (
	StatusPlaced    OrderStatus = "PLACED"
	StatusShipped   OrderStatus = "SHIPPED"
	StatusDelivered OrderStatus = "DELIVERED"
	StatusCancelled OrderStatus = "CANCELLED"
)

// Valid reports whether s belongs to the closed status set. Admin status
// updates are validated against it so an arbitrary string can never land in
// the status field.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPlaced, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// Cancellable reports whether an order in status s may still be cancelled.
// Cancellation is the only transition that restores stock, and it is defined
// from PLACED only; SHIPPED, DELIVERED, and CANCELLED are terminal for it.
func (s OrderStatus) Cancellable() bool {
	return s == StatusPlaced
}

// OrderLine is one (product, quantity) pair of an order. PriceAtPurchase is
// snapshotted when the order is placed and never recomputed, so later price
// changes cannot alter an existing order's total.
type OrderLine struct {
	ProductID       string  `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
}

// Order is created by a successful placement. Lines and TotalAmount are
// fixed at creation; only Status mutates afterwards.
type Order struct {
	ID          string      `json:"id"`
	CustomerID  string      `json:"customer_id"`
	Lines       []OrderLine `json:"lines"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
}
