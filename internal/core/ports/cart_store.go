package ports

import "context"

// CartLine is one (product, quantity) pair of a buyer's cart.
type CartLine struct {
	ProductID string
	Quantity  int
}

// CartStore is the cart collaborator. Cart content management lives outside
// this service; the order engine only reads a snapshot at placement time and
// clears the cart after a successful order.
type CartStore interface {
	GetSnapshot(ctx context.Context, buyerID string) ([]CartLine, error)
	Clear(ctx context.Context, buyerID string) error
}
