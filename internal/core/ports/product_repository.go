package ports

import (
	"context"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
)

// ProductRepository defines persistence for products and the stock-counter
// protocol the order engine relies on.
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) (*domain.Product, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	FindBySeller(ctx context.Context, sellerID string) ([]*domain.Product, error)
	CountBySeller(ctx context.Context, sellerID string) (int64, error)
	// AdjustStock applies delta to the product's stock counter and returns
	// the new quantity. A negative delta is guarded so the counter cannot go
	// below zero: the store must perform the read-check-write atomically per
	// product and return ErrInsufficientStock when the guard fails.
	AdjustStock(ctx context.Context, productID string, delta int) (int, error)
}
