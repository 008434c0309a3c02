package ports

import (
	"context"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
)

// OrderRepository defines persistence operations for orders.
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	FindByID(ctx context.Context, id string) (*domain.Order, error)
	FindByCustomer(ctx context.Context, customerID string) ([]*domain.Order, error)
	FindAll(ctx context.Context) ([]*domain.Order, error)
	// UpdateStatus sets the order status verbatim. Returns ErrOrderNotFound
	// when no order matches.
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) error
	// CancelPlaced atomically transitions the order from PLACED to CANCELLED
	// and returns the updated order. Returns ErrInvalidState when the order
	// is in any other status, so two concurrent cancellations cannot both
	// win and restore stock twice.
	CancelPlaced(ctx context.Context, id string) (*domain.Order, error)
}
