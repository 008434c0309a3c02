package ports

import (
	"context"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
)

// OrderService defines the order lifecycle use cases. Every operation takes
// the resolved actor's ID as its first argument.
type OrderService interface {
	// PlaceOrder converts the buyer's cart snapshot into an order,
	// reserving stock for every line all-or-nothing.
	PlaceOrder(ctx context.Context, buyerID string) (*domain.Order, error)
	// CancelOrder restores each line's stock and sets the status to
	// CANCELLED. Allowed for the owning buyer or an admin, and only while
	// the order is still PLACED.
	CancelOrder(ctx context.Context, actorID, orderID string) (*domain.Order, error)
	// UpdateOrderStatus is the admin escape hatch: it sets the status
	// without touching inventory. CANCELLED is rejected here because
	// cancellation is the only inventory-affecting transition.
	UpdateOrderStatus(ctx context.Context, actorID, orderID string, status domain.OrderStatus) (*domain.Order, error)
	GetUserOrders(ctx context.Context, buyerID string) ([]*domain.Order, error)
	GetAllOrders(ctx context.Context, actorID string) ([]*domain.Order, error)
}
