package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradeyard/marketplace-api/internal/api/metrics"
	"github.com/tradeyard/marketplace-api/internal/core/domain"
	"github.com/tradeyard/marketplace-api/internal/core/ports"
)

// OrderService implements the order lifecycle engine.
type OrderService struct {
	orders   ports.OrderRepository
	products ports.ProductRepository
	users    ports.UserRepository
	cart     ports.CartStore
	logger   zerolog.Logger
}

func NewOrderService(
	orders ports.OrderRepository,
	products ports.ProductRepository,
	users ports.UserRepository,
	cart ports.CartStore,
	logger zerolog.Logger,
) *OrderService {
	return &OrderService{orders: orders, products: products, users: users, cart: cart, logger: logger}
}

// PlaceOrder converts the buyer's cart into an order. Stock is validated for
// every line before any counter is touched; reservations already applied are
// rolled back if a later step fails, so a failed placement never leaves a
// partial decrement behind.
func (s *OrderService) PlaceOrder(ctx context.Context, buyerID string) (*domain.Order, error) {
	buyer, err := s.users.FindByID(ctx, buyerID)
	if err != nil {
		return nil, err
	}
	if buyer.Role != domain.RoleBuyer {
		metrics.OrderPlacementErrorsTotal.WithLabelValues("forbidden").Inc()
		return nil, fmt.Errorf("place order: %w", domain.ErrForbidden)
	}

	lines, err := s.cart.GetSnapshot(ctx, buyerID)
	if err != nil {
		return nil, fmt.Errorf("place order: cart snapshot: %w", err)
	}
	if len(lines) == 0 {
		metrics.OrderPlacementErrorsTotal.WithLabelValues("empty_cart").Inc()
		return nil, fmt.Errorf("%w: cart is empty", domain.ErrInvalidState)
	}

	// 1. Validate every line against current stock before mutating anything.
	resolved := make([]*domain.Product, len(lines))
	for i, line := range lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity must be positive", domain.ErrInvalidInput)
		}
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, fmt.Errorf("place order: %w", err)
		}
		if product.StockQuantity < line.Quantity {
			metrics.OrderPlacementErrorsTotal.WithLabelValues("insufficient_stock").Inc()
			return nil, &domain.InsufficientStockError{ProductID: product.ID}
		}
		resolved[i] = product
	}

	// 2. Reserve stock line by line. The store applies each decrement with a
	// non-negative guard, so a concurrent order racing past step 1 fails
	// here instead of driving the counter negative.
	for i, line := range lines {
		if _, err := s.products.AdjustStock(ctx, line.ProductID, -line.Quantity); err != nil {
			s.releaseStock(ctx, lines[:i])
			if errors.Is(err, domain.ErrInsufficientStock) {
				metrics.OrderPlacementErrorsTotal.WithLabelValues("insufficient_stock").Inc()
				return nil, &domain.InsufficientStockError{ProductID: line.ProductID}
			}
			return nil, fmt.Errorf("place order: reserve stock: %w", err)
		}
	}

	// 3. Snapshot prices and build the order.
	var total float64
	orderLines := make([]domain.OrderLine, len(lines))
	for i, line := range lines {
		orderLines[i] = domain.OrderLine{
			ProductID:       line.ProductID,
			ProductName:     resolved[i].Name,
			Quantity:        line.Quantity,
			PriceAtPurchase: resolved[i].Price,
		}
		total += resolved[i].Price * float64(line.Quantity)
	}

	order, err := s.orders.Create(ctx, &domain.Order{
		CustomerID:  buyerID,
		Lines:       orderLines,
		TotalAmount: total,
		Status:      domain.StatusPlaced,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		s.releaseStock(ctx, lines)
		return nil, fmt.Errorf("place order: %w", err)
	}

	// 4. Clear the cart. The order is already committed; a failed clear is
	// logged, not surfaced, because the buyer can always empty the cart.
	if err := s.cart.Clear(ctx, buyerID); err != nil {
		s.logger.Warn().Err(err).Str("buyer_id", buyerID).Msg("failed to clear cart after placement")
	}

	metrics.OrdersPlacedTotal.Inc()
	s.logger.Info().
		Str("order_id", order.ID).
		Str("buyer_id", buyerID).
		Int("lines", len(order.Lines)).
		Float64("total", order.TotalAmount).
		Msg("order placed")

	return order, nil
}

// releaseStock undoes reservations applied so far. Failures are logged only:
// there is nothing left to compensate with at this point.
func (s *OrderService) releaseStock(ctx context.Context, lines []ports.CartLine) {
	for _, line := range lines {
		if _, err := s.products.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.logger.Error().Err(err).
				Str("product_id", line.ProductID).
				Int("quantity", line.Quantity).
				Msg("failed to release reserved stock")
		}
	}
}

// CancelOrder transitions a PLACED order to CANCELLED and restores each
// line's stock. The status flip is a compare-and-swap on PLACED, so two
// concurrent cancellations cannot both restore stock.
func (s *OrderService) CancelOrder(ctx context.Context, actorID, orderID string) (*domain.Order, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.CustomerID != actorID && !IsAdmin(actor) {
		return nil, fmt.Errorf("cancel order: %w", domain.ErrForbidden)
	}
	if !order.Status.Cancellable() {
		return nil, fmt.Errorf("%w: only PLACED orders can be cancelled", domain.ErrInvalidState)
	}

	cancelled, err := s.orders.CancelPlaced(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidState) {
			return nil, fmt.Errorf("%w: only PLACED orders can be cancelled", domain.ErrInvalidState)
		}
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	// Restore by increment, not by overwrite: other orders may have moved
	// the counter since this one was placed.
	for _, line := range cancelled.Lines {
		if _, err := s.products.AdjustStock(ctx, line.ProductID, line.Quantity); err != nil {
			s.logger.Error().Err(err).
				Str("order_id", orderID).
				Str("product_id", line.ProductID).
				Msg("failed to restore stock on cancellation")
		}
	}

	metrics.OrdersCancelledTotal.Inc()
	s.logger.Info().Str("order_id", orderID).Str("actor_id", actorID).Msg("order cancelled")
	return cancelled, nil
}

// UpdateOrderStatus is the admin-only escape hatch. It validates against the
// closed status set and refuses CANCELLED: cancellation must go through
// CancelOrder so inventory is restored.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, actorID, orderID string, status domain.OrderStatus) (*domain.Order, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !IsAdmin(actor) {
		return nil, fmt.Errorf("update order status: %w", domain.ErrForbidden)
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown order status %q", domain.ErrInvalidInput, status)
	}
	if status == domain.StatusCancelled {
		return nil, fmt.Errorf("%w: use the cancellation endpoint to cancel an order", domain.ErrInvalidState)
	}

	if err := s.orders.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}

	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("order_id", orderID).Str("status", string(status)).Msg("order status updated")
	return order, nil
}

// GetUserOrders returns the buyer's own orders.
func (s *OrderService) GetUserOrders(ctx context.Context, buyerID string) ([]*domain.Order, error) {
	if _, err := s.users.FindByID(ctx, buyerID); err != nil {
		return nil, err
	}
	return s.orders.FindByCustomer(ctx, buyerID)
}

// GetAllOrders returns every order; admin only.
func (s *OrderService) GetAllOrders(ctx context.Context, actorID string) ([]*domain.Order, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !IsAdmin(actor) {
		return nil, fmt.Errorf("get all orders: %w", domain.ErrForbidden)
	}
	return s.orders.FindAll(ctx)
}
