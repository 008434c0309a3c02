package ports

import (
	"context"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
)

// CreateProductInput carries the data for a new product listing.
type CreateProductInput struct {
	Name          string
	Price         float64
	StockQuantity int
}

// ProductService defines the seller-facing product use cases. Listing a
// product requires an approved seller account.
type ProductService interface {
	CreateProduct(ctx context.Context, sellerID string, input CreateProductInput) (*domain.Product, error)
	ListSellerProducts(ctx context.Context, sellerID string) ([]*domain.Product, error)
}
