package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
	"github.com/tradeyard/marketplace-api/internal/core/ports"
)

// ProductService implements seller product management. It is the one caller
// of the approval gate: an unapproved seller cannot list products.
type ProductService struct {
	products ports.ProductRepository
	users    ports.UserRepository
	logger   zerolog.Logger
}

func NewProductService(products ports.ProductRepository, users ports.UserRepository, logger zerolog.Logger) *ProductService {
	return &ProductService{products: products, users: users, logger: logger}
}

func (s *ProductService) CreateProduct(ctx context.Context, sellerID string, input ports.CreateProductInput) (*domain.Product, error) {
	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Role != domain.RoleSeller {
		return nil, fmt.Errorf("create product: %w", domain.ErrForbidden)
	}
	if err := EnsureSellerApproved(seller); err != nil {
		return nil, fmt.Errorf("create product: seller not approved: %w", err)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("%w: product name is required", domain.ErrInvalidInput)
	}
	if input.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if input.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock quantity must not be negative", domain.ErrInvalidInput)
	}

	product, err := s.products.Create(ctx, &domain.Product{
		SellerID:      sellerID,
		Name:          input.Name,
		Price:         input.Price,
		StockQuantity: input.StockQuantity,
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("product_id", product.ID).Str("seller_id", sellerID).Msg("product created")
	return product, nil
}

func (s *ProductService) ListSellerProducts(ctx context.Context, sellerID string) ([]*domain.Product, error) {
	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Role != domain.RoleSeller {
		return nil, fmt.Errorf("list products: %w", domain.ErrForbidden)
	}
	return s.products.FindBySeller(ctx, sellerID)
}
