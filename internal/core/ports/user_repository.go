package ports

import (
	"context"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
)

// UserRepository defines persistence operations for actors.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindAll(ctx context.Context) ([]*domain.User, error)
	// FindByRoleAndStatus returns all actors matching both filters, e.g.
	// pending sellers awaiting an admin decision.
	FindByRoleAndStatus(ctx context.Context, role domain.Role, status domain.AccountStatus) ([]*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
}
