package ports

import (
	"context"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
)

// AuthService authenticates actors and issues bearer tokens.
type AuthService interface {
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}
