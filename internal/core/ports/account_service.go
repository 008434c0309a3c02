package ports

import (
	"context"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
)

// RegisterInput carries the data needed to create a new account.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

// UpdateUserInput is a partial update. Nil pointer fields mean "not
// supplied" and leave the stored value untouched, so an absent field is
// distinguishable from an explicitly cleared one.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	// Role changes are applied only when the requester is an admin.
	Role *domain.Role
}

// UserDetail is the aggregate view an admin (or the actor itself) sees.
type UserDetail struct {
	User           *domain.User
	OrderCount     int
	TotalSpend     float64
	ProductCount   int64
	RejectionCount int
}

// AccountService covers registration, account CRUD, and the seller approval
// state machine. Every operation takes the resolved actor's ID explicitly;
// nothing reads ambient request state.
type AccountService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)

	GetUser(ctx context.Context, actorID, targetID string) (*domain.User, error)
	GetAllUsers(ctx context.Context, actorID string) ([]*domain.User, error)
	GetUserDetails(ctx context.Context, actorID, targetID string) (*UserDetail, error)
	UpdateUser(ctx context.Context, actorID, targetID string, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, actorID, targetID string) error

	RequestApproval(ctx context.Context, requesterID string) (*domain.User, error)
	ApproveSeller(ctx context.Context, adminID, sellerID string) (*domain.User, error)
	RejectSeller(ctx context.Context, adminID, sellerID, reason string) (*domain.User, error)
	ListPendingSellers(ctx context.Context, adminID string) ([]*domain.User, error)
}
