package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tradeyard/marketplace-api/internal/api/metrics"
	"github.com/tradeyard/marketplace-api/internal/core/domain"
	"github.com/tradeyard/marketplace-api/internal/core/ports"
)

// AccountService implements registration, account CRUD, and the seller
// approval state machine.
type AccountService struct {
	users    ports.UserRepository
	orders   ports.OrderRepository
	products ports.ProductRepository
	notifier ports.Notifier
	logger   zerolog.Logger
}

func NewAccountService(
	users ports.UserRepository,
	orders ports.OrderRepository,
	products ports.ProductRepository,
	notifier ports.Notifier,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{users: users, orders: orders, products: products, notifier: notifier, logger: logger}
}

// Register creates a buyer or seller account. Admin accounts cannot be
// self-registered. A new seller starts PENDING with an approval request
// already open; every other role is APPROVED from the start.
func (s *AccountService) Register(ctx context.Context, input ports.RegisterInput) (*domain.User, error) {
	if input.Email == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, input.Role)
	}
	if input.Role == domain.RoleAdmin {
		return nil, fmt.Errorf("%w: admin accounts cannot be self-registered", domain.ErrInvalidInput)
	}
	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		Name:          input.Name,
		Email:         input.Email,
		PasswordHash:  string(hash),
		Role:          input.Role,
		AccountStatus: domain.AccountApproved,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if input.Role == domain.RoleSeller {
		user.AccountStatus = domain.AccountPending
		user.ApprovalRequested = true
		user.LastRequestAt = now
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", created.ID).Str("role", string(created.Role)).Msg("user registered")
	return created, nil
}

// GetUser returns the target account; allowed for the target itself or an
// admin.
func (s *AccountService) GetUser(ctx context.Context, actorID, targetID string) (*domain.User, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := CanModify(actor, targetID); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, targetID)
}

// GetAllUsers lists every account; admin only.
func (s *AccountService) GetAllUsers(ctx context.Context, actorID string) ([]*domain.User, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !IsAdmin(actor) {
		return nil, fmt.Errorf("get all users: %w", domain.ErrForbidden)
	}
	return s.users.FindAll(ctx)
}

// GetUserDetails aggregates per-role activity on top of the account record:
// order count and spend for buyers, product count for sellers.
func (s *AccountService) GetUserDetails(ctx context.Context, actorID, targetID string) (*ports.UserDetail, error) {
	target, err := s.GetUser(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}

	detail := &ports.UserDetail{User: target, RejectionCount: target.RejectionCount}
	switch target.Role {
	case domain.RoleBuyer:
		orders, err := s.orders.FindByCustomer(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		detail.OrderCount = len(orders)
		for _, o := range orders {
			detail.TotalSpend += o.TotalAmount
		}
	case domain.RoleSeller:
		count, err := s.products.CountBySeller(ctx, target.ID)
		if err != nil {
			return nil, err
		}
		detail.ProductCount = count
	}
	return detail, nil
}

// UpdateUser applies a partial update. Only supplied fields change; the role
// field is honoured only for admin requesters.
func (s *AccountService) UpdateUser(ctx context.Context, actorID, targetID string, input ports.UpdateUserInput) (*domain.User, error) {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := CanModify(actor, targetID); err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Email != nil && *input.Email != user.Email {
		if _, err := s.users.FindByEmail(ctx, *input.Email); err == nil {
			return nil, domain.ErrEmailTaken
		}
		user.Email = *input.Email
	}
	if input.Password != nil && *input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("update user: hash password: %w", err)
		}
		user.PasswordHash = string(hash)
	}
	if input.Role != nil {
		if !CanChangeRole(actor) {
			return nil, fmt.Errorf("change role: %w", domain.ErrForbidden)
		}
		if !input.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", domain.ErrInvalidInput, *input.Role)
		}
		user.Role = *input.Role
		// Only sellers carry approval state; any other role is APPROVED.
		if user.Role != domain.RoleSeller {
			user.AccountStatus = domain.AccountApproved
			user.ApprovalRequested = false
			user.LastRejectionReason = ""
		}
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes the account; allowed for the owner or an admin.
func (s *AccountService) DeleteUser(ctx context.Context, actorID, targetID string) error {
	actor, err := s.users.FindByID(ctx, actorID)
	if err != nil {
		return err
	}
	if err := CanModify(actor, targetID); err != nil {
		return err
	}
	if _, err := s.users.FindByID(ctx, targetID); err != nil {
		return err
	}
	return s.users.Delete(ctx, targetID)
}

// RequestApproval opens (or re-opens, after rejection) a seller approval
// request.
func (s *AccountService) RequestApproval(ctx context.Context, requesterID string) (*domain.User, error) {
	seller, err := s.users.FindByID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if seller.Role != domain.RoleSeller {
		return nil, fmt.Errorf("request approval: %w", domain.ErrForbidden)
	}
	if seller.AccountStatus == domain.AccountApproved {
		return nil, fmt.Errorf("%w: seller already approved", domain.ErrInvalidState)
	}
	if seller.ApprovalRequested {
		return nil, fmt.Errorf("%w: approval request already in progress", domain.ErrInvalidState)
	}

	now := time.Now().UTC()
	seller.AccountStatus = domain.AccountPending
	seller.ApprovalRequested = true
	seller.LastRequestAt = now
	seller.UpdatedAt = now

	if err := s.users.Update(ctx, seller); err != nil {
		return nil, err
	}
	s.logger.Info().Str("seller_id", seller.ID).Msg("seller approval requested")
	return seller, nil
}

// ApproveSeller moves the seller to APPROVED and notifies them. The
// notification is enqueued after the state change is persisted and its
// failure never rolls the decision back.
func (s *AccountService) ApproveSeller(ctx context.Context, adminID, sellerID string) (*domain.User, error) {
	seller, err := s.decisionTarget(ctx, adminID, sellerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	seller.AccountStatus = domain.AccountApproved
	seller.ApprovalRequested = false
	seller.LastDecisionAt = now
	seller.LastRejectionReason = ""
	seller.UpdatedAt = now

	if err := s.users.Update(ctx, seller); err != nil {
		return nil, err
	}

	metrics.SellerDecisionsTotal.WithLabelValues("approved").Inc()
	s.notifier.Notify(ports.Notification{
		RecipientID:    seller.ID,
		RecipientEmail: seller.Email,
		Subject:        "Seller account approved",
		Body:           "Your seller account has been approved. You can now manage your products.",
	})
	s.logger.Info().Str("seller_id", sellerID).Str("admin_id", adminID).Msg("seller approved")
	return seller, nil
}

// RejectSeller moves the seller to REJECTED, records the reason, bumps the
// rejection counter, and notifies them.
func (s *AccountService) RejectSeller(ctx context.Context, adminID, sellerID, reason string) (*domain.User, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("%w: rejection reason is required", domain.ErrInvalidInput)
	}
	seller, err := s.decisionTarget(ctx, adminID, sellerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	seller.AccountStatus = domain.AccountRejected
	seller.ApprovalRequested = false
	seller.RejectionCount++
	seller.LastDecisionAt = now
	seller.LastRejectionReason = reason
	seller.UpdatedAt = now

	if err := s.users.Update(ctx, seller); err != nil {
		return nil, err
	}

	metrics.SellerDecisionsTotal.WithLabelValues("rejected").Inc()
	s.notifier.Notify(ports.Notification{
		RecipientID:    seller.ID,
		RecipientEmail: seller.Email,
		Subject:        "Seller account rejected",
		Body:           "Your seller account request was rejected.\nReason: " + reason,
	})
	s.logger.Info().Str("seller_id", sellerID).Str("admin_id", adminID).Msg("seller rejected")
	return seller, nil
}

// ListPendingSellers returns all sellers awaiting a decision; admin only.
func (s *AccountService) ListPendingSellers(ctx context.Context, adminID string) ([]*domain.User, error) {
	admin, err := s.users.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !IsAdmin(admin) {
		return nil, fmt.Errorf("list pending sellers: %w", domain.ErrForbidden)
	}
	return s.users.FindByRoleAndStatus(ctx, domain.RoleSeller, domain.AccountPending)
}

// decisionTarget validates an admin decision: the requester must be an
// admin and the target must actually be a seller.
func (s *AccountService) decisionTarget(ctx context.Context, adminID, sellerID string) (*domain.User, error) {
	admin, err := s.users.FindByID(ctx, adminID)
	if err != nil {
		return nil, err
	}
	if !IsAdmin(admin) {
		return nil, fmt.Errorf("seller decision: %w", domain.ErrForbidden)
	}
	seller, err := s.users.FindByID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	if seller.Role != domain.RoleSeller {
		return nil, fmt.Errorf("%w: target account is not a seller", domain.ErrInvalidState)
	}
	return seller, nil
}
