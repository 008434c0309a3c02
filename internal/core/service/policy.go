package service

import "github.com/tradeyard/marketplace-api/internal/core/domain"

// Pure authorization rules shared by the order and account engines. They
// take a fully resolved actor; none of them touch storage.

// IsAdmin reports whether the actor holds the admin role.
func IsAdmin(actor *domain.User) bool {
	return actor != nil && actor.Role == domain.RoleAdmin
}

// IsSelf reports whether the actor is operating on its own resource.
func IsSelf(actor *domain.User, targetID string) bool {
	return actor != nil && actor.ID == targetID
}

// CanModify gates mutation of another actor's resource: allowed for the
// owner or an admin, forbidden otherwise.
func CanModify(actor *domain.User, targetID string) error {
	if IsAdmin(actor) || IsSelf(actor, targetID) {
		return nil
	}
	return domain.ErrForbidden
}

// CanChangeRole reports whether the actor may change another actor's role.
// Role escalation is an admin-only operation.
func CanChangeRole(actor *domain.User) bool {
	return IsAdmin(actor)
}

// EnsureSellerApproved rejects sellers whose account has not been approved
// yet. Non-seller roles pass: they are always APPROVED.
func EnsureSellerApproved(actor *domain.User) error {
	if actor.Role == domain.RoleSeller && actor.AccountStatus != domain.AccountApproved {
		return domain.ErrForbidden
	}
	return nil
}
