package domain

import "time"

// Role identifies what an actor is allowed to do.
type Role string

const (
	RoleBuyer  Role = "BUYER"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleBuyer || r == RoleSeller || r == RoleAdmin
}

// AccountStatus is the approval state of a seller account. Buyers and admins
// are always APPROVED; only sellers can be PENDING or REJECTED.
type AccountStatus string

const (
	AccountPending  AccountStatus = "PENDING"
	AccountApproved AccountStatus = "APPROVED"
	AccountRejected AccountStatus = "REJECTED"
)

// User models any authenticated actor: buyer, seller, or admin.
type User struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Role         Role   `json:"role"`

	AccountStatus       AccountStatus `json:"account_status"`
	ApprovalRequested   bool          `json:"approval_requested"`
	RejectionCount      int           `json:"rejection_count"`
	LastRejectionReason string        `json:"last_rejection_reason,omitempty"`
	LastRequestAt       time.Time     `json:"last_request_at,omitempty"`
	LastDecisionAt      time.Time     `json:"last_decision_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
