package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
	"github.com/tradeyard/marketplace-api/internal/core/ports"
)

type accountFixture struct {
	users    *stubUserRepo
	orders   *stubOrderRepo
	products *stubProductRepo
	notifier *stubNotifier
	svc      *AccountService
}

func newAccountFixture() *accountFixture {
	f := &accountFixture{
		users:    newStubUserRepo(),
		orders:   newStubOrderRepo(),
		products: newStubProductRepo(),
		notifier: &stubNotifier{},
	}
	f.svc = NewAccountService(f.users, f.orders, f.products, f.notifier, discardLogger)
	return f
}

func (f *accountFixture) seedAdmin(id string) *domain.User {
	return f.users.seed(&domain.User{ID: id, Email: id + "@example.com", Role: domain.RoleAdmin, AccountStatus: domain.AccountApproved})
}

func (f *accountFixture) seedSeller(id string, status domain.AccountStatus, requested bool) *domain.User {
	return f.users.seed(&domain.User{
		ID:                id,
		Email:             id + "@example.com",
		Role:              domain.RoleSeller,
		AccountStatus:     status,
		ApprovalRequested: requested,
	})
}

// ---------------------------------------------------------------------------
// Register tests
// ---------------------------------------------------------------------------

func TestAccountService_Register_BuyerApprovedImmediately(t *testing.T) {
	f := newAccountFixture()

	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "Alice", Email: "alice@example.com", Password: "pass123", Role: domain.RoleBuyer,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.AccountStatus != domain.AccountApproved {
		t.Errorf("expected APPROVED buyer, got %s", user.AccountStatus)
	}
	if user.ApprovalRequested {
		t.Error("buyer must not have an approval request open")
	}
	if user.PasswordHash == "pass123" {
		t.Error("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Errorf("stored hash does not match password: %v", err)
	}
}

func TestAccountService_Register_SellerStartsPending(t *testing.T) {
	f := newAccountFixture()

	user, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "Bob", Email: "bob@example.com", Password: "pass", Role: domain.RoleSeller,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.AccountStatus != domain.AccountPending {
		t.Errorf("expected PENDING seller, got %s", user.AccountStatus)
	}
	if !user.ApprovalRequested {
		t.Error("seller registration must open an approval request")
	}
	if user.RejectionCount != 0 {
		t.Errorf("expected rejection count 0, got %d", user.RejectionCount)
	}
	if user.LastRequestAt.IsZero() {
		t.Error("LastRequestAt must be set")
	}
}

func TestAccountService_Register_AdminRejected(t *testing.T) {
	f := newAccountFixture()

	_, err := f.svc.Register(context.Background(), ports.RegisterInput{
		Name: "Eve", Email: "eve@example.com", Password: "pass", Role: domain.RoleAdmin,
	})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAccountService_Register_DuplicateEmail(t *testing.T) {
	f := newAccountFixture()

	input := ports.RegisterInput{Name: "Alice", Email: "alice@example.com", Password: "pass", Role: domain.RoleBuyer}
	if _, err := f.svc.Register(context.Background(), input); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if _, err := f.svc.Register(context.Background(), input); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Approval state machine tests
// ---------------------------------------------------------------------------

func TestAccountService_RequestApproval_DoubleRequestRejected(t *testing.T) {
	f := newAccountFixture()
	f.seedSeller("seller_1", domain.AccountRejected, false)

	seller, err := f.svc.RequestApproval(context.Background(), "seller_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seller.AccountStatus != domain.AccountPending || !seller.ApprovalRequested {
		t.Errorf("request did not move seller to PENDING: %+v", seller)
	}

	if _, err := f.svc.RequestApproval(context.Background(), "seller_1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on double request, got %v", err)
	}
}

func TestAccountService_RequestApproval_AlreadyApproved(t *testing.T) {
	f := newAccountFixture()
	f.seedSeller("seller_1", domain.AccountApproved, false)

	if _, err := f.svc.RequestApproval(context.Background(), "seller_1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestAccountService_RequestApproval_NonSellerForbidden(t *testing.T) {
	f := newAccountFixture()
	f.users.seed(&domain.User{ID: "buyer_1", Role: domain.RoleBuyer, AccountStatus: domain.AccountApproved})

	if _, err := f.svc.RequestApproval(context.Background(), "buyer_1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAccountService_ApproveSeller(t *testing.T) {
	f := newAccountFixture()
	f.seedAdmin("admin_1")
	f.seedSeller("seller_1", domain.AccountPending, true)

	seller, err := f.svc.ApproveSeller(context.Background(), "admin_1", "seller_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seller.AccountStatus != domain.AccountApproved {
		t.Errorf("expected APPROVED, got %s", seller.AccountStatus)
	}
	if seller.ApprovalRequested {
		t.Error("approval must close the open request")
	}
	if seller.LastRejectionReason != "" {
		t.Error("approval must clear the last rejection reason")
	}
	if seller.LastDecisionAt.IsZero() {
		t.Error("LastDecisionAt must be set")
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(f.notifier.sent))
	}
	if f.notifier.sent[0].RecipientID != "seller_1" {
		t.Errorf("notification sent to wrong recipient: %+v", f.notifier.sent[0])
	}
}

func TestAccountService_RejectSeller_FlowAndReRequest(t *testing.T) {
	f := newAccountFixture()
	f.seedAdmin("admin_1")
	f.seedSeller("seller_1", domain.AccountPending, true)

	seller, err := f.svc.RejectSeller(context.Background(), "admin_1", "seller_1", "incomplete docs")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seller.AccountStatus != domain.AccountRejected {
		t.Errorf("expected REJECTED, got %s", seller.AccountStatus)
	}
	if seller.RejectionCount != 1 {
		t.Errorf("expected rejection count 1, got %d", seller.RejectionCount)
	}
	if seller.LastRejectionReason != "incomplete docs" {
		t.Errorf("reason not recorded: %q", seller.LastRejectionReason)
	}
	if len(f.notifier.sent) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(f.notifier.sent))
	}

	// A rejected seller may re-request: status back to PENDING, counter kept.
	seller, err = f.svc.RequestApproval(context.Background(), "seller_1")
	if err != nil {
		t.Fatalf("re-request after rejection failed: %v", err)
	}
	if seller.AccountStatus != domain.AccountPending {
		t.Errorf("expected PENDING after re-request, got %s", seller.AccountStatus)
	}
	if seller.RejectionCount != 1 {
		t.Errorf("rejection count must never decrease, got %d", seller.RejectionCount)
	}

	// Second rejection bumps the counter to exactly 2.
	seller, err = f.svc.RejectSeller(context.Background(), "admin_1", "seller_1", "still incomplete")
	if err != nil {
		t.Fatalf("second rejection: %v", err)
	}
	if seller.RejectionCount != 2 {
		t.Errorf("expected rejection count 2, got %d", seller.RejectionCount)
	}
}

func TestAccountService_RejectSeller_BlankReason(t *testing.T) {
	f := newAccountFixture()
	f.seedAdmin("admin_1")
	f.seedSeller("seller_1", domain.AccountPending, true)

	if _, err := f.svc.RejectSeller(context.Background(), "admin_1", "seller_1", "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAccountService_SellerDecision_RequiresAdmin(t *testing.T) {
	f := newAccountFixture()
	f.seedSeller("seller_1", domain.AccountPending, true)
	f.seedSeller("seller_2", domain.AccountPending, true)

	if _, err := f.svc.ApproveSeller(context.Background(), "seller_2", "seller_1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.RejectSeller(context.Background(), "seller_2", "seller_1", "nope"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAccountService_SellerDecision_TargetMustBeSeller(t *testing.T) {
	f := newAccountFixture()
	f.seedAdmin("admin_1")
	f.users.seed(&domain.User{ID: "buyer_1", Role: domain.RoleBuyer, AccountStatus: domain.AccountApproved})

	if _, err := f.svc.ApproveSeller(context.Background(), "admin_1", "buyer_1"); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
}

func TestAccountService_ListPendingSellers(t *testing.T) {
	f := newAccountFixture()
	f.seedAdmin("admin_1")
	f.seedSeller("seller_1", domain.AccountPending, true)
	f.seedSeller("seller_2", domain.AccountApproved, false)

	pending, err := f.svc.ListPendingSellers(context.Background(), "admin_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 1 || pending[0].ID != "seller_1" {
		t.Errorf("unexpected pending sellers: %+v", pending)
	}

	if _, err := f.svc.ListPendingSellers(context.Background(), "seller_1"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Account CRUD tests
// ---------------------------------------------------------------------------

func TestAccountService_UpdateUser_PartialFields(t *testing.T) {
	f := newAccountFixture()
	user := f.users.seed(&domain.User{ID: "buyer_1", Name: "Old Name", Email: "old@example.com", Role: domain.RoleBuyer, AccountStatus: domain.AccountApproved})

	newName := "New Name"
	updated, err := f.svc.UpdateUser(context.Background(), "buyer_1", "buyer_1", ports.UpdateUserInput{Name: &newName})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Name != "New Name" {
		t.Errorf("name not updated: %q", updated.Name)
	}
	if updated.Email != user.Email {
		t.Errorf("email changed without being supplied: %q", updated.Email)
	}
}

func TestAccountService_UpdateUser_RoleChangeAdminOnly(t *testing.T) {
	f := newAccountFixture()
	f.seedAdmin("admin_1")
	f.users.seed(&domain.User{ID: "buyer_1", Email: "b@example.com", Role: domain.RoleBuyer, AccountStatus: domain.AccountApproved})

	seller := domain.RoleSeller
	if _, err := f.svc.UpdateUser(context.Background(), "buyer_1", "buyer_1", ports.UpdateUserInput{Role: &seller}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-escalation, got %v", err)
	}

	updated, err := f.svc.UpdateUser(context.Background(), "admin_1", "buyer_1", ports.UpdateUserInput{Role: &seller})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Role != domain.RoleSeller {
		t.Errorf("role not updated: %s", updated.Role)
	}
}

func TestAccountService_UpdateUser_RoleChangeResetsApprovalState(t *testing.T) {
	f := newAccountFixture()
	f.seedAdmin("admin_1")
	f.users.seed(&domain.User{
		ID:                  "seller_1",
		Email:               "seller_1@example.com",
		Role:                domain.RoleSeller,
		AccountStatus:       domain.AccountRejected,
		RejectionCount:      1,
		LastRejectionReason: "incomplete docs",
	})

	buyer := domain.RoleBuyer
	updated, err := f.svc.UpdateUser(context.Background(), "admin_1", "seller_1", ports.UpdateUserInput{Role: &buyer})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Role != domain.RoleBuyer {
		t.Fatalf("role not updated: %s", updated.Role)
	}
	if updated.AccountStatus != domain.AccountApproved {
		t.Errorf("demoted seller must be APPROVED, got %s", updated.AccountStatus)
	}
	if updated.ApprovalRequested {
		t.Error("demoted seller must not have an approval request open")
	}
	if updated.LastRejectionReason != "" {
		t.Errorf("rejection reason not cleared: %q", updated.LastRejectionReason)
	}
}

func TestAccountService_UpdateUser_ForeignUserForbidden(t *testing.T) {
	f := newAccountFixture()
	f.users.seed(&domain.User{ID: "buyer_1", Email: "a@example.com", Role: domain.RoleBuyer, AccountStatus: domain.AccountApproved})
	f.users.seed(&domain.User{ID: "buyer_2", Email: "b@example.com", Role: domain.RoleBuyer, AccountStatus: domain.AccountApproved})

	name := "intruder"
	if _, err := f.svc.UpdateUser(context.Background(), "buyer_1", "buyer_2", ports.UpdateUserInput{Name: &name}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestAccountService_GetUserDetails_BuyerAggregates(t *testing.T) {
	f := newAccountFixture()
	f.users.seed(&domain.User{ID: "buyer_1", Email: "b@example.com", Role: domain.RoleBuyer, AccountStatus: domain.AccountApproved})
	f.orders.orders["order_1"] = &domain.Order{ID: "order_1", CustomerID: "buyer_1", TotalAmount: 25, Status: domain.StatusPlaced}
	f.orders.orders["order_2"] = &domain.Order{ID: "order_2", CustomerID: "buyer_1", TotalAmount: 10, Status: domain.StatusDelivered}

	detail, err := f.svc.GetUserDetails(context.Background(), "buyer_1", "buyer_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail.OrderCount != 2 {
		t.Errorf("expected 2 orders, got %d", detail.OrderCount)
	}
	if detail.TotalSpend != 35 {
		t.Errorf("expected spend 35, got %v", detail.TotalSpend)
	}
}

func TestAccountService_DeleteUser(t *testing.T) {
	f := newAccountFixture()
	f.seedAdmin("admin_1")
	f.users.seed(&domain.User{ID: "buyer_1", Email: "b@example.com", Role: domain.RoleBuyer, AccountStatus: domain.AccountApproved})

	if err := f.svc.DeleteUser(context.Background(), "admin_1", "buyer_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.users.FindByID(context.Background(), "buyer_1"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("user not deleted: %v", err)
	}
}
