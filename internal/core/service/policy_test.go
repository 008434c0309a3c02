package service

import (
	"errors"
	"testing"

	"github.com/tradeyard/marketplace-api/internal/core/domain"
)

func TestCanModify(t *testing.T) {
	admin := &domain.User{ID: "admin_1", Role: domain.RoleAdmin}
	buyer := &domain.User{ID: "buyer_1", Role: domain.RoleBuyer}

	if err := CanModify(admin, "anyone"); err != nil {
		t.Errorf("admin must modify any resource: %v", err)
	}
	if err := CanModify(buyer, "buyer_1"); err != nil {
		t.Errorf("owner must modify own resource: %v", err)
	}
	if err := CanModify(buyer, "buyer_2"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden, got %v", err)
	}
	if err := CanModify(nil, "buyer_1"); !errors.Is(err, domain.ErrForbidden) {
		t.Errorf("expected ErrForbidden for nil actor, got %v", err)
	}
}

func TestEnsureSellerApproved(t *testing.T) {
	cases := []struct {
		name string
		user *domain.User
		ok   bool
	}{
		{"approved seller", &domain.User{Role: domain.RoleSeller, AccountStatus: domain.AccountApproved}, true},
		{"pending seller", &domain.User{Role: domain.RoleSeller, AccountStatus: domain.AccountPending}, false},
		{"rejected seller", &domain.User{Role: domain.RoleSeller, AccountStatus: domain.AccountRejected}, false},
		{"buyer", &domain.User{Role: domain.RoleBuyer, AccountStatus: domain.AccountApproved}, true},
		{"admin", &domain.User{Role: domain.RoleAdmin, AccountStatus: domain.AccountApproved}, true},
	}
	for _, tc := range cases {
		err := EnsureSellerApproved(tc.user)
		if tc.ok && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if !tc.ok && !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("%s: expected ErrForbidden, got %v", tc.name, err)
		}
	}
}
