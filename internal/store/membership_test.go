package store

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/gymledger/gymledger/internal/database"
	"github.com/gymledger/gymledger/internal/model"
)

func setupMembershipTestDB(t *testing.T) (*MembershipStore, *PaymentStore, int64) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	member, err := NewMemberStore(db).Create("Ada", "ada@example.com", "hash", model.RoleMember)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	return NewMembershipStore(db), NewPaymentStore(db), member.ID
}

func TestMembershipLifecycle(t *testing.T) {
	ms, _, memberID := setupMembershipTestDB(t)

	price := decimal.RequireFromString("49.99")
	membership, err := ms.Create(memberID, "Monthly", price, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("create membership: %v", err)
	}
	if membership.Status != model.MembershipActive {
		t.Errorf("status = %q, want %q", membership.Status, model.MembershipActive)
	}
	if !membership.Price.Equal(price) {
		t.Errorf("price = %s, want %s", membership.Price, price)
	}

	updated, err := ms.Update(membership.ID, "Annual", decimal.RequireFromString("499.00"), "2026-03-01", "2027-02-28", model.MembershipActive)
	if err != nil {
		t.Fatalf("update membership: %v", err)
	}
	if updated.PlanName != "Annual" {
		t.Errorf("plan = %q, want %q", updated.PlanName, "Annual")
	}

	mine, err := ms.ListByMember(memberID)
	if err != nil {
		t.Fatalf("list by member: %v", err)
	}
	if len(mine) != 1 {
		t.Fatalf("expected 1 membership, got %d", len(mine))
	}
}

func TestPaymentCreateAndList(t *testing.T) {
	ms, ps, memberID := setupMembershipTestDB(t)

	membership, err := ms.Create(memberID, "Monthly", decimal.RequireFromString("49.99"), "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("create membership: %v", err)
	}

	payment, err := ps.Create(memberID, &membership.ID, decimal.RequireFromString("49.99"), "card")
	if err != nil {
		t.Fatalf("create payment: %v", err)
	}
	if payment.MembershipID == nil || *payment.MembershipID != membership.ID {
		t.Errorf("membership id = %v, want %d", payment.MembershipID, membership.ID)
	}
	if payment.Method != "card" {
		t.Errorf("method = %q, want %q", payment.Method, "card")
	}

	// Walk-in payment with no membership attached.
	if _, err := ps.Create(memberID, nil, decimal.RequireFromString("15.00"), "cash"); err != nil {
		t.Fatalf("create walk-in payment: %v", err)
	}

	mine, err := ps.ListByMember(memberID)
	if err != nil {
		t.Fatalf("list payments: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 payments, got %d", len(mine))
	}
}
