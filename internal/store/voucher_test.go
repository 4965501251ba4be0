package store

import (
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gymledger/gymledger/internal/database"
	"github.com/gymledger/gymledger/internal/model"
)

func setupVoucherTestDB(t *testing.T) (*VoucherStore, *MemberStore) {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewVoucherStore(db), NewMemberStore(db)
}

func voucherParams(pointsRequired, maxUses int) VoucherParams {
	return VoucherParams{
		Description:    "day pass discount",
		DiscountType:   model.DiscountFixed,
		DiscountValue:  decimal.NewFromInt(5),
		PointsRequired: pointsRequired,
		MinSpend:       decimal.Zero,
		MaxUses:        maxUses,
		ValidFrom:      "2026-01-01",
		ValidUntil:     "2026-12-31",
	}
}

func TestVoucherCreateGeneratesCode(t *testing.T) {
	vs, _ := setupVoucherTestDB(t)

	v, err := vs.Create(voucherParams(0, 3))
	if err != nil {
		t.Fatalf("create voucher: %v", err)
	}
	if !strings.HasPrefix(v.Code, "GYM-") {
		t.Errorf("code = %q, want GYM- prefix", v.Code)
	}
	if v.Status != model.VoucherStatusActive {
		t.Errorf("status = %q, want %q", v.Status, model.VoucherStatusActive)
	}
	if v.UseCount != 0 {
		t.Errorf("use count = %d, want 0", v.UseCount)
	}

	got, err := vs.GetByCode(v.Code)
	if err != nil {
		t.Fatalf("get by code: %v", err)
	}
	if got == nil || got.ID != v.ID {
		t.Fatalf("get by code returned %+v, want id %d", got, v.ID)
	}
}

func TestVoucherDuplicateCode(t *testing.T) {
	vs, _ := setupVoucherTestDB(t)

	p := voucherParams(0, 1)
	p.Code = "GYM-FIXED"
	if _, err := vs.Create(p); err != nil {
		t.Fatalf("create voucher: %v", err)
	}
	if _, err := vs.Create(p); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestVoucherUpdate(t *testing.T) {
	vs, _ := setupVoucherTestDB(t)

	v, err := vs.Create(voucherParams(10, 1))
	if err != nil {
		t.Fatalf("create voucher: %v", err)
	}

	p := voucherParams(25, 4)
	p.Code = v.Code
	p.Description = "updated"
	updated, err := vs.Update(v.ID, p)
	if err != nil {
		t.Fatalf("update voucher: %v", err)
	}
	if updated.PointsRequired != 25 || updated.MaxUses != 4 {
		t.Errorf("got points=%d uses=%d, want 25/4", updated.PointsRequired, updated.MaxUses)
	}
	if updated.Description != "updated" {
		t.Errorf("description = %q, want %q", updated.Description, "updated")
	}
}

func TestVoucherDeactivate(t *testing.T) {
	vs, _ := setupVoucherTestDB(t)

	v, err := vs.Create(voucherParams(0, 1))
	if err != nil {
		t.Fatalf("create voucher: %v", err)
	}
	if err := vs.Deactivate(v.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	got, err := vs.GetByID(v.ID)
	if err != nil {
		t.Fatalf("get voucher: %v", err)
	}
	if got.Status != model.VoucherStatusInactive {
		t.Errorf("status = %q, want %q", got.Status, model.VoucherStatusInactive)
	}

	if err := vs.Deactivate(9999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing voucher, got %v", err)
	}
}

func TestVoucherUseTracksLastRedeemer(t *testing.T) {
	vs, ms := setupVoucherTestDB(t)

	ada, err := ms.Create("Ada", "ada@example.com", "hash", model.RoleMember)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	eve, err := ms.Create("Eve", "eve@example.com", "hash", model.RoleMember)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	v, err := vs.Create(voucherParams(0, 2))
	if err != nil {
		t.Fatalf("create voucher: %v", err)
	}

	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.Local)
	used, err := vs.Use(v.ID, ada.ID, now)
	if err != nil {
		t.Fatalf("first use: %v", err)
	}
	if used.UseCount != 1 {
		t.Errorf("use count = %d, want 1", used.UseCount)
	}
	if used.LastUsedBy == nil || *used.LastUsedBy != ada.ID {
		t.Errorf("last used by = %v, want %d", used.LastUsedBy, ada.ID)
	}

	// Only the most recent redeemer is blocked from going again.
	if _, err := vs.Use(v.ID, ada.ID, now); err != ErrVoucherAlreadyUsed {
		t.Fatalf("expected ErrVoucherAlreadyUsed, got %v", err)
	}

	used, err = vs.Use(v.ID, eve.ID, now)
	if err != nil {
		t.Fatalf("second use: %v", err)
	}
	if used.UseCount != 2 {
		t.Errorf("use count = %d, want 2", used.UseCount)
	}
	if used.RemainingUses() != 0 {
		t.Errorf("remaining uses = %d, want 0", used.RemainingUses())
	}

	if _, err := vs.Use(v.ID, ada.ID, now); err != ErrMaxRedemptions {
		t.Fatalf("expected ErrMaxRedemptions, got %v", err)
	}
}

func TestVoucherUseOutsideWindow(t *testing.T) {
	vs, ms := setupVoucherTestDB(t)

	ada, err := ms.Create("Ada", "ada@example.com", "hash", model.RoleMember)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	v, err := vs.Create(voucherParams(0, 1))
	if err != nil {
		t.Fatalf("create voucher: %v", err)
	}

	before := time.Date(2025, 12, 31, 23, 0, 0, 0, time.Local)
	if _, err := vs.Use(v.ID, ada.ID, before); err != ErrVoucherExpired {
		t.Fatalf("expected ErrVoucherExpired before window, got %v", err)
	}

	after := time.Date(2027, 1, 1, 0, 0, 0, 0, time.Local)
	if _, err := vs.Use(v.ID, ada.ID, after); err != ErrVoucherExpired {
		t.Fatalf("expected ErrVoucherExpired after window, got %v", err)
	}

	// The window is inclusive on both ends.
	lastDay := time.Date(2026, 12, 31, 12, 0, 0, 0, time.Local)
	if _, err := vs.Use(v.ID, ada.ID, lastDay); err != nil {
		t.Fatalf("use on last valid day: %v", err)
	}
}

func TestVoucherResetUse(t *testing.T) {
	vs, ms := setupVoucherTestDB(t)

	ada, err := ms.Create("Ada", "ada@example.com", "hash", model.RoleMember)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	v, err := vs.Create(voucherParams(0, 1))
	if err != nil {
		t.Fatalf("create voucher: %v", err)
	}

	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.Local)
	if _, err := vs.Use(v.ID, ada.ID, now); err != nil {
		t.Fatalf("use: %v", err)
	}
	if _, err := vs.Use(v.ID, ada.ID, now); err != ErrMaxRedemptions {
		t.Fatalf("expected ErrMaxRedemptions, got %v", err)
	}

	reset, err := vs.ResetUse(v.ID)
	if err != nil {
		t.Fatalf("reset use: %v", err)
	}
	if reset.UseCount != 0 {
		t.Errorf("use count = %d, want 0", reset.UseCount)
	}
	if reset.LastUsedBy != nil {
		t.Errorf("last used by = %v, want nil", reset.LastUsedBy)
	}

	// After a reset the previous redeemer may use the voucher again.
	if _, err := vs.Use(v.ID, ada.ID, now); err != nil {
		t.Fatalf("use after reset: %v", err)
	}
}

// TestVoucherUseConcurrent hammers a single-use voucher from many goroutines.
// Exactly one claim may win; the rest must fail without over-counting.
// Uses a file-backed database so every connection sees the same data.
func TestVoucherUseConcurrent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "vouchers.db")
	db, err := database.Open(dbPath)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	vs := NewVoucherStore(db)
	ms := NewMemberStore(db)

	const workers = 8
	memberIDs := make([]int64, workers)
	for i := range memberIDs {
		m, err := ms.Create("Member", "member"+string(rune('a'+i))+"@example.com", "hash", model.RoleMember)
		if err != nil {
			t.Fatalf("create member: %v", err)
		}
		memberIDs[i] = m.ID
	}

	v, err := vs.Create(voucherParams(0, 1))
	if err != nil {
		t.Fatalf("create voucher: %v", err)
	}

	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.Local)
	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(memberID int64) {
			defer wg.Done()
			_, err := vs.Use(v.ID, memberID, now)
			results <- err
		}(memberIDs[i])
	}
	wg.Wait()
	close(results)

	var wins int
	for err := range results {
		switch err {
		case nil:
			wins++
		case ErrVoucherConflict, ErrMaxRedemptions:
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}
	if wins != 1 {
		t.Errorf("winning claims = %d, want 1", wins)
	}

	got, err := vs.GetByID(v.ID)
	if err != nil {
		t.Fatalf("get voucher: %v", err)
	}
	if got.UseCount != 1 {
		t.Errorf("use count = %d, want 1", got.UseCount)
	}
}
