package store

import (
	"testing"

	"github.com/gymledger/gymledger/internal/database"
	"github.com/gymledger/gymledger/internal/model"
)

func setupMemberTestDB(t *testing.T) *MemberStore {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewMemberStore(db)
}

func TestMemberCreateAndGet(t *testing.T) {
	ms := setupMemberTestDB(t)

	member, err := ms.Create("Ada", "ada@example.com", "hash", model.RoleMember)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}
	if member.Name != "Ada" {
		t.Errorf("name = %q, want %q", member.Name, "Ada")
	}
	if !member.Active {
		t.Error("new member should be active")
	}

	got, err := ms.GetByID(member.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got == nil || got.Email != "ada@example.com" {
		t.Fatalf("got %+v, want email ada@example.com", got)
	}
}

func TestMemberDuplicateEmail(t *testing.T) {
	ms := setupMemberTestDB(t)

	if _, err := ms.Create("Ada", "ada@example.com", "hash", model.RoleMember); err != nil {
		t.Fatalf("create member: %v", err)
	}
	if _, err := ms.Create("Other", "ada@example.com", "hash", model.RoleMember); err != ErrDuplicate {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestMemberGetCredentials(t *testing.T) {
	ms := setupMemberTestDB(t)

	created, err := ms.Create("Ada", "ada@example.com", "secret-hash", model.RoleAdmin)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	member, hash, err := ms.GetCredentials("ada@example.com")
	if err != nil {
		t.Fatalf("get credentials: %v", err)
	}
	if member == nil || member.ID != created.ID {
		t.Fatalf("got %+v, want id %d", member, created.ID)
	}
	if hash != "secret-hash" {
		t.Errorf("hash = %q, want %q", hash, "secret-hash")
	}
	if member.Role != model.RoleAdmin {
		t.Errorf("role = %q, want %q", member.Role, model.RoleAdmin)
	}

	member, _, err = ms.GetCredentials("nobody@example.com")
	if err != nil {
		t.Fatalf("get missing credentials: %v", err)
	}
	if member != nil {
		t.Errorf("expected nil member for unknown email, got %+v", member)
	}
}

func TestMemberDeactivate(t *testing.T) {
	ms := setupMemberTestDB(t)

	member, err := ms.Create("Ada", "ada@example.com", "hash", model.RoleMember)
	if err != nil {
		t.Fatalf("create member: %v", err)
	}

	if err := ms.Deactivate(member.ID); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	got, err := ms.GetByID(member.ID)
	if err != nil {
		t.Fatalf("get member: %v", err)
	}
	if got == nil {
		t.Fatal("deactivated member should still be readable")
	}
	if got.Active {
		t.Error("member should be inactive after deactivate")
	}

	if err := ms.Deactivate(9999); err != ErrNotFound {
		t.Errorf("expected ErrNotFound for missing member, got %v", err)
	}
}
