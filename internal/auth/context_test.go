package auth

import (
	"context"
	"testing"
)

func TestWithIdentityAndFromContext(t *testing.T) {
	id := Identity{MemberID: 1, Role: "admin"}

	ctx := WithIdentity(context.Background(), id)
	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected Identity in context")
	}
	if got.MemberID != 1 {
		t.Errorf("MemberID = %d, want 1", got.MemberID)
	}
	if got.Role != "admin" {
		t.Errorf("Role = %q, want %q", got.Role, "admin")
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing Identity")
	}
}

func TestMemberID(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{MemberID: 7})
	if MemberID(ctx) != 7 {
		t.Errorf("MemberID = %d, want 7", MemberID(ctx))
	}
}

func TestMemberIDMissing(t *testing.T) {
	if MemberID(context.Background()) != 0 {
		t.Error("expected 0 for missing context")
	}
}

func TestIsAdmin(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{Role: "admin"})
	if !IsAdmin(ctx) {
		t.Error("expected IsAdmin = true for admin role")
	}
}

func TestIsAdminFalse(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{Role: "member"})
	if IsAdmin(ctx) {
		t.Error("expected IsAdmin = false for member role")
	}
}

func TestIsAdminMissing(t *testing.T) {
	if IsAdmin(context.Background()) {
		t.Error("expected IsAdmin = false for missing context")
	}
}
