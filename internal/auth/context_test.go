package auth

import (
	"context"
	"testing"
	"time"
)

func TestWithAdminAndFromContext(t *testing.T) {
	exp := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	ctx := WithAdmin(context.Background(), AdminContext{Token: "abc", ExpiresAt: exp})

	got, ok := FromContext(ctx)
	if !ok {
		t.Fatal("expected AdminContext in context")
	}
	if got.Token != "abc" {
		t.Errorf("Token = %q, want %q", got.Token, "abc")
	}
	if !got.ExpiresAt.Equal(exp) {
		t.Errorf("ExpiresAt = %v, want %v", got.ExpiresAt, exp)
	}
}

func TestFromContextMissing(t *testing.T) {
	_, ok := FromContext(context.Background())
	if ok {
		t.Error("expected false for missing AdminContext")
	}
}

func TestIsAdmin(t *testing.T) {
	ctx := WithAdmin(context.Background(), AdminContext{Token: "abc"})
	if !IsAdmin(ctx) {
		t.Error("expected IsAdmin = true with a session")
	}
}

func TestIsAdminMissing(t *testing.T) {
	if IsAdmin(context.Background()) {
		t.Error("expected IsAdmin = false for missing context")
	}
}

func TestToken(t *testing.T) {
	if Token(context.Background()) != "" {
		t.Error("expected empty token for missing context")
	}
	ctx := WithAdmin(context.Background(), AdminContext{Token: "abc"})
	if Token(ctx) != "abc" {
		t.Errorf("Token = %q, want abc", Token(ctx))
	}
}
