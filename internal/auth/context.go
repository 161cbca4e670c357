// Package auth carries the admin session on the request context. Children
// use the app without logging in; only admin actions need a session.
package auth

import (
	"context"
	"time"
)

type contextKey struct{}

type AdminContext struct {
	Token     string
	ExpiresAt time.Time
}

func WithAdmin(ctx context.Context, ac AdminContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

func FromContext(ctx context.Context) (AdminContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AdminContext)
	return ac, ok
}

// IsAdmin reports whether the request carries a live admin session.
func IsAdmin(ctx context.Context) bool {
	_, ok := FromContext(ctx)
	return ok
}

// Token returns the admin session token, or "".
func Token(ctx context.Context) string {
	ac, _ := FromContext(ctx)
	return ac.Token
}
