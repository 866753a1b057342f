package auth

import (
	"context"

	"github.com/shababeek/pos/internal/access"
)

// Identity is the resolved caller attached to authenticated requests.
type Identity struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Role      access.Role
}

// Context keys to avoid collisions
type contextKey string

const (
	identityKey contextKey = "identity"
	tokenKey    contextKey = "token"
)

// WithIdentity attaches the resolved identity and its raw session token to
// the request context. The raw token is kept so a handler can log out that
// exact session.
func WithIdentity(ctx context.Context, id *Identity, token string) context.Context {
	ctx = context.WithValue(ctx, identityKey, id)
	return context.WithValue(ctx, tokenKey, token)
}

// IdentityFrom returns the caller identity, or nil for guest requests.
func IdentityFrom(ctx context.Context) *Identity {
	if v, ok := ctx.Value(identityKey).(*Identity); ok {
		return v
	}
	return nil
}

// TokenFrom returns the raw bearer token the caller authenticated with.
func TokenFrom(ctx context.Context) string {
	if v, ok := ctx.Value(tokenKey).(string); ok {
		return v
	}
	return ""
}

// UserID returns the caller's id for log correlation, or "" when unknown.
func UserID(ctx context.Context) string {
	if id := IdentityFrom(ctx); id != nil {
		return id.ID
	}
	return ""
}
