package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	UserIDKey contextKey = "user_id"
	RoleKey   contextKey = "role"
	TokenKey  contextKey = "session_token"
)

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

// GetRoleFromContext returns the role claimed by the session token. It is
// informational only; admin routes re-check the role against the users table.
func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

func SetUserContext(ctx context.Context, userID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}

// GetTokenFromContext returns the session row token (not the signed JWT).
func GetTokenFromContext(ctx context.Context) (uuid.UUID, bool) {
	token, ok := ctx.Value(TokenKey).(uuid.UUID)
	return token, ok && token != uuid.Nil
}

func SetTokenContext(ctx context.Context, token uuid.UUID) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
