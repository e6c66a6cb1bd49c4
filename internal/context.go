package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	contextUserIDKey ctxKey = "userID"
	contextRoleKey   ctxKey = "role"
)

// UserIDFromContext returns 0 when no authenticated user is attached.
func UserIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if userID, ok := ctx.Value(contextUserIDKey).(int64); ok {
		return userID
	}
	return 0
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	role, _ := ctx.Value(contextRoleKey).(string)
	return role
}

func ContextWithIdentity(ctx context.Context, userID int64, role string) context.Context {
	ctx = context.WithValue(ctx, contextUserIDKey, userID)
	return context.WithValue(ctx, contextRoleKey, role)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
