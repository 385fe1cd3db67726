package middleware

import (
	"context"
)

type contextKeyType string

const userIDKey contextKeyType = "user_id"

// WithUserID returns a context carrying the authenticated user's ID. The API
// gateway authenticates requests and forwards the identity via the X-User-ID
// header; handlers and the request logger read it back with UserIDFromContext.
func WithUserID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, userIDKey, id)
}

// UserIDFromContext extracts the user ID from the request context.
func UserIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok {
		return id
	}
	return ""
}
