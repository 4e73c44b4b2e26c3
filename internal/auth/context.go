package auth

import "context"

type contextKey string

const userIDKey contextKey = "user-id"

// ContextWithUserID stores the authenticated user id in the request
// context, done by the auth middleware after token resolution.
func ContextWithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(userIDKey).(int)
	return userID, ok
}
