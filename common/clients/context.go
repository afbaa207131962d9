package clients

import "context"

// contextKey is a private type to prevent context key collisions
type contextKey string

const sessionIDKey contextKey = "clients.session_id"

// WithSessionID stores the client session id in the context
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// GetSessionID extracts the client session id from the context
func GetSessionID(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(sessionIDKey).(string)
	return sessionID, ok
}
