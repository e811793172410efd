package middleware

import "context"

type contextKey string

const (
	ctxAdminID     contextKey = "admin_id"
	ctxRole        contextKey = "actor_role"
	ctxAccessID    contextKey = "access_id"
	ctxCartSession contextKey = "cart_session"
)

func stringValue(ctx context.Context, key contextKey) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

func AdminIDFromContext(ctx context.Context) string { return stringValue(ctx, ctxAdminID) }

func RoleFromContext(ctx context.Context) string { return stringValue(ctx, ctxRole) }

// AccessIDFromContext returns the jti of the authenticated token.
func AccessIDFromContext(ctx context.Context) string { return stringValue(ctx, ctxAccessID) }

// CartSessionFromContext returns the shopper session resolved by CartSession.
func CartSessionFromContext(ctx context.Context) string { return stringValue(ctx, ctxCartSession) }

// WithCartSession injects a cart session id, mostly for handler tests.
func WithCartSession(ctx context.Context, sessionID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxCartSession, sessionID)
}
