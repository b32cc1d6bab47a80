package auth

import "context"

type ctxKey int

const (
	tenantIDKey ctxKey = iota
	userIDKey
)

// WithTenant returns a context carrying the verified tenant and acting user.
// The values come from the upstream auth layer and are trusted verbatim;
// every query and mutation downstream filters by this tenant id.
func WithTenant(ctx context.Context, tenantID, userID string) context.Context {
	ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	return context.WithValue(ctx, userIDKey, userID)
}

func TenantID(ctx context.Context) string {
	if v, ok := ctx.Value(tenantIDKey).(string); ok {
		return v
	}
	return ""
}

func UserID(ctx context.Context) string {
	if v, ok := ctx.Value(userIDKey).(string); ok {
		return v
	}
	return ""
}
