package httpx

import "context"

type ctxKey string

const CtxKeyIdentityID ctxKey = "identity_id"

func WithIdentityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, CtxKeyIdentityID, id)
}

// IdentityID returns the gateway-asserted identity, or "" outside
// identity-scoped routes.
func IdentityID(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyIdentityID).(string); ok {
		return v
	}
	return ""
}
