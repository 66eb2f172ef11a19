package middlewares

import (
	"context"

	"github.com/JackVitick/Socialync/internal/identity"
)

type ctxKey string

const (
	ctxRequestIDKey ctxKey = "request_id"
	ctxIdentityKey  ctxKey = "identity"
)

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// WithIdentityResult inyecta la identidad resuelta en el contexto.
// Lo usa WithIdentity; exportado para tests de controllers.
func WithIdentityResult(ctx context.Context, res identity.Result) context.Context {
	return context.WithValue(ctx, ctxIdentityKey, res)
}

// GetRequestID obtiene el request ID del contexto ("" si no hay).
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxRequestIDKey).(string); ok {
		return v
	}
	return ""
}

// GetIdentity obtiene la identidad resuelta; ok=false si nadie resolvió.
func GetIdentity(ctx context.Context) (identity.Result, bool) {
	res, ok := ctx.Value(ctxIdentityKey).(identity.Result)
	if !ok || res.UserID == "" {
		return identity.Result{}, false
	}
	return res, true
}

// GetUserID obtiene el user ID del contexto ("" si no hay).
func GetUserID(ctx context.Context) string {
	res, _ := GetIdentity(ctx)
	return res.UserID
}
