package middlewares

import (
	"net/http"

	"github.com/JackVitick/Socialync/internal/http/errors"
	"github.com/JackVitick/Socialync/internal/identity"
	"github.com/JackVitick/Socialync/internal/observability/logger"
)

// IdentityResolver es lo que WithIdentity necesita de identity.Chain.
type IdentityResolver interface {
	Resolve(r *http.Request) (identity.Result, bool)
}

// WithIdentity resuelve el usuario actual con la cadena configurada y, si hay,
// lo deja en el contexto y en el logger scoped. No rechaza requests anónimos.
func WithIdentity(res IdentityResolver) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if res == nil {
				next.ServeHTTP(w, r)
				return
			}
			id, ok := res.Resolve(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			ctx := WithIdentityResult(r.Context(), id)
			ctx = logger.ToContext(ctx, logger.From(ctx).With(logger.UserID(id.UserID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser responde 401 JSON si WithIdentity no resolvió usuario.
func RequireUser() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := GetIdentity(r.Context()); !ok {
				errors.WriteError(w, errors.ErrUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
