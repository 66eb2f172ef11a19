package middlewares

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/JackVitick/Socialync/internal/http/errors"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/rate"
)

// RateLimiter es lo que WithRateLimit necesita de rate.FixedWindow.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (rate.Result, error)
}

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPOnlyRateKey usa solo la IP del cliente.
func IPOnlyRateKey(r *http.Request) string {
	return clientIP(r)
}

// WithRateLimit responde 429 cuando el limiter rechaza la clave.
// Si el limiter falla, el request pasa.
func WithRateLimit(limiter RateLimiter, keyFn RateKeyFunc) Middleware {
	if limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if keyFn == nil {
		keyFn = IPOnlyRateKey
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := limiter.Allow(r.Context(), keyFn(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limit error", logger.Component("rate"), logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if res.WindowTTL > 0 {
				resetAt := time.Now().Add(res.WindowTTL).Unix()
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
			}
			if !res.Allowed {
				if res.RetryAfter > 0 {
					w.Header().Set("Retry-After", strconv.Itoa(int(res.RetryAfter.Seconds())))
				}
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			next.ServeHTTP(w, r)
		})
	}
}
