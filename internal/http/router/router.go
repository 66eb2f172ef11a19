// Package router monta las rutas HTTP sobre chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	connectctrl "github.com/JackVitick/Socialync/internal/http/controllers/connect"
	connectionsctrl "github.com/JackVitick/Socialync/internal/http/controllers/connections"
	healthctrl "github.com/JackVitick/Socialync/internal/http/controllers/health"
	socialctrl "github.com/JackVitick/Socialync/internal/http/controllers/social"
	httperrors "github.com/JackVitick/Socialync/internal/http/errors"
	mw "github.com/JackVitick/Socialync/internal/http/middlewares"
)

// Deps contiene los controllers y colaboradores que el router necesita.
type Deps struct {
	Connect     *connectctrl.Controllers
	Connections *connectionsctrl.ConnectionsController
	Social      *socialctrl.PostController
	Health      *healthctrl.HealthController

	Identity mw.IdentityResolver
	// RateLimiter acota /auth/* por IP; nil desactiva.
	RateLimiter mw.RateLimiter
	// Metrics sirve /metrics; nil no monta la ruta.
	Metrics http.Handler
}

// New arma el handler raíz.
//
//	GET    /auth/{platform}
//	GET    /auth/{platform}/callback
//	GET    /api/info
//	GET    /api/connections                 (requiere usuario)
//	DELETE /api/connections/{platform}      (requiere usuario)
//	POST   /api/auth/facebook/token         (requiere usuario)
//	POST   /api/social/post                 (requiere usuario)
//	GET    /readyz
//	GET    /metrics                         (si está habilitado)
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(),
		mw.WithSecurityHeaders(),
	)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrRouteNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
	r.Get("/readyz", d.Health.Readyz)

	r.Group(func(r chi.Router) {
		r.Use(mw.WithNoStore(), mw.WithIdentity(d.Identity))

		r.Group(func(r chi.Router) {
			r.Use(mw.WithRateLimit(d.RateLimiter, mw.IPOnlyRateKey))

			r.Get("/auth/{platform}", d.Connect.Start.Start)
			r.Get("/auth/{platform}/callback", d.Connect.Callback.Callback)
		})
		r.Get("/api/info", d.Health.Info)

		r.Group(func(r chi.Router) {
			r.Use(mw.RequireUser())

			r.Get("/api/connections", d.Connections.List)
			r.Delete("/api/connections/{platform}", d.Connections.Delete)
			r.Post("/api/auth/facebook/token", d.Connect.FacebookToken.Exchange)
			r.Post("/api/social/post", d.Social.Post)
		})
	})

	return r
}
