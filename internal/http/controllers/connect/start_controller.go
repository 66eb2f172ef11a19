package connect

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/JackVitick/Socialync/internal/handshake"
	httperrors "github.com/JackVitick/Socialync/internal/http/errors"
	mw "github.com/JackVitick/Socialync/internal/http/middlewares"
	svc "github.com/JackVitick/Socialync/internal/http/services/connect"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/providers"
)

// StartController maneja GET /auth/{platform}.
type StartController struct {
	service Starter
	store   handshake.Store
	pages   svc.Pages
}

func NewStartController(service Starter, store handshake.Store, pages svc.Pages) *StartController {
	return &StartController{service: service, store: store, pages: pages}
}

// Start guarda el handshake y redirige al proveedor.
// Plataforma desconocida es 400 JSON; el resto de las fallas son redirects.
func (c *StartController) Start(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("StartController.Start"))

	platform := chi.URLParam(r, "platform")
	res, err := c.service.Start(ctx, svc.StartRequest{
		Platform: platform,
		UserID:   mw.GetUserID(ctx),
	})
	switch {
	case err == nil:
	case errors.Is(err, svc.ErrUnknownPlatform):
		httperrors.WriteError(w, httperrors.ErrUnknownPlatform.WithDetail("invalid platform"))
		return
	case errors.Is(err, svc.ErrMissingCredentials):
		http.Redirect(w, r, c.pages.Failure(svc.MissingConfigTag(providers.Platform(platform))), http.StatusFound)
		return
	case errors.Is(err, svc.ErrUnauthenticated):
		log.Info("no authenticated user, redirecting to login", logger.Platform(platform))
		http.Redirect(w, r, c.pages.LoginURL(), http.StatusFound)
		return
	default:
		log.Error("start authorization failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	if err := c.store.Save(ctx, w, r, res.Handshake); err != nil {
		log.Error("save handshake failed", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	http.Redirect(w, r, res.RedirectURL, http.StatusFound)
}
