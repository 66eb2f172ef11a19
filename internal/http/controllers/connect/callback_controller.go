package connect

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/JackVitick/Socialync/internal/handshake"
	svc "github.com/JackVitick/Socialync/internal/http/services/connect"
	"github.com/JackVitick/Socialync/internal/observability/logger"
)

// CallbackController maneja GET /auth/{platform}/callback.
type CallbackController struct {
	service Completer
	store   handshake.Store
}

func NewCallbackController(service Completer, store handshake.Store) *CallbackController {
	return &CallbackController{service: service, store: store}
}

// Callback consume el handshake antes de cualquier validación: el slot queda
// vacío sea cual sea el resultado. Siempre responde 302.
func (c *CallbackController) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CallbackController.Callback"))

	q := r.URL.Query()
	req := svc.CallbackRequest{
		Platform:      chi.URLParam(r, "platform"),
		Code:          q.Get("code"),
		State:         q.Get("state"),
		ProviderError: strings.TrimSpace(q.Get("error")),
	}
	req.Handshake, req.HandshakeErr = c.store.Consume(ctx, w, r)

	res := c.service.Complete(ctx, req)
	log.Debug("callback finished",
		logger.Bool("connected", res.Connected),
		logger.ErrorTag(res.Tag),
	)
	http.Redirect(w, r, res.RedirectURL, http.StatusFound)
}
