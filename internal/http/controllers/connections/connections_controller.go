// Package connections contiene los controllers de /api/connections.
package connections

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	store "github.com/JackVitick/Socialync/internal/connections"
	dto "github.com/JackVitick/Socialync/internal/http/dto/connections"
	httperrors "github.com/JackVitick/Socialync/internal/http/errors"
	"github.com/JackVitick/Socialync/internal/http/helpers"
	mw "github.com/JackVitick/Socialync/internal/http/middlewares"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/providers"
)

// Service es lo que el controller usa del service de conexiones.
type Service interface {
	List(ctx context.Context, userID string) ([]store.Connection, error)
	Disconnect(ctx context.Context, userID, platform string) error
}

// ConnectionsController maneja GET /api/connections y DELETE /api/connections/{platform}.
// Ambas rutas van detrás de RequireUser.
type ConnectionsController struct {
	service Service
}

func NewConnectionsController(service Service) *ConnectionsController {
	return &ConnectionsController{service: service}
}

func (c *ConnectionsController) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := mw.GetUserID(ctx)
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	conns, err := c.service.List(ctx, userID)
	if err != nil {
		logger.From(ctx).Error("list connections failed", logger.Layer("controller"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}

	resp := dto.ListResponse{Connections: make([]dto.ConnectionResponse, 0, len(conns))}
	for _, cn := range conns {
		resp.Connections = append(resp.Connections, dto.ConnectionResponse{
			Platform:    string(cn.Platform),
			Connected:   cn.Connected,
			ProfileID:   cn.ProfileID,
			ProfileName: cn.ProfileName,
			ExpiresAt:   cn.ExpiresAt,
			HasRefresh:  cn.RefreshToken != "",
			UpdatedAt:   cn.UpdatedAt,
		})
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func (c *ConnectionsController) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := mw.GetUserID(ctx)
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	platform := chi.URLParam(r, "platform")
	err := c.service.Disconnect(ctx, userID, platform)
	var unknown *providers.UnknownPlatformError
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.As(err, &unknown):
		httperrors.WriteError(w, httperrors.ErrUnknownPlatform.WithDetail(platform))
	default:
		logger.From(ctx).Error("disconnect failed", logger.Layer("controller"), logger.Platform(platform), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
	}
}
