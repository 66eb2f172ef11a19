package connect

import (
	"errors"
	"net/http"

	dto "github.com/JackVitick/Socialync/internal/http/dto/social"
	httperrors "github.com/JackVitick/Socialync/internal/http/errors"
	"github.com/JackVitick/Socialync/internal/http/helpers"
	mw "github.com/JackVitick/Socialync/internal/http/middlewares"
	svc "github.com/JackVitick/Socialync/internal/http/services/connect"
	"github.com/JackVitick/Socialync/internal/observability/logger"
)

// FacebookTokenController maneja POST /api/auth/facebook/token.
type FacebookTokenController struct {
	service FacebookExchanger
}

func NewFacebookTokenController(service FacebookExchanger) *FacebookTokenController {
	return &FacebookTokenController{service: service}
}

func (c *FacebookTokenController) Exchange(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("FacebookTokenController.Exchange"))

	var body dto.FacebookTokenRequest
	if !helpers.ReadJSON(w, r, &body) {
		return
	}

	err := c.service.Exchange(ctx, svc.FacebookTokenRequest{
		UserID:         mw.GetUserID(ctx),
		AccessToken:    body.AccessToken,
		FacebookUserID: body.UserID,
	})
	if err != nil {
		log.Warn("facebook token exchange rejected", logger.Err(err))
		httperrors.WriteError(w, mapFacebookError(err))
		return
	}

	helpers.WriteJSON(w, http.StatusOK, dto.FacebookTokenResponse{
		Success: true,
		Message: "Facebook account connected successfully",
	})
}

func mapFacebookError(err error) *httperrors.AppError {
	switch {
	case errors.Is(err, svc.ErrUnauthenticated):
		return httperrors.ErrUnauthorized
	case errors.Is(err, svc.ErrFacebookMissingFields):
		return httperrors.ErrMissingFields.WithDetail("accessToken and userID are required")
	case errors.Is(err, svc.ErrMissingCredentials):
		return httperrors.ErrMissingConfig.WithDetail("facebook credentials are not configured")
	case errors.Is(err, svc.ErrFacebookExchange):
		return httperrors.ErrBadGateway.WithDetail("failed to exchange token").WithCause(err)
	case errors.Is(err, svc.ErrFacebookProfile):
		return httperrors.ErrBadGateway.WithDetail("failed to fetch facebook profile").WithCause(err)
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}
