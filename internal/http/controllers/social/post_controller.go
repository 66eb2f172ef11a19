// Package social contiene el controller de publicación multi-plataforma.
package social

import (
	"context"
	"errors"
	"net/http"

	dto "github.com/JackVitick/Socialync/internal/http/dto/social"
	httperrors "github.com/JackVitick/Socialync/internal/http/errors"
	"github.com/JackVitick/Socialync/internal/http/helpers"
	mw "github.com/JackVitick/Socialync/internal/http/middlewares"
	svc "github.com/JackVitick/Socialync/internal/http/services/social"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/providers"
	"github.com/JackVitick/Socialync/internal/publish"
)

// Poster es lo que el controller usa de svc.PostService.
type Poster interface {
	Post(ctx context.Context, req svc.PostRequest) (map[providers.Platform]publish.Result, error)
}

// PostController maneja POST /api/social/post.
type PostController struct {
	service Poster
}

func NewPostController(service Poster) *PostController {
	return &PostController{service: service}
}

func (c *PostController) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("PostController.Post"))

	userID := mw.GetUserID(ctx)
	if userID == "" {
		httperrors.WriteError(w, httperrors.ErrUnauthorized)
		return
	}

	var body dto.PostRequest
	if !helpers.ReadJSON(w, r, &body) {
		return
	}

	results, err := c.service.Post(ctx, svc.PostRequest{
		UserID:    userID,
		Platforms: body.Platforms,
		Content: publish.Content{
			Text:      body.Content.Text,
			MediaURLs: body.Content.MediaURLs,
			Hashtags:  body.Content.Hashtags,
		},
	})
	if err != nil {
		log.Warn("post rejected", logger.Err(err))
		httperrors.WriteError(w, mapPostError(err))
		return
	}

	resp := dto.PostResponse{Results: make(map[string]dto.PlatformResult, len(results))}
	for p, res := range results {
		resp.Results[string(p)] = dto.PlatformResult{Success: res.Success, PostID: res.PostID, Error: res.Error}
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}

func mapPostError(err error) *httperrors.AppError {
	var unknown *providers.UnknownPlatformError
	var notConnected *svc.NotConnectedError
	switch {
	case errors.Is(err, svc.ErrNoPlatforms), errors.Is(err, svc.ErrEmptyPost):
		return httperrors.ErrMissingFields.WithDetail(err.Error())
	case errors.As(err, &unknown):
		return httperrors.ErrUnknownPlatform.WithDetail(unknown.Value)
	case errors.As(err, &notConnected):
		return httperrors.ErrPlatformNotConnected.WithDetail(notConnected.Error())
	default:
		return httperrors.ErrInternalServerError.WithCause(err)
	}
}
