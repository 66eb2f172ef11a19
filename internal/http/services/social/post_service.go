// Package social contiene el service de publicación multi-plataforma.
package social

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/providers"
	"github.com/JackVitick/Socialync/internal/publish"
)

var (
	ErrNoPlatforms = errors.New("social: at least one platform is required")
	ErrEmptyPost   = errors.New("social: post has no text or media")
)

// NotConnectedError: la plataforma pedida no está conectada para el usuario.
type NotConnectedError struct {
	Platform providers.Platform
}

func (e *NotConnectedError) Error() string {
	return fmt.Sprintf("%s is not connected for this user", e.Platform)
}

// Dispatcher es lo que el service usa de publish.Dispatcher.
type Dispatcher interface {
	Dispatch(ctx context.Context, conns []connections.Connection, content publish.Content) map[providers.Platform]publish.Result
}

type PostRequest struct {
	UserID    string
	Platforms []string
	Content   publish.Content
}

type PostService struct {
	store      connections.Store
	dispatcher Dispatcher
}

func NewPostService(store connections.Store, d Dispatcher) *PostService {
	return &PostService{store: store, dispatcher: d}
}

// Post valida todas las plataformas antes de publicar en ninguna: si una es
// desconocida o no está conectada, no se despacha nada.
func (s *PostService) Post(ctx context.Context, req PostRequest) (map[providers.Platform]publish.Result, error) {
	if len(req.Platforms) == 0 {
		return nil, ErrNoPlatforms
	}
	if strings.TrimSpace(req.Content.Text) == "" && len(req.Content.MediaURLs) == 0 {
		return nil, ErrEmptyPost
	}

	seen := make(map[providers.Platform]bool, len(req.Platforms))
	conns := make([]connections.Connection, 0, len(req.Platforms))
	for _, raw := range req.Platforms {
		p, err := providers.Parse(raw)
		if err != nil {
			return nil, err
		}
		if seen[p] {
			continue
		}
		seen[p] = true

		c, err := s.store.Get(ctx, req.UserID, p)
		if errors.Is(err, connections.ErrNotFound) || (err == nil && !c.Connected) {
			return nil, &NotConnectedError{Platform: p}
		}
		if err != nil {
			return nil, fmt.Errorf("social: load connection: %w", err)
		}
		conns = append(conns, *c)
	}

	results := s.dispatcher.Dispatch(ctx, conns, req.Content)
	logger.From(ctx).Info("post dispatched",
		logger.Layer("service"),
		logger.Op("PostService.Post"),
		logger.Int("platforms", len(conns)),
	)
	return results, nil
}
