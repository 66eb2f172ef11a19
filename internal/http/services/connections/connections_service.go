// Package connections contiene el service de consulta y baja de cuentas conectadas.
package connections

import (
	"context"
	"fmt"

	store "github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/providers"
)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// List devuelve las conexiones del usuario en orden de plataforma.
func (s *Service) List(ctx context.Context, userID string) ([]store.Connection, error) {
	out, err := s.store.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("connections: list: %w", err)
	}
	return out, nil
}

// Disconnect borra la conexión. Plataformas desconocidas devuelven
// *providers.UnknownPlatformError; borrar algo inexistente no es error.
func (s *Service) Disconnect(ctx context.Context, userID, platform string) error {
	p, err := providers.Parse(platform)
	if err != nil {
		return err
	}
	if err := s.store.Delete(ctx, userID, p); err != nil {
		return fmt.Errorf("connections: delete: %w", err)
	}
	logger.From(ctx).Info("social account disconnected",
		logger.Layer("service"),
		logger.Platform(string(p)),
	)
	return nil
}
