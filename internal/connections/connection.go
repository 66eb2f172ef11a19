// Package connections persiste las cuentas sociales vinculadas de cada usuario.
//
// Un registro por (userID, platform). Save es un overwrite completo del registro
// con connected=true; no hay merge parcial de campos.
package connections

import (
	"context"
	"errors"
	"time"

	"github.com/JackVitick/Socialync/internal/providers"
)

// ErrNotFound: no existe conexión para (userID, platform).
var ErrNotFound = errors.New("connections: not found")

// Input es lo que el callback OAuth entrega para guardar.
type Input struct {
	AccessToken  string
	RefreshToken string
	// ExpiresAt en epoch millis; nil si el proveedor no informó expires_in.
	ExpiresAt   *int64
	ProfileID   string
	ProfileName string
}

// Connection es el registro persistido.
type Connection struct {
	UserID       string
	Platform     providers.Platform
	AccessToken  string
	RefreshToken string
	ExpiresAt    *int64
	ProfileID    string
	ProfileName  string
	Connected    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Store es el colaborador de persistencia.
type Store interface {
	Save(ctx context.Context, userID string, platform providers.Platform, in Input) error
	Get(ctx context.Context, userID string, platform providers.Platform) (*Connection, error)
	List(ctx context.Context, userID string) ([]Connection, error)
	Delete(ctx context.Context, userID string, platform providers.Platform) error
	Ping(ctx context.Context) error
}

// IsConnected indica si existe el registro y está marcado connected.
func IsConnected(ctx context.Context, s Store, userID string, platform providers.Platform) (bool, error) {
	c, err := s.Get(ctx, userID, platform)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return c.Connected, nil
}

// validate rechaza inputs que nunca deberían llegar al store.
func validate(userID string, platform providers.Platform, in Input) error {
	switch {
	case userID == "":
		return errors.New("connections: empty user id")
	case !platform.Valid():
		return &providers.UnknownPlatformError{Value: string(platform)}
	case in.AccessToken == "":
		return errors.New("connections: empty access token")
	case in.ProfileID == "":
		return errors.New("connections: empty profile id")
	}
	return nil
}
