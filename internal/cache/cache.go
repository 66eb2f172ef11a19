// Package cache provee un key-value con TTL sobre memoria (go-cache) o Redis.
//
// socialsync lo usa para el modo "server" del handshake OAuth: el browser solo
// guarda un token opaco y los tres campos del handshake viven acá.
package cache

import (
	"context"
	"errors"
	"time"
)

// Client define las operaciones de cache.
type Client interface {
	// Get obtiene un valor. Retorna ErrNotFound si no existe o expiró.
	Get(ctx context.Context, key string) (string, error)

	// Set guarda un valor con TTL. ttl == 0 no expira.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// SetNX guarda el valor solo si la key no existe. ok=false si ya existía.
	SetNX(ctx context.Context, key, value string, ttl time.Duration) (ok bool, err error)

	// Incr suma 1 al contador de key y devuelve el valor y el TTL restante.
	// El primer Incr de la key fija el TTL; los siguientes no lo extienden.
	Incr(ctx context.Context, key string, ttl time.Duration) (n int64, remaining time.Duration, err error)

	// Take lee y borra la key en una sola operación (uso único).
	Take(ctx context.Context, key string) (string, error)

	// Delete elimina una key. Borrar una key inexistente no es error.
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	Close() error
}

// Config configuración para crear un cliente de cache.
type Config struct {
	Driver   string // "memory" | "redis"
	Addr     string // host:port para redis
	Password string
	DB       int
	Prefix   string // Prefijo para todas las keys
}

// ErrNotFound indica key inexistente o expirada.
var ErrNotFound = errors.New("cache: key not found")

// New crea un cliente de cache según la configuración.
func New(cfg Config) (Client, error) {
	switch cfg.Driver {
	case "redis":
		return NewRedis(cfg)
	default:
		return NewMemory(cfg.Prefix), nil
	}
}

func prefixed(prefix, k string) string {
	if prefix == "" {
		return k
	}
	return prefix + ":" + k
}
