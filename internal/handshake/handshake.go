// Package handshake guarda el triple {state, platform, user} que une el inicio
// de la autorización OAuth con su callback.
//
// Dos implementaciones:
//   - CookieStore: tres cookies httpOnly (oauth_state, platform, user_id).
//   - ServerStore: una cookie opaca (oauth_handshake) que apunta a una entrada
//     en cache.Client con el mismo TTL.
//
// Ambas tienen un único slot por browser: un nuevo Save pisa el anterior.
package handshake

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JackVitick/Socialync/internal/providers"
)

// DefaultTTL es la vida máxima de un handshake.
const DefaultTTL = 600 * time.Second

// stateBytes de entropía para el state (256 bits).
const stateBytes = 32

// ErrNotFound: no hay handshake, está incompleto o expiró.
var ErrNotFound = errors.New("handshake: not found")

// Handshake es el triple efímero de un intento de autorización.
type Handshake struct {
	State    string
	Platform providers.Platform
	UserID   string
}

// Matches compara los tres campos con lo recibido en el callback.
// Todos deben coincidir exactamente y ninguno puede estar vacío.
func (h Handshake) Matches(state string, platform providers.Platform) bool {
	return h.State != "" && h.UserID != "" &&
		h.State == state && h.Platform == platform
}

// Store persiste y consume handshakes.
type Store interface {
	Save(ctx context.Context, w http.ResponseWriter, r *http.Request, h Handshake) error
	Load(ctx context.Context, r *http.Request) (Handshake, error)
	Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error
	// Consume lee y borra el handshake en un paso. El slot queda vacío
	// aunque devuelva ErrNotFound.
	Consume(ctx context.Context, w http.ResponseWriter, r *http.Request) (Handshake, error)
}

// Options controla los atributos de las cookies emitidas.
type Options struct {
	Secure   bool
	TTL      time.Duration
	SameSite http.SameSite
	Domain   string
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.SameSite == 0 {
		// Lax permite que la cookie viaje en el redirect top-level del proveedor.
		o.SameSite = http.SameSiteLaxMode
	}
	return o
}

// NewState genera un state URL-safe desde crypto/rand.
func NewState() (string, error) {
	b := make([]byte, stateBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("handshake: read random: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func buildCookie(name, value string, o Options) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   o.Domain,
		Expires:  time.Now().UTC().Add(o.TTL),
		MaxAge:   int(o.TTL.Seconds()),
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: o.SameSite,
	}
}

func deletionCookie(name string, o Options) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   o.Domain,
		Expires:  time.Unix(0, 0).UTC(),
		MaxAge:   -1,
		Secure:   o.Secure,
		HttpOnly: true,
		SameSite: o.SameSite,
	}
}

func cookieValue(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}
