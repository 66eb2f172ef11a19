package handshake

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/JackVitick/Socialync/internal/cache"
	"github.com/JackVitick/Socialync/internal/providers"
)

// CookieHandshake es la única cookie del modo server.
const CookieHandshake = "oauth_handshake"

const keyPrefix = "handshake:"

type record struct {
	State    string `json:"state"`
	Platform string `json:"platform"`
	UserID   string `json:"user_id"`
}

// ServerStore guarda el handshake en cache y entrega al browser solo un token opaco.
type ServerStore struct {
	cache cache.Client
	opts  Options
}

func NewServerStore(c cache.Client, opts Options) *ServerStore {
	return &ServerStore{cache: c, opts: opts.withDefaults()}
}

func (s *ServerStore) Save(ctx context.Context, w http.ResponseWriter, r *http.Request, h Handshake) error {
	// Slot único: el handshake anterior del mismo browser deja de existir.
	if old := cookieValue(r, CookieHandshake); old != "" {
		_ = s.cache.Delete(ctx, keyPrefix+old)
	}

	token, err := NewState()
	if err != nil {
		return err
	}
	b, err := json.Marshal(record{State: h.State, Platform: string(h.Platform), UserID: h.UserID})
	if err != nil {
		return err
	}
	if err := s.cache.Set(ctx, keyPrefix+token, string(b), s.opts.TTL); err != nil {
		return fmt.Errorf("handshake: store: %w", err)
	}
	http.SetCookie(w, buildCookie(CookieHandshake, token, s.opts))
	return nil
}

func (s *ServerStore) Load(ctx context.Context, r *http.Request) (Handshake, error) {
	token := cookieValue(r, CookieHandshake)
	if token == "" {
		return Handshake{}, ErrNotFound
	}
	raw, err := s.cache.Get(ctx, keyPrefix+token)
	if errors.Is(err, cache.ErrNotFound) {
		return Handshake{}, ErrNotFound
	}
	if err != nil {
		return Handshake{}, fmt.Errorf("handshake: load: %w", err)
	}
	return decodeRecord(raw)
}

func decodeRecord(raw string) (Handshake, error) {
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return Handshake{}, ErrNotFound
	}
	h := Handshake{State: rec.State, Platform: providers.Platform(rec.Platform), UserID: rec.UserID}
	if h.State == "" || h.Platform == "" || h.UserID == "" {
		return Handshake{}, ErrNotFound
	}
	return h, nil
}

// Consume usa Take: de dos callbacks concurrentes con la misma cookie solo
// uno obtiene el handshake.
func (s *ServerStore) Consume(ctx context.Context, w http.ResponseWriter, r *http.Request) (Handshake, error) {
	http.SetCookie(w, deletionCookie(CookieHandshake, s.opts))
	token := cookieValue(r, CookieHandshake)
	if token == "" {
		return Handshake{}, ErrNotFound
	}
	raw, err := s.cache.Take(ctx, keyPrefix+token)
	if errors.Is(err, cache.ErrNotFound) {
		return Handshake{}, ErrNotFound
	}
	if err != nil {
		return Handshake{}, fmt.Errorf("handshake: consume: %w", err)
	}
	return decodeRecord(raw)
}

// Clear consume la entrada (Take) y expira la cookie.
func (s *ServerStore) Clear(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, deletionCookie(CookieHandshake, s.opts))
	token := cookieValue(r, CookieHandshake)
	if token == "" {
		return nil
	}
	if _, err := s.cache.Take(ctx, keyPrefix+token); err != nil && !errors.Is(err, cache.ErrNotFound) {
		return fmt.Errorf("handshake: clear: %w", err)
	}
	return nil
}
