package handshake

import (
	"context"
	"net/http"

	"github.com/JackVitick/Socialync/internal/providers"
)

const (
	CookieState    = "oauth_state"
	CookiePlatform = "platform"
	CookieUserID   = "user_id"
)

// CookieStore guarda el handshake en tres cookies del browser.
type CookieStore struct {
	opts Options
}

func NewCookieStore(opts Options) *CookieStore {
	return &CookieStore{opts: opts.withDefaults()}
}

func (s *CookieStore) Save(_ context.Context, w http.ResponseWriter, _ *http.Request, h Handshake) error {
	http.SetCookie(w, buildCookie(CookieState, h.State, s.opts))
	http.SetCookie(w, buildCookie(CookiePlatform, string(h.Platform), s.opts))
	http.SetCookie(w, buildCookie(CookieUserID, h.UserID, s.opts))
	return nil
}

func (s *CookieStore) Load(_ context.Context, r *http.Request) (Handshake, error) {
	h := Handshake{
		State:    cookieValue(r, CookieState),
		Platform: providers.Platform(cookieValue(r, CookiePlatform)),
		UserID:   cookieValue(r, CookieUserID),
	}
	if h.State == "" || h.Platform == "" || h.UserID == "" {
		return Handshake{}, ErrNotFound
	}
	return h, nil
}

func (s *CookieStore) Consume(ctx context.Context, w http.ResponseWriter, r *http.Request) (Handshake, error) {
	h, err := s.Load(ctx, r)
	_ = s.Clear(ctx, w, r)
	return h, err
}

// Clear expira las tres cookies por separado.
func (s *CookieStore) Clear(_ context.Context, w http.ResponseWriter, _ *http.Request) error {
	for _, name := range []string{CookieState, CookiePlatform, CookieUserID} {
		http.SetCookie(w, deletionCookie(name, s.opts))
	}
	return nil
}
