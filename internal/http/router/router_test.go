package router

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JackVitick/Socialync/internal/cache"
	"github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/handshake"
	connectctrl "github.com/JackVitick/Socialync/internal/http/controllers/connect"
	connectionsctrl "github.com/JackVitick/Socialync/internal/http/controllers/connections"
	healthctrl "github.com/JackVitick/Socialync/internal/http/controllers/health"
	socialctrl "github.com/JackVitick/Socialync/internal/http/controllers/social"
	connectsvc "github.com/JackVitick/Socialync/internal/http/services/connect"
	connectionssvc "github.com/JackVitick/Socialync/internal/http/services/connections"
	healthsvc "github.com/JackVitick/Socialync/internal/http/services/health"
	socialsvc "github.com/JackVitick/Socialync/internal/http/services/social"
	"github.com/JackVitick/Socialync/internal/identity"
	"github.com/JackVitick/Socialync/internal/oauth"
	"github.com/JackVitick/Socialync/internal/providers"
	"github.com/JackVitick/Socialync/internal/publish"
)

const appURL = "https://app.test"

var sessionKey = []byte("0123456789abcdef0123456789abcdef")

type app struct {
	handler http.Handler
	store   *connections.MemoryStore
	fbCalls map[string]int
}

// fakeGraph simula los endpoints de Facebook usados por el callback y el canje SDK.
func fakeGraph(t *testing.T, calls map[string]int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.URL.Query().Get("grant_type") == "fb_exchange_token" {
			calls["long_lived"]++
			_, _ = w.Write([]byte(`{"access_token":"fb-long-lived","token_type":"bearer","expires_in":5183944}`))
			return
		}
		calls["token"]++
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		assert.Equal(t, "fb-secret", r.PostForm.Get("client_secret"))
		_, _ = w.Write([]byte(`{"access_token":"fb-access","token_type":"bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		calls["me"]++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"fb-user-1","name":"Ana Page"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newApp(t *testing.T) *app {
	t.Helper()
	calls := map[string]int{}
	graph := fakeGraph(t, calls)

	cfgs := providers.Catalog(appURL)
	for i := range cfgs {
		cfgs[i].ClientID = string(cfgs[i].Platform) + "-id"
		cfgs[i].ClientSecret = string(cfgs[i].Platform) + "-secret"
		if cfgs[i].Platform == providers.Facebook {
			cfgs[i].ClientSecret = "fb-secret"
			cfgs[i].TokenURL = graph.URL + "/oauth/access_token"
			cfgs[i].ProfileURL = graph.URL + "/me?fields=id,name"
		}
	}
	reg, err := providers.New(cfgs...)
	require.NoError(t, err)

	store := connections.NewMemoryStore()
	mem := cache.NewMemory("test")
	signer, err := handshake.NewStateSigner(handshake.DeriveStateKey(sessionKey), 0)
	require.NoError(t, err)
	pages := connectsvc.Pages{BaseURL: appURL, Connections: "/connections", Login: "/login"}

	services := connectsvc.NewServices(connectsvc.Deps{
		Registry:            reg,
		OAuth:               oauth.NewClient(5 * time.Second),
		Connections:         store,
		Signer:              signer,
		Replay:              handshake.NewReplayGuard(mem),
		Pages:               pages,
		ProviderTimeout:     5 * time.Second,
		FacebookExchangeURL: graph.URL + "/oauth/access_token",
		FacebookProfileURL:  graph.URL + "/me?fields=id,name",
	})
	chain, err := identity.Build([]string{"session"}, identity.Options{SessionCookie: "session", SessionKey: sessionKey})
	require.NoError(t, err)

	h := New(Deps{
		Connect:     connectctrl.NewControllers(services, handshake.NewCookieStore(handshake.Options{}), pages),
		Connections: connectionsctrl.NewConnectionsController(connectionssvc.NewService(store)),
		Social:      socialctrl.NewPostController(socialsvc.NewPostService(store, publish.NewDispatcher(nil, nil))),
		Health: healthctrl.NewHealthController(healthsvc.NewService(healthsvc.Deps{
			Components: map[string]healthsvc.Pinger{"connections": store},
			Providers:  reg,
			AppURL:     appURL,
		})),
		Identity: chain,
		Metrics:  promhttp.Handler(),
	})
	return &app{handler: h, store: store, fbCalls: calls}
}

func (a *app) do(t *testing.T, r *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, r)
	return w
}

func session(t *testing.T, userID string) *http.Cookie {
	t.Helper()
	raw, err := identity.SignSession(sessionKey, userID, time.Hour)
	require.NoError(t, err)
	return &http.Cookie{Name: "session", Value: raw}
}

func TestFacebookConnectFlow(t *testing.T) {
	a := newApp(t)

	// 1. inicio
	r := httptest.NewRequest(http.MethodGet, "/auth/facebook", nil)
	r.AddCookie(session(t, "user-42"))
	w := a.do(t, r)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

	loc, err := url.Parse(w.Header().Get("Location"))
	require.NoError(t, err)
	assert.Equal(t, "www.facebook.com", loc.Host)
	assert.Equal(t, "facebook-id", loc.Query().Get("client_id"))
	assert.Equal(t, appURL+"/auth/facebook/callback", loc.Query().Get("redirect_uri"))
	assert.Equal(t, "code", loc.Query().Get("response_type"))
	state := loc.Query().Get("state")
	require.NotEmpty(t, state)

	handshakeCookies := w.Result().Cookies()
	require.Len(t, handshakeCookies, 3)

	// 2. callback
	callback := func() *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/auth/facebook/callback?code=the-code&state="+url.QueryEscape(state), nil)
		for _, c := range handshakeCookies {
			r.AddCookie(c)
		}
		return a.do(t, r)
	}
	w = callback()
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, appURL+"/connections?success=facebook_connected", w.Header().Get("Location"))
	for _, c := range w.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge, "cookie %s must be cleared", c.Name)
	}

	conn, err := a.store.Get(context.Background(), "user-42", providers.Facebook)
	require.NoError(t, err)
	assert.Equal(t, "fb-access", conn.AccessToken)
	assert.Equal(t, "fb-user-1", conn.ProfileID)
	assert.Equal(t, "Ana Page", conn.ProfileName)
	require.NotNil(t, conn.ExpiresAt)

	// 3. reenviar las mismas cookies no vuelve a canjear el code
	w = callback()
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, appURL+"/connections?error=invalid_oauth_state", w.Header().Get("Location"))
	assert.Equal(t, 1, a.fbCalls["token"])

	// 4. la conexión aparece en la API, sin tokens
	r = httptest.NewRequest(http.MethodGet, "/api/connections", nil)
	r.AddCookie(session(t, "user-42"))
	w = a.do(t, r)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "fb-access")
	assert.Contains(t, w.Body.String(), `"platform":"facebook"`)
}

func TestCallback_UnknownPlatformRedirects(t *testing.T) {
	a := newApp(t)
	w := a.do(t, httptest.NewRequest(http.MethodGet, "/auth/myspace/callback?code=x&state=y", nil))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, appURL+"/connections?error=invalid_platform", w.Header().Get("Location"))
}

func TestStart_Anonymous(t *testing.T) {
	a := newApp(t)

	w := a.do(t, httptest.NewRequest(http.MethodGet, "/auth/twitter", nil))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, appURL+"/login", w.Header().Get("Location"))
	assert.Empty(t, w.Result().Cookies())

	w = a.do(t, httptest.NewRequest(http.MethodGet, "/auth/Twitter", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFacebookSDKToken(t *testing.T) {
	a := newApp(t)

	r := httptest.NewRequest(http.MethodPost, "/api/auth/facebook/token", strings.NewReader(`{"accessToken":"short","userID":"fb-user-1"}`))
	r.Header.Set("Content-Type", "application/json")
	r.AddCookie(session(t, "user-7"))
	w := a.do(t, r)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"success":true,"message":"Facebook account connected successfully"}`, w.Body.String())

	conn, err := a.store.Get(context.Background(), "user-7", providers.Facebook)
	require.NoError(t, err)
	assert.Equal(t, "fb-long-lived", conn.AccessToken)
	assert.Empty(t, conn.RefreshToken)
	assert.Equal(t, 1, a.fbCalls["long_lived"])
}

func TestAPI_RequiresUser(t *testing.T) {
	a := newApp(t)
	for _, r := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/connections", nil),
		httptest.NewRequest(http.MethodDelete, "/api/connections/facebook", nil),
		httptest.NewRequest(http.MethodPost, "/api/social/post", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodPost, "/api/auth/facebook/token", strings.NewReader(`{}`)),
	} {
		w := a.do(t, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code, r.URL.Path)
	}
}

func TestPublicEndpoints(t *testing.T) {
	a := newApp(t)

	w := a.do(t, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, httptest.NewRequest(http.MethodGet, "/api/info", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var info struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "API is functioning properly", info.Message)
	assert.NotContains(t, w.Body.String(), "fb-secret")

	w = a.do(t, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, httptest.NewRequest(http.MethodGet, "/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ROUTE_NOT_FOUND")

	w = a.do(t, httptest.NewRequest(http.MethodPost, "/readyz", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
