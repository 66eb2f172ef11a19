package connect

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/oauth"
	"github.com/JackVitick/Socialync/internal/providers"
)

func fakeGraph(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/access_token", func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "fb_exchange_token", q.Get("grant_type"))
		assert.Equal(t, "fb-id", q.Get("client_id"))
		assert.Equal(t, "fb-secret", q.Get("client_secret"))
		if q.Get("fb_exchange_token") != "short" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid OAuth access token"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"access_token": "long", "token_type": "bearer", "expires_in": 5184000})
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		assert.Equal(t, "id,name", r.URL.Query().Get("fields"))
		assert.Equal(t, "long", r.URL.Query().Get("access_token"))
		_, _ = w.Write([]byte(`{"id":"fb-user-1","name":"Ada"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func newFacebookService(t *testing.T, env map[string]string, store connections.Store, graph string) *FacebookTokenService {
	client := oauth.NewClient(2 * time.Second)
	return NewFacebookTokenService(FacebookDeps{
		Registry:    testRegistry(t, env),
		Exchanger:   client,
		Profiles:    client,
		Connections: store,
		ExchangeURL: graph + "/oauth/access_token",
		ProfileURL:  graph + "/me?fields=id,name",
		Now:         func() time.Time { return time.UnixMilli(1_000) },
	})
}

func TestFacebookToken_Success(t *testing.T) {
	graph := fakeGraph(t)
	store := connections.NewMemoryStore()
	svc := newFacebookService(t, allCreds, store, graph.URL)

	err := svc.Exchange(context.Background(), FacebookTokenRequest{UserID: "u1", AccessToken: "short", FacebookUserID: "fb-user-1"})
	require.NoError(t, err)

	c, err := store.Get(context.Background(), "u1", providers.Facebook)
	require.NoError(t, err)
	assert.Equal(t, "long", c.AccessToken)
	assert.Empty(t, c.RefreshToken)
	assert.Equal(t, "fb-user-1", c.ProfileID)
	assert.Equal(t, "Ada", c.ProfileName)
	require.NotNil(t, c.ExpiresAt)
	assert.Equal(t, int64(1_000+5184000*1000), *c.ExpiresAt)
}

func TestFacebookToken_Errors(t *testing.T) {
	graph := fakeGraph(t)
	ctx := context.Background()
	store := connections.NewMemoryStore()

	svc := newFacebookService(t, allCreds, store, graph.URL)
	assert.ErrorIs(t, svc.Exchange(ctx, FacebookTokenRequest{AccessToken: "short", FacebookUserID: "x"}), ErrUnauthenticated)
	assert.ErrorIs(t, svc.Exchange(ctx, FacebookTokenRequest{UserID: "u1", FacebookUserID: "x"}), ErrFacebookMissingFields)
	assert.ErrorIs(t, svc.Exchange(ctx, FacebookTokenRequest{UserID: "u1", AccessToken: "short"}), ErrFacebookMissingFields)

	err := svc.Exchange(ctx, FacebookTokenRequest{UserID: "u1", AccessToken: "bad", FacebookUserID: "x"})
	assert.ErrorIs(t, err, ErrFacebookExchange)
	var te *oauth.TokenExchangeError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, http.StatusBadRequest, te.StatusCode)

	noCreds := newFacebookService(t, map[string]string{}, store, graph.URL)
	assert.ErrorIs(t, noCreds.Exchange(ctx, FacebookTokenRequest{UserID: "u1", AccessToken: "short", FacebookUserID: "x"}), ErrMissingCredentials)

	ok, err := connections.IsConnected(ctx, store, "u1", providers.Facebook)
	require.NoError(t, err)
	assert.False(t, ok)
}
