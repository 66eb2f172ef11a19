package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/JackVitick/Socialync/internal/http/dto/health"
	svc "github.com/JackVitick/Socialync/internal/http/services/health"
	"github.com/JackVitick/Socialync/internal/providers"
)

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

type lister []providers.ProviderConfig

func (l lister) List() []providers.ProviderConfig { return l }

func TestReadyz(t *testing.T) {
	ok := NewHealthController(svc.NewService(svc.Deps{Components: map[string]svc.Pinger{"store": pinger{}}}))
	w := httptest.NewRecorder()
	ok.Readyz(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	down := NewHealthController(svc.NewService(svc.Deps{Components: map[string]svc.Pinger{
		"store": pinger{},
		"cache": pinger{err: errors.New("dial tcp: refused")},
	}}))
	w = httptest.NewRecorder()
	down.Readyz(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp dto.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "error", resp.Components["cache"].Status)
	assert.Equal(t, "ok", resp.Components["store"].Status)
}

func TestInfo_NeverLeaksSecrets(t *testing.T) {
	c := NewHealthController(svc.NewService(svc.Deps{
		Providers: lister{{Platform: providers.TikTok, ClientID: "tk-id", ClientSecret: "tk-secret", RedirectURI: "https://app.test/api/auth/tiktok/callback"}},
		AppURL:    "https://app.test",
		Env:       "dev",
	}))
	w := httptest.NewRecorder()
	c.Info(w, httptest.NewRequest(http.MethodGet, "/api/info", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "tk-secret")
	assert.NotContains(t, w.Body.String(), "tk-id")

	var resp dto.InfoResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "API is functioning properly", resp.Message)
	assert.True(t, resp.Env.Platforms["tiktok"].ClientSecret)
}
