package connections

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	store "github.com/JackVitick/Socialync/internal/connections"
	dto "github.com/JackVitick/Socialync/internal/http/dto/connections"
	mw "github.com/JackVitick/Socialync/internal/http/middlewares"
	svc "github.com/JackVitick/Socialync/internal/http/services/connections"
	"github.com/JackVitick/Socialync/internal/identity"
	"github.com/JackVitick/Socialync/internal/providers"
)

func newRouter(t *testing.T, userID string) (http.Handler, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.Save(context.Background(), "u1", providers.YouTube, store.Input{
		AccessToken: "secret-access", RefreshToken: "secret-refresh", ProfileID: "chan-1", ProfileName: "Chan",
	}))

	ctrl := NewConnectionsController(svc.NewService(mem))
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if userID != "" {
				req = req.WithContext(mw.WithIdentityResult(req.Context(), identity.Result{UserID: userID}))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Get("/api/connections", ctrl.List)
	r.Delete("/api/connections/{platform}", ctrl.Delete)
	return r, mem
}

func TestList_HidesTokens(t *testing.T) {
	h, _ := newRouter(t, "u1")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/connections", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "secret-")

	var resp dto.ListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Connections, 1)
	assert.Equal(t, "youtube", resp.Connections[0].Platform)
	assert.True(t, resp.Connections[0].HasRefresh)
	assert.Equal(t, "chan-1", resp.Connections[0].ProfileID)
}

func TestList_EmptyIsArray(t *testing.T) {
	h, _ := newRouter(t, "nobody")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/connections", nil))
	assert.JSONEq(t, `{"connections":[]}`, w.Body.String())
}

func TestDelete(t *testing.T) {
	h, mem := newRouter(t, "u1")

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/connections/youtube", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	ok, err := store.IsConnected(context.Background(), mem, "u1", providers.YouTube)
	require.NoError(t, err)
	assert.False(t, ok)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/connections/YouTube", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UNKNOWN_PLATFORM")
}

func TestUnauthenticated(t *testing.T) {
	h, _ := newRouter(t, "")
	for _, req := range []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/connections", nil),
		httptest.NewRequest(http.MethodDelete, "/api/connections/youtube", nil),
	} {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}
