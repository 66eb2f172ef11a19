package health

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JackVitick/Socialync/internal/providers"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheck(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	s := NewService(Deps{Components: map[string]Pinger{"connections": ok}})
	resp := s.Check(context.Background())
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "ok", resp.Components["connections"].Status)

	s = NewService(Deps{Components: map[string]Pinger{"connections": ok, "cache": down}})
	resp = s.Check(context.Background())
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, "error", resp.Components["cache"].Status)
	assert.Contains(t, resp.Components["cache"].Message, "connection refused")
}

func TestInfo_NeverLeaksSecrets(t *testing.T) {
	reg, err := providers.Load("https://app.example.com", func(k string) string {
		if k == "TWITTER_API_KEY" || k == "TWITTER_API_SECRET_KEY" {
			return "super-secret-" + k
		}
		return ""
	})
	require.NoError(t, err)

	now := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewService(Deps{Providers: reg, AppURL: "https://app.example.com", Env: "dev", Now: func() time.Time { return now }})
	info := s.Info(context.Background())

	require.Len(t, info.Env.Platforms, 5)
	assert.True(t, info.Env.Platforms["twitter"].ClientID)
	assert.True(t, info.Env.Platforms["twitter"].ClientSecret)
	assert.False(t, info.Env.Platforms["tiktok"].ClientID)
	assert.Equal(t, "https://app.example.com/auth/youtube/callback", info.Env.Platforms["youtube"].RedirectURI)
	assert.Equal(t, now, info.ServerTime)

	b, err := json.Marshal(info)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "super-secret")
}
