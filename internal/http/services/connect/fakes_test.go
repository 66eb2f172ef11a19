package connect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/JackVitick/Socialync/internal/cache"
	"github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/handshake"
	"github.com/JackVitick/Socialync/internal/oauth"
	"github.com/JackVitick/Socialync/internal/providers"
)

const testBase = "https://app.example.com"

var testPages = Pages{BaseURL: testBase, Connections: "/connections", Login: "/login"}

var allCreds = map[string]string{
	"FACEBOOK_APP_ID": "fb-id", "FACEBOOK_APP_SECRET": "fb-secret",
	"INSTAGRAM_APP_ID": "ig-id", "INSTAGRAM_APP_SECRET": "ig-secret",
	"TWITTER_API_KEY": "tw-id", "TWITTER_API_SECRET_KEY": "tw-secret",
	"TIKTOK_API_KEY": "tt-id", "TIKTOK_APP_SECRET": "tt-secret",
	"YOUTUBE_CLIENT_ID": "yt-id", "YOUTUBE_CLIENT_SECRET": "yt-secret",
}

func testRegistry(t *testing.T, env map[string]string) *providers.Registry {
	t.Helper()
	reg, err := providers.Load(testBase, func(k string) string { return env[k] })
	require.NoError(t, err)
	return reg
}

func testSigner(t *testing.T) *handshake.StateSigner {
	t.Helper()
	s, err := handshake.NewStateSigner([]byte("test-signing-key-0123456789"), time.Minute)
	require.NoError(t, err)
	return s
}

type fakeExchanger struct {
	calls  int
	tokens *oauth.TokenSet
	err    error
	during func()
}

func (f *fakeExchanger) Exchange(_ context.Context, _ providers.ProviderConfig, code string) (*oauth.TokenSet, error) {
	f.calls++
	if f.during != nil {
		f.during()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.tokens, nil
}

type fakeProfiles struct {
	calls   int
	profile *oauth.ProfileIdentity
	err     error
}

func (f *fakeProfiles) FetchProfile(_ context.Context, _ providers.ProviderConfig, _ string) (*oauth.ProfileIdentity, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

// failingStore falla en Save.
type failingStore struct {
	connections.Store
	err error
}

func (f failingStore) Save(context.Context, string, providers.Platform, connections.Input) error {
	return f.err
}

// countingStore cuenta Saves sobre un MemoryStore.
type countingStore struct {
	*connections.MemoryStore
	saves int
}

func (c *countingStore) Save(ctx context.Context, userID string, p providers.Platform, in connections.Input) error {
	c.saves++
	return c.MemoryStore.Save(ctx, userID, p, in)
}

type harness struct {
	svc      *CallbackService
	ex       *fakeExchanger
	prof     *fakeProfiles
	store    *countingStore
	signer   *handshake.StateSigner
	captured time.Time
}

func newHarness(t *testing.T, env map[string]string) *harness {
	t.Helper()
	h := &harness{
		ex:       &fakeExchanger{tokens: &oauth.TokenSet{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 3600}},
		prof:     &fakeProfiles{profile: &oauth.ProfileIdentity{ID: "p1", Name: "Page"}},
		store:    &countingStore{MemoryStore: connections.NewMemoryStore()},
		signer:   testSigner(t),
		captured: time.UnixMilli(1_700_000_000_000),
	}
	h.svc = NewCallbackService(CallbackDeps{
		Registry:    testRegistry(t, env),
		Exchanger:   h.ex,
		Profiles:    h.prof,
		Connections: h.store,
		Signer:      h.signer,
		Replay:      handshake.NewReplayGuard(cache.NewMemory("")),
		Pages:       testPages,
		Now:         func() time.Time { return h.captured },
	})
	return h
}

// validRequest emite un state real y arma el callback que llegaría con él.
func (h *harness) validRequest(t *testing.T, p providers.Platform, userID string) CallbackRequest {
	t.Helper()
	st, err := h.signer.Issue(p, userID)
	require.NoError(t, err)
	return CallbackRequest{
		Platform:  string(p),
		Code:      "code-123",
		State:     st,
		Handshake: handshake.Handshake{State: st, Platform: p, UserID: userID},
	}
}

var errBoom = errors.New("boom")
