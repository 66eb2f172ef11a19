package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JackVitick/Socialync/internal/identity"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("APP_URL", "https://app.test")
	t.Setenv("STORAGE_DRIVER", "memory")

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, "--env-file", t.TempDir()+"/missing.env"))
	err := cmd.Execute()
	return out.String(), err
}

func TestProvidersCmd(t *testing.T) {
	t.Setenv("YOUTUBE_CLIENT_ID", "yt-id")
	t.Setenv("YOUTUBE_CLIENT_SECRET", "yt-secret")

	out, err := run(t, "providers")
	require.NoError(t, err)
	assert.Contains(t, out, "https://app.test/auth/youtube/callback")
	for _, line := range strings.Split(out, "\n") {
		if strings.HasPrefix(line, "youtube") {
			assert.Contains(t, line, " ok ")
		}
	}
	assert.NotContains(t, out, "yt-secret")
}

func TestSessionIssueCmd(t *testing.T) {
	key := "0123456789abcdef0123456789abcdef"
	t.Setenv("SESSION_SIGNING_KEY", key)

	out, err := run(t, "session", "issue", "--user", "u-9")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "session="))

	raw := strings.TrimSpace(strings.TrimPrefix(out, "session="))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: raw})
	sub, ok := identity.NewSessionResolver("session", []byte(key)).Resolve(req)
	require.True(t, ok)
	assert.Equal(t, "u-9", sub)
}

func TestSessionIssueCmd_RequiresKey(t *testing.T) {
	t.Setenv("SESSION_SIGNING_KEY", "")
	_, err := run(t, "session", "issue", "--user", "u-9")
	assert.Error(t, err)
}

func TestConnectionsCmd(t *testing.T) {
	out, err := run(t, "connections", "list", "--user", "u1")
	require.NoError(t, err)
	assert.Contains(t, out, "PLATFORM")

	_, err = run(t, "connections", "delete", "--user", "u1", "--platform", "myspace")
	assert.Error(t, err)

	_, err = run(t, "connections", "list")
	assert.Error(t, err)
}

func TestMigrateCmd_RequiresPostgres(t *testing.T) {
	_, err := run(t, "migrate")
	assert.ErrorContains(t, err, "postgres")
}
