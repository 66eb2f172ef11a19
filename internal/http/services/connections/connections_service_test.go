package connections

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	store "github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/providers"
)

func TestListAndDisconnect(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.Save(ctx, "u1", providers.Twitter, store.Input{AccessToken: "a", ProfileID: "t1"}))
	require.NoError(t, mem.Save(ctx, "u1", providers.Facebook, store.Input{AccessToken: "b", ProfileID: "f1"}))
	require.NoError(t, mem.Save(ctx, "u2", providers.Facebook, store.Input{AccessToken: "c", ProfileID: "f2"}))

	svc := NewService(mem)
	list, err := svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, svc.Disconnect(ctx, "u1", "twitter"))
	require.NoError(t, svc.Disconnect(ctx, "u1", "twitter"), "idempotent")

	var unknown *providers.UnknownPlatformError
	assert.ErrorAs(t, svc.Disconnect(ctx, "u1", "myspace"), &unknown)

	list, err = svc.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, providers.Facebook, list[0].Platform)

	other, err := svc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Len(t, other, 1)
}
