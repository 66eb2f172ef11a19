package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JackVitick/Socialync/internal/cache"
)

func TestFixedWindow_BlocksAfterMax(t *testing.T) {
	l := NewFixedWindow(cache.NewMemory(""), "auth:", 2, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.True(t, res.Allowed)
	}
	res, err := l.Allow(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.False(t, res.Allowed)
	assert.EqualValues(t, 0, res.Remaining)
	assert.EqualValues(t, 3, res.CurrentHits)
	assert.Greater(t, res.RetryAfter, time.Duration(0))

	other, err := l.Allow(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.True(t, other.Allowed, "keys are independent")
}

func TestFixedWindow_NewWindowResets(t *testing.T) {
	l := NewFixedWindow(cache.NewMemory(""), "", 1, time.Minute)
	now := time.Date(2024, 1, 1, 10, 0, 30, 0, time.UTC)
	l.now = func() time.Time { return now }
	ctx := context.Background()

	res, _ := l.Allow(ctx, "k")
	assert.True(t, res.Allowed)
	res, _ = l.Allow(ctx, "k")
	assert.False(t, res.Allowed)

	now = now.Add(time.Minute)
	res, err := l.Allow(ctx, "k")
	require.NoError(t, err)
	assert.True(t, res.Allowed)
}
