package handshake

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JackVitick/Socialync/internal/cache"
)

// ErrStateReplayed: el state ya fue usado por otro callback.
var ErrStateReplayed = errors.New("handshake: state already used")

const usedPrefix = "state-used:"

// ReplayGuard recuerda los jti de states consumidos hasta que vencen.
// En modo cookie es lo único que impide reusar cookies copiadas antes del clear.
type ReplayGuard struct {
	cache cache.Client
	now   func() time.Time
}

func NewReplayGuard(c cache.Client) *ReplayGuard {
	return &ReplayGuard{cache: c, now: time.Now}
}

// Claim marca el ticket como usado. Devuelve ErrStateReplayed si ya lo estaba.
func (g *ReplayGuard) Claim(ctx context.Context, t Ticket) error {
	if t.ID == "" {
		return ErrStateInvalid
	}
	ttl := t.ExpiresAt.Sub(g.now())
	if ttl <= 0 {
		return ErrStateExpired
	}
	ok, err := g.cache.SetNX(ctx, usedPrefix+t.ID, "1", ttl)
	if err != nil {
		return fmt.Errorf("handshake: replay guard: %w", err)
	}
	if !ok {
		return ErrStateReplayed
	}
	return nil
}
