// Package rate implementa un rate limiter fixed-window sobre un contador con TTL.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	WindowTTL   time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// Counter es la parte de cache.Client que usa el limiter.
type Counter interface {
	Incr(ctx context.Context, key string, ttl time.Duration) (int64, time.Duration, error)
}

// FixedWindow: una key por (key, inicio de ventana), INCR con TTL = ventana.
type FixedWindow struct {
	counter Counter
	prefix  string
	max     int64
	window  time.Duration
	now     func() time.Time
}

func NewFixedWindow(c Counter, prefix string, max int, window time.Duration) *FixedWindow {
	if prefix == "" {
		prefix = "rl:"
	}
	if window <= 0 {
		window = time.Minute
	}
	return &FixedWindow{counter: c, prefix: prefix, max: int64(max), window: window, now: time.Now}
}

func (l *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	winStart := l.now().UTC().Truncate(l.window)
	k := fmt.Sprintf("%s%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	hits, ttl, err := l.counter.Incr(ctx, k, l.window)
	if err != nil {
		return Result{}, err
	}

	remaining := l.max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= l.max,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   ttl,
	}
	if !res.Allowed {
		// resto de la ventana
		res.RetryAfter = ttl
		if res.RetryAfter <= 0 {
			res.RetryAfter = l.window
		}
	}
	return res, nil
}
