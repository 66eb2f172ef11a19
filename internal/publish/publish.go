// Package publish despacha una publicación a las plataformas conectadas.
//
// El publisher incluido es un stub: compone el texto final y reporta éxito
// sin llamar a ninguna API. Las integraciones reales implementan Publisher.
package publish

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/metrics"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/providers"
)

// Content es lo que el usuario compone.
type Content struct {
	Text      string
	MediaURLs []string
	Hashtags  []string
}

// FullText es el texto seguido de los hashtags separados por espacio.
func (c Content) FullText() string {
	tags := strings.Join(c.Hashtags, " ")
	if tags == "" {
		return c.Text
	}
	return c.Text + " " + tags
}

// Result es el resultado por plataforma.
type Result struct {
	Success bool
	PostID  string
	Error   string
}

// Publisher publica en una plataforma usando la conexión guardada.
type Publisher interface {
	Publish(ctx context.Context, conn connections.Connection, content Content) (Result, error)
}

// StubPublisher no llama a ningún proveedor.
type StubPublisher struct {
	Now func() time.Time
}

func (s StubPublisher) Publish(ctx context.Context, conn connections.Connection, content Content) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	text := content.FullText()
	logger.From(ctx).Info("stub publish",
		logger.Component("publish"),
		logger.Platform(string(conn.Platform)),
		logger.ProviderUserID(conn.ProfileID),
		logger.Int("text_len", len(text)),
		logger.Int("media_count", len(content.MediaURLs)),
	)
	return Result{
		Success: true,
		PostID:  fmt.Sprintf("stub-%s-%d", conn.Platform, now().UnixNano()),
	}, nil
}

// Dispatcher reparte una publicación entre plataformas en paralelo.
type Dispatcher struct {
	publishers map[providers.Platform]Publisher
	fallback   Publisher
	limit      int
}

// NewDispatcher usa fallback para plataformas sin publisher propio.
func NewDispatcher(fallback Publisher, per map[providers.Platform]Publisher) *Dispatcher {
	if fallback == nil {
		fallback = StubPublisher{}
	}
	return &Dispatcher{publishers: per, fallback: fallback, limit: len(providers.All)}
}

// Dispatch publica en cada conexión. Una falla en una plataforma no cancela
// las demás: cada una reporta su propio Result.
func (d *Dispatcher) Dispatch(ctx context.Context, conns []connections.Connection, content Content) map[providers.Platform]Result {
	results := make([]Result, len(conns))

	var g errgroup.Group
	g.SetLimit(d.limit)
	for i, c := range conns {
		i, c := i, c
		g.Go(func() error {
			res, err := d.publisherFor(c.Platform).Publish(ctx, c, content)
			if err != nil {
				res = Result{Success: false, Error: err.Error()}
			}
			outcome := "success"
			if !res.Success {
				outcome = "failure"
			}
			metrics.PostDispatchTotal.WithLabelValues(string(c.Platform), outcome).Inc()
			results[i] = res
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[providers.Platform]Result, len(conns))
	for i, c := range conns {
		out[c.Platform] = results[i]
	}
	return out
}

func (d *Dispatcher) publisherFor(p providers.Platform) Publisher {
	if pub, ok := d.publishers[p]; ok && pub != nil {
		return pub
	}
	return d.fallback
}
