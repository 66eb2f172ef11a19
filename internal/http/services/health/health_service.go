// Package health contiene el service de /readyz y /api/info.
package health

import (
	"context"
	"fmt"
	"sort"
	"time"

	dto "github.com/JackVitick/Socialync/internal/http/dto/health"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/providers"
)

// Pinger es cualquier dependencia que sabe responder un ping.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ProviderLister expone la tabla de plataformas.
type ProviderLister interface {
	List() []providers.ProviderConfig
}

type Deps struct {
	// Components críticos: si alguno falla, /readyz responde unavailable.
	Components map[string]Pinger
	Providers  ProviderLister

	AppURL        string
	Env           string
	Version       string
	HandshakeMode string
	Resolvers     []string

	PingTimeout time.Duration
	Now         func() time.Time
}

type Service struct {
	deps Deps
}

func NewService(d Deps) *Service {
	if d.PingTimeout <= 0 {
		d.PingTimeout = 2 * time.Second
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return &Service{deps: d}
}

// Check hace ping a cada componente.
func (s *Service) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("health"), logger.Op("Check"))

	resp := dto.HealthResponse{
		Status:     "ready",
		Version:    s.deps.Version,
		Components: make(map[string]dto.HealthStatus, len(s.deps.Components)),
		Timestamp:  s.deps.Now().UTC(),
	}

	names := make([]string, 0, len(s.deps.Components))
	for name := range s.deps.Components {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		pctx, cancel := context.WithTimeout(ctx, s.deps.PingTimeout)
		err := s.deps.Components[name].Ping(pctx)
		cancel()
		if err != nil {
			resp.Components[name] = dto.HealthStatus{Status: "error", Message: fmt.Sprintf("unavailable: %v", err)}
			resp.Status = "unavailable"
			log.Error("component unavailable", logger.String("component_name", name), logger.Err(err))
			continue
		}
		resp.Components[name] = dto.HealthStatus{Status: "ok"}
	}
	return resp
}

// Info resume la configuración visible: solo presencia de credenciales.
func (s *Service) Info(_ context.Context) dto.InfoResponse {
	platforms := map[string]dto.PlatformCredentials{}
	if s.deps.Providers != nil {
		for _, c := range s.deps.Providers.List() {
			platforms[string(c.Platform)] = dto.PlatformCredentials{
				ClientID:     c.ClientID != "",
				ClientSecret: c.ClientSecret != "",
				RedirectURI:  c.RedirectURI,
			}
		}
	}
	return dto.InfoResponse{
		Message: "API is functioning properly",
		Env: dto.InfoEnv{
			AppURL:        s.deps.AppURL,
			Env:           s.deps.Env,
			HandshakeMode: s.deps.HandshakeMode,
			Resolvers:     s.deps.Resolvers,
			Platforms:     platforms,
		},
		ServerTime: s.deps.Now().UTC(),
	}
}
