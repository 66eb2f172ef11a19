// Package server arma el handler HTTP de socialsync a partir de la configuración
// y corre el http.Server con apagado ordenado.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JackVitick/Socialync/internal/cache"
	"github.com/JackVitick/Socialync/internal/config"
	"github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/connections/pg"
	"github.com/JackVitick/Socialync/internal/handshake"
	connectctrl "github.com/JackVitick/Socialync/internal/http/controllers/connect"
	connectionsctrl "github.com/JackVitick/Socialync/internal/http/controllers/connections"
	healthctrl "github.com/JackVitick/Socialync/internal/http/controllers/health"
	socialctrl "github.com/JackVitick/Socialync/internal/http/controllers/social"
	mw "github.com/JackVitick/Socialync/internal/http/middlewares"
	"github.com/JackVitick/Socialync/internal/http/router"
	connectsvc "github.com/JackVitick/Socialync/internal/http/services/connect"
	connectionssvc "github.com/JackVitick/Socialync/internal/http/services/connections"
	healthsvc "github.com/JackVitick/Socialync/internal/http/services/health"
	socialsvc "github.com/JackVitick/Socialync/internal/http/services/social"
	"github.com/JackVitick/Socialync/internal/identity"
	"github.com/JackVitick/Socialync/internal/metrics"
	"github.com/JackVitick/Socialync/internal/oauth"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/providers"
	"github.com/JackVitick/Socialync/internal/publish"
	"github.com/JackVitick/Socialync/internal/rate"
	"github.com/JackVitick/Socialync/internal/security/secretbox"
)

// Sealing purposes: el ciphertext queda ligado a la columna.
const (
	accessTokenPurpose  = "social_connection.access_token"
	refreshTokenPurpose = "social_connection.refresh_token"
)

// Options permite a tests y comandos pisar colaboradores.
type Options struct {
	// Lookup lee credenciales de plataformas; nil usa os.Getenv.
	Lookup providers.LookupFunc
	// Registerer para las métricas; nil usa prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
	Version    string
}

// App es el resultado del wiring.
type App struct {
	Handler     http.Handler
	Registry    *providers.Registry
	Connections connections.Store

	closers []func() error
}

// Close libera pool, cache y demás recursos en orden inverso.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Build instancia todas las dependencias a partir de cfg.
func Build(ctx context.Context, cfg *config.Config, opts Options) (*App, error) {
	log := logger.L().With(logger.Component("wiring"))
	app := &App{}
	fail := func(err error) (*App, error) {
		_ = app.Close()
		return nil, err
	}

	// 1. Registry (credenciales leídas una sola vez)
	reg, err := providers.Load(cfg.App.BaseURL, opts.Lookup)
	if err != nil {
		return fail(fmt.Errorf("wiring: providers: %w", err))
	}
	app.Registry = reg
	for _, c := range reg.List() {
		if !c.HasCredentials() {
			log.Warn("platform without credentials",
				logger.Platform(string(c.Platform)),
				logger.String("client_id_env", c.ClientIDEnv),
				logger.String("client_secret_env", c.ClientSecretEnv),
			)
		}
	}

	// 2. Connection store
	store, closeStore, err := OpenConnections(ctx, cfg)
	if err != nil {
		return fail(err)
	}
	app.Connections = store
	app.closers = append(app.closers, closeStore)

	// 3. Cache (handshake en modo server y replay guard)
	kv, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return fail(fmt.Errorf("wiring: cache: %w", err))
	}
	app.closers = append(app.closers, kv.Close)

	// 4. Handshake
	hsOpts := handshake.Options{Secure: cfg.IsProd(), TTL: cfg.Handshake.TTL}
	var hsStore handshake.Store
	switch cfg.Handshake.Mode {
	case "server":
		hsStore = handshake.NewServerStore(kv, hsOpts)
	default:
		hsStore = handshake.NewCookieStore(hsOpts)
	}

	signingKey := []byte(cfg.Handshake.SigningKey)
	if len(signingKey) == 0 {
		signingKey = handshake.DeriveStateKey([]byte(cfg.Identity.SessionKey))
	}
	if len(signingKey) == 0 {
		log.Warn("no state signing key configured; using an ephemeral key")
	}
	signer, err := handshake.NewStateSigner(signingKey, cfg.Handshake.TTL)
	if err != nil {
		return fail(fmt.Errorf("wiring: state signer: %w", err))
	}

	// 5. Identidad
	chain, err := identity.Build(cfg.Identity.Resolvers, identity.Options{
		SessionCookie:  cfg.Identity.SessionCookie,
		SessionKey:     []byte(cfg.Identity.SessionKey),
		FallbackCookie: cfg.Identity.FallbackCookie,
		ClientHeader:   cfg.Identity.ClientHeader,
	})
	if err != nil {
		return fail(fmt.Errorf("wiring: identity: %w", err))
	}

	// 6. Métricas
	if err := metrics.Register(opts.Registerer); err != nil {
		return fail(fmt.Errorf("wiring: metrics: %w", err))
	}
	if err := mw.RegisterHTTPMetrics(opts.Registerer); err != nil {
		return fail(fmt.Errorf("wiring: http metrics: %w", err))
	}

	// 7. Services y controllers
	pages := connectsvc.Pages{
		BaseURL:     cfg.App.BaseURL,
		Connections: cfg.Pages.Connections,
		Login:       cfg.Pages.Login,
	}
	connect := connectsvc.NewServices(connectsvc.Deps{
		Registry:            reg,
		OAuth:               oauth.NewClient(cfg.OAuth.HTTPTimeout),
		Connections:         store,
		Signer:              signer,
		Replay:              handshake.NewReplayGuard(kv),
		Pages:               pages,
		ProviderTimeout:     cfg.OAuth.HTTPTimeout,
		FacebookExchangeURL: cfg.OAuth.Facebook.ExchangeURL,
		FacebookProfileURL:  cfg.OAuth.Facebook.ProfileURL,
	})

	components := map[string]healthsvc.Pinger{"connections": store}
	if cfg.Cache.Kind == "redis" || cfg.Handshake.Mode == "server" {
		components["cache"] = kv
	}
	health := healthsvc.NewService(healthsvc.Deps{
		Components:    components,
		Providers:     reg,
		AppURL:        cfg.App.BaseURL,
		Env:           cfg.App.Env,
		Version:       opts.Version,
		HandshakeMode: cfg.Handshake.Mode,
		Resolvers:     chain.Names(),
	})

	var limiter mw.RateLimiter
	if cfg.RateLimit.Enabled {
		limiter = rate.NewFixedWindow(kv, "rl:auth:", cfg.RateLimit.Max, cfg.RateLimit.Window)
	}
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		gatherer := prometheus.DefaultGatherer
		if g, ok := opts.Registerer.(prometheus.Gatherer); ok {
			gatherer = g
		}
		metricsHandler = promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
	}

	app.Handler = router.New(router.Deps{
		Connect:     connectctrl.NewControllers(connect, hsStore, pages),
		Connections: connectionsctrl.NewConnectionsController(connectionssvc.NewService(store)),
		Social:      socialctrl.NewPostController(socialsvc.NewPostService(store, publish.NewDispatcher(nil, nil))),
		Health:      healthctrl.NewHealthController(health),
		Identity:    chain,
		RateLimiter: limiter,
		Metrics:     metricsHandler,
	})

	log.Info("wiring complete",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.String("handshake_mode", cfg.Handshake.Mode),
		logger.Any("identity_resolvers", chain.Names()),
		logger.Bool("rate_limit", limiter != nil),
		logger.Bool("metrics", metricsHandler != nil),
	)
	return app, nil
}

// OpenConnections abre el store configurado. El close devuelto nunca es nil.
func OpenConnections(ctx context.Context, cfg *config.Config) (connections.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Storage.Driver {
	case "postgres":
		sealers, err := buildSealers(cfg)
		if err != nil {
			return nil, noop, err
		}
		pool, err := pg.Connect(ctx, cfg.Storage.DSN, cfg.Storage.Postgres.MaxOpenConns)
		if err != nil {
			return nil, noop, fmt.Errorf("wiring: postgres: %w", err)
		}
		return pg.New(pool, sealers), func() error { pool.Close(); return nil }, nil
	default:
		return connections.NewMemoryStore(), noop, nil
	}
}

func buildSealers(cfg *config.Config) (pg.Sealers, error) {
	key := cfg.Security.TokenSealingKey
	if key == "" {
		if cfg.IsProd() {
			return pg.Sealers{}, errors.New("wiring: TOKEN_SEALING_KEY is required with postgres in prod")
		}
		logger.L().Warn("tokens stored without sealing", logger.Component("wiring"))
		return pg.Sealers{}, nil
	}
	access, err := secretbox.NewFromBase64(key, accessTokenPurpose)
	if err != nil {
		return pg.Sealers{}, fmt.Errorf("wiring: token sealing key: %w", err)
	}
	refresh, err := secretbox.NewFromBase64(key, refreshTokenPurpose)
	if err != nil {
		return pg.Sealers{}, fmt.Errorf("wiring: token sealing key: %w", err)
	}
	return pg.Sealers{Access: access, Refresh: refresh}, nil
}
