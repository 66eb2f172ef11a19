// Package config carga la configuración de socialsync desde YAML (opcional),
// aplica defaults y pisa con variables de entorno.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	App struct {
		// dev | staging | prod
		Env string `yaml:"env"`
		// URL pública de la app; base de redirect URIs y páginas de resultado.
		BaseURL string `yaml:"base_url"`
	} `yaml:"app"`

	Server struct {
		Addr              string        `yaml:"addr"`
		ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
		ReadTimeout       time.Duration `yaml:"read_timeout"`
		WriteTimeout      time.Duration `yaml:"write_timeout"`
		IdleTimeout       time.Duration `yaml:"idle_timeout"`
		ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`

	Pages struct {
		Connections string `yaml:"connections"`
		Login       string `yaml:"login"`
	} `yaml:"pages"`

	Storage struct {
		// memory | postgres
		Driver   string `yaml:"driver"`
		DSN      string `yaml:"dsn"`
		Postgres struct {
			MaxOpenConns int `yaml:"max_open_conns"`
		} `yaml:"postgres"`
	} `yaml:"storage"`

	Cache struct {
		// memory | redis
		Kind  string `yaml:"kind"`
		Redis struct {
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
			Prefix   string `yaml:"prefix"`
		} `yaml:"redis"`
	} `yaml:"cache"`

	Handshake struct {
		// cookie | server
		Mode       string        `yaml:"mode"`
		TTL        time.Duration `yaml:"ttl"`
		// Firma del state; vacío usa identity.session_key o una clave efímera.
		SigningKey string        `yaml:"signing_key"`
	} `yaml:"handshake"`

	Identity struct {
		// Orden de resolución: session, cookie, client
		Resolvers      []string `yaml:"resolvers"`
		SessionCookie  string   `yaml:"session_cookie"`
		SessionKey     string   `yaml:"session_key"`
		FallbackCookie string   `yaml:"fallback_cookie"`
		ClientHeader   string   `yaml:"client_header"`
	} `yaml:"identity"`

	OAuth struct {
		HTTPTimeout time.Duration `yaml:"http_timeout"`
		Facebook    struct {
			ExchangeURL string `yaml:"exchange_url"`
			ProfileURL  string `yaml:"profile_url"`
		} `yaml:"facebook"`
	} `yaml:"oauth"`

	Security struct {
		// base64 de 32 bytes; sella tokens en el store postgres.
		TokenSealingKey string `yaml:"token_sealing_key"`
	} `yaml:"security"`

	Log struct {
		Level string `yaml:"level"`
	} `yaml:"log"`

	Metrics struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"metrics"`

	// RateLimit aplica a /auth/* por IP.
	RateLimit struct {
		Enabled bool          `yaml:"enabled"`
		Max     int           `yaml:"max"`
		Window  time.Duration `yaml:"window"`
	} `yaml:"rate_limit"`
}

// Load lee path (si existe), aplica defaults, env overrides y valida.
// path vacío o inexistente no es error: se usa solo defaults + entorno.
func Load(path string) (*Config, error) {
	var c Config
	// bools con default true van antes del decode: YAML solo los pisa si aparecen.
	c.Metrics.Enabled = true
	if strings.TrimSpace(path) != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	c.applyDefaults()
	c.applyEnvOverrides()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) applyDefaults() {
	// sane defaults
	if c.App.Env == "" {
		c.App.Env = "dev"
	}
	if c.App.BaseURL == "" {
		c.App.BaseURL = "http://localhost:3000"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ReadHeaderTimeout == 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Pages.Connections == "" {
		c.Pages.Connections = "/connections"
	}
	if c.Pages.Login == "" {
		c.Pages.Login = "/login"
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = "memory"
	}
	if c.Storage.Postgres.MaxOpenConns == 0 {
		c.Storage.Postgres.MaxOpenConns = 10
	}
	if c.Cache.Kind == "" {
		c.Cache.Kind = "memory"
	}
	if c.Cache.Redis.Addr == "" {
		c.Cache.Redis.Addr = "localhost:6379"
	}
	if c.Cache.Redis.Prefix == "" {
		c.Cache.Redis.Prefix = "socialsync"
	}
	if c.Handshake.Mode == "" {
		c.Handshake.Mode = "cookie"
	}
	if c.Handshake.TTL == 0 {
		c.Handshake.TTL = 10 * time.Minute
	}
	if len(c.Identity.Resolvers) == 0 {
		c.Identity.Resolvers = []string{"session", "cookie", "client"}
	}
	if c.Identity.SessionCookie == "" {
		c.Identity.SessionCookie = "session"
	}
	if c.Identity.FallbackCookie == "" {
		c.Identity.FallbackCookie = "app_user_id"
	}
	if c.Identity.ClientHeader == "" {
		c.Identity.ClientHeader = "X-Client-User-Id"
	}
	if c.OAuth.HTTPTimeout == 0 {
		c.OAuth.HTTPTimeout = 10 * time.Second
	}
	if c.OAuth.Facebook.ExchangeURL == "" {
		c.OAuth.Facebook.ExchangeURL = "https://graph.facebook.com/v17.0/oauth/access_token"
	}
	if c.OAuth.Facebook.ProfileURL == "" {
		c.OAuth.Facebook.ProfileURL = "https://graph.facebook.com/v17.0/me?fields=id,name"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.RateLimit.Max == 0 {
		c.RateLimit.Max = 30
	}
	if c.RateLimit.Window == 0 {
		c.RateLimit.Window = time.Minute
	}
}

func getEnvStr(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}
func getEnvInt(key string) (int, bool) {
	if s, ok := getEnvStr(key); ok {
		if i, err := strconv.Atoi(s); err == nil {
			return i, true
		}
	}
	return 0, false
}
func getEnvBool(key string) (bool, bool) {
	if s, ok := getEnvStr(key); ok {
		if b, err := strconv.ParseBool(s); err == nil {
			return b, true
		}
	}
	return false, false
}
func getEnvDur(key string) (time.Duration, bool) {
	if s, ok := getEnvStr(key); ok {
		if d, err := time.ParseDuration(s); err == nil {
			return d, true
		}
	}
	return 0, false
}
func getEnvCSV(key string) ([]string, bool) {
	s, ok := getEnvStr(key)
	if !ok {
		return nil, false
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out, true
}

// applyEnvOverrides pisa el YAML con variables de entorno.
func (c *Config) applyEnvOverrides() {
	// APP
	if v, ok := getEnvStr("APP_ENV"); ok {
		c.App.Env = strings.ToLower(v)
	}
	if v, ok := getEnvStr("APP_URL"); ok {
		c.App.BaseURL = v
	}

	// SERVER
	if v, ok := getEnvStr("SERVER_ADDR"); ok {
		c.Server.Addr = v
	}
	if v, ok := getEnvDur("SERVER_SHUTDOWN_TIMEOUT"); ok {
		c.Server.ShutdownTimeout = v
	}

	// STORAGE
	if v, ok := getEnvStr("STORAGE_DRIVER"); ok {
		c.Storage.Driver = strings.ToLower(v)
	}
	if v, ok := getEnvStr("STORAGE_DSN"); ok {
		c.Storage.DSN = v
	}
	if v, ok := getEnvInt("POSTGRES_MAX_OPEN_CONNS"); ok {
		c.Storage.Postgres.MaxOpenConns = v
	}

	// CACHE
	if v, ok := getEnvStr("CACHE_KIND"); ok {
		c.Cache.Kind = strings.ToLower(v)
	}
	if v, ok := getEnvStr("REDIS_ADDR"); ok {
		c.Cache.Redis.Addr = v
	}
	if v, ok := getEnvStr("REDIS_PASSWORD"); ok {
		c.Cache.Redis.Password = v
	}
	if v, ok := getEnvInt("REDIS_DB"); ok {
		c.Cache.Redis.DB = v
	}

	// HANDSHAKE
	if v, ok := getEnvStr("HANDSHAKE_MODE"); ok {
		c.Handshake.Mode = strings.ToLower(v)
	}
	if v, ok := getEnvStr("HANDSHAKE_SIGNING_KEY"); ok {
		c.Handshake.SigningKey = v
	}

	// IDENTITY
	if v, ok := getEnvCSV("IDENTITY_RESOLVERS"); ok && len(v) > 0 {
		c.Identity.Resolvers = v
	}
	if v, ok := getEnvStr("SESSION_SIGNING_KEY"); ok {
		c.Identity.SessionKey = v
	}

	// OAUTH
	if v, ok := getEnvDur("OAUTH_HTTP_TIMEOUT"); ok {
		c.OAuth.HTTPTimeout = v
	}

	// SECURITY
	if v, ok := getEnvStr("TOKEN_SEALING_KEY"); ok {
		c.Security.TokenSealingKey = v
	}

	// LOG / METRICS
	if v, ok := getEnvStr("LOG_LEVEL"); ok {
		c.Log.Level = v
	}
	if v, ok := getEnvBool("METRICS_ENABLED"); ok {
		c.Metrics.Enabled = v
	}

	// RATE LIMIT
	if v, ok := getEnvBool("RATE_LIMIT_ENABLED"); ok {
		c.RateLimit.Enabled = v
	}
	if v, ok := getEnvInt("RATE_LIMIT_MAX"); ok {
		c.RateLimit.Max = v
	}
	if v, ok := getEnvDur("RATE_LIMIT_WINDOW"); ok {
		c.RateLimit.Window = v
	}
}

// IsProd indica si corre en producción (cookies Secure, logs JSON).
func (c *Config) IsProd() bool { return c.App.Env == "prod" || c.App.Env == "production" }

// Validate rechaza combinaciones que no pueden arrancar.
func (c *Config) Validate() error {
	u, err := url.Parse(c.App.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config: app.base_url must be an absolute URL, got %q", c.App.BaseURL)
	}
	c.App.BaseURL = strings.TrimRight(c.App.BaseURL, "/")

	switch c.Storage.Driver {
	case "memory":
	case "postgres":
		if c.Storage.DSN == "" {
			return errors.New("config: storage.dsn is required for postgres driver")
		}
	default:
		return fmt.Errorf("config: unknown storage.driver %q", c.Storage.Driver)
	}

	switch c.Cache.Kind {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown cache.kind %q", c.Cache.Kind)
	}

	switch c.Handshake.Mode {
	case "cookie", "server":
	default:
		return fmt.Errorf("config: unknown handshake.mode %q", c.Handshake.Mode)
	}

	if c.RateLimit.Enabled && c.RateLimit.Max < 1 {
		return errors.New("config: rate_limit.max must be >= 1")
	}

	for _, r := range c.Identity.Resolvers {
		switch r {
		case "session", "cookie", "client":
		default:
			return fmt.Errorf("config: unknown identity resolver %q", r)
		}
	}
	return nil
}
