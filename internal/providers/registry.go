package providers

import (
	"fmt"
	"os"
	"strings"
)

// Registry es la tabla inmutable Platform -> ProviderConfig.
type Registry struct {
	configs map[Platform]ProviderConfig
}

// LookupFunc resuelve una variable de entorno. os.Getenv en producción.
type LookupFunc func(key string) string

// Load construye el registry desde Catalog(baseURL) leyendo credenciales con lookup.
// Si lookup es nil usa os.Getenv.
func Load(baseURL string, lookup LookupFunc) (*Registry, error) {
	if lookup == nil {
		lookup = os.Getenv
	}
	cfgs := Catalog(baseURL)
	for i := range cfgs {
		cfgs[i].ClientID = strings.TrimSpace(lookup(cfgs[i].ClientIDEnv))
		cfgs[i].ClientSecret = strings.TrimSpace(lookup(cfgs[i].ClientSecretEnv))
	}
	return New(cfgs...)
}

// New construye un registry a partir de configs explícitas.
// Exige exactamente una config por cada plataforma de All.
func New(cfgs ...ProviderConfig) (*Registry, error) {
	m := make(map[Platform]ProviderConfig, len(All))
	for _, c := range cfgs {
		if !c.Platform.Valid() {
			return nil, &UnknownPlatformError{Value: string(c.Platform)}
		}
		if _, dup := m[c.Platform]; dup {
			return nil, fmt.Errorf("providers: duplicate config for %s", c.Platform)
		}
		if c.AuthURL == "" || c.TokenURL == "" || c.ProfileURL == "" || c.RedirectURI == "" {
			return nil, fmt.Errorf("providers: incomplete config for %s", c.Platform)
		}
		m[c.Platform] = c
	}
	for _, p := range All {
		if _, ok := m[p]; !ok {
			return nil, fmt.Errorf("providers: missing config for %s", p)
		}
	}
	return &Registry{configs: m}, nil
}

// ConfigFor devuelve la config de la plataforma nombrada por s.
// Para valores fuera del conjunto cerrado devuelve *UnknownPlatformError.
func (r *Registry) ConfigFor(s string) (ProviderConfig, error) {
	p, err := Parse(s)
	if err != nil {
		return ProviderConfig{}, err
	}
	return r.configs[p], nil
}

// Get es como ConfigFor para una Platform ya validada.
func (r *Registry) Get(p Platform) (ProviderConfig, bool) {
	c, ok := r.configs[p]
	return c, ok
}

// List devuelve las configs en el orden de All.
func (r *Registry) List() []ProviderConfig {
	out := make([]ProviderConfig, 0, len(All))
	for _, p := range All {
		out = append(out, r.configs[p])
	}
	return out
}
