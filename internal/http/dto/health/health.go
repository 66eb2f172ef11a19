// Package health contiene los DTOs de /readyz y /api/info.
package health

import "time"

// HealthStatus es el estado de un componente.
type HealthStatus struct {
	Status  string `json:"status"` // ok | error | disabled
	Message string `json:"message,omitempty"`
}

// HealthResponse es la respuesta de GET /readyz.
type HealthResponse struct {
	Status     string                  `json:"status"` // ready | unavailable
	Version    string                  `json:"version,omitempty"`
	Components map[string]HealthStatus `json:"components"`
	Timestamp  time.Time               `json:"timestamp"`
}

// PlatformCredentials indica presencia de credenciales, nunca sus valores.
type PlatformCredentials struct {
	ClientID     bool   `json:"clientId"`
	ClientSecret bool   `json:"clientSecret"`
	RedirectURI  string `json:"redirectUri"`
}

type InfoEnv struct {
	AppURL        string                         `json:"appUrl"`
	Env           string                         `json:"env"`
	HandshakeMode string                         `json:"handshakeMode"`
	Resolvers     []string                       `json:"identityResolvers"`
	Platforms     map[string]PlatformCredentials `json:"platforms"`
}

// InfoResponse es la respuesta de GET /api/info.
type InfoResponse struct {
	Message    string    `json:"message"`
	Env        InfoEnv   `json:"env"`
	ServerTime time.Time `json:"serverTime"`
}
