package providers

import "strings"

// TokenAuthStyle indica cómo viajan las credenciales del cliente en el token exchange.
type TokenAuthStyle int

const (
	// TokenAuthInBody envía client_id y client_secret en el form body.
	TokenAuthInBody TokenAuthStyle = iota
	// TokenAuthBasic usa Authorization: Basic y omite client_secret del body.
	TokenAuthBasic
)

// ProfileAuthStyle indica cómo se presenta el access token al endpoint de perfil.
type ProfileAuthStyle int

const (
	// ProfileAuthBearer usa Authorization: Bearer <token>.
	ProfileAuthBearer ProfileAuthStyle = iota
	// ProfileAuthQuery agrega access_token=<token> a la query y no manda Authorization.
	ProfileAuthQuery
)

// ProviderConfig es la configuración estática de una plataforma.
type ProviderConfig struct {
	Platform Platform

	AuthURL    string
	TokenURL   string
	ProfileURL string
	Scope      string

	// RedirectURI = base pública + /auth/<platform>/callback
	RedirectURI string

	// Nombres de las variables de entorno (para diagnósticos) y sus valores.
	ClientIDEnv     string
	ClientSecretEnv string
	ClientID        string
	ClientSecret    string

	TokenAuth   TokenAuthStyle
	ProfileAuth ProfileAuthStyle
}

// HasCredentials es true si client id y secret están presentes.
func (c ProviderConfig) HasCredentials() bool {
	return strings.TrimSpace(c.ClientID) != "" && strings.TrimSpace(c.ClientSecret) != ""
}

// CallbackPath es el path relativo del callback para una plataforma.
func CallbackPath(p Platform) string {
	return "/auth/" + string(p) + "/callback"
}
