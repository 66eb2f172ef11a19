package connect

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/JackVitick/Socialync/internal/providers"
)

// maxTagMessage acota el texto libre que viaja en ?error=.
const maxTagMessage = 50

// Pages construye las URLs de resultado de la aplicación.
type Pages struct {
	BaseURL     string // sin "/" final
	Connections string // "/connections"
	Login       string // "/login"
}

// Success redirige a la página de conexiones con ?success=<tag>.
func (p Pages) Success(tag string) string {
	return p.with(p.Connections, "success", tag)
}

// Failure redirige a la página de conexiones con ?error=<tag>.
func (p Pages) Failure(tag string) string {
	return p.with(p.Connections, "error", tag)
}

func (p Pages) LoginURL() string {
	return p.BaseURL + p.Login
}

func (p Pages) with(path, key, value string) string {
	q := url.Values{}
	q.Set(key, value)
	return p.BaseURL + path + "?" + q.Encode()
}

// Tags de error y éxito del callback.
const (
	TagInvalidPlatform = "invalid_platform"
	TagInvalidResponse = "invalid_oauth_response"
	TagInvalidState    = "invalid_oauth_state"
)

func ConnectedTag(p providers.Platform) string     { return string(p) + "_connected" }
func MissingConfigTag(p providers.Platform) string { return "missing_config_for_" + string(p) }
func TokenExchangeTag(p providers.Platform) string { return "token_exchange_failed_for_" + string(p) }
func ProfileFetchTag(p providers.Platform) string  { return "profile_fetch_failed_for_" + string(p) }

// ProviderErrorTag etiqueta el error reportado por el proveedor.
func ProviderErrorTag(p providers.Platform, providerErr string) string {
	return "oauth_" + string(p) + "_" + truncate(providerErr, maxTagMessage)
}

// UnexpectedTag etiqueta fallas de persistencia o inesperadas con el mensaje
// recortado a 50 caracteres.
func UnexpectedTag(p providers.Platform, msg string) string {
	return "oauth_" + string(p) + "_" + truncate(msg, maxTagMessage)
}

// truncate corta en n runas, nunca a mitad de un carácter UTF-8.
func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
