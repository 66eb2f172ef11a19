package oauth

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/JackVitick/Socialync/internal/providers"
)

var (
	// ErrMissingAccessToken: respuesta 2xx del token endpoint sin access_token.
	ErrMissingAccessToken = errors.New("oauth: token response missing access_token")
	// ErrMissingProfileID: el perfil no trae id después de normalizar.
	ErrMissingProfileID = errors.New("oauth: profile response missing id")
	// ErrNoNormalizer: plataforma sin proyección de perfil registrada.
	ErrNoNormalizer = errors.New("oauth: no profile normalizer for platform")
)

// TokenExchangeError describe un code exchange fallido.
// Detail es el cuerpo del proveedor (JSON compactado o texto plano).
type TokenExchangeError struct {
	Platform   providers.Platform
	StatusCode int
	Detail     string
	Err        error
}

func (e *TokenExchangeError) Error() string {
	return describe("token exchange", e.Platform, e.StatusCode, e.Detail, e.Err)
}

func (e *TokenExchangeError) Unwrap() error { return e.Err }

// ProfileFetchError describe un fetch de perfil fallido o sin id.
type ProfileFetchError struct {
	Platform   providers.Platform
	StatusCode int
	Detail     string
	Err        error
}

func (e *ProfileFetchError) Error() string {
	return describe("profile fetch", e.Platform, e.StatusCode, e.Detail, e.Err)
}

func (e *ProfileFetchError) Unwrap() error { return e.Err }

func describe(op string, p providers.Platform, status int, detail string, err error) string {
	var b strings.Builder
	fmt.Fprintf(&b, "oauth: %s failed for %s", op, p)
	if status != 0 {
		fmt.Fprintf(&b, " (status %d)", status)
	}
	if detail != "" {
		b.WriteString(": ")
		b.WriteString(detail)
	} else if err != nil {
		b.WriteString(": ")
		b.WriteString(err.Error())
	}
	return b.String()
}

const maxDetail = 2048

// bodyDetail intenta interpretar body como JSON (compactado); si no lo es,
// devuelve el texto crudo recortado.
func bodyDetail(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var out string
	if json.Valid(body) {
		var buf bytes.Buffer
		if err := json.Compact(&buf, body); err == nil {
			out = buf.String()
		}
	}
	if out == "" {
		out = string(body)
	}
	if len(out) > maxDetail {
		out = out[:maxDetail]
	}
	return out
}
