// Package connect contiene los services del flujo de conexión de cuentas
// sociales: inicio de autorización, callback OAuth y el canje de tokens
// cortos de Facebook.
package connect

import (
	"context"
	"time"

	"github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/handshake"
	"github.com/JackVitick/Socialync/internal/oauth"
	"github.com/JackVitick/Socialync/internal/providers"
)

// ProviderLookup es la parte del Registry que usan los services.
type ProviderLookup interface {
	ConfigFor(s string) (providers.ProviderConfig, error)
}

// AuthorizeURLBuilder arma la URL de autorización del proveedor.
type AuthorizeURLBuilder interface {
	AuthorizeURL(cfg providers.ProviderConfig, state string) string
}

// TokenExchanger canjea el authorization code.
type TokenExchanger interface {
	Exchange(ctx context.Context, cfg providers.ProviderConfig, code string) (*oauth.TokenSet, error)
}

// ProfileFetcher obtiene el perfil normalizado de la cuenta.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, cfg providers.ProviderConfig, accessToken string) (*oauth.ProfileIdentity, error)
}

// LongLivedExchanger canjea un token corto de Facebook por uno largo.
type LongLivedExchanger interface {
	ExchangeLongLived(ctx context.Context, cfg providers.ProviderConfig, exchangeURL, shortToken string) (*oauth.TokenSet, error)
}

// StateSigner emite y verifica states ligados a (platform, user).
type StateSigner interface {
	Issue(platform providers.Platform, userID string) (string, error)
	Verify(state string, platform providers.Platform, userID string) (handshake.Ticket, error)
}

// ReplayGuard marca states consumidos.
type ReplayGuard interface {
	Claim(ctx context.Context, t handshake.Ticket) error
}

// Deps contiene las dependencias para crear los services.
type Deps struct {
	Registry    ProviderLookup
	OAuth       *oauth.Client // implementa AuthorizeURLBuilder, TokenExchanger, ProfileFetcher y LongLivedExchanger
	Connections connections.Store
	Signer      StateSigner
	Replay      ReplayGuard // opcional
	Pages       Pages

	// ProviderTimeout acota cada llamada saliente (además del timeout del http.Client).
	ProviderTimeout time.Duration

	FacebookExchangeURL string
	FacebookProfileURL  string
}

// Services agrupa los services del dominio connect.
type Services struct {
	Start    *StartService
	Callback *CallbackService
	Facebook *FacebookTokenService
}

// NewServices crea el agregador de services connect.
func NewServices(d Deps) Services {
	return Services{
		Start: NewStartService(StartDeps{
			Registry: d.Registry,
			URLs:     d.OAuth,
			Signer:   d.Signer,
		}),
		Callback: NewCallbackService(CallbackDeps{
			Registry:        d.Registry,
			Exchanger:       d.OAuth,
			Profiles:        d.OAuth,
			Connections:     d.Connections,
			Signer:          d.Signer,
			Replay:          d.Replay,
			Pages:           d.Pages,
			ProviderTimeout: d.ProviderTimeout,
		}),
		Facebook: NewFacebookTokenService(FacebookDeps{
			Registry:        d.Registry,
			Exchanger:       d.OAuth,
			Profiles:        d.OAuth,
			Connections:     d.Connections,
			ExchangeURL:     d.FacebookExchangeURL,
			ProfileURL:      d.FacebookProfileURL,
			ProviderTimeout: d.ProviderTimeout,
		}),
	}
}

func withProviderTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
