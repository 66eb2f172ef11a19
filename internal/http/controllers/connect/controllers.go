// Package connect contiene los controllers del flujo de conexión de cuentas sociales.
package connect

import (
	"context"

	"github.com/JackVitick/Socialync/internal/handshake"
	svc "github.com/JackVitick/Socialync/internal/http/services/connect"
)

// Starter es lo que StartController usa de svc.StartService.
type Starter interface {
	Start(ctx context.Context, req svc.StartRequest) (*svc.StartResult, error)
}

// Completer es lo que CallbackController usa de svc.CallbackService.
type Completer interface {
	Complete(ctx context.Context, req svc.CallbackRequest) svc.CallbackResult
}

// FacebookExchanger es lo que FacebookTokenController usa de svc.FacebookTokenService.
type FacebookExchanger interface {
	Exchange(ctx context.Context, req svc.FacebookTokenRequest) error
}

// Controllers agrupa todos los controllers del dominio connect.
type Controllers struct {
	Start         *StartController
	Callback      *CallbackController
	FacebookToken *FacebookTokenController
}

// NewControllers crea el agregador de controllers connect.
func NewControllers(s svc.Services, store handshake.Store, pages svc.Pages) *Controllers {
	return &Controllers{
		Start:         NewStartController(s.Start, store, pages),
		Callback:      NewCallbackController(s.Callback, store),
		FacebookToken: NewFacebookTokenController(s.Facebook),
	}
}
