package connect

import (
	"context"
	"errors"
	"fmt"

	"github.com/JackVitick/Socialync/internal/handshake"
	"github.com/JackVitick/Socialync/internal/metrics"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/providers"
)

var (
	ErrUnknownPlatform    = errors.New("connect: unknown platform")
	ErrMissingCredentials = errors.New("connect: missing provider credentials")
	ErrUnauthenticated    = errors.New("connect: no authenticated user")
)

// StartRequest es la entrada de Start. UserID vacío significa anónimo.
type StartRequest struct {
	Platform string
	UserID   string
}

// StartResult es el redirect al proveedor y el handshake a persistir
// antes de emitirlo.
type StartResult struct {
	RedirectURL string
	Handshake   handshake.Handshake
}

type StartDeps struct {
	Registry ProviderLookup
	URLs     AuthorizeURLBuilder
	Signer   StateSigner
}

// StartService inicia la autorización OAuth de una plataforma.
type StartService struct {
	deps StartDeps
}

func NewStartService(d StartDeps) *StartService {
	return &StartService{deps: d}
}

// Start valida en orden plataforma, credenciales y usuario, genera el state
// y devuelve la URL de autorización.
//
// Errores: ErrUnknownPlatform, ErrMissingCredentials, ErrUnauthenticated.
// Cualquier otro error es interno.
func (s *StartService) Start(ctx context.Context, req StartRequest) (res *StartResult, err error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("StartService.Start"))

	platformLabel := req.Platform
	result := "redirected"
	defer func() {
		metrics.OAuthStartTotal.WithLabelValues(platformLabel, result).Inc()
	}()

	cfg, err := s.deps.Registry.ConfigFor(req.Platform)
	if err != nil {
		platformLabel, result = "unknown", "unknown_platform"
		return nil, fmt.Errorf("%w: %v", ErrUnknownPlatform, err)
	}
	if !cfg.HasCredentials() {
		result = "missing_credentials"
		log.Error("provider credentials not configured",
			logger.Platform(string(cfg.Platform)),
			logger.String("client_id_env", cfg.ClientIDEnv),
			logger.String("client_secret_env", cfg.ClientSecretEnv),
		)
		return nil, ErrMissingCredentials
	}
	if req.UserID == "" {
		result = "unauthenticated"
		return nil, ErrUnauthenticated
	}

	state, err := s.issueState(cfg.Platform, req.UserID)
	if err != nil {
		result = "error"
		return nil, fmt.Errorf("connect: issue state: %w", err)
	}

	log.Debug("authorization started",
		logger.Platform(string(cfg.Platform)),
		logger.StateSuffix(state),
	)
	return &StartResult{
		RedirectURL: s.deps.URLs.AuthorizeURL(cfg, state),
		Handshake:   handshake.Handshake{State: state, Platform: cfg.Platform, UserID: req.UserID},
	}, nil
}

func (s *StartService) issueState(p providers.Platform, userID string) (string, error) {
	if s.deps.Signer == nil {
		return handshake.NewState()
	}
	return s.deps.Signer.Issue(p, userID)
}
