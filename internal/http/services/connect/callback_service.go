package connect

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/handshake"
	"github.com/JackVitick/Socialync/internal/metrics"
	"github.com/JackVitick/Socialync/internal/oauth"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/providers"
)

// PersistenceError envuelve la falla del store al guardar la conexión.
type PersistenceError struct {
	Platform providers.Platform
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save %s connection: %v", e.Platform, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// CallbackRequest es lo que el controller extrae del redirect del proveedor.
// Handshake/HandshakeErr son el resultado de handshake.Store.Consume.
type CallbackRequest struct {
	Platform      string
	Code          string
	State         string
	ProviderError string

	Handshake    handshake.Handshake
	HandshakeErr error
}

// CallbackResult es siempre un redirect.
type CallbackResult struct {
	RedirectURL string
	// Tag es el valor de ?success= o ?error=.
	Tag       string
	Connected bool
}

type CallbackDeps struct {
	Registry        ProviderLookup
	Exchanger       TokenExchanger
	Profiles        ProfileFetcher
	Connections     connections.Store
	Signer          StateSigner
	Replay          ReplayGuard
	Pages           Pages
	ProviderTimeout time.Duration
	Now             func() time.Time
}

// CallbackService completa la autorización: valida el handshake, canjea el
// code, obtiene el perfil y guarda la conexión.
type CallbackService struct {
	deps CallbackDeps
}

func NewCallbackService(d CallbackDeps) *CallbackService {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &CallbackService{deps: d}
}

// Complete ejecuta el flujo y nunca devuelve error: toda falla es un redirect
// con ?error=<tag>.
func (s *CallbackService) Complete(ctx context.Context, req CallbackRequest) CallbackResult {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("CallbackService.Complete"))

	cfg, err := s.deps.Registry.ConfigFor(req.Platform)
	if err != nil {
		log.Warn("callback for unknown platform", logger.String("platform_raw", req.Platform))
		return s.fail(ctx, "unknown", "invalid_platform", TagInvalidPlatform)
	}
	p := cfg.Platform
	log = log.With(logger.Platform(string(p)))

	if req.ProviderError != "" {
		log.Warn("provider reported authorization error", logger.String("provider_error", req.ProviderError))
		return s.fail(ctx, string(p), "provider_error", ProviderErrorTag(p, req.ProviderError))
	}

	if req.Code == "" || req.State == "" {
		log.Warn("callback missing code or state",
			logger.Bool("has_code", req.Code != ""),
			logger.Bool("has_state", req.State != ""),
		)
		return s.fail(ctx, string(p), "invalid_response", TagInvalidResponse)
	}

	if err := s.validateState(ctx, req, p); err != nil {
		log.Warn("invalid oauth state",
			logger.StateSuffix(req.State),
			logger.Bool("state_match", req.Handshake.State == req.State),
			logger.String("stored_platform", string(req.Handshake.Platform)),
			logger.Err(err),
		)
		return s.fail(ctx, string(p), "invalid_state", TagInvalidState)
	}
	userID := req.Handshake.UserID
	log = log.With(logger.UserID(userID))

	if !cfg.HasCredentials() {
		log.Error("provider credentials not configured")
		return s.fail(ctx, string(p), "missing_config", MissingConfigTag(p))
	}

	pctx, cancel := withProviderTimeout(ctx, s.deps.ProviderTimeout)
	defer cancel()

	tokens, err := s.deps.Exchanger.Exchange(pctx, cfg, req.Code)
	// expiresAt se calcula desde la llegada de la respuesta de tokens.
	capturedAt := s.deps.Now()
	if err != nil {
		var te *oauth.TokenExchangeError
		if errors.As(err, &te) {
			log.Error("token exchange failed", logger.Int("provider_status", te.StatusCode), logger.Err(err))
			return s.fail(ctx, string(p), "token_exchange_failed", TokenExchangeTag(p))
		}
		log.Error("unexpected token exchange error", logger.Err(err))
		return s.fail(ctx, string(p), "unexpected", UnexpectedTag(p, err.Error()))
	}
	if tokens == nil || tokens.AccessToken == "" {
		log.Error("token exchange returned no access token")
		return s.fail(ctx, string(p), "token_exchange_failed", TokenExchangeTag(p))
	}

	profile, err := s.deps.Profiles.FetchProfile(pctx, cfg, tokens.AccessToken)
	if err != nil {
		var pe *oauth.ProfileFetchError
		if errors.As(err, &pe) {
			log.Error("profile fetch failed", logger.Int("provider_status", pe.StatusCode), logger.Err(err))
			return s.fail(ctx, string(p), "profile_fetch_failed", ProfileFetchTag(p))
		}
		log.Error("unexpected profile fetch error", logger.Err(err))
		return s.fail(ctx, string(p), "unexpected", UnexpectedTag(p, err.Error()))
	}
	if profile == nil || profile.ID == "" {
		log.Error("profile has no id")
		return s.fail(ctx, string(p), "profile_fetch_failed", ProfileFetchTag(p))
	}

	in := connections.Input{
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ExpiresAt:    tokens.ExpiresAt(capturedAt),
		ProfileID:    profile.ID,
		ProfileName:  profile.Name,
	}
	if err := s.deps.Connections.Save(ctx, userID, p, in); err != nil {
		perr := &PersistenceError{Platform: p, Err: err}
		log.Error("persist connection failed", logger.Err(perr))
		return s.fail(ctx, string(p), "persist_failed", UnexpectedTag(p, perr.Error()))
	}

	log.Info("social account connected",
		logger.ProviderUserID(profile.ID),
		logger.Bool("has_refresh_token", in.RefreshToken != ""),
		logger.Bool("has_expiry", in.ExpiresAt != nil),
	)
	metrics.OAuthCallbackTotal.WithLabelValues(string(p), "connected").Inc()
	tag := ConnectedTag(p)
	return CallbackResult{RedirectURL: s.deps.Pages.Success(tag), Tag: tag, Connected: true}
}

// validateState exige que el handshake exista y que state, platform y user
// coincidan. Con signer, además el state debe estar firmado para ese
// (platform, user) y no haber sido usado.
func (s *CallbackService) validateState(ctx context.Context, req CallbackRequest, p providers.Platform) error {
	if req.HandshakeErr != nil {
		return req.HandshakeErr
	}
	h := req.Handshake
	if !h.Matches(req.State, p) {
		return errors.New("handshake mismatch")
	}
	if s.deps.Signer == nil {
		return nil
	}
	ticket, err := s.deps.Signer.Verify(req.State, p, h.UserID)
	if err != nil {
		return err
	}
	if s.deps.Replay != nil {
		return s.deps.Replay.Claim(ctx, ticket)
	}
	return nil
}

func (s *CallbackService) fail(ctx context.Context, platformLabel, result, tag string) CallbackResult {
	metrics.OAuthCallbackTotal.WithLabelValues(platformLabel, result).Inc()
	logger.From(ctx).Debug("callback finished with error", logger.ErrorTag(tag))
	return CallbackResult{RedirectURL: s.deps.Pages.Failure(tag), Tag: tag}
}
