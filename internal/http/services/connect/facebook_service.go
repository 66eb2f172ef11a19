package connect

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/JackVitick/Socialync/internal/connections"
	"github.com/JackVitick/Socialync/internal/observability/logger"
	"github.com/JackVitick/Socialync/internal/providers"
)

var (
	ErrFacebookMissingFields = errors.New("connect: missing access token or user id")
	ErrFacebookExchange      = errors.New("connect: facebook token exchange failed")
	ErrFacebookProfile       = errors.New("connect: facebook profile fetch failed")
	ErrFacebookPersist       = errors.New("connect: facebook connection not saved")
)

// FacebookTokenRequest llega del SDK JS de Facebook en el browser.
type FacebookTokenRequest struct {
	UserID         string // usuario de la app (identidad resuelta)
	AccessToken    string // token corto del SDK
	FacebookUserID string
}

type FacebookDeps struct {
	Registry        ProviderLookup
	Exchanger       LongLivedExchanger
	Profiles        ProfileFetcher
	Connections     connections.Store
	ExchangeURL     string
	ProfileURL      string
	ProviderTimeout time.Duration
	Now             func() time.Time
}

// FacebookTokenService canjea el token corto del SDK por uno de larga
// duración y guarda la conexión de facebook.
type FacebookTokenService struct {
	deps FacebookDeps
}

func NewFacebookTokenService(d FacebookDeps) *FacebookTokenService {
	if d.Now == nil {
		d.Now = time.Now
	}
	return &FacebookTokenService{deps: d}
}

// Exchange devuelve ErrUnauthenticated, ErrFacebookMissingFields,
// ErrMissingCredentials, ErrFacebookExchange, ErrFacebookProfile o
// ErrFacebookPersist (envolviendo la causa).
func (s *FacebookTokenService) Exchange(ctx context.Context, req FacebookTokenRequest) error {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("FacebookTokenService.Exchange"))

	if req.UserID == "" {
		return ErrUnauthenticated
	}
	if strings.TrimSpace(req.AccessToken) == "" || strings.TrimSpace(req.FacebookUserID) == "" {
		return ErrFacebookMissingFields
	}

	cfg, err := s.deps.Registry.ConfigFor(string(providers.Facebook))
	if err != nil {
		return err
	}
	if !cfg.HasCredentials() {
		log.Error("facebook credentials not configured")
		return ErrMissingCredentials
	}

	pctx, cancel := withProviderTimeout(ctx, s.deps.ProviderTimeout)
	defer cancel()

	tokens, err := s.deps.Exchanger.ExchangeLongLived(pctx, cfg, s.deps.ExchangeURL, req.AccessToken)
	if err != nil {
		log.Error("long-lived exchange failed", logger.Err(err))
		return errors.Join(ErrFacebookExchange, err)
	}
	capturedAt := s.deps.Now()

	// El perfil se pide con el token largo en la query.
	profileCfg := cfg
	profileCfg.ProfileURL = s.deps.ProfileURL
	profileCfg.ProfileAuth = providers.ProfileAuthQuery
	profile, err := s.deps.Profiles.FetchProfile(pctx, profileCfg, tokens.AccessToken)
	if err != nil {
		log.Error("facebook profile fetch failed", logger.Err(err))
		return errors.Join(ErrFacebookProfile, err)
	}

	err = s.deps.Connections.Save(ctx, req.UserID, providers.Facebook, connections.Input{
		AccessToken: tokens.AccessToken,
		ExpiresAt:   tokens.ExpiresAt(capturedAt),
		ProfileID:   profile.ID,
		ProfileName: profile.Name,
	})
	if err != nil {
		log.Error("persist facebook connection failed", logger.Err(err))
		return errors.Join(ErrFacebookPersist, &PersistenceError{Platform: providers.Facebook, Err: err})
	}

	log.Info("facebook account connected via sdk token", logger.ProviderUserID(profile.ID))
	return nil
}
