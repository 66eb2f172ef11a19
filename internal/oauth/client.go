// Package oauth habla con los endpoints de token y perfil de cada plataforma.
//
// El code exchange usa golang.org/x/oauth2 con el AuthStyle que declara el
// registry (credenciales en el body, o Basic-Auth para Twitter). El fetch de
// perfil es un GET simple cuyo resultado se proyecta a ProfileIdentity con la
// estrategia de cada plataforma.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/JackVitick/Socialync/internal/metrics"
	"github.com/JackVitick/Socialync/internal/providers"
)

// TokenSet es el resultado de un exchange exitoso.
type TokenSet struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	// ExpiresIn en segundos; 0 si el proveedor no lo informó.
	ExpiresIn int64
}

// ExpiresAt devuelve capturedAt + ExpiresIn en epoch millis, o nil si no hay expires_in.
func (t TokenSet) ExpiresAt(capturedAt time.Time) *int64 {
	if t.ExpiresIn <= 0 {
		return nil
	}
	ms := capturedAt.UnixMilli() + t.ExpiresIn*1000
	return &ms
}

// ProfileIdentity es el perfil normalizado {id, name}.
type ProfileIdentity struct {
	ID   string
	Name string
}

const maxBody = 1 << 20

// Client ejecuta las llamadas salientes a los proveedores con un timeout acotado.
type Client struct {
	http *http.Client
}

// NewClient crea un Client con un http.Client propio de timeout dado.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{http: &http.Client{Timeout: timeout}}
}

// NewClientWithHTTP permite inyectar el http.Client (tests, transports custom).
func NewClientWithHTTP(hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{http: hc}
}

// oauth2Config arma la config de x/oauth2. Para TokenAuthBasic se omite el
// secret: x/oauth2 escapa id y secret antes del base64 en AuthStyleInHeader,
// y el header debe llevar "clientId:clientSecret" crudo (ver basicAuthTransport).
func oauth2Config(cfg providers.ProviderConfig) *oauth2.Config {
	secret := cfg.ClientSecret
	if cfg.TokenAuth == providers.TokenAuthBasic {
		secret = ""
	}
	var scopes []string
	if cfg.Scope != "" {
		// El scope es opaco: se envía tal cual, sin re-separar.
		scopes = []string{cfg.Scope}
	}
	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: secret,
		RedirectURL:  cfg.RedirectURI,
		Scopes:       scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   cfg.AuthURL,
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthorizeURL arma la URL de autorización con client_id, redirect_uri,
// response_type=code, scope y state.
func (c *Client) AuthorizeURL(cfg providers.ProviderConfig, state string) string {
	return oauth2Config(cfg).AuthCodeURL(state)
}

// Exchange canjea el authorization code por tokens.
func (c *Client) Exchange(ctx context.Context, cfg providers.ProviderConfig, code string) (ts *TokenSet, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProviderCall(string(cfg.Platform), "token_exchange", start, err) }()

	hc := c.http
	if cfg.TokenAuth == providers.TokenAuthBasic {
		// Basic-Auth lleva las credenciales; el body solo identifica al cliente.
		withBasic := *c.http
		withBasic.Transport = &basicAuthTransport{base: c.http.Transport, id: cfg.ClientID, secret: cfg.ClientSecret}
		hc = &withBasic
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	tok, err := oauth2Config(cfg).Exchange(ctx, code)
	if err != nil {
		return nil, exchangeError(cfg.Platform, err)
	}
	if tok.AccessToken == "" {
		return nil, &TokenExchangeError{Platform: cfg.Platform, Err: ErrMissingAccessToken}
	}

	return &TokenSet{
		AccessToken:  tok.AccessToken,
		RefreshToken: tok.RefreshToken,
		TokenType:    tok.TokenType,
		ExpiresIn:    expiresIn(tok.Extra("expires_in")),
	}, nil
}

// basicAuthTransport agrega Authorization: Basic base64(id:secret) sin escapar.
type basicAuthTransport struct {
	base       http.RoundTripper
	id, secret string
}

func (t *basicAuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	r := req.Clone(req.Context())
	r.SetBasicAuth(t.id, t.secret)
	return base.RoundTrip(r)
}

func exchangeError(p providers.Platform, err error) error {
	var re *oauth2.RetrieveError
	if errors.As(err, &re) {
		status := 0
		if re.Response != nil {
			status = re.Response.StatusCode
		}
		return &TokenExchangeError{Platform: p, StatusCode: status, Detail: bodyDetail(re.Body), Err: err}
	}
	if strings.Contains(err.Error(), "missing access_token") {
		return &TokenExchangeError{Platform: p, Err: fmt.Errorf("%w: %v", ErrMissingAccessToken, err)}
	}
	return &TokenExchangeError{Platform: p, Err: err}
}

// expiresIn acepta number JSON, string numérica (respuestas form-encoded) o json.Number.
func expiresIn(v any) int64 {
	switch x := v.(type) {
	case float64:
		return int64(x)
	case int64:
		return x
	case int:
		return int64(x)
	case json.Number:
		n, _ := x.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n
	default:
		return 0
	}
}

// FetchProfile obtiene y normaliza el perfil de la cuenta conectada.
// Con ProfileAuthQuery el token viaja como access_token en la query y no se
// envía Authorization.
func (c *Client) FetchProfile(ctx context.Context, cfg providers.ProviderConfig, accessToken string) (pi *ProfileIdentity, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProviderCall(string(cfg.Platform), "profile_fetch", start, err) }()

	normalize, ok := normalizers[cfg.Platform]
	if !ok {
		return nil, &ProfileFetchError{Platform: cfg.Platform, Err: ErrNoNormalizer}
	}

	u, err := url.Parse(cfg.ProfileURL)
	if err != nil {
		return nil, &ProfileFetchError{Platform: cfg.Platform, Err: err}
	}
	if cfg.ProfileAuth == providers.ProfileAuthQuery {
		q := u.Query()
		q.Set("access_token", accessToken)
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &ProfileFetchError{Platform: cfg.Platform, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if cfg.ProfileAuth == providers.ProfileAuthBearer {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	body, status, err := c.do(req)
	if err != nil {
		return nil, &ProfileFetchError{Platform: cfg.Platform, Err: err}
	}
	if status < 200 || status > 299 {
		return nil, &ProfileFetchError{Platform: cfg.Platform, StatusCode: status, Detail: bodyDetail(body)}
	}

	id, err := normalize(body)
	if err != nil {
		return nil, &ProfileFetchError{Platform: cfg.Platform, StatusCode: status, Err: fmt.Errorf("decode profile: %w", err)}
	}
	if strings.TrimSpace(id.ID) == "" {
		return nil, &ProfileFetchError{Platform: cfg.Platform, StatusCode: status, Err: ErrMissingProfileID}
	}
	return &id, nil
}

// ExchangeLongLived canjea un user token corto de Facebook por uno de larga duración
// (grant_type=fb_exchange_token). exchangeURL es el endpoint oauth/access_token del Graph API.
func (c *Client) ExchangeLongLived(ctx context.Context, cfg providers.ProviderConfig, exchangeURL, shortToken string) (ts *TokenSet, err error) {
	start := time.Now()
	defer func() { metrics.ObserveProviderCall(string(cfg.Platform), "long_lived_exchange", start, err) }()

	u, err := url.Parse(exchangeURL)
	if err != nil {
		return nil, &TokenExchangeError{Platform: cfg.Platform, Err: err}
	}
	q := u.Query()
	q.Set("grant_type", "fb_exchange_token")
	q.Set("client_id", cfg.ClientID)
	q.Set("client_secret", cfg.ClientSecret)
	q.Set("fb_exchange_token", shortToken)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &TokenExchangeError{Platform: cfg.Platform, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	body, status, err := c.do(req)
	if err != nil {
		return nil, &TokenExchangeError{Platform: cfg.Platform, Err: err}
	}
	if status < 200 || status > 299 {
		return nil, &TokenExchangeError{Platform: cfg.Platform, StatusCode: status, Detail: bodyDetail(body)}
	}

	var tr struct {
		AccessToken string          `json:"access_token"`
		TokenType   string          `json:"token_type"`
		ExpiresIn   json.RawMessage `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, &TokenExchangeError{Platform: cfg.Platform, StatusCode: status, Detail: bodyDetail(body), Err: err}
	}
	if tr.AccessToken == "" {
		return nil, &TokenExchangeError{Platform: cfg.Platform, StatusCode: status, Err: ErrMissingAccessToken}
	}

	var exp any
	if len(tr.ExpiresIn) > 0 {
		d := json.NewDecoder(strings.NewReader(string(tr.ExpiresIn)))
		d.UseNumber()
		_ = d.Decode(&exp)
	}
	return &TokenSet{AccessToken: tr.AccessToken, TokenType: tr.TokenType, ExpiresIn: expiresIn(exp)}, nil
}

func (c *Client) do(req *http.Request) ([]byte, int, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}
