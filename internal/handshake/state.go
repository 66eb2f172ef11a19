package handshake

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/JackVitick/Socialync/internal/providers"
)

var (
	ErrStateInvalid = errors.New("handshake: state signature or claims invalid")
	ErrStateExpired = errors.New("handshake: state expired")
)

// StateAudience marca los JWT de state. Un state nunca debe aceptarse como sesión.
const StateAudience = "oauth_state"

// DeriveStateKey deriva la clave de states a partir de la clave de sesión,
// de modo que un mismo secreto nunca firma ambos tipos de token.
func DeriveStateKey(sessionKey []byte) []byte {
	if len(sessionKey) == 0 {
		return nil
	}
	mac := hmac.New(sha256.New, sessionKey)
	mac.Write([]byte(StateAudience))
	return mac.Sum(nil)
}

// stateClaims liga el state al platform y al user que iniciaron el flujo.
// Así alterar cualquiera de las tres cookies invalida el intento.
type stateClaims struct {
	Platform string `json:"plt"`
	jwt.RegisteredClaims
}

// StateSigner emite y verifica states firmados HS256 con vida TTL.
type StateSigner struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewStateSigner crea un signer. key vacía genera una clave aleatoria de proceso
// (los states no sobreviven reinicios ni se comparten entre instancias).
func NewStateSigner(key []byte, ttl time.Duration) (*StateSigner, error) {
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("handshake: generate signing key: %w", err)
		}
	}
	if len(key) < 16 {
		return nil, errors.New("handshake: signing key must be at least 16 bytes")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &StateSigner{key: key, ttl: ttl, now: time.Now}, nil
}

// Issue genera un state nuevo para (platform, userID).
func (s *StateSigner) Issue(platform providers.Platform, userID string) (string, error) {
	nonce, err := NewState()
	if err != nil {
		return "", err
	}
	now := s.now()
	claims := stateClaims{
		Platform: string(platform),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			Subject:   userID,
			Audience:  jwt.ClaimStrings{StateAudience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}

// Ticket identifica un state verificado: jti y vencimiento.
type Ticket struct {
	ID        string
	ExpiresAt time.Time
}

// Verify comprueba firma, expiración y que platform/userID sean los del state.
func (s *StateSigner) Verify(state string, platform providers.Platform, userID string) (Ticket, error) {
	var claims stateClaims
	_, err := jwt.ParseWithClaims(state, &claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
		jwt.WithAudience(StateAudience),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Ticket{}, ErrStateExpired
	case err != nil:
		return Ticket{}, fmt.Errorf("%w: %v", ErrStateInvalid, err)
	}
	if claims.Platform != string(platform) || claims.Subject != userID || claims.ID == "" {
		return Ticket{}, ErrStateInvalid
	}
	return Ticket{ID: claims.ID, ExpiresAt: claims.ExpiresAt.Time}, nil
}
