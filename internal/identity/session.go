package identity

import (
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// stateAudience es la audiencia de los states firmados por internal/handshake.
const stateAudience = "oauth_state"

// SessionResolver verifica una cookie de sesión HS256 y usa su "sub" como user id.
type SessionResolver struct {
	cookie string
	key    []byte
	now    func() time.Time
}

func NewSessionResolver(cookie string, key []byte) *SessionResolver {
	if cookie == "" {
		cookie = "session"
	}
	return &SessionResolver{cookie: cookie, key: key, now: time.Now}
}

func (s *SessionResolver) Name() string { return "session" }

func (s *SessionResolver) Resolve(r *http.Request) (string, bool) {
	if len(s.key) == 0 {
		return "", false
	}
	ck, err := r.Cookie(s.cookie)
	if err != nil || ck.Value == "" {
		return "", false
	}
	sub, err := s.verify(ck.Value)
	if err != nil {
		return "", false
	}
	return sub, true
}

// sessionClaims expone "plt" para detectar states OAuth presentados como sesión.
type sessionClaims struct {
	Platform string `json:"plt,omitempty"`
	jwt.RegisteredClaims
}

func (s *SessionResolver) verify(raw string) (string, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		return s.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", err
	}
	if claims.Platform != "" || slices.Contains(claims.Audience, stateAudience) {
		return "", errors.New("identity: token is not a session")
	}
	if claims.Subject == "" {
		return "", errors.New("identity: session without subject")
	}
	return claims.Subject, nil
}

// SignSession emite una cookie de sesión válida para userID durante ttl.
// Lo usan el CLI (sesiones de desarrollo) y los tests.
func SignSession(key []byte, userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}
