// Package identity resuelve el usuario interno que hace el request.
//
// La resolución es una cadena ordenada de resolvers con nombre; gana el primero
// que devuelve un user id. El orden es configuración (identity.resolvers), no
// flujo implícito, así los tests pueden sustituir resolvers.
package identity

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/JackVitick/Socialync/internal/observability/logger"
)

// Resolver intenta extraer un user id del request.
type Resolver interface {
	Name() string
	Resolve(r *http.Request) (userID string, ok bool)
}

// Result identifica quién resolvió.
type Result struct {
	UserID   string
	Resolver string
	// Authoritative es false para identidades no verificadas por el servidor.
	Authoritative bool
}

// nonAuthoritative lo implementan resolvers cuya identidad no se verifica.
type nonAuthoritative interface {
	nonAuthoritative()
}

// Chain prueba los resolvers en orden.
type Chain struct {
	resolvers []Resolver
}

func NewChain(resolvers ...Resolver) *Chain {
	return &Chain{resolvers: resolvers}
}

// Resolve devuelve el primer user id encontrado, o ok=false si ninguno resolvió.
func (c *Chain) Resolve(r *http.Request) (Result, bool) {
	for _, res := range c.resolvers {
		uid, ok := res.Resolve(r)
		uid = strings.TrimSpace(uid)
		if !ok || uid == "" {
			continue
		}
		_, weak := res.(nonAuthoritative)
		if weak {
			logger.From(r.Context()).Warn("identity resolved from client-supplied value",
				logger.Component("identity"),
				logger.Resolver(res.Name()),
				logger.UserID(uid),
			)
		}
		return Result{UserID: uid, Resolver: res.Name(), Authoritative: !weak}, true
	}
	return Result{}, false
}

// Names lista los resolvers en orden (diagnóstico).
func (c *Chain) Names() []string {
	out := make([]string, 0, len(c.resolvers))
	for _, r := range c.resolvers {
		out = append(out, r.Name())
	}
	return out
}

// Options alimenta Build.
type Options struct {
	SessionCookie  string
	SessionKey     []byte
	FallbackCookie string
	ClientHeader   string
}

// Build arma la cadena a partir de nombres: "session", "cookie", "client".
func Build(names []string, o Options) (*Chain, error) {
	rs := make([]Resolver, 0, len(names))
	for _, n := range names {
		switch n {
		case "session":
			if len(o.SessionKey) == 0 {
				logger.L().Warn("session resolver configured without signing key; it will never resolve",
					logger.Component("identity"))
			}
			rs = append(rs, NewSessionResolver(o.SessionCookie, o.SessionKey))
		case "cookie":
			rs = append(rs, CookieResolver{Cookie: o.FallbackCookie})
		case "client":
			rs = append(rs, ClientHintResolver{Header: o.ClientHeader})
		default:
			return nil, fmt.Errorf("identity: unknown resolver %q", n)
		}
	}
	return NewChain(rs...), nil
}

// CookieResolver lee una cookie de identidad de respaldo.
type CookieResolver struct {
	Cookie string
}

func (c CookieResolver) Name() string { return "cookie" }

func (c CookieResolver) Resolve(r *http.Request) (string, bool) {
	ck, err := r.Cookie(c.Cookie)
	if err != nil || ck.Value == "" {
		return "", false
	}
	return ck.Value, true
}

// ClientHintResolver lee la identidad que el cliente tiene cacheada localmente.
// No es autoritativa: el servidor no puede verificarla.
type ClientHintResolver struct {
	Header string
}

func (ClientHintResolver) Name() string      { return "client" }
func (ClientHintResolver) nonAuthoritative() {}

func (c ClientHintResolver) Resolve(r *http.Request) (string, bool) {
	v := strings.TrimSpace(r.Header.Get(c.Header))
	return v, v != ""
}

// Func adapta una función a Resolver (tests y wiring ad hoc).
type Func struct {
	ResolverName string
	Fn           func(r *http.Request) (string, bool)
}

func (f Func) Name() string                          { return f.ResolverName }
func (f Func) Resolve(r *http.Request) (string, bool) { return f.Fn(r) }
