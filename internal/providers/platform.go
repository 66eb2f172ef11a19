// Package providers defines the closed set of social platforms socialsync can
// connect, and the immutable registry of their OAuth endpoints and credentials.
//
// El registry se construye una sola vez al arrancar (lee credenciales del
// entorno exactamente una vez) y después es de solo lectura: puede compartirse
// entre goroutines sin locks.
package providers

import (
	"fmt"
)

// Platform identifica una red social soportada.
type Platform string

const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	Twitter   Platform = "twitter"
	TikTok    Platform = "tiktok"
	YouTube   Platform = "youtube"
)

// All lista las plataformas en orden estable (para UIs, CLI y diagnósticos).
var All = []Platform{Facebook, Instagram, Twitter, TikTok, YouTube}

func (p Platform) String() string { return string(p) }

// Valid indica si p pertenece al conjunto cerrado de plataformas.
func (p Platform) Valid() bool {
	for _, k := range All {
		if k == p {
			return true
		}
	}
	return false
}

// UnknownPlatformError se devuelve cuando un identificador no es una plataforma soportada.
type UnknownPlatformError struct {
	Value string
}

func (e *UnknownPlatformError) Error() string {
	return fmt.Sprintf("providers: unknown platform %q", e.Value)
}

// Parse convierte un segmento de path en Platform.
// La comparación es exacta: "Facebook" no es "facebook".
func Parse(s string) (Platform, error) {
	p := Platform(s)
	if !p.Valid() {
		return "", &UnknownPlatformError{Value: s}
	}
	return p, nil
}
