package logger

import (
	"time"

	"go.uber.org/zap"
)

// Field es un alias para no importar zap en cada caller.
type Field = zap.Field

// =================================================================================
// HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

// Duration crea un campo para una duración arbitraria.
func Duration(v time.Duration) zap.Field { return zap.Duration("duration", v) }

// =================================================================================
// DOMINIO
// =================================================================================

// Platform identifica la red social involucrada (facebook, twitter, ...).
func Platform(v string) zap.Field { return zap.String("platform", v) }

// UserID identifica al usuario interno de la aplicación.
func UserID(v string) zap.Field { return zap.String("user_id", v) }

// ProviderUserID identifica la cuenta en la red social.
func ProviderUserID(v string) zap.Field { return zap.String("provider_user_id", v) }

// Resolver nombra el resolver de identidad que produjo el user id.
func Resolver(v string) zap.Field { return zap.String("resolver", v) }

// ErrorTag es el tag que viaja en ?error= hacia la página de conexiones.
func ErrorTag(v string) zap.Field { return zap.String("error_tag", v) }

// StateSuffix loguea solo los últimos 8 caracteres del state OAuth
// (el state es un JWT: el prefijo es siempre el mismo header).
func StateSuffix(state string) zap.Field {
	if len(state) > 8 {
		state = state[len(state)-8:]
	}
	return zap.String("state_suffix", state)
}

// =================================================================================
// SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field { return zap.String("component", v) }

// Op crea un campo para la operación actual.
func Op(v string) zap.Field { return zap.String("op", v) }

// Layer crea un campo para la capa (controller, service, store).
func Layer(v string) zap.Field { return zap.String("layer", v) }

// Err crea un campo para un error.
func Err(err error) zap.Field { return zap.Error(err) }

// =================================================================================
// GENÉRICOS
// =================================================================================

func String(key, v string) zap.Field { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
func Bool(key string, v bool) zap.Field { return zap.Bool(key, v) }
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
