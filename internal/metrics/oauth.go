// Package metrics expone los collectors Prometheus del flujo de conexión.
// Vive en un paquete propio para que services y adapters puedan registrar
// métricas sin importar la capa HTTP.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// OAuthStartTotal cuenta inicios de autorización por resultado
	// (redirected | unknown_platform | missing_credentials | unauthenticated | error).
	OAuthStartTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialsync_oauth_start_total",
		Help: "Inicios de autorización OAuth por plataforma y resultado",
	}, []string{"platform", "result"})

	// OAuthCallbackTotal cuenta callbacks por resultado (connected o la clase de error).
	OAuthCallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialsync_oauth_callback_total",
		Help: "Callbacks OAuth por plataforma y resultado",
	}, []string{"platform", "result"})

	ProviderRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "socialsync_provider_request_duration_seconds",
		Help:    "Latencia de llamadas a APIs de proveedores",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"platform", "operation", "outcome"})

	PostDispatchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "socialsync_post_dispatch_total",
		Help: "Publicaciones despachadas por plataforma y resultado",
	}, []string{"platform", "result"})
)

// Register registra los collectors en reg (o el default si es nil).
// Registrar dos veces no es error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		OAuthStartTotal,
		OAuthCallbackTotal,
		ProviderRequestDuration,
		PostDispatchTotal,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}

// ObserveProviderCall registra la duración de una llamada saliente a un proveedor.
func ObserveProviderCall(platform, operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	ProviderRequestDuration.WithLabelValues(platform, operation, outcome).Observe(time.Since(start).Seconds())
}
