// Package health contiene los controllers de /readyz y /api/info.
package health

import (
	"context"
	"net/http"

	dto "github.com/JackVitick/Socialync/internal/http/dto/health"
	"github.com/JackVitick/Socialync/internal/http/helpers"
)

// Service es lo que el controller usa de health.Service.
type Service interface {
	Check(ctx context.Context) dto.HealthResponse
	Info(ctx context.Context) dto.InfoResponse
}

type HealthController struct {
	service Service
}

func NewHealthController(service Service) *HealthController {
	return &HealthController{service: service}
}

// Readyz responde 503 si algún componente crítico no responde.
func (c *HealthController) Readyz(w http.ResponseWriter, r *http.Request) {
	resp := c.service.Check(r.Context())
	status := http.StatusOK
	if resp.Status != "ready" {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, resp)
}

func (c *HealthController) Info(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, c.service.Info(r.Context()))
}
