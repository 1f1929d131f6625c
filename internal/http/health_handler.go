package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Pinger abstrae el ping al almacenamiento de respaldo.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responde liveness con un ping best-effort a la base.
type HealthHandler struct {
	logger *zap.Logger
	pinger Pinger
}

// NewHealthHandler crea una instancia de HealthHandler. pinger puede ser nil.
func NewHealthHandler(logger *zap.Logger, pinger Pinger) *HealthHandler {
	return &HealthHandler{logger: logger, pinger: pinger}
}

// Health maneja GET /health. Devuelve 200 siempre: un ping fallido se
// registra pero no se propaga.
func (h *HealthHandler) Health(c *gin.Context) {
	if h.pinger != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.pinger.Ping(ctx); err != nil {
			h.logger.Warn("health db ping failed", zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
