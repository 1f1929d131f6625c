package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"duobot/internal/domaincheck"
)

// DomainHandler atiende la verificación de disponibilidad de dominios.
type DomainHandler struct {
	logger *zap.Logger
	prober *domaincheck.Prober
}

// NewDomainHandler crea una instancia de DomainHandler.
func NewDomainHandler(logger *zap.Logger, prober *domaincheck.Prober) *DomainHandler {
	return &DomainHandler{logger: logger, prober: prober}
}

// Check maneja GET|POST /domaincheck. En GET los parámetros llegan por query
// (tlds separados por coma); en POST por body JSON.
func (h *DomainHandler) Check(c *gin.Context) {
	var base string
	var tlds []string

	if c.Request.Method == http.MethodGet {
		base = c.Query("domain")
		if raw := strings.TrimSpace(c.Query("tlds")); raw != "" {
			for _, t := range strings.Split(raw, ",") {
				if t = strings.TrimSpace(t); t != "" {
					tlds = append(tlds, t)
				}
			}
		}
	} else {
		var req struct {
			Domain string   `json:"domain"`
			TLDs   []string `json:"tlds"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("invalid domaincheck request", zap.Error(err))
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		base = req.Domain
		tlds = req.TLDs
	}

	base = strings.ToLower(strings.TrimSpace(base))
	if base == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing domain parameter"})
		return
	}

	results := h.prober.CheckAll(c.Request.Context(), base, tlds)
	c.JSON(http.StatusOK, gin.H{
		"base":    base,
		"domains": results,
	})
}
