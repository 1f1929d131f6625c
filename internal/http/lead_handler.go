package http

import (
	"crypto/subtle"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"duobot/internal/repository"
	"duobot/internal/service"
)

// LeadHandler expone la superficie administrativa de leads.
type LeadHandler struct {
	logger      *zap.Logger
	leads       repository.LeadRepository
	jwtSvc      *service.JWTService
	adminAPIKey string
}

// NewLeadHandler crea una instancia de LeadHandler.
func NewLeadHandler(
	logger *zap.Logger,
	leads repository.LeadRepository,
	jwtSvc *service.JWTService,
	adminAPIKey string,
) *LeadHandler {
	return &LeadHandler{
		logger:      logger,
		leads:       leads,
		jwtSvc:      jwtSvc,
		adminAPIKey: adminAPIKey,
	}
}

// IssueToken maneja POST /auth/token: canjea la API key por un access token.
func (h *LeadHandler) IssueToken(c *gin.Context) {
	var req struct {
		APIKey string `json:"api_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing api_key"})
		return
	}
	if h.adminAPIKey == "" ||
		subtle.ConstantTimeCompare([]byte(req.APIKey), []byte(h.adminAPIKey)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid api key"})
		return
	}

	token, err := h.jwtSvc.IssueAdminToken()
	if err != nil {
		h.logger.Error("issue admin token failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"expires_in":   int64(h.jwtSvc.TTL().Seconds()),
	})
}

// ListLeads maneja GET /leads (protegido por JWT).
func (h *LeadHandler) ListLeads(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	leads, err := h.leads.ListRecent(c.Request.Context(), limit)
	if err != nil {
		h.logger.Error("list leads failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list leads"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"leads": leads})
}
