package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"duobot/internal/domain"
	"duobot/internal/service"
)

// ChatHandler atiende los endpoints del diálogo conversacional.
type ChatHandler struct {
	logger  *zap.Logger
	chatSvc *service.ChatService
}

// NewChatHandler crea una instancia de ChatHandler.
func NewChatHandler(logger *zap.Logger, chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{logger: logger, chatSvc: chatSvc}
}

// Chat maneja POST /chat.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req struct {
		Text        string `json:"text"`
		UID         string `json:"uid"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"reply": domain.Reply{Text: "Please send some text!", Options: []string{}},
		})
		return
	}

	uid := strings.TrimSpace(req.UID)
	if uid == "" {
		uid = "guest_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}
	name := strings.TrimSpace(req.DisplayName)
	if name == "" {
		name = "Guest"
	}

	reply, state := h.chatSvc.HandleMessage(c.Request.Context(), uid, name, text)

	c.JSON(http.StatusOK, gin.H{
		"reply":   reply,
		"context": state,
		"user":    uid,
	})
}

// Reset maneja POST /reset.
func (h *ChatHandler) Reset(c *gin.Context) {
	var req struct {
		UID string `json:"uid" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid reset request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing uid"})
		return
	}

	h.chatSvc.Reset(c.Request.Context(), strings.TrimSpace(req.UID))
	c.JSON(http.StatusOK, gin.H{
		"status":  "reset",
		"message": "conversation cleared successfully",
	})
}
