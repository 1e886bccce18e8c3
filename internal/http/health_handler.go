package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"message-admin/internal/service"
)

// HealthHandler responde al health check del store.
type HealthHandler struct {
	logger   *zap.Logger
	messages *service.MessageService
}

func NewHealthHandler(logger *zap.Logger, messages *service.MessageService) *HealthHandler {
	return &HealthHandler{logger: logger, messages: messages}
}

// Check maneja GET /healthz.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.messages.Ping(ctx); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
