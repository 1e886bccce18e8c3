package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"message-admin/internal/domain"
	"message-admin/internal/service"
)

// MessageAPIHandler expone el CRUD de mensajes como JSON.
type MessageAPIHandler struct {
	logger   *zap.Logger
	messages *service.MessageService
}

func NewMessageAPIHandler(logger *zap.Logger, messages *service.MessageService) *MessageAPIHandler {
	return &MessageAPIHandler{logger: logger, messages: messages}
}

// ListMessages maneja GET /api/messages.
func (h *MessageAPIHandler) ListMessages(c *gin.Context) {
	messages, err := h.messages.List(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

// GetMessage maneja GET /api/messages/:id.
func (h *MessageAPIHandler) GetMessage(c *gin.Context) {
	id, ok := parseMessageID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	msg, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// CreateMessage maneja POST /api/messages.
func (h *MessageAPIHandler) CreateMessage(c *gin.Context) {
	var req service.MessageInput
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	req = service.NormalizeMessageInput(req)
	if errs := service.ValidateMessage(req); errs != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": errs})
		return
	}

	msg, err := h.messages.Create(c.Request.Context(), domain.MessageDraft{MessageText: req.MessageText})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": msg})
}

// UpdateMessage maneja PATCH /api/messages/:id.
func (h *MessageAPIHandler) UpdateMessage(c *gin.Context) {
	id, ok := parseMessageID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	var req domain.MessagePatch
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	if req.MessageText != nil {
		if errs := service.ValidateMessage(service.NormalizeMessageInput(service.MessageInput{MessageText: *req.MessageText})); errs != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation failed", "fields": errs})
			return
		}
	}

	msg, err := h.messages.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msg})
}

// DeleteMessage maneja DELETE /api/messages/:id.
func (h *MessageAPIHandler) DeleteMessage(c *gin.Context) {
	id, ok := parseMessageID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	if err := h.messages.Delete(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageAPIHandler) writeError(c *gin.Context, err error) {
	status := statusForError(err)
	if status == http.StatusInternalServerError && domain.KindOf(err) == domain.KindUnknown {
		h.logger.Error("message api failed", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
