package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"message-admin/internal/domain"
	"message-admin/internal/service"
	"message-admin/internal/view"
)

const newMessageParam = "new"

// MessageHandler sirve las páginas HTML del panel de mensajes.
type MessageHandler struct {
	logger   *zap.Logger
	messages *service.MessageService
}

// NewMessageHandler crea una instancia de MessageHandler con dependencias necesarias.
func NewMessageHandler(logger *zap.Logger, messages *service.MessageService) *MessageHandler {
	return &MessageHandler{logger: logger, messages: messages}
}

// ListPage maneja GET /app y GET /app/messages.
func (h *MessageHandler) ListPage(c *gin.Context) {
	token := sessionToken(c)
	messages, err := h.messages.List(c.Request.Context())
	if err != nil {
		h.renderError(c, err, token)
		return
	}
	c.HTML(http.StatusOK, "list", view.NewListView(messages, token))
}

// FormPage maneja GET /app/messages/:id, con :id = "new" o un id numérico.
func (h *MessageHandler) FormPage(c *gin.Context) {
	token := sessionToken(c)
	if c.Param("id") == newMessageParam {
		c.HTML(http.StatusOK, "form", view.NewFormView(domain.Message{}, false, token))
		return
	}
	id, ok := parseMessageID(c.Param("id"))
	if !ok {
		h.renderNotFound(c, token)
		return
	}
	msg, err := h.messages.Get(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, err, token)
		return
	}
	c.HTML(http.StatusOK, "form", view.NewFormView(msg, true, token))
}

// Submit maneja POST /app/messages/:id: action=delete borra, cualquier otro payload guarda.
func (h *MessageHandler) Submit(c *gin.Context) {
	token := sessionToken(c)
	isNew := c.Param("id") == newMessageParam
	var id int64
	if !isNew {
		var ok bool
		if id, ok = parseMessageID(c.Param("id")); !ok {
			h.renderNotFound(c, token)
			return
		}
	}

	if c.PostForm("action") == "delete" {
		if isNew {
			c.HTML(http.StatusBadRequest, "error", view.NewErrorView(http.StatusBadRequest, "Invalid request", "A message that was never saved cannot be deleted.", token))
			return
		}
		if err := h.messages.Delete(c.Request.Context(), id); err != nil {
			h.renderError(c, err, token)
			return
		}
		c.Redirect(http.StatusSeeOther, view.WithToken(view.ListPath, token))
		return
	}

	var input service.MessageInput
	if err := c.ShouldBind(&input); err != nil {
		h.logger.Warn("invalid message form", zap.Error(err))
		c.HTML(http.StatusBadRequest, "error", view.NewErrorView(http.StatusBadRequest, "Invalid request", "The form could not be read.", token))
		return
	}
	submitted := input
	input = service.NormalizeMessageInput(input)

	if errs := service.ValidateMessage(input); errs != nil {
		saved := domain.Message{}
		if !isNew {
			msg, err := h.messages.Get(c.Request.Context(), id)
			if err != nil {
				h.renderError(c, err, token)
				return
			}
			saved = msg
		}
		form := view.NewFormView(saved, !isNew, token).
			WithSubmission(view.MessageFields{MessageText: submitted.MessageText}, errs)
		c.HTML(http.StatusUnprocessableEntity, "form", form)
		return
	}

	var (
		msg domain.Message
		err error
	)
	if isNew {
		msg, err = h.messages.Create(c.Request.Context(), domain.MessageDraft{MessageText: input.MessageText})
	} else {
		msg, err = h.messages.Update(c.Request.Context(), id, domain.MessagePatch{MessageText: &input.MessageText})
	}
	if err != nil {
		h.renderError(c, err, token)
		return
	}
	c.Redirect(http.StatusSeeOther, view.WithToken(view.MessagePath(msg.ID), token))
}

// Delete maneja DELETE /messages/:id, usado por la fila de la lista.
func (h *MessageHandler) Delete(c *gin.Context) {
	id, ok := parseMessageID(c.Param("id"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message id"})
		return
	}
	if err := h.messages.Delete(c.Request.Context(), id); err != nil {
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *MessageHandler) renderNotFound(c *gin.Context, token string) {
	c.HTML(http.StatusNotFound, "error", view.NewErrorView(http.StatusNotFound, "Message not found", "The message you are looking for does not exist.", token))
}

func (h *MessageHandler) renderError(c *gin.Context, err error, token string) {
	status := statusForError(err)
	switch status {
	case http.StatusNotFound:
		h.renderNotFound(c, token)
	case http.StatusBadRequest:
		c.HTML(status, "error", view.NewErrorView(status, "Invalid request", err.Error(), token))
	default:
		h.logger.Error("message page failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
		c.HTML(status, "error", view.NewErrorView(status, "Something went wrong", "The request could not be completed. Try again later.", token))
	}
}

// statusForError traduce el ErrorKind al status HTTP.
func statusForError(err error) int {
	switch domain.KindOf(err) {
	case domain.KindInvalidArgument:
		return http.StatusBadRequest
	case domain.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// parseMessageID acepta solo enteros positivos.
func parseMessageID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func sessionToken(c *gin.Context) string {
	session, _ := GetAdminSession(c)
	return session.Token
}
