package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"message-admin/internal/service"
	"message-admin/internal/view"
)

const requestIDKey = "request_id"

// NewRouter configura el router de Gin con middlewares y rutas del panel.
func NewRouter(
	logger *zap.Logger,
	auth AdminAuthenticator,
	loginURL string,
	limiter service.MutationRateLimiter,
	messageH *MessageHandler,
	apiH *MessageAPIHandler,
	healthH *HealthHandler,
) *gin.Engine {
	r := gin.New()
	r.SetHTMLTemplate(view.Templates())

	// Middlewares basicos: request id, logging y recovery.
	r.Use(requestIDMiddleware(), zapLoggerMiddleware(logger), gin.Recovery())

	requireAdmin := AdminAuthMiddleware(logger, auth, loginURL)
	limitMutations := MutationRateLimitMiddleware(limiter)

	r.GET("/healthz", healthH.Check)

	// Shopify abre la app en la URL raíz con id_token y shop en el query.
	r.GET("/", func(c *gin.Context) {
		target := "/app"
		if raw := c.Request.URL.RawQuery; raw != "" {
			target += "?" + raw
		}
		c.Redirect(http.StatusFound, target)
	})

	app := r.Group("/app", requireAdmin)
	app.GET("", messageH.ListPage)
	mountMessagePages(app.Group("/messages"), messageH, limitMutations)

	mountMessagePages(r.Group("/messages", requireAdmin), messageH, limitMutations)

	api := r.Group("/api", jsonContentTypeMiddleware(), requireAdmin)
	api.GET("/messages", apiH.ListMessages)
	api.GET("/messages/:id", apiH.GetMessage)
	api.POST("/messages", limitMutations, apiH.CreateMessage)
	api.PATCH("/messages/:id", limitMutations, apiH.UpdateMessage)
	api.DELETE("/messages/:id", limitMutations, apiH.DeleteMessage)

	return r
}

func mountMessagePages(g *gin.RouterGroup, h *MessageHandler, limitMutations gin.HandlerFunc) {
	g.GET("", h.ListPage)
	g.GET("/:id", h.FormPage)
	g.POST("/:id", limitMutations, h.Submit)
	g.DELETE("/:id", limitMutations, h.Delete)
}

// requestIDMiddleware reutiliza X-Request-ID si viene en el request o genera uno.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
			zap.String("request_id", c.GetString(requestIDKey)),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
