package http

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"message-admin/internal/domain"
	"message-admin/internal/service"
	"message-admin/internal/view"
)

const adminSessionKey = "admin_session"

// AdminAuthenticator resuelve la sesión de administrador de un request.
type AdminAuthenticator interface {
	AuthenticateAdmin(r *http.Request) (domain.AdminSession, error)
}

// AdminAuthMiddleware exige una sesión de administrador válida y la guarda en el contexto.
func AdminAuthMiddleware(logger *zap.Logger, auth AdminAuthenticator, loginURL string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if auth == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "auth not configured"})
			c.Abort()
			return
		}

		session, err := auth.AuthenticateAdmin(c.Request)
		if err != nil {
			logger.Warn("admin authentication failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			switch {
			case wantsHTML(c) && loginURL != "":
				c.Redirect(http.StatusFound, loginRedirect(loginURL, c.Query("shop")))
			case wantsHTML(c):
				c.HTML(http.StatusUnauthorized, "error", view.NewErrorView(http.StatusUnauthorized, "Unauthorized", "Your session has expired. Reopen the app from the Shopify admin.", ""))
			default:
				c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			}
			c.Abort()
			return
		}

		c.Set(adminSessionKey, session)
		c.Next()
	}
}

// GetAdminSession obtiene la sesión autenticada desde el contexto.
func GetAdminSession(c *gin.Context) (domain.AdminSession, bool) {
	val, ok := c.Get(adminSessionKey)
	if !ok {
		return domain.AdminSession{}, false
	}
	session, ok := val.(domain.AdminSession)
	return session, ok
}

// MutationRateLimitMiddleware limita las escrituras por tienda y operación.
func MutationRateLimitMiddleware(limiter service.MutationRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter == nil {
			c.Next()
			return
		}
		session, _ := GetAdminSession(c)
		shop := session.Shop
		if shop == "" {
			shop = c.ClientIP()
		}
		decision := limiter.Allow(c.Request.Context(), shop, mutationOpFor(c))
		if decision.Limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		}
		if !decision.Allowed {
			wait := retryAfterSeconds(decision.RetryAfter)
			c.Header("Retry-After", strconv.Itoa(wait))
			if wantsHTML(c) {
				msg := fmt.Sprintf("Too many changes in a short time. Try again in %d seconds.", wait)
				c.HTML(http.StatusTooManyRequests, "error", view.NewErrorView(http.StatusTooManyRequests, "Too many requests", msg, session.Token))
			} else {
				c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many requests", "retryAfter": wait})
			}
			c.Abort()
			return
		}
		c.Next()
	}
}

// mutationOpFor clasifica la escritura según método, :id y el campo action del form.
func mutationOpFor(c *gin.Context) service.MutationOp {
	switch c.Request.Method {
	case http.MethodDelete:
		return service.MutationDelete
	case http.MethodPatch, http.MethodPut:
		return service.MutationUpdate
	}
	id := c.Param("id")
	if id == "" {
		return service.MutationCreate
	}
	if c.PostForm("action") == "delete" {
		return service.MutationDelete
	}
	if id == newMessageParam {
		return service.MutationCreate
	}
	return service.MutationUpdate
}

// retryAfterSeconds redondea hacia arriba; Retry-After nunca baja de 1.
func retryAfterSeconds(d time.Duration) int {
	secs := int((d + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}

func loginRedirect(loginURL, shop string) string {
	if shop == "" {
		return loginURL
	}
	sep := "?"
	if strings.Contains(loginURL, "?") {
		sep = "&"
	}
	return loginURL + sep + url.Values{"shop": {shop}}.Encode()
}

func wantsHTML(c *gin.Context) bool {
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		return false
	}
	return strings.Contains(c.GetHeader("Accept"), "text/html")
}
