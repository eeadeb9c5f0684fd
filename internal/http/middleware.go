package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"whisperlink/internal/auth"
	"whisperlink/internal/service"
)

const sessionContextKey = "whisperlink.session"

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		h.logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

// requireSession resolves the session cookie into an explicit Session and
// aborts with the failure envelope when it is missing or invalid.
func (h *Handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := h.sessionFromCookie(c)
		if sess == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   service.ErrNotAuthenticated.Error(),
			})
			return
		}
		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

func (h *Handler) sessionFromCookie(c *gin.Context) *auth.Session {
	token, err := c.Cookie(sessionCookie)
	if err != nil || token == "" {
		return nil
	}
	sess, err := h.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return sess
}

func currentSession(c *gin.Context) *auth.Session {
	v, ok := c.Get(sessionContextKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*auth.Session)
	return sess
}
