package api

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vladimiradmaev/tinnitus-helper/internal/domain"
	apperrors "github.com/vladimiradmaev/tinnitus-helper/internal/errors"
	"github.com/vladimiradmaev/tinnitus-helper/internal/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	sessionKey      = "session"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one, and makes
// it available to context loggers
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logger.ContextWithRequestID(c.Request.Context(), id))
		c.Next()
	}
}

// RequestLogger logs one line per request, at a level matching the status
func RequestLogger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []any{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(requestIDKey),
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// RequireToken checks the bearer token. A valid token acts as an admin
// session, since the API serves clinic tooling rather than patients.
func RequireToken(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		got := bearerToken(c.GetHeader("Authorization"))
		if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorEnvelope{
				Error: APIError{
					Message:   "missing or invalid token",
					Code:      apperrors.ErrUnauthorized.Code,
					RequestID: c.GetString(requestIDKey),
				},
			})
			return
		}
		c.Set(sessionKey, domain.Session{Role: domain.RoleAdmin})
		c.Next()
	}
}

func bearerToken(header string) string {
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

func sessionFrom(c *gin.Context) domain.Session {
	if s, ok := c.Get(sessionKey); ok {
		if session, ok := s.(domain.Session); ok {
			return session
		}
	}
	return domain.Session{}
}
