package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"alcyxob/group-fitness/internal/metrics"
	"alcyxob/group-fitness/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	log "github.com/sirupsen/logrus"
)

// Constants for context keys
const (
	ContextUserIDKey = "userID"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			abortWithError(c, http.StatusUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		userID, err := service.ParseToken(parts[1], jwtSecret)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortWithError(c, http.StatusUnauthorized, "Token has expired")
			} else {
				abortWithError(c, http.StatusUnauthorized, "Invalid token")
			}
			return
		}

		// Set user information in the context for downstream handlers
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// Helper to return JSON error response and abort request
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"error": message})
}

// Helper function to get User ID from context (used by handlers)
func getUserIDFromContext(c *gin.Context) (string, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return "", errors.New("user ID not found in context")
	}
	idStr, ok := idRaw.(string)
	if !ok || idStr == "" {
		return "", errors.New("invalid user ID type in context")
	}
	return idStr, nil
}

// requireUserID aborts with 401 when the request carries no user.
func requireUserID(c *gin.Context) (string, bool) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return "", false
	}
	return userID, true
}

// RequestLogger logs every request once it has been served.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		})
		if userID, err := getUserIDFromContext(c); err == nil {
			entry = entry.WithField("user", userID)
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			entry.Error("request failed")
		default:
			entry.Debug("request served")
		}
	}
}

// RequestMetrics records request counts and latencies by route.
func RequestMetrics(m *metrics.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		m.GaugeRequests.Inc()
		defer m.GaugeRequests.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		defer func(begin time.Time) {
			m.HistRequestDuration.WithLabelValues(route).Observe(time.Since(begin).Seconds())
		}(time.Now())

		c.Next()

		m.CounterRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
	}
}

// Recovery turns panics into 500 responses.
func Recovery(m *metrics.Manager) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Errorf("panic serving %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		if m != nil {
			m.CounterHandleRequestPanic.Inc()
		}
		abortWithError(c, http.StatusInternalServerError, "internal server error")
	})
}
