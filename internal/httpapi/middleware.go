package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mdrakibmia99/hospital-management-system-server/internal/apperr"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/auth"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/metrics"
	"github.com/mdrakibmia99/hospital-management-system-server/internal/models"
)

const (
	decodedEmailKey = "decodedEmail"
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
)

// TokenVerifier validates a bearer token and returns its email.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// verifyJWT rejects requests without a valid bearer token and stores the
// token's email under decodedEmailKey.
func (a *API) verifyJWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := auth.BearerToken(c.GetHeader("Authorization"))
		if tokenStr == "" {
			a.respondError(c, apperr.Unauthenticated("unauthorized access"))
			return
		}

		email, err := a.tokens.Verify(tokenStr)
		if err != nil {
			a.respondError(c, err)
			return
		}
		c.Set(decodedEmailKey, email)
		c.Next()
	}
}

// verifyAdmin must run after verifyJWT.
func (a *API) verifyAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email, ok := callerEmail(c)
		if !ok {
			a.respondError(c, apperr.Unauthenticated("unauthorized access"))
			return
		}
		if err := a.directory.Guard().RequireRole(c.Request.Context(), models.RoleAdmin, email); err != nil {
			a.respondError(c, err)
			return
		}
		c.Next()
	}
}

func callerEmail(c *gin.Context) (string, bool) {
	email := c.GetString(decodedEmailKey)
	return email, email != ""
}

// requestLogger tags each request with an id and logs its outcome.
func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := requestID(c.GetHeader(requestIDHeader))
		c.Set(requestIDKey, reqID)
		c.Header(requestIDHeader, reqID)

		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		if status >= 500 {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("route", c.FullPath()).
			Int("status", status).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Str("request_id", reqID).
			Str("remote_ip", c.ClientIP()).
			Msg("request completed")
	}
}

// requestID keeps a caller-supplied id only when it is a well-formed UUID.
func requestID(header string) string {
	if id, err := uuid.Parse(header); err == nil {
		return id.String()
	}
	return uuid.NewString()
}

func observeRequests(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start).Seconds())
	}
}
