package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"notable/internal/domain"
	"notable/internal/service"
)

// AuthContext carries the authenticated user's id through a request. It is
// attached by the session middleware and read back through currentAuth, so
// handlers never touch ambient session state directly.
type AuthContext struct {
	UserID int64
}

const authContextKey = "notable.auth"

func setAuthContext(c *gin.Context, auth AuthContext) {
	c.Set(authContextKey, auth)
}

func currentAuth(c *gin.Context) (AuthContext, bool) {
	v, ok := c.Get(authContextKey)
	if !ok {
		return AuthContext{}, false
	}
	auth, ok := v.(AuthContext)
	return auth, ok
}

// statusForKind is the single mapping from domain error kinds to HTTP
// status codes, consulted only by the error mapper.
var statusForKind = map[domain.ErrorKind]int{
	domain.KindValidation:    http.StatusBadRequest,
	domain.KindAuth:          http.StatusUnauthorized,
	domain.KindAuthorization: http.StatusUnauthorized,
	domain.KindNotFound:      http.StatusNotFound,
	domain.KindRouteNotFound: http.StatusNotFound,
	domain.KindInternal:      http.StatusInternalServerError,
}

// fail records err on the request and stops the handler chain; the error
// mapper turns it into a response.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// errorMapper is the catch-all for failures raised along the handling
// path. Recognized domain errors reveal their message and mapped status;
// everything else collapses to a generic 500 and is logged for operators.
func errorMapper(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := http.StatusInternalServerError
		message := "An unknown error occurred"

		if de, ok := domain.AsError(err); ok && de.Kind != domain.KindInternal {
			status = statusForKind[de.Kind]
			message = de.Message
		} else {
			logger.WithError(err).Error("unhandled request error")
		}

		c.JSON(status, gin.H{"error": message})
	}
}

// requestLogger logs one line per request: method, path, status, latency.
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}

func corsMiddleware(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// loadSession resolves the session cookie, if any, into an AuthContext and
// slides the session's idle deadline. A bad or expired cookie just leaves
// the request anonymous; the guard decides whether that matters.
func (h *Handler) loadSession(c *gin.Context) {
	cookie, err := c.Cookie(sessionCookieName)
	if err != nil || cookie == "" {
		c.Next()
		return
	}

	session, err := h.sessions.Resolve(c.Request.Context(), cookie)
	if err != nil {
		if errors.Is(err, service.ErrInvalidSession) {
			h.clearSessionCookie(c)
			c.Next()
			return
		}
		fail(c, err)
		return
	}

	setAuthContext(c, AuthContext{UserID: session.UserID})
	h.setSessionCookie(c, cookie)
	c.Next()
}

// requireAuth is the single enforcement point for "must be logged in".
func requireAuth(c *gin.Context) {
	if _, ok := currentAuth(c); !ok {
		fail(c, domain.AuthorizationError("Not authenticated"))
		return
	}
	c.Next()
}

// mustAuth returns the AuthContext past the guard. A missing context here
// is a programming error, not an auth failure.
func mustAuth(c *gin.Context) (AuthContext, error) {
	auth, ok := currentAuth(c)
	if !ok {
		return AuthContext{}, domain.InternalError("auth context missing past guard", nil)
	}
	return auth, nil
}
