package v1

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

const identityCtxKey = "identity"

// HandleAuthMiddleware authenticates the request by the bearer token or,
// failing that, the access token cookie. An expired access token is
// refreshed once using the refresh token cookie.
func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	accessToken, ok := accessTokenFromRequest(c)
	if !ok {
		h.logger.Error().Msg("access token required")
		abort(c, newUnauthorizedError(errUnauthenticated.Error()))
		return
	}

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	identity, err := h.auth.Authenticate(c, services.AuthenticateParams{
		AccessToken: accessToken,
		Fingerprint: fingerprint,
	})
	if errors.Is(err, services.ErrTokenExpired) {
		identity, err = h.authenticateByRefresh(c, fingerprint)
	}
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to authenticate")
		abort(c, serviceError(err))
		return
	}

	c.Set(identityCtxKey, *identity)
	c.Next()
}

func (h *handlerImpl) authenticateByRefresh(c *gin.Context, fingerprint string) (*models.Identity, error) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil || refreshToken == "" {
		return nil, services.ErrTokenExpired
	}

	result, err := h.refreshSession(c, refreshToken)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			return nil, services.ErrSessionNotFound
		}
		return nil, err
	}
	h.logger.Debug().
		Str("session_id", result.SessionID).
		Msg("refreshed expired access token")

	return h.auth.Authenticate(c, services.AuthenticateParams{
		AccessToken: result.AccessToken,
		Fingerprint: fingerprint,
	})
}

func accessTokenFromRequest(c *gin.Context) (string, bool) {
	const authHeader = "Authorization"
	if header := c.GetHeader(authHeader); header != "" {
		const bearerPrefix = "Bearer"
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != bearerPrefix || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}

	token, err := c.Cookie(accessTokenCookie)
	if err != nil || token == "" {
		return "", false
	}
	return token, true
}

func identityFromContext(c *gin.Context) (models.Identity, bool) {
	value, exists := c.Get(identityCtxKey)
	if !exists {
		return models.Identity{}, false
	}
	identity, ok := value.(models.Identity)
	return identity, ok
}

// resolveCaller loads the user behind the request identity. It aborts with
// 401 when there is no identity and 404 when the user no longer exists.
func (h *handlerImpl) resolveCaller(c *gin.Context) (*models.User, bool) {
	identity, ok := identityFromContext(c)
	if !ok {
		h.logger.Error().Msg("no identity found in context")
		abort(c, newUnauthorizedError(errUnauthenticated.Error()))
		return nil, false
	}

	user, err := h.users.GetUser(c, identity.UserID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", identity.UserID).
			Msg("failed to resolve caller")
		abort(c, serviceError(err))
		return nil, false
	}
	return user, true
}

// RequestLogger logs one line per request once it has been handled.
func RequestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		event := logger.Info()
		switch {
		case status >= http.StatusInternalServerError:
			event = logger.Error()
		case status >= http.StatusBadRequest:
			event = logger.Warn()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Str("client_ip", c.ClientIP()).
			Dur("latency", time.Since(start)).
			Msg("handled request")
	}
}
