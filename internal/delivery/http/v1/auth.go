package v1

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/services"
)

const (
	accessTokenCookie  = "access_token"
	refreshTokenCookie = "refresh_token"
)

type loginRequest struct {
	Email    string `json:"email" form:"email" binding:"required,email,max=255"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleLogin(c *gin.Context) {
	var req loginRequest
	err := c.ShouldBind(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind request body")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
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

	result, err := h.auth.Login(c, services.LoginParams{
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to login")
		switch {
		case errors.Is(err, services.ErrUserNotFound),
			errors.Is(err, services.ErrUserPasswordMismatch):
			abort(c, newUnauthorizedError("invalid email or password"))
		default:
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	setSessionCookies(c, result)
	c.JSON(http.StatusOK, newAuthResponse(result))
}

func (h *handlerImpl) HandleRefresh(c *gin.Context) {
	refreshToken, err := c.Cookie(refreshTokenCookie)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to get refresh token cookie")
		abort(c, newBadRequestError(errMandatoryCookieNotFound.Error()))
		return
	}

	result, err := h.refreshSession(c, refreshToken)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to refresh session")
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newUnauthorizedError(errUnauthenticated.Error()))
			return
		}
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newAuthResponse(result))
}

// refreshSession rotates the session behind refreshToken and sets the new
// cookies on success.
func (h *handlerImpl) refreshSession(c *gin.Context, refreshToken string) (*services.LoginResult, error) {
	fingerprint, err := generateFingerprint(c)
	if err != nil {
		return nil, err
	}

	result, err := h.auth.Refresh(c, services.RefreshParams{
		RefreshToken: refreshToken,
		Fingerprint:  fingerprint,
	})
	if err != nil {
		return nil, err
	}

	setSessionCookies(c, result)
	return result, nil
}

type registerRequest struct {
	Name string `json:"name" form:"name" binding:"required,max=255"`
	loginRequest
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}
	h.logger.Info().
		Str("email", req.Email).
		Msg("register request")

	fingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	result, err := h.auth.Register(c, services.RegisterParams{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Fingerprint: fingerprint,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to register user")
		abort(c, serviceError(err))
		return
	}

	setSessionCookies(c, result)
	c.JSON(http.StatusCreated, newAuthResponse(result))
}

// HandleSession re-issues the access token so that it reflects the
// current profile of the caller.
func (h *handlerImpl) HandleSession(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		abort(c, newUnauthorizedError(errUnauthenticated.Error()))
		return
	}

	result, err := h.auth.ReissueAccessToken(c, identity)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", identity.UserID).
			Msg("failed to reissue access token")
		abort(c, serviceError(err))
		return
	}

	setAccessTokenCookie(c, result.AccessToken, time.Until(result.AccessTokenExpiresAt))
	c.JSON(http.StatusOK, newAuthResponse(result))
}

func (h *handlerImpl) HandleLogout(c *gin.Context) {
	identity, ok := identityFromContext(c)
	if !ok {
		abort(c, newUnauthorizedError(errUnauthenticated.Error()))
		return
	}

	err := h.auth.Logout(c, identity.UserID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to logout")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	clearSessionCookies(c)
	c.Status(http.StatusNoContent)
}

func newAuthResponse(result *services.LoginResult) authResponse {
	return authResponse{
		User:        newUserResponse(result.User),
		AccessToken: result.AccessToken,
		ExpiresAt:   result.AccessTokenExpiresAt,
	}
}

func generateFingerprint(c *gin.Context) (string, error) {
	fingerprintBytes, err := json.Marshal(map[string]string{
		"client_ip":  c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal json: %w", err)
	}
	return string(fingerprintBytes), nil
}

func setSessionCookies(c *gin.Context, result *services.LoginResult) {
	now := time.Now()
	setAccessTokenCookie(c, result.AccessToken, result.AccessTokenExpiresAt.Sub(now))
	if result.RefreshToken != "" {
		setRefreshTokenCookie(c, result.RefreshToken, result.RefreshTokenExpiresAt.Sub(now))
	}
}

func setAccessTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	// httpOnly must be false to allow client-side JavaScript
	// to read the cookie and send it in the Authorization header.
	const secure, httpOnly = false, false
	c.SetCookie(accessTokenCookie, token, int(maxAge.Seconds()),
		"/", "", secure, httpOnly)
}

func setRefreshTokenCookie(c *gin.Context, token string, maxAge time.Duration) {
	const secure, httpOnly = false, true
	c.SetCookie(refreshTokenCookie, token, int(maxAge.Seconds()),
		"/", "", secure, httpOnly)
}

func clearSessionCookies(c *gin.Context) {
	clearCookie(c, accessTokenCookie)
	clearCookie(c, refreshTokenCookie)
}

func clearCookie(c *gin.Context, name string) {
	c.SetCookie(name, "", -1,
		"/", "", false, false)
}
