package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/services"
)

var (
	errInvalidRequestBody      = errors.New("invalid request body")
	errMandatoryCookieNotFound = errors.New("mandatory cookie not found")
	errUnauthenticated         = errors.New("unauthenticated")
	errInvalidTimezone         = errors.New("invalid timezone")
)

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func newAPIError(code int, message string) apiError {
	return apiError{
		Code:    code,
		Message: message,
	}
}

func (e apiError) Error() string {
	return e.Message
}

func abort(c *gin.Context, err apiError) {
	c.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
}

func newStatusTextError(status int) apiError {
	return newAPIError(status, http.StatusText(status))
}

func newBadRequestError(message string) apiError {
	return newAPIError(http.StatusBadRequest, message)
}

func newUnauthorizedError(message string) apiError {
	return newAPIError(http.StatusUnauthorized, message)
}

func newForbiddenError(message string) apiError {
	return newAPIError(http.StatusForbidden, message)
}

func newNotFoundError(message string) apiError {
	return newAPIError(http.StatusNotFound, message)
}

func newConflictError(message string) apiError {
	return newAPIError(http.StatusConflict, message)
}

// serviceError maps an error returned by a service to a response.
// Unknown errors become a bare 500.
func serviceError(err error) apiError {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return newBadRequestError(err.Error())
	case errors.Is(err, services.ErrForbidden):
		return newForbiddenError(services.ErrForbidden.Error())
	case errors.Is(err, services.ErrTaskNotFound):
		return newNotFoundError(services.ErrTaskNotFound.Error())
	case errors.Is(err, services.ErrSubtaskNotFound):
		return newNotFoundError(services.ErrSubtaskNotFound.Error())
	case errors.Is(err, services.ErrCategoryNotFound):
		return newNotFoundError(services.ErrCategoryNotFound.Error())
	case errors.Is(err, services.ErrUserNotFound):
		return newNotFoundError(services.ErrUserNotFound.Error())
	case errors.Is(err, services.ErrUserAlreadyExists):
		return newConflictError(services.ErrUserAlreadyExists.Error())
	case errors.Is(err, services.ErrUserPasswordMismatch),
		errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrSessionExpired),
		errors.Is(err, services.ErrFingerprintMismatch),
		errors.Is(err, services.ErrTokenExpired),
		errors.Is(err, services.ErrInvalidToken):
		return newUnauthorizedError(errUnauthenticated.Error())
	default:
		return newStatusTextError(http.StatusInternalServerError)
	}
}
