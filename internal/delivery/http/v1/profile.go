package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/patch"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

func (h *handlerImpl) HandleGetProfile(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, newUserResponse(caller))
}

type updateProfileRequest struct {
	Name     string              `json:"name" binding:"max=255"`
	Email    string              `json:"email" binding:"required,email,max=255"`
	Image    patch.Field[string] `json:"image"`
	Password string              `json:"password" binding:"max=255"`
}

func (h *handlerImpl) HandleUpdateProfile(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.users.UpdateProfile(c, services.UpdateProfileParams{
		UserID:   caller.ID,
		Name:     req.Name,
		Email:    req.Email,
		Image:    req.Image,
		Password: req.Password,
	})
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newUserResponse(user))
}

func (h *handlerImpl) HandleDeleteProfile(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	err := h.users.DeleteAccount(c, caller.ID)
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	clearSessionCookies(c)
	c.JSON(http.StatusOK, successResponse{Success: true})
}
