package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/patch"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

func (h *handlerImpl) HandleGetCategories(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	categories, err := h.categories.ListCategories(c, caller.ID)
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	response := make([]categoryResponse, len(categories))
	for i, category := range categories {
		response[i] = newCategoryResponse(category)
	}
	c.JSON(http.StatusOK, response)
}

type createCategoryRequest struct {
	Name  string `json:"name" binding:"max=255"`
	Color string `json:"color" binding:"max=64"`
}

func (h *handlerImpl) HandleCreateCategory(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	var req createCategoryRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	category, err := h.categories.CreateCategory(c, services.CreateCategoryParams{
		UserID: caller.ID,
		Name:   req.Name,
		Color:  req.Color,
	})
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusCreated, newCategoryResponse(category))
}

func (h *handlerImpl) HandleGetCategory(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	category, err := h.categories.GetCategory(c, caller.ID, c.Param("id"))
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newCategoryResponse(category))
}

type updateCategoryRequest struct {
	Name  patch.Field[string] `json:"name"`
	Color patch.Field[string] `json:"color"`
}

func (h *handlerImpl) HandleUpdateCategory(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	var req updateCategoryRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	category, err := h.categories.UpdateCategory(c, services.UpdateCategoryParams{
		UserID:     caller.ID,
		CategoryID: c.Param("id"),
		Name:       req.Name,
		Color:      req.Color,
	})
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newCategoryResponse(category))
}

func (h *handlerImpl) HandleDeleteCategory(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	err := h.categories.DeleteCategory(c, caller.ID, c.Param("id"))
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, successResponse{Success: true})
}
