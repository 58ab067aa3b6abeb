package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/go-task-manager/internal/patch"
	"github.com/adanyl0v/go-task-manager/internal/services"
)

type createTaskRequest struct {
	Title       string `json:"title" binding:"max=255"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority"`
	DueDate     string `json:"dueDate"`
	CategoryID  string `json:"categoryId"`
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		UserID:      caller.ID,
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusCreated, newTaskResponse(task))
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	tasks, err := h.tasks.ListTasks(c, caller.ID)
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newTaskResponses(tasks))
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	task, err := h.tasks.GetTask(c, caller.ID, c.Param("id"))
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

type updateTaskRequest struct {
	Title       patch.Field[string] `json:"title"`
	Description patch.Field[string] `json:"description"`
	Completed   patch.Field[bool]   `json:"completed"`
	Priority    patch.Field[string] `json:"priority"`
	DueDate     patch.Field[string] `json:"dueDate"`
	CategoryID  patch.Field[string] `json:"categoryId"`
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	task, err := h.tasks.UpdateTask(c, services.UpdateTaskParams{
		UserID:      caller.ID,
		TaskID:      c.Param("id"),
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteTask(c, caller.ID, c.Param("id"))
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, successResponse{Success: true})
}

type createSubtaskRequest struct {
	Title string `json:"title" binding:"max=255"`
}

func (h *handlerImpl) HandleCreateSubtask(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	var req createSubtaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	subtask, err := h.tasks.CreateSubtask(c, services.CreateSubtaskParams{
		UserID: caller.ID,
		TaskID: c.Param("id"),
		Title:  req.Title,
	})
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusCreated, newSubtaskResponse(subtask))
}

type updateSubtaskRequest struct {
	Title     patch.Field[string] `json:"title"`
	Completed patch.Field[bool]   `json:"completed"`
}

func (h *handlerImpl) HandleUpdateSubtask(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	var req updateSubtaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	subtask, err := h.tasks.UpdateSubtask(c, services.UpdateSubtaskParams{
		UserID:    caller.ID,
		TaskID:    c.Param("id"),
		SubtaskID: c.Param("subtaskId"),
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, newSubtaskResponse(subtask))
}

func (h *handlerImpl) HandleDeleteSubtask(c *gin.Context) {
	caller, ok := h.resolveCaller(c)
	if !ok {
		return
	}

	err := h.tasks.DeleteSubtask(c, caller.ID, c.Param("id"), c.Param("subtaskId"))
	if err != nil {
		abort(c, serviceError(err))
		return
	}

	c.JSON(http.StatusOK, successResponse{Success: true})
}
