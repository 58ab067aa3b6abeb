package v1

import (
	"time"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/views"
)

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newUserResponse(user *models.User) userResponse {
	return userResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Image:     user.Image,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

type categoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     *string   `json:"color"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newCategoryResponse(category *models.Category) categoryResponse {
	return categoryResponse{
		ID:        category.ID,
		Name:      category.Name,
		Color:     category.Color,
		UserID:    category.UserID,
		CreatedAt: category.CreatedAt,
		UpdatedAt: category.UpdatedAt,
	}
}

type subtaskResponse struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"taskId"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func newSubtaskResponse(subtask *models.Subtask) subtaskResponse {
	return subtaskResponse{
		ID:        subtask.ID,
		TaskID:    subtask.TaskID,
		Title:     subtask.Title,
		Completed: subtask.Completed,
		CreatedAt: subtask.CreatedAt,
		UpdatedAt: subtask.UpdatedAt,
	}
}

type taskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Completed   bool              `json:"completed"`
	Priority    models.Priority   `json:"priority"`
	DueDate     *time.Time        `json:"dueDate"`
	DueStatus   views.Status      `json:"dueStatus,omitempty"`
	UserID      string            `json:"userId"`
	CategoryID  *string           `json:"categoryId"`
	Category    *categoryResponse `json:"category"`
	Subtasks    []subtaskResponse `json:"subtasks"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

func newTaskResponse(task *models.Task) taskResponse {
	response := taskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		UserID:      task.UserID,
		CategoryID:  task.CategoryID,
		Subtasks:    make([]subtaskResponse, len(task.Subtasks)),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if task.Category != nil {
		category := newCategoryResponse(task.Category)
		response.Category = &category
	}
	for i := range task.Subtasks {
		response.Subtasks[i] = newSubtaskResponse(&task.Subtasks[i])
	}
	return response
}

func newTaskResponses(tasks []*models.Task) []taskResponse {
	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	return response
}

// newTaskResponsesAt also fills dueStatus relative to now.
func newTaskResponsesAt(tasks []*models.Task, now time.Time) []taskResponse {
	response := newTaskResponses(tasks)
	for i, task := range tasks {
		response[i].DueStatus = views.DueStatus(task.DueDate, now)
	}
	return response
}

type authResponse struct {
	User        userResponse `json:"user"`
	AccessToken string       `json:"accessToken"`
	ExpiresAt   time.Time    `json:"expiresAt"`
}

type successResponse struct {
	Success bool `json:"success"`
}
