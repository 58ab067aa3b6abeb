package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/storage"
)

const dateLayout = "2006-01-02"

type taskServiceImpl struct {
	logger     zerolog.Logger
	tasks      storage.TaskRepository
	categories storage.CategoryRepository
	location   *time.Location
}

// NewTaskService returns a TaskService. Date-only due dates are read as
// midnight in loc.
func NewTaskService(
	logger zerolog.Logger,
	store storage.Storage,
	loc *time.Location,
) TaskService {
	if loc == nil {
		loc = time.UTC
	}
	return &taskServiceImpl{
		logger:     logger,
		tasks:      store.Tasks(),
		categories: store.Categories(),
		location:   loc,
	}
}

func (s *taskServiceImpl) ListTasks(ctx context.Context, userID string) ([]*models.Task, error) {
	tasks, err := s.tasks.ListByUserID(ctx, userID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to select tasks")
		return nil, err
	}

	s.logger.Debug().
		Str("user_id", userID).
		Int("count", len(tasks)).
		Msg("selected tasks")
	return tasks, nil
}

func (s *taskServiceImpl) CreateTask(ctx context.Context, params CreateTaskParams) (*models.Task, error) {
	title, err := requiredText("title", params.Title)
	if err != nil {
		return nil, err
	}

	priority, err := models.ParsePriority(params.Priority)
	if err != nil {
		return nil, fmt.Errorf("%w: priority must be one of LOW, NORMAL, HIGH, URGENT", ErrInvalidInput)
	}

	dueDate, err := parseDueDate(params.DueDate, s.location)
	if err != nil {
		return nil, err
	}

	categoryID, err := s.ownedCategoryID(ctx, params.UserID, params.CategoryID)
	if err != nil {
		return nil, err
	}

	createdAt := now()
	task := &models.Task{
		UserID:      params.UserID,
		CategoryID:  categoryID,
		Title:       title,
		Description: params.Description,
		Completed:   params.Completed,
		Priority:    priority,
		DueDate:     dueDate,
		CreatedAt:   createdAt,
		UpdatedAt:   createdAt,
	}

	taskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate task uuid")
		return nil, err
	}
	task.ID = taskUUID.String()

	err = s.tasks.Create(ctx, task)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("user_id", params.UserID).
			Msg("failed to insert task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("inserted task")

	// Re-read so the response carries the category and an empty subtask list.
	created, err := s.tasks.GetByID(ctx, task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to select created task")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", params.UserID).
		Str("task_id", task.ID).
		Msg("created task")
	return created, nil
}

func (s *taskServiceImpl) GetTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	return s.ownedTask(ctx, userID, taskID)
}

func (s *taskServiceImpl) UpdateTask(ctx context.Context, params UpdateTaskParams) (*models.Task, error) {
	task, err := s.ownedTask(ctx, params.UserID, params.TaskID)
	if err != nil {
		return nil, err
	}

	if params.Title.Present {
		title, err := requiredText("title", params.Title.Value)
		if err != nil {
			return nil, err
		}
		task.Title = title
	}

	if params.Description.Present {
		task.Description = params.Description.Value
	}

	if params.Completed.Present {
		if params.Completed.Null {
			return nil, fmt.Errorf("%w: completed cannot be null", ErrInvalidInput)
		}
		task.Completed = params.Completed.Value
	}

	if params.Priority.Present {
		if params.Priority.Null {
			return nil, fmt.Errorf("%w: priority cannot be null", ErrInvalidInput)
		}
		priority, err := models.ParsePriority(params.Priority.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: priority must be one of LOW, NORMAL, HIGH, URGENT", ErrInvalidInput)
		}
		task.Priority = priority
	}

	if params.DueDate.Present {
		dueDate, err := parseDueDate(params.DueDate.Value, s.location)
		if err != nil {
			return nil, err
		}
		task.DueDate = dueDate
	}

	if params.CategoryID.Present {
		categoryID, err := s.ownedCategoryID(ctx, params.UserID, params.CategoryID.Value)
		if err != nil {
			return nil, err
		}
		task.CategoryID = categoryID
	}

	task.UpdatedAt = now()
	err = s.tasks.Update(ctx, task)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to update task")
		return nil, err
	}
	s.logger.Debug().
		Str("task_id", task.ID).
		Msg("updated task")

	updated, err := s.tasks.GetByID(ctx, task.ID)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", task.ID).
			Msg("failed to select updated task")
		return nil, err
	}

	s.logger.Info().
		Str("user_id", params.UserID).
		Str("task_id", task.ID).
		Msg("updated task")
	return updated, nil
}

func (s *taskServiceImpl) DeleteTask(ctx context.Context, userID, taskID string) error {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return err
	}

	err := s.tasks.Delete(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to delete task")
		return err
	}

	s.logger.Info().
		Str("user_id", userID).
		Str("task_id", taskID).
		Msg("deleted task")
	return nil
}

func (s *taskServiceImpl) CreateSubtask(ctx context.Context, params CreateSubtaskParams) (*models.Subtask, error) {
	title, err := requiredText("title", params.Title)
	if err != nil {
		return nil, err
	}

	if _, err := s.ownedTask(ctx, params.UserID, params.TaskID); err != nil {
		return nil, err
	}

	createdAt := now()
	subtask := &models.Subtask{
		TaskID:    params.TaskID,
		Title:     title,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}

	subtaskUUID, err := uuid.NewV7()
	if err != nil {
		s.logger.Error().
			Err(err).
			Msg("failed to generate subtask uuid")
		return nil, err
	}
	subtask.ID = subtaskUUID.String()

	err = s.tasks.CreateSubtask(ctx, subtask)
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("task_id", params.TaskID).
			Msg("failed to insert subtask")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", params.TaskID).
		Str("subtask_id", subtask.ID).
		Msg("created subtask")
	return subtask, nil
}

func (s *taskServiceImpl) UpdateSubtask(ctx context.Context, params UpdateSubtaskParams) (*models.Subtask, error) {
	subtask, err := s.ownedSubtask(ctx, params.UserID, params.TaskID, params.SubtaskID)
	if err != nil {
		return nil, err
	}

	if params.Title.Present {
		title, err := requiredText("title", params.Title.Value)
		if err != nil {
			return nil, err
		}
		subtask.Title = title
	}

	if params.Completed.Present {
		if params.Completed.Null {
			return nil, fmt.Errorf("%w: completed cannot be null", ErrInvalidInput)
		}
		subtask.Completed = params.Completed.Value
	}

	subtask.UpdatedAt = now()
	err = s.tasks.UpdateSubtask(ctx, subtask)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSubtaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("subtask_id", subtask.ID).
			Msg("failed to update subtask")
		return nil, err
	}

	s.logger.Info().
		Str("task_id", params.TaskID).
		Str("subtask_id", subtask.ID).
		Msg("updated subtask")
	return subtask, nil
}

func (s *taskServiceImpl) DeleteSubtask(ctx context.Context, userID, taskID, subtaskID string) error {
	if _, err := s.ownedSubtask(ctx, userID, taskID, subtaskID); err != nil {
		return err
	}

	err := s.tasks.DeleteSubtask(ctx, subtaskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrSubtaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("subtask_id", subtaskID).
			Msg("failed to delete subtask")
		return err
	}

	s.logger.Info().
		Str("task_id", taskID).
		Str("subtask_id", subtaskID).
		Msg("deleted subtask")
	return nil
}

func (s *taskServiceImpl) ownedTask(ctx context.Context, userID, taskID string) (*models.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.logger.Error().
				Str("task_id", taskID).
				Msg("task not found")
			return nil, ErrTaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("task_id", taskID).
			Msg("failed to select task")
		return nil, err
	}

	if task.UserID != userID {
		s.logger.Warn().
			Str("user_id", userID).
			Str("task_id", taskID).
			Msg("task belongs to another user")
		return nil, ErrForbidden
	}
	return task, nil
}

func (s *taskServiceImpl) ownedSubtask(ctx context.Context, userID, taskID, subtaskID string) (*models.Subtask, error) {
	if _, err := s.ownedTask(ctx, userID, taskID); err != nil {
		return nil, err
	}

	subtask, err := s.tasks.GetSubtask(ctx, subtaskID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, ErrSubtaskNotFound
		}

		s.logger.Error().
			Err(err).
			Str("subtask_id", subtaskID).
			Msg("failed to select subtask")
		return nil, err
	}

	if subtask.TaskID != taskID {
		return nil, ErrSubtaskNotFound
	}
	return subtask, nil
}

// ownedCategoryID resolves a category reference from a request. An empty
// id means no category.
func (s *taskServiceImpl) ownedCategoryID(ctx context.Context, userID, categoryID string) (*string, error) {
	categoryID = strings.TrimSpace(categoryID)
	if categoryID == "" {
		return nil, nil
	}

	category, err := s.categories.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: category %q does not exist", ErrInvalidInput, categoryID)
		}

		s.logger.Error().
			Err(err).
			Str("category_id", categoryID).
			Msg("failed to select category")
		return nil, err
	}

	if category.UserID != userID {
		return nil, fmt.Errorf("%w: category %q does not exist", ErrInvalidInput, categoryID)
	}
	return &category.ID, nil
}

// parseDueDate accepts RFC 3339 or a bare date. A bare date means
// midnight in loc. The result is always UTC; an empty string yields nil.
func parseDueDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		t = t.UTC()
		return &t, nil
	}

	t, err := time.ParseInLocation(dateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("%w: dueDate must be RFC 3339 or YYYY-MM-DD", ErrInvalidInput)
	}
	t = t.UTC()
	return &t, nil
}
