package sqlite

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return wrap("create user", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, wrap("find user", err)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, "email = ?", email).Error; err != nil {
		return nil, wrap("find user by email", err)
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{
			"name":       user.Name,
			"email":      user.Email,
			"password":   user.Password,
			"image":      user.Image,
			"updated_at": user.UpdatedAt,
		})
	return mustAffect("update user", res)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&models.Task{}).Select("id").Where("user_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&models.Subtask{}).Error; err != nil {
			return wrap("delete user subtasks", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return wrap("delete user tasks", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Category{}).Error; err != nil {
			return wrap("delete user categories", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Session{}).Error; err != nil {
			return wrap("delete user sessions", err)
		}
		return mustAffect("delete user", tx.Where("id = ?", id).Delete(&models.User{}))
	})
}

type categoryRepository struct {
	db *gorm.DB
}

func (r *categoryRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&categories).Error
	if err != nil {
		return nil, wrap("list categories", err)
	}
	return categories, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return wrap("create category", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, wrap("find category", err)
	}
	return &category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	res := r.db.WithContext(ctx).
		Model(&models.Category{}).
		Where("id = ?", category.ID).
		Updates(map[string]any{
			"name":       category.Name,
			"color":      category.Color,
			"updated_at": category.UpdatedAt,
		})
	return mustAffect("update category", res)
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Task{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
		if err != nil {
			return wrap("detach category tasks", err)
		}
		return mustAffect("delete category", tx.Where("id = ?", id).Delete(&models.Category{}))
	})
}

type taskRepository struct {
	db *gorm.DB
}

func (r *taskRepository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Category").
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC, id ASC")
		})
}

func (r *taskRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Task, error) {
	var tasks []*models.Task
	err := r.withRelations(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, wrap("list tasks", err)
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(task).Error; err != nil {
		return wrap("create task", err)
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.withRelations(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, wrap("find task", err)
	}
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	res := r.db.WithContext(ctx).
		Model(&models.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"title":       task.Title,
			"description": task.Description,
			"completed":   task.Completed,
			"priority":    task.Priority,
			"due_date":    task.DueDate,
			"category_id": task.CategoryID,
			"updated_at":  task.UpdatedAt,
		})
	return mustAffect("update task", res)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&models.Subtask{}).Error; err != nil {
			return wrap("delete subtasks", err)
		}
		return mustAffect("delete task", tx.Where("id = ?", id).Delete(&models.Task{}))
	})
}

func (r *taskRepository) CreateSubtask(ctx context.Context, subtask *models.Subtask) error {
	if err := r.db.WithContext(ctx).Create(subtask).Error; err != nil {
		return wrap("create subtask", err)
	}
	return nil
}

func (r *taskRepository) GetSubtask(ctx context.Context, id string) (*models.Subtask, error) {
	var subtask models.Subtask
	if err := r.db.WithContext(ctx).First(&subtask, "id = ?", id).Error; err != nil {
		return nil, wrap("find subtask", err)
	}
	return &subtask, nil
}

func (r *taskRepository) UpdateSubtask(ctx context.Context, subtask *models.Subtask) error {
	res := r.db.WithContext(ctx).
		Model(&models.Subtask{}).
		Where("id = ?", subtask.ID).
		Updates(map[string]any{
			"title":      subtask.Title,
			"completed":  subtask.Completed,
			"updated_at": subtask.UpdatedAt,
		})
	return mustAffect("update subtask", res)
}

func (r *taskRepository) DeleteSubtask(ctx context.Context, id string) error {
	return mustAffect("delete subtask", r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Subtask{}))
}

type sessionRepository struct {
	db *gorm.DB
}

func (r *sessionRepository) Create(ctx context.Context, session *models.Session) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return wrap("create session", err)
	}
	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).First(&session, "id = ?", id).Error; err != nil {
		return nil, wrap("find session", err)
	}
	return &session, nil
}

func (r *sessionRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error) {
	var session models.Session
	if err := r.db.WithContext(ctx).First(&session, "refresh_token = ?", refreshToken).Error; err != nil {
		return nil, wrap("find session by refresh token", err)
	}
	return &session, nil
}

func (r *sessionRepository) Update(ctx context.Context, session *models.Session) error {
	res := r.db.WithContext(ctx).
		Model(&models.Session{}).
		Where("id = ?", session.ID).
		Updates(map[string]any{
			"refresh_token": session.RefreshToken,
			"expires_at":    session.ExpiresAt,
			"updated_at":    session.UpdatedAt,
		})
	return mustAffect("update session", res)
}

func (r *sessionRepository) DeleteByUserID(ctx context.Context, userID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.Session{})
	if res.Error != nil {
		return 0, wrap("delete sessions", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("expires_at < ?", now).Delete(&models.Session{})
	if res.Error != nil {
		return 0, wrap("delete expired sessions", res.Error)
	}
	return res.RowsAffected, nil
}
