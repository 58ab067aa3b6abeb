// Package storage defines the persistence contracts shared by the
// Postgres and SQLite backends.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Storage interface {
	Users() UserRepository
	Categories() CategoryRepository
	Tasks() TaskRepository
	Sessions() SessionRepository

	// Migrate brings the schema up to date.
	Migrate(ctx context.Context) error
	Close() error
}

type UserRepository interface {
	// Create returns ErrDuplicate if the email is already taken.
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// Update overwrites name, email, password and image.
	Update(ctx context.Context, user *models.User) error
	// Delete removes the user together with every subtask, task,
	// category and session they own.
	Delete(ctx context.Context, id string) error
}

type CategoryRepository interface {
	// ListByUserID returns categories newest first.
	ListByUserID(ctx context.Context, userID string) ([]*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id string) (*models.Category, error)
	Update(ctx context.Context, category *models.Category) error
	// Delete detaches referencing tasks before removing the category.
	Delete(ctx context.Context, id string) error
}

type TaskRepository interface {
	// ListByUserID returns tasks newest first with category and subtasks loaded.
	ListByUserID(ctx context.Context, userID string) ([]*models.Task, error)
	Create(ctx context.Context, task *models.Task) error
	// GetByID loads the task with its category and subtasks.
	GetByID(ctx context.Context, id string) (*models.Task, error)
	Update(ctx context.Context, task *models.Task) error
	// Delete removes the subtasks first, then the task.
	Delete(ctx context.Context, id string) error

	CreateSubtask(ctx context.Context, subtask *models.Subtask) error
	GetSubtask(ctx context.Context, id string) (*models.Subtask, error)
	UpdateSubtask(ctx context.Context, subtask *models.Subtask) error
	DeleteSubtask(ctx context.Context, id string) error
}

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id string) (*models.Session, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (*models.Session, error)
	// Update persists the refresh token and expiry.
	Update(ctx context.Context, session *models.Session) error
	DeleteByUserID(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
