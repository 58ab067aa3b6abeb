// Package sqlite implements storage.Storage on top of gorm and SQLite.
// It backs local runs and the test suites.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/adanyl0v/go-task-manager/internal/models"
	"github.com/adanyl0v/go-task-manager/internal/storage"
)

var _ storage.Storage = (*Store)(nil)

type Store struct {
	db         *gorm.DB
	users      *userRepository
	categories *categoryRepository
	tasks      *taskRepository
	sessions   *sessionRepository
}

// Open opens (or creates) the database file at path.
func Open(path string, log zerolog.Logger) (*Store, error) {
	if err := ensureDir(path); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		&log,
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         dbLogger,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	return &Store{
		db:         db,
		users:      &userRepository{db: db},
		categories: &categoryRepository{db: db},
		tasks:      &taskRepository{db: db},
		sessions:   &sessionRepository{db: db},
	}, nil
}

func (s *Store) Users() storage.UserRepository          { return s.users }
func (s *Store) Categories() storage.CategoryRepository { return s.categories }
func (s *Store) Tasks() storage.TaskRepository          { return s.tasks }
func (s *Store) Sessions() storage.SessionRepository    { return s.sessions }

func (s *Store) Migrate(ctx context.Context) error {
	err := s.db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Task{},
		&models.Subtask{},
		&models.Session{},
	)
	if err != nil {
		return fmt.Errorf("migrate db: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ensureDir creates the parent directory of a file-backed database.
func ensureDir(path string) error {
	if strings.Contains(path, ":memory:") || strings.Contains(path, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(path, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

func wrap(op string, err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey),
		strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%s: %w", op, storage.ErrDuplicate)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func mustAffect(op string, res *gorm.DB) error {
	if res.Error != nil {
		return wrap(op, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
