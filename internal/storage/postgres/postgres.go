// Package postgres implements storage.Storage over a pgx connection pool.
package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-task-manager/internal/storage"
)

//go:embed migrations/0001_init.sql
var initSchema string

var _ storage.Storage = (*Store)(nil)

type Store struct {
	pool       *pgxpool.Pool
	users      *userRepository
	categories *categoryRepository
	tasks      *taskRepository
	sessions   *sessionRepository
}

// New wraps an already connected pool. Close releases the pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{
		pool:       pool,
		users:      &userRepository{pool: pool},
		categories: &categoryRepository{pool: pool},
		tasks:      &taskRepository{pool: pool},
		sessions:   &sessionRepository{pool: pool},
	}
}

func (s *Store) Users() storage.UserRepository          { return s.users }
func (s *Store) Categories() storage.CategoryRepository { return s.categories }
func (s *Store) Tasks() storage.TaskRepository          { return s.tasks }
func (s *Store) Sessions() storage.SessionRepository    { return s.sessions }

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, initSchema)
	if err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

func wrap(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return fmt.Errorf("%s: %w", op, storage.ErrDuplicate)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func mustAffect(op string, tag pgconn.CommandTag, err error) error {
	if err != nil {
		return wrap(op, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s: %w", op, storage.ErrNotFound)
	}
	return nil
}
