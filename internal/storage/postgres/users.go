package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

type userRepository struct {
	pool *pgxpool.Pool
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	const insertUserQuery = `
INSERT INTO users (id,
                   name,
                   email,
                   password,
                   image,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := r.pool.Exec(
		ctx,
		insertUserQuery,
		user.ID,
		user.Name,
		user.Email,
		user.Password,
		user.Image,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		return wrap("insert user", err)
	}
	return nil
}

const selectUserColumns = `
SELECT id,
       name,
       email,
       password,
       image,
       created_at,
       updated_at
FROM users
`

func (r *userRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.selectOne(ctx, "select user by id", selectUserColumns+`WHERE id = $1`, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.selectOne(ctx, "select user by email", selectUserColumns+`WHERE email = $1`, email)
}

func (r *userRepository) selectOne(ctx context.Context, op, query string, arg any) (*models.User, error) {
	user := new(models.User)
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Password,
		&user.Image,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, wrap(op, err)
	}
	return user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	const updateUserQuery = `
UPDATE users
SET name = $1,
    email = $2,
    password = $3,
    image = $4,
    updated_at = $5
WHERE id = $6
`
	tag, err := r.pool.Exec(
		ctx,
		updateUserQuery,
		user.Name,
		user.Email,
		user.Password,
		user.Image,
		user.UpdatedAt,
		user.ID,
	)
	return mustAffect("update user", tag, err)
}

// Delete relies on ON DELETE CASCADE for categories, tasks and sessions,
// but removes subtasks explicitly first so the order matches task deletion.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const deleteSubtasksByUserIDQuery = `
DELETE FROM subtasks
WHERE task_id IN (SELECT id FROM tasks WHERE user_id = $1)
`
	_, err = tx.Exec(ctx, deleteSubtasksByUserIDQuery, id)
	if err != nil {
		return wrap("delete user subtasks", err)
	}

	const deleteUserQuery = `
DELETE FROM users
WHERE id = $1
`
	tag, err := tx.Exec(ctx, deleteUserQuery, id)
	if err = mustAffect("delete user", tag, err); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}
