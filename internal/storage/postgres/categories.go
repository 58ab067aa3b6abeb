package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

type categoryRepository struct {
	pool *pgxpool.Pool
}

func (r *categoryRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Category, error) {
	const selectCategoriesByUserIDQuery = `
SELECT id,
       user_id,
       name,
       color,
       created_at,
       updated_at
FROM categories
WHERE user_id = $1
ORDER BY created_at DESC, id DESC
`
	rows, err := r.pool.Query(ctx, selectCategoriesByUserIDQuery, userID)
	if err != nil {
		return nil, wrap("select categories by user id", err)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		category := new(models.Category)
		err = rows.Scan(
			&category.ID,
			&category.UserID,
			&category.Name,
			&category.Color,
			&category.CreatedAt,
			&category.UpdatedAt,
		)
		if err != nil {
			return nil, wrap("scan category", err)
		}
		categories = append(categories, category)
	}

	err = rows.Err()
	if err != nil {
		return nil, wrap("iterate over categories", err)
	}
	return categories, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	const insertCategoryQuery = `
INSERT INTO categories (id,
                        user_id,
                        name,
                        color,
                        created_at,
                        updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := r.pool.Exec(
		ctx,
		insertCategoryQuery,
		category.ID,
		category.UserID,
		category.Name,
		category.Color,
		category.CreatedAt,
		category.UpdatedAt,
	)
	if err != nil {
		return wrap("insert category", err)
	}
	return nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*models.Category, error) {
	const selectCategoryByIDQuery = `
SELECT user_id,
       name,
       color,
       created_at,
       updated_at
FROM categories
WHERE id = $1
`
	category := &models.Category{ID: id}
	err := r.pool.QueryRow(ctx, selectCategoryByIDQuery, id).Scan(
		&category.UserID,
		&category.Name,
		&category.Color,
		&category.CreatedAt,
		&category.UpdatedAt,
	)
	if err != nil {
		return nil, wrap("select category by id", err)
	}
	return category, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *models.Category) error {
	const updateCategoryQuery = `
UPDATE categories
SET name = $1,
    color = $2,
    updated_at = $3
WHERE id = $4
`
	tag, err := r.pool.Exec(
		ctx,
		updateCategoryQuery,
		category.Name,
		category.Color,
		category.UpdatedAt,
		category.ID,
	)
	return mustAffect("update category", tag, err)
}

// Delete relies on the ON DELETE SET NULL foreign key of tasks.category_id.
func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	const deleteCategoryQuery = `
DELETE FROM categories
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, deleteCategoryQuery, id)
	return mustAffect("delete category", tag, err)
}
