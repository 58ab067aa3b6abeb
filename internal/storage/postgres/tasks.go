package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/adanyl0v/go-task-manager/internal/models"
)

type taskRepository struct {
	pool *pgxpool.Pool
}

const selectTaskWithCategoryColumns = `
SELECT t.id,
       t.user_id,
       t.category_id,
       t.title,
       t.description,
       t.completed,
       t.priority,
       t.due_date,
       t.created_at,
       t.updated_at,
       c.user_id,
       c.name,
       c.color,
       c.created_at,
       c.updated_at
FROM tasks t
LEFT JOIN categories c ON c.id = t.category_id
`

func scanTask(row pgx.Row) (*models.Task, error) {
	var (
		task          models.Task
		categoryUser  *string
		categoryName  *string
		categoryColor *string
		categoryCrAt  *time.Time
		categoryUpdAt *time.Time
	)
	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.CategoryID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.Priority,
		&task.DueDate,
		&task.CreatedAt,
		&task.UpdatedAt,
		&categoryUser,
		&categoryName,
		&categoryColor,
		&categoryCrAt,
		&categoryUpdAt,
	)
	if err != nil {
		return nil, err
	}

	if task.CategoryID != nil && categoryUser != nil {
		task.Category = &models.Category{
			ID:        *task.CategoryID,
			UserID:    *categoryUser,
			Name:      *categoryName,
			Color:     categoryColor,
			CreatedAt: *categoryCrAt,
			UpdatedAt: *categoryUpdAt,
		}
	}
	task.Subtasks = make([]models.Subtask, 0)
	return &task, nil
}

func (r *taskRepository) ListByUserID(ctx context.Context, userID string) ([]*models.Task, error) {
	rows, err := r.pool.Query(
		ctx,
		selectTaskWithCategoryColumns+`
WHERE t.user_id = $1
ORDER BY t.created_at DESC, t.id DESC
`,
		userID,
	)
	if err != nil {
		return nil, wrap("select tasks by user id", err)
	}
	defer rows.Close()

	tasks := make([]*models.Task, 0)
	byID := make(map[string]*models.Task)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, wrap("scan task", err)
		}
		tasks = append(tasks, task)
		byID[task.ID] = task
	}

	err = rows.Err()
	if err != nil {
		return nil, wrap("iterate over tasks", err)
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, task.ID)
	}

	subtasks, err := r.selectSubtasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, subtask := range subtasks {
		if task, ok := byID[subtask.TaskID]; ok {
			task.Subtasks = append(task.Subtasks, subtask)
		}
	}
	return tasks, nil
}

func (r *taskRepository) selectSubtasks(ctx context.Context, taskIDs []string) ([]models.Subtask, error) {
	const selectSubtasksByTaskIDsQuery = `
SELECT id,
       task_id,
       title,
       completed,
       created_at,
       updated_at
FROM subtasks
WHERE task_id = ANY($1)
ORDER BY created_at ASC, id ASC
`
	rows, err := r.pool.Query(ctx, selectSubtasksByTaskIDsQuery, taskIDs)
	if err != nil {
		return nil, wrap("select subtasks", err)
	}
	defer rows.Close()

	var subtasks []models.Subtask
	for rows.Next() {
		var subtask models.Subtask
		err = rows.Scan(
			&subtask.ID,
			&subtask.TaskID,
			&subtask.Title,
			&subtask.Completed,
			&subtask.CreatedAt,
			&subtask.UpdatedAt,
		)
		if err != nil {
			return nil, wrap("scan subtask", err)
		}
		subtasks = append(subtasks, subtask)
	}

	err = rows.Err()
	if err != nil {
		return nil, wrap("iterate over subtasks", err)
	}
	return subtasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) error {
	const insertTaskQuery = `
INSERT INTO tasks (id,
                   user_id,
                   category_id,
                   title,
                   description,
                   completed,
                   priority,
                   due_date,
                   created_at,
                   updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
`
	_, err := r.pool.Exec(
		ctx,
		insertTaskQuery,
		task.ID,
		task.UserID,
		task.CategoryID,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		task.DueDate,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		return wrap("insert task", err)
	}
	return nil
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*models.Task, error) {
	row := r.pool.QueryRow(ctx, selectTaskWithCategoryColumns+`WHERE t.id = $1`, id)
	task, err := scanTask(row)
	if err != nil {
		return nil, wrap("select task by id", err)
	}

	subtasks, err := r.selectSubtasks(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	task.Subtasks = append(task.Subtasks, subtasks...)
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	const updateTaskQuery = `
UPDATE tasks
SET title = $1,
    description = $2,
    completed = $3,
    priority = $4,
    due_date = $5,
    category_id = $6,
    updated_at = $7
WHERE id = $8
`
	tag, err := r.pool.Exec(
		ctx,
		updateTaskQuery,
		task.Title,
		task.Description,
		task.Completed,
		task.Priority,
		task.DueDate,
		task.CategoryID,
		task.UpdatedAt,
		task.ID,
	)
	return mustAffect("update task", tag, err)
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrap("begin transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	const deleteSubtasksByTaskIDQuery = `
DELETE FROM subtasks
WHERE task_id = $1
`
	_, err = tx.Exec(ctx, deleteSubtasksByTaskIDQuery, id)
	if err != nil {
		return wrap("delete subtasks", err)
	}

	const deleteTaskQuery = `
DELETE FROM tasks
WHERE id = $1
`
	tag, err := tx.Exec(ctx, deleteTaskQuery, id)
	if err = mustAffect("delete task", tag, err); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	if err != nil {
		return wrap("commit transaction", err)
	}
	return nil
}

func (r *taskRepository) CreateSubtask(ctx context.Context, subtask *models.Subtask) error {
	const insertSubtaskQuery = `
INSERT INTO subtasks (id,
                      task_id,
                      title,
                      completed,
                      created_at,
                      updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := r.pool.Exec(
		ctx,
		insertSubtaskQuery,
		subtask.ID,
		subtask.TaskID,
		subtask.Title,
		subtask.Completed,
		subtask.CreatedAt,
		subtask.UpdatedAt,
	)
	if err != nil {
		return wrap("insert subtask", err)
	}
	return nil
}

func (r *taskRepository) GetSubtask(ctx context.Context, id string) (*models.Subtask, error) {
	const selectSubtaskByIDQuery = `
SELECT task_id,
       title,
       completed,
       created_at,
       updated_at
FROM subtasks
WHERE id = $1
`
	subtask := &models.Subtask{ID: id}
	err := r.pool.QueryRow(ctx, selectSubtaskByIDQuery, id).Scan(
		&subtask.TaskID,
		&subtask.Title,
		&subtask.Completed,
		&subtask.CreatedAt,
		&subtask.UpdatedAt,
	)
	if err != nil {
		return nil, wrap("select subtask by id", err)
	}
	return subtask, nil
}

func (r *taskRepository) UpdateSubtask(ctx context.Context, subtask *models.Subtask) error {
	const updateSubtaskQuery = `
UPDATE subtasks
SET title = $1,
    completed = $2,
    updated_at = $3
WHERE id = $4
`
	tag, err := r.pool.Exec(
		ctx,
		updateSubtaskQuery,
		subtask.Title,
		subtask.Completed,
		subtask.UpdatedAt,
		subtask.ID,
	)
	return mustAffect("update subtask", tag, err)
}

func (r *taskRepository) DeleteSubtask(ctx context.Context, id string) error {
	const deleteSubtaskQuery = `
DELETE FROM subtasks
WHERE id = $1
`
	tag, err := r.pool.Exec(ctx, deleteSubtaskQuery, id)
	return mustAffect("delete subtask", tag, err)
}
