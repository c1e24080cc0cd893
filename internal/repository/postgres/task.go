package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/repository"
)

const taskColumns = `id, title, description, task_type, status, created_by, created_at`

// taskAudienceUnion is the audience predicate shared by the "for user",
// "for partner" and "shared" views. Combined with a status parameter it also
// yields the completed view, so the union is written once instead of being
// duplicated per status.
const taskAudienceUnion = `
	((created_by = $1 AND task_type = 'for_me')
		OR (created_by = $2 AND task_type = 'for_partner')
		OR (created_by = $1 AND task_type = 'for_partner')
		OR (created_by = $2 AND task_type = 'for_me')
		OR (task_type = 'for_both' AND created_by IN ($1, $2)))`

type taskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new task repository
func NewTaskRepository(db *sql.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	query := `INSERT INTO tasks (title, description, task_type, status, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	if task.Status == "" {
		task.Status = models.TaskStatusActive
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.CreatedAt = truncate(task.CreatedAt)

	err := r.db.QueryRowContext(ctx, query,
		task.Title, task.Description, task.Type, task.Status,
		task.CreatedBy, formatTime(task.CreatedAt),
	).Scan(&task.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id int64) (*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task := &models.Task{}
	var createdAt string
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID, &task.Title, &task.Description, &task.Type,
		&task.Status, &task.CreatedBy, &createdAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get task: %w", err)
	}
	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) (bool, error) {
	query := `UPDATE tasks SET title = $2, description = $3, task_type = $4, status = $5
		WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		task.ID, task.Title, task.Description, task.Type, task.Status)
	if err != nil {
		return false, fmt.Errorf("failed to update task: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete task: %w", err)
	}
	n, _ := result.RowsAffected()
	return n > 0, nil
}

func (r *taskRepository) ListAll(ctx context.Context, viewer *models.User) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE created_by = $1 OR created_by = $2
		ORDER BY created_at DESC, id ASC`
	return r.queryTasks(ctx, query, viewer.ID, viewer.PartnerOrSentinel())
}

func (r *taskRepository) ListForUser(ctx context.Context, viewer *models.User, status models.TaskStatus) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE ((created_by = $1 AND task_type = 'for_me')
			OR (created_by = $2 AND task_type = 'for_partner')
			OR (task_type = 'for_both' AND created_by IN ($1, $2)))
			AND status = $3
		ORDER BY created_at DESC, id ASC`
	return r.queryTasks(ctx, query, viewer.ID, viewer.PartnerOrSentinel(), status)
}

func (r *taskRepository) ListForPartner(ctx context.Context, viewer *models.User, status models.TaskStatus) ([]*models.Task, error) {
	// No partner, no tasks for them.
	if !viewer.HasPartner() {
		return nil, nil
	}
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE ((created_by = $1 AND task_type = 'for_partner')
			OR (created_by = $2 AND task_type = 'for_me'))
			AND status = $3
		ORDER BY created_at DESC, id ASC`
	return r.queryTasks(ctx, query, viewer.ID, *viewer.PartnerID, status)
}

func (r *taskRepository) ListShared(ctx context.Context, viewer *models.User, status models.TaskStatus) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE task_type = 'for_both' AND created_by IN ($1, $2) AND status = $3
		ORDER BY created_at DESC, id ASC`
	return r.queryTasks(ctx, query, viewer.ID, viewer.PartnerOrSentinel(), status)
}

func (r *taskRepository) ListCompleted(ctx context.Context, viewer *models.User) ([]*models.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks
		WHERE ` + taskAudienceUnion + ` AND status = $3
		ORDER BY created_at DESC, id ASC`
	return r.queryTasks(ctx, query, viewer.ID, viewer.PartnerOrSentinel(), models.TaskStatusCompleted)
}

func (r *taskRepository) queryTasks(ctx context.Context, query string, args ...interface{}) ([]*models.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer rows.Close()

	var tasks []*models.Task
	for rows.Next() {
		task := &models.Task{}
		var createdAt string
		if err := rows.Scan(
			&task.ID, &task.Title, &task.Description, &task.Type,
			&task.Status, &task.CreatedBy, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		if task.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}
