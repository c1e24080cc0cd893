package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Kerhoff/couplebot/internal/models"
	"github.com/Kerhoff/couplebot/internal/repository"
)

type taskRepository struct {
	mu     sync.RWMutex
	tasks  map[int64]*models.Task
	nextID int64
}

// NewTaskRepository creates an in-memory task repository
func NewTaskRepository() repository.TaskRepository {
	return &taskRepository{tasks: make(map[int64]*models.Task), nextID: 1}
}

func (r *taskRepository) Create(_ context.Context, task *models.Task) (*models.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task.Status == "" {
		task.Status = models.TaskStatusActive
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	task.CreatedAt = task.CreatedAt.Truncate(time.Second)

	task.ID = r.nextID
	r.nextID++ // ids are monotonic and never reused after deletion

	stored := *task
	r.tasks[task.ID] = &stored
	return task, nil
}

func (r *taskRepository) GetByID(_ context.Context, id int64) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, nil
	}
	copied := *task
	return &copied, nil
}

func (r *taskRepository) Update(_ context.Context, task *models.Task) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[task.ID]
	if !ok {
		return false, nil
	}
	existing.Title = task.Title
	existing.Description = task.Description
	existing.Type = task.Type
	existing.Status = task.Status
	return true, nil
}

func (r *taskRepository) Delete(_ context.Context, id int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tasks[id]; !ok {
		return false, nil
	}
	delete(r.tasks, id)
	return true, nil
}

func (r *taskRepository) ListAll(_ context.Context, viewer *models.User) ([]*models.Task, error) {
	partner := viewer.PartnerOrSentinel()
	return r.list(func(t *models.Task) bool {
		return t.CreatedBy == viewer.ID || t.CreatedBy == partner
	}), nil
}

func (r *taskRepository) ListForUser(_ context.Context, viewer *models.User, status models.TaskStatus) ([]*models.Task, error) {
	partner := viewer.PartnerOrSentinel()
	return r.list(func(t *models.Task) bool {
		if t.Status != status {
			return false
		}
		return (t.CreatedBy == viewer.ID && t.Type == models.TaskTypeForMe) ||
			(t.CreatedBy == partner && t.Type == models.TaskTypeForPartner) ||
			(t.Type == models.TaskTypeForBoth && (t.CreatedBy == viewer.ID || t.CreatedBy == partner))
	}), nil
}

func (r *taskRepository) ListForPartner(_ context.Context, viewer *models.User, status models.TaskStatus) ([]*models.Task, error) {
	if !viewer.HasPartner() {
		return nil, nil
	}
	partner := *viewer.PartnerID
	return r.list(func(t *models.Task) bool {
		if t.Status != status {
			return false
		}
		return (t.CreatedBy == viewer.ID && t.Type == models.TaskTypeForPartner) ||
			(t.CreatedBy == partner && t.Type == models.TaskTypeForMe)
	}), nil
}

func (r *taskRepository) ListShared(_ context.Context, viewer *models.User, status models.TaskStatus) ([]*models.Task, error) {
	partner := viewer.PartnerOrSentinel()
	return r.list(func(t *models.Task) bool {
		return t.Type == models.TaskTypeForBoth && t.Status == status &&
			(t.CreatedBy == viewer.ID || t.CreatedBy == partner)
	}), nil
}

func (r *taskRepository) ListCompleted(_ context.Context, viewer *models.User) ([]*models.Task, error) {
	partner := viewer.PartnerOrSentinel()
	return r.list(func(t *models.Task) bool {
		if t.Status != models.TaskStatusCompleted {
			return false
		}
		return (t.CreatedBy == viewer.ID && t.Type == models.TaskTypeForMe) ||
			(t.CreatedBy == partner && t.Type == models.TaskTypeForPartner) ||
			(t.CreatedBy == viewer.ID && t.Type == models.TaskTypeForPartner) ||
			(t.CreatedBy == partner && t.Type == models.TaskTypeForMe) ||
			(t.Type == models.TaskTypeForBoth && (t.CreatedBy == viewer.ID || t.CreatedBy == partner))
	}), nil
}

func (r *taskRepository) list(match func(*models.Task) bool) []*models.Task {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var tasks []*models.Task
	for _, t := range r.tasks {
		if match(t) {
			copied := *t
			tasks = append(tasks, &copied)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if !tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
		}
		return tasks[i].ID < tasks[j].ID
	})
	return tasks
}
