package models

import "time"

// TaskStatus represents the lifecycle status of a task
type TaskStatus string

const (
	TaskStatusActive    TaskStatus = "active"
	TaskStatusCompleted TaskStatus = "completed"
)

// TaskType encodes who a task is intended for
type TaskType string

const (
	TaskTypeForMe      TaskType = "for_me"
	TaskTypeForPartner TaskType = "for_partner"
	TaskTypeForBoth    TaskType = "for_both"
)

// Task represents a to-do item created by one of the pair
type Task struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Type        TaskType   `json:"task_type" db:"task_type"`
	Status      TaskStatus `json:"status" db:"status"`
	CreatedBy   int64      `json:"created_by" db:"created_by"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
}

// IsCompleted returns true if the task is completed
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// ConcernsPartner returns true if the task's audience includes the creator's
// partner, which decides whether the partner gets notified about changes.
func (t *Task) ConcernsPartner() bool {
	return t.Type == TaskTypeForPartner || t.Type == TaskTypeForBoth
}
