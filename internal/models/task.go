package models

import "time"

// Task statuses used by the HRM backend.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// Task is an assignment record owned by the backend.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	AssignedTo  string     `json:"assignedTo,omitempty"`
	AssignedBy  string     `json:"assignedBy,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   *time.Time `json:"createdAt,omitempty"`
}

// CreateTaskRequest is the body of POST /tasks.
type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	AssignedTo  string     `json:"assignedTo"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
}

// UpdateTaskStatusRequest is the body of PATCH /tasks/:id/status.
type UpdateTaskStatusRequest struct {
	Status string `json:"status"`
}
