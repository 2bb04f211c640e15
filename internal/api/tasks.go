package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
)

// Tasks lists tasks, optionally filtered by assignee.
func (c *Client) Tasks(ctx context.Context, assignedTo string) ([]models.Task, error) {
	var query url.Values
	if assignedTo != "" {
		query = url.Values{}
		query.Set("assignedTo", assignedTo)
	}

	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/tasks", query, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task assignment.
func (c *Client) CreateTask(ctx context.Context, req models.CreateTaskRequest) (*models.Task, error) {
	var task models.Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTaskStatus moves a task through its lifecycle.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskID, status string) (*models.Task, error) {
	var task models.Task
	req := models.UpdateTaskStatusRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, "/tasks/"+taskID+"/status", nil, req, &task); err != nil {
		return nil, err
	}
	return &task, nil
}
