package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
)

// LeaveRequests lists leave requests, optionally filtered by status.
func (c *Client) LeaveRequests(ctx context.Context, status string) ([]models.LeaveRequest, error) {
	var query url.Values
	if status != "" {
		query = url.Values{}
		query.Set("status", status)
	}

	var requests []models.LeaveRequest
	if err := c.do(ctx, http.MethodGet, "/leave-requests", query, nil, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// CreateLeaveRequest submits a leave application for the logged-in employee.
func (c *Client) CreateLeaveRequest(ctx context.Context, req models.CreateLeaveRequest) (*models.LeaveRequest, error) {
	var created models.LeaveRequest
	if err := c.do(ctx, http.MethodPost, "/leave-requests", nil, req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// DecideLeaveRequest approves or rejects a pending request (approver roles).
func (c *Client) DecideLeaveRequest(ctx context.Context, requestID string, req models.DecideLeaveRequest) (*models.LeaveRequest, error) {
	var decided models.LeaveRequest
	if err := c.do(ctx, http.MethodPatch, "/leave-requests/"+requestID, nil, req, &decided); err != nil {
		return nil, err
	}
	return &decided, nil
}
