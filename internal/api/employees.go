package api

import (
	"context"
	"net/http"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
)

// Employees lists staff records visible to the logged-in role.
func (c *Client) Employees(ctx context.Context) ([]models.Employee, error) {
	var employees []models.Employee
	if err := c.do(ctx, http.MethodGet, "/employees", nil, nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// Employee fetches a single staff record.
func (c *Client) Employee(ctx context.Context, employeeID string) (*models.Employee, error) {
	var employee models.Employee
	if err := c.do(ctx, http.MethodGet, "/employees/"+employeeID, nil, nil, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}

// ApproveEmployee moves a pending account to approved or rejected (HR roles).
func (c *Client) ApproveEmployee(ctx context.Context, employeeID, status string) (*models.Employee, error) {
	var employee models.Employee
	req := models.ApproveEmployeeRequest{Status: status}
	if err := c.do(ctx, http.MethodPatch, "/employees/"+employeeID+"/approve", nil, req, &employee); err != nil {
		return nil, err
	}
	return &employee, nil
}
