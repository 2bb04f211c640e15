package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Cachi0001/simplified-hrm-agent/internal/models"
)

// CurrentStatus fetches today's attendance record, or nil when the employee
// has not checked in yet.
func (c *Client) CurrentStatus(ctx context.Context) (*models.AttendanceRecord, error) {
	var record *models.AttendanceRecord
	if err := c.do(ctx, http.MethodGet, "/attendance/current-status", nil, nil, &record); err != nil {
		return nil, err
	}
	return record, nil
}

// CheckIn submits a check-in with the captured coordinate and any fallback
// annotation.
func (c *Client) CheckIn(ctx context.Context, req models.CheckInRequest) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	if err := c.do(ctx, http.MethodPost, "/attendance/check-in", nil, req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// CheckOut submits a check-out.
func (c *Client) CheckOut(ctx context.Context, req models.CheckOutRequest) (*models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	if err := c.do(ctx, http.MethodPost, "/attendance/check-out", nil, req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Report fetches attendance records for an employee over a date range
// (inclusive, YYYY-MM-DD).
func (c *Client) Report(ctx context.Context, employeeID, start, end string) ([]models.AttendanceRecord, error) {
	query := url.Values{}
	query.Set("employeeId", employeeID)
	query.Set("start", start)
	query.Set("end", end)

	var records []models.AttendanceRecord
	if err := c.do(ctx, http.MethodGet, "/attendance/report", query, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}
