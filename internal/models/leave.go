package models

// Leave request statuses used by the HRM backend.
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
)

// LeaveRequest is a leave application record owned by the backend.
type LeaveRequest struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Type       string `json:"type"`
	StartDate  string `json:"startDate"`
	EndDate    string `json:"endDate"`
	Reason     string `json:"reason,omitempty"`
	Status     string `json:"status"`
}

// CreateLeaveRequest is the body of POST /leave-requests.
type CreateLeaveRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Reason    string `json:"reason,omitempty"`
}

// DecideLeaveRequest is the body of PATCH /leave-requests/:id, used by
// approver roles.
type DecideLeaveRequest struct {
	Status string `json:"status"`
	Note   string `json:"note,omitempty"`
}
