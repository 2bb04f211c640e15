package models

// Employee approval states used by the HRM backend.
const (
	EmployeeStatusPending  = "pending"
	EmployeeStatusApproved = "approved"
	EmployeeStatusRejected = "rejected"
)

// Employee is a staff record owned by the backend.
type Employee struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Position string `json:"position,omitempty"`
	Status   string `json:"status"`
}

// ApproveEmployeeRequest is the body of PATCH /employees/:id/approve.
type ApproveEmployeeRequest struct {
	Status string `json:"status"`
}
