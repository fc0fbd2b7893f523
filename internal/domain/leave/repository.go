package leave

import (
	"context"
	"time"
)

// ListFilter selects leave requests. Nil fields are unconstrained; From/To
// keep requests whose range intersects [From, To].
type ListFilter struct {
	EmployeeID  *string
	WorkplaceID *string
	Status      *LeaveRequestStatus
	From        *time.Time
	To          *time.Time
}

// LeaveRequestRepository - interface for leave_requests table
type LeaveRequestRepository interface {
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	GetByID(ctx context.Context, id string) (LeaveRequest, error)
	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)

	// FindApprovedCovering returns an approved leave of employeeID filed for
	// workplaceID that covers day, or nil. An empty workplaceID matches any.
	FindApprovedCovering(ctx context.Context, employeeID, workplaceID string, day time.Time) (*LeaveRequest, error)

	// Update writes request when the stored version equals request.Version,
	// otherwise returns conflict.ErrStaleWrite.
	Update(ctx context.Context, request LeaveRequest) (LeaveRequest, error)
	Delete(ctx context.Context, id string) error

	RefreshNames(ctx context.Context, employeeNames map[string]string) (int, error)
}
