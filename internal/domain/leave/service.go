package leave

import (
	"context"
)

type LeaveService interface {
	CreateLeaveRequest(ctx context.Context, req LeaveRequestPayload) (LeaveRequestResponse, error)
	UpdateLeaveRequest(ctx context.Context, req LeaveRequestPayload) (LeaveRequestResponse, error)
	DeleteLeaveRequest(ctx context.Context, id string) error
	GetLeaveRequest(ctx context.Context, id string) (LeaveRequestResponse, error)
	ListLeaveRequest(ctx context.Context, filter LeaveRequestFilter) ([]LeaveRequestResponse, error)
}
