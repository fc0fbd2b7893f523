package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("Leave request not found")
	ErrDaysMismatch         = errors.New("days does not match the date range")
)
