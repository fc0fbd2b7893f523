package attendance

import "context"

// AttendanceService defines the attendance operations exposed to handlers.
type AttendanceService interface {
	// Submit runs the conflict checks and upserts the entry into the day.
	Submit(ctx context.Context, req SubmitAttendanceRequest) (SubmitAttendanceResponse, error)

	// GetDay returns one employee's record for a day.
	GetDay(ctx context.Context, employeeID, date string) (DayResponse, error)

	// DeleteDay removes the whole record for a day.
	DeleteDay(ctx context.Context, employeeID, date string) error

	// RemoveEntry removes the entries of one workplace from a day, limited to
	// one slot when classification is "home" or "visitor".
	RemoveEntry(ctx context.Context, employeeID, date, workplaceID, classification string) (DayResponse, error)

	// ListEntries returns flattened rows for one workplace, or all when unset.
	ListEntries(ctx context.Context, filter EntryFilter) ([]EntryRowResponse, error)
}
