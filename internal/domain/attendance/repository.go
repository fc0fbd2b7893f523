package attendance

import (
	"context"
	"time"
)

// RowFilter selects flattened entry rows. Nil bounds are open.
// With WorkplaceID set, a row matches when its entry is at that workplace or
// when it is a visitor entry of an employee whose home is that workplace.
type RowFilter struct {
	WorkplaceID *string
	From        *time.Time
	To          *time.Time
}

// AttendanceRepository persists Day aggregates keyed by (employee, date).
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns ErrAttendanceNotFound when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (Day, error)

	// ListByEmployee returns the employee's days within [from, to], ordered by date.
	ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]Day, error)

	// Save inserts a day with Version 0 or updates one whose stored version
	// still equals day.Version. Inserting an existing key returns
	// conflict.ErrDuplicateKey; a version mismatch returns conflict.ErrStaleWrite.
	Save(ctx context.Context, day Day) (Day, error)

	// Delete removes the whole day. Returns ErrAttendanceNotFound when absent.
	Delete(ctx context.Context, employeeID string, date time.Time) error

	ListRows(ctx context.Context, filter RowFilter) ([]EntryRow, error)

	// RefreshNames rewrites denormalized employee and workplace names and
	// returns the number of days touched.
	RefreshNames(ctx context.Context, employeeNames, workplaceNames map[string]string) (int, error)
}
