package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/conflict"
)

// Ledger owns AttendanceDay persistence. Every mutation goes through Save so
// totals are recomputed and the version token is checked.
type Ledger struct {
	repo attendance.AttendanceRepository
}

func NewLedger(repo attendance.AttendanceRepository) *Ledger {
	return &Ledger{repo: repo}
}

// FindDay returns the day record and whether it exists.
func (l *Ledger) FindDay(ctx context.Context, employeeID string, date time.Time) (attendance.Day, bool, error) {
	day, err := l.repo.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.Day{}, false, nil
		}
		return attendance.Day{}, false, fmt.Errorf("failed to get attendance day: %w", err)
	}
	return day, true, nil
}

// UpsertEntry writes entry into current, replacing the entry in the same
// (workplace, classification) slot. current must be the snapshot the caller
// evaluated; a record that changed since yields a DuplicateKey rejection.
func (l *Ledger) UpsertEntry(ctx context.Context, current attendance.Day, entry attendance.Entry) (attendance.Day, bool, error) {
	day := current.Clone()
	replaced := day.UpsertEntry(entry)

	saved, err := l.repo.Save(ctx, day)
	if err != nil {
		return attendance.Day{}, false, storeError("failed to save attendance day", err)
	}
	return saved, replaced, nil
}

// RemoveEntry drops the entries at workplaceID, or only the class slot when
// class is set. The day is deleted when its last entry goes; the returned
// bool reports that case.
func (l *Ledger) RemoveEntry(ctx context.Context, current attendance.Day, workplaceID string, class attendance.Classification) (attendance.Day, bool, error) {
	day := current.Clone()
	if day.RemoveEntries(workplaceID, class) == 0 {
		return attendance.Day{}, false, attendance.ErrEntryNotFound
	}

	if day.IsEmpty() {
		if err := l.RemoveDay(ctx, day.EmployeeID, day.Date); err != nil {
			return attendance.Day{}, false, err
		}
		return day, true, nil
	}

	saved, err := l.repo.Save(ctx, day)
	if err != nil {
		return attendance.Day{}, false, storeError("failed to save attendance day", err)
	}
	return saved, false, nil
}

func (l *Ledger) RemoveDay(ctx context.Context, employeeID string, date time.Time) error {
	if err := l.repo.Delete(ctx, employeeID, date); err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete attendance day: %w", err)
	}
	return nil
}

// DaysInRange returns the employee's days within [from, to].
func (l *Ledger) DaysInRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Day, error) {
	days, err := l.repo.ListByEmployee(ctx, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance days: %w", err)
	}
	return days, nil
}

// AggregateByWorkplace returns one row per entry that is at workplaceID or
// is a visitor entry of an employee based at workplaceID.
func (l *Ledger) AggregateByWorkplace(ctx context.Context, workplaceID string, from, to *time.Time) ([]attendance.EntryRow, error) {
	rows, err := l.repo.ListRows(ctx, attendance.RowFilter{WorkplaceID: &workplaceID, From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance rows: %w", err)
	}
	return rows, nil
}

// AggregateAll returns one row per entry across all workplaces.
func (l *Ledger) AggregateAll(ctx context.Context, from, to *time.Time) ([]attendance.EntryRow, error) {
	rows, err := l.repo.ListRows(ctx, attendance.RowFilter{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance rows: %w", err)
	}
	return rows, nil
}

// storeError turns optimistic-concurrency failures into a retryable rejection.
func storeError(msg string, err error) error {
	if errors.Is(err, conflict.ErrStaleWrite) || errors.Is(err, conflict.ErrDuplicateKey) {
		return conflict.Retry(err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
