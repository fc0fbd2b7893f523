package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/conflict"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/timeutil"
	"github.com/google/uuid"
)

type attendanceRepository struct {
	s *Store
}

func (r *attendanceRepository) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time) (attendance.Day, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	day, ok := r.s.days[keyOf(employeeID, date)]
	if !ok {
		return attendance.Day{}, attendance.ErrAttendanceNotFound
	}
	return day.Clone(), nil
}

func (r *attendanceRepository) ListByEmployee(_ context.Context, employeeID string, from, to time.Time) ([]attendance.Day, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []attendance.Day
	for k, day := range r.s.days {
		if k.EmployeeID != employeeID || !timeutil.WithinDays(day.Date, from, to) {
			continue
		}
		out = append(out, day.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (r *attendanceRepository) Save(_ context.Context, day attendance.Day) (attendance.Day, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := keyOf(day.EmployeeID, day.Date)
	existing, exists := r.s.days[k]
	now := r.s.now()

	if day.Version == 0 {
		if exists {
			return attendance.Day{}, conflict.ErrDuplicateKey
		}
		day.ID = uuid.NewString()
		day.CreatedAt = now
	} else {
		if !exists || existing.Version != day.Version {
			return attendance.Day{}, conflict.ErrStaleWrite
		}
		day.ID = existing.ID
		day.CreatedAt = existing.CreatedAt
	}

	day.Version++
	day.UpdatedAt = now
	day = day.Clone()
	day.Recompute()
	r.s.days[k] = day
	return day.Clone(), nil
}

func (r *attendanceRepository) Delete(_ context.Context, employeeID string, date time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	k := keyOf(employeeID, date)
	if _, ok := r.s.days[k]; !ok {
		return attendance.ErrAttendanceNotFound
	}
	delete(r.s.days, k)
	return nil
}

func (r *attendanceRepository) ListRows(_ context.Context, filter attendance.RowFilter) ([]attendance.EntryRow, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var rows []attendance.EntryRow
	for _, day := range r.s.days {
		if filter.From != nil && timeutil.UTCDay(day.Date).Before(timeutil.UTCDay(*filter.From)) {
			continue
		}
		if filter.To != nil && timeutil.UTCDay(day.Date).After(timeutil.UTCDay(*filter.To)) {
			continue
		}

		var home *string
		if emp, ok := r.s.employees[day.EmployeeID]; ok {
			home = emp.HomeWorkplaceID
		}

		for _, e := range day.Entries {
			if filter.WorkplaceID != nil {
				wp := *filter.WorkplaceID
				atWorkplace := e.WorkplaceID == wp
				visitorFromHome := e.Classification == attendance.ClassificationVisitor && home != nil && *home == wp
				if !atWorkplace && !visitorFromHome {
					continue
				}
			}
			rows = append(rows, attendance.EntryRow{
				EmployeeID:      day.EmployeeID,
				EmployeeName:    day.EmployeeName,
				HomeWorkplaceID: home,
				Date:            day.Date,
				Entry:           e,
			})
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].Date.Equal(rows[j].Date) {
			return rows[i].Date.Before(rows[j].Date)
		}
		if rows[i].EmployeeName != rows[j].EmployeeName {
			return rows[i].EmployeeName < rows[j].EmployeeName
		}
		return rows[i].WorkplaceID < rows[j].WorkplaceID
	})
	return rows, nil
}

func (r *attendanceRepository) RefreshNames(_ context.Context, employeeNames, workplaceNames map[string]string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	touched := 0
	for k, day := range r.s.days {
		changed := false
		day = day.Clone()

		if name, ok := employeeNames[day.EmployeeID]; ok && name != day.EmployeeName {
			day.EmployeeName = name
			changed = true
		}
		for i := range day.Entries {
			if name, ok := workplaceNames[day.Entries[i].WorkplaceID]; ok && name != day.Entries[i].WorkplaceName {
				day.Entries[i].WorkplaceName = name
				changed = true
			}
		}

		if changed {
			r.s.days[k] = day
			touched++
		}
	}
	return touched, nil
}
