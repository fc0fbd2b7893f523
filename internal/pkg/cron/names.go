package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/employee"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/leave"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/workplace"
)

// NameJobs re-denormalizes directory names into attendance days and leave
// rows. The cached names are display data only; ids stay authoritative.
type NameJobs struct {
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	employeeRepo   employee.EmployeeRepository
	workplaceRepo  workplace.WorkplaceRepository
}

func NewNameJobs(
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	employeeRepo employee.EmployeeRepository,
	workplaceRepo workplace.WorkplaceRepository,
) *NameJobs {
	return &NameJobs{
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		employeeRepo:   employeeRepo,
		workplaceRepo:  workplaceRepo,
	}
}

func (j *NameJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(Job{
		Name:     "refresh_denormalized_names",
		Interval: interval,
		Timeout:  5 * time.Minute,
		Fn: func(ctx context.Context) error {
			_, err := j.RefreshDenormalizedNames(ctx)
			return err
		},
	})
}

// BackfillResult counts the records whose cached names changed.
type BackfillResult struct {
	AttendanceDays int
	LeaveRequests  int
}

func (j *NameJobs) RefreshDenormalizedNames(ctx context.Context) (BackfillResult, error) {
	employees, err := j.employeeRepo.List(ctx)
	if err != nil {
		return BackfillResult{}, fmt.Errorf("failed to list employees: %w", err)
	}
	workplaces, err := j.workplaceRepo.List(ctx)
	if err != nil {
		return BackfillResult{}, fmt.Errorf("failed to list workplaces: %w", err)
	}

	employeeNames := make(map[string]string, len(employees))
	for _, e := range employees {
		employeeNames[e.ID] = e.FullName
	}
	workplaceNames := make(map[string]string, len(workplaces))
	for _, w := range workplaces {
		workplaceNames[w.ID] = w.Name
	}

	var result BackfillResult
	result.AttendanceDays, err = j.attendanceRepo.RefreshNames(ctx, employeeNames, workplaceNames)
	if err != nil {
		return result, fmt.Errorf("failed to refresh attendance names: %w", err)
	}
	result.LeaveRequests, err = j.leaveRepo.RefreshNames(ctx, employeeNames)
	if err != nil {
		return result, fmt.Errorf("failed to refresh leave request names: %w", err)
	}

	if result.AttendanceDays > 0 || result.LeaveRequests > 0 {
		slog.Info("Cron: denormalized names refreshed",
			"attendance_days", result.AttendanceDays,
			"leave_requests", result.LeaveRequests,
		)
	}
	return result, nil
}
