package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/employee"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/report"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/timeutil"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type ReportServiceImpl struct {
	attendanceRepo     attendance.AttendanceRepository
	employeeRepo       employee.EmployeeRepository
	defaultTargetHours int
	loc                *time.Location
	now                func() time.Time
}

func NewReportService(attendanceRepo attendance.AttendanceRepository, employeeRepo employee.EmployeeRepository, defaultTargetHours int, loc *time.Location) report.ReportService {
	if defaultTargetHours <= 0 {
		defaultTargetHours = employee.DefaultMonthlyTargetHours
	}
	if loc == nil {
		loc = time.UTC
	}
	return &ReportServiceImpl{
		attendanceRepo:     attendanceRepo,
		employeeRepo:       employeeRepo,
		defaultTargetHours: defaultTargetHours,
		loc:                loc,
		now:                time.Now,
	}
}

// StatsByPeriod rolls entry rows up per employee. Nothing is stored; every
// call recomputes from the ledger.
func (s *ReportServiceImpl) StatsByPeriod(ctx context.Context, req report.StatsRequest) (report.StatsReport, error) {
	if err := req.Validate(); err != nil {
		return report.StatsReport{}, err
	}

	from, err := timeutil.ParseDay(req.From, s.loc)
	if err != nil {
		return report.StatsReport{}, fmt.Errorf("failed to parse from: %w", err)
	}
	to, err := timeutil.ParseDay(req.To, s.loc)
	if err != nil {
		return report.StatsReport{}, fmt.Errorf("failed to parse to: %w", err)
	}

	filter := attendance.RowFilter{From: &from, To: &to}
	if req.WorkplaceID != nil && *req.WorkplaceID != "" {
		filter.WorkplaceID = req.WorkplaceID
	}

	var (
		rows      []attendance.EntryRow
		employees []employee.Employee
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rows, err = s.attendanceRepo.ListRows(gctx, filter)
		if err != nil {
			return fmt.Errorf("failed to list attendance rows: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		employees, err = s.employeeRepo.List(gctx)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return report.StatsReport{}, err
	}

	months := timeutil.MonthsSpanned(from, to)
	stats := s.aggregate(rows, employees, filter.WorkplaceID, months)

	selected := make([]report.EmployeeStats, 0, len(stats))
	for _, st := range stats {
		switch req.View {
		case report.ViewOvertime:
			if !st.Overtime {
				continue
			}
		case report.ViewBelowTarget:
			if !st.BelowTarget {
				continue
			}
		}
		selected = append(selected, st)
	}

	return report.StatsReport{
		From:        req.From,
		To:          req.To,
		WorkplaceID: filter.WorkplaceID,
		View:        req.View,
		GeneratedAt: s.now().Format(time.RFC3339),
		Employees:   selected,
	}, nil
}

type accumulator struct {
	name           string
	target         int
	totalMinutes   int
	visitorMinutes int
	days           map[string]struct{}
}

// aggregate groups rows by employee. Active employees based at the filtered
// workplace are listed even without rows; with no filter that is every
// active employee.
func (s *ReportServiceImpl) aggregate(rows []attendance.EntryRow, employees []employee.Employee, workplaceID *string, months int) []report.EmployeeStats {
	byID := make(map[string]employee.Employee, len(employees))
	acc := make(map[string]*accumulator)

	get := func(id, name string) *accumulator {
		a, ok := acc[id]
		if ok {
			return a
		}
		target := s.defaultTargetHours
		if emp, known := byID[id]; known {
			target = emp.TargetHours(s.defaultTargetHours)
			name = emp.FullName
		}
		a = &accumulator{name: name, target: target * months, days: make(map[string]struct{})}
		acc[id] = a
		return a
	}

	for _, emp := range employees {
		byID[emp.ID] = emp
	}
	for _, emp := range employees {
		if !emp.IsActive {
			continue
		}
		if workplaceID != nil && emp.HomeWorkplace() != *workplaceID {
			continue
		}
		get(emp.ID, emp.FullName)
	}

	for _, r := range rows {
		a := get(r.EmployeeID, r.EmployeeName)
		a.totalMinutes += r.MinutesWorked
		if r.Classification == attendance.ClassificationVisitor {
			a.visitorMinutes += r.MinutesWorked
		}
		if r.MinutesWorked > 0 {
			a.days[r.Date.Format(timeutil.DateLayout)] = struct{}{}
		}
	}

	out := make([]report.EmployeeStats, 0, len(acc))
	for id, a := range acc {
		total := attendance.HoursFromMinutes(a.totalMinutes)
		diff := total.Sub(decimal.NewFromInt(int64(a.target)))
		out = append(out, report.EmployeeStats{
			EmployeeID:     id,
			EmployeeName:   a.name,
			DaysWorked:     len(a.days),
			TotalMinutes:   a.totalMinutes,
			TotalHours:     total,
			VisitorMinutes: a.visitorMinutes,
			VisitorHours:   attendance.HoursFromMinutes(a.visitorMinutes),
			TargetHours:    a.target,
			DiffHours:      diff,
			Overtime:       diff.IsPositive(),
			BelowTarget:    diff.IsNegative(),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].EmployeeName != out[j].EmployeeName {
			return out[i].EmployeeName < out[j].EmployeeName
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}
