package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/conflict"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/employee"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/leave"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/workplace"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/keylock"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/sse"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/timeutil"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	ledger   *Ledger
	detector *Detector
	employee.EmployeeRepository
	workplace.WorkplaceRepository
	locks *keylock.KeyLock
	hub   *sse.Hub
	loc   *time.Location
}

// NewAttendanceService wires the ledger and detector. locks must be the same
// instance the leave service uses so both aggregates of an employee share one
// writer. hub may be nil.
func NewAttendanceService(
	attendanceRepository attendance.AttendanceRepository,
	leaveRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	workplaceRepository workplace.WorkplaceRepository,
	locks *keylock.KeyLock,
	hub *sse.Hub,
	loc *time.Location,
) attendance.AttendanceService {
	if loc == nil {
		loc = time.UTC
	}
	return &AttendanceServiceImpl{
		ledger:              NewLedger(attendanceRepository),
		detector:            NewDetector(leaveRepository),
		EmployeeRepository:  employeeRepository,
		WorkplaceRepository: workplaceRepository,
		locks:               locks,
		hub:                 hub,
		loc:                 loc,
	}
}

// Submit implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Submit(ctx context.Context, req attendance.SubmitAttendanceRequest) (attendance.SubmitAttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.SubmitAttendanceResponse{}, err
	}

	date, err := timeutil.ParseDay(req.Date, s.loc)
	if err != nil {
		return attendance.SubmitAttendanceResponse{}, fmt.Errorf("failed to parse date: %w", err)
	}

	emp, err := s.activeEmployee(ctx, req.EmployeeID)
	if err != nil {
		return attendance.SubmitAttendanceResponse{}, err
	}

	wp, err := s.WorkplaceRepository.GetByID(ctx, req.WorkplaceID)
	if err != nil {
		if errors.Is(err, workplace.ErrWorkplaceNotFound) {
			return attendance.SubmitAttendanceResponse{}, err
		}
		return attendance.SubmitAttendanceResponse{}, fmt.Errorf("failed to get workplace: %w", err)
	}

	startTime, endTime := req.Times()

	unlock := s.locks.Lock(emp.ID)
	defer unlock()

	day, found, err := s.ledger.FindDay(ctx, emp.ID, date)
	if err != nil {
		return attendance.SubmitAttendanceResponse{}, err
	}
	if !found {
		day = attendance.NewDay(emp.ID, emp.FullName, date)
	}
	day.EmployeeName = emp.FullName

	verdict, err := s.detector.Evaluate(ctx, Candidate{
		Employee:    emp,
		WorkplaceID: wp.ID,
		Date:        date,
		StartTime:   startTime,
		EndTime:     endTime,
	}, day, conflict.PolicyFromForce(req.Force))
	if err != nil {
		return attendance.SubmitAttendanceResponse{}, err
	}

	entry := attendance.Entry{
		WorkplaceID:    wp.ID,
		WorkplaceName:  wp.Name,
		StartTime:      startTime,
		EndTime:        endTime,
		MinutesWorked:  resolveMinutes(req, startTime, endTime),
		Classification: verdict.Classification,
		LeaveType:      req.LeaveType,
	}
	if req.Note != nil {
		entry.Note = *req.Note
	}
	if lv := verdict.CoveringLeave; lv != nil {
		kind := string(lv.Kind)
		entry.LeaveType = &kind
		if entry.Note == "" {
			entry.Note = fmt.Sprintf("Recorded during approved %s leave (%s to %s)",
				lv.Kind, lv.StartDate.Format(timeutil.DateLayout), lv.EndDate.Format(timeutil.DateLayout))
		}
	}

	saved, replaced, err := s.ledger.UpsertEntry(ctx, day, entry)
	if err != nil {
		return attendance.SubmitAttendanceResponse{}, err
	}

	s.publish(attendance.EventDayUpdated, topicsFor(emp, saved), attendance.ToDayResponse(saved))

	stored, _ := saved.FindEntry(entry.WorkplaceID, entry.Classification)
	return attendance.SubmitAttendanceResponse{
		EmployeeID:   saved.EmployeeID,
		EmployeeName: saved.EmployeeName,
		Date:         saved.Date.Format(timeutil.DateLayout),
		Entry:        attendance.ToEntryResponse(stored),
		Replaced:     replaced,
		TotalMinutes: saved.TotalMinutes(),
		TotalHours:   saved.TotalHours(),
	}, nil
}

// GetDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetDay(ctx context.Context, employeeID, date string) (attendance.DayResponse, error) {
	day, err := s.parseKey(employeeID, date)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	record, found, err := s.ledger.FindDay(ctx, employeeID, day)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	if !found {
		return attendance.DayResponse{}, attendance.ErrAttendanceNotFound
	}
	return attendance.ToDayResponse(record), nil
}

// DeleteDay implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) DeleteDay(ctx context.Context, employeeID, date string) error {
	day, err := s.parseKey(employeeID, date)
	if err != nil {
		return err
	}

	unlock := s.locks.Lock(employeeID)
	defer unlock()

	record, found, err := s.ledger.FindDay(ctx, employeeID, day)
	if err != nil {
		return err
	}
	if !found {
		return attendance.ErrAttendanceNotFound
	}

	if err := s.ledger.RemoveDay(ctx, employeeID, day); err != nil {
		return err
	}

	s.publish(attendance.EventDayDeleted, s.topicsForDay(ctx, record), attendance.ToDayResponse(record))
	return nil
}

// RemoveEntry implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) RemoveEntry(ctx context.Context, employeeID, date, workplaceID, classification string) (attendance.DayResponse, error) {
	day, err := s.parseKey(employeeID, date)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	var errs validator.ValidationErrors
	if validator.IsEmpty(workplaceID) {
		errs.Add("workplace_id", "workplace_id is required")
	}
	class := attendance.Classification(classification)
	if class != "" && class != attendance.ClassificationHome && class != attendance.ClassificationVisitor {
		errs.Add("classification", "classification must be one of: home, visitor")
	}
	if err := errs.Err(); err != nil {
		return attendance.DayResponse{}, err
	}

	unlock := s.locks.Lock(employeeID)
	defer unlock()

	record, found, err := s.ledger.FindDay(ctx, employeeID, day)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	if !found {
		return attendance.DayResponse{}, attendance.ErrAttendanceNotFound
	}

	updated, deleted, err := s.ledger.RemoveEntry(ctx, record, workplaceID, class)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	topics := append(s.topicsForDay(ctx, record), workplaceID)
	if deleted {
		s.publish(attendance.EventDayDeleted, topics, attendance.ToDayResponse(updated))
	} else {
		s.publish(attendance.EventDayUpdated, topics, attendance.ToDayResponse(updated))
	}
	return attendance.ToDayResponse(updated), nil
}

// ListEntries implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListEntries(ctx context.Context, filter attendance.EntryFilter) ([]attendance.EntryRowResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	from, err := s.optionalDay(filter.From)
	if err != nil {
		return nil, err
	}
	to, err := s.optionalDay(filter.To)
	if err != nil {
		return nil, err
	}

	var rows []attendance.EntryRow
	if filter.WorkplaceID != nil && *filter.WorkplaceID != "" {
		rows, err = s.ledger.AggregateByWorkplace(ctx, *filter.WorkplaceID, from, to)
	} else {
		rows, err = s.ledger.AggregateAll(ctx, from, to)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]attendance.EntryRowResponse, 0, len(rows))
	for _, r := range rows {
		resp = append(resp, attendance.ToEntryRowResponse(r))
	}
	return resp, nil
}

func (s *AttendanceServiceImpl) activeEmployee(ctx context.Context, id string) (employee.Employee, error) {
	emp, err := s.EmployeeRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return employee.Employee{}, employee.ErrEmployeeInactive
	}
	return emp, nil
}

func (s *AttendanceServiceImpl) parseKey(employeeID, date string) (time.Time, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(employeeID) {
		errs.Add("employee_id", "employee_id is required")
	}
	day, err := timeutil.ParseDay(date, s.loc)
	if err != nil {
		errs.Add("date", "date must be in YYYY-MM-DD format")
	}
	if err := errs.Err(); err != nil {
		return time.Time{}, err
	}
	return day, nil
}

func (s *AttendanceServiceImpl) optionalDay(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	day, err := timeutil.ParseDay(*v, s.loc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}
	return &day, nil
}

// topicsForDay resolves the change feed topics of a stored day. The employee
// lookup is best effort; a missing directory record only drops the home topic.
func (s *AttendanceServiceImpl) topicsForDay(ctx context.Context, day attendance.Day) []string {
	emp, err := s.EmployeeRepository.GetByID(ctx, day.EmployeeID)
	if err != nil {
		emp = employee.Employee{ID: day.EmployeeID}
	}
	return topicsFor(emp, day)
}

func (s *AttendanceServiceImpl) publish(event string, topics []string, data interface{}) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(topics, sse.Event{Event: event, Data: data})
	slog.Debug("attendance event published", "event", event, "topics", topics)
}

func topicsFor(emp employee.Employee, day attendance.Day) []string {
	topics := make([]string, 0, len(day.Entries)+1)
	if home := emp.HomeWorkplace(); home != "" {
		topics = append(topics, home)
	}
	for _, e := range day.Entries {
		topics = append(topics, e.WorkplaceID)
	}
	return topics
}

// resolveMinutes prefers an explicit minute count, then hours, then the shift length.
func resolveMinutes(req attendance.SubmitAttendanceRequest, startTime, endTime string) int {
	switch {
	case req.MinutesWorked != nil:
		return *req.MinutesWorked
	case req.HoursWorked != nil:
		return int(math.Round(*req.HoursWorked * 60))
	default:
		return timeutil.DurationMinutes(startTime, endTime)
	}
}
