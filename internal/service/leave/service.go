package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
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

type TimesheetConflictDetails struct {
	Days []leave.TimesheetConflictDay `json:"days"`
}

type LeaveOverlapDetails struct {
	Leaves []leave.LeaveRequestResponse `json:"leaves"`
}

type LeaveServiceImpl struct {
	leave.LeaveRequestRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
	workplace.WorkplaceRepository
	locks *keylock.KeyLock
	hub   *sse.Hub
	loc   *time.Location
}

// NewLeaveService builds the leave reconciler. locks must be shared with the
// attendance service. hub may be nil.
func NewLeaveService(
	leaveRequestRepo leave.LeaveRequestRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	workplaceRepo workplace.WorkplaceRepository,
	locks *keylock.KeyLock,
	hub *sse.Hub,
	loc *time.Location,
) leave.LeaveService {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveServiceImpl{
		LeaveRequestRepository: leaveRequestRepo,
		AttendanceRepository:   attendanceRepo,
		EmployeeRepository:     employeeRepo,
		WorkplaceRepository:    workplaceRepo,
		locks:                  locks,
		hub:                    hub,
		loc:                    loc,
	}
}

// proposal is a validated payload with parsed dates and directory snapshot.
type proposal struct {
	employee  employee.Employee
	workplace workplace.Workplace
	start     time.Time
	end       time.Time
	days      int
}

// CreateLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) CreateLeaveRequest(ctx context.Context, req leave.LeaveRequestPayload) (leave.LeaveRequestResponse, error) {
	p, err := l.prepare(ctx, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	unlock := l.locks.Lock(p.employee.ID)
	defer unlock()

	if err := l.reconcile(ctx, p, ""); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	created, err := l.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID:     p.employee.ID,
		EmployeeName:   p.employee.FullName,
		WorkplaceID:    p.workplace.ID,
		Function:       req.Function,
		Kind:           leave.Kind(req.Kind),
		Reason:         req.Reason,
		StartDate:      p.start,
		EndDate:        p.end,
		Days:           p.days,
		Status:         leave.LeaveRequestStatusApproved,
		SupervisorName: req.SupervisorName,
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, storeError("failed to create leave request", err)
	}

	l.publish(leave.EventCreated, topicsFor(p.employee, created), leave.ToResponse(created))
	return leave.ToResponse(created), nil
}

// UpdateLeaveRequest implements leave.LeaveService. The new range is checked
// before any field of the stored request changes.
func (l *LeaveServiceImpl) UpdateLeaveRequest(ctx context.Context, req leave.LeaveRequestPayload) (leave.LeaveRequestResponse, error) {
	if validator.IsEmpty(req.ID) {
		var errs validator.ValidationErrors
		errs.Add("id", "id is required")
		return leave.LeaveRequestResponse{}, errs
	}

	p, err := l.prepare(ctx, req)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	existing, err := l.getByID(ctx, req.ID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	unlock := l.locks.LockAll(existing.EmployeeID, p.employee.ID)
	defer unlock()

	if err := l.reconcile(ctx, p, existing.ID); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	next := existing
	next.EmployeeID = p.employee.ID
	next.EmployeeName = p.employee.FullName
	next.WorkplaceID = p.workplace.ID
	next.Function = req.Function
	next.Kind = leave.Kind(req.Kind)
	next.Reason = req.Reason
	next.StartDate = p.start
	next.EndDate = p.end
	next.Days = p.days
	next.SupervisorName = req.SupervisorName

	updated, err := l.LeaveRequestRepository.Update(ctx, next)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, storeError("failed to update leave request", err)
	}

	topics := topicsFor(p.employee, updated)
	if existing.WorkplaceID != updated.WorkplaceID {
		topics = append(topics, existing.WorkplaceID)
	}
	l.publish(leave.EventUpdated, topics, leave.ToResponse(updated))
	return leave.ToResponse(updated), nil
}

// DeleteLeaveRequest implements leave.LeaveService. Deletion skips every
// conflict check.
func (l *LeaveServiceImpl) DeleteLeaveRequest(ctx context.Context, id string) error {
	existing, err := l.getByID(ctx, id)
	if err != nil {
		return err
	}

	unlock := l.locks.Lock(existing.EmployeeID)
	defer unlock()

	if err := l.LeaveRequestRepository.Delete(ctx, id); err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete leave request: %w", err)
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, existing.EmployeeID)
	if err != nil {
		emp = employee.Employee{ID: existing.EmployeeID}
	}
	l.publish(leave.EventDeleted, topicsFor(emp, existing), leave.ToResponse(existing))
	return nil
}

// GetLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) GetLeaveRequest(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	request, err := l.getByID(ctx, id)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	return leave.ToResponse(request), nil
}

// ListLeaveRequest implements leave.LeaveService.
func (l *LeaveServiceImpl) ListLeaveRequest(ctx context.Context, filter leave.LeaveRequestFilter) ([]leave.LeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	lf := leave.ListFilter{}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		lf.EmployeeID = filter.EmployeeID
	}
	if filter.WorkplaceID != nil && *filter.WorkplaceID != "" {
		lf.WorkplaceID = filter.WorkplaceID
	}
	if filter.From != nil && *filter.From != "" {
		from, err := timeutil.ParseDay(*filter.From, l.loc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse from: %w", err)
		}
		lf.From = &from
	}
	if filter.To != nil && *filter.To != "" {
		to, err := timeutil.ParseDay(*filter.To, l.loc)
		if err != nil {
			return nil, fmt.Errorf("failed to parse to: %w", err)
		}
		lf.To = &to
	}

	requests, err := l.LeaveRequestRepository.List(ctx, lf)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}

	resp := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		resp = append(resp, leave.ToResponse(r))
	}
	return resp, nil
}

// prepare validates the payload, computes the inclusive day count and loads
// the directory snapshot.
func (l *LeaveServiceImpl) prepare(ctx context.Context, req leave.LeaveRequestPayload) (proposal, error) {
	if err := req.Validate(); err != nil {
		return proposal{}, err
	}

	start, err := timeutil.ParseDay(req.StartDate, l.loc)
	if err != nil {
		return proposal{}, fmt.Errorf("failed to parse start_date: %w", err)
	}
	end, err := timeutil.ParseDay(req.EndDate, l.loc)
	if err != nil {
		return proposal{}, fmt.Errorf("failed to parse end_date: %w", err)
	}

	days, err := timeutil.DaysInclusive(start, end)
	if err != nil {
		var errs validator.ValidationErrors
		errs.Add("end_date", "end_date must not be before start_date")
		return proposal{}, errs
	}
	if req.Days != nil && *req.Days != days {
		var errs validator.ValidationErrors
		errs.Add("days", fmt.Sprintf("%s: expected %d", leave.ErrDaysMismatch.Error(), days))
		return proposal{}, errs
	}

	emp, err := l.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return proposal{}, err
		}
		return proposal{}, fmt.Errorf("failed to get employee: %w", err)
	}
	if !emp.IsActive {
		return proposal{}, employee.ErrEmployeeInactive
	}

	wp, err := l.WorkplaceRepository.GetByID(ctx, req.WorkplaceID)
	if err != nil {
		if errors.Is(err, workplace.ErrWorkplaceNotFound) {
			return proposal{}, err
		}
		return proposal{}, fmt.Errorf("failed to get workplace: %w", err)
	}

	return proposal{employee: emp, workplace: wp, start: start, end: end, days: days}, nil
}

// reconcile rejects a range that covers recorded work or intersects another
// approved leave of the same employee. excludeID skips the request being
// edited. Neither rejection can be forced.
func (l *LeaveServiceImpl) reconcile(ctx context.Context, p proposal, excludeID string) error {
	days, err := l.AttendanceRepository.ListByEmployee(ctx, p.employee.ID, p.start, p.end)
	if err != nil {
		return fmt.Errorf("failed to list attendance days: %w", err)
	}

	var blocked []leave.TimesheetConflictDay
	for _, day := range days {
		work := day.RealWorkEntries()
		if len(work) == 0 {
			continue
		}
		entries := make([]attendance.EntryResponse, 0, len(work))
		for _, e := range work {
			entries = append(entries, attendance.ToEntryResponse(e))
		}
		blocked = append(blocked, leave.TimesheetConflictDay{
			Date:    day.Date.Format(timeutil.DateLayout),
			Entries: entries,
		})
	}
	if len(blocked) > 0 {
		return conflict.New(
			conflict.CodeTimesheetConflict,
			fmt.Sprintf("employee has recorded work on %d day(s) in this range; remove that attendance first", len(blocked)),
			TimesheetConflictDetails{Days: blocked},
		)
	}

	approved := leave.LeaveRequestStatusApproved
	others, err := l.LeaveRequestRepository.List(ctx, leave.ListFilter{
		EmployeeID: &p.employee.ID,
		Status:     &approved,
		From:       &p.start,
		To:         &p.end,
	})
	if err != nil {
		return fmt.Errorf("failed to list leave requests: %w", err)
	}

	var overlapping []leave.LeaveRequestResponse
	for _, other := range others {
		if other.ID == excludeID || !other.Intersects(p.start, p.end) {
			continue
		}
		overlapping = append(overlapping, leave.ToResponse(other))
	}
	if len(overlapping) > 0 {
		return conflict.New(
			conflict.CodeLeaveOverlap,
			"the range overlaps another approved leave of this employee",
			LeaveOverlapDetails{Leaves: overlapping},
		)
	}

	return nil
}

func (l *LeaveServiceImpl) getByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	request, err := l.LeaveRequestRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, err
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return request, nil
}

func (l *LeaveServiceImpl) publish(event string, topics []string, data interface{}) {
	if l.hub == nil {
		return
	}
	l.hub.Publish(topics, sse.Event{Event: event, Data: data})
	slog.Debug("leave event published", "event", event, "topics", topics)
}

func topicsFor(emp employee.Employee, request leave.LeaveRequest) []string {
	topics := []string{request.WorkplaceID}
	if home := emp.HomeWorkplace(); home != "" && home != request.WorkplaceID {
		topics = append(topics, home)
	}
	return topics
}

func storeError(msg string, err error) error {
	if errors.Is(err, conflict.ErrStaleWrite) || errors.Is(err, conflict.ErrDuplicateKey) {
		return conflict.Retry(err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
