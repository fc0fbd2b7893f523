// Package memory provides in-memory repositories with the same semantics as
// the postgresql package, including version checks on writes. Used by tests
// and by the memory storage driver.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/employee"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/leave"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/workplace"
)

// =============================================================================
// STORE - shared state behind every repository view
// =============================================================================

type Store struct {
	mu         sync.RWMutex
	days       map[dayKey]attendance.Day
	leaves     map[string]leave.LeaveRequest
	employees  map[string]employee.Employee
	workplaces map[string]workplace.Workplace
	now        func() time.Time
}

type dayKey struct {
	EmployeeID string
	Date       string
}

func keyOf(employeeID string, date time.Time) dayKey {
	return dayKey{EmployeeID: employeeID, Date: date.Format("2006-01-02")}
}

func NewStore() *Store {
	return &Store{
		days:       make(map[dayKey]attendance.Day),
		leaves:     make(map[string]leave.LeaveRequest),
		employees:  make(map[string]employee.Employee),
		workplaces: make(map[string]workplace.Workplace),
		now:        time.Now,
	}
}

func (s *Store) Attendance() attendance.AttendanceRepository {
	return &attendanceRepository{s: s}
}

func (s *Store) Leaves() leave.LeaveRequestRepository {
	return &leaveRepository{s: s}
}

func (s *Store) Employees() employee.EmployeeRepository {
	return &employeeRepository{s: s}
}

func (s *Store) Workplaces() workplace.WorkplaceRepository {
	return &workplaceRepository{s: s}
}

// PutEmployee inserts or replaces a directory record.
func (s *Store) PutEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

// PutWorkplace inserts or replaces a directory record.
func (s *Store) PutWorkplace(w workplace.Workplace) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.workplaces[w.ID] = w
}

// =============================================================================
// DIRECTORY
// =============================================================================

type employeeRepository struct {
	s *Store
}

func (r *employeeRepository) GetByID(_ context.Context, id string) (employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	e, ok := r.s.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return e, nil
}

func (r *employeeRepository) List(_ context.Context) ([]employee.Employee, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]employee.Employee, 0, len(r.s.employees))
	for _, e := range r.s.employees {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullName < out[j].FullName })
	return out, nil
}

type workplaceRepository struct {
	s *Store
}

func (r *workplaceRepository) GetByID(_ context.Context, id string) (workplace.Workplace, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	w, ok := r.s.workplaces[id]
	if !ok {
		return workplace.Workplace{}, workplace.ErrWorkplaceNotFound
	}
	return w, nil
}

func (r *workplaceRepository) List(_ context.Context) ([]workplace.Workplace, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]workplace.Workplace, 0, len(r.s.workplaces))
	for _, w := range r.s.workplaces {
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
