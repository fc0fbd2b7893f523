package memory

import (
	"context"
	"sort"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/conflict"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/leave"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/timeutil"
	"github.com/google/uuid"
)

type leaveRepository struct {
	s *Store
}

func (r *leaveRepository) Create(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if request.ID == "" {
		request.ID = uuid.NewString()
	}
	if _, exists := r.s.leaves[request.ID]; exists {
		return leave.LeaveRequest{}, conflict.ErrDuplicateKey
	}

	now := r.s.now()
	request.Version = 1
	request.CreatedAt = now
	request.UpdatedAt = now
	r.s.leaves[request.ID] = request
	return request, nil
}

func (r *leaveRepository) GetByID(_ context.Context, id string) (leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	request, ok := r.s.leaves[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	return request, nil
}

func (r *leaveRepository) List(_ context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var out []leave.LeaveRequest
	for _, request := range r.s.leaves {
		if filter.EmployeeID != nil && request.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.WorkplaceID != nil && request.WorkplaceID != *filter.WorkplaceID {
			continue
		}
		if filter.Status != nil && request.Status != *filter.Status {
			continue
		}
		if filter.From != nil && timeutil.UTCDay(request.EndDate).Before(timeutil.UTCDay(*filter.From)) {
			continue
		}
		if filter.To != nil && timeutil.UTCDay(request.StartDate).After(timeutil.UTCDay(*filter.To)) {
			continue
		}
		out = append(out, request)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartDate.Equal(out[j].StartDate) {
			return out[i].StartDate.Before(out[j].StartDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *leaveRepository) FindApprovedCovering(_ context.Context, employeeID, workplaceID string, day time.Time) (*leave.LeaveRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	var found *leave.LeaveRequest
	for _, request := range r.s.leaves {
		if request.EmployeeID != employeeID || !request.IsApproved() || !request.Covers(day) {
			continue
		}
		if workplaceID != "" && request.WorkplaceID != workplaceID {
			continue
		}
		if found == nil || request.StartDate.Before(found.StartDate) {
			match := request
			found = &match
		}
	}
	return found, nil
}

func (r *leaveRepository) Update(_ context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.leaves[request.ID]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if existing.Version != request.Version {
		return leave.LeaveRequest{}, conflict.ErrStaleWrite
	}

	request.Version++
	request.CreatedAt = existing.CreatedAt
	request.UpdatedAt = r.s.now()
	r.s.leaves[request.ID] = request
	return request, nil
}

func (r *leaveRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.leaves[id]; !ok {
		return leave.ErrLeaveRequestNotFound
	}
	delete(r.s.leaves, id)
	return nil
}

func (r *leaveRepository) RefreshNames(_ context.Context, employeeNames map[string]string) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	touched := 0
	for id, request := range r.s.leaves {
		if name, ok := employeeNames[request.EmployeeID]; ok && name != request.EmployeeName {
			request.EmployeeName = name
			r.s.leaves[id] = request
			touched++
		}
	}
	return touched, nil
}
