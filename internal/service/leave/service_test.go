package leave

import (
	"context"
	"testing"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/conflict"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/employee"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/leave"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/workplace"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/keylock"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/sse"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/validator"
	"github.com/Horattiu/RemediumFarm-sub000/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func setup(t *testing.T) (*memory.Store, *sse.Hub, leave.LeaveService) {
	t.Helper()

	store := memory.NewStore()
	store.PutWorkplace(workplace.Workplace{ID: "wp-a", Name: "Pharmacy A"})
	store.PutWorkplace(workplace.Workplace{ID: "wp-b", Name: "Pharmacy B"})
	store.PutEmployee(employee.Employee{ID: "emp-w", FullName: "Employee W", HomeWorkplaceID: strPtr("wp-a"), IsActive: true})
	store.PutEmployee(employee.Employee{ID: "emp-v", FullName: "Employee V", HomeWorkplaceID: strPtr("wp-b"), IsActive: true})
	store.PutEmployee(employee.Employee{ID: "emp-gone", FullName: "Former", IsActive: false})

	hub := sse.NewHub()
	svc := NewLeaveService(store.Leaves(), store.Attendance(), store.Employees(), store.Workplaces(), keylock.New(), hub, time.UTC)
	return store, hub, svc
}

func payload(employeeID, start, end string) leave.LeaveRequestPayload {
	return leave.LeaveRequestPayload{
		EmployeeID:     employeeID,
		WorkplaceID:    "wp-a",
		Function:       "Pharmacist",
		Kind:           "rest",
		Reason:         "holiday",
		StartDate:      start,
		EndDate:        end,
		SupervisorName: "Maria Dinu",
	}
}

func saveWork(t *testing.T, store *memory.Store, employeeID string, date time.Time, e attendance.Entry) {
	t.Helper()
	day := attendance.NewDay(employeeID, "", date)
	day.UpsertEntry(e)
	_, err := store.Attendance().Save(context.Background(), day)
	require.NoError(t, err)
}

func TestCreateLeaveRequest_ComputesDaysAndApproves(t *testing.T) {
	_, hub, svc := setup(t)
	ctx := context.Background()

	events, cleanup := hub.Subscribe("wp-a")
	defer cleanup()

	resp, err := svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-03-01", "2026-03-10"))
	require.NoError(t, err)
	assert.Equal(t, 10, resp.Days)
	assert.Equal(t, "approved", resp.Status)
	assert.Equal(t, "Employee W", resp.EmployeeName)
	assert.NotEmpty(t, resp.ID)

	require.Len(t, events, 1)
	assert.Equal(t, leave.EventCreated, (<-events).Event)

	got, err := svc.GetLeaveRequest(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.ID, got.ID)
}

func TestCreateLeaveRequest_Validation(t *testing.T) {
	_, _, svc := setup(t)
	ctx := context.Background()

	_, err := svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-03-10", "2026-03-01"))
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "end_date")

	p := payload("emp-w", "2026-03-01", "2026-03-03")
	days := 5
	p.Days = &days
	_, err = svc.CreateLeaveRequest(ctx, p)
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "days")

	p = payload("emp-w", "2026-03-01", "2026-03-03")
	p.Kind = "vacation"
	_, err = svc.CreateLeaveRequest(ctx, p)
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "kind")

	_, err = svc.CreateLeaveRequest(ctx, payload("emp-gone", "2026-03-01", "2026-03-03"))
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)
}

func TestCreateLeaveRequest_TimesheetConflict(t *testing.T) {
	store, _, svc := setup(t)
	ctx := context.Background()

	date := time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC)
	saveWork(t, store, "emp-w", date, attendance.Entry{
		WorkplaceID: "wp-a", StartTime: "09:00", EndTime: "17:00", MinutesWorked: 480,
		Classification: attendance.ClassificationHome,
	})

	p := payload("emp-w", "2026-04-06", "2026-04-10")
	p.Force = true
	_, err := svc.CreateLeaveRequest(ctx, p)
	require.Error(t, err)
	ce, ok := conflict.As(err)
	require.True(t, ok)
	assert.Equal(t, conflict.CodeTimesheetConflict, ce.Code)
	assert.False(t, ce.CanForce())

	details, ok := ce.Details.(TimesheetConflictDetails)
	require.True(t, ok)
	require.Len(t, details.Days, 1)
	assert.Equal(t, "2026-04-07", details.Days[0].Date)
	require.Len(t, details.Days[0].Entries, 1)
	assert.Equal(t, "09:00", details.Days[0].Entries[0].StartTime)

	require.NoError(t, store.Attendance().Delete(ctx, "emp-w", date))

	resp, err := svc.CreateLeaveRequest(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 5, resp.Days)
}

func TestCreateLeaveRequest_LeaveTaggedEntriesDoNotBlock(t *testing.T) {
	store, _, svc := setup(t)
	ctx := context.Background()

	kind := "medical"
	saveWork(t, store, "emp-w", time.Date(2026, 4, 7, 0, 0, 0, 0, time.UTC), attendance.Entry{
		WorkplaceID: "wp-a", StartTime: "09:00", EndTime: "17:00", MinutesWorked: 480,
		Classification: attendance.ClassificationHome, LeaveType: &kind,
	})

	_, err := svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-04-06", "2026-04-10"))
	assert.NoError(t, err)
}

func TestUpdateLeaveRequest_LeaveOverlap(t *testing.T) {
	_, _, svc := setup(t)
	ctx := context.Background()

	l1, err := svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-03-01", "2026-03-10"))
	require.NoError(t, err)
	l2, err := svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-03-12", "2026-03-20"))
	require.NoError(t, err)

	p := payload("emp-w", "2026-03-08", "2026-03-15")
	p.ID = l1.ID
	p.Force = true
	_, err = svc.UpdateLeaveRequest(ctx, p)
	require.Error(t, err)
	ce, ok := conflict.As(err)
	require.True(t, ok)
	assert.Equal(t, conflict.CodeLeaveOverlap, ce.Code)
	assert.False(t, ce.CanForce())

	details, ok := ce.Details.(LeaveOverlapDetails)
	require.True(t, ok)
	require.Len(t, details.Leaves, 1)
	assert.Equal(t, l2.ID, details.Leaves[0].ID)

	// The stored request is unchanged.
	got, err := svc.GetLeaveRequest(ctx, l1.ID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-01", got.StartDate)
	assert.Equal(t, "2026-03-10", got.EndDate)
}

func TestUpdateLeaveRequest_OverlapWithItselfIsAllowed(t *testing.T) {
	_, _, svc := setup(t)
	ctx := context.Background()

	l1, err := svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-03-01", "2026-03-10"))
	require.NoError(t, err)

	p := payload("emp-w", "2026-03-05", "2026-03-11")
	p.ID = l1.ID
	p.Kind = "event"
	p.Reason = "wedding"
	updated, err := svc.UpdateLeaveRequest(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Days)
	assert.Equal(t, "event", updated.Kind)
	assert.Equal(t, "wedding", updated.Reason)

	p.ID = "missing"
	_, err = svc.UpdateLeaveRequest(ctx, p)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestLeaveOverlapIsPerEmployee(t *testing.T) {
	_, _, svc := setup(t)
	ctx := context.Background()

	_, err := svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-03-01", "2026-03-10"))
	require.NoError(t, err)

	_, err = svc.CreateLeaveRequest(ctx, payload("emp-v", "2026-03-01", "2026-03-10"))
	assert.NoError(t, err)

	_, err = svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-03-10", "2026-03-12"))
	assert.True(t, conflict.Is(err, conflict.CodeLeaveOverlap))
}

func TestNoSelfOverlapAmongApprovedLeaves(t *testing.T) {
	store, _, svc := setup(t)
	ctx := context.Background()

	ranges := [][2]string{
		{"2026-05-01", "2026-05-05"},
		{"2026-05-03", "2026-05-08"},
		{"2026-05-06", "2026-05-06"},
		{"2026-05-09", "2026-05-12"},
		{"2026-04-28", "2026-05-01"},
		{"2026-05-12", "2026-05-15"},
	}
	for _, r := range ranges {
		_, _ = svc.CreateLeaveRequest(ctx, payload("emp-w", r[0], r[1]))
	}

	empID := "emp-w"
	all, err := store.Leaves().List(ctx, leave.ListFilter{EmployeeID: &empID})
	require.NoError(t, err)
	require.NotEmpty(t, all)

	for i := range all {
		for j := i + 1; j < len(all); j++ {
			assert.False(t, all[i].Intersects(all[j].StartDate, all[j].EndDate),
				"%s overlaps %s", all[i].ID, all[j].ID)
		}
	}
}

func TestDeleteLeaveRequest(t *testing.T) {
	_, _, svc := setup(t)
	ctx := context.Background()

	created, err := svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-03-01", "2026-03-10"))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteLeaveRequest(ctx, created.ID))
	assert.ErrorIs(t, svc.DeleteLeaveRequest(ctx, created.ID), leave.ErrLeaveRequestNotFound)

	_, err = svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-03-01", "2026-03-10"))
	assert.NoError(t, err)
}

func TestListLeaveRequest(t *testing.T) {
	_, _, svc := setup(t)
	ctx := context.Background()

	_, err := svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-03-01", "2026-03-10"))
	require.NoError(t, err)
	_, err = svc.CreateLeaveRequest(ctx, payload("emp-w", "2026-06-01", "2026-06-02"))
	require.NoError(t, err)
	_, err = svc.CreateLeaveRequest(ctx, payload("emp-v", "2026-03-05", "2026-03-06"))
	require.NoError(t, err)

	all, err := svc.ListLeaveRequest(ctx, leave.LeaveRequestFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forW, err := svc.ListLeaveRequest(ctx, leave.LeaveRequestFilter{EmployeeID: strPtr("emp-w")})
	require.NoError(t, err)
	assert.Len(t, forW, 2)

	march, err := svc.ListLeaveRequest(ctx, leave.LeaveRequestFilter{From: strPtr("2026-03-01"), To: strPtr("2026-03-31")})
	require.NoError(t, err)
	assert.Len(t, march, 2)

	_, err = svc.ListLeaveRequest(ctx, leave.LeaveRequestFilter{From: strPtr("March")})
	assert.Error(t, err)
}
