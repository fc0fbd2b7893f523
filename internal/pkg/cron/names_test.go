package cron

import (
	"context"
	"testing"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/employee"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/leave"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/workplace"
	"github.com/Horattiu/RemediumFarm-sub000/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNameJobs_RefreshDenormalizedNames(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	home := "wp-a"
	store.PutWorkplace(workplace.Workplace{ID: home, Name: "Pharmacy A"})
	store.PutEmployee(employee.Employee{ID: "emp-1", FullName: "Ana Pop", HomeWorkplaceID: &home, IsActive: true})

	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	day := attendance.NewDay("emp-1", "Ana Pop", date)
	day.UpsertEntry(attendance.Entry{
		WorkplaceID:    home,
		WorkplaceName:  "Pharmacy A",
		StartTime:      "09:00",
		EndTime:        "17:00",
		MinutesWorked:  480,
		Classification: attendance.ClassificationHome,
	})
	_, err := store.Attendance().Save(ctx, day)
	require.NoError(t, err)

	_, err = store.Leaves().Create(ctx, leave.LeaveRequest{
		EmployeeID:   "emp-1",
		EmployeeName: "Ana Pop",
		WorkplaceID:  home,
		Kind:         leave.KindRest,
		StartDate:    date.AddDate(0, 0, 5),
		EndDate:      date.AddDate(0, 0, 6),
		Days:         2,
		Status:       leave.LeaveRequestStatusApproved,
	})
	require.NoError(t, err)

	store.PutEmployee(employee.Employee{ID: "emp-1", FullName: "Ana Ionescu", HomeWorkplaceID: &home, IsActive: true})
	store.PutWorkplace(workplace.Workplace{ID: home, Name: "Pharmacy A Central"})

	jobs := NewNameJobs(store.Attendance(), store.Leaves(), store.Employees(), store.Workplaces())

	result, err := jobs.RefreshDenormalizedNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, result.AttendanceDays)
	assert.Equal(t, 1, result.LeaveRequests)

	stored, err := store.Attendance().GetByEmployeeAndDate(ctx, "emp-1", date)
	require.NoError(t, err)
	assert.Equal(t, "Ana Ionescu", stored.EmployeeName)
	assert.Equal(t, "Pharmacy A Central", stored.Entries[0].WorkplaceName)

	again, err := jobs.RefreshDenormalizedNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, BackfillResult{}, again)
}
