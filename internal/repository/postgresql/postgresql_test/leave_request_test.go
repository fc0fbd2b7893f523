package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/conflict"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/leave"
	"github.com/Horattiu/RemediumFarm-sub000/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaveRequestRepository_Lifecycle(t *testing.T) {
	setup := NewTestDatabase(t)
	seedDirectory(t, setup)
	repo := postgresql.NewLeaveRequestRepository(setup.DB)
	ctx := context.Background()

	created, err := repo.Create(ctx, leave.LeaveRequest{
		EmployeeID:   "emp-x",
		EmployeeName: "Employee X",
		WorkplaceID:  "wp-a",
		Kind:         leave.KindRest,
		StartDate:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Days:         10,
		Status:       leave.LeaveRequestStatusApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.Version)

	covering, err := repo.FindApprovedCovering(ctx, "emp-x", "", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NotNil(t, covering)
	assert.Equal(t, created.ID, covering.ID)

	covering, err = repo.FindApprovedCovering(ctx, "emp-x", "wp-b", time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, covering)

	covering, err = repo.FindApprovedCovering(ctx, "emp-x", "", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Nil(t, covering)

	next := created
	next.EndDate = time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	next.Days = 12
	updated, err := repo.Update(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	_, err = repo.Update(ctx, next)
	assert.ErrorIs(t, err, conflict.ErrStaleWrite)

	empID := "emp-x"
	from := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	list, err := repo.List(ctx, leave.ListFilter{EmployeeID: &empID, From: &from})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 12, list[0].Days)

	require.NoError(t, repo.Delete(ctx, created.ID))
	assert.ErrorIs(t, repo.Delete(ctx, created.ID), leave.ErrLeaveRequestNotFound)

	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}
