package postgresql_test

import (
	"context"
	"testing"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/conflict"
	"github.com/Horattiu/RemediumFarm-sub000/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func seedDirectory(t *testing.T, setup *TestDatabaseSetup) {
	setup.SeedWorkplace(t, "wp-a", "Pharmacy A")
	setup.SeedWorkplace(t, "wp-b", "Pharmacy B")
	setup.SeedEmployee(t, "emp-x", "Employee X", strPtr("wp-a"))
	setup.SeedEmployee(t, "emp-z", "Employee Z", strPtr("wp-b"))
}

func TestAttendanceRepository_SaveAndVersioning(t *testing.T) {
	setup := NewTestDatabase(t)
	seedDirectory(t, setup)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()
	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	day := attendance.NewDay("emp-x", "Employee X", date)
	day.UpsertEntry(attendance.Entry{
		WorkplaceID: "wp-a", WorkplaceName: "Pharmacy A", StartTime: "09:00", EndTime: "17:00",
		MinutesWorked: 480, Classification: attendance.ClassificationHome,
	})

	saved, err := repo.Save(ctx, day)
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, int64(1), saved.Version)

	_, err = repo.Save(ctx, day)
	assert.ErrorIs(t, err, conflict.ErrDuplicateKey)

	got, err := repo.GetByEmployeeAndDate(ctx, "emp-x", date)
	require.NoError(t, err)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, 480, got.TotalMinutes())
	assert.Equal(t, "8", got.Entries[0].HoursWorked.String())

	got.UpsertEntry(attendance.Entry{
		WorkplaceID: "wp-b", StartTime: "18:00", EndTime: "20:00",
		MinutesWorked: 120, Classification: attendance.ClassificationVisitor,
	})
	updated, err := repo.Save(ctx, got)
	require.NoError(t, err)
	assert.Equal(t, int64(2), updated.Version)

	_, err = repo.Save(ctx, got)
	assert.ErrorIs(t, err, conflict.ErrStaleWrite)

	require.NoError(t, repo.Delete(ctx, "emp-x", date))
	assert.ErrorIs(t, repo.Delete(ctx, "emp-x", date), attendance.ErrAttendanceNotFound)
	_, err = repo.GetByEmployeeAndDate(ctx, "emp-x", date)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

func TestAttendanceRepository_ListRowsUnion(t *testing.T) {
	setup := NewTestDatabase(t)
	seedDirectory(t, setup)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()

	x := attendance.NewDay("emp-x", "Employee X", time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC))
	x.UpsertEntry(attendance.Entry{WorkplaceID: "wp-a", StartTime: "09:00", EndTime: "12:00", MinutesWorked: 180, Classification: attendance.ClassificationHome})
	x.UpsertEntry(attendance.Entry{WorkplaceID: "wp-b", StartTime: "13:00", EndTime: "17:00", MinutesWorked: 240, Classification: attendance.ClassificationVisitor})
	_, err := repo.Save(ctx, x)
	require.NoError(t, err)

	z := attendance.NewDay("emp-z", "Employee Z", time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC))
	z.UpsertEntry(attendance.Entry{WorkplaceID: "wp-b", StartTime: "09:00", EndTime: "17:00", MinutesWorked: 480, Classification: attendance.ClassificationHome})
	_, err = repo.Save(ctx, z)
	require.NoError(t, err)

	rows, err := repo.ListRows(ctx, attendance.RowFilter{WorkplaceID: strPtr("wp-a")})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "wp-a", rows[0].WorkplaceID)
	assert.Equal(t, "wp-b", rows[1].WorkplaceID)

	from := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)
	rows, err = repo.ListRows(ctx, attendance.RowFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "emp-z", rows[0].EmployeeID)
	assert.Equal(t, "wp-b", *rows[0].HomeWorkplaceID)

	days, err := repo.ListByEmployee(ctx, "emp-x", time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, days, 1)
}

func TestAttendanceRepository_RefreshNames(t *testing.T) {
	setup := NewTestDatabase(t)
	seedDirectory(t, setup)
	repo := postgresql.NewAttendanceRepository(setup.DB)
	ctx := context.Background()
	date := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	day := attendance.NewDay("emp-x", "Old Name", date)
	day.UpsertEntry(attendance.Entry{WorkplaceID: "wp-a", WorkplaceName: "Old A", StartTime: "09:00", EndTime: "12:00", MinutesWorked: 180, Classification: attendance.ClassificationHome})
	_, err := repo.Save(ctx, day)
	require.NoError(t, err)

	touched, err := repo.RefreshNames(ctx, map[string]string{"emp-x": "Employee X"}, map[string]string{"wp-a": "Pharmacy A"})
	require.NoError(t, err)
	assert.Equal(t, 1, touched)

	got, err := repo.GetByEmployeeAndDate(ctx, "emp-x", date)
	require.NoError(t, err)
	assert.Equal(t, "Employee X", got.EmployeeName)
	assert.Equal(t, "Pharmacy A", got.Entries[0].WorkplaceName)

	touched, err = repo.RefreshNames(ctx, map[string]string{"emp-x": "Employee X"}, map[string]string{"wp-a": "Pharmacy A"})
	require.NoError(t, err)
	assert.Equal(t, 0, touched)
}
