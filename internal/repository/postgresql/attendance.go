package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/conflict"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/database"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/timeutil"
	"github.com/jackc/pgx/v5"
)

type attendanceRepositoryImpl struct {
	db *database.DB
}

const attendanceDayColumns = `id::text, employee_id, employee_name, date, entries, version, created_at, updated_at`

func scanDay(row pgx.Row) (attendance.Day, error) {
	var (
		day     attendance.Day
		entries []byte
	)
	if err := row.Scan(
		&day.ID,
		&day.EmployeeID,
		&day.EmployeeName,
		&day.Date,
		&entries,
		&day.Version,
		&day.CreatedAt,
		&day.UpdatedAt,
	); err != nil {
		return attendance.Day{}, err
	}

	if err := json.Unmarshal(entries, &day.Entries); err != nil {
		return attendance.Day{}, fmt.Errorf("decode entries of attendance day %s: %w", day.ID, err)
	}
	day.Recompute()
	return day, nil
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceDayColumns + ` FROM attendance_days WHERE employee_id = $1 AND date = $2::date`

	day, err := scanDay(q.QueryRow(ctx, query, employeeID, date.Format(timeutil.DateLayout)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Day{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Day{}, err
	}
	return day, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceDayColumns + `
		FROM attendance_days
		WHERE employee_id = $1 AND date BETWEEN $2::date AND $3::date
		ORDER BY date`

	rows, err := q.Query(ctx, query, employeeID, from.Format(timeutil.DateLayout), to.Format(timeutil.DateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []attendance.Day
	for rows.Next() {
		day, err := scanDay(rows)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// Save implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Save(ctx context.Context, day attendance.Day) (attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	day = day.Clone()
	day.Recompute()
	if day.Entries == nil {
		day.Entries = []attendance.Entry{}
	}

	entries, err := json.Marshal(day.Entries)
	if err != nil {
		return attendance.Day{}, fmt.Errorf("encode entries: %w", err)
	}

	date := day.Date.Format(timeutil.DateLayout)
	totalHours := day.TotalHours().String()

	if day.Version == 0 {
		query := `
			INSERT INTO attendance_days (employee_id, employee_name, date, entries, total_minutes, total_hours)
			VALUES ($1, $2, $3::date, $4::jsonb, $5, $6::numeric)
			RETURNING id::text, version, created_at, updated_at`

		err := q.QueryRow(ctx, query, day.EmployeeID, day.EmployeeName, date, string(entries), day.TotalMinutes(), totalHours).
			Scan(&day.ID, &day.Version, &day.CreatedAt, &day.UpdatedAt)
		if err != nil {
			return attendance.Day{}, translateWriteError(err)
		}
		return day, nil
	}

	query := `
		UPDATE attendance_days
		SET employee_name = $3, entries = $4::jsonb, total_minutes = $5, total_hours = $6::numeric,
			version = version + 1, updated_at = NOW()
		WHERE employee_id = $1 AND date = $2::date AND version = $7
		RETURNING id::text, version, created_at, updated_at`

	err = q.QueryRow(ctx, query, day.EmployeeID, date, day.EmployeeName, string(entries), day.TotalMinutes(), totalHours, day.Version).
		Scan(&day.ID, &day.Version, &day.CreatedAt, &day.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Day{}, conflict.ErrStaleWrite
		}
		return attendance.Day{}, err
	}
	return day, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Delete(ctx context.Context, employeeID string, date time.Time) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM attendance_days WHERE employee_id = $1 AND date = $2::date`, employeeID, date.Format(timeutil.DateLayout))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// ListRows implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListRows(ctx context.Context, filter attendance.RowFilter) ([]attendance.EntryRow, error) {
	q := GetQuerier(ctx, r.db)

	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`
		SELECT a.employee_id, a.employee_name, emp.home_workplace_id, a.date,
			x.workplace_id, COALESCE(x.workplace_name, ''), COALESCE(x.start_time, ''), COALESCE(x.end_time, ''),
			COALESCE(x.minutes_worked, 0), x.classification, x.leave_type, COALESCE(x.note, '')
		FROM attendance_days a
		LEFT JOIN employees emp ON emp.id = a.employee_id
		CROSS JOIN LATERAL jsonb_to_recordset(a.entries) AS x(
			workplace_id TEXT, workplace_name TEXT, start_time TEXT, end_time TEXT,
			minutes_worked INTEGER, classification TEXT, leave_type TEXT, note TEXT
		)
		WHERE TRUE`)

	if filter.From != nil {
		args = append(args, filter.From.Format(timeutil.DateLayout))
		fmt.Fprintf(&sb, " AND a.date >= $%d::date", len(args))
	}
	if filter.To != nil {
		args = append(args, filter.To.Format(timeutil.DateLayout))
		fmt.Fprintf(&sb, " AND a.date <= $%d::date", len(args))
	}
	if filter.WorkplaceID != nil {
		args = append(args, *filter.WorkplaceID)
		n := len(args)
		fmt.Fprintf(&sb, " AND (x.workplace_id = $%d OR (x.classification = 'visitor' AND emp.home_workplace_id = $%d))", n, n)
	}
	sb.WriteString(" ORDER BY a.date, a.employee_name, x.workplace_id")

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []attendance.EntryRow
	for rows.Next() {
		var (
			row            attendance.EntryRow
			classification string
		)
		if err := rows.Scan(
			&row.EmployeeID,
			&row.EmployeeName,
			&row.HomeWorkplaceID,
			&row.Date,
			&row.WorkplaceID,
			&row.WorkplaceName,
			&row.StartTime,
			&row.EndTime,
			&row.MinutesWorked,
			&classification,
			&row.LeaveType,
			&row.Note,
		); err != nil {
			return nil, err
		}
		row.Classification = attendance.Classification(classification)
		row.HoursWorked = attendance.HoursFromMinutes(row.MinutesWorked)
		result = append(result, row)
	}
	return result, rows.Err()
}

// RefreshNames implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) RefreshNames(ctx context.Context, employeeNames, workplaceNames map[string]string) (int, error) {
	touched := make(map[string]struct{})

	collect := func(rows pgx.Rows) error {
		defer rows.Close()
		for rows.Next() {
			var id string
			if err := rows.Scan(&id); err != nil {
				return err
			}
			touched[id] = struct{}{}
		}
		return rows.Err()
	}

	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		for id, name := range employeeNames {
			rows, err := q.Query(ctx, `
				UPDATE attendance_days SET employee_name = $2
				WHERE employee_id = $1 AND employee_name IS DISTINCT FROM $2
				RETURNING id::text`, id, name)
			if err != nil {
				return fmt.Errorf("refresh employee name %s: %w", id, err)
			}
			if err := collect(rows); err != nil {
				return err
			}
		}

		for id, name := range workplaceNames {
			rows, err := q.Query(ctx, `
				UPDATE attendance_days a SET entries = (
					SELECT jsonb_agg(
						CASE WHEN e->>'workplace_id' = $1 THEN jsonb_set(e, '{workplace_name}', to_jsonb($2::text)) ELSE e END
						ORDER BY ord)
					FROM jsonb_array_elements(a.entries) WITH ORDINALITY AS t(e, ord)
				)
				WHERE EXISTS (
					SELECT 1 FROM jsonb_array_elements(a.entries) AS x(e)
					WHERE x.e->>'workplace_id' = $1 AND x.e->>'workplace_name' IS DISTINCT FROM $2
				)
				RETURNING id::text`, id, name)
			if err != nil {
				return fmt.Errorf("refresh workplace name %s: %w", id, err)
			}
			if err := collect(rows); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(touched), nil
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}
