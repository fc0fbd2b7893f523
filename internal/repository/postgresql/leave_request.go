package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/conflict"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/leave"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/database"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/timeutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

const leaveRequestColumns = `id::text, employee_id, employee_name, workplace_id, function_label, kind, reason,
	start_date, end_date, days, status, supervisor_name, version, created_at, updated_at`

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var (
		lr     leave.LeaveRequest
		kind   string
		status string
	)
	err := row.Scan(
		&lr.ID,
		&lr.EmployeeID,
		&lr.EmployeeName,
		&lr.WorkplaceID,
		&lr.Function,
		&kind,
		&lr.Reason,
		&lr.StartDate,
		&lr.EndDate,
		&lr.Days,
		&status,
		&lr.SupervisorName,
		&lr.Version,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.Kind = leave.Kind(kind)
	lr.Status = leave.LeaveRequestStatus(status)
	return lr, nil
}

func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		lr, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, lr)
	}
	return requests, rows.Err()
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	if request.ID == "" {
		request.ID = uuid.NewString()
	}

	query := `
		INSERT INTO leave_requests (
			id, employee_id, employee_name, workplace_id, function_label, kind, reason,
			start_date, end_date, days, status, supervisor_name
		) VALUES ($1::uuid, $2, $3, $4, $5, $6, $7, $8::date, $9::date, $10, $11, $12)
		RETURNING version, created_at, updated_at`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.EmployeeID,
		request.EmployeeName,
		request.WorkplaceID,
		request.Function,
		string(request.Kind),
		request.Reason,
		request.StartDate.Format(timeutil.DateLayout),
		request.EndDate.Format(timeutil.DateLayout),
		request.Days,
		string(request.Status),
		request.SupervisorName,
	).Scan(&request.Version, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, translateWriteError(err)
	}
	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	if _, err := uuid.Parse(id); err != nil {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}

	q := GetQuerier(ctx, r.db)

	lr, err := scanLeaveRequest(q.QueryRow(ctx, `SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = $1::uuid`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, err
	}
	return lr, nil
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	var (
		sb   strings.Builder
		args []interface{}
	)
	sb.WriteString(`SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE TRUE`)

	if filter.EmployeeID != nil {
		args = append(args, *filter.EmployeeID)
		fmt.Fprintf(&sb, " AND employee_id = $%d", len(args))
	}
	if filter.WorkplaceID != nil {
		args = append(args, *filter.WorkplaceID)
		fmt.Fprintf(&sb, " AND workplace_id = $%d", len(args))
	}
	if filter.Status != nil {
		args = append(args, string(*filter.Status))
		fmt.Fprintf(&sb, " AND status = $%d", len(args))
	}
	if filter.From != nil {
		args = append(args, filter.From.Format(timeutil.DateLayout))
		fmt.Fprintf(&sb, " AND end_date >= $%d::date", len(args))
	}
	if filter.To != nil {
		args = append(args, filter.To.Format(timeutil.DateLayout))
		fmt.Fprintf(&sb, " AND start_date <= $%d::date", len(args))
	}
	sb.WriteString(" ORDER BY start_date, id")

	rows, err := q.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	return collectLeaveRequests(rows)
}

// FindApprovedCovering implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) FindApprovedCovering(ctx context.Context, employeeID, workplaceID string, day time.Time) (*leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1 AND status = $2
			AND start_date <= $3::date AND end_date >= $3::date
			AND ($4 = '' OR workplace_id = $4)
		ORDER BY start_date
		LIMIT 1`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query,
		employeeID, string(leave.LeaveRequestStatusApproved), day.Format(timeutil.DateLayout), workplaceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &lr, nil
}

// Update implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Update(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET employee_id = $2, employee_name = $3, workplace_id = $4, function_label = $5, kind = $6,
			reason = $7, start_date = $8::date, end_date = $9::date, days = $10, status = $11,
			supervisor_name = $12, version = version + 1, updated_at = NOW()
		WHERE id = $1::uuid AND version = $13
		RETURNING version, created_at, updated_at`

	err := q.QueryRow(ctx, query,
		request.ID,
		request.EmployeeID,
		request.EmployeeName,
		request.WorkplaceID,
		request.Function,
		string(request.Kind),
		request.Reason,
		request.StartDate.Format(timeutil.DateLayout),
		request.EndDate.Format(timeutil.DateLayout),
		request.Days,
		string(request.Status),
		request.SupervisorName,
		request.Version,
	).Scan(&request.Version, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, err
		}
		if _, getErr := r.GetByID(ctx, request.ID); errors.Is(getErr, leave.ErrLeaveRequestNotFound) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, conflict.ErrStaleWrite
	}
	return request, nil
}

// Delete implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leave.ErrLeaveRequestNotFound
	}

	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM leave_requests WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// RefreshNames implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) RefreshNames(ctx context.Context, employeeNames map[string]string) (int, error) {
	touched := 0
	err := WithTransaction(ctx, r.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)
		for id, name := range employeeNames {
			tag, err := q.Exec(ctx, `
				UPDATE leave_requests SET employee_name = $2
				WHERE employee_id = $1 AND employee_name IS DISTINCT FROM $2`, id, name)
			if err != nil {
				return fmt.Errorf("refresh employee name %s: %w", id, err)
			}
			touched += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return touched, nil
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}
