package leave

import (
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/validator"
)

// LeaveRequestPayload is the body of create and update calls.
type LeaveRequestPayload struct {
	ID             string `json:"-"`
	EmployeeID     string `json:"employee_id" validate:"required"`
	WorkplaceID    string `json:"workplace_id" validate:"required"`
	Function       string `json:"function"`
	Kind           string `json:"kind" validate:"required,oneof=rest medical event unpaid"`
	Reason         string `json:"reason"`
	StartDate      string `json:"start_date" validate:"required,date"` // YYYY-MM-DD
	EndDate        string `json:"end_date" validate:"required,date"`   // YYYY-MM-DD
	Days           *int   `json:"days,omitempty"`
	SupervisorName string `json:"supervisor_name"`
	Force          bool   `json:"force"`
}

func (p *LeaveRequestPayload) Validate() error {
	errs := validator.Struct(p)

	if len(errs) == 0 && p.EndDate < p.StartDate {
		errs.Add("end_date", "end_date must not be before start_date")
	}

	if p.Days != nil && *p.Days <= 0 {
		errs.Add("days", "days must be a positive number")
	}

	return errs.Err()
}

type LeaveRequestResponse struct {
	ID             string    `json:"id"`
	EmployeeID     string    `json:"employee_id"`
	EmployeeName   string    `json:"employee_name"`
	WorkplaceID    string    `json:"workplace_id"`
	Function       string    `json:"function"`
	Kind           string    `json:"kind"`
	Reason         string    `json:"reason"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	Days           int       `json:"days"`
	Status         string    `json:"status"`
	SupervisorName string    `json:"supervisor_name"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func ToResponse(l LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:             l.ID,
		EmployeeID:     l.EmployeeID,
		EmployeeName:   l.EmployeeName,
		WorkplaceID:    l.WorkplaceID,
		Function:       l.Function,
		Kind:           string(l.Kind),
		Reason:         l.Reason,
		StartDate:      l.StartDate.Format("2006-01-02"),
		EndDate:        l.EndDate.Format("2006-01-02"),
		Days:           l.Days,
		Status:         string(l.Status),
		SupervisorName: l.SupervisorName,
		CreatedAt:      l.CreatedAt,
		UpdatedAt:      l.UpdatedAt,
	}
}

type LeaveRequestFilter struct {
	EmployeeID  *string `json:"employee_id,omitempty"`
	WorkplaceID *string `json:"workplace_id,omitempty"`
	From        *string `json:"from,omitempty"` // YYYY-MM-DD
	To          *string `json:"to,omitempty"`   // YYYY-MM-DD
}

func (f *LeaveRequestFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.From != nil && *f.From != "" {
		if _, valid := validator.IsValidDate(*f.From); !valid {
			errs.Add("from", "from must be in YYYY-MM-DD format")
		}
	}

	if f.To != nil && *f.To != "" {
		if _, valid := validator.IsValidDate(*f.To); !valid {
			errs.Add("to", "to must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// TimesheetConflictDay lists a day of real work that blocks a leave range.
type TimesheetConflictDay struct {
	Date    string                     `json:"date"`
	Entries []attendance.EntryResponse `json:"entries"`
}
