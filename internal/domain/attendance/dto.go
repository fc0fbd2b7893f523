package attendance

import (
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type SubmitAttendanceRequest struct {
	EmployeeID    string   `json:"employee_id" validate:"required"`
	WorkplaceID   string   `json:"workplace_id" validate:"required"`
	Date          string   `json:"date" validate:"required,date"` // YYYY-MM-DD
	StartTime     *string  `json:"start_time,omitempty" validate:"omitempty,clock"`
	EndTime       *string  `json:"end_time,omitempty" validate:"omitempty,clock"`
	HoursWorked   *float64 `json:"hours_worked,omitempty" validate:"omitempty,gte=0,lte=24"`
	MinutesWorked *int     `json:"minutes_worked,omitempty" validate:"omitempty,gte=0,lte=1440"`
	LeaveType     *string  `json:"leave_type,omitempty"`
	Note          *string  `json:"note,omitempty"`
	Force         bool     `json:"force"`
}

func (r *SubmitAttendanceRequest) Validate() error {
	errs := validator.Struct(r)

	if (r.StartTime == nil) != (r.EndTime == nil) {
		errs.Add("end_time", "start_time and end_time must be provided together")
	}

	if r.HoursWorked != nil && r.MinutesWorked != nil {
		errs.Add("minutes_worked", "provide either hours_worked or minutes_worked, not both")
	}

	return errs.Err()
}

// Times returns the submitted shift, falling back to the default shift.
func (r *SubmitAttendanceRequest) Times() (string, string) {
	if r.StartTime == nil || r.EndTime == nil {
		return DefaultStartTime, DefaultEndTime
	}
	return *r.StartTime, *r.EndTime
}

type EntryResponse struct {
	WorkplaceID    string          `json:"workplace_id"`
	WorkplaceName  string          `json:"workplace_name"`
	StartTime      string          `json:"start_time"`
	EndTime        string          `json:"end_time"`
	MinutesWorked  int             `json:"minutes_worked"`
	HoursWorked    decimal.Decimal `json:"hours_worked"`
	Classification string          `json:"classification"`
	LeaveType      *string         `json:"leave_type,omitempty"`
	Note           string          `json:"note,omitempty"`
}

type DayResponse struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Date         string          `json:"date"`
	Entries      []EntryResponse `json:"entries"`
	TotalMinutes int             `json:"total_minutes"`
	TotalHours   decimal.Decimal `json:"total_hours"`
}

type SubmitAttendanceResponse struct {
	EmployeeID   string          `json:"employee_id"`
	EmployeeName string          `json:"employee_name"`
	Date         string          `json:"date"`
	Entry        EntryResponse   `json:"entry"`
	Replaced     bool            `json:"replaced"`
	TotalMinutes int             `json:"total_minutes"`
	TotalHours   decimal.Decimal `json:"total_hours"`
}

// EntryFilter selects flattened entry rows. A nil WorkplaceID means all workplaces.
type EntryFilter struct {
	WorkplaceID *string `json:"workplace_id,omitempty"`
	From        *string `json:"from,omitempty"` // YYYY-MM-DD
	To          *string `json:"to,omitempty"`   // YYYY-MM-DD
}

func (f *EntryFilter) Validate() error {
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

	if len(errs) == 0 && f.From != nil && f.To != nil && *f.From != "" && *f.To != "" && *f.To < *f.From {
		errs.Add("to", "to must not be before from")
	}

	return errs.Err()
}

type EntryRowResponse struct {
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`
	EntryResponse
}

func ToEntryResponse(e Entry) EntryResponse {
	return EntryResponse{
		WorkplaceID:    e.WorkplaceID,
		WorkplaceName:  e.WorkplaceName,
		StartTime:      e.StartTime,
		EndTime:        e.EndTime,
		MinutesWorked:  e.MinutesWorked,
		HoursWorked:    e.HoursWorked,
		Classification: string(e.Classification),
		LeaveType:      e.LeaveType,
		Note:           e.Note,
	}
}

func ToDayResponse(d Day) DayResponse {
	entries := make([]EntryResponse, 0, len(d.Entries))
	for _, e := range d.Entries {
		entries = append(entries, ToEntryResponse(e))
	}
	return DayResponse{
		EmployeeID:   d.EmployeeID,
		EmployeeName: d.EmployeeName,
		Date:         d.Date.Format("2006-01-02"),
		Entries:      entries,
		TotalMinutes: d.TotalMinutes(),
		TotalHours:   d.TotalHours(),
	}
}

func ToEntryRowResponse(r EntryRow) EntryRowResponse {
	return EntryRowResponse{
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		Date:          r.Date.Format("2006-01-02"),
		EntryResponse: ToEntryResponse(r.Entry),
	}
}
