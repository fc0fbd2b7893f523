package report

import (
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ========================================
// PERIOD STATS
// ========================================

type View string

const (
	ViewAll         View = "all"
	ViewOvertime    View = "overtime"
	ViewBelowTarget View = "below_target"
)

type StatsRequest struct {
	From        string  `json:"from" validate:"required,date"` // YYYY-MM-DD
	To          string  `json:"to" validate:"required,date"`   // YYYY-MM-DD
	WorkplaceID *string `json:"workplace_id,omitempty"`
	View        View    `json:"view" validate:"omitempty,oneof=all overtime below_target"`
}

func (r *StatsRequest) Validate() error {
	errs := validator.Struct(r)

	if len(errs) == 0 && r.To < r.From {
		errs.Add("to", ErrInvalidDateRange.Error())
	}

	if r.View == "" {
		r.View = ViewAll
	}

	return errs.Err()
}

type StatsReport struct {
	From        string          `json:"from"`
	To          string          `json:"to"`
	WorkplaceID *string         `json:"workplace_id,omitempty"`
	View        View            `json:"view"`
	GeneratedAt string          `json:"generated_at"`
	Employees   []EmployeeStats `json:"employees"`
}

type EmployeeStats struct {
	EmployeeID     string          `json:"employee_id"`
	EmployeeName   string          `json:"employee_name"`
	DaysWorked     int             `json:"days_worked"`
	TotalMinutes   int             `json:"total_minutes"`
	TotalHours     decimal.Decimal `json:"total_hours"`
	VisitorMinutes int             `json:"visitor_minutes"`
	VisitorHours   decimal.Decimal `json:"visitor_hours"`
	TargetHours    int             `json:"target_hours"`
	DiffHours      decimal.Decimal `json:"diff_hours"`
	Overtime       bool            `json:"overtime"`
	BelowTarget    bool            `json:"below_target"`
}
