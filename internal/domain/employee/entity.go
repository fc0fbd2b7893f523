package employee

import "time"

// DefaultMonthlyTargetHours applies when an employee has no configured target.
const DefaultMonthlyTargetHours = 160

// Employee is a read-only snapshot from the employee directory.
type Employee struct {
	ID                 string
	FullName           string
	HomeWorkplaceID    *string
	IsActive           bool
	MonthlyTargetHours *int
	UpdatedAt          time.Time
}

// HomeWorkplace returns the home workplace id, or "" when none is configured.
func (e Employee) HomeWorkplace() string {
	if e.HomeWorkplaceID == nil {
		return ""
	}
	return *e.HomeWorkplaceID
}

// TargetHours returns the configured monthly target or fallback.
func (e Employee) TargetHours(fallback int) int {
	if e.MonthlyTargetHours == nil || *e.MonthlyTargetHours <= 0 {
		return fallback
	}
	return *e.MonthlyTargetHours
}
