package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/conflict"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/employee"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/leave"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/workplace"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// Reconciliation rejections
	if ce, ok := conflict.As(err); ok {
		Rejected(w, string(ce.Code), ce.Message, ce.Details, ce.CanForce())
		return
	}
	if errors.Is(err, conflict.ErrStaleWrite) || errors.Is(err, conflict.ErrDuplicateKey) {
		ce := conflict.Retry(err)
		Rejected(w, string(ce.Code), ce.Message, ce.Details, false)
		return
	}

	switch {
	// Directory errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		ValidationError(w, map[string]string{"employee_id": "employee is not active"})
	case errors.Is(err, workplace.ErrWorkplaceNotFound):
		NotFound(w, "Workplace not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrEntryNotFound):
		NotFound(w, "Attendance entry not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrDaysMismatch):
		ValidationError(w, map[string]string{"days": leave.ErrDaysMismatch.Error()})

	// Default
	default:
		slog.Error("Unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
