package attendance

import "errors"

// Attendance domain errors
var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrEntryNotFound      = errors.New("attendance entry not found")
)
