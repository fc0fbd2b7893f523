// Package conflict holds the rejection taxonomy shared by attendance and leave
// reconciliation, and the override policy that decides which rejections a
// caller may force through.
package conflict

import (
	"errors"
	"fmt"
)

type Code string

const (
	CodeLeaveConflict           Code = "LeaveConflict"
	CodeVisitorAlreadyElsewhere Code = "VisitorAlreadyElsewhere"
	CodeOverlappingHours        Code = "OverlappingHours"
	CodeTimesheetConflict       Code = "TimesheetConflict"
	CodeLeaveOverlap            Code = "LeaveOverlap"
	CodeDuplicateKey            Code = "DuplicateKey"
)

// Forceable reports whether a caller override can ever accept this rejection.
func (c Code) Forceable() bool {
	return c == CodeLeaveConflict || c == CodeOverlappingHours
}

// Storage-level outcomes. Both are reported to callers as DuplicateKey.
var (
	ErrStaleWrite   = errors.New("record was modified by another request")
	ErrDuplicateKey = errors.New("record already exists")
)

// Error is a domain rejection returned to the caller as a structured result.
type Error struct {
	Code    Code
	Message string
	Details interface{}
}

func New(code Code, message string, details interface{}) *Error {
	return &Error{Code: code, Message: message, Details: details}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) CanForce() bool {
	return e.Code.Forceable()
}

// As unwraps err into a *Error.
func As(err error) (*Error, bool) {
	var ce *Error
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// Is reports whether err is a rejection with the given code.
func Is(err error, code Code) bool {
	ce, ok := As(err)
	return ok && ce.Code == code
}

// Retry wraps a stale or duplicate write into a DuplicateKey rejection.
func Retry(cause error) *Error {
	return New(CodeDuplicateKey, "the record was changed by a concurrent request, please retry", map[string]string{
		"cause": cause.Error(),
	})
}
