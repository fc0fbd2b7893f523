package leave

import (
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/timeutil"
)

type Kind string

const (
	KindRest    Kind = "rest"
	KindMedical Kind = "medical"
	KindEvent   Kind = "event"
	KindUnpaid  Kind = "unpaid"
)

var Kinds = []string{string(KindRest), string(KindMedical), string(KindEvent), string(KindUnpaid)}

type LeaveRequestStatus string

// Only Approved is reachable today; creation always approves. The other
// values stay in the model so an approval workflow can come back without a
// schema change.
const (
	LeaveRequestStatusWaitingApproval LeaveRequestStatus = "waiting_approval"
	LeaveRequestStatusApproved        LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected        LeaveRequestStatus = "rejected"
	LeaveRequestStatusCancelled       LeaveRequestStatus = "cancelled"
)

// LeaveRequest entity
type LeaveRequest struct {
	ID             string
	EmployeeID     string
	EmployeeName   string
	WorkplaceID    string
	Function       string
	Kind           Kind
	Reason         string
	StartDate      time.Time
	EndDate        time.Time
	Days           int
	Status         LeaveRequestStatus
	SupervisorName string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (l LeaveRequest) IsApproved() bool {
	return l.Status == LeaveRequestStatusApproved
}

// Covers reports whether day falls inside the inclusive leave range.
func (l LeaveRequest) Covers(day time.Time) bool {
	return timeutil.WithinDays(day, l.StartDate, l.EndDate)
}

// Intersects reports whether [start, end] shares a day with the leave.
func (l LeaveRequest) Intersects(start, end time.Time) bool {
	return timeutil.RangesIntersect(l.StartDate, l.EndDate, start, end)
}

// Change feed event names.
const (
	EventCreated = "leave.created"
	EventUpdated = "leave.updated"
	EventDeleted = "leave.deleted"
)
