package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/attendance"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/conflict"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/employee"
	"github.com/Horattiu/RemediumFarm-sub000/internal/domain/leave"
	"github.com/Horattiu/RemediumFarm-sub000/internal/pkg/timeutil"
)

// Candidate is a proposed entry before classification.
type Candidate struct {
	Employee    employee.Employee
	WorkplaceID string
	Date        time.Time
	StartTime   string
	EndTime     string
}

// Verdict is the outcome of an accepted candidate.
type Verdict struct {
	Classification attendance.Classification
	// CoveringLeave is set when a leave conflict was forced through.
	CoveringLeave *leave.LeaveRequest
}

type LeaveConflictDetails struct {
	Leave leave.LeaveRequestResponse `json:"leave"`
}

type VisitorElsewhereDetails struct {
	Entry attendance.EntryResponse `json:"entry"`
}

type OverlapDetails struct {
	Entries []attendance.EntryResponse `json:"entries"`
}

// Detector decides whether a candidate entry may be written. Checks run in a
// fixed order and the first rejection the policy does not allow wins.
type Detector struct {
	leaves leave.LeaveRequestRepository
}

func NewDetector(leaves leave.LeaveRequestRepository) *Detector {
	return &Detector{leaves: leaves}
}

// Evaluate checks c against the current day snapshot.
func (d *Detector) Evaluate(ctx context.Context, c Candidate, day attendance.Day, policy conflict.ForcePolicy) (Verdict, error) {
	verdict := Verdict{
		Classification: attendance.Classify(c.WorkplaceID, c.Employee.HomeWorkplaceID),
	}

	// Any approved leave of the employee counts, whichever workplace filed it.
	covering, err := d.leaves.FindApprovedCovering(ctx, c.Employee.ID, "", c.Date)
	if err != nil {
		return Verdict{}, fmt.Errorf("failed to look up approved leave: %w", err)
	}
	if covering != nil {
		if !policy.Allows(conflict.CodeLeaveConflict) {
			return Verdict{}, conflict.New(
				conflict.CodeLeaveConflict,
				fmt.Sprintf("employee has approved %s leave from %s to %s", covering.Kind,
					covering.StartDate.Format(timeutil.DateLayout), covering.EndDate.Format(timeutil.DateLayout)),
				LeaveConflictDetails{Leave: leave.ToResponse(*covering)},
			)
		}
		verdict.CoveringLeave = covering
	}

	// Only a first home entry is blocked by a visitor record elsewhere; an
	// existing home slot goes straight to the overlap check.
	_, hasHomeSlot := day.FindEntry(c.WorkplaceID, attendance.ClassificationHome)
	if verdict.Classification == attendance.ClassificationHome && !hasHomeSlot {
		if other, found := day.VisitorEntryElsewhere(c.WorkplaceID); found {
			return Verdict{}, conflict.New(
				conflict.CodeVisitorAlreadyElsewhere,
				fmt.Sprintf("employee is already recorded as visitor at %s on this day", workplaceLabel(other)),
				VisitorElsewhereDetails{Entry: attendance.ToEntryResponse(other)},
			)
		}
	}

	if overlapping := overlappingEntries(day, c, verdict.Classification); len(overlapping) > 0 && !policy.Allows(conflict.CodeOverlappingHours) {
		details := OverlapDetails{Entries: make([]attendance.EntryResponse, 0, len(overlapping))}
		for _, e := range overlapping {
			details.Entries = append(details.Entries, attendance.ToEntryResponse(e))
		}
		return Verdict{}, conflict.New(
			conflict.CodeOverlappingHours,
			fmt.Sprintf("%s-%s overlaps existing hours on this day", c.StartTime, c.EndTime),
			details,
		)
	}

	return verdict, nil
}

// overlappingEntries returns the entries whose hours intersect the candidate.
// An identical resubmission into its own slot is not an overlap.
func overlappingEntries(day attendance.Day, c Candidate, class attendance.Classification) []attendance.Entry {
	var out []attendance.Entry
	for _, e := range day.Entries {
		if e.StartTime == "" || e.EndTime == "" {
			continue
		}
		if e.WorkplaceID == c.WorkplaceID && e.Classification == class &&
			e.StartTime == c.StartTime && e.EndTime == c.EndTime {
			continue
		}
		if timeutil.Overlaps(c.StartTime, c.EndTime, e.StartTime, e.EndTime) {
			out = append(out, e)
		}
	}
	return out
}

func workplaceLabel(e attendance.Entry) string {
	if e.WorkplaceName != "" {
		return e.WorkplaceName
	}
	return e.WorkplaceID
}
