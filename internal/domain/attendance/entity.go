package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Default shift used when a submission carries no times.
const (
	DefaultStartTime = "08:00"
	DefaultEndTime   = "16:00"
)

type Classification string

const (
	ClassificationHome    Classification = "home"
	ClassificationVisitor Classification = "visitor"
)

// Classify derives the entry classification from the employee snapshot taken
// at write time. An employee without a home workplace is a visitor everywhere.
func Classify(entryWorkplaceID string, homeWorkplaceID *string) Classification {
	if homeWorkplaceID != nil && *homeWorkplaceID == entryWorkplaceID {
		return ClassificationHome
	}
	return ClassificationVisitor
}

// HoursFromMinutes converts minutes to hours rounded to two decimals.
func HoursFromMinutes(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2)
}

// Entry is one workplace-scoped record inside a Day.
type Entry struct {
	WorkplaceID    string          `json:"workplace_id"`
	WorkplaceName  string          `json:"workplace_name"`
	StartTime      string          `json:"start_time"`
	EndTime        string          `json:"end_time"`
	MinutesWorked  int             `json:"minutes_worked"`
	HoursWorked    decimal.Decimal `json:"hours_worked"`
	Classification Classification  `json:"classification"`
	LeaveType      *string         `json:"leave_type,omitempty"`
	Note           string          `json:"note,omitempty"`
}

// IsRealWork reports whether the entry records actual hours rather than a
// leave-tagged placeholder.
func (e Entry) IsRealWork() bool {
	return e.StartTime != "" && e.EndTime != "" && e.LeaveType == nil
}

func (e Entry) sameSlot(other Entry) bool {
	return e.WorkplaceID == other.WorkplaceID && e.Classification == other.Classification
}

// Day is the per-employee, per-calendar-day aggregate. Totals are derived
// from Entries and refreshed by every mutation.
type Day struct {
	ID           string
	EmployeeID   string
	EmployeeName string
	Date         time.Time
	Entries      []Entry
	Version      int64
	CreatedAt    time.Time
	UpdatedAt    time.Time

	totalMinutes int
}

// NewDay starts an empty record for employeeID on date.
func NewDay(employeeID, employeeName string, date time.Time) Day {
	return Day{
		EmployeeID:   employeeID,
		EmployeeName: employeeName,
		Date:         date,
	}
}

func (d Day) TotalMinutes() int {
	return d.totalMinutes
}

func (d Day) TotalHours() decimal.Decimal {
	return HoursFromMinutes(d.totalMinutes)
}

// Recompute refreshes the derived totals from the entries.
func (d *Day) Recompute() {
	total := 0
	for i := range d.Entries {
		d.Entries[i].HoursWorked = HoursFromMinutes(d.Entries[i].MinutesWorked)
		total += d.Entries[i].MinutesWorked
	}
	d.totalMinutes = total
}

// UpsertEntry inserts e or replaces the entry holding the same
// (workplace, classification) slot. It reports whether a replace happened.
func (d *Day) UpsertEntry(e Entry) bool {
	replaced := false
	for i := range d.Entries {
		if d.Entries[i].sameSlot(e) {
			d.Entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		d.Entries = append(d.Entries, e)
	}
	d.Recompute()
	return replaced
}

// RemoveEntries drops the entries at workplaceID and returns how many went.
// An empty class matches both slots of the workplace.
func (d *Day) RemoveEntries(workplaceID string, class Classification) int {
	kept := make([]Entry, 0, len(d.Entries))
	removed := 0
	for _, e := range d.Entries {
		if e.WorkplaceID == workplaceID && (class == "" || e.Classification == class) {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	d.Entries = kept
	d.Recompute()
	return removed
}

// FindEntry returns the entry in the given slot.
func (d Day) FindEntry(workplaceID string, c Classification) (Entry, bool) {
	for _, e := range d.Entries {
		if e.WorkplaceID == workplaceID && e.Classification == c {
			return e, true
		}
	}
	return Entry{}, false
}

// VisitorEntryElsewhere returns a visitor entry at a workplace other than workplaceID.
func (d Day) VisitorEntryElsewhere(workplaceID string) (Entry, bool) {
	for _, e := range d.Entries {
		if e.Classification == ClassificationVisitor && e.WorkplaceID != workplaceID {
			return e, true
		}
	}
	return Entry{}, false
}

// RealWorkEntries returns the entries that record actual hours.
func (d Day) RealWorkEntries() []Entry {
	var out []Entry
	for _, e := range d.Entries {
		if e.IsRealWork() {
			out = append(out, e)
		}
	}
	return out
}

func (d Day) IsEmpty() bool {
	return len(d.Entries) == 0
}

// EntryRow is a flattened view of one entry for reporting.
type EntryRow struct {
	EmployeeID      string
	EmployeeName    string
	HomeWorkplaceID *string
	Date            time.Time
	Entry
}

// Clone returns a copy that shares no entry storage with d.
func (d Day) Clone() Day {
	c := d
	c.Entries = append([]Entry(nil), d.Entries...)
	return c
}

// Change feed event names.
const (
	EventDayUpdated = "attendance.updated"
	EventDayDeleted = "attendance.deleted"
)
