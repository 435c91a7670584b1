// Package schedule contains the studio agenda domain model.
// This is the core of the business logic - no external dependencies here.
package schedule

import (
	"sort"
	"time"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// DateLayout is the ISO layout of a CalendarDate.
const DateLayout = "2006-01-02"

// TimeLayout is the layout of a TimeSlot time.
const TimeLayout = "15:04"

// CalendarDate is an ISO YYYY-MM-DD day. Lexical order equals chronological order.
type CalendarDate string

// ParseCalendarDate validates s and returns it as a CalendarDate.
func ParseCalendarDate(s string) (CalendarDate, error) {
	if len(s) != len(DateLayout) {
		return "", shared.ErrInvalidDate
	}
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", shared.ErrInvalidDate
	}
	return CalendarDate(s), nil
}

// DateOf returns the CalendarDate of t in t's own location.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate(t.Format(DateLayout))
}

// IsValid reports whether d is a well-formed calendar day.
func (d CalendarDate) IsValid() bool {
	_, err := ParseCalendarDate(string(d))
	return err == nil
}

// String returns the ISO form.
func (d CalendarDate) String() string {
	return string(d)
}

// Before reports whether d is chronologically before other.
func (d CalendarDate) Before(other CalendarDate) bool {
	return d < other
}

// civil returns the date as midnight UTC so day arithmetic never crosses an offset change.
func (d CalendarDate) civil() (time.Time, error) {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}, shared.ErrInvalidDate
	}
	return t, nil
}

// ValidSlotTime reports whether s is a zero-padded HH:MM time of day.
func ValidSlotTime(s string) bool {
	if len(s) != len(TimeLayout) || s[2] != ':' {
		return false
	}
	_, err := time.Parse(TimeLayout, s)
	return err == nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ENUMS
// ══════════════════════════════════════════════════════════════════════════════

// AttendanceStatus is the attendance state of a student in a slot.
type AttendanceStatus string

const (
	// StatusPresent - the student attended (default for new enrolments).
	StatusPresent AttendanceStatus = "Present"
	// StatusAbsent - the student missed the class.
	StatusAbsent AttendanceStatus = "Absent"
	// StatusCancelled - the class was cancelled for this student.
	StatusCancelled AttendanceStatus = "Cancelled"
)

// Statuses lists every AttendanceStatus in display order.
func Statuses() []AttendanceStatus {
	return []AttendanceStatus{StatusPresent, StatusAbsent, StatusCancelled}
}

// IsValid checks the status belongs to the closed set.
func (s AttendanceStatus) IsValid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusCancelled:
		return true
	default:
		return false
	}
}

// ParseStatus converts a raw string into an AttendanceStatus.
func ParseStatus(s string) (AttendanceStatus, error) {
	status := AttendanceStatus(s)
	if !status.IsValid() {
		return "", shared.ErrInvalidStatus
	}
	return status, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTITIES
// ══════════════════════════════════════════════════════════════════════════════

// Student is one enrolment inside a TimeSlot.
type Student struct {
	ID     string           `json:"id"`
	Name   string           `json:"name"`
	Status AttendanceStatus `json:"status"`
	Tag    string           `json:"tag"`
	Notes  string           `json:"notes"`
}

// TimeSlot is a time of day with its metadata and enrolled students.
type TimeSlot struct {
	// Time is the HH:MM key of the slot, unique within a day.
	Time string `json:"time"`

	// ServiceID references the studio service taught in this slot.
	ServiceID string `json:"serviceId"`

	// Capacity is the number of places in the slot.
	Capacity int `json:"capacity"`

	Students []Student `json:"students"`
}

// DailySchedule is the ordered list of slots for one date, ascending by Time.
type DailySchedule []TimeSlot

// Aggregate maps each loaded date to its schedule.
// A missing key means "no stored schedule"; an empty DailySchedule means "cleared".
type Aggregate map[CalendarDate]DailySchedule

// ══════════════════════════════════════════════════════════════════════════════
// BEHAVIOUR
// ══════════════════════════════════════════════════════════════════════════════

// HasStudent reports whether the slot holds a student with the given id.
func (t TimeSlot) HasStudent(id string) bool {
	for _, s := range t.Students {
		if s.ID == id {
			return true
		}
	}
	return false
}

// Slot returns the slot with the given time.
func (d DailySchedule) Slot(slotTime string) (TimeSlot, bool) {
	for _, slot := range d {
		if slot.Time == slotTime {
			return slot, true
		}
	}
	return TimeSlot{}, false
}

// Validate checks the structural invariants of a stored day.
func (d DailySchedule) Validate() error {
	seen := make(map[string]struct{}, len(d))
	for _, slot := range d {
		if !ValidSlotTime(slot.Time) {
			return shared.ErrInvalidTime
		}
		if _, dup := seen[slot.Time]; dup {
			return shared.ErrDuplicateSlot
		}
		seen[slot.Time] = struct{}{}

		if slot.Capacity < 0 {
			return shared.ErrNegativeCapacity
		}

		ids := make(map[string]struct{}, len(slot.Students))
		for _, st := range slot.Students {
			if st.ID == "" {
				return shared.NewDomainError("schedule", "Validate", shared.ErrInvalidID, "student id is empty")
			}
			if _, dup := ids[st.ID]; dup {
				return shared.ErrDuplicateStudent
			}
			ids[st.ID] = struct{}{}
			if !st.Status.IsValid() {
				return shared.ErrInvalidStatus
			}
		}
	}
	return nil
}

// Sorted returns a copy of d ordered by time ascending.
func (d DailySchedule) Sorted() DailySchedule {
	out := make(DailySchedule, len(d))
	copy(out, d)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}

// Dates returns the aggregate's dates in ascending order.
func (a Aggregate) Dates() []CalendarDate {
	dates := make([]CalendarDate, 0, len(a))
	for d := range a {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}

// Clone returns a shallow copy of the map. Schedules are treated as immutable values.
func (a Aggregate) Clone() Aggregate {
	out := make(Aggregate, len(a))
	for d, s := range a {
		out[d] = s
	}
	return out
}
