package command

import (
	"context"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
)

// ══════════════════════════════════════════════════════════════════════════════
// ADD STUDENT SLOT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// AddStudentSlotCommand appends a blank enrolment to one slot.
type AddStudentSlotCommand struct {
	Date string
	Time string
}

// AddStudentSlot appends a student with a fresh id, status Present and empty
// name, tag and notes. The new id is returned in the result. An unknown slot
// is a no-op and StudentID stays empty.
func (e *Engine) AddStudentSlot(ctx context.Context, cmd AddStudentSlotCommand) (*MutationResult, error) {
	date, err := parseTarget("AddStudentSlot", cmd.Date, cmd.Time)
	if err != nil {
		return nil, err
	}

	var id string
	result := e.mutate(ctx, "AddStudentSlot", date, cmd.Time, func(day schedule.DailySchedule) (schedule.DailySchedule, bool) {
		slot, ok := day.Slot(cmd.Time)
		if !ok {
			return day, false
		}
		id = e.freshID(slot)
		return day.AddStudent(cmd.Time, schedule.NewStudent(id))
	})
	if result.Applied {
		result.StudentID = id
	}
	return result, nil
}

// freshID draws ids until one is not already used in slot.
func (e *Engine) freshID(slot schedule.TimeSlot) string {
	for {
		id := e.ids.NewID()
		if id != "" && !slot.HasStudent(id) {
			return id
		}
	}
}
