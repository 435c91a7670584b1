package command

import (
	"context"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// UPDATE STUDENT COMMAND
// ══════════════════════════════════════════════════════════════════════════════

// UpdateStudentCommand merges Patch into one student of one slot.
type UpdateStudentCommand struct {
	Date      string
	Time      string
	StudentID string

	// Patch holds the fields to change. nil fields are kept.
	Patch schedule.StudentPatch
}

// Validate validates the command.
func (c UpdateStudentCommand) Validate() (schedule.CalendarDate, error) {
	date, err := parseTarget("UpdateStudent", c.Date, c.Time)
	if err != nil {
		return "", err
	}
	if c.StudentID == "" {
		return "", shared.NewDomainError("command", "UpdateStudent", shared.ErrInvalidID, "student id is required")
	}
	if c.Patch.Status != nil && !c.Patch.Status.IsValid() {
		return "", shared.WrapError("command", "UpdateStudent", shared.ErrValidation, "invalid status", shared.ErrInvalidStatus)
	}
	return date, nil
}

// UpdateStudent applies the command. An unknown slot or student, or an empty
// patch, is a no-op.
func (e *Engine) UpdateStudent(ctx context.Context, cmd UpdateStudentCommand) (*MutationResult, error) {
	date, err := cmd.Validate()
	if err != nil {
		return nil, err
	}

	return e.mutate(ctx, "UpdateStudent", date, cmd.Time, func(day schedule.DailySchedule) (schedule.DailySchedule, bool) {
		if cmd.Patch.IsEmpty() {
			return day, false
		}
		return day.UpdateStudent(cmd.Time, cmd.StudentID, cmd.Patch)
	}), nil
}
