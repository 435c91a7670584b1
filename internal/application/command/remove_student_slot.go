package command

import (
	"context"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
)

// RemoveStudentSlotCommand drops one student from one slot.
type RemoveStudentSlotCommand struct {
	Date      string
	Time      string
	StudentID string
}

// RemoveStudentSlot applies the command. An unknown slot or student is a no-op.
func (e *Engine) RemoveStudentSlot(ctx context.Context, cmd RemoveStudentSlotCommand) (*MutationResult, error) {
	date, err := parseTarget("RemoveStudentSlot", cmd.Date, cmd.Time)
	if err != nil {
		return nil, err
	}
	if cmd.StudentID == "" {
		return nil, shared.NewDomainError("command", "RemoveStudentSlot", shared.ErrInvalidID, "student id is required")
	}

	return e.mutate(ctx, "RemoveStudentSlot", date, cmd.Time, func(day schedule.DailySchedule) (schedule.DailySchedule, bool) {
		return day.RemoveStudent(cmd.Time, cmd.StudentID)
	}), nil
}
