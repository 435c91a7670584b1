package command

import (
	"context"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
)

// UpdateTimeSlotCommand merges Patch into a slot's metadata. Students are untouched.
type UpdateTimeSlotCommand struct {
	Date  string
	Time  string
	Patch schedule.SlotPatch
}

// UpdateTimeSlot applies the command. An unknown slot or an empty patch is a no-op.
func (e *Engine) UpdateTimeSlot(ctx context.Context, cmd UpdateTimeSlotCommand) (*MutationResult, error) {
	date, err := parseTarget("UpdateTimeSlot", cmd.Date, cmd.Time)
	if err != nil {
		return nil, err
	}
	if cmd.Patch.Capacity != nil && *cmd.Patch.Capacity < 0 {
		return nil, shared.WrapError("command", "UpdateTimeSlot", shared.ErrValidation, "invalid capacity", shared.ErrNegativeCapacity)
	}

	return e.mutate(ctx, "UpdateTimeSlot", date, cmd.Time, func(day schedule.DailySchedule) (schedule.DailySchedule, bool) {
		if cmd.Patch.IsEmpty() {
			return day, false
		}
		return day.UpdateSlot(cmd.Time, cmd.Patch)
	}), nil
}
