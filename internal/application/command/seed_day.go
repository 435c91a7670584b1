package command

import (
	"context"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
	"github.com/brucesilvasad-lang/aplicativo-pilares/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// SEED DAY COMMAND
// Writes the slot list of a whole date, replacing what was stored.
// ══════════════════════════════════════════════════════════════════════════════

// SeedDayCommand contains the full schedule of one date.
type SeedDayCommand struct {
	Date  string
	Slots schedule.DailySchedule
}

// SeedDayResult contains the stored schedule.
type SeedDayResult struct {
	Date schedule.CalendarDate  `json:"date"`
	Day  schedule.DailySchedule `json:"slots"`

	// InAgenda is true when the date is in the active range and the agenda was updated.
	InAgenda bool `json:"inAgenda"`
}

// SeedDay normalizes, validates and stores a whole day.
//
// Slots are sorted by time, missing student ids are generated and an empty
// status becomes Present. Unlike the slot mutations, a failed write is
// returned: nothing else will retry it.
func (e *Engine) SeedDay(ctx context.Context, cmd SeedDayCommand) (*SeedDayResult, error) {
	date, err := schedule.ParseCalendarDate(cmd.Date)
	if err != nil {
		return nil, shared.WrapError("command", "SeedDay", shared.ErrValidation, "invalid date", err)
	}

	day := e.normalizeSeed(cmd.Slots)
	if err := day.Validate(); err != nil {
		return nil, shared.WrapError("command", "SeedDay", shared.ErrValidation, "invalid schedule", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	inAgenda, done := e.state.Put(date, day)
	defer done()

	result := &SeedDayResult{
		Date:     date,
		Day:      day,
		InAgenda: inAgenda,
	}

	if err := e.saver.Save(ctx, date, day); err != nil {
		logger.FromContext(ctx).Warn("seed write failed",
			logger.Component("mutation_engine"),
			logger.Operation("SeedDay"),
			logger.Date(string(date)),
			logger.Err(err),
		)
		return result, err
	}
	return result, nil
}

func (e *Engine) normalizeSeed(slots schedule.DailySchedule) schedule.DailySchedule {
	day := make(schedule.DailySchedule, 0, len(slots))
	for _, slot := range slots {
		students := make([]schedule.Student, 0, len(slot.Students))
		for _, st := range slot.Students {
			if st.ID == "" {
				st.ID = e.ids.NewID()
			}
			if st.Status == "" {
				st.Status = schedule.StatusPresent
			}
			students = append(students, st)
		}
		slot.Students = students
		day = append(day, slot)
	}
	return day.Sorted()
}
