// Package command contains write operations (CQRS - Commands).
// Every mutation is scoped to one date, updates the agenda first and then
// writes the whole day back to the store.
package command

import (
	"context"
	"sync"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/application/agenda"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
	"github.com/brucesilvasad-lang/aplicativo-pilares/pkg/logger"
)

// ScheduleSaver writes one day. Implementations report their own failures.
type ScheduleSaver interface {
	Save(ctx context.Context, date schedule.CalendarDate, day schedule.DailySchedule) error
}

// MutationResult describes the outcome of a mutation.
type MutationResult struct {
	// Applied is false when the target slot or student was not found.
	Applied bool `json:"applied"`

	// Persisted is false when the store write failed. The agenda keeps the
	// new state either way.
	Persisted bool `json:"persisted"`

	Date schedule.CalendarDate `json:"date"`
	Time string                `json:"time"`

	// StudentID is set by AddStudentSlot.
	StudentID string `json:"studentId,omitempty"`

	// Slot is the slot after the mutation.
	Slot *schedule.TimeSlot `json:"slot,omitempty"`
}

// ══════════════════════════════════════════════════════════════════════════════
// MUTATION ENGINE
// ══════════════════════════════════════════════════════════════════════════════

// Engine applies mutations to the agenda and persists them.
type Engine struct {
	saver ScheduleSaver
	state *agenda.State
	ids   schedule.IDGenerator

	// mu orders mutations so store writes land in the order they were applied.
	mu sync.Mutex
}

// NewEngine creates a new mutation engine.
func NewEngine(saver ScheduleSaver, state *agenda.State, ids schedule.IDGenerator) *Engine {
	return &Engine{
		saver: saver,
		state: state,
		ids:   ids,
	}
}

// mutate runs fn on the agenda entry for date and saves the result.
// fn returns false for a no-op, in which case nothing is written.
func (e *Engine) mutate(
	ctx context.Context,
	op string,
	date schedule.CalendarDate,
	slotTime string,
	fn func(day schedule.DailySchedule) (schedule.DailySchedule, bool),
) *MutationResult {
	log := logger.FromContext(ctx).With(
		logger.Component("mutation_engine"),
		logger.Operation(op),
		logger.Date(string(date)),
		logger.SlotTime(slotTime),
	)

	e.mu.Lock()
	defer e.mu.Unlock()

	result := &MutationResult{Date: date, Time: slotTime}

	next, changed, done := e.state.Update(date, fn)
	if !changed {
		log.Debug("mutation target not found")
		return result
	}
	defer done()
	result.Applied = true

	if slot, ok := next.Slot(slotTime); ok {
		result.Slot = &slot
	}

	// Optimistic: the agenda already shows next, whatever the store says.
	if err := e.saver.Save(ctx, date, next); err != nil {
		log.Warn("schedule write failed, keeping in-memory state", logger.Err(err))
		return result
	}
	result.Persisted = true
	return result
}

// parseTarget validates the date/time coordinate shared by all commands.
func parseTarget(op, date, slotTime string) (schedule.CalendarDate, error) {
	d, err := schedule.ParseCalendarDate(date)
	if err != nil {
		return "", shared.WrapError("command", op, shared.ErrValidation, "invalid date", err)
	}
	if !schedule.ValidSlotTime(slotTime) {
		return "", shared.WrapError("command", op, shared.ErrValidation, "invalid slot time", shared.ErrInvalidTime)
	}
	return d, nil
}
