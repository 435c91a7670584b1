package query

import (
	"context"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/application/agenda"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET AGENDA QUERY
// The filtered view of the current aggregate.
// ══════════════════════════════════════════════════════════════════════════════

// Reasons an agenda view has no days.
const (
	EmptyNone       = ""
	EmptyNoMatch    = "no_match"
	EmptyNoSchedule = "no_schedule"
)

// GetAgendaQuery filters the agenda by student name.
type GetAgendaQuery struct {
	// Query is matched case-insensitively against student names. Empty shows everything.
	Query string
}

// DayDTO is one date of the view.
type DayDTO struct {
	Date  schedule.CalendarDate  `json:"date"`
	Slots schedule.DailySchedule `json:"slots"`
}

// AgendaView is what a client renders.
type AgendaView struct {
	Start      schedule.CalendarDate `json:"start"`
	End        schedule.CalendarDate `json:"end"`
	Loading    bool                  `json:"loading"`
	Generation uint64                `json:"generation"`
	Query      string                `json:"query"`
	Days       []DayDTO              `json:"days"`

	// Empty explains an empty Days list: "no_match" while a query is set, else "no_schedule".
	Empty string `json:"empty"`
}

// GetAgendaHandler builds agenda views.
type GetAgendaHandler struct {
	state *agenda.State
}

// NewGetAgendaHandler creates a new handler.
func NewGetAgendaHandler(state *agenda.State) *GetAgendaHandler {
	return &GetAgendaHandler{state: state}
}

// Handle returns the current view. While a load is running the previous
// aggregate is shown with Loading set.
func (h *GetAgendaHandler) Handle(_ context.Context, q GetAgendaQuery) (*AgendaView, error) {
	snap := h.state.Snapshot()
	filtered := schedule.Filter(snap.Aggregate, q.Query)

	view := &AgendaView{
		Start:      snap.Start,
		End:        snap.End,
		Loading:    snap.Loading,
		Generation: snap.Generation,
		Query:      q.Query,
		Days:       make([]DayDTO, 0, len(filtered)),
	}
	for _, date := range filtered.Dates() {
		slots := filtered[date]
		if slots == nil {
			slots = schedule.DailySchedule{}
		}
		view.Days = append(view.Days, DayDTO{Date: date, Slots: slots})
	}

	if len(view.Days) == 0 {
		view.Empty = EmptyNoSchedule
		if q.Query != "" {
			view.Empty = EmptyNoMatch
		}
	}
	return view, nil
}
