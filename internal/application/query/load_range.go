// Package query contains read operations following CQRS pattern.
// LoadRange is the one query that changes state: it replaces the agenda's
// aggregate, never the stored schedules.
package query

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/application/agenda"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
	"github.com/brucesilvasad-lang/aplicativo-pilares/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOAD RANGE QUERY
// Reads every date of a range and replaces the aggregate, last range wins.
// ══════════════════════════════════════════════════════════════════════════════

// ScheduleLoader reads one stored day. Absent and unreadable days both return false.
type ScheduleLoader interface {
	Load(ctx context.Context, date schedule.CalendarDate) (schedule.DailySchedule, bool)
}

// LoadRangeQuery selects the active range. Both ends are inclusive.
type LoadRangeQuery struct {
	Start string
	End   string
}

// LoadRangeResult describes what happened to one load.
type LoadRangeResult struct {
	Start      schedule.CalendarDate `json:"start"`
	End        schedule.CalendarDate `json:"end"`
	Generation uint64                `json:"generation"`

	// Days is the number of dates in the range; Loaded how many had a usable entry.
	Days   int `json:"days"`
	Loaded int `json:"loaded"`

	// Superseded is true when a newer range started before this one finished.
	// Its results were discarded.
	Superseded bool `json:"superseded"`
}

// LoadRangeOptions tunes the loader.
type LoadRangeOptions struct {
	// MaxConcurrentReads bounds parallel store reads (default 8).
	MaxConcurrentReads int

	// MaxRangeDays rejects longer ranges (0 disables the check).
	MaxRangeDays int

	// Timeout bounds a whole load (0 disables it).
	Timeout time.Duration
}

// DefaultLoadRangeOptions returns the production defaults.
func DefaultLoadRangeOptions() LoadRangeOptions {
	return LoadRangeOptions{
		MaxConcurrentReads: 8,
		MaxRangeDays:       366,
		Timeout:            30 * time.Second,
	}
}

// LoadRangeHandler is the schedule aggregator.
type LoadRangeHandler struct {
	loader ScheduleLoader
	state  *agenda.State
	opts   LoadRangeOptions
}

// NewLoadRangeHandler creates a new handler.
func NewLoadRangeHandler(loader ScheduleLoader, state *agenda.State, opts LoadRangeOptions) *LoadRangeHandler {
	if opts.MaxConcurrentReads <= 0 {
		opts.MaxConcurrentReads = 1
	}
	return &LoadRangeHandler{
		loader: loader,
		state:  state,
		opts:   opts,
	}
}

// Handle switches the agenda to the requested range and loads it.
//
// Invalid dates and oversized ranges are rejected before the agenda is touched.
// A start after the end is a valid, empty range. The call returns once every
// read has finished; the reads run detached from ctx cancellation so a
// dropped request cannot leave a half-read aggregate behind.
func (h *LoadRangeHandler) Handle(ctx context.Context, q LoadRangeQuery) (*LoadRangeResult, error) {
	start, err := schedule.ParseCalendarDate(q.Start)
	if err != nil {
		return nil, shared.WrapError("query", "LoadRange", shared.ErrValidation, "invalid start date", err)
	}
	end, err := schedule.ParseCalendarDate(q.End)
	if err != nil {
		return nil, shared.WrapError("query", "LoadRange", shared.ErrValidation, "invalid end date", err)
	}

	span, err := schedule.DaysBetween(start, end)
	if err != nil {
		return nil, shared.WrapError("query", "LoadRange", shared.ErrValidation, "invalid range", err)
	}
	if h.opts.MaxRangeDays > 0 && span+1 > h.opts.MaxRangeDays {
		return nil, shared.NewDomainError("query", "LoadRange", shared.ErrInvalidInput, "range is too long")
	}

	dates, err := schedule.ExpandRange(start, end)
	if err != nil {
		return nil, shared.WrapError("query", "LoadRange", shared.ErrValidation, "invalid range", err)
	}

	gen := h.state.Begin(start, end)
	log := logger.FromContext(ctx).With(
		logger.Component("aggregator"),
		logger.Generation(gen),
	)
	began := time.Now()

	agg := h.readAll(ctx, gen, dates)

	result := &LoadRangeResult{
		Start:      start,
		End:        end,
		Generation: gen,
		Days:       len(dates),
		Loaded:     len(agg),
	}

	if !h.state.Commit(gen, agg) {
		result.Superseded = true
		log.Info("range load superseded",
			logger.Date(string(start)),
			logger.Days(len(dates)),
			logger.Latency(time.Since(began)),
		)
		return result, nil
	}

	log.Info("range loaded",
		logger.Date(string(start)),
		logger.Days(len(dates)),
		logger.Int("loaded", len(agg)),
		logger.Latency(time.Since(began)),
	)
	return result, nil
}

// readAll loads dates concurrently. Dates without a usable entry are omitted.
// Once the generation is superseded, reads not yet issued are skipped.
func (h *LoadRangeHandler) readAll(ctx context.Context, gen uint64, dates []schedule.CalendarDate) schedule.Aggregate {
	readCtx := context.WithoutCancel(ctx)
	if h.opts.Timeout > 0 {
		var cancel context.CancelFunc
		readCtx, cancel = context.WithTimeout(readCtx, h.opts.Timeout)
		defer cancel()
	}

	type entry struct {
		day schedule.DailySchedule
		ok  bool
	}
	results := make([]entry, len(dates))

	var g errgroup.Group
	g.SetLimit(h.opts.MaxConcurrentReads)

	for i, date := range dates {
		g.Go(func() error {
			if h.state.Current() != gen {
				return nil
			}
			day, ok := h.loader.Load(readCtx, date)
			results[i] = entry{day: day, ok: ok}
			return nil
		})
	}
	_ = g.Wait()

	agg := make(schedule.Aggregate, len(dates))
	for i, r := range results {
		if r.ok {
			agg[dates[i]] = r.day
		}
	}
	return agg
}
