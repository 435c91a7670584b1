// Package persistence owns the per-date schedule records in the key-value store.
// Concrete stores live in the redis, postgres and memory subpackages.
package persistence

import (
	"context"
	"fmt"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
)

// DefaultKeyPrefix is the namespace of schedule keys.
const DefaultKeyPrefix = "pilaris_control"

// keySuffix closes every schedule key.
const keySuffix = "_schedule"

// ScheduleKey derives the store key of a date: <prefix>_<YYYY-MM-DD>_schedule.
// Dates have a fixed width, so distinct dates never share a key.
func ScheduleKey(prefix string, date schedule.CalendarDate) string {
	return prefix + "_" + string(date) + keySuffix
}

// ScheduleRepository loads and saves one DailySchedule per CalendarDate.
// It is the only component that talks to the Store.
type ScheduleRepository struct {
	store    schedule.Store
	reporter schedule.ErrorReporter
	prefix   string
}

// NewScheduleRepository creates a repository over store. An empty prefix selects DefaultKeyPrefix.
func NewScheduleRepository(store schedule.Store, reporter schedule.ErrorReporter, prefix string) *ScheduleRepository {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &ScheduleRepository{
		store:    store,
		reporter: reporter,
		prefix:   prefix,
	}
}

// Key returns the store key for date.
func (r *ScheduleRepository) Key(date schedule.CalendarDate) string {
	return ScheduleKey(r.prefix, date)
}

// Load returns the stored schedule for date and true, or false when there is no
// usable entry. Read and parse failures are reported and treated as absence.
func (r *ScheduleRepository) Load(ctx context.Context, date schedule.CalendarDate) (schedule.DailySchedule, bool) {
	where := "load schedule " + string(date)

	if !date.IsValid() {
		r.report(ctx, where, shared.ErrInvalidDate)
		return nil, false
	}

	raw, found, err := r.store.Get(ctx, r.Key(date))
	if err != nil {
		r.report(ctx, where, fmt.Errorf("%w: %v", shared.ErrStoreRead, err))
		return nil, false
	}
	if !found {
		return nil, false
	}

	day, err := schedule.Decode(raw)
	if err != nil {
		r.report(ctx, where, err)
		return nil, false
	}
	return day, true
}

// Save overwrites the stored schedule for date. Failures are reported and
// returned; callers keep their in-memory state either way.
func (r *ScheduleRepository) Save(ctx context.Context, date schedule.CalendarDate, day schedule.DailySchedule) error {
	where := "save schedule " + string(date)

	if !date.IsValid() {
		r.report(ctx, where, shared.ErrInvalidDate)
		return shared.ErrInvalidDate
	}

	raw, err := schedule.Encode(day)
	if err != nil {
		r.report(ctx, where, err)
		return err
	}

	if err := r.store.Set(ctx, r.Key(date), raw); err != nil {
		wrapped := fmt.Errorf("%w: %v", shared.ErrStoreWrite, err)
		r.report(ctx, where, wrapped)
		return wrapped
	}
	return nil
}

// Ping checks the underlying store.
func (r *ScheduleRepository) Ping(ctx context.Context) error {
	return r.store.Ping(ctx)
}

func (r *ScheduleRepository) report(ctx context.Context, where string, err error) {
	if r.reporter != nil {
		r.reporter.Report(ctx, where, err)
	}
}
