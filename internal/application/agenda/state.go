// Package agenda holds the live studio agenda: the active date range, its
// loading state and the aggregate of loaded schedules.
package agenda

import (
	"sync"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
)

// Snapshot is a consistent copy of the agenda at one instant.
type Snapshot struct {
	Start      schedule.CalendarDate
	End        schedule.CalendarDate
	Generation uint64
	Loading    bool
	Aggregate  schedule.Aggregate
}

// State is the single source of truth for what the studio currently sees.
//
// Every range change bumps the generation. A load may only replace the
// aggregate if its generation is still current; anything else is stale and
// is dropped. Safe for concurrent use.
type State struct {
	mu         sync.RWMutex
	start      schedule.CalendarDate
	end        schedule.CalendarDate
	generation uint64
	loading    bool
	aggregate  schedule.Aggregate

	// touched collects entries written since the last Begin so a load that
	// read them earlier does not resurrect the old value.
	touched map[schedule.CalendarDate]schedule.DailySchedule

	// pending counts writes per date whose store write has not returned yet.
	// Their touched entries outlive Begin and Commit until released.
	pending map[schedule.CalendarDate]int
}

// NewState creates an empty, idle agenda.
func NewState() *State {
	return &State{
		aggregate: make(schedule.Aggregate),
		touched:   make(map[schedule.CalendarDate]schedule.DailySchedule),
		pending:   make(map[schedule.CalendarDate]int),
	}
}

// Begin records a new active range, marks the agenda as loading and returns
// the generation token the caller must present to Commit.
func (s *State) Begin(start, end schedule.CalendarDate) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++
	s.start = start
	s.end = end
	s.loading = true
	s.touched = s.pendingOnly()
	return s.generation
}

// Current returns the latest generation token.
func (s *State) Current() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.generation
}

// Commit replaces the whole aggregate with agg and clears the loading flag,
// but only when gen is still the latest generation. It reports whether agg
// was applied.
func (s *State) Commit(gen uint64, agg schedule.Aggregate) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		return false
	}

	next := agg.Clone()
	for date, day := range s.touched {
		if inRange(date, s.start, s.end) {
			next[date] = day
		}
	}

	s.aggregate = next
	s.loading = false
	s.touched = s.pendingOnly()
	return true
}

// Snapshot returns a copy of the agenda.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Start:      s.start,
		End:        s.end,
		Generation: s.generation,
		Loading:    s.loading,
		Aggregate:  s.aggregate.Clone(),
	}
}

// Day returns the aggregate entry for date.
func (s *State) Day(date schedule.CalendarDate) (schedule.DailySchedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	day, ok := s.aggregate[date]
	return day, ok
}

// Update runs fn on the entry for date (empty when absent) and stores the
// result when fn reports a change. fn runs under the write lock and must not
// block.
//
// A changed entry is pinned until done is called: a range load that starts
// in the meantime keeps it over whatever it reads from the store. Call done
// once the store write has returned. done is a no-op when nothing changed.
func (s *State) Update(
	date schedule.CalendarDate,
	fn func(day schedule.DailySchedule) (schedule.DailySchedule, bool),
) (next schedule.DailySchedule, changed bool, done func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.aggregate[date]
	if !ok {
		current = schedule.DailySchedule{}
	}

	next, changed = fn(current)
	if !changed {
		return current, false, func() {}
	}

	s.aggregate[date] = next
	return next, true, s.pin(date, next)
}

// Put stores day for date when date lies in the active range and reports
// whether the aggregate was changed. Either way day is pinned until done is
// called, so a load of a range covering date cannot bring back the old entry.
func (s *State) Put(date schedule.CalendarDate, day schedule.DailySchedule) (inAgenda bool, done func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inAgenda = inRange(date, s.start, s.end)
	if inAgenda {
		s.aggregate[date] = day
	}
	return inAgenda, s.pin(date, day)
}

// InRange reports whether date lies in the active range.
func (s *State) InRange(date schedule.CalendarDate) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return inRange(date, s.start, s.end)
}

// pin must be called with mu held.
func (s *State) pin(date schedule.CalendarDate, day schedule.DailySchedule) func() {
	s.touched[date] = day
	s.pending[date]++

	var once sync.Once
	return func() {
		once.Do(func() { s.release(date) })
	}
}

func (s *State) release(date schedule.CalendarDate) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pending[date]--
	if s.pending[date] > 0 {
		return
	}
	delete(s.pending, date)
	// a running load may still have read the old value
	if !s.loading {
		delete(s.touched, date)
	}
}

// pendingOnly must be called with mu held.
func (s *State) pendingOnly() map[schedule.CalendarDate]schedule.DailySchedule {
	kept := make(map[schedule.CalendarDate]schedule.DailySchedule, len(s.pending))
	for date := range s.pending {
		kept[date] = s.touched[date]
	}
	return kept
}

// inRange compares ISO dates lexically, which matches chronological order.
func inRange(date, start, end schedule.CalendarDate) bool {
	if start == "" || end == "" {
		return false
	}
	return !date.Before(start) && !end.Before(date)
}
