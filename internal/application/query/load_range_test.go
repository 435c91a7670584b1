package query

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/application/agenda"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/infrastructure/persistence"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/infrastructure/persistence/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mariaDay() schedule.DailySchedule {
	return schedule.DailySchedule{
		{Time: "08:00", ServiceID: "pilates", Capacity: 3, Students: []schedule.Student{
			{ID: "s1", Name: "Maria", Status: schedule.StatusPresent},
		}},
	}
}

func seededRepo(t *testing.T, days map[schedule.CalendarDate]schedule.DailySchedule) *persistence.ScheduleRepository {
	t.Helper()
	repo := persistence.NewScheduleRepository(memory.NewStore(), nil, "")
	for date, day := range days {
		require.NoError(t, repo.Save(context.Background(), date, day))
	}
	return repo
}

// gatedLoader blocks reads of one date until release is closed.
type gatedLoader struct {
	inner   ScheduleLoader
	gate    schedule.CalendarDate
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (l *gatedLoader) Load(ctx context.Context, date schedule.CalendarDate) (schedule.DailySchedule, bool) {
	if date == l.gate {
		l.once.Do(func() { close(l.started) })
		<-l.release
	}
	return l.inner.Load(ctx, date)
}

// countingLoader records the peak number of concurrent reads.
type countingLoader struct {
	active, peak atomic.Int32
}

func (l *countingLoader) Load(context.Context, schedule.CalendarDate) (schedule.DailySchedule, bool) {
	n := l.active.Add(1)
	for {
		p := l.peak.Load()
		if n <= p || l.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	l.active.Add(-1)
	return nil, false
}

func TestLoadRange_OmitsAbsentDates(t *testing.T) {
	repo := seededRepo(t, map[schedule.CalendarDate]schedule.DailySchedule{
		"2024-06-10": mariaDay(),
		"2024-06-12": {},
	})
	state := agenda.NewState()
	h := NewLoadRangeHandler(repo, state, DefaultLoadRangeOptions())

	res, err := h.Handle(context.Background(), LoadRangeQuery{Start: "2024-06-10", End: "2024-06-12"})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Days)
	assert.Equal(t, 2, res.Loaded)
	assert.False(t, res.Superseded)

	snap := state.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, []schedule.CalendarDate{"2024-06-10", "2024-06-12"}, snap.Aggregate.Dates())
	assert.Empty(t, snap.Aggregate["2024-06-12"])
}

func TestLoadRange_NoStoredEntry(t *testing.T) {
	state := agenda.NewState()
	h := NewLoadRangeHandler(seededRepo(t, nil), state, DefaultLoadRangeOptions())

	_, err := h.Handle(context.Background(), LoadRangeQuery{Start: "2024-06-10", End: "2024-06-10"})
	require.NoError(t, err)
	assert.Empty(t, state.Snapshot().Aggregate)
}

func TestLoadRange_CorruptRecordTreatedAsAbsent(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.Set(context.Background(), persistence.ScheduleKey(persistence.DefaultKeyPrefix, "2024-06-10"), "{oops"))
	repo := persistence.NewScheduleRepository(store, nil, "")
	state := agenda.NewState()

	res, err := NewLoadRangeHandler(repo, state, DefaultLoadRangeOptions()).
		Handle(context.Background(), LoadRangeQuery{Start: "2024-06-10", End: "2024-06-10"})
	require.NoError(t, err)
	assert.Zero(t, res.Loaded)
	assert.Empty(t, state.Snapshot().Aggregate)
}

func TestLoadRange_StartAfterEndIsEmpty(t *testing.T) {
	state := agenda.NewState()
	h := NewLoadRangeHandler(seededRepo(t, map[schedule.CalendarDate]schedule.DailySchedule{
		"2024-06-10": mariaDay(),
	}), state, DefaultLoadRangeOptions())

	res, err := h.Handle(context.Background(), LoadRangeQuery{Start: "2024-06-11", End: "2024-06-10"})
	require.NoError(t, err)
	assert.Zero(t, res.Days)
	assert.Empty(t, state.Snapshot().Aggregate)
}

func TestLoadRange_Rejections(t *testing.T) {
	state := agenda.NewState()
	opts := DefaultLoadRangeOptions()
	opts.MaxRangeDays = 7
	h := NewLoadRangeHandler(seededRepo(t, nil), state, opts)

	tests := []struct {
		name  string
		query LoadRangeQuery
		kind  error
	}{
		{"bad start", LoadRangeQuery{Start: "2024-13-01", End: "2024-06-10"}, shared.ErrValidation},
		{"bad end", LoadRangeQuery{Start: "2024-06-10", End: "10/06/2024"}, shared.ErrValidation},
		{"too long", LoadRangeQuery{Start: "2024-06-01", End: "2024-06-30"}, shared.ErrInvalidInput},
		{"one day over", LoadRangeQuery{Start: "2024-06-01", End: "2024-06-08"}, shared.ErrInvalidInput},
		{"whole calendar", LoadRangeQuery{Start: "0001-01-01", End: "9999-12-31"}, shared.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), tt.query)
			assert.ErrorIs(t, err, tt.kind)
		})
	}

	// rejected requests never start a load
	assert.Zero(t, state.Current())
}

func TestLoadRange_MaxRangeDaysIsInclusive(t *testing.T) {
	opts := DefaultLoadRangeOptions()
	opts.MaxRangeDays = 7
	h := NewLoadRangeHandler(seededRepo(t, nil), agenda.NewState(), opts)

	res, err := h.Handle(context.Background(), LoadRangeQuery{Start: "2024-06-01", End: "2024-06-07"})
	require.NoError(t, err)
	assert.Equal(t, 7, res.Days)

	// reversed ranges are empty, never too long
	res, err = h.Handle(context.Background(), LoadRangeQuery{Start: "9999-12-31", End: "0001-01-01"})
	require.NoError(t, err)
	assert.Zero(t, res.Days)
}

func TestLoadRange_LastRangeWins(t *testing.T) {
	repo := seededRepo(t, map[schedule.CalendarDate]schedule.DailySchedule{
		"2024-06-01": mariaDay(),
		"2024-06-10": mariaDay(),
	})
	loader := &gatedLoader{
		inner:   repo,
		gate:    "2024-06-01",
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
	state := agenda.NewState()
	h := NewLoadRangeHandler(loader, state, DefaultLoadRangeOptions())

	type outcome struct {
		res *LoadRangeResult
		err error
	}
	slow := make(chan outcome, 1)
	go func() {
		res, err := h.Handle(context.Background(), LoadRangeQuery{Start: "2024-06-01", End: "2024-06-03"})
		slow <- outcome{res, err}
	}()
	<-loader.started

	fast, err := h.Handle(context.Background(), LoadRangeQuery{Start: "2024-06-10", End: "2024-06-10"})
	require.NoError(t, err)
	assert.False(t, fast.Superseded)

	close(loader.release)
	old := <-slow
	require.NoError(t, old.err)
	assert.True(t, old.res.Superseded)

	snap := state.Snapshot()
	assert.False(t, snap.Loading)
	assert.Equal(t, schedule.CalendarDate("2024-06-10"), snap.Start)
	assert.Equal(t, []schedule.CalendarDate{"2024-06-10"}, snap.Aggregate.Dates())
}

func TestLoadRange_BoundedConcurrency(t *testing.T) {
	loader := &countingLoader{}
	opts := DefaultLoadRangeOptions()
	opts.MaxConcurrentReads = 3
	h := NewLoadRangeHandler(loader, agenda.NewState(), opts)

	res, err := h.Handle(context.Background(), LoadRangeQuery{Start: "2024-06-01", End: "2024-06-20"})
	require.NoError(t, err)
	assert.Equal(t, 20, res.Days)
	assert.LessOrEqual(t, loader.peak.Load(), int32(3))
}

func TestLoadRange_CancelledRequestStillCompletes(t *testing.T) {
	repo := seededRepo(t, map[schedule.CalendarDate]schedule.DailySchedule{
		"2024-06-10": mariaDay(),
	})
	state := agenda.NewState()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewLoadRangeHandler(repo, state, DefaultLoadRangeOptions()).
		Handle(ctx, LoadRangeQuery{Start: "2024-06-10", End: "2024-06-10"})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Loaded)
}
