package command

import (
	"context"
	"errors"
	"testing"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/schedule"
	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedDay_NormalizesAndStores(t *testing.T) {
	engine, state, saver := newEngine(t, schedule.Aggregate{})

	res, err := engine.SeedDay(context.Background(), SeedDayCommand{
		Date: testDate,
		Slots: schedule.DailySchedule{
			{Time: "10:00", ServiceID: "pilates", Capacity: 2, Students: []schedule.Student{{Name: "Ana Silva"}}},
			{Time: "07:00", ServiceID: "pilates", Capacity: 2},
		},
	})
	require.NoError(t, err)
	assert.True(t, res.InAgenda)

	require.Len(t, res.Day, 2)
	assert.Equal(t, "07:00", res.Day[0].Time)
	assert.NotNil(t, res.Day[0].Students)
	st := res.Day[1].Students[0]
	assert.Equal(t, "id-1", st.ID)
	assert.Equal(t, schedule.StatusPresent, st.Status)

	day, ok := state.Day(testDate)
	require.True(t, ok)
	assert.Equal(t, res.Day, day)
	require.Len(t, saver.saves, 1)
}

func TestSeedDay_OutsideRangeOnlyWritesStore(t *testing.T) {
	engine, state, saver := newEngine(t, schedule.Aggregate{})

	res, err := engine.SeedDay(context.Background(), SeedDayCommand{
		Date:  "2024-07-01",
		Slots: schedule.DailySchedule{{Time: "08:00"}},
	})
	require.NoError(t, err)
	assert.False(t, res.InAgenda)
	assert.Len(t, saver.saves, 1)
	_, ok := state.Day("2024-07-01")
	assert.False(t, ok)
}

func TestSeedDay_EmptyDayClearsSchedule(t *testing.T) {
	engine, state, _ := newEngine(t, schedule.Aggregate{testDate: mariaDay()})

	_, err := engine.SeedDay(context.Background(), SeedDayCommand{Date: testDate})
	require.NoError(t, err)

	day, ok := state.Day(testDate)
	require.True(t, ok)
	assert.Empty(t, day)
}

func TestSeedDay_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		cmd   SeedDayCommand
		cause error
	}{
		{"bad date", SeedDayCommand{Date: "2024-02-30"}, shared.ErrInvalidDate},
		{"duplicate time", SeedDayCommand{Date: testDate, Slots: schedule.DailySchedule{{Time: "08:00"}, {Time: "08:00"}}}, shared.ErrDuplicateSlot},
		{"bad time", SeedDayCommand{Date: testDate, Slots: schedule.DailySchedule{{Time: "25:00"}}}, shared.ErrInvalidTime},
		{"bad status", SeedDayCommand{Date: testDate, Slots: schedule.DailySchedule{{Time: "08:00", Students: []schedule.Student{{ID: "a", Status: "Late"}}}}}, shared.ErrInvalidStatus},
		{"negative capacity", SeedDayCommand{Date: testDate, Slots: schedule.DailySchedule{{Time: "08:00", Capacity: -2}}}, shared.ErrNegativeCapacity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, saver := newEngine(t, schedule.Aggregate{})
			_, err := engine.SeedDay(context.Background(), tt.cmd)
			assert.ErrorIs(t, err, shared.ErrValidation)
			assert.ErrorIs(t, err, tt.cause)
			assert.Empty(t, saver.saves)
		})
	}
}

func TestSeedDay_WriteFailureReturned(t *testing.T) {
	engine, state, saver := newEngine(t, schedule.Aggregate{})
	saver.err = errors.New("down")

	res, err := engine.SeedDay(context.Background(), SeedDayCommand{Date: testDate, Slots: schedule.DailySchedule{{Time: "08:00"}}})
	assert.Error(t, err)
	require.NotNil(t, res)
	// the agenda stays optimistic
	_, ok := state.Day(testDate)
	assert.True(t, ok)
}
