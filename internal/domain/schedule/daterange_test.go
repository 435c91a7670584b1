package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brucesilvasad-lang/aplicativo-pilares/internal/domain/shared"
)

func TestExpandRange_MonthBoundary(t *testing.T) {
	dates, err := ExpandRange("2024-06-29", "2024-07-02")
	require.NoError(t, err)
	assert.Equal(t, []CalendarDate{"2024-06-29", "2024-06-30", "2024-07-01", "2024-07-02"}, dates)
}

func TestExpandRange_Properties(t *testing.T) {
	cases := []struct {
		start, end CalendarDate
	}{
		{"2024-06-10", "2024-06-10"},
		{"2023-12-30", "2024-01-02"},
		{"2024-02-27", "2024-03-01"}, // leap year
		{"2023-02-27", "2023-03-01"},
		{"2024-10-19", "2024-10-22"},
		{"2024-01-01", "2024-12-31"},
	}

	for _, tc := range cases {
		t.Run(string(tc.start)+"_"+string(tc.end), func(t *testing.T) {
			dates, err := ExpandRange(tc.start, tc.end)
			require.NoError(t, err)

			days, err := DaysBetween(tc.start, tc.end)
			require.NoError(t, err)

			require.Len(t, dates, days+1)
			assert.Equal(t, tc.start, dates[0])
			assert.Equal(t, tc.end, dates[len(dates)-1])
			for i := 1; i < len(dates); i++ {
				assert.True(t, dates[i-1].Before(dates[i]), "not ascending at %d", i)
			}
		})
	}
}

func TestExpandRange_LeapDay(t *testing.T) {
	dates, err := ExpandRange("2024-02-28", "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, []CalendarDate{"2024-02-28", "2024-02-29", "2024-03-01"}, dates)
}

func TestExpandRange_StartAfterEnd(t *testing.T) {
	dates, err := ExpandRange("2024-07-02", "2024-06-29")
	require.NoError(t, err)
	assert.Empty(t, dates)
}

func TestDaysBetween_BeyondDurationRange(t *testing.T) {
	days, err := DaysBetween("0001-01-01", "9999-12-31")
	require.NoError(t, err)
	assert.Equal(t, 3652058, days)

	days, err = DaysBetween("9999-12-31", "0001-01-01")
	require.NoError(t, err)
	assert.Equal(t, -3652058, days)
}

func TestExpandRange_InvalidDate(t *testing.T) {
	_, err := ExpandRange("2024-6-1", "2024-06-29")
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)

	_, err = ExpandRange("2024-06-01", "2024-02-30")
	assert.ErrorIs(t, err, shared.ErrInvalidFormat)
}

func TestParseCalendarDate(t *testing.T) {
	d, err := ParseCalendarDate("2024-06-10")
	require.NoError(t, err)
	assert.Equal(t, CalendarDate("2024-06-10"), d)

	for _, bad := range []string{"", "2024/06/10", "10-06-2024", "2024-13-01", "2024-06-10T00:00:00"} {
		_, err := ParseCalendarDate(bad)
		assert.Error(t, err, bad)
	}
}
