package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToday_UsesStudioTimezone(t *testing.T) {
	loc, err := LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	// 01:30 UTC is still the previous evening in São Paulo (UTC-3).
	now := time.Date(2024, 6, 11, 1, 30, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-10", Today(now, loc))
	assert.Equal(t, "2024-06-11", Today(now, time.UTC))
}

func TestLoadLocation(t *testing.T) {
	loc, err := LoadLocation("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimezone, loc.String())

	_, err = LoadLocation("Mars/Olympus")
	assert.Error(t, err)
}

func TestFormatDate_NilLocation(t *testing.T) {
	now := time.Date(2024, 6, 16, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "2024-06-16", FormatDate(now, nil))
}
