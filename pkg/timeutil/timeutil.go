// Package timeutil resolves studio-local calendar days.
// The studio works in one timezone; "today" is always evaluated there.
package timeutil

import (
	"fmt"
	"time"
	_ "time/tzdata"
)

// DefaultTimezone is the studio's timezone when none is configured.
const DefaultTimezone = "America/Sao_Paulo"

// DateLayout is the ISO calendar date layout.
const DateLayout = "2006-01-02"

// LoadLocation resolves an IANA timezone name. Empty selects DefaultTimezone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("timeutil: unknown timezone %q: %w", name, err)
	}
	return loc, nil
}

// Today returns the calendar date of now in loc as YYYY-MM-DD.
func Today(now time.Time, loc *time.Location) string {
	return FormatDate(now, loc)
}

// FormatDate returns the calendar date of t in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(DateLayout)
}
