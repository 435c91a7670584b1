package schedule

import "time"

// ExpandRange returns every date from start to end inclusive, one calendar day apart.
// A start after end yields an empty slice.
func ExpandRange(start, end CalendarDate) ([]CalendarDate, error) {
	from, err := start.civil()
	if err != nil {
		return nil, err
	}
	to, err := end.civil()
	if err != nil {
		return nil, err
	}
	if from.After(to) {
		return []CalendarDate{}, nil
	}

	dates := make([]CalendarDate, 0, daysApart(from, to)+1)
	for cur := from; !cur.After(to); cur = cur.AddDate(0, 0, 1) {
		dates = append(dates, DateOf(cur))
	}
	return dates, nil
}

// DaysBetween returns the number of calendar days from start to end (negative if end is earlier).
func DaysBetween(start, end CalendarDate) (int, error) {
	from, err := start.civil()
	if err != nil {
		return 0, err
	}
	to, err := end.civil()
	if err != nil {
		return 0, err
	}
	return daysApart(from, to), nil
}

// daysApart works on Unix seconds; time.Duration saturates after about 292 years.
func daysApart(from, to time.Time) int {
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

const secondsPerDay = 24 * 60 * 60
