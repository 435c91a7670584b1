package schedule

import "strings"

// Filter keeps, per date, only the slots with at least one student whose name
// contains query (case-insensitive). Dates left without slots are dropped.
// An empty query returns agg itself.
func Filter(agg Aggregate, query string) Aggregate {
	if query == "" {
		return agg
	}

	needle := strings.ToLower(query)
	out := make(Aggregate)
	for date, day := range agg {
		var kept DailySchedule
		for _, slot := range day {
			if slotMatches(slot, needle) {
				kept = append(kept, slot)
			}
		}
		if len(kept) > 0 {
			out[date] = kept
		}
	}
	return out
}

func slotMatches(slot TimeSlot, needle string) bool {
	for _, st := range slot.Students {
		if strings.Contains(strings.ToLower(st.Name), needle) {
			return true
		}
	}
	return false
}
