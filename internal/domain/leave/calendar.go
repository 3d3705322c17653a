package leave

import "time"

const dateLayout = "2006-01-02"

// HolidaySet is an optional set of excluded dates, keyed by "YYYY-MM-DD".
type HolidaySet map[string]bool

// NewHolidaySet builds a HolidaySet from "YYYY-MM-DD" strings, ignoring
// entries that do not parse as dates.
func NewHolidaySet(dates []string) HolidaySet {
	set := make(HolidaySet, len(dates))
	for _, d := range dates {
		if _, err := time.Parse(dateLayout, d); err != nil {
			continue
		}
		set[d] = true
	}
	return set
}

// CountWorkingDays counts weekdays between start and end, inclusive of both
// endpoints, minus any dates in holidays. Deterministic for given inputs.
func CountWorkingDays(start, end time.Time, holidays HolidaySet) (int, error) {
	if end.Before(start) {
		return 0, ErrInvalidRange
	}

	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if holidays[d.Format(dateLayout)] {
			continue
		}
		days++
	}

	return days, nil
}
