package utils

import "time"

// DateRange is an inclusive stay interval as stored on a booking.
type DateRange struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
}

func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// HasOverlap reports whether the candidate stay shares at least one calendar
// day with any of the existing ranges. Every boundary is widened to whole-day
// granularity first, so two bookings touching the same date conflict
// regardless of time-of-day. A candidate that fully contains an existing
// range also conflicts.
func HasOverlap(startDate, endDate time.Time, ranges []DateRange) bool {
	candidateStart := StartOfDay(startDate)
	candidateEnd := EndOfDay(endDate)

	for _, r := range ranges {
		rangeStart := StartOfDay(r.StartDate)
		rangeEnd := EndOfDay(r.EndDate)

		if withinInterval(candidateStart, rangeStart, rangeEnd) ||
			withinInterval(candidateEnd, rangeStart, rangeEnd) ||
			(candidateStart.Before(rangeStart) && candidateEnd.After(rangeEnd)) {
			return true
		}
	}

	return false
}

func withinInterval(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
