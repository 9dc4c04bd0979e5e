package schedule

import "time"

const DefaultSlotGranularity = 60 * time.Minute

// FreeSlots walks every applicable working window for day in steps of
// granularity and returns the candidate slots that do not overlap any busy
// interval. A candidate is only emitted while its end stays within the
// window's closing time. Busy intervals are expected to carry both existing
// bookings and applicable blocks; holiday short-circuiting is the caller's
// concern.
func FreeSlots(day time.Time, granularity time.Duration, windows []WorkingWindow, busy []Interval) []Interval {
	if granularity <= 0 {
		granularity = DefaultSlotGranularity
	}

	weekday := WeekdayFromTime(day)
	slots := make([]Interval, 0)

	for _, w := range windows {
		if !w.AppliesOn(weekday) {
			continue
		}

		opens := w.OpensAt().On(day, day.Location())
		closes := w.ClosesAt().On(day, day.Location())

		for cursor := opens; !cursor.Add(granularity).After(closes); cursor = cursor.Add(granularity) {
			candidate := Interval{start: cursor, end: cursor.Add(granularity)}
			if overlapsAny(candidate, busy) {
				continue
			}
			slots = append(slots, candidate)
		}
	}

	return slots
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
