package calendar

import (
	"time"
)

// StatusAvailable is the only upstream status that means a date is bookable.
// Everything else (reserved, blocked, pending and whatever the channel
// manager invents next) counts as unavailable.
const StatusAvailable = "available"

// DateFormat is the day-granularity key used throughout the booking core.
const DateFormat = "2006-01-02"

// Day is one date's availability snapshot for a listing. Fetched fresh per
// quote cycle, never persisted.
type Day struct {
	Date        time.Time
	IsAvailable bool
	Status      string
	Price       int64 // nightly rate in listing currency, 0 when absent
	MinimumStay int   // applies when this date is the check-in date
	MaximumStay int   // 0 means unbounded
}

// DateKey formats a time as the canonical day key, dropping any time part.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateFormat)
}

// DateSet is a membership set of day keys.
type DateSet map[string]struct{}

func (s DateSet) Contains(t time.Time) bool {
	_, ok := s[DateKey(t)]
	return ok
}

// UnavailableDates derives the set of dates that cannot be booked. A date is
// unavailable whenever its status is anything other than "available".
func UnavailableDates(days []Day) DateSet {
	set := make(DateSet)
	for _, d := range days {
		if d.Status != StatusAvailable {
			set[DateKey(d.Date)] = struct{}{}
		}
	}
	return set
}

// DayByDate looks up the entry for a given date. Callers treat a missing
// date as available by default.
func DayByDate(days []Day, t time.Time) (Day, bool) {
	key := DateKey(t)
	for _, d := range days {
		if DateKey(d.Date) == key {
			return d, true
		}
	}
	return Day{}, false
}
