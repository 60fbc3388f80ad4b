package stay

import (
	"time"

	"shorestay/internal/domain/calendar"
)

// Reason identifies why a candidate range is not bookable. Values double as
// user-facing message keys, so they stay stable.
type Reason string

const (
	ReasonInvalidRange     Reason = "invalid range"
	ReasonUnavailableDates Reason = "unavailable dates in range"
	ReasonBelowMinimumStay Reason = "below minimum stay"
	ReasonAboveMaximumStay Reason = "above maximum stay"
)

// Result is a typed accept/reject decision. MinimumStay and MaximumStay
// carry the violated constraint for messaging.
type Result struct {
	OK          bool   `json:"ok"`
	Reason      Reason `json:"reason,omitempty"`
	Nights      int    `json:"nights"`
	MinimumStay int    `json:"minimumStay,omitempty"`
	MaximumStay int    `json:"maximumStay,omitempty"`
}

// Nights counts whole days between check-in and check-out.
func Nights(checkIn, checkOut time.Time) int {
	in := midnightUTC(checkIn)
	out := midnightUTC(checkOut)
	return int(out.Sub(in) / (24 * time.Hour))
}

// Validate decides whether [checkIn, checkOut) is bookable given fetched
// calendar data. Pure and synchronous; does no I/O.
//
// Every night of the stay must be available, but the checkout date itself
// is exempt: a guest may depart on a day that starts a new blocked period.
// Stay-length constraints come from the check-in date's calendar entry.
func Validate(checkIn, checkOut time.Time, days []calendar.Day, unavailable calendar.DateSet) Result {
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return Result{Reason: ReasonInvalidRange, Nights: nights}
	}

	for i := 0; i < nights; i++ {
		if unavailable.Contains(checkIn.AddDate(0, 0, i)) {
			return Result{Reason: ReasonUnavailableDates, Nights: nights}
		}
	}

	if day, ok := calendar.DayByDate(days, checkIn); ok {
		if day.MinimumStay > 0 && nights < day.MinimumStay {
			return Result{Reason: ReasonBelowMinimumStay, Nights: nights, MinimumStay: day.MinimumStay}
		}
		if day.MaximumStay > 0 && nights > day.MaximumStay {
			return Result{Reason: ReasonAboveMaximumStay, Nights: nights, MaximumStay: day.MaximumStay}
		}
	}

	return Result{OK: true, Nights: nights}
}

func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
