package pricing

import (
	"time"

	"shorestay/internal/domain/calendar"
)

// Estimate builds a display-only placeholder from nightly calendar rates,
// shown before the first authoritative quote returns. Once a quote has been
// attempted it must never stand in for one: a failed quote shows a failure
// state, not this estimate.
func Estimate(days []calendar.Day, checkIn time.Time, nights int, currency string) Breakdown {
	if nights < 1 {
		nights = 1
	}
	var rent int64
	for i := 0; i < nights; i++ {
		day, ok := calendar.DayByDate(days, checkIn.AddDate(0, 0, i))
		if !ok {
			continue
		}
		rent += day.Price
	}
	return Breakdown{
		Currency:   currency,
		Nights:     nights,
		BasePrice:  rent,
		GrandTotal: rent,
	}
}
