package quote

import (
	"context"
	"errors"
	"log/slog"
	"sort"
	"time"

	"shorestay/internal/domain/calendar"
	"shorestay/internal/domain/coupon"
	"shorestay/internal/domain/pricing"
	"shorestay/internal/domain/shared/money"
	"shorestay/internal/domain/stay"
)

// Selection is the quote request context: the only inputs that can change a
// price. Any change invalidates the previous breakdown.
type Selection struct {
	ListingID string    `json:"listingId"`
	CheckIn   time.Time `json:"checkIn"`
	CheckOut  time.Time `json:"checkOut"`
	Guests    int       `json:"guests"`
}

// ListingInfo is the slice of the catalog record the pricing pipeline needs.
type ListingInfo struct {
	ID                       string  `json:"id"`
	Name                     string  `json:"name"`
	Currency                 string  `json:"currency"`
	PersonCapacity           int     `json:"personCapacity"`
	WeeklyDiscountMultiplier float64 `json:"weeklyDiscountMultiplier,omitempty"`
}

// Ports to the upstream property-management API. Implemented by the PMS
// client; kept narrow so tests can stub them.
type ListingSource interface {
	ListingInfo(ctx context.Context, listingID string) (ListingInfo, error)
}

type CalendarSource interface {
	Calendar(ctx context.Context, listingID string, start, end time.Time) ([]calendar.Day, error)
}

type PriceSource interface {
	PriceDetails(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error)
}

type CouponSource interface {
	Coupons(ctx context.Context) ([]coupon.Coupon, error)
}

// Result is everything the booking widget renders for one selection.
// Validation gates the Book button; the breakdown and discounts feed the
// price display.
type Result struct {
	Selection        Selection          `json:"selection"`
	Listing          ListingInfo        `json:"listing"`
	Validation       stay.Result        `json:"validation"`
	Breakdown        *pricing.Breakdown `json:"breakdown,omitempty"`
	Discounts        coupon.ApplyResult `json:"discounts"`
	FinalTotal       int64              `json:"finalTotal"`
	CouponApplied    string             `json:"couponApplied,omitempty"`
	CouponError      string             `json:"couponError,omitempty"`
	UnavailableDates []string           `json:"unavailableDates"`
}

// Service runs the quote pipeline: calendar, price quote, normalization,
// stay validation, discount application. It owns the sequencing guarantee
// that normalization completes before discounts are applied.
type Service struct {
	Listings  ListingSource
	Calendars CalendarSource
	Prices    PriceSource
	Coupons   CouponSource
	Logger    *slog.Logger
	Now       func() time.Time
}

// Quote prices one selection, optionally with a coupon code.
// Transport failures bubble up; validation and coupon problems come back
// inside the Result as structured reasons.
func (s *Service) Quote(ctx context.Context, sel Selection, couponCode string) (Result, error) {
	return s.QuoteWithProgress(ctx, sel, couponCode, nil)
}

// QuoteWithProgress additionally reports fetched calendar days before the
// price call, letting the orchestrator show a placeholder estimate while
// the authoritative quote is still in flight.
func (s *Service) QuoteWithProgress(ctx context.Context, sel Selection, couponCode string, onCalendar func(days []calendar.Day, currency string)) (Result, error) {
	result := Result{Selection: sel}

	nights := stay.Nights(sel.CheckIn, sel.CheckOut)
	if nights < 1 {
		result.Validation = stay.Result{Reason: stay.ReasonInvalidRange, Nights: nights}
		return result, nil
	}

	listing, err := s.Listings.ListingInfo(ctx, sel.ListingID)
	if err != nil {
		return Result{}, err
	}
	result.Listing = listing
	currency, err := money.NormalizeCurrency(listing.Currency)
	if err != nil {
		currency = "USD"
	}

	// Coupon lookup can overlap the calendar and price calls; discount
	// application still waits for the normalized breakdown below.
	couponCh := make(chan couponLookup, 1)
	if couponCode != "" {
		go func() {
			coupons, err := s.Coupons.Coupons(ctx)
			couponCh <- couponLookup{coupons: coupons, err: err}
		}()
	}

	days, err := s.Calendars.Calendar(ctx, sel.ListingID, sel.CheckIn, sel.CheckOut)
	if err != nil {
		return Result{}, err
	}
	if onCalendar != nil {
		onCalendar(days, currency)
	}

	unavailable := calendar.UnavailableDates(days)
	result.Validation = stay.Validate(sel.CheckIn, sel.CheckOut, days, unavailable)
	for key := range unavailable {
		result.UnavailableDates = append(result.UnavailableDates, key)
	}
	sort.Strings(result.UnavailableDates)

	raw, err := s.Prices.PriceDetails(ctx, sel.ListingID, sel.CheckIn, sel.CheckOut, sel.Guests)
	if err != nil {
		return Result{}, err
	}
	breakdown := pricing.Normalize(raw, nights, currency)
	result.Breakdown = &breakdown

	var applied *coupon.Coupon
	if couponCode != "" {
		lookup := <-couponCh
		if lookup.err != nil {
			return Result{}, lookup.err
		}
		c, err := s.resolveCoupon(lookup.coupons, couponCode, sel, nights)
		if err != nil {
			result.CouponError = err.Error()
		} else {
			applied = &c
			result.CouponApplied = c.Name
		}
	}

	result.Discounts = coupon.ApplyDiscounts(breakdown.BasePrice, nights, listing.WeeklyDiscountMultiplier, applied)
	result.FinalTotal = breakdown.GrandTotal - result.Discounts.WeeklyDiscount - result.Discounts.CouponDiscount
	if result.FinalTotal < 0 {
		result.FinalTotal = 0
	}
	return result, nil
}

func (s *Service) resolveCoupon(coupons []coupon.Coupon, code string, sel Selection, nights int) (coupon.Coupon, error) {
	c, err := coupon.FindByCode(coupons, code)
	if err != nil {
		return coupon.Coupon{}, err
	}
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	candidate := coupon.Stay{ListingID: sel.ListingID, CheckIn: sel.CheckIn, Nights: nights}
	if err := c.Eligible(candidate, now); err != nil {
		return coupon.Coupon{}, err
	}
	return c, nil
}

type couponLookup struct {
	coupons []coupon.Coupon
	err     error
}

var ErrUnknownListing = errors.New("quote: unknown listing")
