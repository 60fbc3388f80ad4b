package quote_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shorestay/internal/app/quote"
	"shorestay/internal/domain/calendar"
	"shorestay/internal/domain/coupon"
	"shorestay/internal/domain/pricing"
	"shorestay/internal/domain/stay"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func f(v float64) *float64 { return &v }

type stubSources struct {
	listing    quote.ListingInfo
	listingErr error
	days       []calendar.Day
	daysErr    error
	priceFn    func(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error)
	coupons    []coupon.Coupon
	couponsErr error
}

func (s *stubSources) ListingInfo(ctx context.Context, listingID string) (quote.ListingInfo, error) {
	return s.listing, s.listingErr
}

func (s *stubSources) Calendar(ctx context.Context, listingID string, start, end time.Time) ([]calendar.Day, error) {
	return s.days, s.daysErr
}

func (s *stubSources) PriceDetails(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error) {
	return s.priceFn(ctx, listingID, checkIn, checkOut, guests)
}

func (s *stubSources) Coupons(ctx context.Context) ([]coupon.Coupon, error) {
	return s.coupons, s.couponsErr
}

func openDays(from time.Time, n int) []calendar.Day {
	days := make([]calendar.Day, 0, n)
	for i := 0; i < n; i++ {
		days = append(days, calendar.Day{
			Date:        from.AddDate(0, 0, i),
			IsAvailable: true,
			Status:      calendar.StatusAvailable,
			Price:       200,
		})
	}
	return days
}

func standardQuote(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error) {
	return pricing.RawQuote{
		Components: []pricing.RawComponent{
			{Name: "baseRate", Total: f(1000)},
			{Name: "cleaningFee", Total: f(150)},
		},
		TotalPrice: f(1215),
	}, nil
}

func newService(src *stubSources) *quote.Service {
	return &quote.Service{
		Listings:  src,
		Calendars: src,
		Prices:    src,
		Coupons:   src,
		Now:       func() time.Time { return date(2024, 6, 1) },
	}
}

func weekSelection() quote.Selection {
	return quote.Selection{
		ListingID: "12345",
		CheckIn:   date(2024, 6, 10),
		CheckOut:  date(2024, 6, 17),
		Guests:    2,
	}
}

func TestQuoteFullPipeline(t *testing.T) {
	src := &stubSources{
		listing: quote.ListingInfo{ID: "12345", Currency: "USD", WeeklyDiscountMultiplier: 0.9},
		days:    openDays(date(2024, 6, 10), 10),
		priceFn: standardQuote,
		coupons: []coupon.Coupon{{Name: "SUMMER20", Type: coupon.TypePercentage, Amount: 20, IsActive: true}},
	}

	result, err := newService(src).Quote(context.Background(), weekSelection(), "summer20")
	require.NoError(t, err)

	assert.True(t, result.Validation.OK)
	require.NotNil(t, result.Breakdown)
	assert.Equal(t, int64(1000), result.Breakdown.BasePrice)
	assert.Equal(t, int64(1215), result.Breakdown.GrandTotal)
	assert.Equal(t, result.Breakdown.GrandTotal, result.Breakdown.ComponentsSum())

	// weekly first (1000 -> 900), then 20% coupon on the discounted rent
	assert.Equal(t, int64(100), result.Discounts.WeeklyDiscount)
	assert.Equal(t, int64(180), result.Discounts.CouponDiscount)
	assert.Equal(t, int64(720), result.Discounts.FinalRent)
	assert.Equal(t, "SUMMER20", result.CouponApplied)
	assert.Equal(t, int64(1215-100-180), result.FinalTotal)
}

func TestQuoteInvalidRangeShortCircuits(t *testing.T) {
	src := &stubSources{
		priceFn: func(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error) {
			t.Fatal("price must not be fetched for an invalid range")
			return pricing.RawQuote{}, nil
		},
	}
	sel := weekSelection()
	sel.CheckOut = sel.CheckIn // zero nights

	result, err := newService(src).Quote(context.Background(), sel, "")
	require.NoError(t, err)

	assert.False(t, result.Validation.OK)
	assert.Equal(t, stay.ReasonInvalidRange, result.Validation.Reason)
	assert.Nil(t, result.Breakdown)
}

func TestQuoteReportsUnavailableDates(t *testing.T) {
	days := openDays(date(2024, 6, 10), 10)
	days[1].Status = "reserved"
	src := &stubSources{
		listing: quote.ListingInfo{ID: "12345", Currency: "USD"},
		days:    days,
		priceFn: standardQuote,
	}

	result, err := newService(src).Quote(context.Background(), weekSelection(), "")
	require.NoError(t, err)

	assert.False(t, result.Validation.OK)
	assert.Equal(t, stay.ReasonUnavailableDates, result.Validation.Reason)
	assert.Equal(t, []string{"2024-06-11"}, result.UnavailableDates)
	// the breakdown is still produced; validation only gates booking
	assert.NotNil(t, result.Breakdown)
}

func TestQuoteIneligibleCouponIsStructured(t *testing.T) {
	src := &stubSources{
		listing: quote.ListingInfo{ID: "12345", Currency: "USD"},
		days:    openDays(date(2024, 6, 10), 10),
		priceFn: standardQuote,
		coupons: []coupon.Coupon{{Name: "SUMMER20", IsActive: false}},
	}

	result, err := newService(src).Quote(context.Background(), weekSelection(), "SUMMER20")
	require.NoError(t, err)

	assert.Empty(t, result.CouponApplied)
	assert.Contains(t, result.CouponError, "no longer active")
	assert.Equal(t, int64(0), result.Discounts.CouponDiscount)
}

func TestQuoteTransportErrorBubbles(t *testing.T) {
	upstreamDown := errors.New("connection refused")
	src := &stubSources{
		listing: quote.ListingInfo{ID: "12345", Currency: "USD"},
		days:    openDays(date(2024, 6, 10), 10),
		priceFn: func(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error) {
			return pricing.RawQuote{}, upstreamDown
		},
	}

	_, err := newService(src).Quote(context.Background(), weekSelection(), "")
	assert.ErrorIs(t, err, upstreamDown)
}
