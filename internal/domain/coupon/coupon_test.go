package coupon_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shorestay/internal/domain/coupon"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func activeCoupon() coupon.Coupon {
	return coupon.Coupon{
		Name:     "SUMMER20",
		Type:     coupon.TypePercentage,
		Amount:   20,
		IsActive: true,
	}
}

func candidateStay() coupon.Stay {
	return coupon.Stay{ListingID: "12345", CheckIn: date(2024, 6, 10), Nights: 5}
}

func TestEligibleBaseline(t *testing.T) {
	c := activeCoupon()
	assert.NoError(t, c.Eligible(candidateStay(), date(2024, 6, 1)))
}

func TestEligibleInactive(t *testing.T) {
	c := activeCoupon()
	c.IsActive = false
	assert.ErrorIs(t, c.Eligible(candidateStay(), date(2024, 6, 1)), coupon.ErrInactive)
}

func TestEligibleExpired(t *testing.T) {
	c := activeCoupon()
	c.IsExpired = true
	assert.ErrorIs(t, c.Eligible(candidateStay(), date(2024, 6, 1)), coupon.ErrExpired)
}

func TestEligibleValidityWindow(t *testing.T) {
	c := activeCoupon()
	c.ValidityStart = ptr(date(2024, 5, 1))
	c.ValidityEnd = ptr(date(2024, 5, 31))

	assert.ErrorIs(t, c.Eligible(candidateStay(), date(2024, 6, 1)), coupon.ErrOutsideValidity)
	assert.NoError(t, c.Eligible(candidateStay(), date(2024, 5, 31))) // inclusive end
}

func TestEligibleCheckInWindow(t *testing.T) {
	c := activeCoupon()
	c.CheckInStart = ptr(date(2024, 7, 1))
	c.CheckInEnd = ptr(date(2024, 8, 31))

	assert.ErrorIs(t, c.Eligible(candidateStay(), date(2024, 6, 1)), coupon.ErrOutsideCheckIn)

	stay := candidateStay()
	stay.CheckIn = date(2024, 7, 15)
	assert.NoError(t, c.Eligible(stay, date(2024, 6, 1)))
}

func TestEligibleListingScope(t *testing.T) {
	c := activeCoupon()
	c.ListingIDs = []string{"99999"}
	assert.ErrorIs(t, c.Eligible(candidateStay(), date(2024, 6, 1)), coupon.ErrWrongListing)

	c.ListingIDs = []string{"99999", "12345"}
	assert.NoError(t, c.Eligible(candidateStay(), date(2024, 6, 1)))
}

func TestEligibleStayLengthConditions(t *testing.T) {
	cases := []struct {
		condition coupon.Condition
		value     int
		nights    int
		ok        bool
	}{
		{coupon.MoreThan, 5, 5, false},
		{coupon.MoreThan, 5, 6, true},
		{coupon.MoreThanOrEqualTo, 5, 5, true},
		{coupon.MoreThanOrEqualTo, 5, 4, false},
		{coupon.LessThan, 5, 5, false},
		{coupon.LessThan, 5, 4, true},
		{coupon.LessThanOrEqualTo, 5, 5, true},
		{coupon.LessThanOrEqualTo, 5, 6, false},
		{coupon.Equals, 5, 5, true},
		{coupon.Equals, 5, 6, false},
	}
	for _, tc := range cases {
		c := activeCoupon()
		c.LengthOfStayCondition = tc.condition
		c.LengthOfStayValue = tc.value
		stay := candidateStay()
		stay.Nights = tc.nights

		err := c.Eligible(stay, date(2024, 6, 1))
		if tc.ok {
			assert.NoError(t, err, "%s %d with %d nights", tc.condition, tc.value, tc.nights)
			continue
		}
		require.Error(t, err)
		var lengthErr coupon.StayLengthError
		require.ErrorAs(t, err, &lengthErr)
		assert.Equal(t, tc.value, lengthErr.Required)
		assert.Contains(t, err.Error(), "5", "required night count must be in the message")
	}
}

func TestFindByCodeCaseInsensitive(t *testing.T) {
	coupons := []coupon.Coupon{activeCoupon()}

	found, err := coupon.FindByCode(coupons, "summer20")
	require.NoError(t, err)
	assert.Equal(t, "SUMMER20", found.Name)

	_, err = coupon.FindByCode(coupons, "NOPE")
	assert.ErrorIs(t, err, coupon.ErrInvalidCode)
}
