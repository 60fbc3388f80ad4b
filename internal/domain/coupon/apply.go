package coupon

import (
	"shorestay/internal/domain/shared/money"
)

// weeklyStayNights is the stay length from which the weekly discount kicks in.
const weeklyStayNights = 7

// ApplyResult itemizes what each discount removed from the rent.
type ApplyResult struct {
	FinalRent      int64 `json:"finalRent"`
	WeeklyDiscount int64 `json:"weeklyDiscountAmount"`
	CouponDiscount int64 `json:"couponDiscountAmount"`
}

// ApplyDiscounts reduces a computed rent by the weekly-stay discount and
// then a coupon, in that fixed order. The coupon, if given, must already
// have passed Eligible for the current stay; this function only prices it.
//
// The coupon discount is clamped to the post-weekly rent so the result can
// never go negative.
func ApplyDiscounts(baseRent int64, nights int, weeklyMultiplier float64, c *Coupon) ApplyResult {
	discountedRent := baseRent
	var weekly int64
	if weeklyMultiplier > 0 && weeklyMultiplier < 1 && nights >= weeklyStayNights {
		discountedRent = money.Round(float64(baseRent) * weeklyMultiplier)
		weekly = baseRent - discountedRent
	}

	var couponDiscount int64
	if c != nil {
		var raw int64
		switch c.Type {
		case TypePercentage:
			raw = money.Round(float64(discountedRent) * c.Amount / 100)
		case TypeAmount:
			raw = money.Round(c.Amount)
		}
		couponDiscount = money.Min(money.ClampNonNegative(raw), discountedRent)
	}

	return ApplyResult{
		FinalRent:      discountedRent - couponDiscount,
		WeeklyDiscount: weekly,
		CouponDiscount: couponDiscount,
	}
}
