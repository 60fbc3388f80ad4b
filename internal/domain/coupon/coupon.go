package coupon

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Type discriminates how a coupon's amount is interpreted.
type Type string

const (
	TypePercentage Type = "percentage"
	TypeAmount     Type = "amount"
)

// Condition constrains the length of the candidate stay.
type Condition string

const (
	MoreThan          Condition = "moreThan"
	MoreThanOrEqualTo Condition = "moreThanOrEqualTo"
	LessThan          Condition = "lessThan"
	LessThanOrEqualTo Condition = "lessThanOrEqualTo"
	Equals            Condition = "equals"
)

// Eligibility failures are distinct so the UI can tell the guest exactly
// what went wrong instead of a generic "coupon rejected".
var (
	ErrInvalidCode     = errors.New("coupon: invalid coupon code")
	ErrInactive        = errors.New("coupon: this coupon is no longer active")
	ErrExpired         = errors.New("coupon: this coupon has expired")
	ErrOutsideValidity = errors.New("coupon: this coupon is not valid today")
	ErrOutsideCheckIn  = errors.New("coupon: this coupon does not cover the selected check-in date")
	ErrWrongListing    = errors.New("coupon: this coupon is not valid for this property")
)

// StayLengthError reports an unmet length-of-stay condition with the
// required night count embedded for messaging.
type StayLengthError struct {
	Condition Condition
	Required  int
}

func (e StayLengthError) Error() string {
	switch e.Condition {
	case MoreThan:
		return fmt.Sprintf("coupon: requires a stay of more than %d nights", e.Required)
	case MoreThanOrEqualTo:
		return fmt.Sprintf("coupon: requires a stay of at least %d nights", e.Required)
	case LessThan:
		return fmt.Sprintf("coupon: requires a stay of fewer than %d nights", e.Required)
	case LessThanOrEqualTo:
		return fmt.Sprintf("coupon: requires a stay of at most %d nights", e.Required)
	default:
		return fmt.Sprintf("coupon: requires a stay of exactly %d nights", e.Required)
	}
}

// Coupon is a discount eligibility record fetched on demand and validated
// client-side against the candidate stay. Never persisted locally; a stay
// change obliges the caller to re-validate.
type Coupon struct {
	Name      string
	Type      Type
	Amount    float64
	IsActive  bool
	IsExpired bool

	ValidityStart *time.Time
	ValidityEnd   *time.Time
	CheckInStart  *time.Time
	CheckInEnd    *time.Time

	ListingIDs []string // empty means any listing

	LengthOfStayCondition Condition // empty means unconditioned
	LengthOfStayValue     int
}

// Stay is the candidate the coupon is checked against.
type Stay struct {
	ListingID string
	CheckIn   time.Time
	Nights    int
}

// MatchesCode reports whether code refers to this coupon, case-insensitively.
func (c Coupon) MatchesCode(code string) bool {
	return strings.EqualFold(strings.TrimSpace(code), c.Name)
}

// Eligible returns nil when the coupon applies to the stay, or the specific
// reason it does not.
func (c Coupon) Eligible(stay Stay, now time.Time) error {
	if !c.IsActive {
		return ErrInactive
	}
	if c.IsExpired {
		return ErrExpired
	}
	if !withinWindow(now, c.ValidityStart, c.ValidityEnd) {
		return ErrOutsideValidity
	}
	if !withinWindow(stay.CheckIn, c.CheckInStart, c.CheckInEnd) {
		return ErrOutsideCheckIn
	}
	if len(c.ListingIDs) > 0 && !containsFold(c.ListingIDs, stay.ListingID) {
		return ErrWrongListing
	}
	if c.LengthOfStayCondition != "" && !c.stayLengthSatisfied(stay.Nights) {
		return StayLengthError{Condition: c.LengthOfStayCondition, Required: c.LengthOfStayValue}
	}
	return nil
}

func (c Coupon) stayLengthSatisfied(nights int) bool {
	switch c.LengthOfStayCondition {
	case MoreThan:
		return nights > c.LengthOfStayValue
	case MoreThanOrEqualTo:
		return nights >= c.LengthOfStayValue
	case LessThan:
		return nights < c.LengthOfStayValue
	case LessThanOrEqualTo:
		return nights <= c.LengthOfStayValue
	case Equals:
		return nights == c.LengthOfStayValue
	default:
		return true
	}
}

// withinWindow checks t against an optional [start, end] window, comparing
// at day granularity so a window ending "today" still matches.
func withinWindow(t time.Time, start, end *time.Time) bool {
	day := t.UTC().Truncate(24 * time.Hour)
	if start != nil && day.Before(start.UTC().Truncate(24*time.Hour)) {
		return false
	}
	if end != nil && day.After(end.UTC().Truncate(24*time.Hour)) {
		return false
	}
	return true
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

// FindByCode locates a coupon by code in an upstream batch. The upstream
// API has no validate endpoint, so lookup and eligibility both happen here.
func FindByCode(coupons []Coupon, code string) (Coupon, error) {
	for _, c := range coupons {
		if c.MatchesCode(code) {
			return c, nil
		}
	}
	return Coupon{}, ErrInvalidCode
}
