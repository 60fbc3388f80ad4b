package pms

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"shorestay/internal/domain/calendar"
	"shorestay/internal/domain/coupon"
	"shorestay/internal/domain/shared/money"
)

// envelope wraps every PMS response body.
type envelope struct {
	Status  string          `json:"status"`
	Result  json.RawMessage `json:"result"`
	Message string          `json:"message"`
}

// Listing is the subset of the upstream listing record the storefront needs.
type Listing struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	City           string  `json:"city"`
	Country        string  `json:"country"`
	Currency       string  `json:"currency"`
	PersonCapacity int     `json:"personCapacity"`
	MinNights      int     `json:"minNights"`
	MaxNights      int     `json:"maxNights"`
	PricePerNight  float64 `json:"price"`
	WeeklyDiscount float64 `json:"weeklyDiscount"` // multiplier, e.g. 0.9; 0 means none
	ThumbnailURL   string  `json:"thumbnailUrl"`
}

// calendarDay mirrors the upstream per-date record. Availability arrives as
// a 0/1 flag next to a status string; the status string is authoritative.
type calendarDay struct {
	Date        string   `json:"date"`
	IsAvailable int      `json:"isAvailable"`
	Status      string   `json:"status"`
	Price       *float64 `json:"price"`
	MinimumStay int      `json:"minimumStay"`
	MaximumStay int      `json:"maximumStay"`
}

func (d calendarDay) toDomain() (calendar.Day, error) {
	date, err := time.Parse(calendar.DateFormat, d.Date)
	if err != nil {
		return calendar.Day{}, err
	}
	var price int64
	if d.Price != nil {
		price = money.Round(*d.Price)
	}
	return calendar.Day{
		Date:        date,
		IsAvailable: d.IsAvailable == 1,
		Status:      strings.ToLower(strings.TrimSpace(d.Status)),
		Price:       price,
		MinimumStay: d.MinimumStay,
		MaximumStay: d.MaximumStay,
	}, nil
}

// rawCoupon mirrors the upstream coupon record.
type rawCoupon struct {
	Name                  string  `json:"name"`
	Type                  string  `json:"type"`
	Amount                float64 `json:"amount"`
	IsActive              int     `json:"isActive"`
	IsExpired             int     `json:"isExpired"`
	ValidityDateStart     string  `json:"validityDateStart"`
	ValidityDateEnd       string  `json:"validityDateEnd"`
	CheckInDateStart      string  `json:"checkInDateStart"`
	CheckInDateEnd        string  `json:"checkInDateEnd"`
	ListingMapIDs         []int64 `json:"listingMapIds"`
	LengthOfStayCondition string  `json:"lengthOfStayCondition"`
	LengthOfStayValue     int     `json:"lengthOfStayValue"`
}

func (rc rawCoupon) toDomain() coupon.Coupon {
	c := coupon.Coupon{
		Name:                  rc.Name,
		Type:                  coupon.Type(rc.Type),
		Amount:                rc.Amount,
		IsActive:              rc.IsActive == 1,
		IsExpired:             rc.IsExpired == 1,
		LengthOfStayCondition: coupon.Condition(rc.LengthOfStayCondition),
		LengthOfStayValue:     rc.LengthOfStayValue,
	}
	c.ValidityStart = parseOptionalDate(rc.ValidityDateStart)
	c.ValidityEnd = parseOptionalDate(rc.ValidityDateEnd)
	c.CheckInStart = parseOptionalDate(rc.CheckInDateStart)
	c.CheckInEnd = parseOptionalDate(rc.CheckInDateEnd)
	for _, id := range rc.ListingMapIDs {
		c.ListingIDs = append(c.ListingIDs, strconv.FormatInt(id, 10))
	}
	return c
}

func parseOptionalDate(v string) *time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	t, err := time.Parse(calendar.DateFormat, v)
	if err != nil {
		return nil
	}
	return &t
}

// ReservationRequest carries guest, stay and payment fields for submission.
type ReservationRequest struct {
	ListingID      int64  `json:"listingMapId"`
	ArrivalDate    string `json:"arrivalDate"`
	DepartureDate  string `json:"departureDate"`
	NumberOfGuests int    `json:"numberOfGuests"`
	GuestFirstName string `json:"guestFirstName"`
	GuestLastName  string `json:"guestLastName"`
	GuestEmail     string `json:"guestEmail"`
	Phone          string `json:"phone"`
	TotalPrice     int64  `json:"totalPrice"`
	CouponName     string `json:"couponName,omitempty"`
	PaymentMethod  string `json:"paymentMethod,omitempty"`
	CardToken      string `json:"ccToken,omitempty"`
}

// ReservationResult is the upstream acknowledgement.
type ReservationResult struct {
	ReservationID int64  `json:"reservationId"`
	Status        string `json:"status"`
}
