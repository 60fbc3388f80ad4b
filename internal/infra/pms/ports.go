package pms

import (
	"context"
	"strconv"

	"shorestay/internal/app/quote"
	"shorestay/internal/app/reservation"
	"shorestay/internal/domain/calendar"
)

// Adapters binding the client to the application-layer ports.

// ListingInfo resolves one listing from the catalog. The upstream API only
// exposes the full list, so this filters client-side.
func (c *Client) ListingInfo(ctx context.Context, listingID string) (quote.ListingInfo, error) {
	listings, err := c.Listings(ctx)
	if err != nil {
		return quote.ListingInfo{}, err
	}
	for _, l := range listings {
		if strconv.FormatInt(l.ID, 10) == listingID {
			return quote.ListingInfo{
				ID:                       listingID,
				Name:                     l.Name,
				Currency:                 l.Currency,
				PersonCapacity:           l.PersonCapacity,
				WeeklyDiscountMultiplier: l.WeeklyDiscount,
			}, nil
		}
	}
	return quote.ListingInfo{}, quote.ErrUnknownListing
}

// SubmitReservation maps the application submission onto the upstream
// reservation call, validating the payment method in the same request.
func (c *Client) SubmitReservation(ctx context.Context, in reservation.SubmitInput) (int64, error) {
	listingID, err := strconv.ParseInt(in.ListingID, 10, 64)
	if err != nil {
		return 0, err
	}
	result, err := c.CreateReservation(ctx, ReservationRequest{
		ListingID:      listingID,
		ArrivalDate:    in.CheckIn.UTC().Format(calendar.DateFormat),
		DepartureDate:  in.CheckOut.UTC().Format(calendar.DateFormat),
		NumberOfGuests: in.Guests,
		GuestFirstName: in.FirstName,
		GuestLastName:  in.LastName,
		GuestEmail:     in.Email,
		Phone:          in.Phone,
		TotalPrice:     in.TotalPrice,
		CouponName:     in.CouponName,
		PaymentMethod:  in.PaymentMethod,
		CardToken:      in.CardToken,
	})
	if err != nil {
		return 0, err
	}
	return result.ReservationID, nil
}

var (
	_ quote.ListingSource  = (*Client)(nil)
	_ quote.CalendarSource = (*Client)(nil)
	_ quote.PriceSource    = (*Client)(nil)
	_ quote.CouponSource   = (*Client)(nil)
	_ reservation.Gateway  = (*Client)(nil)
)
