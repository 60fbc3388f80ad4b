package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"shorestay/internal/app/reservation"
)

type ReservationHandler struct {
	Service *reservation.Service
}

type createReservationRequest struct {
	ListingID     string `json:"listingId" binding:"required"`
	CheckIn       string `json:"checkIn" binding:"required"`
	CheckOut      string `json:"checkOut" binding:"required"`
	Guests        int    `json:"guests"`
	FirstName     string `json:"firstName" binding:"required"`
	LastName      string `json:"lastName" binding:"required"`
	Email         string `json:"email" binding:"required"`
	Phone         string `json:"phone"`
	TotalPrice    int64  `json:"totalPrice"`
	Currency      string `json:"currency"`
	CouponName    string `json:"couponName"`
	PaymentMethod string `json:"paymentMethod"`
	CardToken     string `json:"cardToken"`
}

func (h ReservationHandler) Create(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, err := parseDateField(req.CheckIn, "checkIn")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkOut, err := parseDateField(req.CheckOut, "checkOut")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	in := reservation.SubmitInput{
		ListingID:      req.ListingID,
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Guests:         req.Guests,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Email:          req.Email,
		Phone:          req.Phone,
		TotalPrice:     req.TotalPrice,
		Currency:       req.Currency,
		CouponName:     req.CouponName,
		PaymentMethod:  req.PaymentMethod,
		CardToken:      req.CardToken,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	}
	rec, replayed, err := h.Service.Submit(c.Request.Context(), in, c.GetString("request_id"))
	if err != nil {
		if errors.Is(err, reservation.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		respondUpstreamError(c, err)
		return
	}
	status := http.StatusCreated
	if replayed {
		status = http.StatusOK
	}
	c.JSON(status, gin.H{"reservationId": rec.ReservationID, "replayed": replayed})
}

var _ ReservationHTTP = ReservationHandler{}
