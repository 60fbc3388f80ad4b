package ginserver

import (
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"shorestay/internal/app/quote"
	"shorestay/internal/domain/coupon"
	"shorestay/internal/domain/stay"
)

type CouponHandler struct {
	Coupons quote.CouponSource
	Now     func() time.Time
}

type validateCouponRequest struct {
	Code      string `json:"code" binding:"required"`
	ListingID string `json:"listingId" binding:"required"`
	CheckIn   string `json:"checkIn" binding:"required"`
	CheckOut  string `json:"checkOut" binding:"required"`
}

// Validate checks a coupon code against a candidate stay. Ineligibility is
// a structured answer with the specific reason, not an error: the guest
// needs to know what to change.
func (h CouponHandler) Validate(c *gin.Context) {
	var req validateCouponRequest
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

	coupons, err := h.Coupons.Coupons(c.Request.Context())
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	found, err := coupon.FindByCode(coupons, req.Code)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "reason": err.Error()})
		return
	}
	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	candidate := coupon.Stay{
		ListingID: req.ListingID,
		CheckIn:   checkIn,
		Nights:    stay.Nights(checkIn, checkOut),
	}
	if err := found.Eligible(candidate, now); err != nil {
		c.JSON(http.StatusOK, gin.H{"valid": false, "reason": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"valid":  true,
		"name":   found.Name,
		"type":   found.Type,
		"amount": found.Amount,
	})
}

var _ CouponHTTP = CouponHandler{}
