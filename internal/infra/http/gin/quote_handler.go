package ginserver

import (
	"errors"
	"net/http"
	"time"

	gin "github.com/gin-gonic/gin"

	"shorestay/internal/app/quote"
	"shorestay/internal/domain/calendar"
)

type QuoteHandler struct {
	Service *quote.Service
}

type quoteRequest struct {
	CheckIn    string `json:"checkIn" binding:"required"`
	CheckOut   string `json:"checkOut" binding:"required"`
	Guests     int    `json:"guests"`
	CouponCode string `json:"couponCode"`
}

func (h QuoteHandler) Quote(c *gin.Context) {
	var req quoteRequest
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
	guests := req.Guests
	if guests < 1 {
		guests = 1
	}

	sel := quote.Selection{
		ListingID: c.Param("id"),
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    guests,
	}
	result, err := h.Service.Quote(c.Request.Context(), sel, req.CouponCode)
	if err != nil {
		if errors.Is(err, quote.ErrUnknownListing) {
			c.JSON(http.StatusNotFound, gin.H{"error": "listing not found"})
			return
		}
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func parseDateField(raw, name string) (time.Time, error) {
	t, err := time.Parse(calendar.DateFormat, raw)
	if err != nil {
		return time.Time{}, errors.New(name + " must be YYYY-MM-DD")
	}
	return t, nil
}

var _ QuoteHTTP = QuoteHandler{}
