package ginserver

import (
	"errors"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"shorestay/internal/app/quote"
)

// SessionHandler exposes the quote orchestrator over HTTP: one session per
// booking widget. Updates are debounced server-side; clients poll the
// snapshot for the current state.
type SessionHandler struct {
	Sessions *quote.Sessions
}

func (h SessionHandler) Create(c *gin.Context) {
	id := h.Sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"sessionId": id})
}

type updateSessionRequest struct {
	ListingID  string  `json:"listingId"`
	CheckIn    string  `json:"checkIn"`
	CheckOut   string  `json:"checkOut"`
	Guests     int     `json:"guests"`
	CouponCode *string `json:"couponCode"`
}

func (h SessionHandler) Update(c *gin.Context) {
	orch, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	var req updateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.CouponCode != nil {
		orch.SetCoupon(c.Request.Context(), *req.CouponCode)
	}
	if req.ListingID != "" {
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
		orch.SetSelection(c.Request.Context(), quote.Selection{
			ListingID: req.ListingID,
			CheckIn:   checkIn,
			CheckOut:  checkOut,
			Guests:    guests,
		})
	}
	c.JSON(http.StatusOK, orch.Snapshot())
}

func (h SessionHandler) Get(c *gin.Context) {
	orch, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, orch.Snapshot())
}

func respondSessionError(c *gin.Context, err error) {
	if errors.Is(err, quote.ErrSessionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

var _ SessionHTTP = SessionHandler{}
