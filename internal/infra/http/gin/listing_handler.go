package ginserver

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	gin "github.com/gin-gonic/gin"

	"shorestay/internal/domain/calendar"
	"shorestay/internal/infra/pms"
)

type ListingHandler struct {
	PMS *pms.Client
}

func (h ListingHandler) Catalog(c *gin.Context) {
	listings, err := h.PMS.Listings(c.Request.Context())
	if err != nil {
		respondUpstreamError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": listings})
}

func (h ListingHandler) Calendar(c *gin.Context) {
	listingID := c.Param("id")
	start, err := parseDateQuery(c, "start")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	end, err := parseDateQuery(c, "end")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	days, err := h.PMS.Calendar(c.Request.Context(), listingID, start, end)
	if err != nil {
		respondUpstreamError(c, err)
		return
	}

	unavailable := calendar.UnavailableDates(days)
	keys := make([]string, 0, len(unavailable))
	for key := range unavailable {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	c.JSON(http.StatusOK, gin.H{
		"days":             toCalendarResponse(days),
		"unavailableDates": keys,
	})
}

type calendarDayResponse struct {
	Date        string `json:"date"`
	IsAvailable bool   `json:"isAvailable"`
	Status      string `json:"status"`
	Price       int64  `json:"price,omitempty"`
	MinimumStay int    `json:"minimumStay,omitempty"`
	MaximumStay int    `json:"maximumStay,omitempty"`
}

func toCalendarResponse(days []calendar.Day) []calendarDayResponse {
	out := make([]calendarDayResponse, 0, len(days))
	for _, d := range days {
		out = append(out, calendarDayResponse{
			Date:        calendar.DateKey(d.Date),
			IsAvailable: d.IsAvailable,
			Status:      d.Status,
			Price:       d.Price,
			MinimumStay: d.MinimumStay,
			MaximumStay: d.MaximumStay,
		})
	}
	return out
}

func parseDateQuery(c *gin.Context, name string) (time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, errors.New(name + " is required (YYYY-MM-DD)")
	}
	t, err := time.Parse(calendar.DateFormat, raw)
	if err != nil {
		return time.Time{}, errors.New(name + " must be YYYY-MM-DD")
	}
	return t, nil
}

// statusClientClosedRequest is the conventional code for a caller that went
// away before the answer was ready; it keeps disconnects out of the 502 logs.
const statusClientClosedRequest = 499

// respondUpstreamError maps upstream failures to the wire. Transport and
// HTTP errors become 502: the storefront never invents a price or a
// calendar when the source of truth is unreachable. A cancelled or timed
// out request context is the caller's doing, not the upstream's.
func respondUpstreamError(c *gin.Context, err error) {
	if errors.Is(err, context.Canceled) {
		c.Status(statusClientClosedRequest)
		return
	}
	if errors.Is(err, context.DeadlineExceeded) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "upstream request timed out"})
		return
	}
	var statusErr *pms.StatusError
	if errors.As(err, &statusErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed", "upstreamStatus": statusErr.StatusCode})
		return
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": "upstream request failed"})
}

var _ ListingHTTP = ListingHandler{}
