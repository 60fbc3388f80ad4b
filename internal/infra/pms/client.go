package pms

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"golang.org/x/time/rate"

	"shorestay/internal/domain/calendar"
	"shorestay/internal/domain/coupon"
	"shorestay/internal/domain/pricing"
)

// StatusError is a typed transport failure for non-2xx upstream answers.
// Callers surface it as "unable to calculate" rather than guessing a price.
type StatusError struct {
	StatusCode int
	Snippet    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("pms: upstream returned status %d: %s", e.StatusCode, e.Snippet)
}

// Client talks to the third-party property-management API. Every request
// carries the bearer credential; the limiter keeps the storefront inside
// the upstream rate budget. No retries: a failed call surfaces to the user.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	Token   string
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

func NewClient(baseURL, token string, timeout time.Duration, rps float64, logger *slog.Logger) (*Client, error) {
	if token == "" {
		return nil, errors.New("pms: api token is required")
	}
	if rps <= 0 {
		rps = 10
	}
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		BaseURL: baseURL,
		Token:   token,
		Limiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
		Logger:  logger,
	}, nil
}

// Listings fetches the catalog.
func (c *Client) Listings(ctx context.Context) ([]Listing, error) {
	var listings []Listing
	if err := c.get(ctx, "/listings", nil, &listings); err != nil {
		return nil, err
	}
	return listings, nil
}

// Calendar fetches day-by-day availability for a listing and adapts it into
// domain calendar days, ascending by date. Days that fail to parse are
// skipped; availability truth is never cached locally.
func (c *Client) Calendar(ctx context.Context, listingID string, start, end time.Time) ([]calendar.Day, error) {
	query := url.Values{}
	query.Set("startDate", start.UTC().Format(calendar.DateFormat))
	query.Set("endDate", end.UTC().Format(calendar.DateFormat))
	query.Set("includeResources", "1")

	var raw []calendarDay
	if err := c.get(ctx, "/listings/"+url.PathEscape(listingID)+"/calendar", query, &raw); err != nil {
		return nil, err
	}

	days := make([]calendar.Day, 0, len(raw))
	for _, rd := range raw {
		day, err := rd.toDomain()
		if err != nil {
			c.logWarn("calendar day skipped", "listing_id", listingID, "date", rd.Date, "error", err)
			continue
		}
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date) })
	return days, nil
}

// PriceDetails requests a quote for a stay. The response shape varies by
// API version; it is decoded leniently and normalized by the caller.
func (c *Client) PriceDetails(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error) {
	body := map[string]any{
		"startingDate":   checkIn.UTC().Format(calendar.DateFormat),
		"endingDate":     checkOut.UTC().Format(calendar.DateFormat),
		"numberOfGuests": guests,
		"version":        2,
	}
	var raw pricing.RawQuote
	if err := c.post(ctx, "/listings/"+url.PathEscape(listingID)+"/calendar/priceDetails", nil, body, &raw); err != nil {
		return pricing.RawQuote{}, err
	}
	return raw, nil
}

// Coupons fetches all coupon records. The upstream API has no validate
// endpoint; eligibility is computed locally against the candidate stay.
func (c *Client) Coupons(ctx context.Context) ([]coupon.Coupon, error) {
	var raw []rawCoupon
	if err := c.get(ctx, "/coupons", nil, &raw); err != nil {
		return nil, err
	}
	coupons := make([]coupon.Coupon, 0, len(raw))
	for _, rc := range raw {
		coupons = append(coupons, rc.toDomain())
	}
	return coupons, nil
}

// CreateReservation submits a reservation, asking upstream to validate the
// payment method in the same call.
func (c *Client) CreateReservation(ctx context.Context, req ReservationRequest) (ReservationResult, error) {
	query := url.Values{}
	query.Set("validatePaymentMethod", "1")
	var result ReservationResult
	if err := c.post(ctx, "/reservations", query, req, &result); err != nil {
		return ReservationResult{}, err
	}
	return result, nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, query url.Values, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	return c.do(ctx, http.MethodPost, path, query, payload, out)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte, out any) error {
	if c == nil || c.HTTP == nil {
		return errors.New("pms: http client not configured")
	}
	if c.Limiter != nil {
		if err := c.Limiter.Wait(ctx); err != nil {
			return err
		}
	}

	endpoint := c.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	request, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return err
	}
	request.Header.Set("Authorization", "Bearer "+c.Token)
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(request)
	if err != nil {
		c.logWarn("pms request failed", "method", method, "path", path, "error", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		statusErr := &StatusError{StatusCode: resp.StatusCode, Snippet: string(snippet)}
		c.logWarn("pms returned error", "method", method, "path", path, "status", resp.StatusCode)
		return statusErr
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("pms: decode response: %w", err)
	}
	if out == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("pms: decode result: %w", err)
	}
	return nil
}

func (c *Client) logWarn(msg string, args ...any) {
	if c.Logger == nil {
		return
	}
	c.Logger.Warn(msg, args...)
}
