package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// SubmitInput carries the guest, stay, and payment fields for one
// reservation attempt.
type SubmitInput struct {
	ListingID      string    `json:"listingId"`
	CheckIn        time.Time `json:"checkIn"`
	CheckOut       time.Time `json:"checkOut"`
	Guests         int       `json:"guests"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Phone          string    `json:"phone"`
	TotalPrice     int64     `json:"totalPrice"`
	Currency       string    `json:"currency"`
	CouponName     string    `json:"couponName,omitempty"`
	PaymentMethod  string    `json:"paymentMethod,omitempty"`
	CardToken      string    `json:"cardToken,omitempty"`
	IdempotencyKey string    `json:"-"`
}

// Record is one accepted submission, kept so a repeated Idempotency-Key
// replays the original answer instead of booking twice.
type Record struct {
	Key           string
	ReservationID int64
	ListingID     string
	Payload       []byte
	SubmittedAt   time.Time
}

// Event announces a created reservation to downstream consumers.
type Event struct {
	ReservationID int64     `json:"reservation_id"`
	ListingID     string    `json:"listing_id"`
	CheckIn       string    `json:"check_in"`
	CheckOut      string    `json:"check_out"`
	Guests        int       `json:"guests"`
	TotalPrice    int64     `json:"total_price"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// Gateway submits reservations to the property-management system.
type Gateway interface {
	SubmitReservation(ctx context.Context, in SubmitInput) (int64, error)
}

// Store persists submission records. Optional.
type Store interface {
	Get(ctx context.Context, key string) (Record, bool, error)
	Save(ctx context.Context, rec Record) error
}

// Publisher emits reservation events. Optional.
type Publisher interface {
	PublishReservationCreated(ctx context.Context, event Event, requestID string) error
}

var ErrMissingFields = errors.New("reservation: listing, stay dates and guest contact are required")

// Service coordinates submission: idempotency replay, the upstream call,
// then best-effort bookkeeping. The upstream call is never retried
// automatically; the guest resubmits the form.
type Service struct {
	Gateway   Gateway
	Store     Store
	Publisher Publisher
	Logger    *slog.Logger
}

// Submit places a reservation. The second return value reports whether the
// answer was replayed from a previous submission.
func (s *Service) Submit(ctx context.Context, in SubmitInput, requestID string) (Record, bool, error) {
	if in.ListingID == "" || in.CheckIn.IsZero() || in.CheckOut.IsZero() || in.Email == "" {
		return Record{}, false, ErrMissingFields
	}

	if in.IdempotencyKey != "" && s.Store != nil {
		rec, found, err := s.Store.Get(ctx, in.IdempotencyKey)
		if err != nil {
			s.logWarn("idempotency lookup failed", "key", in.IdempotencyKey, "error", err)
		} else if found {
			return rec, true, nil
		}
	}

	reservationID, err := s.Gateway.SubmitReservation(ctx, in)
	if err != nil {
		return Record{}, false, err
	}

	payload, _ := json.Marshal(map[string]any{"reservationId": reservationID})
	rec := Record{
		Key:           in.IdempotencyKey,
		ReservationID: reservationID,
		ListingID:     in.ListingID,
		Payload:       payload,
		SubmittedAt:   time.Now().UTC(),
	}

	if in.IdempotencyKey != "" && s.Store != nil {
		if err := s.Store.Save(ctx, rec); err != nil {
			s.logWarn("idempotency save failed", "key", in.IdempotencyKey, "error", err)
		}
	}

	if s.Publisher != nil {
		event := Event{
			ReservationID: reservationID,
			ListingID:     in.ListingID,
			CheckIn:       in.CheckIn.UTC().Format("2006-01-02"),
			CheckOut:      in.CheckOut.UTC().Format("2006-01-02"),
			Guests:        in.Guests,
			TotalPrice:    in.TotalPrice,
			Currency:      in.Currency,
			OccurredAt:    time.Now().UTC(),
		}
		if err := s.Publisher.PublishReservationCreated(ctx, event, requestID); err != nil {
			s.logWarn("reservation event publish failed", "reservation_id", reservationID, "error", err)
		}
	}

	return rec, false, nil
}

func (s *Service) logWarn(msg string, args ...any) {
	if s.Logger == nil {
		return
	}
	s.Logger.Warn(msg, args...)
}
