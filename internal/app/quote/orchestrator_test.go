package quote_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shorestay/internal/app/quote"
	"shorestay/internal/domain/pricing"
)

func selectionWithGuests(guests int) quote.Selection {
	return quote.Selection{
		ListingID: "12345",
		CheckIn:   date(2024, 6, 10),
		CheckOut:  date(2024, 6, 17),
		Guests:    guests,
	}
}

func TestOrchestratorStaleResponseDiscarded(t *testing.T) {
	gates := map[int]chan struct{}{
		1: make(chan struct{}),
		2: make(chan struct{}),
	}
	src := &stubSources{
		listing: quote.ListingInfo{ID: "12345", Currency: "USD"},
		days:    openDays(date(2024, 6, 10), 10),
		priceFn: func(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error) {
			<-gates[guests]
			total := float64(guests * 100)
			return pricing.RawQuote{
				Components: []pricing.RawComponent{{Name: "baseRate", Total: f(total)}},
				TotalPrice: f(total),
			}, nil
		},
	}
	orch := quote.NewOrchestrator(newService(src), 0, nil)

	orch.SetSelection(context.Background(), selectionWithGuests(1))
	orch.SetSelection(context.Background(), selectionWithGuests(2))

	// the newer request resolves first
	close(gates[2])
	require.Eventually(t, func() bool {
		return orch.Snapshot().State == quote.StatePriced
	}, time.Second, 5*time.Millisecond)

	// the older, slower response arrives afterwards and must be discarded
	close(gates[1])
	time.Sleep(50 * time.Millisecond)

	snap := orch.Snapshot()
	assert.Equal(t, quote.StatePriced, snap.State)
	require.NotNil(t, snap.Result)
	require.NotNil(t, snap.Result.Breakdown)
	assert.Equal(t, int64(200), snap.Result.Breakdown.GrandTotal, "stale response must not overwrite the fresh one")
	assert.Equal(t, 2, snap.Result.Selection.Guests)
}

func TestOrchestratorDebounceCoalescesRapidChanges(t *testing.T) {
	var calls atomic.Int32
	src := &stubSources{
		listing: quote.ListingInfo{ID: "12345", Currency: "USD"},
		days:    openDays(date(2024, 6, 10), 10),
		priceFn: func(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error) {
			calls.Add(1)
			return pricing.RawQuote{TotalPrice: f(float64(guests * 100))}, nil
		},
	}
	orch := quote.NewOrchestrator(newService(src), 40*time.Millisecond, nil)

	orch.SetSelection(context.Background(), selectionWithGuests(1))
	orch.SetSelection(context.Background(), selectionWithGuests(2))
	orch.SetSelection(context.Background(), selectionWithGuests(3))

	require.Eventually(t, func() bool {
		return orch.Snapshot().State == quote.StatePriced
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int32(1), calls.Load(), "rapid changes must coalesce into one upstream call")
	assert.Equal(t, 3, orch.Snapshot().Result.Selection.Guests)
}

func TestOrchestratorFailureClearsPrice(t *testing.T) {
	var fail atomic.Bool
	src := &stubSources{
		listing: quote.ListingInfo{ID: "12345", Currency: "USD"},
		days:    openDays(date(2024, 6, 10), 20),
		priceFn: func(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error) {
			if fail.Load() {
				return pricing.RawQuote{}, errors.New("upstream down")
			}
			return pricing.RawQuote{TotalPrice: f(500)}, nil
		},
	}
	orch := quote.NewOrchestrator(newService(src), 0, nil)

	orch.SetSelection(context.Background(), selectionWithGuests(2))
	require.Eventually(t, func() bool {
		return orch.Snapshot().State == quote.StatePriced
	}, time.Second, 5*time.Millisecond)

	fail.Store(true)
	orch.SetSelection(context.Background(), selectionWithGuests(3))
	require.Eventually(t, func() bool {
		return orch.Snapshot().State == quote.StateFailed
	}, time.Second, 5*time.Millisecond)

	snap := orch.Snapshot()
	assert.Nil(t, snap.Result, "a failed quote must never keep showing the previous total")
	assert.Nil(t, snap.Estimate, "local estimation is only a pre-quote placeholder")
	assert.Equal(t, "unable to calculate price", snap.Error)
}

func TestOrchestratorRetriesSameSelectionAfterFailure(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	src := &stubSources{
		listing: quote.ListingInfo{ID: "12345", Currency: "USD"},
		days:    openDays(date(2024, 6, 10), 20),
		priceFn: func(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error) {
			if fail.Load() {
				return pricing.RawQuote{}, errors.New("upstream down")
			}
			return pricing.RawQuote{TotalPrice: f(500)}, nil
		},
	}
	orch := quote.NewOrchestrator(newService(src), 0, nil)

	sel := selectionWithGuests(2)
	orch.SetSelection(context.Background(), sel)
	require.Eventually(t, func() bool {
		return orch.Snapshot().State == quote.StateFailed
	}, time.Second, 5*time.Millisecond)

	// the upstream recovers and the user re-triggers the identical selection
	fail.Store(false)
	orch.SetSelection(context.Background(), sel)
	require.Eventually(t, func() bool {
		return orch.Snapshot().State == quote.StatePriced
	}, time.Second, 5*time.Millisecond)

	snap := orch.Snapshot()
	require.NotNil(t, snap.Result)
	assert.Equal(t, int64(500), snap.Result.Breakdown.GrandTotal)
	assert.Empty(t, snap.Error)
}

func TestOrchestratorEstimateShownOnlyBeforeFirstQuote(t *testing.T) {
	gate := make(chan struct{})
	src := &stubSources{
		listing: quote.ListingInfo{ID: "12345", Currency: "USD"},
		days:    openDays(date(2024, 6, 10), 10), // nightly 200
		priceFn: func(ctx context.Context, listingID string, checkIn, checkOut time.Time, guests int) (pricing.RawQuote, error) {
			<-gate
			return pricing.RawQuote{TotalPrice: f(1500)}, nil
		},
	}
	orch := quote.NewOrchestrator(newService(src), 0, nil)
	orch.SetSelection(context.Background(), selectionWithGuests(2))

	// while the first quote is in flight the nightly-rate estimate shows
	require.Eventually(t, func() bool {
		return orch.Snapshot().Estimate != nil
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int64(7*200), orch.Snapshot().Estimate.GrandTotal)
	assert.Equal(t, "USD", orch.Snapshot().Estimate.Currency, "placeholder must carry the listing currency")
	assert.Equal(t, quote.StateFetching, orch.Snapshot().State)

	close(gate)
	require.Eventually(t, func() bool {
		return orch.Snapshot().State == quote.StatePriced
	}, time.Second, 5*time.Millisecond)
	assert.Nil(t, orch.Snapshot().Estimate)
}

func TestSessionsLifecycle(t *testing.T) {
	sessions := quote.NewSessions(newService(&stubSources{}), 0, time.Minute)

	id := sessions.Create()
	orch, err := sessions.Get(id)
	require.NoError(t, err)
	assert.Equal(t, quote.StateIdle, orch.Snapshot().State)

	_, err = sessions.Get("missing")
	assert.ErrorIs(t, err, quote.ErrSessionNotFound)

	assert.Zero(t, sessions.Prune(), "fresh sessions must survive pruning")
}
