package quote

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"shorestay/internal/domain/calendar"
	"shorestay/internal/domain/pricing"
	"shorestay/internal/domain/stay"
)

// State of one booking widget's quote cycle.
type State string

const (
	StateIdle     State = "idle"
	StateFetching State = "fetching"
	StatePriced   State = "priced"
	StateFailed   State = "failed"
)

// Snapshot is the orchestrator's externally visible state. Estimate is the
// pre-quote placeholder; once an authoritative quote has been attempted it
// is gone for good — a failure shows as a failure.
type Snapshot struct {
	State     State              `json:"state"`
	Selection Selection          `json:"selection"`
	Result    *Result            `json:"result,omitempty"`
	Estimate  *pricing.Breakdown `json:"estimate,omitempty"`
	Error     string             `json:"error,omitempty"`
}

// Orchestrator owns the "current quote" slot for one booking widget. Rapid
// date/guest changes are debounced into one upstream call, and a request
// generation counter makes resolution last-write-wins: a slow stale
// response can never overwrite a fresher one. Superseded requests are not
// aborted at the transport level, their results are discarded on arrival.
type Orchestrator struct {
	svc      *Service
	debounce time.Duration
	logger   *slog.Logger

	mu         sync.Mutex
	generation uint64
	timer      *time.Timer
	selection  Selection
	couponCode string
	state      State
	result     *Result
	estimate   *pricing.Breakdown
	errMsg     string
	attempted  bool
}

func NewOrchestrator(svc *Service, debounce time.Duration, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{svc: svc, debounce: debounce, logger: logger, state: StateIdle}
}

// SetSelection registers a date/guest change. The previous breakdown is
// invalidated immediately; the upstream call fires after the debounce
// window unless a newer change supersedes it first. Re-submitting the
// current selection is a no-op while it is being fetched or already
// priced, but after a failure it retries.
func (o *Orchestrator) SetSelection(ctx context.Context, sel Selection) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if (o.state == StateFetching || o.state == StatePriced) && sel == o.selection {
		return
	}
	o.selection = sel
	o.scheduleLocked(ctx)
}

// SetCoupon records a coupon code and re-quotes the current selection. The
// coupon is re-validated against the stay on every refresh, so a stay
// change that invalidates it surfaces as a coupon error, never a silently
// wrong total.
func (o *Orchestrator) SetCoupon(ctx context.Context, code string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.couponCode = code
	if o.state == StateIdle {
		return
	}
	o.scheduleLocked(ctx)
}

func (o *Orchestrator) scheduleLocked(ctx context.Context) {
	// The debounced fetch outlives the request that triggered it; keep the
	// caller's values but not its cancellation.
	ctx = context.WithoutCancel(ctx)
	o.generation++
	gen := o.generation
	o.state = StateFetching
	o.result = nil
	o.errMsg = ""

	if o.timer != nil {
		o.timer.Stop()
	}
	sel := o.selection
	code := o.couponCode
	if o.debounce <= 0 {
		go o.refresh(ctx, gen, sel, code)
		return
	}
	o.timer = time.AfterFunc(o.debounce, func() {
		o.refresh(ctx, gen, sel, code)
	})
}

func (o *Orchestrator) refresh(ctx context.Context, gen uint64, sel Selection, code string) {
	res, err := o.svc.QuoteWithProgress(ctx, sel, code, func(days []calendar.Day, currency string) {
		o.primeEstimate(gen, sel, days, currency)
	})

	o.mu.Lock()
	defer o.mu.Unlock()
	if gen != o.generation {
		// a newer selection started while this request was in flight
		return
	}
	o.attempted = true
	o.estimate = nil
	if err != nil {
		o.state = StateFailed
		o.result = nil
		o.errMsg = "unable to calculate price"
		if o.logger != nil {
			o.logger.Warn("quote refresh failed", "listing_id", sel.ListingID, "error", err)
		}
		return
	}
	o.state = StatePriced
	o.result = &res
}

// primeEstimate publishes a nightly-rate placeholder while the first
// authoritative quote is still in flight.
func (o *Orchestrator) primeEstimate(gen uint64, sel Selection, days []calendar.Day, currency string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.attempted || gen != o.generation {
		return
	}
	est := pricing.Estimate(days, sel.CheckIn, stay.Nights(sel.CheckIn, sel.CheckOut), currency)
	o.estimate = &est
}

// Snapshot returns the current state for rendering.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return Snapshot{
		State:     o.state,
		Selection: o.selection,
		Result:    o.result,
		Estimate:  o.estimate,
		Error:     o.errMsg,
	}
}
