package pricing

import (
	"strings"

	"shorestay/internal/domain/shared/money"
)

// The upstream price endpoint answers in one of two shapes: a component
// list (current) or a flat field set (legacy). Both decode into RawQuote;
// the shape is resolved once in Normalize and each variant is handled by
// its own pure function.

// RawComponent is one upstream line item. Amounts may appear under either
// "total" or "value" depending on API version.
type RawComponent struct {
	Name  string   `json:"name"`
	Type  string   `json:"type"`
	Total *float64 `json:"total"`
	Value *float64 `json:"value"`
	Rate  *float64 `json:"rate"`
}

// RawQuote is a lenient decode of the upstream price response. Every field
// is optional; missing fields degrade to zero values rather than errors.
type RawQuote struct {
	Components []RawComponent `json:"components"`

	// legacy flat shape
	ListingPrice *float64       `json:"listingPrice"`
	BasePrice    *float64       `json:"basePrice"`
	CleaningFee  *float64       `json:"cleaningFee"`
	OccupancyTax *float64       `json:"occupancyTax"`
	Taxes        []RawComponent `json:"taxes"`
	Fees         []RawComponent `json:"fees"`

	TotalPrice *float64 `json:"totalPrice"`
	Total      *float64 `json:"total"`
}

// reconciliationTolerance is the largest gap (in whole units) between the
// authoritative total and the summed components that is attributed to
// rounding instead of a missing charge.
const reconciliationTolerance = 1

// Normalize converts a raw upstream quote into the canonical breakdown.
// It never fails: malformed or empty input yields a zeroed breakdown with
// whatever total field was present.
func Normalize(raw RawQuote, nights int, currency string) Breakdown {
	if nights < 1 {
		nights = 1
	}
	b := Breakdown{Currency: currency, Nights: nights, GrandTotal: raw.grandTotal()}

	if len(raw.Components) > 0 {
		normalizeComponents(&b, raw.Components)
		reconcile(&b, "Taxes & Fees")
		return b
	}
	normalizeLegacy(&b, raw)
	reconcile(&b, "Taxes")
	return b
}

func (raw RawQuote) grandTotal() int64 {
	if raw.TotalPrice != nil {
		return money.Round(*raw.TotalPrice)
	}
	if raw.Total != nil {
		return money.Round(*raw.Total)
	}
	return 0
}

// normalizeComponents categorizes the component-list shape. First match
// wins, matching case-insensitively on name and type; unknown components
// land in fees so nothing is silently dropped.
func normalizeComponents(b *Breakdown, components []RawComponent) {
	for _, c := range components {
		amount := c.amount()
		name := strings.ToLower(strings.TrimSpace(c.Name))
		kind := strings.ToLower(strings.TrimSpace(c.Type))

		switch {
		case name == "baserate" || name == "rent" || kind == "accommodation":
			b.BasePrice += amount
		case name == "cleaningfee":
			b.Fees = append(b.Fees, Component{Name: "Cleaning fee", Amount: amount, Rate: c.rate()})
		case strings.Contains(name, "occupancy") || strings.Contains(name, "lodging") ||
			strings.Contains(name, "tourism") || kind == "tax":
			b.Taxes = append(b.Taxes, Component{Name: componentLabel(c), Amount: amount, Rate: c.rate()})
		case name == "guestchannelfee" || name == "guestservicefee" || kind == "commissions":
			b.Fees = append(b.Fees, Component{Name: componentLabel(c), Amount: amount, Rate: c.rate()})
		default:
			b.Fees = append(b.Fees, Component{Name: componentLabel(c), Amount: amount, Rate: c.rate()})
		}
	}
	b.TotalFees = sumComponents(b.Fees)
	b.TotalTaxes = sumComponents(b.Taxes)
}

// normalizeLegacy maps the flat field shape onto the same breakdown.
func normalizeLegacy(b *Breakdown, raw RawQuote) {
	switch {
	case raw.ListingPrice != nil:
		b.BasePrice = money.Round(*raw.ListingPrice)
	case raw.BasePrice != nil:
		b.BasePrice = money.Round(*raw.BasePrice)
	}
	if raw.CleaningFee != nil {
		b.Fees = append(b.Fees, Component{Name: "Cleaning fee", Amount: money.Round(*raw.CleaningFee)})
	}
	if raw.OccupancyTax != nil {
		b.Taxes = append(b.Taxes, Component{Name: "Occupancy tax", Amount: money.Round(*raw.OccupancyTax)})
	}
	for _, c := range raw.Fees {
		b.Fees = append(b.Fees, Component{Name: componentLabel(c), Amount: c.amount(), Rate: c.rate()})
	}
	for _, c := range raw.Taxes {
		b.Taxes = append(b.Taxes, Component{Name: componentLabel(c), Amount: c.amount(), Rate: c.rate()})
	}
	b.TotalFees = sumComponents(b.Fees)
	b.TotalTaxes = sumComponents(b.Taxes)
}

// reconcile absorbs any unexplained remainder between the authoritative
// total and the itemized components into a synthetic tax line. The total is
// ground truth, so a gap beyond rounding tolerance means an upstream charge
// was not itemized (implicit occupancy tax is the usual culprit).
func reconcile(b *Breakdown, label string) {
	gap := b.GrandTotal - b.ComponentsSum()
	if gap > reconciliationTolerance {
		b.Taxes = append(b.Taxes, Component{Name: label, Amount: gap})
		b.TotalTaxes += gap
	}
}

func (c RawComponent) amount() int64 {
	if c.Total != nil {
		return money.Round(*c.Total)
	}
	if c.Value != nil {
		return money.Round(*c.Value)
	}
	return 0
}

func (c RawComponent) rate() float64 {
	if c.Rate != nil {
		return *c.Rate
	}
	return 0
}

func componentLabel(c RawComponent) string {
	if name := strings.TrimSpace(c.Name); name != "" {
		return name
	}
	if kind := strings.TrimSpace(c.Type); kind != "" {
		return kind
	}
	return "Other"
}
