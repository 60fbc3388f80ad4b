package pricing

// Component is one named line item of a quote.
type Component struct {
	Name   string  `json:"name"`
	Amount int64   `json:"amount"`
	Rate   float64 `json:"rate,omitempty"` // informational only, never summed
}

// Breakdown is the canonical structured quote every caller consumes.
// GrandTotal comes from upstream and is never recomputed from the parts;
// the reconciliation line guarantees the parts still sum to it exactly.
type Breakdown struct {
	Currency   string      `json:"currency"`
	Nights     int         `json:"nights"`
	BasePrice  int64       `json:"basePrice"`
	Fees       []Component `json:"fees"`
	Taxes      []Component `json:"taxes"`
	TotalFees  int64       `json:"totalFees"`
	TotalTaxes int64       `json:"totalTaxes"`
	GrandTotal int64       `json:"grandTotal"`
}

// ComponentsSum is the sum of everything itemized so far.
func (b Breakdown) ComponentsSum() int64 {
	return b.BasePrice + b.TotalFees + b.TotalTaxes
}

func sumComponents(list []Component) int64 {
	var total int64
	for _, c := range list {
		total += c.Amount
	}
	return total
}
