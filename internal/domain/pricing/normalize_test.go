package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shorestay/internal/domain/pricing"
)

func f(v float64) *float64 { return &v }

func TestNormalizeComponentShapeWithReconciliation(t *testing.T) {
	raw := pricing.RawQuote{
		Components: []pricing.RawComponent{
			{Name: "baseRate", Total: f(1000)},
			{Name: "cleaningFee", Total: f(150)},
		},
		TotalPrice: f(1215),
	}

	b := pricing.Normalize(raw, 5, "USD")

	assert.Equal(t, int64(1000), b.BasePrice)
	require.Len(t, b.Fees, 1)
	assert.Equal(t, "Cleaning fee", b.Fees[0].Name)
	assert.Equal(t, int64(150), b.Fees[0].Amount)
	require.Len(t, b.Taxes, 1)
	assert.Equal(t, "Taxes & Fees", b.Taxes[0].Name)
	assert.Equal(t, int64(65), b.Taxes[0].Amount)
	assert.Equal(t, int64(1215), b.GrandTotal)
	assert.Equal(t, b.GrandTotal, b.ComponentsSum())
}

func TestNormalizeComponentCategorization(t *testing.T) {
	raw := pricing.RawQuote{
		Components: []pricing.RawComponent{
			{Name: "baseRate", Total: f(700)},
			{Name: "rent", Total: f(300)},
			{Type: "accommodation", Name: "extraNight", Total: f(100)},
			{Name: "cleaningFee", Total: f(120)},
			{Name: "cityOccupancyTax", Total: f(44), Rate: f(4.5)},
			{Name: "lodgingTax", Total: f(30)},
			{Name: "tourismLevy", Total: f(10)},
			{Name: "vat", Type: "tax", Total: f(55)},
			{Name: "guestChannelFee", Total: f(80)},
			{Name: "guestServiceFee", Total: f(60)},
			{Name: "resortFee", Type: "commissions", Total: f(25)},
			{Name: "petFee", Total: f(40)}, // unknown, defaults to fees
		},
		TotalPrice: f(1564),
	}

	b := pricing.Normalize(raw, 3, "USD")

	assert.Equal(t, int64(1100), b.BasePrice)

	feeNames := make([]string, 0, len(b.Fees))
	for _, c := range b.Fees {
		feeNames = append(feeNames, c.Name)
	}
	assert.Equal(t, []string{"Cleaning fee", "guestChannelFee", "guestServiceFee", "resortFee", "petFee"}, feeNames)
	assert.Equal(t, int64(325), b.TotalFees)

	taxNames := make([]string, 0, len(b.Taxes))
	for _, c := range b.Taxes {
		taxNames = append(taxNames, c.Name)
	}
	assert.Equal(t, []string{"cityOccupancyTax", "lodgingTax", "tourismLevy", "vat"}, taxNames)
	assert.Equal(t, int64(139), b.TotalTaxes)
	assert.Equal(t, 4.5, b.Taxes[0].Rate)

	// 1100 + 325 + 139 = 1564, gap 0: no synthetic line
	assert.Equal(t, b.GrandTotal, b.ComponentsSum())
}

func TestNormalizeAmountPrefersTotalOverValue(t *testing.T) {
	raw := pricing.RawQuote{
		Components: []pricing.RawComponent{
			{Name: "baseRate", Total: f(500), Value: f(999)},
			{Name: "cleaningFee", Value: f(75.4)},
		},
		TotalPrice: f(575),
	}
	b := pricing.Normalize(raw, 2, "USD")
	assert.Equal(t, int64(500), b.BasePrice)
	require.Len(t, b.Fees, 1)
	assert.Equal(t, int64(75), b.Fees[0].Amount)
}

func TestNormalizeGapWithinToleranceNotReconciled(t *testing.T) {
	raw := pricing.RawQuote{
		Components: []pricing.RawComponent{{Name: "baseRate", Total: f(999)}},
		TotalPrice: f(1000),
	}
	b := pricing.Normalize(raw, 2, "USD")
	assert.Empty(t, b.Taxes)
	assert.Equal(t, int64(1000), b.GrandTotal)
}

func TestNormalizeLegacyShape(t *testing.T) {
	raw := pricing.RawQuote{
		ListingPrice: f(800),
		CleaningFee:  f(100),
		OccupancyTax: f(50),
		TotalPrice:   f(1000),
	}

	b := pricing.Normalize(raw, 4, "EUR")

	assert.Equal(t, int64(800), b.BasePrice)
	require.Len(t, b.Fees, 1)
	assert.Equal(t, "Cleaning fee", b.Fees[0].Name)
	require.Len(t, b.Taxes, 2)
	assert.Equal(t, "Occupancy tax", b.Taxes[0].Name)
	assert.Equal(t, "Taxes", b.Taxes[1].Name)
	assert.Equal(t, int64(50), b.Taxes[1].Amount)
	assert.Equal(t, b.GrandTotal, b.ComponentsSum())
}

func TestNormalizeLegacyShapeWithItemizedArrays(t *testing.T) {
	raw := pricing.RawQuote{
		BasePrice: f(600),
		Fees:      []pricing.RawComponent{{Name: "Linen fee", Total: f(35)}},
		Taxes:     []pricing.RawComponent{{Name: "City tax", Value: f(42)}},
		Total:     f(677),
	}

	b := pricing.Normalize(raw, 3, "USD")

	assert.Equal(t, int64(600), b.BasePrice)
	require.Len(t, b.Fees, 1)
	assert.Equal(t, "Linen fee", b.Fees[0].Name)
	require.Len(t, b.Taxes, 1)
	assert.Equal(t, int64(42), b.Taxes[0].Amount)
	assert.Equal(t, int64(677), b.GrandTotal)
	assert.Equal(t, b.GrandTotal, b.ComponentsSum())
}

func TestNormalizeEmptyResponse(t *testing.T) {
	b := pricing.Normalize(pricing.RawQuote{}, 0, "USD")

	assert.Equal(t, int64(0), b.BasePrice)
	assert.Empty(t, b.Fees)
	assert.Empty(t, b.Taxes)
	assert.Equal(t, int64(0), b.GrandTotal)
	assert.Equal(t, 1, b.Nights) // nights floor at 1
}

func TestNormalizeIsIdempotent(t *testing.T) {
	raw := pricing.RawQuote{
		Components: []pricing.RawComponent{
			{Name: "baseRate", Total: f(1000)},
			{Name: "cleaningFee", Total: f(150)},
		},
		TotalPrice: f(1215),
	}
	first := pricing.Normalize(raw, 5, "USD")
	second := pricing.Normalize(raw, 5, "USD")
	assert.Equal(t, first, second)
}
