package fiscal_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/condorsoft/facturador-api/pkg/fiscal"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rateMap map[int]decimal.Decimal

func (m rateMap) AliquotRate(id int) (decimal.Decimal, bool) {
	r, ok := m[id]
	return r, ok
}

var testRates = rateMap{
	3: decimal.Zero,
	4: decimal.RequireFromString("10.5"),
	5: decimal.NewFromInt(21),
	6: decimal.NewFromInt(27),
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCompute_SingleAliquot(t *testing.T) {
	items := []fiscal.Item{
		{Description: "Servicio", Quantity: dec("1"), UnitPrice: dec("100"), AliquotID: 5},
	}

	totals, details, err := fiscal.Compute(items, nil, testRates)
	require.NoError(t, err)

	assert.True(t, totals.Net.Equal(dec("100")), "net = %s", totals.Net)
	assert.True(t, totals.Iva.Equal(dec("21")), "iva = %s", totals.Iva)
	assert.True(t, totals.Total.Equal(dec("121")), "total = %s", totals.Total)

	require.Len(t, details, 1)
	assert.Equal(t, 5, details[0].AliquotID)
	assert.True(t, details[0].NetAmount.Equal(dec("100")))
	assert.True(t, details[0].TotalAmount.Equal(dec("21")))
}

func TestCompute_UntaxedAndExemptRouting(t *testing.T) {
	items := []fiscal.Item{
		{Quantity: dec("1"), UnitPrice: dec("50"), AliquotID: fiscal.AliquotUntaxed},
		{Quantity: dec("1"), UnitPrice: dec("30"), AliquotID: fiscal.AliquotExempt},
		{Quantity: dec("1"), UnitPrice: dec("100"), AliquotID: 5},
	}

	totals, details, err := fiscal.Compute(items, nil, testRates)
	require.NoError(t, err)

	assert.True(t, totals.Untaxed.Equal(dec("50")))
	assert.True(t, totals.Exempt.Equal(dec("30")))
	assert.True(t, totals.Net.Equal(dec("100")))
	assert.True(t, totals.Total.Equal(dec("201")))

	// Reserved ids never produce an IVA detail row
	require.Len(t, details, 1)
	assert.Equal(t, 5, details[0].AliquotID)
}

func TestCompute_UnknownAliquotFailsClosed(t *testing.T) {
	items := []fiscal.Item{
		{Quantity: dec("1"), UnitPrice: dec("10"), AliquotID: 42},
	}

	_, _, err := fiscal.Compute(items, nil, testRates)
	require.Error(t, err)

	var unknownErr *fiscal.UnknownAliquotError
	require.True(t, errors.As(err, &unknownErr))
	assert.Equal(t, 42, unknownErr.AliquotID)
}

func TestCompute_RoundsAtAggregationOnly(t *testing.T) {
	// Per-line rounding would give 0.01 + 0.01 = 0.02; the engine must
	// sum first and round once.
	items := []fiscal.Item{
		{Quantity: dec("1"), UnitPrice: dec("0.005"), AliquotID: 5},
		{Quantity: dec("1"), UnitPrice: dec("0.005"), AliquotID: 5},
	}

	totals, _, err := fiscal.Compute(items, nil, testRates)
	require.NoError(t, err)
	assert.True(t, totals.Net.Equal(dec("0.01")), "net = %s", totals.Net)
}

func TestCompute_OrderIndependent(t *testing.T) {
	items := []fiscal.Item{
		{Quantity: dec("3"), UnitPrice: dec("10.33"), AliquotID: 6},
		{Quantity: dec("1"), UnitPrice: dec("99.99"), AliquotID: 4},
		{Quantity: dec("2"), UnitPrice: dec("7.77"), AliquotID: 5},
		{Quantity: dec("5"), UnitPrice: dec("1.01"), AliquotID: 5},
	}
	reversed := make([]fiscal.Item, len(items))
	for i, it := range items {
		reversed[len(items)-1-i] = it
	}

	totalsA, detailsA, err := fiscal.Compute(items, nil, testRates)
	require.NoError(t, err)
	totalsB, detailsB, err := fiscal.Compute(reversed, nil, testRates)
	require.NoError(t, err)

	assert.True(t, totalsA.Total.Equal(totalsB.Total))
	require.Equal(t, len(detailsA), len(detailsB))
	for i := range detailsA {
		assert.Equal(t, detailsA[i].AliquotID, detailsB[i].AliquotID)
		assert.True(t, detailsA[i].TotalAmount.Equal(detailsB[i].TotalAmount))
	}
}

func TestCompute_TotalAlwaysReconciles(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	aliquots := []int{3, 4, 5, 6, fiscal.AliquotExempt, fiscal.AliquotUntaxed}

	for i := 0; i < 200; i++ {
		n := 1 + rng.Intn(12)
		items := make([]fiscal.Item, 0, n)
		for j := 0; j < n; j++ {
			items = append(items, fiscal.Item{
				Quantity:        decimal.NewFromInt(int64(1 + rng.Intn(9))),
				UnitPrice:       decimal.NewFromInt(int64(rng.Intn(100000))).Div(dec("100")),
				BonusPercentage: decimal.NewFromInt(int64(rng.Intn(101))),
				AliquotID:       aliquots[rng.Intn(len(aliquots))],
			})
		}

		var taxes []fiscal.TaxLine
		if rng.Intn(2) == 0 {
			taxes = append(taxes, fiscal.TaxLine{
				NetAmount: decimal.NewFromInt(int64(rng.Intn(10000))).Div(dec("100")),
				Rate:      dec("3.5"),
			})
		}

		totals, details, err := fiscal.Compute(items, taxes, testRates)
		require.NoError(t, err)

		sum := totals.Net.Add(totals.Untaxed).Add(totals.Exempt).Add(totals.Iva).Add(totals.Tax)
		assert.True(t, totals.Total.Equal(sum), "iteration %d: total %s != sum %s", i, totals.Total, sum)

		ivaSum := decimal.Zero
		for _, d := range details {
			ivaSum = ivaSum.Add(d.TotalAmount)
		}
		assert.True(t, totals.Iva.Equal(ivaSum), "iteration %d: iva %s != detail sum %s", i, totals.Iva, ivaSum)

		// Everything that leaves the engine is a 2-decimal amount
		assert.True(t, totals.Total.Exponent() >= -2)
		assert.True(t, totals.Net.Exponent() >= -2)
	}
}

func TestItem_DisplayPricing(t *testing.T) {
	it := fiscal.Item{
		Quantity:        dec("2"),
		UnitPrice:       dec("100"),
		IvaAmount:       dec("21"),
		BonusPercentage: dec("10"),
	}

	assert.True(t, it.UnitPriceWithIva().Equal(dec("121")))
	// 2 * 121 * 0.9
	assert.True(t, it.Subtotal().Equal(dec("217.8")), "subtotal = %s", it.Subtotal())
}

func TestCompute_FullBonusContributesNothing(t *testing.T) {
	items := []fiscal.Item{
		{Quantity: dec("4"), UnitPrice: dec("25"), BonusPercentage: dec("100"), AliquotID: 5},
	}

	totals, _, err := fiscal.Compute(items, nil, testRates)
	require.NoError(t, err)
	assert.True(t, totals.Total.IsZero())
}

func TestTaxLine_Total(t *testing.T) {
	precomputed := fiscal.TaxLine{NetAmount: dec("1000"), Rate: dec("3.5"), TotalAmount: dec("40")}
	assert.True(t, precomputed.Total().Equal(dec("40")))

	derived := fiscal.TaxLine{NetAmount: dec("1000"), Rate: dec("3.5")}
	assert.True(t, derived.Total().Equal(dec("35")))
}

func TestBestEffort_FallsBackForUnknownIDs(t *testing.T) {
	rates := fiscal.BestEffort(testRates, dec("21"))

	known, ok := rates.AliquotRate(4)
	assert.True(t, ok)
	assert.True(t, known.Equal(dec("10.5")))

	unknown, ok := rates.AliquotRate(42)
	assert.True(t, ok)
	assert.True(t, unknown.Equal(dec("21")))
}
