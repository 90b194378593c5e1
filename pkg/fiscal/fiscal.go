package fiscal

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// Reserved IVA aliquot ids. Items carrying these ids are excluded from IVA
// grouping and routed to the untaxed/exempt running totals instead.
const (
	AliquotExempt  = 98 // "Exento"
	AliquotUntaxed = 99 // "No gravado"
)

var oneHundred = decimal.NewFromInt(100)

// RateTable resolves an IVA aliquot id to its percentage rate.
// Implementations return ok=false for ids they do not know; the engine
// never guesses a rate for a financial computation.
type RateTable interface {
	AliquotRate(id int) (decimal.Decimal, bool)
}

// UnknownAliquotError is returned when an item references an aliquot id
// the rate table cannot resolve.
type UnknownAliquotError struct {
	AliquotID int
}

func (e *UnknownAliquotError) Error() string {
	return fmt.Sprintf("fiscal: unknown IVA aliquot id %d", e.AliquotID)
}

// Item is one invoice line as the engine sees it.
type Item struct {
	Code            string
	Description     string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
	IvaAmount       decimal.Decimal // per-unit IVA, used for IVA-inclusive display pricing
	BonusPercentage decimal.Decimal
	MetricUnit      string
	AliquotID       int
}

// UnitPriceWithIva returns the displayed unit price, IVA included.
func (it Item) UnitPriceWithIva() decimal.Decimal {
	return it.UnitPrice.Add(it.IvaAmount)
}

// Subtotal is the displayed line subtotal:
// quantity * (unit_price + iva_per_unit) * (1 - bonus/100).
func (it Item) Subtotal() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPriceWithIva()).Mul(it.bonusFactor())
}

// netContribution is the line's contribution to the taxable base,
// computed on the net unit price.
func (it Item) netContribution() decimal.Decimal {
	return it.Quantity.Mul(it.UnitPrice).Mul(it.bonusFactor())
}

func (it Item) bonusFactor() decimal.Decimal {
	return oneHundred.Sub(it.BonusPercentage).Div(oneHundred)
}

// TaxLine is one non-IVA tribute applied to the invoice.
type TaxLine struct {
	ID          int
	Description string
	NetAmount   decimal.Decimal
	Rate        decimal.Decimal
	TotalAmount decimal.Decimal
}

// Total returns the tribute amount, computing net*rate/100 when the caller
// did not supply a precomputed total.
func (t TaxLine) Total() decimal.Decimal {
	if !t.TotalAmount.IsZero() {
		return round2(t.TotalAmount)
	}
	return round2(t.NetAmount.Mul(t.Rate).Div(oneHundred))
}

// IvaDetail is the IVA breakdown for one aliquot: the net amount taxed at
// that aliquot and the resulting IVA.
type IvaDetail struct {
	AliquotID   int
	NetAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// Totals holds the aggregate amounts that must reconcile across the
// document: Total = Net + Untaxed + Exempt + Iva + Tax.
type Totals struct {
	Net     decimal.Decimal
	Iva     decimal.Decimal
	Untaxed decimal.Decimal
	Exempt  decimal.Decimal
	Tax     decimal.Decimal
	Total   decimal.Decimal
}

// Compute derives the invoice aggregates and the per-aliquot IVA detail
// rows from raw items and taxes. All monetary outputs are rounded half-up
// to 2 decimals at the point of aggregation, never earlier; detail rows are
// ordered by aliquot id so the result does not depend on item ordering.
func Compute(items []Item, taxes []TaxLine, rates RateTable) (Totals, []IvaDetail, error) {
	var net, untaxed, exempt decimal.Decimal

	type group struct {
		net  decimal.Decimal
		rate decimal.Decimal
	}
	groups := map[int]*group{}

	for _, it := range items {
		contribution := it.netContribution()

		switch it.AliquotID {
		case AliquotUntaxed:
			untaxed = untaxed.Add(contribution)
		case AliquotExempt:
			exempt = exempt.Add(contribution)
		default:
			net = net.Add(contribution)
			g, ok := groups[it.AliquotID]
			if !ok {
				rate, found := rates.AliquotRate(it.AliquotID)
				if !found {
					return Totals{}, nil, &UnknownAliquotError{AliquotID: it.AliquotID}
				}
				g = &group{rate: rate}
				groups[it.AliquotID] = g
			}
			g.net = g.net.Add(contribution)
		}
	}

	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	details := make([]IvaDetail, 0, len(ids))
	iva := decimal.Zero
	for _, id := range ids {
		g := groups[id]
		total := round2(g.net.Mul(g.rate).Div(oneHundred))
		details = append(details, IvaDetail{
			AliquotID:   id,
			NetAmount:   round2(g.net),
			TotalAmount: total,
		})
		iva = iva.Add(total)
	}

	tax := decimal.Zero
	for _, t := range taxes {
		tax = tax.Add(t.Total())
	}

	totals := Totals{
		Net:     round2(net),
		Iva:     iva,
		Untaxed: round2(untaxed),
		Exempt:  round2(exempt),
		Tax:     tax,
	}
	totals.Total = totals.Net.Add(totals.Untaxed).Add(totals.Exempt).Add(totals.Iva).Add(totals.Tax)

	return totals, details, nil
}

// round2 rounds half away from zero to 2 decimals; amounts here are
// non-negative, so this is standard half-up rounding.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// bestEffortRates decorates a RateTable with a fallback rate for unknown
// aliquot ids. Preview and test renders use it so synthetic data never
// aborts; production paths must use the strict table directly.
type bestEffortRates struct {
	rates    RateTable
	fallback decimal.Decimal
}

// BestEffort wraps rates so that unknown aliquot ids resolve to fallback
// instead of failing.
func BestEffort(rates RateTable, fallback decimal.Decimal) RateTable {
	return &bestEffortRates{rates: rates, fallback: fallback}
}

func (b *bestEffortRates) AliquotRate(id int) (decimal.Decimal, bool) {
	if rate, ok := b.rates.AliquotRate(id); ok {
		return rate, true
	}
	return b.fallback, true
}
