package invoice

import (
	"github.com/shopspring/decimal"

	"oflo/internal/core/types"
	"oflo/pkg/gstin"
)

// DetermineTaxType picks IGST when supplier and place of supply are in
// different states. The place of supply defaults to the buyer's GSTIN state.
// Missing state information means intra-state.
func DetermineTaxType(sellerGSTIN, buyerGSTIN, placeOfSupply string) TaxType {
	from := gstin.StateCode(sellerGSTIN)
	to := placeOfSupply
	if to == "" {
		to = gstin.StateCode(buyerGSTIN)
	}
	if from == "" || to == "" || from == to {
		return TaxCGSTSGST
	}
	return TaxIGST
}

// PriceItems fills TaxAmount and TotalAmount of every line in place.
func PriceItems(items []Item) {
	for i := range items {
		it := &items[i]
		taxable := it.Taxable()
		it.TaxAmount = types.RoundPaise(types.Percent(taxable, it.TaxRate))
		it.TotalAmount = types.RoundPaise(taxable).Add(it.TaxAmount)
	}
}

// Calculate prices items and derives the totals. The grand total is rounded
// to whole rupees; the difference is recorded as RoundOff.
func Calculate(items []Item, taxType TaxType) Financials {
	PriceItems(items)

	subTotal := decimal.Zero
	tax := decimal.Zero
	for i := range items {
		subTotal = subTotal.Add(types.RoundPaise(items[i].Taxable()))
		tax = tax.Add(items[i].TaxAmount)
	}

	exact := subTotal.Add(tax)
	grand := types.RoundRupees(exact)
	return Financials{
		SubTotal:   subTotal,
		TotalTax:   tax,
		GrandTotal: grand,
		TaxType:    taxType,
		RoundOff:   grand.Sub(exact),
	}
}

// BuildSummary derives the consolidated row: description, HSN, price and
// rate come from the first line; bags, quantity, tax and total are summed.
// Returns nil for no items.
func BuildSummary(items []Item) *SummaryItem {
	if len(items) == 0 {
		return nil
	}
	first := items[0]
	s := &SummaryItem{
		Description: first.Description,
		HSN:         first.HSN,
		UnitPrice:   first.UnitPrice,
		TaxRate:     first.TaxRate,
	}
	for _, it := range items {
		s.NumberOfBags = s.NumberOfBags.Add(it.NumberOfBags)
		s.Quantity = s.Quantity.Add(it.Quantity)
		s.TaxAmount = s.TaxAmount.Add(it.TaxAmount)
		s.TotalAmount = s.TotalAmount.Add(it.TotalAmount)
	}
	return s
}
