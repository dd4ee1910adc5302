package billing

import (
	"github.com/shopspring/decimal"
)

// Totals aggregates the derived financial fields of a billing document.
// The three fields are always computed together from line items and tax
// rate; they are never edited independently.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// ComputeLineTotal computes the total for a single line: quantity * unitPrice.
// No currency rounding is applied at this stage.
func ComputeLineTotal(quantity, unitPrice decimal.Decimal) decimal.Decimal {
	return quantity.Mul(unitPrice)
}

// ComputeTotals aggregates line items into subtotal, tax amount and total
// given a tax rate expressed as a fraction (0.13 = 13%).
//
// Items are accumulated in sequence order. An empty slice yields zero for
// all three fields. The tax rate is trusted as given; range validation
// belongs to the input boundary.
func ComputeTotals(items []LineItem, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.Amount)
	}
	taxAmount := subtotal.Mul(taxRate)
	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     subtotal.Add(taxAmount),
	}
}

// Round returns the totals rounded to currency precision (2 decimals).
// Used only at the persistence/display boundary.
func (t Totals) Round() Totals {
	return Totals{
		Subtotal:  t.Subtotal.Round(2),
		TaxAmount: t.TaxAmount.Round(2),
		Total:     t.Total.Round(2),
	}
}
