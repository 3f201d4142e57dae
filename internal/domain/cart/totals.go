package cart

import "github.com/shopspring/decimal"

var (
	// TaxRate is the flat sales tax applied to the subtotal.
	TaxRate = decimal.RequireFromString("0.08")
	// FreeShippingThreshold is the subtotal that must be exceeded (strictly)
	// for shipping to be free.
	FreeShippingThreshold = decimal.RequireFromString("50.00")
	// ShippingFee is charged when the subtotal does not exceed the threshold.
	ShippingFee = decimal.RequireFromString("9.99")
)

// Totals is the derived money summary of a ledger. Values are unrounded;
// callers round to two decimals when rendering.
type Totals struct {
	Subtotal                 decimal.Decimal
	Tax                      decimal.Decimal
	Shipping                 decimal.Decimal
	Total                    decimal.Decimal
	ItemCount                int
	RemainingForFreeShipping decimal.Decimal
}

// FreeShipping reports whether no shipping fee applies.
func (t Totals) FreeShipping() bool { return t.Shipping.IsZero() }

// ComputeTotals derives totals from snapshot prices. It has no side effects.
//
// An empty list still pays the shipping fee, since 0 is not greater than
// the threshold.
func ComputeTotals(items []LineItem) Totals {
	subtotal := decimal.Zero
	count := 0
	for _, item := range items {
		subtotal = subtotal.Add(item.LineTotal())
		count += item.Quantity
	}

	shipping := ShippingFee
	if subtotal.GreaterThan(FreeShippingThreshold) {
		shipping = decimal.Zero
	}

	tax := subtotal.Mul(TaxRate)
	remaining := FreeShippingThreshold.Sub(subtotal)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}

	return Totals{
		Subtotal:                 subtotal,
		Tax:                      tax,
		Shipping:                 shipping,
		Total:                    subtotal.Add(tax).Add(shipping),
		ItemCount:                count,
		RemainingForFreeShipping: remaining,
	}
}
