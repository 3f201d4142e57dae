package product

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Discount is the resolved discount of a product: either ExplicitDiscount or
// DerivedDiscount.
type Discount interface {
	// Percent returns the whole-number percentage shown to the customer.
	Percent() int
	isDiscount()
}

// ExplicitDiscount is a percentage set directly on the product.
type ExplicitDiscount struct {
	Pct int
}

// Percent returns Pct.
func (d ExplicitDiscount) Percent() int {
	return d.Pct
}

func (ExplicitDiscount) isDiscount() {}

// DerivedDiscount is computed from the original and current price.
type DerivedDiscount struct {
	Original decimal.Decimal
	Price    decimal.Decimal
}

// Percent returns round((Original - Price) / Original * 100).
func (d DerivedDiscount) Percent() int {
	if !d.Original.IsPositive() {
		return 0
	}
	pct := d.Original.Sub(d.Price).Div(d.Original).Mul(hundred).Round(0)
	return int(pct.IntPart())
}

func (DerivedDiscount) isDiscount() {}

// ResolveDiscount picks the discount to display for p. An original price takes
// precedence over an explicit percentage. It returns false when the product
// has no discount worth showing.
func ResolveDiscount(p Product) (Discount, bool) {
	var d Discount
	switch {
	case p.OriginalPrice.Valid:
		d = DerivedDiscount{Original: p.OriginalPrice.Decimal, Price: p.Price}
	case p.DiscountPercent != 0:
		d = ExplicitDiscount{Pct: p.DiscountPercent}
	default:
		return nil, false
	}
	if d.Percent() == 0 {
		return nil, false
	}
	return d, true
}
