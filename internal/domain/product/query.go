package product

import (
	"cmp"
	"slices"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidPriceRange is returned for a price range that is not one of
	// the PriceRanges values.
	ErrInvalidPriceRange = errors.New("invalid price range")
	// ErrInvalidSort is returned for an unknown sort order.
	ErrInvalidSort = errors.New("invalid sort order")
)

// CategoryAll disables category filtering.
const CategoryAll = "all"

// Sort is a catalog ordering.
type Sort string

const (
	SortFeatured  Sort = "featured"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortRating    Sort = "rating"
	SortReviews   Sort = "reviews"
)

// PriceRange bounds the unit price, inclusive on both ends. A zero Max with
// Bounded false means no upper limit.
type PriceRange struct {
	Key     string
	Label   string
	Min     decimal.Decimal
	Max     decimal.Decimal
	Bounded bool
}

// Contains reports whether price falls into the range.
func (r PriceRange) Contains(price decimal.Decimal) bool {
	if price.LessThan(r.Min) {
		return false
	}
	return !r.Bounded || price.LessThanOrEqual(r.Max)
}

// PriceRanges lists the selectable ranges in display order. "all" is
// represented by the absence of a range.
var PriceRanges = []PriceRange{
	{Key: "0-50", Label: "Under $50", Min: decimal.Zero, Max: decimal.NewFromInt(50), Bounded: true},
	{Key: "50-200", Label: "$50 - $200", Min: decimal.NewFromInt(50), Max: decimal.NewFromInt(200), Bounded: true},
	{Key: "200-500", Label: "$200 - $500", Min: decimal.NewFromInt(200), Max: decimal.NewFromInt(500), Bounded: true},
	{Key: "500+", Label: "$500+", Min: decimal.NewFromInt(500)},
}

// Query filters and orders a product list.
type Query struct {
	Category string
	Price    *PriceRange
	Sort     Sort
}

// ParseQuery builds a Query from raw selector values. Empty values mean "all"
// and "featured".
func ParseQuery(category, priceRange, sortBy string) (Query, error) {
	q := Query{Category: strings.TrimSpace(category), Sort: SortFeatured}
	if q.Category == CategoryAll {
		q.Category = ""
	}

	if priceRange != "" && priceRange != "all" {
		idx := slices.IndexFunc(PriceRanges, func(r PriceRange) bool { return r.Key == priceRange })
		if idx < 0 {
			return Query{}, errors.Wrapf(ErrInvalidPriceRange, "%q", priceRange)
		}
		r := PriceRanges[idx]
		q.Price = &r
	}

	switch s := Sort(sortBy); s {
	case "":
	case SortFeatured, SortPriceLow, SortPriceHigh, SortRating, SortReviews:
		q.Sort = s
	default:
		return Query{}, errors.Wrapf(ErrInvalidSort, "%q", sortBy)
	}

	return q, nil
}

// Active reports whether the query differs from the default view.
func (q Query) Active() bool {
	return q.Category != "" || q.Price != nil || q.Sort != SortFeatured
}

// Apply returns the products matching q in q's order. The input is not
// modified.
func (q Query) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if q.Category != "" && p.Category != q.Category {
			continue
		}
		if q.Price != nil && !q.Price.Contains(p.Price) {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceLow:
		slices.SortStableFunc(out, func(a, b Product) int { return a.Price.Cmp(b.Price) })
	case SortPriceHigh:
		slices.SortStableFunc(out, func(a, b Product) int { return b.Price.Cmp(a.Price) })
	case SortRating:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(b.Rating, a.Rating) })
	case SortReviews:
		slices.SortStableFunc(out, func(a, b Product) int { return cmp.Compare(b.Reviews, a.Reviews) })
	}
	return out
}

// Categories returns the distinct category labels in catalog order.
func Categories(products []Product) []string {
	var out []string
	for _, p := range products {
		if !slices.Contains(out, p.Category) {
			out = append(out, p.Category)
		}
	}
	return out
}
