package product

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested product does not exist.
var ErrNotFound = errors.New("product not found")

// Product is immutable catalog reference data.
type Product struct {
	ID            string
	Name          string
	Price         decimal.Decimal
	OriginalPrice decimal.NullDecimal
	Rating        float64
	Reviews       int
	Image         string
	Category      string
	// DiscountPercent is an explicit "% OFF" label. Zero means none.
	DiscountPercent int
	Badge           string
}

// Repository defines read operations for the product catalog.
type Repository interface {
	List(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}
