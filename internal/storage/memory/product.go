// Package memory implements the domain repositories on top of immutable
// in-process data.
package memory

import (
	"context"
	"slices"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/product"
)

var _ product.Repository = (*ProductRepository)(nil)

// ProductRepository serves a fixed product list.
type ProductRepository struct {
	products []product.Product
	byID     map[string]int
}

// NewProductRepository returns a repository over products. Product ids must be
// unique and prices non-negative.
func NewProductRepository(products []product.Product) (*ProductRepository, error) {
	byID := make(map[string]int, len(products))
	for i, p := range products {
		if p.ID == "" {
			return nil, errors.Errorf("product at index %d has empty id", i)
		}
		if _, dup := byID[p.ID]; dup {
			return nil, errors.Errorf("duplicate product id %q", p.ID)
		}
		if p.Price.IsNegative() {
			return nil, errors.Errorf("product %q has negative price", p.ID)
		}
		byID[p.ID] = i
	}
	return &ProductRepository{
		products: slices.Clone(products),
		byID:     byID,
	}, nil
}

// LoadProductRepository decodes a JSON product array and wraps it in a
// repository.
func LoadProductRepository(data []byte) (*ProductRepository, error) {
	products, err := DecodeProducts(data)
	if err != nil {
		return nil, err
	}
	return NewProductRepository(products)
}

// List returns all products in catalog order.
func (r *ProductRepository) List(_ context.Context) ([]product.Product, error) {
	return slices.Clone(r.products), nil
}

// GetByID returns a single product by its identifier.
func (r *ProductRepository) GetByID(_ context.Context, id string) (*product.Product, error) {
	i, ok := r.byID[id]
	if !ok {
		return nil, product.ErrNotFound
	}
	p := r.products[i]
	return &p, nil
}

// Len returns the catalog size.
func (r *ProductRepository) Len() int { return len(r.products) }

// DecodeProducts parses the seed format: an array of objects with id, name,
// price, originalPrice, rating, reviews, image, category, discount and badge.
// Unknown fields are skipped.
func DecodeProducts(data []byte) ([]product.Product, error) {
	var out []product.Product
	d := jx.DecodeBytes(data)
	if err := d.Arr(func(d *jx.Decoder) error {
		p, err := decodeProduct(d)
		if err != nil {
			return err
		}
		out = append(out, p)
		return nil
	}); err != nil {
		return nil, errors.Wrap(err, "decode products")
	}
	return out, nil
}

func decodeProduct(d *jx.Decoder) (product.Product, error) {
	var p product.Product
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			p.ID, err = d.Str()
		case "name":
			p.Name, err = d.Str()
		case "price":
			p.Price, err = decodeDecimal(d)
		case "originalPrice":
			if d.Next() == jx.Null {
				return d.Null()
			}
			var v decimal.Decimal
			v, err = decodeDecimal(d)
			p.OriginalPrice = decimal.NewNullDecimal(v)
		case "rating":
			p.Rating, err = d.Float64()
		case "reviews":
			p.Reviews, err = d.Int()
		case "image":
			p.Image, err = d.Str()
		case "category":
			p.Category, err = d.Str()
		case "discount":
			p.DiscountPercent, err = d.Int()
		case "badge":
			p.Badge, err = d.Str()
		default:
			return d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "field %q", key)
		}
		return nil
	})
	return p, err
}

func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	return decimal.NewFromString(string(n))
}
