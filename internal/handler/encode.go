package handler

import (
	"io"
	"net/http"

	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/product"
)

const maxBodySize = 64 << 10

func writeJSON(w http.ResponseWriter, status int, fn func(e *jx.Encoder)) {
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	fn(e)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// decodeObject reads the request body as a JSON object and calls fn for each
// field. Any failure is a *BadRequestError.
func decodeObject(r *http.Request, fn func(d *jx.Decoder, key string) error) error {
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return badRequest("read body: %v", err)
	}
	if len(data) == 0 {
		return badRequest("request body required")
	}
	if err := jx.DecodeBytes(data).Obj(fn); err != nil {
		return badRequest("invalid body: %v", err)
	}
	return nil
}

// money renders d rounded to cents as a JSON number.
func money(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.StringFixed(2)))
}

func encodeProduct(e *jx.Encoder, p product.Product, inWishlist bool) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(p.ID)
	e.FieldStart("name")
	e.Str(p.Name)
	e.FieldStart("price")
	money(e, p.Price)
	if p.OriginalPrice.Valid {
		e.FieldStart("originalPrice")
		money(e, p.OriginalPrice.Decimal)
	}
	e.FieldStart("rating")
	e.Float64(p.Rating)
	e.FieldStart("reviews")
	e.Int(p.Reviews)
	e.FieldStart("image")
	e.Str(p.Image)
	e.FieldStart("category")
	e.Str(p.Category)
	if d, ok := product.ResolveDiscount(p); ok {
		e.FieldStart("discount")
		e.Int(d.Percent())
	}
	if p.Badge != "" {
		e.FieldStart("badge")
		e.Str(p.Badge)
	}
	e.FieldStart("inWishlist")
	e.Bool(inWishlist)
	e.ObjEnd()
}

func encodeLineItem(e *jx.Encoder, li cart.LineItem) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(li.ID)
	e.FieldStart("name")
	e.Str(li.Name)
	e.FieldStart("price")
	money(e, li.Price)
	if li.OriginalPrice.Valid {
		e.FieldStart("originalPrice")
		money(e, li.OriginalPrice.Decimal)
	}
	e.FieldStart("image")
	e.Str(li.Image)
	e.FieldStart("category")
	e.Str(li.Category)
	e.FieldStart("quantity")
	e.Int(li.Quantity)
	e.FieldStart("lineTotal")
	money(e, li.LineTotal())
	e.ObjEnd()
}

func encodeTotals(e *jx.Encoder, t cart.Totals) {
	e.ObjStart()
	e.FieldStart("subtotal")
	money(e, t.Subtotal)
	e.FieldStart("tax")
	money(e, t.Tax)
	e.FieldStart("shipping")
	money(e, t.Shipping)
	e.FieldStart("shippingLabel")
	if t.FreeShipping() {
		e.Str("Free")
	} else {
		e.Str("$" + t.Shipping.StringFixed(2))
	}
	e.FieldStart("freeShipping")
	e.Bool(t.FreeShipping())
	e.FieldStart("remainingForFreeShipping")
	money(e, t.RemainingForFreeShipping)
	e.FieldStart("total")
	money(e, t.Total)
	e.ObjEnd()
}

func encodeNotifications(e *jx.Encoder, ns []notification) {
	e.FieldStart("notifications")
	e.ArrStart()
	for _, n := range ns {
		e.ObjStart()
		e.FieldStart("kind")
		e.Str(n.Kind)
		e.FieldStart("title")
		e.Str(n.Title)
		e.FieldStart("description")
		e.Str(n.Description)
		e.ObjEnd()
	}
	e.ArrEnd()
}

func encodeStrings(e *jx.Encoder, ss []string) {
	e.ArrStart()
	for _, s := range ss {
		e.Str(s)
	}
	e.ArrEnd()
}
