package handler

import (
	"net/http"
	"slices"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/product"
)

// ListProducts returns the catalog filtered by the category, price and sort
// query parameters. When a session query parameter is given, products carry
// that session's wishlist membership.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := r.URL.Query()

	q, err := product.ParseQuery(params.Get("category"), params.Get("price"), params.Get("sort"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	all, err := h.products.List(ctx)
	if err != nil {
		writeError(w, r, errors.Wrap(err, "list products"))
		return
	}

	var wished []string
	if sid := params.Get("session"); sid != "" {
		s, err := h.sessions.Get(sid)
		if err != nil {
			writeError(w, r, err)
			return
		}
		if wished, err = wishlistIDs(s); err != nil {
			writeError(w, r, err)
			return
		}
	}

	matched := q.Apply(all)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("products")
		e.ArrStart()
		for _, p := range matched {
			encodeProduct(e, p, slices.Contains(wished, p.ID))
		}
		e.ArrEnd()
		e.FieldStart("count")
		e.Int(len(matched))
		e.FieldStart("filtered")
		e.Bool(q.Active())
		e.FieldStart("categories")
		encodeStrings(e, append([]string{product.CategoryAll}, product.Categories(all)...))
		e.FieldStart("priceRanges")
		e.ArrStart()
		for _, pr := range product.PriceRanges {
			e.ObjStart()
			e.FieldStart("value")
			e.Str(pr.Key)
			e.FieldStart("label")
			e.Str(pr.Label)
			e.ObjEnd()
		}
		e.ArrEnd()
		e.ObjEnd()
	})
}

// GetProduct returns a single product by ID.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if !errors.Is(err, product.ErrNotFound) {
			err = errors.Wrap(err, "get product")
		}
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeProduct(e, *p, false)
	})
}
