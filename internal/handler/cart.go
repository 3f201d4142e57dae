package handler

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/wishlist"
	"github.com/xenking/storefront/internal/session"
)

// cartView is a consistent snapshot of a ledger taken under the session lock.
type cartView struct {
	items  []cart.LineItem
	totals cart.Totals
}

func viewOf(l *cart.Ledger) cartView {
	items := l.Items()
	return cartView{items: items, totals: cart.ComputeTotals(items)}
}

// CreateSession starts a session with an empty cart and wishlist.
func (h *Handler) CreateSession(w http.ResponseWriter, _ *http.Request) {
	s := h.sessions.Create()
	writeJSON(w, http.StatusCreated, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("id")
		e.Str(s.ID)
		e.FieldStart("createdAt")
		e.Str(s.CreatedAt.UTC().Format(time.RFC3339))
		e.ObjEnd()
	})
}

// DeleteSession ends a session, discarding its cart and wishlist.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if !h.sessions.Delete(r.PathValue("sid")) {
		writeError(w, r, session.ErrNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetCart returns the cart view of a session.
func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	h.mutateCart(w, r, "", func(l *cart.Ledger) error { return nil })
}

// AddCartItem adds one unit of the product named in the {"productId"} body.
func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var productID string
	if err := decodeObject(r, func(d *jx.Decoder, key string) error {
		if key != "productId" {
			return d.Skip()
		}
		v, err := d.Str()
		productID = v
		return err
	}); err != nil {
		writeError(w, r, err)
		return
	}
	if productID == "" {
		writeError(w, r, badRequest("productId required"))
		return
	}

	p, err := h.products.GetByID(r.Context(), productID)
	if err != nil {
		if !errors.Is(err, product.ErrNotFound) {
			err = errors.Wrap(err, "get product")
		}
		writeError(w, r, err)
		return
	}

	h.mutateCart(w, r, "add", func(l *cart.Ledger) error {
		l.Add(*p)
		return nil
	})
}

// SetCartItemQuantity replaces the quantity of an item from the
// {"quantity"} body. Zero or negative quantities remove the item.
func (h *Handler) SetCartItemQuantity(w http.ResponseWriter, r *http.Request) {
	var (
		quantity int
		seen     bool
	)
	if err := decodeObject(r, func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		v, err := d.Int()
		quantity, seen = v, true
		return err
	}); err != nil {
		writeError(w, r, err)
		return
	}
	if !seen {
		writeError(w, r, badRequest("quantity required"))
		return
	}

	id := r.PathValue("id")
	h.mutateCart(w, r, "set_quantity", func(l *cart.Ledger) error {
		_, err := l.SetQuantity(id, quantity)
		return err
	})
}

// RemoveCartItem deletes an item from the cart.
func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	h.mutateCart(w, r, "remove", func(l *cart.Ledger) error {
		_, err := l.Remove(id)
		return err
	})
}

// mutateCart runs fn against the session ledger and writes the resulting cart
// view. An empty op marks a read.
func (h *Handler) mutateCart(w http.ResponseWriter, r *http.Request, op string, fn func(l *cart.Ledger) error) {
	ctx := r.Context()
	s, err := h.sessions.Get(r.PathValue("sid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	var (
		events collector
		view   cartView
	)
	if err := s.Do(&events, func(l *cart.Ledger, _ *wishlist.Set) error {
		if err := fn(l); err != nil {
			return err
		}
		view = viewOf(l)
		return nil
	}); err != nil {
		writeError(w, r, err)
		return
	}

	if op != "" {
		h.cartMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
	events.publish(ctx, s.ID)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		encodeCart(e, view, events.items)
	})
}

func encodeCart(e *jx.Encoder, v cartView, ns []notification) {
	empty := len(v.items) == 0

	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, li := range v.items {
		encodeLineItem(e, li)
	}
	e.ArrEnd()
	e.FieldStart("empty")
	e.Bool(empty)
	e.FieldStart("itemCount")
	e.Int(v.totals.ItemCount)
	e.FieldStart("totals")
	encodeTotals(e, v.totals)
	e.FieldStart("checkoutEnabled")
	e.Bool(!empty)
	encodeNotifications(e, ns)
	e.ObjEnd()
}
