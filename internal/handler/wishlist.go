package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/wishlist"
	"github.com/xenking/storefront/internal/session"
)

// wishlistIDs reads the saved product ids of s.
func wishlistIDs(s *session.Session) ([]string, error) {
	var ids []string
	err := s.Do(nil, func(_ *cart.Ledger, wl *wishlist.Set) error {
		ids = wl.IDs()
		return nil
	})
	return ids, err
}

// GetWishlist returns the product ids saved by a session.
func (h *Handler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessions.Get(r.PathValue("sid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	ids, err := wishlistIDs(s)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("items")
		encodeStrings(e, ids)
		e.FieldStart("count")
		e.Int(len(ids))
		e.ObjEnd()
	})
}

// ToggleWishlist flips the wishlist membership of a catalog product.
func (h *Handler) ToggleWishlist(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	s, err := h.sessions.Get(r.PathValue("sid"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	productID := r.PathValue("productId")
	if _, err := h.products.GetByID(ctx, productID); err != nil {
		if !errors.Is(err, product.ErrNotFound) {
			err = errors.Wrap(err, "get product")
		}
		writeError(w, r, err)
		return
	}

	var (
		events collector
		added  bool
		ids    []string
	)
	if err := s.Do(&events, func(_ *cart.Ledger, wl *wishlist.Set) error {
		added = wl.Toggle(productID)
		ids = wl.IDs()
		return nil
	}); err != nil {
		writeError(w, r, err)
		return
	}

	h.wishlistToggles.Add(ctx, 1)
	events.publish(ctx, s.ID)

	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("productId")
		e.Str(productID)
		e.FieldStart("inWishlist")
		e.Bool(added)
		e.FieldStart("items")
		encodeStrings(e, ids)
		encodeNotifications(e, events.items)
		e.ObjEnd()
	})
}
