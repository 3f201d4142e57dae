package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel/metric"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/session"
)

// Handler serves the storefront JSON API: the catalog, and the cart and
// wishlist of each session.
type Handler struct {
	products product.Repository
	sessions *session.Store

	cartMutations   metric.Int64Counter
	wishlistToggles metric.Int64Counter
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	products product.Repository,
	sessions *session.Store,
	mp metric.MeterProvider,
) (*Handler, error) {
	meter := mp.Meter("github.com/xenking/storefront/internal/handler")

	cartMutations, err := meter.Int64Counter("storefront.cart.mutations",
		metric.WithDescription("Cart ledger mutations by operation"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "cart mutations counter")
	}
	wishlistToggles, err := meter.Int64Counter("storefront.wishlist.toggles",
		metric.WithDescription("Wishlist membership toggles"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "wishlist toggles counter")
	}

	return &Handler{
		products:        products,
		sessions:        sessions,
		cartMutations:   cartMutations,
		wishlistToggles: wishlistToggles,
	}, nil
}

// Register mounts all API routes on mux under /api.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/products", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}", h.GetProduct)

	mux.HandleFunc("POST /api/sessions", h.CreateSession)
	mux.HandleFunc("DELETE /api/sessions/{sid}", h.DeleteSession)

	mux.HandleFunc("GET /api/sessions/{sid}/cart", h.GetCart)
	mux.HandleFunc("POST /api/sessions/{sid}/cart/items", h.AddCartItem)
	mux.HandleFunc("PUT /api/sessions/{sid}/cart/items/{id}", h.SetCartItemQuantity)
	mux.HandleFunc("DELETE /api/sessions/{sid}/cart/items/{id}", h.RemoveCartItem)

	mux.HandleFunc("GET /api/sessions/{sid}/wishlist", h.GetWishlist)
	mux.HandleFunc("POST /api/sessions/{sid}/wishlist/{productId}", h.ToggleWishlist)
}
